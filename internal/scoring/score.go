package scoring

import (
	"math"
	"sort"

	"github.com/travelpics/tpg/internal/geodist"
	"github.com/travelpics/tpg/internal/tpg"
)

// ScoreDistances scores a whole round's distance vector at once, since
// the rank-based components are relative to every other submission in
// the round. distances are metres; isFiveK/isAntipodeFiveK must already
// be resolved (no unknowns). Returns one score per submission, in input
// order.
func ScoreDistances(distances []float64, isFiveK, isAntipodeFiveK []bool, opts Options) []float64 {
	n := len(distances)
	scores := make([]float64, n)

	for i, d := range distances {
		var distScore float64
		if opts.DistanceDivisor != nil && *opts.DistanceDivisor != 0 {
			distScore = (opts.WorldDistanceKm / 4) - ((d / 1_000) / *opts.DistanceDivisor)
		} else {
			distScore = (opts.WorldDistanceKm*1_000 - d) / 1_000
		}
		if opts.ClipNegative && distScore < 0 {
			distScore = 0
		}

		// Players beaten under max-rank tie semantics: everyone an exact
		// tie group beats is everyone strictly farther away, so the whole
		// group shares the same count.
		beaten := 0
		for j, other := range distances {
			if j != i && other > d {
				beaten++
			}
		}
		var beatenScore float64
		if n > 1 {
			beatenScore = 5000 * float64(beaten) / float64(n-1)
		}

		scores[i] = distScore + beatenScore
		if opts.AverageDistanceAndRank {
			scores[i] /= 2
		}
	}

	if len(opts.RankBonuses) > 0 {
		ranks := denseRankDescending(scores)
		for i := range scores {
			if bonus, ok := opts.RankBonuses[ranks[i]]; ok {
				scores[i] += bonus
			}
		}
	}

	for i := range scores {
		if isFiveK[i] {
			if opts.FiveKFlatScore != nil {
				scores[i] = *opts.FiveKFlatScore
			} else if opts.FiveKBonus != nil {
				scores[i] += *opts.FiveKBonus
			}
		}
		// Antipode override wins when both flags are set.
		if isAntipodeFiveK[i] && opts.AntipodeFiveKFlatScore != nil {
			scores[i] = *opts.AntipodeFiveKFlatScore
		}
	}

	if opts.RoundTo != nil {
		pow := math.Pow(10, float64(*opts.RoundTo))
		for i := range scores {
			scores[i] = math.Round(scores[i]*pow) / pow
		}
	}
	return scores
}

// denseRankDescending assigns 1-based ranks where tied values share a
// rank and the next distinct value gets the following rank, no gaps.
// Highest value ranks first.
func denseRankDescending(values []float64) []int {
	distinct := make([]float64, 0, len(values))
	seen := make(map[float64]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			distinct = append(distinct, v)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(distinct)))

	rankOf := make(map[float64]int, len(distinct))
	for i, v := range distinct {
		rankOf[v] = i + 1
	}
	ranks := make([]int, len(values))
	for i, v := range values {
		ranks[i] = rankOf[v]
	}
	return ranks
}

// ordinalRankDescending assigns each value a unique 1-based rank by
// descending value, breaking exact ties by original order.
func ordinalRankDescending(values []float64) []int {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] > values[order[b]]
	})
	ranks := make([]int, len(values))
	for pos, idx := range order {
		ranks[idx] = pos + 1
	}
	return ranks
}

// ScoreRound scores every submission in a round and returns a new Round
// with score, rank and distance populated and submissions sorted
// ascending by rank. The input round is not mutated. Distances are
// recomputed for the whole round if any submission lacks one, using
// haversine by default (the game's historical metric) or the WGS84
// geodesic otherwise. Unknown is_5k flags are resolved by comparing
// distance against fiveKThresholdKm (<= 0 disables resolution, leaving
// unknowns treated as false). Scoring an empty round is a no-op.
//
// Final ranks are ordinal: exact score ties are broken by original
// submission order. See DESIGN.md for the tie policy.
func ScoreRound(r tpg.Round, opts Options, fiveKThresholdKm float64, useHaversine bool) tpg.Round {
	n := len(r.Submissions)
	if n == 0 {
		return r
	}

	metric := geodist.MetricGeodesic
	if useHaversine {
		metric = geodist.MetricHaversine
	}

	distances := make([]float64, n)
	needRecalc := false
	for _, sub := range r.Submissions {
		if sub.Distance == nil {
			needRecalc = true
			break
		}
	}
	if needRecalc {
		lats := make([]float64, n)
		lngs := make([]float64, n)
		for i, sub := range r.Submissions {
			lats[i] = sub.Latitude
			lngs[i] = sub.Longitude
		}
		distances = metric.BatchDistance(r.Latitude, r.Longitude, lats, lngs)
	} else {
		for i, sub := range r.Submissions {
			distances[i] = *sub.Distance
		}
	}

	isFiveK := make([]bool, n)
	isAntipodeFiveK := make([]bool, n)
	for i, sub := range r.Submissions {
		switch {
		case sub.IsFiveK != nil:
			isFiveK[i] = *sub.IsFiveK
		case fiveKThresholdKm > 0:
			isFiveK[i] = distances[i]/1_000 <= fiveKThresholdKm
		}
		if sub.IsAntipodeFiveK != nil {
			isAntipodeFiveK[i] = *sub.IsAntipodeFiveK
		}
	}

	scores := ScoreDistances(distances, isFiveK, isAntipodeFiveK, opts)
	ranks := ordinalRankDescending(scores)

	scored := make([]tpg.Submission, n)
	for i, sub := range r.Submissions {
		sub.Distance = tpg.Float64(distances[i])
		sub.Score = tpg.Float64(scores[i])
		sub.Rank = tpg.Int(ranks[i])
		sub.IsFiveK = tpg.Bool(isFiveK[i])
		scored[i] = sub
	}
	sort.Slice(scored, func(a, b int) bool { return *scored[a].Rank < *scored[b].Rank })

	r.Submissions = scored
	return r
}

// ScoreRounds scores a slice of rounds with the same options, skipping
// rounds that are already fully scored.
func ScoreRounds(rounds []tpg.Round, opts Options, fiveKThresholdKm float64, useHaversine bool) []tpg.Round {
	out := make([]tpg.Round, len(rounds))
	for i, r := range rounds {
		if r.IsScored() {
			out[i] = r
			continue
		}
		out[i] = ScoreRound(r, opts, fiveKThresholdKm, useHaversine)
	}
	return out
}
