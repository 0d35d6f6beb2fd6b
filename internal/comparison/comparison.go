// Package comparison finds, for a submission, the rival ranked exactly
// one spot better, and how much closer the player needed to be.
package comparison

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/travelpics/tpg/internal/geodist"
	"github.com/travelpics/tpg/internal/tpg"
)

// ErrUnscoredByScore is returned when a by-score comparison is asked of
// a round that has not been scored yet.
var ErrUnscoredByScore = eris.New("comparison: round is not scored, score it first to compare by score")

// Difference compares a player's submission against its rival, the
// submission one rank better. Produced on demand, never persisted.
type Difference struct {
	// RoundName is the display name of the round being compared.
	RoundName string
	// Target of the round.
	Target tpg.Coordinate
	// NumPlayers is the total number of submissions in the round.
	NumPlayers int

	// Player is the perspective we follow.
	Player            string
	PlayerPic         tpg.Coordinate
	PlayerDescription string
	// PlayerScore is nil for unscored or hypothetical comparisons.
	PlayerScore    *float64
	PlayerDistance float64
	// PlayerPlacing is the player's 1-based rank among all submissions.
	PlayerPlacing int

	// Rival is whoever placed one spot above the player.
	Rival            string
	RivalPic         tpg.Coordinate
	RivalDescription string
	RivalScore       *float64
	RivalDistance    float64
}

// ScoreDiff returns how many points the rival finished ahead by (rival
// minus player), or nil when either score is unknown.
func (d Difference) ScoreDiff() *float64 {
	if d.PlayerScore == nil || d.RivalScore == nil {
		return nil
	}
	return tpg.Float64(*d.RivalScore - *d.PlayerScore)
}

// DistanceDiff returns how many metres farther from the target the
// player was than the rival. Never negative for real adjacent ranks.
func (d Difference) DistanceDiff() float64 {
	return d.PlayerDistance - d.RivalDistance
}

// rankedSubmission pairs a submission with the distance used to order it.
type rankedSubmission struct {
	sub      tpg.Submission
	distance float64
}

// sortSubmissions orders a round's submissions best-first: by score
// descending when byScore is set (requires a scored round), otherwise
// by distance ascending, computing distances in one batch if the round
// has none yet.
func sortSubmissions(r tpg.Round, byScore bool, metric geodist.Metric) ([]rankedSubmission, error) {
	if byScore && !r.IsScored() {
		return nil, ErrUnscoredByScore
	}

	ranked := make([]rankedSubmission, len(r.Submissions))
	if r.IsScored() {
		for i, sub := range r.Submissions {
			ranked[i] = rankedSubmission{sub: sub, distance: *sub.Distance}
		}
	} else {
		lats := make([]float64, len(r.Submissions))
		lngs := make([]float64, len(r.Submissions))
		for i, sub := range r.Submissions {
			lats[i] = sub.Latitude
			lngs[i] = sub.Longitude
		}
		distances := metric.BatchDistance(r.Latitude, r.Longitude, lats, lngs)
		for i, sub := range r.Submissions {
			ranked[i] = rankedSubmission{sub: sub, distance: distances[i]}
		}
	}

	if byScore {
		sort.SliceStable(ranked, func(a, b int) bool {
			return *ranked[a].sub.Score > *ranked[b].sub.Score
		})
	} else {
		sort.SliceStable(ranked, func(a, b int) bool {
			return ranked[a].distance < ranked[b].distance
		})
	}
	return ranked, nil
}

func difference(r tpg.Round, player, rival rankedSubmission, placing, total int) Difference {
	return Difference{
		RoundName:         r.DisplayName(),
		Target:            r.Target(),
		NumPlayers:        total,
		Player:            player.sub.Name,
		PlayerPic:         player.sub.Coordinate(),
		PlayerDescription: player.sub.Description,
		PlayerScore:       player.sub.Score,
		PlayerDistance:    player.distance,
		PlayerPlacing:     placing,
		Rival:             rival.sub.Name,
		RivalPic:          rival.sub.Coordinate(),
		RivalDescription:  rival.sub.Description,
		RivalScore:        rival.sub.Score,
		RivalDistance:     rival.distance,
	}
}

// NextHighest returns the comparison between the named player's
// submission and its rival, or nil if the player holds rank 1 (winning
// has no rival) or did not submit this round. byScore requires a
// scored round; otherwise ordering is by distance under the metric.
func NextHighest(r tpg.Round, name string, byScore bool, metric geodist.Metric) (*Difference, error) {
	if r.FindPlayer(name) == nil {
		// Not every player submits every round; no result, not an error.
		return nil, nil
	}
	ranked, err := sortSubmissions(r, byScore, metric)
	if err != nil {
		return nil, err
	}
	for i, rs := range ranked {
		if rs.sub.Name != name {
			continue
		}
		if i == 0 {
			// You won! That's allowed.
			return nil, nil
		}
		diff := difference(r, rs, ranked[i-1], i+1, len(ranked))
		return &diff, nil
	}
	return nil, nil
}

// AllNextHighest returns the comparison for every adjacent pair in the
// round, best pair first. A round with fewer than two submissions has
// no pairs.
func AllNextHighest(r tpg.Round, byScore bool, metric geodist.Metric) ([]Difference, error) {
	ranked, err := sortSubmissions(r, byScore, metric)
	if err != nil {
		return nil, err
	}
	var diffs []Difference
	for i := 1; i < len(ranked); i++ {
		diffs = append(diffs, difference(r, ranked[i], ranked[i-1], i+1, len(ranked)))
	}
	return diffs, nil
}

// AcrossRounds runs NextHighest for the named player over many rounds,
// skipping rounds they did not submit for and rounds they won.
func AcrossRounds(rounds []tpg.Round, name string, byScore bool, metric geodist.Metric) ([]Difference, error) {
	var diffs []Difference
	for _, r := range rounds {
		diff, err := NextHighest(r, name, byScore, metric)
		if err != nil {
			return nil, err
		}
		if diff != nil {
			diffs = append(diffs, *diff)
		}
	}
	return diffs, nil
}

// FindNewRival answers "if this player had submitted pic X instead,
// who would they have been chasing?". The hypothetical submission is
// not part of the round; its placement is found by binary search over
// the round's sorted distances (a tie ranks after existing equal
// distances). Score is ignored entirely. Returns nil if the new pic
// would win the round outright.
func FindNewRival(r tpg.Round, name string, pic tpg.Coordinate, description string, metric geodist.Metric) (*Difference, error) {
	ranked, err := sortSubmissions(r, false, metric)
	if err != nil {
		return nil, err
	}
	newDistance := metric.Distance(r.Latitude, r.Longitude, pic.Lat, pic.Lng)

	distances := make([]float64, len(ranked))
	for i, rs := range ranked {
		distances[i] = rs.distance
	}
	// Leftmost index with distance > newDistance, plus one for 1-based rank.
	newRank := sort.Search(len(distances), func(i int) bool {
		return distances[i] > newDistance
	}) + 1
	if newRank == 1 {
		return nil, nil
	}

	rival := ranked[newRank-2]
	diff := Difference{
		RoundName:         r.DisplayName(),
		Target:            r.Target(),
		NumPlayers:        len(ranked),
		Player:            name,
		PlayerPic:         pic,
		PlayerDescription: description,
		PlayerDistance:    newDistance,
		PlayerPlacing:     newRank,
		Rival:             rival.sub.Name,
		RivalPic:          rival.sub.Coordinate(),
		RivalDescription:  rival.sub.Description,
		RivalScore:        rival.sub.Score,
		RivalDistance:     rival.distance,
	}
	return &diff, nil
}
