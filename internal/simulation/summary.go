package simulation

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/travelpics/tpg/internal/tpg"
)

// ErrUnscoredRound is returned when a summary is asked for rounds
// that have not been through the scoring engine.
var ErrUnscoredRound = eris.New("simulation: round is not scored")

// SubmissionSummary is one submission flattened for reporting.
type SubmissionSummary struct {
	Name        string
	Score       float64
	Distance    float64
	Location    tpg.Coordinate
	Description string
}

// RoundSummary aggregates a single scored round.
type RoundSummary struct {
	Round           string
	Players         int
	AverageScore    float64
	AverageDistance float64
	// CloserThanAverage counts submissions nearer than the round's
	// mean distance.
	CloserThanAverage int
	Winner            SubmissionSummary
	// Silver and Bronze are nil when the round has fewer than two or
	// three players.
	Silver *SubmissionSummary
	Bronze *SubmissionSummary
	// Loser is nil for single-player rounds, where the winner and the
	// loser would be the same person.
	Loser *SubmissionSummary
}

// PlayerSummary aggregates one player's results across rounds.
type PlayerSummary struct {
	Name          string
	Rounds        int
	Total         float64
	TotalDistance float64
	BestRound     string
	BestScore     float64
	WorstRound    string
	WorstScore    float64
	// TimesCloserThanAverage counts rounds where the player beat the
	// round's mean distance.
	TimesCloserThanAverage int
	RoundsWon              int
	RoundsPodiumed         int
	RoundsLost             int
	// MostUsedPic is the description (or formatted location) the
	// player submitted most often; first seen wins ties.
	MostUsedPic      string
	MostUsedPicCount int
}

func summarize(sub tpg.Submission) SubmissionSummary {
	return SubmissionSummary{
		Name:        sub.Name,
		Score:       f64(sub.Score),
		Distance:    f64(sub.Distance),
		Location:    tpg.Coordinate{Lat: sub.Latitude, Lng: sub.Longitude},
		Description: sub.Description,
	}
}

// f64 dereferences an optional field; scored rounds always carry
// distances, but hand-edited files may not.
func f64(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// picKey identifies a pic for the most-used tally.
func picKey(sub tpg.Submission) string {
	if sub.Description != "" {
		return sub.Description
	}
	return tpg.Coordinate{Lat: sub.Latitude, Lng: sub.Longitude}.String()
}

// SummarizeRounds produces one summary per scored round, in input
// order. Rounds must be sorted by rank, which ScoreRound guarantees.
func SummarizeRounds(rounds []tpg.Round) ([]RoundSummary, error) {
	summaries := make([]RoundSummary, 0, len(rounds))
	for _, r := range rounds {
		if !r.IsScored() {
			return nil, eris.Wrapf(ErrUnscoredRound, "simulation: summarize %s", r.DisplayName())
		}
		n := len(r.Submissions)
		rs := RoundSummary{
			Round:   r.DisplayName(),
			Players: n,
			Winner:  summarize(r.Submissions[0]),
		}
		var scoreSum, distSum float64
		for _, sub := range r.Submissions {
			scoreSum += *sub.Score
			distSum += f64(sub.Distance)
		}
		rs.AverageScore = scoreSum / float64(n)
		rs.AverageDistance = distSum / float64(n)
		for _, sub := range r.Submissions {
			if f64(sub.Distance) < rs.AverageDistance {
				rs.CloserThanAverage++
			}
		}
		if n >= 2 {
			silver := summarize(r.Submissions[1])
			rs.Silver = &silver
			loser := summarize(r.Submissions[n-1])
			rs.Loser = &loser
		}
		if n >= 3 {
			bronze := summarize(r.Submissions[2])
			rs.Bronze = &bronze
		}
		summaries = append(summaries, rs)
	}
	return summaries, nil
}

// SummarizePlayers aggregates every player across the scored rounds,
// sorted by total score descending, ties by name.
func SummarizePlayers(rounds []tpg.Round) ([]PlayerSummary, error) {
	byName := make(map[string]*PlayerSummary)
	var order []string
	picSeen := make(map[string][]string)
	picCount := make(map[string]map[string]int)

	for _, r := range rounds {
		if !r.IsScored() {
			return nil, eris.Wrapf(ErrUnscoredRound, "simulation: summarize %s", r.DisplayName())
		}
		n := len(r.Submissions)
		var distSum float64
		for _, sub := range r.Submissions {
			distSum += f64(sub.Distance)
		}
		avgDist := distSum / float64(n)

		for _, sub := range r.Submissions {
			ps, ok := byName[sub.Name]
			if !ok {
				ps = &PlayerSummary{Name: sub.Name, BestScore: *sub.Score, WorstScore: *sub.Score, BestRound: r.DisplayName(), WorstRound: r.DisplayName()}
				byName[sub.Name] = ps
				order = append(order, sub.Name)
				picCount[sub.Name] = make(map[string]int)
			}
			ps.Rounds++
			ps.Total += *sub.Score
			ps.TotalDistance += f64(sub.Distance)
			if *sub.Score > ps.BestScore {
				ps.BestScore = *sub.Score
				ps.BestRound = r.DisplayName()
			}
			if *sub.Score < ps.WorstScore {
				ps.WorstScore = *sub.Score
				ps.WorstRound = r.DisplayName()
			}
			if f64(sub.Distance) < avgDist {
				ps.TimesCloserThanAverage++
			}
			if sub.Rank != nil {
				switch {
				case *sub.Rank == 1:
					ps.RoundsWon++
					ps.RoundsPodiumed++
				case *sub.Rank <= 3:
					ps.RoundsPodiumed++
				}
				if *sub.Rank == n && n > 1 {
					ps.RoundsLost++
				}
			}

			key := picKey(sub)
			if picCount[sub.Name][key] == 0 {
				picSeen[sub.Name] = append(picSeen[sub.Name], key)
			}
			picCount[sub.Name][key]++
		}
	}

	summaries := make([]PlayerSummary, 0, len(order))
	for _, name := range order {
		ps := byName[name]
		for _, key := range picSeen[name] {
			if picCount[name][key] > ps.MostUsedPicCount {
				ps.MostUsedPic = key
				ps.MostUsedPicCount = picCount[name][key]
			}
		}
		summaries = append(summaries, *ps)
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].Total != summaries[j].Total {
			return summaries[i].Total > summaries[j].Total
		}
		return summaries[i].Name < summaries[j].Name
	})
	return summaries, nil
}
