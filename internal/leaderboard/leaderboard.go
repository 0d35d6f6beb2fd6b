// Package leaderboard reduces scored rounds into player-vs-round tables
// with summary statistics and medal tallies.
package leaderboard

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/travelpics/tpg/internal/tpg"
)

// ErrNotScored is returned when any submission in the input lacks a
// score or distance; scoring every round first is a precondition.
var ErrNotScored = eris.New("leaderboard: submissions must be scored to make leaderboards")

// Medal is a podium award worth points: rank 1 earns Gold, 2 Silver,
// 3 Bronze.
type Medal int

const (
	Bronze Medal = 1
	Silver Medal = 2
	Gold   Medal = 3
)

// Row is one player's line in a points or distance table. Cells is
// keyed by round display name; a round the player skipped is simply
// absent, not zero.
type Row struct {
	Player string
	Cells  map[string]float64
	// Total sums the cells the player actually has.
	Total float64
	// Average is Total over the number of rounds played.
	Average float64
	// Stdev is the sample standard deviation of the player's cells,
	// zero with fewer than two values.
	Stdev float64
}

// Table is a player-by-round matrix plus summary columns, rows already
// sorted (best first).
type Table struct {
	// Rounds lists the column order, one display name per round.
	Rounds []string
	Rows   []Row
}

// MedalRow is one player's medal tally. Score is 3 per gold, 2 per
// silver, 1 per bronze.
type MedalRow struct {
	Player string
	Gold   int
	Silver int
	Bronze int
	Score  int
}

// Build derives the three leaderboards from a set of scored rounds:
// points (sorted by total descending), distance in km (players who
// played every round only, sorted by total ascending), and medals
// (sorted by medal score descending). Encountering an unscored
// submission is a hard error.
func Build(rounds []tpg.Round) (points, distance Table, medals []MedalRow, err error) {
	roundNames := make([]string, 0, len(rounds))
	pointCells := map[string]map[string]float64{}
	distanceCells := map[string]map[string]float64{}
	medalCounts := map[string]*MedalRow{}

	for _, r := range rounds {
		name := r.DisplayName()
		roundNames = append(roundNames, name)
		for _, sub := range r.Submissions {
			if sub.Score == nil || sub.Distance == nil {
				return Table{}, Table{}, nil, ErrNotScored
			}
			if pointCells[sub.Name] == nil {
				pointCells[sub.Name] = map[string]float64{}
				distanceCells[sub.Name] = map[string]float64{}
			}
			pointCells[sub.Name][name] = *sub.Score
			distanceCells[sub.Name][name] = *sub.Distance / 1_000

			if sub.Rank != nil && *sub.Rank <= 3 {
				row := medalCounts[sub.Name]
				if row == nil {
					row = &MedalRow{Player: sub.Name}
					medalCounts[sub.Name] = row
				}
				switch Medal(4 - *sub.Rank) {
				case Gold:
					row.Gold++
				case Silver:
					row.Silver++
				case Bronze:
					row.Bronze++
				}
			}
		}
	}

	points = buildTable(roundNames, pointCells, false, sortDescending)
	distance = buildTable(roundNames, distanceCells, true, sortAscending)

	for _, row := range medalCounts {
		row.Score = 3*row.Gold + 2*row.Silver + row.Bronze
		medals = append(medals, *row)
	}
	sort.Slice(medals, func(a, b int) bool {
		if medals[a].Score != medals[b].Score {
			return medals[a].Score > medals[b].Score
		}
		return medals[a].Player < medals[b].Player
	})
	return points, distance, medals, nil
}

type sortOrder bool

const (
	sortDescending sortOrder = false
	sortAscending  sortOrder = true
)

// buildTable assembles rows from per-player cells. With requireAll set,
// players missing any round are dropped entirely (the "must have played
// every round" filter on the distance board).
func buildTable(roundNames []string, cells map[string]map[string]float64, requireAll bool, order sortOrder) Table {
	table := Table{Rounds: roundNames}
	for player, playerCells := range cells {
		if requireAll && len(playerCells) != len(roundNames) {
			continue
		}
		row := Row{Player: player, Cells: playerCells}
		for _, v := range playerCells {
			row.Total += v
		}
		n := len(playerCells)
		if n > 0 {
			row.Average = row.Total / float64(n)
		}
		if n > 1 {
			var sumSq float64
			for _, v := range playerCells {
				sumSq += (v - row.Average) * (v - row.Average)
			}
			row.Stdev = math.Sqrt(sumSq / float64(n-1))
		}
		table.Rows = append(table.Rows, row)
	}
	sort.Slice(table.Rows, func(a, b int) bool {
		ra, rb := table.Rows[a], table.Rows[b]
		if ra.Total != rb.Total {
			if order == sortAscending {
				return ra.Total < rb.Total
			}
			return ra.Total > rb.Total
		}
		return ra.Player < rb.Player
	})
	return table
}
