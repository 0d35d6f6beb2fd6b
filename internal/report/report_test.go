package report

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/travelpics/tpg/internal/leaderboard"
	"github.com/travelpics/tpg/internal/simulation"
	"github.com/travelpics/tpg/internal/tpg"
)

func testTable() leaderboard.Table {
	return leaderboard.Table{
		Rounds: []string{"Reykjavik", "Sydney"},
		Rows: []leaderboard.Row{
			{Player: "alice", Cells: map[string]float64{"Reykjavik": 9500, "Sydney": 8000}, Total: 17500, Average: 8750, Stdev: 1060.66},
			{Player: "bob", Cells: map[string]float64{"Reykjavik": 6000}, Total: 6000, Average: 6000},
		},
	}
}

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "17,500", FormatNumber(17500))
	assert.Equal(t, "1,060.66", FormatNumber(1060.66))
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "-42", FormatNumber(-42))
}

func TestWriteTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, "Points", testTable()))

	out := buf.String()
	assert.Contains(t, out, "Points")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "17,500")
	// bob missed Sydney.
	assert.Contains(t, out, "-")
}

func TestWriteMedals(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	medals := []leaderboard.MedalRow{{Player: "alice", Gold: 2, Silver: 1, Score: 8}}
	require.NoError(t, WriteMedals(&buf, medals))
	assert.Contains(t, buf.String(), "alice")
	assert.Contains(t, buf.String(), "8")
}

func TestWriteTableCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteTableCSV(&buf, testTable()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"player", "Reykjavik", "Sydney", "total", "average", "stdev"}, records[0])
	assert.Equal(t, "alice", records[1][0])
	assert.Equal(t, "17500", records[1][3])
	// Missing cell stays empty, not zero.
	assert.Equal(t, "", records[2][2])
}

func TestWriteRoundsCSV(t *testing.T) {
	t.Parallel()

	rounds := []tpg.Round{{
		Name: "Reykjavik", Number: 1,
		Submissions: []tpg.Submission{
			{Name: "alice", Latitude: 64, Longitude: -22, Score: tpg.Float64(9500), Rank: tpg.Int(1), Distance: tpg.Float64(17000)},
			{Name: "bob", Latitude: 51.5, Longitude: -0.1},
		},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteRoundsCSV(&buf, rounds))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "9500", records[1][6])
	// Unscored submission leaves score, rank, distance empty.
	assert.Equal(t, "", records[2][5])
	assert.Equal(t, "", records[2][6])
	assert.Equal(t, "", records[2][7])
}

func TestWriteWorkbook(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "leaderboards.xlsx")
	medals := []leaderboard.MedalRow{{Player: "alice", Gold: 1, Score: 3}}
	require.NoError(t, WriteWorkbook(path, testTable(), testTable(), medals))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 3)
	assert.Equal(t, "Points", f.Sheets[0].Name)
	assert.Equal(t, "Medals", f.Sheets[2].Name)
	// Header plus two players.
	assert.Len(t, f.Sheets[0].Rows, 3)
}

func TestStandingsChart(t *testing.T) {
	t.Parallel()

	png, err := StandingsChart(testTable(), 10)
	require.NoError(t, err)
	// PNG magic bytes.
	require.Greater(t, len(png), 8)
	assert.Equal(t, "\x89PNG", string(png[:4]))

	empty, err := StandingsChart(leaderboard.Table{}, 10)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(empty[:4]))
}

func TestWriteSummaries(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	roundSummaries := []simulation.RoundSummary{{
		Round: "Reykjavik", Players: 2, AverageScore: 7750, AverageDistance: 953500,
		Winner: simulation.SubmissionSummary{Name: "alice", Score: 9500},
	}}
	require.NoError(t, WriteRoundSummaries(&buf, roundSummaries))
	assert.Contains(t, buf.String(), "Reykjavik")
	assert.Contains(t, buf.String(), "953.5")

	buf.Reset()
	playerSummaries := []simulation.PlayerSummary{{
		Name: "alice", Total: 17500, RoundsWon: 2, BestRound: "Reykjavik", WorstRound: "Sydney", MostUsedPic: "eiffel",
	}}
	require.NoError(t, WritePlayerSummaries(&buf, playerSummaries))
	assert.True(t, strings.Contains(buf.String(), "eiffel"))
}
