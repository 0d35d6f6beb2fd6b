// Package report renders leaderboards and summaries for humans:
// console tables, CSV and XLSX exports, and a standings chart.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/travelpics/tpg/internal/leaderboard"
	"github.com/travelpics/tpg/internal/simulation"
)

// printer formats numbers with thousands separators, which matters
// once distances run into the megametres.
var printer = message.NewPrinter(language.English)

// FormatNumber renders a float with separators and two decimals,
// dropping the fraction when it is whole.
func FormatNumber(v float64) string {
	if v == float64(int64(v)) {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprintf("%.2f", v)
}

// WriteTable renders a leaderboard table as aligned columns. Distance
// tables pass meters; the caller decides the unit and the header.
func WriteTable(w io.Writer, title string, tb leaderboard.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\n", title)

	fmt.Fprint(tw, "Player")
	for _, name := range tb.Rounds {
		fmt.Fprintf(tw, "\t%s", name)
	}
	fmt.Fprint(tw, "\tTotal\tAverage\tStdev\n")

	for _, row := range tb.Rows {
		fmt.Fprint(tw, row.Player)
		for _, name := range tb.Rounds {
			if v, ok := row.Cells[name]; ok {
				fmt.Fprintf(tw, "\t%s", FormatNumber(v))
			} else {
				fmt.Fprint(tw, "\t-")
			}
		}
		fmt.Fprintf(tw, "\t%s\t%s\t%s\n",
			FormatNumber(row.Total), FormatNumber(row.Average), FormatNumber(row.Stdev))
	}
	return eris.Wrap(tw.Flush(), "report: flush table")
}

// WriteMedals renders the medal tally.
func WriteMedals(w io.Writer, medals []leaderboard.MedalRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprint(tw, "Player\tGold\tSilver\tBronze\tScore\n")
	for _, m := range medals {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", m.Player, m.Gold, m.Silver, m.Bronze, m.Score)
	}
	return eris.Wrap(tw.Flush(), "report: flush medals")
}

// WriteRoundSummaries renders per-round simulation summaries.
func WriteRoundSummaries(w io.Writer, summaries []simulation.RoundSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprint(tw, "Round\tPlayers\tAvg score\tAvg distance (km)\tWinner\tWinning score\n")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n",
			s.Round, s.Players,
			FormatNumber(s.AverageScore), FormatNumber(s.AverageDistance/1000),
			s.Winner.Name, FormatNumber(s.Winner.Score))
	}
	return eris.Wrap(tw.Flush(), "report: flush round summaries")
}

// WritePlayerSummaries renders per-player simulation summaries.
func WritePlayerSummaries(w io.Writer, summaries []simulation.PlayerSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprint(tw, "Player\tTotal\tWon\tPodiums\tLost\tBest round\tWorst round\tFavourite pic\n")
	for _, s := range summaries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\t%s\t%s\n",
			s.Name, FormatNumber(s.Total),
			s.RoundsWon, s.RoundsPodiumed, s.RoundsLost,
			s.BestRound, s.WorstRound, s.MostUsedPic)
	}
	return eris.Wrap(tw.Flush(), "report: flush player summaries")
}
