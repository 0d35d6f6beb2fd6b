package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/travelpics/tpg/internal/comparison"
	"github.com/travelpics/tpg/internal/geodist"
	"github.com/travelpics/tpg/internal/report"
	"github.com/travelpics/tpg/internal/tpg"
)

var compareCmd = &cobra.Command{
	Use:   "compare [rounds.json ...]",
	Short: "Compare a player against the rival placed just above them",
	Long: `For each round, find the submission placed immediately above a player's
and show how far away overtaking it was.

Examples:
  # Where did alice nearly catch someone?
  compare season3.json --player alice

  # Same, by score instead of distance
  compare season3.json --player alice --by-score

  # Who would a new pic at 48.85,2.35 have to beat?
  compare season3.json --player alice --new-pic 48.85,2.35`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompare,
}

func init() {
	f := compareCmd.Flags()
	f.String("player", "", "player name (required)")
	f.Bool("by-score", false, "compare by score instead of distance")
	f.String("new-pic", "", "lat,lng of a hypothetical new pic: show the rival it would chase")
	compareCmd.MarkFlagRequired("player") //nolint:errcheck

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	player, _ := cmd.Flags().GetString("player")
	byScore, _ := cmd.Flags().GetBool("by-score")
	newPic, _ := cmd.Flags().GetString("new-pic")

	rounds, err := loadInputRounds(args, nil, 1, false)
	if err != nil {
		return err
	}

	metric := geodist.MetricGeodesic
	if cfg.Scoring.UseHaversine {
		metric = geodist.MetricHaversine
	}

	if newPic != "" {
		pic, err := parseLatLng(newPic)
		if err != nil {
			return err
		}
		return printNewRivals(rounds, player, pic, metric)
	}

	diffs, err := comparison.AcrossRounds(rounds, player, byScore, metric)
	if err != nil {
		return err
	}
	printDifferences(diffs, player)
	return nil
}

func printNewRivals(rounds []tpg.Round, player string, pic tpg.Coordinate, metric geodist.Metric) error {
	for _, r := range rounds {
		diff, err := comparison.FindNewRival(r, player, pic, "hypothetical", metric)
		if err != nil {
			return err
		}
		if diff == nil {
			fmt.Printf("%s: the new pic would win outright\n", r.DisplayName())
			continue
		}
		fmt.Printf("%s: would place %d/%d, %s km behind %s\n",
			diff.RoundName, diff.PlayerPlacing, diff.NumPlayers,
			report.FormatNumber(diff.DistanceDiff()/1000), diff.Rival)
	}
	return nil
}

func printDifferences(diffs []comparison.Difference, player string) {
	if len(diffs) == 0 {
		fmt.Printf("%s either won or skipped every round given.\n", player)
		return
	}
	for _, d := range diffs {
		line := fmt.Sprintf("%s: placed %d/%d, %s km behind %s",
			d.RoundName, d.PlayerPlacing, d.NumPlayers,
			report.FormatNumber(d.DistanceDiff()/1000), d.Rival)
		if sd := d.ScoreDiff(); sd != nil {
			line += fmt.Sprintf(" (%s points)", report.FormatNumber(*sd))
		}
		fmt.Println(line)
	}
}

// parseLatLng parses "lat,lng".
func parseLatLng(s string) (tpg.Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return tpg.Coordinate{}, eris.Errorf("bad coordinate %q, want lat,lng", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return tpg.Coordinate{}, eris.Wrapf(err, "bad latitude in %q", s)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return tpg.Coordinate{}, eris.Wrapf(err, "bad longitude in %q", s)
	}
	return tpg.Coordinate{Lat: lat, Lng: lng}, nil
}
