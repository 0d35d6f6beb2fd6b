package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/travelpics/tpg/internal/leaderboard"
	"github.com/travelpics/tpg/internal/report"
	"github.com/travelpics/tpg/internal/store"
	"github.com/travelpics/tpg/internal/tpg"
)

var leaderboardCmd = &cobra.Command{
	Use:     "leaderboard [rounds.json ...]",
	Aliases: []string{"lb"},
	Short:   "Build points, distance, and medal leaderboards",
	Long: `Build leaderboards from scored rounds, read from files or the archive.

Examples:
  # Print the season leaderboards
  leaderboard season3.json

  # Leaderboards for an archived game, exported to a workbook
  leaderboard --game main --xlsx leaderboards.xlsx

  # Standings chart for the season
  leaderboard season3.json --chart standings.png`,
	Args: cobra.ArbitraryArgs,
	RunE: runLeaderboard,
}

func init() {
	f := leaderboardCmd.Flags()
	f.String("game", "", "build from this archived game instead of files")
	f.String("format", "table", "console output format: table or csv")
	f.String("output", "", "output file path (default: stdout)")
	f.String("xlsx", "", "also write an XLSX workbook to this path")
	f.String("chart", "", "also write a standings chart PNG to this path")
	f.Int("chart-players", 20, "maximum players on the chart")

	rootCmd.AddCommand(leaderboardCmd)
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := zap.L().With(zap.String("command", "leaderboard"))

	game, _ := cmd.Flags().GetString("game")
	format, _ := cmd.Flags().GetString("format")
	if format != "table" && format != "csv" {
		return eris.Errorf("leaderboard: --format must be table or csv (got %q)", format)
	}

	var rounds []tpg.Round
	switch {
	case game != "":
		st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
		if err != nil {
			return err
		}
		defer st.Close()
		rounds, err = st.Rounds(ctx, game)
		if err != nil {
			return err
		}
		if len(rounds) == 0 {
			return eris.Errorf("leaderboard: no archived rounds for game %q", game)
		}
	case len(args) > 0:
		var err error
		rounds, err = loadInputRounds(args, nil, 1, false)
		if err != nil {
			return err
		}
	default:
		return eris.New("leaderboard: pass rounds files or --game")
	}

	points, distance, medals, err := leaderboard.Build(rounds)
	if err != nil {
		return err
	}
	log.Info("built leaderboards",
		zap.Int("rounds", len(rounds)),
		zap.Int("players", len(points.Rows)),
	)

	outputPath, _ := cmd.Flags().GetString("output")
	w, closeFn, err := outputWriter(outputPath)
	if err != nil {
		return err
	}
	defer closeFn() //nolint:errcheck

	switch format {
	case "csv":
		if err := report.WriteTableCSV(w, points); err != nil {
			return err
		}
	case "table":
		if err := report.WriteTable(w, "Points", points); err != nil {
			return err
		}
		fmt.Fprintln(w)
		if err := report.WriteTable(w, "Distance (km)", distance); err != nil {
			return err
		}
		fmt.Fprintln(w)
		if err := report.WriteMedals(w, medals); err != nil {
			return err
		}
	}

	if xlsxPath, _ := cmd.Flags().GetString("xlsx"); xlsxPath != "" {
		if err := report.WriteWorkbook(xlsxPath, points, distance, medals); err != nil {
			return err
		}
		fmt.Printf("Wrote workbook %s\n", xlsxPath)
	}

	if chartPath, _ := cmd.Flags().GetString("chart"); chartPath != "" {
		maxPlayers, _ := cmd.Flags().GetInt("chart-players")
		png, err := report.StandingsChart(points, maxPlayers)
		if err != nil {
			return err
		}
		if err := os.WriteFile(chartPath, png, 0o644); err != nil {
			return eris.Wrapf(err, "leaderboard: write chart %s", chartPath)
		}
		fmt.Printf("Wrote chart %s\n", chartPath)
	}

	return nil
}
