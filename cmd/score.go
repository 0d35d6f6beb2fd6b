package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/travelpics/tpg/internal/report"
	"github.com/travelpics/tpg/internal/scoring"
	"github.com/travelpics/tpg/internal/store"
	"github.com/travelpics/tpg/internal/tpg"
)

var scoreCmd = &cobra.Command{
	Use:   "score [rounds.json ...]",
	Short: "Score rounds from submission distances",
	Long: `Score rounds loaded from rounds JSON files or KMZ submission trackers.

Rounds that already carry scores are left alone unless --rescore is set.
Submissions without distances get them computed from coordinates first.

Examples:
  # Score a season file in place
  score season3.json --in-place

  # Score a My Maps submission tracker into a rounds file
  score --tracker 'Main TPG Tracker.kmz' --output rounds.json

  # Rescore with a regional ruleset and archive the result
  score rounds.json --preset oceania --rescore --save --game oceania`,
	Args: cobra.ArbitraryArgs,
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.StringSlice("tracker", nil, "KML/KMZ submission tracker files to load rounds from")
	f.Int("start-round", 1, "round number for the first tracker round")
	f.Bool("antipode", false, "treat the second tracker placemark of each round as an antipode target")
	f.String("preset", "", "scoring preset (overrides config)")
	f.Bool("rescore", false, "recompute scores for rounds that already have them")
	f.Bool("in-place", false, "write scored rounds back to the single input file")
	f.String("output", "", "write scored rounds JSON to this path")
	f.String("csv", "", "write a flat per-submission CSV to this path")
	f.Bool("save", false, "archive scored rounds to the store")
	f.String("game", "main", "game name used with --save")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := zap.L().With(zap.String("command", "score"))

	trackers, _ := cmd.Flags().GetStringSlice("tracker")
	startRound, _ := cmd.Flags().GetInt("start-round")
	antipode, _ := cmd.Flags().GetBool("antipode")
	rescore, _ := cmd.Flags().GetBool("rescore")
	inPlace, _ := cmd.Flags().GetBool("in-place")
	outputPath, _ := cmd.Flags().GetString("output")

	if inPlace && (len(args) != 1 || len(trackers) > 0) {
		return eris.New("--in-place needs exactly one rounds file and no trackers")
	}

	rounds, err := loadInputRounds(args, trackers, startRound, antipode)
	if err != nil {
		return err
	}

	opts, err := resolveScoring(cmd)
	if err != nil {
		return err
	}

	if rescore {
		for i := range rounds {
			for j := range rounds[i].Submissions {
				rounds[i].Submissions[j].Score = nil
				rounds[i].Submissions[j].Rank = nil
			}
		}
	}

	scored := scoring.ScoreRounds(rounds, opts, cfg.Scoring.FiveKThresholdKm, cfg.Scoring.UseHaversine)
	log.Info("scored rounds", zap.Int("rounds", len(scored)))

	if inPlace {
		outputPath = args[0]
	}
	if outputPath != "" {
		if err := tpg.SaveRounds(outputPath, scored); err != nil {
			return err
		}
		fmt.Printf("Wrote %d scored rounds to %s\n", len(scored), outputPath)
	}

	if csvPath, _ := cmd.Flags().GetString("csv"); csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			return eris.Wrapf(err, "score: create csv %s", csvPath)
		}
		if err := report.WriteRoundsCSV(f, scored); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return eris.Wrapf(err, "score: close csv %s", csvPath)
		}
		fmt.Printf("Wrote submission CSV %s\n", csvPath)
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		game, _ := cmd.Flags().GetString("game")
		st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return err
		}
		batch, err := st.SaveRounds(ctx, game, scored)
		if err != nil {
			return err
		}
		fmt.Printf("Archived %d rounds to game %q (batch %s)\n", batch.Rounds, game, batch.ID)
	}

	if outputPath == "" {
		printScoredSummary(scored)
	}
	return nil
}

func printScoredSummary(rounds []tpg.Round) {
	for _, r := range rounds {
		fmt.Printf("%s (%d players)\n", r.DisplayName(), len(r.Submissions))
		for _, sub := range r.Submissions {
			if sub.Score == nil || sub.Rank == nil {
				continue
			}
			fmt.Printf("  %2d. %-24s %10.2f", *sub.Rank, sub.Name, *sub.Score)
			if sub.Distance != nil {
				fmt.Printf("  %.1f km", *sub.Distance/1000)
			}
			fmt.Println()
		}
	}
}
