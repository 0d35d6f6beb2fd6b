package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/travelpics/tpg/internal/pointset"
	"github.com/travelpics/tpg/internal/report"
	"github.com/travelpics/tpg/internal/simulation"
	"github.com/travelpics/tpg/internal/tpg"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate [rounds.json ...]",
	Short: "Replay rounds as if every player always submitted",
	Long: `Replay historical round targets with every player choosing a pic from
their collection, then score and summarize the alternate game.

Player collections default to each player's real past submissions; pass
--players to substitute GeoJSON or shapefile point sets instead.

Examples:
  # What if everyone had always played their closest pic?
  simulate season3.json

  # Chaos mode, reproducibly
  simulate season3.json --strategy random --seed 7

  # Custom candidate pools, one file per player
  simulate season3.json --players alice.geojson --players bob.shp`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSimulate,
}

func init() {
	f := simulateCmd.Flags()
	f.String("strategy", "closest", "pic choice strategy: closest, furthest, or random")
	f.Uint64("seed", 0, "random strategy seed")
	f.StringSlice("players", nil, "point set files (.geojson/.shp), one per player")
	f.String("preset", "", "scoring preset (overrides config)")
	f.String("output", "", "write the simulated rounds JSON to this path")
	f.Bool("by-player", false, "summarize per player instead of per round")

	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	log := zap.L().With(zap.String("command", "simulate"))

	strategyName, _ := cmd.Flags().GetString("strategy")
	strategy, err := simulation.ParseStrategy(strategyName)
	if err != nil {
		return err
	}

	rounds, err := loadInputRounds(args, nil, 1, false)
	if err != nil {
		return err
	}

	opts, err := resolveScoring(cmd)
	if err != nil {
		return err
	}

	playerFiles, _ := cmd.Flags().GetStringSlice("players")
	var sets []pointset.PointSet
	if len(playerFiles) > 0 {
		sets, err = loadPointSets(playerFiles)
		if err != nil {
			return err
		}
	}

	sim := simulation.FromRounds(rounds, sets, opts, strategy, cfg.Scoring.UseHaversine)
	sim.Seed, _ = cmd.Flags().GetUint64("seed")
	sim.FiveKThresholdKm = cfg.Scoring.FiveKThresholdKm

	simulated := sim.SimulateRounds()
	log.Info("simulation complete",
		zap.Int("rounds", len(simulated)),
		zap.String("strategy", strategy.String()),
	)

	if outputPath, _ := cmd.Flags().GetString("output"); outputPath != "" {
		if err := tpg.SaveRounds(outputPath, simulated); err != nil {
			return err
		}
		fmt.Printf("Wrote %d simulated rounds to %s\n", len(simulated), outputPath)
	}

	if byPlayer, _ := cmd.Flags().GetBool("by-player"); byPlayer {
		summaries, err := simulation.SummarizePlayers(simulated)
		if err != nil {
			return err
		}
		return report.WritePlayerSummaries(os.Stdout, summaries)
	}
	summaries, err := simulation.SummarizeRounds(simulated)
	if err != nil {
		return err
	}
	return report.WriteRoundSummaries(os.Stdout, summaries)
}
