package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/travelpics/tpg/internal/store"
	"github.com/travelpics/tpg/internal/tpg"
	"github.com/travelpics/tpg/pkg/tpgapi"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download finished rounds from the Travel Pics Game API",
	Long: `Download a game's finished rounds and submissions from the public
Travel Pics Game API and write them as a rounds JSON file.

Ongoing rounds are skipped. Requests are rate limited; tune the rate
with the api.rate config key.

Examples:
  # The main game, into rounds.json
  fetch --output rounds.json

  # A side game, straight into the store
  fetch --game-id 3 --save --game side3`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	f := fetchCmd.Flags()
	f.Int("game-id", 0, "numeric API game id (default from config)")
	f.String("output", "", "write fetched rounds JSON to this path")
	f.Bool("save", false, "archive fetched rounds to the store")
	f.String("game", "main", "game name used with --save")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := zap.L().With(zap.String("command", "fetch"))

	gameID, _ := cmd.Flags().GetInt("game-id")
	if gameID == 0 {
		gameID = cfg.API.Game
	}

	client := tpgapi.New(
		tpgapi.WithBaseURL(cfg.API.BaseURL),
		tpgapi.WithRateLimit(cfg.API.Rate),
	)

	log.Info("fetching game", zap.Int("game_id", gameID), zap.String("base_url", cfg.API.BaseURL))
	rounds, err := client.FetchGame(ctx, gameID)
	if err != nil {
		return err
	}
	log.Info("fetched rounds", zap.Int("rounds", len(rounds)))

	if outputPath, _ := cmd.Flags().GetString("output"); outputPath != "" {
		if err := tpg.SaveRounds(outputPath, rounds); err != nil {
			return err
		}
		fmt.Printf("Wrote %d rounds to %s\n", len(rounds), outputPath)
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
		batch, err := st.SaveRounds(ctx, game, rounds)
		if err != nil {
			return err
		}
		fmt.Printf("Archived %d rounds to game %q (batch %s)\n", batch.Rounds, game, batch.ID)
	}
	return nil
}
