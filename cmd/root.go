package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/travelpics/tpg/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "tpg",
	Short: "Travel Pics Game scoring and ranking engine",
	Long: "Scores Travel Pics Game rounds from distances, builds leaderboards,\n" +
		"simulates alternate games, and compares players against their rivals.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
