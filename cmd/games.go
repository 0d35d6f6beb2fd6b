package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/travelpics/tpg/internal/store"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List archived games",
	Long: `List the games archived in the store, with import history and cleanup.

Examples:
  games
  games --batches main
  games --delete oceania`,
	Args: cobra.NoArgs,
	RunE: runGames,
}

func init() {
	f := gamesCmd.Flags()
	f.String("batches", "", "show import history for this game")
	f.String("delete", "", "delete this game's archived rounds")

	rootCmd.AddCommand(gamesCmd)
}

func runGames(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Migrate(ctx); err != nil {
		return err
	}

	if game, _ := cmd.Flags().GetString("delete"); game != "" {
		n, err := st.DeleteGame(ctx, game)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d rounds from game %q\n", n, game)
		return nil
	}

	if game, _ := cmd.Flags().GetString("batches"); game != "" {
		batches, err := st.Batches(ctx, game)
		if err != nil {
			return err
		}
		if len(batches) == 0 {
			fmt.Printf("No imports recorded for game %q\n", game)
			return nil
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "BATCH\tROUNDS\tIMPORTED")
		for _, b := range batches {
			fmt.Fprintf(tw, "%s\t%d\t%s\n", b.ID, b.Rounds, b.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return tw.Flush()
	}

	games, err := st.Games(ctx)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		fmt.Println("Nothing archived yet. Use score --save or fetch --save first.")
		return nil
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GAME\tROUNDS\tUPDATED")
	for _, g := range games {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", g.Game, g.Rounds, g.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}
