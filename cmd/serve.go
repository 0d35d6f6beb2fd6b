package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/travelpics/tpg/internal/leaderboard"
	"github.com/travelpics/tpg/internal/scoring"
	"github.com/travelpics/tpg/internal/store"
	"github.com/travelpics/tpg/internal/tpg"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the scoring and leaderboard HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		opts, err := cfg.ScoringOptions()
		if err != nil {
			return err
		}

		router := buildRouter(st, scoreParams{
			Options:          opts,
			FiveKThresholdKm: cfg.Scoring.FiveKThresholdKm,
			UseHaversine:     cfg.Scoring.UseHaversine,
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// scoreParams bundles the scoring configuration the handlers apply to
// every request.
type scoreParams struct {
	Options          scoring.Options
	FiveKThresholdKm float64
	UseHaversine     bool
}

type leaderboardRow struct {
	Player  string             `json:"player"`
	Cells   map[string]float64 `json:"cells"`
	Total   float64            `json:"total"`
	Average float64            `json:"average"`
	Stdev   float64            `json:"stdev"`
}

type leaderboardTable struct {
	Rounds []string         `json:"rounds"`
	Rows   []leaderboardRow `json:"rows"`
}

type medalRow struct {
	Player string `json:"player"`
	Gold   int    `json:"gold"`
	Silver int    `json:"silver"`
	Bronze int    `json:"bronze"`
	Score  int    `json:"score"`
}

type leaderboardResponse struct {
	Game       string           `json:"game"`
	Rounds     int              `json:"rounds"`
	Points     leaderboardTable `json:"points"`
	DistanceKm leaderboardTable `json:"distance_km"`
	Medals     []medalRow       `json:"medals"`
}

func buildRouter(st store.Store, params scoreParams) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/v1/score", func(w http.ResponseWriter, req *http.Request) {
		var rounds []tpg.Round
		if err := json.NewDecoder(req.Body).Decode(&rounds); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(rounds) == 0 {
			writeJSONError(w, http.StatusBadRequest, "at least one round is required")
			return
		}

		opts := params.Options
		if preset := req.URL.Query().Get("preset"); preset != "" {
			var err error
			opts, err = scoring.Preset(preset)
			if err != nil {
				writeJSONError(w, http.StatusBadRequest, err.Error())
				return
			}
		}

		scored := scoring.ScoreRounds(rounds, opts, params.FiveKThresholdKm, params.UseHaversine)
		writeJSON(w, http.StatusOK, scored)
	})

	r.Get("/api/v1/games", func(w http.ResponseWriter, req *http.Request) {
		games, err := st.Games(req.Context())
		if err != nil {
			zap.L().Error("list games failed", zap.Error(err))
			writeJSONError(w, http.StatusInternalServerError, "store query failed")
			return
		}
		writeJSON(w, http.StatusOK, games)
	})

	r.Get("/api/v1/leaderboards/{game}", func(w http.ResponseWriter, req *http.Request) {
		game := chi.URLParam(req, "game")
		rounds, err := st.Rounds(req.Context(), game)
		if err != nil {
			zap.L().Error("load rounds failed", zap.String("game", game), zap.Error(err))
			writeJSONError(w, http.StatusInternalServerError, "store query failed")
			return
		}
		if len(rounds) == 0 {
			writeJSONError(w, http.StatusNotFound, fmt.Sprintf("no rounds stored for game %q", game))
			return
		}

		points, distance, medals, err := leaderboard.Build(rounds)
		if err != nil {
			writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		resp := leaderboardResponse{
			Game:       game,
			Rounds:     len(rounds),
			Points:     toTableJSON(points),
			DistanceKm: toTableJSON(distance),
			Medals:     make([]medalRow, 0, len(medals)),
		}
		for _, m := range medals {
			resp.Medals = append(resp.Medals, medalRow{
				Player: m.Player,
				Gold:   m.Gold,
				Silver: m.Silver,
				Bronze: m.Bronze,
				Score:  m.Score,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	})

	return r
}

func toTableJSON(tb leaderboard.Table) leaderboardTable {
	out := leaderboardTable{Rounds: tb.Rounds, Rows: make([]leaderboardRow, 0, len(tb.Rows))}
	for _, row := range tb.Rows {
		out.Rows = append(out.Rows, leaderboardRow{
			Player:  row.Player,
			Cells:   row.Cells,
			Total:   row.Total,
			Average: row.Average,
			Stdev:   row.Stdev,
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
