package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/starcasualty/popmatch/internal/model"
	"github.com/starcasualty/popmatch/internal/track"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the read-only status server",
	Long:  "Serves the tracking ledger over HTTP for dashboards. The server never mutates state; all writes go through the CLI.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initTrack(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newStatusRouter(st, cfg.Server.AllowedOrigins),
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			zap.L().Info("starting status server", zap.Int("port", port))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			zap.L().Info("shutting down status server")
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(sctx)
		})

		return g.Wait()
	},
}

func newStatusRouter(st track.Store, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{http.MethodGet},
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/records", func(w http.ResponseWriter, req *http.Request) {
		var (
			records []model.TrackingRecord
			err     error
		)
		if status := req.URL.Query().Get("status"); status != "" {
			s := model.Status(status)
			if !s.Valid() {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown status " + status})
				return
			}
			records, err = st.GetByStatus(req.Context(), s)
		} else {
			records, err = st.GetAll(req.Context())
		}
		if err != nil {
			zap.L().Error("records query failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "query failed"})
			return
		}
		if records == nil {
			records = []model.TrackingRecord{}
		}
		writeJSON(w, http.StatusOK, records)
	})

	r.Get("/records/{fileID}", func(w http.ResponseWriter, req *http.Request) {
		record, err := st.GetByFileID(req.Context(), chi.URLParam(req, "fileID"))
		if err != nil {
			if eris.Is(err, track.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "record not found"})
				return
			}
			zap.L().Error("record query failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "query failed"})
			return
		}
		writeJSON(w, http.StatusOK, record)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
