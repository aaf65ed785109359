package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/starcasualty/popmatch/internal/authsrc"
	"github.com/starcasualty/popmatch/internal/config"
	"github.com/starcasualty/popmatch/internal/db"
	"github.com/starcasualty/popmatch/internal/extract"
	"github.com/starcasualty/popmatch/internal/recon"
	"github.com/starcasualty/popmatch/internal/track"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "popmatch",
	Short: "Proof-of-prior document match pipeline",
	Long:  "Polls the policy system of record for proof-of-prior-insurance PDFs, extracts policy facts via a document-understanding model, compares them against the decision page, and records the match outcome.",
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

// initTrack opens the sqlite tracking ledger and runs its migration.
func initTrack(ctx context.Context) (track.Store, error) {
	st, err := track.NewSQLite(cfg.Track.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// initGateway connects to the system of record. The returned closer shuts
// the pool down.
func initGateway(ctx context.Context) (*authsrc.Gateway, func(), error) {
	pool, err := db.Connect(ctx, cfg.Authoritative.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return authsrc.NewGateway(pool), pool.Close, nil
}

// pipelineEnv bundles the wired pipeline collaborators for commands that
// run the full document flow.
type pipelineEnv struct {
	Ledger  track.Store
	Gateway *authsrc.Gateway
	Engine  *recon.Engine
	Poller  *recon.Poller

	closePool func()
}

func (e *pipelineEnv) Close() {
	if e.Ledger != nil {
		e.Ledger.Close() //nolint:errcheck
	}
	if e.closePool != nil {
		e.closePool()
	}
}

func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	ledger, err := initTrack(ctx)
	if err != nil {
		return nil, err
	}

	gateway, closePool, err := initGateway(ctx)
	if err != nil {
		ledger.Close() //nolint:errcheck
		return nil, err
	}

	extractor, err := extract.New(cfg.Extraction)
	if err != nil {
		ledger.Close() //nolint:errcheck
		closePool()
		return nil, err
	}

	engine := recon.NewEngine(ledger, gateway, extractor, recon.Options{
		LocalDir:     cfg.Poll.LocalFileDir,
		StageTimeout: time.Duration(cfg.Extraction.TimeoutSecs) * time.Second,
		WriteBack:    true,
	})
	poller := recon.NewPoller(engine, gateway, recon.PollerOptions{
		TaskPrefix: cfg.Poll.TaskPrefix,
		WindowDays: cfg.Poll.WindowDays,
		ProcessAll: cfg.Poll.ProcessAll,
	})

	return &pipelineEnv{
		Ledger:    ledger,
		Gateway:   gateway,
		Engine:    engine,
		Poller:    poller,
		closePool: closePool,
	}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
