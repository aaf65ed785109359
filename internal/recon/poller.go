package recon

import (
	"context"

	"go.uber.org/zap"

	"github.com/starcasualty/popmatch/internal/model"
)

// CandidateSource discovers POP documents awaiting a match determination.
type CandidateSource interface {
	FindCandidates(ctx context.Context, taskPrefix string, windowDays int) ([]model.DocumentReference, error)
}

// Poller queries the system of record for candidate documents and feeds
// them, one at a time, to the engine.
type Poller struct {
	engine     *Engine
	candidates CandidateSource
	taskPrefix string
	windowDays int
	processAll bool
}

// PollerOptions configures a Poller.
type PollerOptions struct {
	TaskPrefix string
	WindowDays int

	// ProcessAll drains every eligible candidate in one run. The default
	// processes only the first eligible document, keeping each run's
	// blast radius to one document; repeated runs drain the backlog.
	ProcessAll bool
}

// NewPoller creates a Poller over the given engine and candidate source.
func NewPoller(engine *Engine, candidates CandidateSource, opts PollerOptions) *Poller {
	if opts.WindowDays <= 0 {
		opts.WindowDays = 100
	}
	if opts.TaskPrefix == "" {
		opts.TaskPrefix = "Proof of Prior"
	}
	return &Poller{
		engine:     engine,
		candidates: candidates,
		taskPrefix: opts.TaskPrefix,
		windowDays: opts.WindowDays,
		processAll: opts.ProcessAll,
	}
}

// Run executes one poll: fetch candidates and process them in source
// order. Returns the number of documents attempted. Per-document failures
// are recorded in the ledger and logged, not returned; only a failure to
// list candidates aborts the run.
func (p *Poller) Run(ctx context.Context) (int, error) {
	refs, err := p.candidates.FindCandidates(ctx, p.taskPrefix, p.windowDays)
	if err != nil {
		return 0, err
	}
	if len(refs) == 0 {
		zap.L().Info("no candidate documents in window", zap.Int("window_days", p.windowDays))
		return 0, nil
	}

	attempted := 0
	for _, ref := range refs {
		didAttempt, err := p.engine.ProcessDocument(ctx, ref)
		if err != nil {
			zap.L().Error("document pipeline failed",
				zap.String("file_id", ref.FileID),
				zap.Error(err),
			)
		}
		if !didAttempt {
			continue
		}
		attempted++
		if !p.processAll {
			zap.L().Info("processed first eligible document, stopping run")
			break
		}
	}
	return attempted, nil
}
