// Package recon holds the match-and-reconciliation state machine: admit a
// discovered POP document, materialize it locally, extract policy facts,
// compare them against the decision page, and durably record the outcome
// exactly once per file.
package recon

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/starcasualty/popmatch/internal/extract"
	"github.com/starcasualty/popmatch/internal/model"
)

// Ledger is the tracking-store surface the engine needs.
type Ledger interface {
	Claim(ctx context.Context, fileID string, originalDate time.Time, filePath string) (processingID string, claimed bool, err error)
	SetStatus(ctx context.Context, fileID string, originalDate time.Time, filePath string, status model.Status, matchSummary string) (processingID string, err error)
}

// RecordSource is the system-of-record surface the engine needs.
type RecordSource interface {
	FindPolicyFacts(ctx context.Context, policyID string) ([]model.AuthoritativeFacts, error)
	UpsertMatchReport(ctx context.Context, r model.MatchReport) error
}

// Engine processes one document at a time, synchronously. Collaborators
// are injected; the engine owns no global state.
type Engine struct {
	ledger       Ledger
	source       RecordSource
	extractor    extract.Extractor
	localDir     string
	stageTimeout time.Duration
	writeBack    bool
}

// Options configures an Engine.
type Options struct {
	// LocalDir is the working directory documents are copied into before
	// the extraction call.
	LocalDir string

	// StageTimeout bounds each network stage (extraction call,
	// system-of-record queries). Zero means no explicit timeout.
	StageTimeout time.Duration

	// WriteBack controls whether the match report is also upserted into
	// the system of record's result table.
	WriteBack bool
}

// NewEngine creates an Engine with injected collaborators.
func NewEngine(ledger Ledger, source RecordSource, extractor extract.Extractor, opts Options) *Engine {
	if opts.LocalDir == "" {
		opts.LocalDir = "pop_files"
	}
	return &Engine{
		ledger:       ledger,
		source:       source,
		extractor:    extractor,
		localDir:     opts.LocalDir,
		stageTimeout: opts.StageTimeout,
		writeBack:    opts.WriteBack,
	}
}

// ProcessDocument runs the full pipeline for one discovered document.
// attempted is false when the admission check skipped the document
// (already handled or in flight); once a document is admitted, any stage
// failure marks it FAILED in the ledger and returns the failure with
// attempted=true.
func (e *Engine) ProcessDocument(ctx context.Context, ref model.DocumentReference) (attempted bool, err error) {
	log := zap.L().With(
		zap.String("file_id", ref.FileID),
		zap.String("policy_id", ref.PolicyID),
	)

	// Admission: a single atomic claim. Concurrent or re-triggered runs
	// cannot both win it.
	_, claimed, err := e.ledger.Claim(ctx, ref.FileID, ref.DateCreated, ref.FilePath)
	if err != nil {
		return false, err
	}
	if !claimed {
		log.Info("skipping file, already handled or in flight")
		return false, nil
	}

	localPath, err := materialize(ref.FilePath, e.localDir)
	if err != nil {
		e.fail(ctx, ref, "copy", err, log)
		return true, err
	}
	log.Info("materialized document", zap.String("local_path", localPath))

	raw, err := withTimeout(ctx, e.stageTimeout, func(sctx context.Context) (map[string]any, error) {
		return e.extractor.Extract(sctx, localPath)
	})
	if err != nil {
		e.fail(ctx, ref, "extract", err, log)
		return true, err
	}

	facts := extract.Normalize(raw)
	if !facts.AllFieldsPresent {
		// Partial results still flow downstream; the discrepancy report
		// makes the gap visible to the operator.
		log.Warn("extraction incomplete, comparing available fields",
			zap.Strings("missing", facts.Missing),
		)
	}

	authList, err := withTimeout(ctx, e.stageTimeout, func(sctx context.Context) ([]model.AuthoritativeFacts, error) {
		return e.source.FindPolicyFacts(sctx, ref.PolicyID)
	})
	if err != nil {
		e.fail(ctx, ref, "fetch", err, log)
		return true, err
	}
	if len(authList) == 0 {
		err := eris.Errorf("recon: no decision page found for policy %s", ref.PolicyID)
		e.fail(ctx, ref, "fetch", err, log)
		return true, err
	}
	// The query is constrained to one decision page; use the first row.
	auth := authList[0]

	outcome := Compare(facts, auth)
	log.Info("match computed",
		zap.Bool("all_fields_match", outcome.AllFieldsMatch),
		zap.Int("discrepancies", len(outcome.Discrepancies)),
	)

	if e.writeBack {
		report, err := model.BuildMatchReport(ref.FileID, facts, outcome)
		if err != nil {
			e.fail(ctx, ref, "report", err, log)
			return true, err
		}
		_, err = withTimeout(ctx, e.stageTimeout, func(sctx context.Context) (struct{}, error) {
			return struct{}{}, e.source.UpsertMatchReport(sctx, report)
		})
		if err != nil {
			e.fail(ctx, ref, "writeback", err, log)
			return true, err
		}
	}

	if _, err := e.ledger.SetStatus(ctx, ref.FileID, ref.DateCreated, ref.FilePath, model.StatusProcessed, outcome.Summary()); err != nil {
		log.Error("failed to record processed status", zap.Error(err))
		return true, err
	}
	log.Info("document processed", zap.String("summary", outcome.Summary()))
	return true, nil
}

// fail marks the document FAILED so a future poll retries or an operator
// triages it; the pipeline never silently drops a failure.
func (e *Engine) fail(ctx context.Context, ref model.DocumentReference, stage string, cause error, log *zap.Logger) {
	log.Error("stage failed", zap.String("stage", stage), zap.Error(cause))
	if _, err := e.ledger.SetStatus(ctx, ref.FileID, ref.DateCreated, ref.FilePath, model.StatusFailed, "stage "+stage+" failed"); err != nil {
		log.Error("failed to record FAILED status", zap.Error(err))
	}
}

// withTimeout bounds one network stage. Expiry is that stage's failure.
func withTimeout[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if d <= 0 {
		return fn(ctx)
	}
	sctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	return fn(sctx)
}
