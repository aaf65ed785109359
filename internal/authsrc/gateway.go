// Package authsrc is the query gateway to the system of record: candidate
// POP documents, decision-page facts, and the match-result write-back.
// Every query is parameterized and every row maps to named struct fields
// at this boundary, so nothing downstream depends on column order.
package authsrc

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/starcasualty/popmatch/internal/db"
	"github.com/starcasualty/popmatch/internal/model"
)

// Gateway runs the POP queries against the system of record.
type Gateway struct {
	pool db.Pool
}

// NewGateway creates a Gateway over the given pool.
func NewGateway(pool db.Pool) *Gateway {
	return &Gateway{pool: pool}
}

// FindCandidates returns POP documents uploaded within the trailing window,
// newest first: files whose underwriting task comment carries the POP tag.
func (g *Gateway) FindCandidates(ctx context.Context, taskPrefix string, windowDays int) ([]model.DocumentReference, error) {
	rows, err := g.pool.Query(ctx,
		`SELECT f.file_path, f.date_created, f.file_id, t.policy_id
		 FROM is_files f
		 JOIN uw_tasks_done t USING (file_id)
		 WHERE t.task_comments LIKE $1 || '%'
		   AND t.date_created > now() - make_interval(days => $2)
		 ORDER BY f.date_created DESC`,
		taskPrefix, windowDays,
	)
	if err != nil {
		return nil, eris.Wrap(err, "authsrc: find candidates")
	}
	defer rows.Close()

	var refs []model.DocumentReference
	for rows.Next() {
		var ref model.DocumentReference
		if err := rows.Scan(&ref.FilePath, &ref.DateCreated, &ref.FileID, &ref.PolicyID); err != nil {
			return nil, eris.Wrap(err, "authsrc: scan candidate")
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "authsrc: iterate candidates")
	}

	zap.L().Info("candidate documents found",
		zap.Int("count", len(refs)),
		zap.Int("window_days", windowDays),
	)
	return refs, nil
}

// FindPolicyFacts fetches the decision-page comparison record for a policy.
// The query is expected to be constrained to one decision page; callers use
// the first row.
func (g *Gateway) FindPolicyFacts(ctx context.Context, policyID string) ([]model.AuthoritativeFacts, error) {
	rows, err := g.pool.Query(ctx,
		`SELECT policy_id, named_insured, effective_date, expiration_date, agent_code, prior_carrier
		 FROM decision_pages
		 WHERE policy_id = $1`,
		policyID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "authsrc: find policy facts %s", policyID)
	}
	defer rows.Close()

	var facts []model.AuthoritativeFacts
	for rows.Next() {
		var f model.AuthoritativeFacts
		if err := rows.Scan(&f.PolicyID, &f.NamedInsured, &f.EffectiveDate, &f.ExpirationDate, &f.AgentCode, &f.PriorCarrier); err != nil {
			return nil, eris.Wrap(err, "authsrc: scan policy facts")
		}
		facts = append(facts, f)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "authsrc: iterate policy facts")
	}
	return facts, nil
}

// UpsertMatchReport writes the match determination back to the system of
// record, keyed by (policy_id, file_id).
func (g *Gateway) UpsertMatchReport(ctx context.Context, r model.MatchReport) error {
	_, err := g.pool.Exec(ctx,
		`INSERT INTO pop_match_results (
			policy_id, file_id, named_insured, expiration_date, agent_code, prior_carrier,
			all_fields_match, named_insured_match, effective_date_match,
			expiration_date_match, agent_code_match, prior_carrier_match,
			remarks, updated_at
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now())
		 ON CONFLICT (policy_id, file_id) DO UPDATE SET
			named_insured = EXCLUDED.named_insured,
			expiration_date = EXCLUDED.expiration_date,
			agent_code = EXCLUDED.agent_code,
			prior_carrier = EXCLUDED.prior_carrier,
			all_fields_match = EXCLUDED.all_fields_match,
			named_insured_match = EXCLUDED.named_insured_match,
			effective_date_match = EXCLUDED.effective_date_match,
			expiration_date_match = EXCLUDED.expiration_date_match,
			agent_code_match = EXCLUDED.agent_code_match,
			prior_carrier_match = EXCLUDED.prior_carrier_match,
			remarks = EXCLUDED.remarks,
			updated_at = now()`,
		r.PolicyID, r.FileID, r.NamedInsured, r.ExpirationDate, r.AgentCode, r.PriorCarrier,
		r.AllFieldsMatch, r.NamedInsuredMatch, r.EffectiveDateMatch,
		r.ExpirationDateMatch, r.AgentCodeMatch, r.PriorCarrierMatch,
		r.Remarks,
	)
	if err != nil {
		return eris.Wrapf(err, "authsrc: upsert match report %s/%s", r.PolicyID, r.FileID)
	}
	return nil
}

// DumpMatchReports returns every match-result row, newest first, rendered
// as display strings for the operator console.
func (g *Gateway) DumpMatchReports(ctx context.Context) ([][]string, error) {
	rows, err := g.pool.Query(ctx,
		`SELECT policy_id, file_id, all_fields_match, updated_at
		 FROM pop_match_results
		 ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "authsrc: dump match reports")
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var (
			policyID, fileID string
			allMatch         bool
			updatedAt        any
		)
		if err := rows.Scan(&policyID, &fileID, &allMatch, &updatedAt); err != nil {
			return nil, eris.Wrap(err, "authsrc: scan match report")
		}
		out = append(out, []string{policyID, fileID, fmt.Sprintf("%t", allMatch), fmt.Sprintf("%v", updatedAt)})
	}
	return out, eris.Wrap(rows.Err(), "authsrc: iterate match reports")
}

const resultsMigration = `
CREATE TABLE IF NOT EXISTS pop_match_results (
	policy_id             TEXT NOT NULL,
	file_id               TEXT NOT NULL,
	named_insured         TEXT,
	expiration_date       TEXT,
	agent_code            INTEGER,
	prior_carrier         TEXT,
	all_fields_match      BOOLEAN NOT NULL,
	named_insured_match   BOOLEAN NOT NULL,
	effective_date_match  BOOLEAN NOT NULL,
	expiration_date_match BOOLEAN NOT NULL,
	agent_code_match      BOOLEAN NOT NULL,
	prior_carrier_match   BOOLEAN NOT NULL,
	remarks               TEXT NOT NULL DEFAULT '',
	updated_at            TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (policy_id, file_id)
)`

// MigrateResults creates the match-result table if it does not exist.
func (g *Gateway) MigrateResults(ctx context.Context) error {
	_, err := g.pool.Exec(ctx, resultsMigration)
	return eris.Wrap(err, "authsrc: migrate results table")
}
