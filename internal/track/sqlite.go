package track

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/starcasualty/popmatch/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "track: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "track: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

// The UNIQUE index on file_id is what makes Claim race-safe: two runs
// admitting the same file contend on one row instead of inserting two.
const sqliteMigration = `
CREATE TABLE IF NOT EXISTS pop_tracking (
	processing_id TEXT PRIMARY KEY,
	file_id       TEXT NOT NULL,
	original_date DATETIME NOT NULL,
	file_path     TEXT NOT NULL,
	status        TEXT NOT NULL CHECK (status IN ('NOT_PROCESSED', 'IN_PROGRESS', 'FAILED', 'PROCESSED')),
	match_summary TEXT NOT NULL DEFAULT '',
	updated_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_pop_tracking_file_id ON pop_tracking(file_id);
CREATE INDEX IF NOT EXISTS idx_pop_tracking_status ON pop_tracking(status);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "track: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Claim(ctx context.Context, fileID string, originalDate time.Time, filePath string) (string, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO pop_tracking (processing_id, file_id, original_date, file_path, status, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(file_id) DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at
		 WHERE pop_tracking.status = ?
		 RETURNING processing_id`,
		uuid.New().String(), fileID, originalDate.UTC(), filePath,
		string(model.StatusInProgress), time.Now().UTC(),
		string(model.StatusNotProcessed),
	)

	var id string
	err := row.Scan(&id)
	if err == sql.ErrNoRows {
		// Record exists in a status past NOT_PROCESSED: already handled
		// or in flight.
		return "", false, nil
	}
	if err != nil {
		return "", false, eris.Wrapf(err, "track: claim %s", fileID)
	}
	return id, true, nil
}

func (s *SQLiteStore) SetStatus(ctx context.Context, fileID string, originalDate time.Time, filePath string, status model.Status, matchSummary string) (string, error) {
	if !status.Valid() {
		return "", eris.Errorf("track: invalid status %q", status)
	}

	existing, err := s.GetByFileID(ctx, fileID)
	if err != nil && !eris.Is(err, ErrNotFound) {
		return "", err
	}

	if existing != nil {
		res, err := s.db.ExecContext(ctx,
			`UPDATE pop_tracking SET status = ?, match_summary = ?, updated_at = ? WHERE processing_id = ?`,
			string(status), matchSummary, time.Now().UTC(), existing.ProcessingID,
		)
		if err != nil {
			return "", eris.Wrapf(err, "track: update status for %s", fileID)
		}
		if err := checkRowsAffected(res, "tracking record", existing.ProcessingID); err != nil {
			return "", err
		}
		return existing.ProcessingID, nil
	}

	id := uuid.New().String()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO pop_tracking (processing_id, file_id, original_date, file_path, status, match_summary, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, fileID, originalDate.UTC(), filePath, string(status), matchSummary, time.Now().UTC(),
	)
	if err != nil {
		return "", eris.Wrapf(err, "track: insert record for %s", fileID)
	}
	return id, nil
}

const selectColumns = `processing_id, file_id, original_date, file_path, status, match_summary, updated_at`

func (s *SQLiteStore) GetByFileID(ctx context.Context, fileID string) (*model.TrackingRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM pop_tracking WHERE file_id = ?`, fileID,
	)
	return scanRecord(row)
}

func (s *SQLiteStore) GetAll(ctx context.Context) ([]model.TrackingRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM pop_tracking ORDER BY original_date DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "track: get all")
	}
	return collectRecords(rows)
}

func (s *SQLiteStore) GetByStatus(ctx context.Context, status model.Status) ([]model.TrackingRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM pop_tracking WHERE status = ? ORDER BY original_date DESC`,
		string(status),
	)
	if err != nil {
		return nil, eris.Wrapf(err, "track: get by status %s", status)
	}
	return collectRecords(rows)
}

func (s *SQLiteStore) CountByStatus(ctx context.Context, status model.Status) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pop_tracking WHERE status = ?`, string(status),
	).Scan(&n)
	return n, eris.Wrapf(err, "track: count by status %s", status)
}

func (s *SQLiteStore) ResetStatus(ctx context.Context, fileID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE pop_tracking SET status = ?, updated_at = ? WHERE file_id = ?`,
		string(model.StatusNotProcessed), time.Now().UTC(), fileID,
	)
	if err != nil {
		return eris.Wrapf(err, "track: reset status for %s", fileID)
	}
	return checkRowsAffected(res, "tracking record", fileID)
}

func (s *SQLiteStore) Delete(ctx context.Context, processingID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM pop_tracking WHERE processing_id = ?`, processingID,
	)
	if err != nil {
		return false, eris.Wrapf(err, "track: delete %s", processingID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, eris.Wrap(err, "track: rows affected")
	}
	return n > 0, nil
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "track: rows affected")
	}
	if n == 0 {
		return eris.Errorf("track: %s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row scannable) (*model.TrackingRecord, error) {
	var r model.TrackingRecord
	var status string
	err := row.Scan(&r.ProcessingID, &r.FileID, &r.OriginalDate, &r.FilePath, &status, &r.MatchSummary, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "track: scan record")
	}
	r.Status = model.Status(status)
	return &r, nil
}

func collectRecords(rows *sql.Rows) ([]model.TrackingRecord, error) {
	defer rows.Close()

	var records []model.TrackingRecord
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return records, eris.Wrap(rows.Err(), "track: iterate records")
}
