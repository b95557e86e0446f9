package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"audio-scribe/internal/app/model"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS jobs (
	id TEXT PRIMARY KEY,
	status TEXT NOT NULL,
	engine TEXT NOT NULL DEFAULT '',
	model TEXT NOT NULL DEFAULT '',
	audio_format TEXT NOT NULL DEFAULT '',
	source_name TEXT NOT NULL DEFAULT '',
	audio_seconds REAL NOT NULL DEFAULT 0,
	transcript TEXT NOT NULL DEFAULT '',
	result_json TEXT NOT NULL DEFAULT '',
	error_kind TEXT NOT NULL DEFAULT '',
	error_message TEXT NOT NULL DEFAULT '',
	execution_ms INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs(created_at);
`

// SQLiteJobDAO keeps the job ledger in a local SQLite file.
type SQLiteJobDAO struct {
	db *sql.DB
}

// NewSQLiteJobDAO opens (or creates) the ledger database at dbFilePath.
func NewSQLiteJobDAO(dbFilePath string) (*SQLiteJobDAO, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?cache=shared&mode=rwc", dbFilePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create jobs table: %v", err)
	}
	return &SQLiteJobDAO{db: db}, nil
}

func (s *SQLiteJobDAO) Close() error {
	return s.db.Close()
}

func (s *SQLiteJobDAO) Insert(job *model.Job) error {
	insertSQL := `INSERT INTO jobs (id, status, engine, model, audio_format, source_name, audio_seconds, transcript, result_json, error_kind, error_message, execution_ms, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
	_, err := s.db.Exec(insertSQL,
		job.ID, job.Status, job.Engine, job.Model, job.AudioFormat, job.SourceName,
		job.AudioSeconds, job.Transcript, job.ResultJSON, job.ErrorKind, job.ErrorMessage,
		job.ExecutionMS, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert failed: %v", err)
	}
	return nil
}

func (s *SQLiteJobDAO) UpdateStatus(id, status string) error {
	updateSQL := `UPDATE jobs SET status = ?, updated_at = ? WHERE id = ?`
	result, err := s.db.Exec(updateSQL, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("update failed: %v", err)
	}
	return requireRow(result, id)
}

func (s *SQLiteJobDAO) Complete(id, resultJSON, transcript string, audioSeconds float64, executionMS int64) error {
	updateSQL := `UPDATE jobs SET status = ?, result_json = ?, transcript = ?, audio_seconds = ?, execution_ms = ?, updated_at = ? WHERE id = ?`
	result, err := s.db.Exec(updateSQL, model.StatusCompleted, resultJSON, transcript, audioSeconds, executionMS, time.Now(), id)
	if err != nil {
		return fmt.Errorf("update failed: %v", err)
	}
	return requireRow(result, id)
}

func (s *SQLiteJobDAO) Fail(id, errorKind, errorMessage string, executionMS int64) error {
	updateSQL := `UPDATE jobs SET status = ?, error_kind = ?, error_message = ?, execution_ms = ?, updated_at = ? WHERE id = ?`
	result, err := s.db.Exec(updateSQL, model.StatusFailed, errorKind, errorMessage, executionMS, time.Now(), id)
	if err != nil {
		return fmt.Errorf("update failed: %v", err)
	}
	return requireRow(result, id)
}

func (s *SQLiteJobDAO) GetByID(id string) (*model.Job, error) {
	query := `SELECT id, status, engine, model, audio_format, source_name, audio_seconds, transcript, result_json, error_kind, error_message, execution_ms, created_at, updated_at FROM jobs WHERE id = ?`
	row := s.db.QueryRow(query, id)

	var job model.Job
	err := row.Scan(&job.ID, &job.Status, &job.Engine, &job.Model, &job.AudioFormat, &job.SourceName,
		&job.AudioSeconds, &job.Transcript, &job.ResultJSON, &job.ErrorKind, &job.ErrorMessage,
		&job.ExecutionMS, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("db scan failed: %v", err)
	}
	return &job, nil
}

func (s *SQLiteJobDAO) FindBySource(sourceName string) (*model.Job, error) {
	query := `SELECT id, status, engine, model, audio_format, source_name, audio_seconds, transcript, result_json, error_kind, error_message, execution_ms, created_at, updated_at FROM jobs WHERE source_name = ? ORDER BY created_at DESC LIMIT 1`
	row := s.db.QueryRow(query, sourceName)

	var job model.Job
	err := row.Scan(&job.ID, &job.Status, &job.Engine, &job.Model, &job.AudioFormat, &job.SourceName,
		&job.AudioSeconds, &job.Transcript, &job.ResultJSON, &job.ErrorKind, &job.ErrorMessage,
		&job.ExecutionMS, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("db scan failed: %v", err)
	}
	return &job, nil
}

func (s *SQLiteJobDAO) List(limit, offset int) ([]model.Job, error) {
	query := `SELECT id, status, engine, model, audio_format, source_name, audio_seconds, transcript, result_json, error_kind, error_message, execution_ms, created_at, updated_at FROM jobs ORDER BY created_at DESC LIMIT ? OFFSET ?`
	rows, err := s.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query failed: %v", err)
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (s *SQLiteJobDAO) ListByStatus(status string, limit int) ([]model.Job, error) {
	query := `SELECT id, status, engine, model, audio_format, source_name, audio_seconds, transcript, result_json, error_kind, error_message, execution_ms, created_at, updated_at FROM jobs WHERE status = ? ORDER BY created_at DESC LIMIT ?`
	rows, err := s.db.Query(query, status, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %v", err)
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (s *SQLiteJobDAO) CountByStatus() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT status, COUNT(*) FROM jobs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %v", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("db scan failed: %v", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (s *SQLiteJobDAO) CountByEngine() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT engine, COUNT(*) FROM jobs GROUP BY engine`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %v", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var engine string
		var count int
		if err := rows.Scan(&engine, &count); err != nil {
			return nil, fmt.Errorf("db scan failed: %v", err)
		}
		counts[engine] = count
	}
	return counts, rows.Err()
}

func (s *SQLiteJobDAO) PurgeOlderThan(cutoff time.Time) (int64, error) {
	deleteSQL := `DELETE FROM jobs WHERE updated_at < ? AND status IN (?, ?, ?)`
	result, err := s.db.Exec(deleteSQL, cutoff, model.StatusCompleted, model.StatusFailed, model.StatusCancelled)
	if err != nil {
		return 0, fmt.Errorf("delete failed: %v", err)
	}
	return result.RowsAffected()
}

func scanJobs(rows *sql.Rows) ([]model.Job, error) {
	jobs := make([]model.Job, 0)
	for rows.Next() {
		var job model.Job
		err := rows.Scan(&job.ID, &job.Status, &job.Engine, &job.Model, &job.AudioFormat, &job.SourceName,
			&job.AudioSeconds, &job.Transcript, &job.ResultJSON, &job.ErrorKind, &job.ErrorMessage,
			&job.ExecutionMS, &job.CreatedAt, &job.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("db scan failed: %v", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func requireRow(result sql.Result, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return nil
	}
	if affected == 0 {
		return fmt.Errorf("job not found: %s", id)
	}
	return nil
}
