package pg

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audio-scribe/internal/app/model"
	"audio-scribe/internal/app/repository"
)

var _ repository.JobDAO = (*PostgresJobDAO)(nil)

func newMockDAO(t *testing.T) (*PostgresJobDAO, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &PostgresJobDAO{db: db}, mock
}

func TestInsert(t *testing.T) {
	dao, mock := newMockDAO(t)
	now := time.Now()
	job := &model.Job{
		ID:        "job-pg-1",
		Status:    model.StatusInQueue,
		Engine:    "openai",
		Model:     "whisper-1",
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO jobs`)).
		WithArgs(job.ID, job.Status, job.Engine, job.Model, job.AudioFormat, job.SourceName,
			job.AudioSeconds, job.Transcript, job.ResultJSON, job.ErrorKind, job.ErrorMessage,
			job.ExecutionMS, job.CreatedAt, job.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := dao.Insert(job)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusUsesPositionalArgs(t *testing.T) {
	dao, mock := newMockDAO(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE jobs SET status = $1, updated_at = $2 WHERE id = $3`)).
		WithArgs(model.StatusInProgress, sqlmock.AnyArg(), "job-pg-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := dao.UpdateStatus("job-pg-1", model.StatusInProgress)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteAndFail(t *testing.T) {
	dao, mock := newMockDAO(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE jobs SET status = $1, result_json = $2, transcript = $3, audio_seconds = $4, execution_ms = $5, updated_at = $6 WHERE id = $7`)).
		WithArgs(model.StatusCompleted, `{"text":"ok"}`, "ok", 2.5, int64(120), sqlmock.AnyArg(), "job-pg-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, dao.Complete("job-pg-1", `{"text":"ok"}`, "ok", 2.5, 120))

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE jobs SET status = $1, error_kind = $2, error_message = $3, execution_ms = $4, updated_at = $5 WHERE id = $6`)).
		WithArgs(model.StatusFailed, "engine_error", "server returned status 500", int64(55), sqlmock.AnyArg(), "job-pg-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, dao.Fail("job-pg-2", "engine_error", "server returned status 500", 55))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	dao, mock := newMockDAO(t)
	now := time.Now()

	columns := []string{"id", "status", "engine", "model", "audio_format", "source_name",
		"audio_seconds", "transcript", "result_json", "error_kind", "error_message",
		"execution_ms", "created_at", "updated_at"}
	rows := sqlmock.NewRows(columns).
		AddRow("job-pg-1", model.StatusCompleted, "openai", "whisper-1", "mp3", "talk.mp3",
			61.5, "transcribed text", `{"text":"transcribed text"}`, "", "", int64(2400), now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM jobs WHERE id = $1`)).
		WithArgs("job-pg-1").
		WillReturnRows(rows)

	job, err := dao.GetByID("job-pg-1")
	require.NoError(t, err)
	assert.Equal(t, "openai", job.Engine)
	assert.Equal(t, 61.5, job.AudioSeconds)
	assert.Equal(t, `{"text":"transcribed text"}`, job.ResultJSON)
}

func TestPurgeOlderThan(t *testing.T) {
	dao, mock := newMockDAO(t)
	cutoff := time.Now().Add(-7 * 24 * time.Hour)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM jobs WHERE updated_at < $1 AND status IN ($2, $3, $4)`)).
		WithArgs(cutoff, model.StatusCompleted, model.StatusFailed, model.StatusCancelled).
		WillReturnResult(sqlmock.NewResult(0, 2))

	purged, err := dao.PurgeOlderThan(cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(2), purged)
}
