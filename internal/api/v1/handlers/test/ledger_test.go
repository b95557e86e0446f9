package test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"audio-scribe/internal/app/testutil"
)

func seedLedger(t *testing.T, env *testEnv) {
	for i := range testutil.SampleJobs {
		require.NoError(t, env.ledger.Insert(&testutil.SampleJobs[i]))
	}
}

func TestLedgerHandler_List(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    string
		expectedStatus int
		validateBody   func(*testing.T, map[string]interface{})
	}{
		{
			name:           "full page, newest first",
			queryParams:    "",
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				jobs := body["jobs"].([]interface{})
				require.Len(t, jobs, 3)
				first := jobs[0].(map[string]interface{})
				assert.Equal(t, "job-queued-1", first["id"])

				pagination := body["pagination"].(map[string]interface{})
				assert.Equal(t, float64(1), pagination["page"])
				assert.Equal(t, float64(3), pagination["total"])
				assert.Equal(t, false, pagination["has_next"])
			},
		},
		{
			name:           "filter by status",
			queryParams:    "?status=COMPLETED",
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				jobs := body["jobs"].([]interface{})
				require.Len(t, jobs, 1)
				job := jobs[0].(map[string]interface{})
				assert.Equal(t, "job-completed-1", job["id"])
				assert.Equal(t, "COMPLETED", job["status"])
			},
		},
		{
			name:           "filter by engine",
			queryParams:    "?engine=whisper_server",
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				jobs := body["jobs"].([]interface{})
				assert.Len(t, jobs, 2)
			},
		},
		{
			name:           "invalid page",
			queryParams:    "?page=0",
			expectedStatus: http.StatusUnprocessableEntity,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "validation", body["kind"])
				assert.NotNil(t, body["details"])
			},
		},
		{
			name:           "unknown status value",
			queryParams:    "?status=RUNNING",
			expectedStatus: http.StatusUnprocessableEntity,
			validateBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "validation", body["kind"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestRouter(t)
			seedLedger(t, env)

			req := httptest.NewRequest("GET", "/v1/jobs"+tt.queryParams, nil)
			rec := httptest.NewRecorder()

			env.router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var responseBody map[string]interface{}
			err := json.Unmarshal(rec.Body.Bytes(), &responseBody)
			require.NoError(t, err)

			tt.validateBody(t, responseBody)
		})
	}
}

func TestLedgerHandler_ListTotalCountHeader(t *testing.T) {
	env := setupTestRouter(t)
	seedLedger(t, env)

	req := httptest.NewRequest("GET", "/v1/jobs", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3", rec.Header().Get("X-Total-Count"))
}

func TestLedgerHandler_Stats(t *testing.T) {
	env := setupTestRouter(t)
	seedLedger(t, env)

	req := httptest.NewRequest("GET", "/v1/jobs/stats", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	byStatus := body["by_status"].(map[string]interface{})
	assert.Equal(t, float64(1), byStatus["COMPLETED"])
	assert.Equal(t, float64(1), byStatus["FAILED"])
	assert.Equal(t, float64(1), byStatus["IN_QUEUE"])

	byEngine := body["by_engine"].(map[string]interface{})
	assert.Equal(t, float64(2), byEngine["whisper_server"])
}

func TestLedgerHandler_Export(t *testing.T) {
	env := setupTestRouter(t)
	seedLedger(t, env)

	req := httptest.NewRequest("GET", "/v1/export", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "jobs.xlsx")

	file, err := xlsx.OpenBinary(rec.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	// Header row plus one row per ledger entry.
	assert.Len(t, file.Sheets[0].Rows, len(testutil.SampleJobs)+1)
}
