package workflows_test

import (
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	"audio-scribe/internal/app/engine"
	"audio-scribe/internal/app/handler"
	"audio-scribe/internal/app/model"
	"audio-scribe/internal/app/temporal/activities"
	"audio-scribe/internal/app/temporal/workflows"
	"audio-scribe/internal/app/testutil"
)

func newTestActivities(t *testing.T, mock *testutil.MockEngine, dao *testutil.MockJobDAO) *activities.TranscribeActivities {
	registry := engine.NewRegistry()
	require.NoError(t, registry.Add("mock", mock))

	core := handler.New(registry, handler.WithTempDir(t.TempDir()))

	var opts []activities.Option
	if dao != nil {
		opts = append(opts, activities.WithLedger(dao))
	}
	return activities.NewTranscribeActivities(core, registry, opts...)
}

func TestTranscriptionWorkflowCompletes(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()

	mock := testutil.NewMockEngine("mock").WithPayload(testutil.JFKPayload, "And so my fellow Americans")
	dao := testutil.NewMockJobDAO()
	env.RegisterActivity(newTestActivities(t, mock, dao).RunTranscriptionJob)

	req := workflows.TranscriptionRequest{
		JobID: "job-1",
		Input: handler.Input{
			AudioBase64:   base64.StdEncoding.EncodeToString(testutil.WavBytes()),
			Model:         "turbo",
			Transcription: "plain_text",
		},
	}
	env.ExecuteWorkflow(workflows.TranscriptionWorkflow, req)

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var result workflows.TranscriptionResult
	require.NoError(t, env.GetWorkflowResult(&result))
	assert.Equal(t, "job-1", result.JobID)
	assert.Equal(t, model.StatusCompleted, result.Status)
	assert.Equal(t, "mock", result.Engine)
	assert.Equal(t, testutil.JFKPayload, string(result.Output))

	row, err := dao.GetByID("job-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, row.Status)
	assert.Equal(t, testutil.JFKPayload, row.ResultJSON)
}

func TestTranscriptionWorkflowReportsJobFailure(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()

	mock := testutil.NewMockEngine("mock").
		WithError(engine.NewError("mock", "inference_failed", "model file is corrupted"))
	env.RegisterActivity(newTestActivities(t, mock, nil).RunTranscriptionJob)

	req := workflows.TranscriptionRequest{
		JobID: "job-2",
		Input: handler.Input{AudioBase64: base64.StdEncoding.EncodeToString(testutil.WavBytes())},
	}
	env.ExecuteWorkflow(workflows.TranscriptionWorkflow, req)

	require.True(t, env.IsWorkflowCompleted())
	// A failed job is a successful workflow run; the envelope carries it.
	require.NoError(t, env.GetWorkflowError())

	var result workflows.TranscriptionResult
	require.NoError(t, env.GetWorkflowResult(&result))
	assert.Equal(t, model.StatusFailed, result.Status)
	require.NotNil(t, result.Error)
	assert.Equal(t, "engine_error", result.Error.Kind)
	assert.Equal(t, "model file is corrupted", result.Error.Message)
	assert.Nil(t, result.Output)
}

func TestEngineHealthWorkflow(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}
	env := testSuite.NewTestWorkflowEnvironment()

	registry := engine.NewRegistry()
	require.NoError(t, registry.Add("healthy", testutil.NewMockEngine("healthy")))
	broken := testutil.NewMockEngine("broken").WithHealthError(fmt.Errorf("server unreachable"))
	require.NoError(t, registry.Add("broken", broken))

	core := handler.New(registry, handler.WithTempDir(t.TempDir()))
	env.RegisterActivity(activities.NewTranscribeActivities(core, registry).CheckEngines)

	env.ExecuteWorkflow(workflows.EngineHealthWorkflow)

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var statuses []workflows.EngineHealth
	require.NoError(t, env.GetWorkflowResult(&statuses))
	require.Len(t, statuses, 2)
	assert.Equal(t, "broken", statuses[0].Name)
	assert.False(t, statuses[0].Healthy)
	assert.Contains(t, statuses[0].Error, "unreachable")
	assert.Equal(t, "healthy", statuses[1].Name)
	assert.True(t, statuses[1].Healthy)
}
