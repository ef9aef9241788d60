package pipeline

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alvesdmateus/resume-deploy/internal/state"
)

type fakeSteps struct {
	order []string

	preflightErr error
	provisionErr error
	buildpackErr error
	publishErr   error

	publishedApp string
	publishedSHA string
}

func (f *fakeSteps) Check(ctx context.Context) error {
	f.order = append(f.order, StepPreflight)
	return f.preflightErr
}

func (f *fakeSteps) EnsureApp(ctx context.Context, name string) error {
	f.order = append(f.order, StepProvision)
	return f.provisionErr
}

func (f *fakeSteps) Configure(ctx context.Context, app string) error {
	f.order = append(f.order, StepBuildpack)
	return f.buildpackErr
}

func (f *fakeSteps) Publish(ctx context.Context, app string, auth transport.AuthMethod) (string, error) {
	f.order = append(f.order, StepPublish)
	f.publishedApp = app
	if f.publishErr != nil {
		return "", f.publishErr
	}
	if f.publishedSHA == "" {
		f.publishedSHA = "abc123"
	}
	return f.publishedSHA, nil
}

func (f *fakeSteps) AuthToken(ctx context.Context) (string, error) {
	return "token", nil
}

type fakeRecorder struct {
	created    int
	completed  int
	failedStep string
}

func (f *fakeRecorder) CreateRun(ctx context.Context, run *state.DeployRun) error {
	f.created++
	run.ID = uuid.New()
	return nil
}

func (f *fakeRecorder) CompleteRun(ctx context.Context, id uuid.UUID, gitSHA string) error {
	f.completed++
	return nil
}

func (f *fakeRecorder) FailRun(ctx context.Context, id uuid.UUID, step string, cause error) error {
	f.failedStep = step
	return nil
}

func newTestEngine(steps *fakeSteps, rec Recorder, out *bytes.Buffer) *Engine {
	return NewEngine(Options{
		Preflight:   steps,
		Provisioner: steps,
		Buildpack:   steps,
		Publisher:   steps,
		Tokens:      steps,
		Recorder:    rec,
		Out:         out,
		BuildpackID: "heroku/python",
	})
}

func TestRunExecutesStepsInOrder(t *testing.T) {
	steps := &fakeSteps{}
	rec := &fakeRecorder{}
	var out bytes.Buffer

	err := newTestEngine(steps, rec, &out).Run(context.Background(), "resume-analyzer", false)
	require.NoError(t, err)

	assert.Equal(t, []string{StepPreflight, StepProvision, StepBuildpack, StepPublish}, steps.order)
	assert.Equal(t, "resume-analyzer", steps.publishedApp)
	assert.Equal(t, 1, rec.created)
	assert.Equal(t, 1, rec.completed)

	text := out.String()
	assert.Contains(t, text, "OPENAI_API_KEY", "checklist printed before the push")
	assert.Contains(t, text, "scheduler:standard", "post-deploy instructions printed")
	assert.Contains(t, text, DefaultSchedulerJob)
}

func TestRunStopsAtPreflightFailure(t *testing.T) {
	steps := &fakeSteps{preflightErr: errors.New("heroku CLI not found")}
	rec := &fakeRecorder{}

	err := newTestEngine(steps, rec, &bytes.Buffer{}).Run(context.Background(), "resume-analyzer", false)
	require.Error(t, err)

	assert.Equal(t, []string{StepPreflight}, steps.order, "no platform action after a failed preflight")
	assert.Equal(t, StepPreflight, rec.failedStep)
	assert.Equal(t, 0, rec.completed)
}

func TestRunStopsAtProvisionFailure(t *testing.T) {
	steps := &fakeSteps{provisionErr: errors.New("exit status 1")}
	rec := &fakeRecorder{}

	err := newTestEngine(steps, rec, &bytes.Buffer{}).Run(context.Background(), "foo", false)
	require.Error(t, err)
	assert.Equal(t, []string{StepPreflight, StepProvision}, steps.order)
	assert.Equal(t, StepProvision, rec.failedStep)
}

func TestRunSkipPushEndsAfterChecklist(t *testing.T) {
	steps := &fakeSteps{}
	rec := &fakeRecorder{}
	var out bytes.Buffer

	err := newTestEngine(steps, rec, &out).Run(context.Background(), "resume-analyzer", true)
	require.NoError(t, err)

	assert.NotContains(t, steps.order, StepPublish)
	assert.Contains(t, out.String(), "Skipping push")
	assert.Equal(t, 1, rec.completed)
}

func TestRunWithoutRecorder(t *testing.T) {
	steps := &fakeSteps{}

	err := newTestEngine(steps, nil, &bytes.Buffer{}).Run(context.Background(), "resume-analyzer", false)
	assert.NoError(t, err)
}
