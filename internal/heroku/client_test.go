package heroku

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records invocations and replays canned results keyed by the
// first subcommand argument.
type fakeRunner struct {
	calls   [][]string
	results map[string]fakeResult
}

type fakeResult struct {
	output []byte
	err    error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if res, ok := f.results[args[0]]; ok {
		return res.output, res.err
	}
	return nil, nil
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{results: map[string]fakeResult{}}
}

func TestWhoAmI(t *testing.T) {
	runner := newFakeRunner()
	runner.results["auth:whoami"] = fakeResult{output: []byte("operator@example.com\n")}

	client := NewClient("", runner)
	email, err := client.WhoAmI(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "operator@example.com", email)
}

func TestWhoAmIUnauthenticated(t *testing.T) {
	runner := newFakeRunner()
	runner.results["auth:whoami"] = fakeResult{
		output: []byte("Error: not logged in"),
		err:    errors.New("exit status 100"),
	}

	client := NewClient("", runner)
	_, err := client.WhoAmI(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestMissingBinaryClassified(t *testing.T) {
	runner := newFakeRunner()
	runner.results["version"] = fakeResult{err: exec.ErrNotFound}

	client := NewClient("", runner)
	_, err := client.Version(context.Background())
	assert.ErrorIs(t, err, ErrCLINotFound)
}

func TestAppExists(t *testing.T) {
	runner := newFakeRunner()
	runner.results["apps:info"] = fakeResult{output: []byte("=== resume-analyzer")}

	client := NewClient("", runner)
	exists, err := client.AppExists(context.Background(), "resume-analyzer")
	require.NoError(t, err)
	assert.True(t, exists)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"heroku", "apps:info", "--app", "resume-analyzer"}, runner.calls[0])
}

func TestAppExistsLookupFailureMeansAbsent(t *testing.T) {
	runner := newFakeRunner()
	runner.results["apps:info"] = fakeResult{
		output: []byte("Couldn't find that app."),
		err:    errors.New("exit status 1"),
	}

	client := NewClient("", runner)
	exists, err := client.AppExists(context.Background(), "missing-app")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestClearBuildpacksToleratesEmptyList(t *testing.T) {
	runner := newFakeRunner()
	runner.results["buildpacks:clear"] = fakeResult{
		output: []byte("No buildpacks were found."),
		err:    errors.New("exit status 1"),
	}

	client := NewClient("", runner)
	err := client.ClearBuildpacks(context.Background(), "resume-analyzer")
	assert.NoError(t, err)
}

func TestSetBuildpackPropagatesFailure(t *testing.T) {
	runner := newFakeRunner()
	runner.results["buildpacks:set"] = fakeResult{
		output: []byte("Error: API request failed"),
		err:    errors.New("exit status 1"),
	}

	client := NewClient("", runner)
	err := client.SetBuildpack(context.Background(), "resume-analyzer", "heroku/python")
	assert.Error(t, err)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("plain failure")))
	assert.Equal(t, 1, ExitCode(ErrNotLoggedIn))
}
