package publisher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.py"), []byte("print('hi')\n"), 0o644))
	return dir, repo
}

func TestEnsureRemoteCreatesPlatformURL(t *testing.T) {
	dir, repo := initTestRepo(t)

	p := NewPublisher(Options{Path: dir})
	require.NoError(t, p.ensureRemote(repo, "resume-analyzer"))

	remote, err := repo.Remote(DefaultRemote)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://git.heroku.com/resume-analyzer.git"}, remote.Config().URLs)
}

func TestEnsureRemoteReplacesStaleURL(t *testing.T) {
	dir, repo := initTestRepo(t)

	p := NewPublisher(Options{Path: dir})
	require.NoError(t, p.ensureRemote(repo, "old-app"))
	require.NoError(t, p.ensureRemote(repo, "new-app"))

	remote, err := repo.Remote(DefaultRemote)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://git.heroku.com/new-app.git"}, remote.Config().URLs)
}

func TestStageAndCommitUsesFixedMessage(t *testing.T) {
	dir, repo := initTestRepo(t)

	p := NewPublisher(Options{Path: dir})
	require.NoError(t, p.stageAndCommit(repo))

	head, err := repo.Head()
	require.NoError(t, err)

	commit, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)
	assert.Equal(t, DefaultCommitMessage, commit.Message)
}

func TestStageAndCommitCleanTreeIsNotAnError(t *testing.T) {
	dir, repo := initTestRepo(t)

	p := NewPublisher(Options{Path: dir})
	require.NoError(t, p.stageAndCommit(repo))

	headBefore, err := repo.Head()
	require.NoError(t, err)

	// Nothing changed; a second run must keep HEAD and not fail.
	require.NoError(t, p.stageAndCommit(repo))

	headAfter, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, headBefore.Hash(), headAfter.Hash())
}

func TestTokenAuth(t *testing.T) {
	assert.Nil(t, TokenAuth(""))
	assert.NotNil(t, TokenAuth("0123abcd"))
}

func TestRemoteURL(t *testing.T) {
	assert.Equal(t, "https://git.heroku.com/foo.git", RemoteURL("foo"))
}
