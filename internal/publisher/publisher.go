// Package publisher pushes the local working tree to the platform's git
// endpoint, which is what actually triggers a build and release.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultRemote is the git remote name pointing at the platform.
	DefaultRemote = "heroku"

	// DefaultCommitMessage is the fixed message used for deploy commits.
	DefaultCommitMessage = "Deploy to Heroku"

	// deployBranch is the remote branch the platform builds from.
	deployBranch = "refs/heads/main"
)

// Options configures a Publisher.
type Options struct {
	Path          string // working tree, defaults to "."
	RemoteName    string
	CommitMessage string
	AuthorName    string
	AuthorEmail   string
}

// Publisher stages, commits, and pushes the working tree.
type Publisher struct {
	opts Options
}

// NewPublisher creates a publisher for the given working tree.
func NewPublisher(opts Options) *Publisher {
	if opts.Path == "" {
		opts.Path = "."
	}
	if opts.RemoteName == "" {
		opts.RemoteName = DefaultRemote
	}
	if opts.CommitMessage == "" {
		opts.CommitMessage = DefaultCommitMessage
	}
	if opts.AuthorName == "" {
		opts.AuthorName = "resume-deploy"
	}
	if opts.AuthorEmail == "" {
		opts.AuthorEmail = "resume-deploy@localhost"
	}
	return &Publisher{opts: opts}
}

// TokenAuth builds the HTTP credentials Heroku's git endpoint expects from a
// CLI auth token. The username is ignored by the platform.
func TokenAuth(token string) transport.AuthMethod {
	if token == "" {
		return nil
	}
	return &githttp.BasicAuth{Username: "heroku", Password: token}
}

// RemoteURL returns the platform git URL for an application.
func RemoteURL(app string) string {
	return fmt.Sprintf("https://git.heroku.com/%s.git", app)
}

// Publish stages all changes, commits with the fixed message, and pushes
// HEAD to the platform's deploy branch. A clean tree skips the commit and
// pushes whatever HEAD already points at. Returns the pushed commit SHA.
func (p *Publisher) Publish(ctx context.Context, app string, auth transport.AuthMethod) (string, error) {
	repo, err := git.PlainOpen(p.opts.Path)
	if err != nil {
		return "", fmt.Errorf("opening repository at %s: %w", p.opts.Path, err)
	}

	if err := p.ensureRemote(repo, app); err != nil {
		return "", err
	}

	if err := p.stageAndCommit(repo); err != nil {
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolving HEAD: %w", err)
	}

	refspec := config.RefSpec(fmt.Sprintf("%s:%s", head.Name(), deployBranch))
	err = repo.PushContext(ctx, &git.PushOptions{
		RemoteName: p.opts.RemoteName,
		RefSpecs:   []config.RefSpec{refspec},
		Auth:       auth,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return "", fmt.Errorf("push to %s failed: %w", p.opts.RemoteName, err)
	}

	log.Info().
		Str("app", app).
		Str("commit", head.Hash().String()).
		Str("remote", p.opts.RemoteName).
		Msg("Pushed to platform deploy branch")

	return head.Hash().String(), nil
}

// ensureRemote points the deploy remote at the application's git endpoint,
// replacing a stale URL left by a previous app name.
func (p *Publisher) ensureRemote(repo *git.Repository, app string) error {
	url := RemoteURL(app)

	remote, err := repo.Remote(p.opts.RemoteName)
	switch {
	case errors.Is(err, git.ErrRemoteNotFound):
		// created below
	case err != nil:
		return fmt.Errorf("reading remote %s: %w", p.opts.RemoteName, err)
	default:
		urls := remote.Config().URLs
		if len(urls) > 0 && urls[0] == url {
			return nil
		}
		if err := repo.DeleteRemote(p.opts.RemoteName); err != nil {
			return fmt.Errorf("replacing remote %s: %w", p.opts.RemoteName, err)
		}
	}

	_, err = repo.CreateRemote(&config.RemoteConfig{
		Name: p.opts.RemoteName,
		URLs: []string{url},
	})
	if err != nil {
		return fmt.Errorf("creating remote %s: %w", p.opts.RemoteName, err)
	}

	log.Info().Str("remote", p.opts.RemoteName).Str("url", url).Msg("Deploy remote configured")
	return nil
}

// stageAndCommit stages everything and commits with the fixed message.
// A clean tree is not an error: the operator is redeploying current HEAD.
func (p *Publisher) stageAndCommit(repo *git.Repository) error {
	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("opening worktree: %w", err)
	}

	if err := worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("staging changes: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return fmt.Errorf("reading worktree status: %w", err)
	}
	if status.IsClean() {
		log.Info().Msg("Working tree clean, pushing existing HEAD")
		return nil
	}

	commit, err := worktree.Commit(p.opts.CommitMessage, &git.CommitOptions{
		Author: &object.Signature{
			Name:  p.opts.AuthorName,
			Email: p.opts.AuthorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("committing changes: %w", err)
	}

	log.Info().Str("commit", commit.String()).Str("message", p.opts.CommitMessage).Msg("Changes committed")
	return nil
}
