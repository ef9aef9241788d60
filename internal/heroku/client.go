// Package heroku wraps the Heroku CLI binary. Every platform action the
// deploy pipeline performs goes through this client; nothing here talks to
// the Heroku API directly.
package heroku

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultBinary is the CLI executable name resolved via PATH.
const DefaultBinary = "heroku"

var (
	// ErrCLINotFound indicates the heroku binary is not installed or not on PATH.
	ErrCLINotFound = errors.New("heroku CLI not found")

	// ErrNotLoggedIn indicates the operator has no active CLI session.
	ErrNotLoggedIn = errors.New("not logged in to heroku")
)

// Client invokes the Heroku CLI.
type Client struct {
	binary string
	runner Runner
}

// NewClient creates a client that shells out to the given binary.
// An empty binary falls back to DefaultBinary.
func NewClient(binary string, runner Runner) *Client {
	if binary == "" {
		binary = DefaultBinary
	}
	if runner == nil {
		runner = NewExecRunner()
	}
	return &Client{binary: binary, runner: runner}
}

// run executes a heroku subcommand and returns its combined output.
// A missing binary is classified as ErrCLINotFound; every other failure
// keeps the CLI's own exit status reachable via ExitCode.
func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	output, err := c.runner.Run(ctx, c.binary, args...)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return output, fmt.Errorf("%w: %s", ErrCLINotFound, c.binary)
		}
		return output, fmt.Errorf("heroku %s failed: %w: %s", args[0], err, strings.TrimSpace(string(output)))
	}
	return output, nil
}

// Version reports the installed CLI version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	output, err := c.run(ctx, "version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// WhoAmI returns the email of the logged-in operator, or ErrNotLoggedIn.
func (c *Client) WhoAmI(ctx context.Context) (string, error) {
	output, err := c.run(ctx, "auth:whoami")
	if err != nil {
		if errors.Is(err, ErrCLINotFound) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrNotLoggedIn, err)
	}
	return strings.TrimSpace(string(output)), nil
}

// AuthToken returns the CLI's current API token. The publisher uses it as
// the password for HTTPS git pushes; it is never written anywhere.
func (c *Client) AuthToken(ctx context.Context) (string, error) {
	output, err := c.run(ctx, "auth:token")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// AppExists looks up an application by name. A lookup failure from the CLI
// is reported as "absent" rather than an error, so provisioning can converge.
func (c *Client) AppExists(ctx context.Context, name string) (bool, error) {
	_, err := c.run(ctx, "apps:info", "--app", name)
	if err != nil {
		if errors.Is(err, ErrCLINotFound) {
			return false, err
		}
		log.Debug().Str("app", name).Err(err).Msg("apps:info lookup failed, treating app as absent")
		return false, nil
	}
	return true, nil
}

// CreateApp creates a new application with the given name.
func (c *Client) CreateApp(ctx context.Context, name string) error {
	output, err := c.run(ctx, "apps:create", name)
	if err != nil {
		return err
	}
	log.Info().Str("app", name).Str("output", strings.TrimSpace(string(output))).Msg("Application created")
	return nil
}

// ClearBuildpacks removes all configured buildpacks from the application.
// The CLI errors when the list is already empty; that failure is tolerated.
func (c *Client) ClearBuildpacks(ctx context.Context, app string) error {
	_, err := c.run(ctx, "buildpacks:clear", "--app", app)
	if err != nil {
		if errors.Is(err, ErrCLINotFound) {
			return err
		}
		log.Warn().Str("app", app).Err(err).Msg("buildpacks:clear failed (list may already be empty)")
	}
	return nil
}

// SetBuildpack pins the application to a single buildpack identifier.
func (c *Client) SetBuildpack(ctx context.Context, app, buildpack string) error {
	_, err := c.run(ctx, "buildpacks:set", buildpack, "--app", app)
	if err != nil {
		return err
	}
	log.Info().Str("app", app).Str("buildpack", buildpack).Msg("Buildpack configured")
	return nil
}

// ExitCode extracts the external tool's exit status from a wrapped error.
// Unclassified failures inherit that status unexamined; anything without an
// exit status maps to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
