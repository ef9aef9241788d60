// Package preflight verifies the operator's toolchain before any platform
// action runs. It only reads process state; a failed check short-circuits
// the whole pipeline.
package preflight

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/alvesdmateus/resume-deploy/internal/heroku"
)

// platformAuth is the slice of the Heroku client the validator needs.
type platformAuth interface {
	Version(ctx context.Context) (string, error)
	WhoAmI(ctx context.Context) (string, error)
}

// Validator runs the preflight checks.
type Validator struct {
	client platformAuth
}

// NewValidator creates a validator backed by the given platform client.
func NewValidator(client platformAuth) *Validator {
	return &Validator{client: client}
}

// Check verifies the CLI is installed and the operator is authenticated.
// It returns heroku.ErrCLINotFound or heroku.ErrNotLoggedIn so callers can
// map each to operator guidance and exit status 1.
func (v *Validator) Check(ctx context.Context) error {
	version, err := v.client.Version(ctx)
	if err != nil {
		return fmt.Errorf("preflight: %w", err)
	}
	log.Debug().Str("version", version).Msg("Heroku CLI present")

	account, err := v.client.WhoAmI(ctx)
	if err != nil {
		return fmt.Errorf("preflight: %w", err)
	}
	log.Info().Str("account", account).Msg("Authenticated with Heroku")

	return nil
}

// Guidance returns the operator-facing message for a classified preflight
// failure, or an empty string when the error is not a preflight failure.
func Guidance(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, heroku.ErrCLINotFound):
		return "The Heroku CLI is not installed. Install it from https://devcenter.heroku.com/articles/heroku-cli and retry."
	case errors.Is(err, heroku.ErrNotLoggedIn):
		return "You are not logged in to Heroku. Run `heroku login` and retry."
	default:
		return ""
	}
}
