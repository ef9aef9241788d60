// Package provisioner ensures the target application exists on the platform.
package provisioner

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

type platformApps interface {
	AppExists(ctx context.Context, name string) (bool, error)
	CreateApp(ctx context.Context, name string) error
}

// Provisioner converges the remote application to "exists".
type Provisioner struct {
	client platformApps
}

// NewProvisioner creates a provisioner backed by the given platform client.
func NewProvisioner(client platformApps) *Provisioner {
	return &Provisioner{client: client}
}

// EnsureApp checks remote existence and creates the application on lookup
// failure. Repeated calls converge; creation failures propagate the external
// tool's error without rollback.
func (p *Provisioner) EnsureApp(ctx context.Context, name string) error {
	exists, err := p.client.AppExists(ctx, name)
	if err != nil {
		return fmt.Errorf("app lookup failed: %w", err)
	}

	if exists {
		log.Info().Str("app", name).Msg("Application already exists")
		return nil
	}

	log.Info().Str("app", name).Msg("Application not found, creating")
	if err := p.client.CreateApp(ctx, name); err != nil {
		return fmt.Errorf("app creation failed: %w", err)
	}

	return nil
}
