// Package buildpack pins the application's build toolchain on the platform.
package buildpack

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// DefaultBuildpack is the runtime the analyzer application builds with.
const DefaultBuildpack = "heroku/python"

type platformBuildpacks interface {
	ClearBuildpacks(ctx context.Context, app string) error
	SetBuildpack(ctx context.Context, app, buildpack string) error
}

// Configurer resets the application to a single buildpack.
type Configurer struct {
	client    platformBuildpacks
	buildpack string
}

// NewConfigurer creates a configurer for the given buildpack identifier.
// An empty identifier falls back to DefaultBuildpack.
func NewConfigurer(client platformBuildpacks, buildpack string) *Configurer {
	if buildpack == "" {
		buildpack = DefaultBuildpack
	}
	return &Configurer{client: client, buildpack: buildpack}
}

// Configure clears any existing buildpacks then sets the configured one.
// The end state is always the same single identifier.
func (c *Configurer) Configure(ctx context.Context, app string) error {
	if err := c.client.ClearBuildpacks(ctx, app); err != nil {
		return fmt.Errorf("buildpack clear failed: %w", err)
	}

	if err := c.client.SetBuildpack(ctx, app, c.buildpack); err != nil {
		return fmt.Errorf("buildpack set failed: %w", err)
	}

	log.Info().Str("app", app).Str("buildpack", c.buildpack).Msg("Buildpack pinned")
	return nil
}
