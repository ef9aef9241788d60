// Package manifest reads the optional per-repository deploy.yaml, which
// overrides the configured defaults for repositories that deviate from the
// stock analyzer setup.
package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/alvesdmateus/resume-deploy/internal/envcheck"
)

// DefaultPath is where the manifest is looked up relative to the working tree.
const DefaultPath = "deploy.yaml"

// Manifest describes a repository's deployment settings.
type Manifest struct {
	// App overrides the default application name (a positional CLI argument
	// still wins over both).
	App string `yaml:"app"`

	// Buildpack overrides the default buildpack identifier.
	Buildpack string `yaml:"buildpack"`

	// Env lists required config vars beyond or instead of the defaults.
	Env []EnvVar `yaml:"env"`

	// SchedulerJob is the command the platform scheduler should run.
	SchedulerJob string `yaml:"scheduler_job"`
}

// EnvVar is one required config var entry.
type EnvVar struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Load reads a manifest file. A missing file yields an empty manifest, since
// the manifest is optional; a malformed file is an error.
func Load(path string) (*Manifest, error) {
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Manifest{}, nil
		}
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &m, nil
}

// EnvVars converts the manifest's env entries to checklist vars.
func (m *Manifest) EnvVars() []envcheck.Var {
	vars := make([]envcheck.Var, 0, len(m.Env))
	for _, e := range m.Env {
		vars = append(vars, envcheck.Var{Name: e.Name, Description: e.Description})
	}
	return vars
}
