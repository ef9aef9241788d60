// Package commands defines the resume-deploy CLI surface.
package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/alvesdmateus/resume-deploy/internal/heroku"
	"github.com/alvesdmateus/resume-deploy/internal/preflight"
	"github.com/alvesdmateus/resume-deploy/pkg/config"
)

// Exit codes. Preflight failures are the only classified ones; everything
// else inherits the external tool's exit status.
const (
	ExitSuccess   = 0
	ExitPreflight = 1
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "resume-deploy",
	Short: "resume-deploy - deploy the resume analyzer to Heroku",
	Long: `resume-deploy wraps the Heroku CLI to take the resume analyzer from a local
working tree to a deployed, schedulable application.

Pipeline:
  preflight → ensure app → pin buildpack → config var checklist → git push → scheduler hints

All platform actions are delegated to the heroku binary; this tool only
sequences them and keeps a local history of runs.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		setLogLevel(cfg.Log.Level)
		return nil
	},
}

// Execute runs the root command and maps errors to exit codes: classified
// preflight failures exit 1 with guidance, other failures propagate the
// external tool's status.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		if guidance := preflight.Guidance(err); guidance != "" {
			fmt.Fprintln(os.Stderr, guidance)
			return ExitPreflight
		}
		return heroku.ExitCode(err)
	}
	return ExitSuccess
}

func init() {
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(historyCmd)
}

// setLogLevel configures the global zerolog level.
func setLogLevel(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}

// newPlatformClient builds the Heroku CLI wrapper from configuration.
func newPlatformClient() *heroku.Client {
	return heroku.NewClient(cfg.App.HerokuBin, nil)
}
