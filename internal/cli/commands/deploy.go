package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/alvesdmateus/resume-deploy/internal/buildpack"
	"github.com/alvesdmateus/resume-deploy/internal/envcheck"
	"github.com/alvesdmateus/resume-deploy/internal/manifest"
	"github.com/alvesdmateus/resume-deploy/internal/pipeline"
	"github.com/alvesdmateus/resume-deploy/internal/preflight"
	"github.com/alvesdmateus/resume-deploy/internal/provisioner"
	"github.com/alvesdmateus/resume-deploy/internal/publisher"
	"github.com/alvesdmateus/resume-deploy/internal/state"
	"github.com/alvesdmateus/resume-deploy/pkg/database"
)

var (
	deploySkipPush     bool
	deployManifestPath string
	deployTreePath     string
)

var deployCmd = &cobra.Command{
	Use:   "deploy [app-name]",
	Short: "Run the full deployment pipeline",
	Long: `Deploy the working tree to Heroku: verify the toolchain, ensure the
application exists, pin the buildpack, print the config var checklist, push
the code, and print the scheduler setup steps.

The application name defaults to the configured name (resume-analyzer) and
can be overridden by deploy.yaml or the positional argument.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := manifest.Load(deployManifestPath)
		if err != nil {
			return err
		}

		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}
		app := cfg.ResolveAppName(arg, m.App)

		buildpackID := cfg.App.Buildpack
		if m.Buildpack != "" {
			buildpackID = m.Buildpack
		}

		client := newPlatformClient()
		engine := pipeline.NewEngine(pipeline.Options{
			Preflight:   preflight.NewValidator(client),
			Provisioner: provisioner.NewProvisioner(client),
			Buildpack:   buildpack.NewConfigurer(client, buildpackID),
			Publisher: publisher.NewPublisher(publisher.Options{
				Path:          deployTreePath,
				RemoteName:    cfg.Git.Remote,
				CommitMessage: cfg.Git.CommitMessage,
			}),
			Tokens:       client,
			Checklist:    envcheck.NewChecklist(m.EnvVars()),
			Recorder:     openRecorder(),
			Out:          cmd.OutOrStdout(),
			BuildpackID:  buildpackID,
			SchedulerJob: m.SchedulerJob,
		})

		return engine.Run(cmd.Context(), app, deploySkipPush)
	},
}

func init() {
	deployCmd.Flags().BoolVar(&deploySkipPush, "skip-push", false, "stop after the buildpack is configured, without pushing code")
	deployCmd.Flags().StringVar(&deployManifestPath, "manifest", manifest.DefaultPath, "path to the deploy manifest")
	deployCmd.Flags().StringVar(&deployTreePath, "path", ".", "path to the application working tree")
}

// openRecorder opens the history ledger. History is optional bookkeeping:
// any failure here downgrades to a warning and the deploy proceeds.
func openRecorder() pipeline.Recorder {
	if !cfg.History.Enabled {
		return nil
	}

	db, err := database.Open(database.Config{Driver: cfg.History.Driver, DSN: cfg.History.DSN})
	if err != nil {
		log.Warn().Err(err).Msg("Deployment history unavailable")
		return nil
	}

	if err := database.Migrate(db, &state.DeployRun{}); err != nil {
		log.Warn().Err(err).Msg("Deployment history unavailable")
		return nil
	}

	return state.NewRepository(db)
}
