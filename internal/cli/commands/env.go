package commands

import (
	"github.com/spf13/cobra"

	"github.com/alvesdmateus/resume-deploy/internal/envcheck"
	"github.com/alvesdmateus/resume-deploy/internal/manifest"
)

var envManifestPath string

var envCmd = &cobra.Command{
	Use:   "env [app-name]",
	Short: "Print the config var checklist",
	Long: `Print the config vars the deployed analyzer requires. The checklist is
informational: values are never read, generated, or validated.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := manifest.Load(envManifestPath)
		if err != nil {
			return err
		}

		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}
		app := cfg.ResolveAppName(arg, m.App)

		envcheck.NewChecklist(m.EnvVars()).Print(cmd.OutOrStdout(), app)
		return nil
	},
}

func init() {
	envCmd.Flags().StringVar(&envManifestPath, "manifest", manifest.DefaultPath, "path to the deploy manifest")
}
