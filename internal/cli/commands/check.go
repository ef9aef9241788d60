package commands

import (
	"github.com/spf13/cobra"

	"github.com/alvesdmateus/resume-deploy/internal/preflight"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the preflight checks only",
	Long:  `Verify the Heroku CLI is installed and the operator is logged in, without touching any application.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		validator := preflight.NewValidator(newPlatformClient())
		if err := validator.Check(cmd.Context()); err != nil {
			return err
		}
		cmd.Println("Preflight checks passed.")
		return nil
	},
}
