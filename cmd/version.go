package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-vcctl/pkg/app/volumes"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the version of the loaded driver",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		vm, err := volumeManager()
		if err != nil {
			return err
		}
		response, err := volumes.HandleVersion(appCtx, vm, cfg.DevicePath)
		if err != nil {
			return err
		}
		return volumes.FormatOutput(appCtx.Out, response, appCtx.OutputFormat)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
