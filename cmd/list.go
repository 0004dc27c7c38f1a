package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-vcctl/pkg/app/volumes"
)

var listDrive string

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List mounted volumes",
	Long: `List the volumes currently mounted by the driver, in drive order.

Examples:
  # List all mounted volumes
  vcctl list

  # Show the volume mounted on X: as JSON
  vcctl list --drive X -o json`,

	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listDrive, "drive", "d", "", "only show the volume on this drive letter")
}

func runList() error {
	vm, err := volumeManager()
	if err != nil {
		return err
	}

	response, err := volumes.HandleList(appCtx, vm, &volumes.ListRequest{Drive: listDrive})
	if err != nil {
		return err
	}
	return volumes.FormatOutput(appCtx.Out, response, appCtx.OutputFormat)
}
