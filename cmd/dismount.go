package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-vcctl/pkg/app/volumes"
)

var dismountForce bool

var dismountCmd = &cobra.Command{
	Use:     "dismount <drive|volume-path>",
	Aliases: []string{"unmount"},
	Short:   "Dismount a mounted volume",
	Long: `Dismount the volume mounted on a drive letter, or the volume mounted from
a given container path.

--force dismounts even when files on the volume are open. A dismount
aborted by hidden volume protection always fails.

Examples:
  vcctl dismount X
  vcctl dismount C:\secret.hc --force`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDismount(args[0])
	},
}

func init() {
	rootCmd.AddCommand(dismountCmd)

	dismountCmd.Flags().BoolVarP(&dismountForce, "force", "f", false, "dismount even if files are open")
}

func runDismount(target string) error {
	vm, err := volumeManager()
	if err != nil {
		return err
	}

	response, err := volumes.HandleDismount(appCtx, vm, &volumes.DismountRequest{
		Target:          target,
		IgnoreOpenFiles: dismountForce,
	})
	if err != nil {
		return err
	}
	return volumes.FormatOutput(appCtx.Out, response, appCtx.OutputFormat)
}
