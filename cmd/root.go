package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/deploymenttheory/go-vcctl/internal/config"
	"github.com/deploymenttheory/go-vcctl/internal/device"
	"github.com/deploymenttheory/go-vcctl/internal/services"
	"github.com/deploymenttheory/go-vcctl/pkg/app"
)

var (
	// Global flags
	verbose      bool
	quiet        bool
	outputFormat string
	devicePath   string
	configFile   string

	// Resolved by the root pre-run
	appCtx *app.Context
	cfg    *config.Config

	// newSystem opens driver handles; tests swap in a fake
	newSystem = device.NewSystem
)

var rootCmd = &cobra.Command{
	Use:   "vcctl",
	Short: "Mount and dismount encrypted volumes through the VeraCrypt driver",
	Long: `vcctl talks directly to the VeraCrypt kernel driver to list, mount and
dismount encrypted volumes without the VeraCrypt GUI.

Every command opens its own handle to the driver device, performs a single
control transfer and closes the handle again.

Commands:
  list        List mounted volumes
  mount       Mount a volume on a drive letter
  dismount    Dismount a volume
  version     Show the driver version`,
	Version:           "0.1.0-dev",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output except errors")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&devicePath, "device", "", "driver device path (default \\\\.\\VeraCrypt)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./vcctl-config.yaml)")

	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// setup loads the configuration, letting explicit flags win over file and
// environment, and builds the application context.
func setup(cmd *cobra.Command, args []string) error {
	v := config.New(configFile)
	if err := bindFlags(v, cmd.Root().PersistentFlags()); err != nil {
		return err
	}

	loaded, err := config.Load(v)
	if err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid configuration", err)
	}
	cfg = loaded

	appCtx = app.NewContext()
	appCtx.Context = cmd.Context()
	appCtx.OutputFormat = cfg.Output
	appCtx.Verbose = verbose
	appCtx.Quiet = quiet
	appCtx.Out = cmd.OutOrStdout()
	appCtx.Logger.SetOutput(cmd.ErrOrStderr())
	return appCtx.ApplyVerbosity(cfg.LogLevel)
}

// bindFlags lets explicitly set global flags override the config keys
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if err := v.BindPFlag(config.KeyOutput, flags.Lookup("output")); err != nil {
		return err
	}
	if flags.Changed("device") {
		v.Set(config.KeyDevicePath, devicePath)
	}
	return nil
}

// volumeManager builds the transaction service for the configured device
func volumeManager() (*services.VolumeTransactionService, error) {
	return services.NewVolumeTransactionService(newSystem(), cfg.DevicePath,
		services.WithLogger(appCtx.Logger))
}
