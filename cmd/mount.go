package cmd

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/deploymenttheory/go-vcctl/internal/converters"
	"github.com/deploymenttheory/go-vcctl/pkg/app"
	"github.com/deploymenttheory/go-vcctl/pkg/app/volumes"
)

var (
	mountDrive         string
	mountPasswordStdin bool
)

var mountCmd = &cobra.Command{
	Use:   "mount <volume-path>",
	Short: "Mount an encrypted volume on a drive letter",
	Long: `Mount a file container or partition on a drive letter.

The volume is mounted as removable media, registered with the mount manager
and its container timestamps are preserved. The password is prompted for on
the terminal unless --password-stdin is given.

Examples:
  # Mount a file container on X:
  vcctl mount C:\secret.hc --drive X

  # Mount a partition, reading the password from a pipe
  echo -n "$PASS" | vcctl mount \Device\Harddisk1\Partition2 --drive Y --password-stdin`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMount(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(mountCmd)

	mountCmd.Flags().StringVarP(&mountDrive, "drive", "d", "", "drive letter to mount on")
	mountCmd.Flags().BoolVar(&mountPasswordStdin, "password-stdin", false, "read the password from stdin")
	_ = mountCmd.MarkFlagRequired("drive")
}

func runMount(cmd *cobra.Command, path string) error {
	password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), mountPasswordStdin)
	if err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "cannot read password", err)
	}
	defer converters.Wipe(password)

	vm, err := volumeManager()
	if err != nil {
		return err
	}

	response, err := volumes.HandleMount(appCtx, vm, &volumes.MountRequest{
		Path:     path,
		Drive:    mountDrive,
		Password: password,
	})
	if err != nil {
		return err
	}
	return volumes.FormatOutput(appCtx.Out, response, appCtx.OutputFormat)
}

// readPassword reads one line from in when fromStdin is set, otherwise
// prompts on the terminal without echo.
func readPassword(in io.Reader, prompt io.Writer, fromStdin bool) ([]byte, error) {
	if fromStdin {
		line, err := bufio.NewReader(in).ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		return bytes.TrimRight(line, "\r\n"), nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("stdin is not a terminal, use --password-stdin")
	}
	fmt.Fprint(prompt, "Password: ")
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	return password, err
}
