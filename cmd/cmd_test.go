package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-vcctl/internal/config"
	"github.com/deploymenttheory/go-vcctl/internal/device"
	"github.com/deploymenttheory/go-vcctl/internal/device/devicetest"
	"github.com/deploymenttheory/go-vcctl/internal/records"
	"github.com/deploymenttheory/go-vcctl/internal/types"
	"github.com/deploymenttheory/go-vcctl/pkg/app/volumes"
)

// run executes the root command against a fake driver and returns stdout
func run(t *testing.T, sys *devicetest.System, stdin string, args ...string) (string, error) {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "vcctl-config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log_level: error\n"), 0o600))

	orig := newSystem
	newSystem = func() device.System { return sys }
	t.Cleanup(func() { newSystem = orig })

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func driverWithVolumes(t *testing.T) *devicetest.System {
	t.Helper()
	rec := records.NewMountList()
	require.NoError(t, records.PutMountListSlot(rec, types.Volume{
		DriveNo:      23,
		Path:         `\??\C:\secret.hc`,
		Label:        "Secret",
		DiskLength:   1 << 20,
		EncAlgorithm: types.EncryptionAES,
	}))

	sys := devicetest.NewSystem()
	sys.Handle(uint32(types.IoctlGetMountedVolumes), devicetest.Reply(rec.Bytes()))
	sys.Handle(uint32(types.IoctlMountVolume), devicetest.Echo(nil))
	sys.Handle(uint32(types.IoctlDismountVolume), devicetest.Echo(nil))
	return sys
}

func TestListCommand(t *testing.T) {
	sys := driverWithVolumes(t)

	out, err := run(t, sys, "", "list", "-o", "json")
	require.NoError(t, err)

	var resp volumes.ListResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "X:", resp.Volumes[0].Drive)
	assert.Equal(t, `C:\secret.hc`, resp.Volumes[0].Path)
	assert.Zero(t, sys.Leaked())
}

func TestMountCommand(t *testing.T) {
	sys := driverWithVolumes(t)

	out, err := run(t, sys, "hunter2\n", "mount", `C:\other.hc`, "--drive", "Y", "--password-stdin", "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, out, `Mounted C:\other.hc on Y:`)

	calls := sys.Calls()
	require.Len(t, calls, 1)
	sent, err := records.Mount.Decode(calls[0].Request)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), sent.MustValue(records.FieldPasswordLength, 0).Uint32(), "trailing newline is not part of the password")
}

func TestDismountCommand(t *testing.T) {
	sys := driverWithVolumes(t)

	out, err := run(t, sys, "", "dismount", "x", "--force", "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, out, `Dismounted X: (C:\secret.hc)`)

	calls := sys.Calls()
	require.Len(t, calls, 2, "lookup then dismount")
	assert.Equal(t, uint32(types.IoctlDismountVolume), calls[1].Code)
	assert.Zero(t, sys.Leaked())
}

func TestDismountCommand_NotMounted(t *testing.T) {
	sys := driverWithVolumes(t)

	_, err := run(t, sys, "", "dismount", "Q", "-o", "table")
	assert.Error(t, err)
	for _, c := range sys.Calls() {
		assert.NotEqual(t, uint32(types.IoctlDismountVolume), c.Code)
	}
}

func TestReadPassword_Stdin(t *testing.T) {
	got, err := readPassword(strings.NewReader("secret\r\n"), &bytes.Buffer{}, true)
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), got)

	got, err = readPassword(strings.NewReader("no-newline"), &bytes.Buffer{}, true)
	require.NoError(t, err)
	assert.Equal(t, []byte("no-newline"), got)
}

func TestBindFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringVarP(&outputFormat, "output", "o", "table", "")
	flags.StringVar(&devicePath, "device", "", "")
	require.NoError(t, flags.Parse([]string{"-o", "yaml", "--device", `\\.\Other`}))

	v := config.New(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, bindFlags(v, flags))
	assert.Equal(t, "yaml", v.GetString(config.KeyOutput))
	assert.Equal(t, `\\.\Other`, v.GetString(config.KeyDevicePath))

	t.Cleanup(func() {
		outputFormat = "table"
		devicePath = ""
	})
}
