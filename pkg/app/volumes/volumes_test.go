package volumes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/deploymenttheory/go-vcctl/internal/device"
	"github.com/deploymenttheory/go-vcctl/internal/layout"
	"github.com/deploymenttheory/go-vcctl/internal/services"
	"github.com/deploymenttheory/go-vcctl/internal/types"
	"github.com/deploymenttheory/go-vcctl/pkg/app"
)

// fakeManager is an in-memory interfaces.VolumeManager
type fakeManager struct {
	volumes   []types.Volume
	listErr   error
	mountErr  error
	result    types.MountResult
	dismount  error
	version   types.DriverVersion
	mounted   []types.MountTarget
	dismissed []types.Volume
	forced    []bool
}

func (f *fakeManager) MountedVolumes() ([]types.Volume, error) {
	return f.volumes, f.listErr
}

func (f *fakeManager) Mount(target types.MountTarget, secret []byte) (types.MountResult, error) {
	f.mounted = append(f.mounted, target)
	if f.mountErr != nil {
		return types.MountResult{}, f.mountErr
	}
	res := f.result
	res.DriveNo = target.DriveNo
	return res, nil
}

func (f *fakeManager) Dismount(vol types.Volume, ignoreOpenFiles bool) error {
	f.dismissed = append(f.dismissed, vol)
	f.forced = append(f.forced, ignoreOpenFiles)
	return f.dismount
}

func (f *fakeManager) DriverVersion() (types.DriverVersion, error) {
	return f.version, f.listErr
}

func (f *fakeManager) FindVolume(selector string) (types.Volume, error) {
	if f.listErr != nil {
		return types.Volume{}, f.listErr
	}
	if driveNo, err := types.ParseDriveLetter(selector); err == nil {
		for _, v := range f.volumes {
			if v.DriveNo == driveNo {
				return v, nil
			}
		}
	}
	for _, v := range f.volumes {
		if strings.EqualFold(v.Path, selector) {
			return v, nil
		}
	}
	return types.Volume{}, fmt.Errorf("%s: %w", selector, services.ErrVolumeNotFound)
}

func testContext() *app.Context {
	ctx := app.NewContext()
	ctx.Out = io.Discard
	ctx.Logger.SetOutput(io.Discard)
	return ctx
}

func sampleVolumes() []types.Volume {
	return []types.Volume{
		{IsMounted: true, DriveNo: 2, Path: `Volume{1234}`, Label: "MyDrive", DiskLength: 1073741824, EncAlgorithm: types.EncryptionAES, VolumeID: []byte{0xAB, 0xCD}},
		{IsMounted: true, DriveNo: 23, Path: `C:\secret.hc`, VolumeType: types.VolumeTypeHidden, EncAlgorithm: types.EncryptionSerpent},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		request interface{ Validate() error }
		wantErr bool
	}{
		{"list all", &ListRequest{}, false},
		{"list drive", &ListRequest{Drive: "x:"}, false},
		{"list bad drive", &ListRequest{Drive: "XY"}, true},
		{"mount valid", &MountRequest{Path: `C:\a.hc`, Drive: "X", Password: []byte("pw")}, false},
		{"mount no path", &MountRequest{Drive: "X", Password: []byte("pw")}, true},
		{"mount long path", &MountRequest{Path: strings.Repeat("a", types.TCMaxPath), Drive: "X", Password: []byte("pw")}, true},
		{"mount bad drive", &MountRequest{Path: `C:\a.hc`, Drive: "7", Password: []byte("pw")}, true},
		{"mount no password", &MountRequest{Path: `C:\a.hc`, Drive: "X"}, true},
		{"mount max password", &MountRequest{Path: `C:\a.hc`, Drive: "X", Password: make([]byte, types.MaxPassword)}, false},
		{"mount long password", &MountRequest{Path: `C:\a.hc`, Drive: "X", Password: make([]byte, types.MaxPassword+1)}, true},
		{"dismount valid", &DismountRequest{Target: "X"}, false},
		{"dismount empty", &DismountRequest{Target: "  "}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var ce *app.CommonError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, app.ErrCodeInvalidInput, ce.Code)
		})
	}
}

func TestHandleList(t *testing.T) {
	vm := &fakeManager{volumes: sampleVolumes()}

	resp, err := HandleList(testContext(), vm, &ListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, "C:", resp.Volumes[0].Drive)
	assert.Equal(t, "AES", resp.Volumes[0].Algorithm)
	assert.Equal(t, "abcd", resp.Volumes[0].VolumeID)
	assert.Equal(t, "Hidden", resp.Volumes[1].Type)

	resp, err = HandleList(testContext(), vm, &ListRequest{Drive: "X"})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, `C:\secret.hc`, resp.Volumes[0].Path)

	resp, err = HandleList(testContext(), &fakeManager{}, &ListRequest{})
	require.NoError(t, err)
	assert.Zero(t, resp.Total)
	assert.NotNil(t, resp.Volumes)
}

func TestHandleMount(t *testing.T) {
	vm := &fakeManager{result: types.MountResult{ReadOnlyAfterWriteProtected: true}}

	resp, err := HandleMount(testContext(), vm, &MountRequest{Path: `C:\a.hc`, Drive: "x", Password: []byte("pw")})
	require.NoError(t, err)
	assert.Equal(t, "X:", resp.Drive)
	assert.True(t, resp.ReadOnly)
	require.Len(t, vm.mounted, 1)
	assert.Equal(t, types.MountTarget{Path: `C:\a.hc`, DriveNo: 23}, vm.mounted[0])

	_, err = HandleMount(testContext(), vm, &MountRequest{Path: `C:\a.hc`, Drive: "x"})
	assert.Error(t, err)
	assert.Len(t, vm.mounted, 1, "invalid requests never reach the driver")
}

func TestHandleDismount(t *testing.T) {
	vm := &fakeManager{volumes: sampleVolumes()}

	resp, err := HandleDismount(testContext(), vm, &DismountRequest{Target: `c:\SECRET.hc`, IgnoreOpenFiles: true})
	require.NoError(t, err)
	assert.Equal(t, "X:", resp.Drive)
	require.Len(t, vm.dismissed, 1)
	assert.Equal(t, 23, vm.dismissed[0].DriveNo)
	assert.True(t, vm.forced[0])

	_, err = HandleDismount(testContext(), vm, &DismountRequest{Target: "Q"})
	var ce *app.CommonError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, app.ErrCodeVolumeNotFound, ce.Code)
}

func TestHandleVersion(t *testing.T) {
	resp, err := HandleVersion(testContext(), &fakeManager{version: 0x0126}, types.DefaultDevicePath)
	require.NoError(t, err)
	assert.Equal(t, "1.26", resp.Version)
	assert.Equal(t, uint32(0x0126), resp.Raw)
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"protection", &services.TransactionError{Err: services.ErrHiddenVolumeProtectionTriggered}, app.ErrCodeProtection},
		{"refused", &services.TransactionError{Err: &services.DriverRefusedError{Code: 3}}, app.ErrCodeDriverRefused},
		{"not found", fmt.Errorf("x: %w", services.ErrVolumeNotFound), app.ErrCodeVolumeNotFound},
		{"misaligned", &services.TransactionError{Err: &layout.MisalignedError{}}, app.ErrCodeDriverMismatch},
		{"open", &services.TransactionError{Err: &device.OpenError{}}, app.ErrCodeDriverAccess},
		{"transfer", &services.TransactionError{Err: &device.TransactionError{}}, app.ErrCodeTransactionFail},
		{"other", errors.New("other"), app.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translate(tt.err)
			var ce *app.CommonError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.code, ce.Code)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestFormatOutput(t *testing.T) {
	resp := &ListResponse{Total: 2}
	for _, v := range sampleVolumes() {
		resp.Volumes = append(resp.Volumes, NewVolumeInfo(v))
	}

	tests := []struct {
		name     string
		format   string
		response any
		wantErr  bool
		validate func(*testing.T, string)
	}{
		{
			name:     "table format",
			format:   "table",
			response: resp,
			validate: func(t *testing.T, output string) {
				assert.Contains(t, output, "DRIVE")
				assert.Contains(t, output, "MyDrive")
				assert.Contains(t, output, "1.0 GB")
				assert.Contains(t, output, "2 volume(s) mounted")
			},
		},
		{
			name:     "empty table",
			format:   "table",
			response: &ListResponse{},
			validate: func(t *testing.T, output string) {
				assert.Equal(t, "No volumes mounted.\n", output)
			},
		},
		{
			name:     "json format",
			format:   "json",
			response: resp,
			validate: func(t *testing.T, output string) {
				var decoded ListResponse
				require.NoError(t, json.Unmarshal([]byte(output), &decoded))
				assert.Equal(t, 2, decoded.Total)
				assert.Equal(t, "X:", decoded.Volumes[1].Drive)
			},
		},
		{
			name:     "yaml format",
			format:   "yaml",
			response: resp,
			validate: func(t *testing.T, output string) {
				var decoded ListResponse
				require.NoError(t, yaml.Unmarshal([]byte(output), &decoded))
				assert.Equal(t, uint64(1073741824), decoded.Volumes[0].Size)
			},
		},
		{
			name:     "mount table",
			format:   "table",
			response: &MountResponse{Drive: "X:", Path: `C:\a.hc`, ReadOnly: true},
			validate: func(t *testing.T, output string) {
				assert.Contains(t, output, `Mounted C:\a.hc on X:`)
				assert.Contains(t, output, "read-only")
			},
		},
		{
			name:     "version table",
			format:   "table",
			response: &VersionResponse{DevicePath: types.DefaultDevicePath, Version: "1.26"},
			validate: func(t *testing.T, output string) {
				assert.Contains(t, output, "version 1.26")
			},
		},
		{
			name:     "unsupported format",
			format:   "xml",
			response: resp,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := FormatOutput(&buf, tt.response, tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validate(t, buf.String())
		})
	}
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.0 KB", formatBytes(1024))
	assert.Equal(t, "1.5 MB", formatBytes(1536*1024))
	assert.Equal(t, "1.0 GB", formatBytes(1073741824))
}
