package volumes

import (
	"errors"
	"fmt"

	"github.com/deploymenttheory/go-vcctl/internal/device"
	"github.com/deploymenttheory/go-vcctl/internal/interfaces"
	"github.com/deploymenttheory/go-vcctl/internal/layout"
	"github.com/deploymenttheory/go-vcctl/internal/services"
	"github.com/deploymenttheory/go-vcctl/internal/types"
	"github.com/deploymenttheory/go-vcctl/pkg/app"
)

// HandleList processes a listing request
func HandleList(ctx *app.Context, vm interfaces.VolumeManager, req *ListRequest) (*ListResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx.Log("Querying mounted volumes")
	vols, err := vm.MountedVolumes()
	if err != nil {
		return nil, translate(err)
	}

	resp := &ListResponse{Volumes: []VolumeInfo{}}
	for _, v := range vols {
		if req.Drive != "" {
			if driveNo, _ := types.ParseDriveLetter(req.Drive); v.DriveNo != driveNo {
				continue
			}
		}
		resp.Volumes = append(resp.Volumes, NewVolumeInfo(v))
	}
	resp.Total = len(resp.Volumes)

	ctx.Log(fmt.Sprintf("Found %d mounted volume(s)", resp.Total))
	return resp, nil
}

// HandleMount processes a mount request
func HandleMount(ctx *app.Context, vm interfaces.VolumeManager, req *MountRequest) (*MountResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	driveNo, _ := types.ParseDriveLetter(req.Drive)
	ctx.Log(fmt.Sprintf("Mounting %s on %s", req.Path, types.DriveLetter(driveNo)))

	result, err := vm.Mount(types.MountTarget{Path: req.Path, DriveNo: driveNo}, req.Password)
	if err != nil {
		return nil, translate(err)
	}

	return &MountResponse{
		Drive:                       types.DriveLetter(result.DriveNo),
		Path:                        req.Path,
		FilesystemDirty:             result.FilesystemDirty,
		ReadOnly:                    result.ReadOnly(),
		ReadOnlyAfterAccessDenied:   result.ReadOnlyAfterAccessDenied,
		ReadOnlyAfterWriteProtected: result.ReadOnlyAfterWriteProtected,
	}, nil
}

// HandleDismount processes a dismount request
func HandleDismount(ctx *app.Context, vm interfaces.VolumeManager, req *DismountRequest) (*DismountResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	vol, err := vm.FindVolume(req.Target)
	if err != nil {
		return nil, translate(err)
	}

	ctx.Log(fmt.Sprintf("Dismounting %s (%s)", vol.DriveLetter(), vol.Path))
	if err := vm.Dismount(vol, req.IgnoreOpenFiles); err != nil {
		return nil, translate(err)
	}

	return &DismountResponse{Drive: vol.DriveLetter(), Path: vol.Path}, nil
}

// HandleVersion processes a driver version request
func HandleVersion(ctx *app.Context, vm interfaces.VolumeManager, devicePath string) (*VersionResponse, error) {
	ctx.Log("Querying driver version at " + devicePath)
	version, err := vm.DriverVersion()
	if err != nil {
		return nil, translate(err)
	}
	return &VersionResponse{DevicePath: devicePath, Version: version.String(), Raw: uint32(version)}, nil
}

// translate maps driver errors onto application error codes
func translate(err error) error {
	var code string
	switch {
	case errors.Is(err, services.ErrHiddenVolumeProtectionTriggered):
		code = app.ErrCodeProtection
	case errors.Is(err, services.ErrDriverRefused):
		code = app.ErrCodeDriverRefused
	case errors.Is(err, services.ErrVolumeNotFound):
		code = app.ErrCodeVolumeNotFound
	case errors.Is(err, layout.ErrMisaligned):
		code = app.ErrCodeDriverMismatch
	case errors.Is(err, device.ErrChannelOpenFailed):
		code = app.ErrCodeDriverAccess
	case errors.Is(err, device.ErrTransactionFailed):
		code = app.ErrCodeTransactionFail
	default:
		code = app.ErrCodeInvalidInput
	}
	return app.NewError(code, "driver operation failed", err)
}
