package volumes

import (
	"strings"

	"github.com/deploymenttheory/go-vcctl/internal/types"
	"github.com/deploymenttheory/go-vcctl/pkg/app"
)

// Validate validates a list request
func (r *ListRequest) Validate() error {
	if r.Drive == "" {
		return nil
	}
	if _, err := types.ParseDriveLetter(r.Drive); err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid drive", err)
	}
	return nil
}

// Validate validates a mount request
func (r *MountRequest) Validate() error {
	if strings.TrimSpace(r.Path) == "" {
		return app.NewError(app.ErrCodeInvalidInput, "volume path is required", nil)
	}
	if len(r.Path) >= types.TCMaxPath-len(types.DevicePathPrefix) {
		return app.NewError(app.ErrCodeInvalidInput, "volume path is too long", nil)
	}
	if _, err := types.ParseDriveLetter(r.Drive); err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid drive", err)
	}
	if len(r.Password) == 0 {
		return app.NewError(app.ErrCodeInvalidInput, "password is required", nil)
	}
	if len(r.Password) > types.MaxPassword {
		return app.NewError(app.ErrCodeInvalidInput, "password exceeds 64 bytes", nil)
	}
	return nil
}

// Validate validates a dismount request
func (r *DismountRequest) Validate() error {
	if strings.TrimSpace(r.Target) == "" {
		return app.NewError(app.ErrCodeInvalidInput, "drive letter or volume path is required", nil)
	}
	return nil
}
