// File: internal/interfaces/volume_manager.go
package interfaces

import (
	"github.com/deploymenttheory/go-vcctl/internal/types"
)

// VolumeManager provides the driver operations on encrypted volumes
type VolumeManager interface {
	// MountedVolumes returns the volumes currently mounted, in drive order
	MountedVolumes() ([]types.Volume, error)

	// Mount mounts a volume on the target drive using secret as its password
	Mount(target types.MountTarget, secret []byte) (types.MountResult, error)

	// Dismount dismounts a mounted volume
	Dismount(volume types.Volume, ignoreOpenFiles bool) error

	// DriverVersion returns the version of the loaded driver
	DriverVersion() (types.DriverVersion, error)

	// FindVolume looks up a mounted volume by drive letter or path
	FindVolume(selector string) (types.Volume, error)
}
