package volumes

import (
	"encoding/hex"
	"fmt"

	"github.com/deploymenttheory/go-vcctl/internal/types"
)

// ListRequest represents a mounted volume listing request
type ListRequest struct {
	// Drive restricts the listing to one drive letter when set
	Drive string
}

// ListResponse represents the mounted volumes
type ListResponse struct {
	Volumes []VolumeInfo `json:"volumes" yaml:"volumes"`
	Total   int          `json:"total" yaml:"total"`
}

// MountRequest represents a volume mount request
type MountRequest struct {
	Path     string
	Drive    string
	Password []byte
}

// MountResponse represents the outcome of a mount
type MountResponse struct {
	Drive                       string `json:"drive" yaml:"drive"`
	Path                        string `json:"path" yaml:"path"`
	FilesystemDirty             bool   `json:"filesystem_dirty" yaml:"filesystem_dirty"`
	ReadOnly                    bool   `json:"read_only" yaml:"read_only"`
	ReadOnlyAfterAccessDenied   bool   `json:"read_only_after_access_denied" yaml:"read_only_after_access_denied"`
	ReadOnlyAfterWriteProtected bool   `json:"read_only_after_write_protected" yaml:"read_only_after_write_protected"`
}

// DismountRequest represents a volume dismount request
type DismountRequest struct {
	// Target is a drive letter or a volume path
	Target          string
	IgnoreOpenFiles bool
}

// DismountResponse represents the outcome of a dismount
type DismountResponse struct {
	Drive string `json:"drive" yaml:"drive"`
	Path  string `json:"path" yaml:"path"`
}

// VersionResponse represents the driver version
type VersionResponse struct {
	DevicePath string `json:"device_path" yaml:"device_path"`
	Version    string `json:"version" yaml:"version"`
	Raw        uint32 `json:"raw" yaml:"raw"`
}

// VolumeInfo represents a mounted volume for display
type VolumeInfo struct {
	Drive            string `json:"drive" yaml:"drive"`
	DriveNo          int    `json:"drive_no" yaml:"drive_no"`
	Path             string `json:"path" yaml:"path"`
	Label            string `json:"label,omitempty" yaml:"label,omitempty"`
	VolumeID         string `json:"volume_id,omitempty" yaml:"volume_id,omitempty"`
	Size             uint64 `json:"size" yaml:"size"`
	Algorithm        string `json:"algorithm" yaml:"algorithm"`
	AlgorithmCode    int32  `json:"algorithm_code" yaml:"algorithm_code"`
	Type             string `json:"type" yaml:"type"`
	TypeCode         int32  `json:"type_code" yaml:"type_code"`
	LegacyCompatMode bool   `json:"legacy_compat_mode" yaml:"legacy_compat_mode"`
}

// NewVolumeInfo converts a driver volume into its display form
func NewVolumeInfo(v types.Volume) VolumeInfo {
	return VolumeInfo{
		Drive:            v.DriveLetter(),
		DriveNo:          v.DriveNo,
		Path:             v.Path,
		Label:            v.Label,
		VolumeID:         hex.EncodeToString(v.VolumeID),
		Size:             v.DiskLength,
		Algorithm:        v.EncAlgorithm.String(),
		AlgorithmCode:    int32(v.EncAlgorithm),
		Type:             v.VolumeType.String(),
		TypeCode:         int32(v.VolumeType),
		LegacyCompatMode: v.LegacyCompatMode,
	}
}

// FormatSize returns a human-readable size string
func (v *VolumeInfo) FormatSize() string {
	return formatBytes(v.Size)
}

// formatBytes formats byte count as human readable
func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
