package types

import (
	"fmt"
	"strings"
)

// Volume describes one mounted volume as reported by the driver's mount list.
// It is rebuilt on every enumeration and carries no state of its own.
type Volume struct {
	IsMounted        bool                `json:"is_mounted" yaml:"is_mounted"`
	DriveNo          int                 `json:"drive_no" yaml:"drive_no"`
	Path             string              `json:"path" yaml:"path"`
	Label            string              `json:"label" yaml:"label"`
	VolumeID         []byte              `json:"volume_id" yaml:"volume_id"`
	DiskLength       uint64              `json:"disk_length" yaml:"disk_length"`
	EncAlgorithm     EncryptionAlgorithm `json:"enc_algorithm" yaml:"enc_algorithm"`
	VolumeType       VolumeType          `json:"volume_type" yaml:"volume_type"`
	LegacyCompatMode bool                `json:"legacy_compat_mode" yaml:"legacy_compat_mode"`
}

// DriveLetter returns the drive letter of the volume's slot, e.g. "C:".
func (v Volume) DriveLetter() string {
	return DriveLetter(v.DriveNo)
}

func (v Volume) String() string {
	return fmt.Sprintf("%s %s", v.DriveLetter(), v.Path)
}

// MountTarget selects what to mount and where.
type MountTarget struct {
	Path    string
	DriveNo int
}

// MountResult carries the output fields the driver fills after a successful mount.
type MountResult struct {
	DriveNo                     int  `json:"drive_no" yaml:"drive_no"`
	FilesystemDirty             bool `json:"filesystem_dirty" yaml:"filesystem_dirty"`
	ReadOnlyAfterAccessDenied   bool `json:"read_only_after_access_denied" yaml:"read_only_after_access_denied"`
	ReadOnlyAfterWriteProtected bool `json:"read_only_after_write_protected" yaml:"read_only_after_write_protected"`
}

// ReadOnly reports whether the driver fell back to a read-only mount.
func (r MountResult) ReadOnly() bool {
	return r.ReadOnlyAfterAccessDenied || r.ReadOnlyAfterWriteProtected
}

// DriverVersion is the packed version number returned by the driver, e.g. 0x0126.
type DriverVersion uint32

// Major returns the major version.
func (d DriverVersion) Major() uint32 { return uint32(d) >> 8 }

// Minor returns the minor version.
func (d DriverVersion) Minor() uint32 { return uint32(d) & 0xFF }

// String renders the version the way the driver's own tools do: 0x0126 -> "1.26".
func (d DriverVersion) String() string {
	return fmt.Sprintf("%x.%02x", d.Major(), d.Minor())
}

// DriveLetter maps a zero-based drive number to its letter, e.g. 2 -> "C:".
// Out of range numbers render as "#N".
func DriveLetter(driveNo int) string {
	if driveNo < 0 || driveNo >= MaxVolumes {
		return fmt.Sprintf("#%d", driveNo)
	}
	return string(rune('A'+driveNo)) + ":"
}

// ParseDriveLetter maps "C", "c:" or "C:\" to its zero-based drive number.
func ParseDriveLetter(s string) (int, error) {
	s = strings.TrimSuffix(strings.TrimSuffix(strings.TrimSpace(s), `\`), ":")
	if len(s) != 1 {
		return 0, fmt.Errorf("invalid drive letter %q", s)
	}
	c := strings.ToUpper(s)[0]
	if c < 'A' || c > 'Z' {
		return 0, fmt.Errorf("invalid drive letter %q", s)
	}
	return int(c - 'A'), nil
}
