// Package types holds the static lookup data of the VeraCrypt driver interface.
// Sizes, control codes and code tables mirror the driver's public headers
// (src/Common/Apidrvr.h, src/Common/Tcdefs.h, src/Common/Password.h).
package types

// Driver Limits (Tcdefs.h)

const (
	// DefaultDevicePath is the device object created by the VeraCrypt driver.
	DefaultDevicePath = `\\.\VeraCrypt`

	// MaxVolumes is the number of mount slots, one per drive letter A..Z.
	MaxVolumes = 26

	// TCMaxPath is the capacity, in UTF-16 code units, of a volume path.
	// Reference: TC_MAX_PATH
	TCMaxPath = 260

	// VolumeLabelSize is the capacity, in UTF-16 code units, of a volume label.
	// NTFS labels hold at most 32 characters plus the terminator.
	VolumeLabelSize = 33

	// VolumeIDSize is the capacity, in UTF-16 code units, of a volume identifier.
	// Reference: VOLUME_ID_SIZE
	VolumeIDSize = 32

	// MaxPassword is the longest password the driver accepts, in bytes.
	// Reference: MAX_PASSWORD (Password.h)
	MaxPassword = 64

	// PasswordBufferSize is the size of the Text member of the Password struct.
	// The extra byte is a terminator that is never relied upon; Length is authoritative.
	PasswordBufferSize = MaxPassword + 1

	// PasswordPadSize keeps the Password struct 64-bit aligned.
	PasswordPadSize = 3

	// SentinelSize is the size of the zero-filled buffer appended after every record.
	// It only catches bytes written past the declared fields.
	SentinelSize = 10000

	// DevicePathPrefix is the NT object-manager prefix the driver prepends to volume paths.
	DevicePathPrefix = `\??\`
)

// CreateFile parameters used to open the driver device (winnt.h / fileapi.h).
const (
	GenericRead     uint32 = 0x80000000
	GenericWrite    uint32 = 0x40000000
	FileShareRead   uint32 = 0x00000001
	FileShareWrite  uint32 = 0x00000002
	FileShareDelete uint32 = 0x00000004
	OpenExisting    uint32 = 3
)
