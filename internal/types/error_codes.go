package types

import "fmt"

// MountErrorCode is the nReturnCode the driver sets in MOUNT_STRUCT.
type MountErrorCode int32

const (
	MountErrorAccessDenied  MountErrorCode = 3
	MountErrorDriveOccupied MountErrorCode = 5
)

// MountErrorMessages holds the human-readable mount failures.
var MountErrorMessages = map[MountErrorCode]string{
	MountErrorAccessDenied:  "Access denied!",
	MountErrorDriveOccupied: "Selected drive is occupied.",
}

// DescribeMountError resolves a mount return code, falling back to "error code N".
func DescribeMountError(code int32) string {
	if msg, ok := MountErrorMessages[MountErrorCode(code)]; ok {
		return msg
	}
	return genericCode(code)
}

// DismountErrorCode is the nReturnCode the driver sets in UNMOUNT_STRUCT.
type DismountErrorCode int32

const (
	DismountErrorVolumeNotMounted DismountErrorCode = 5
	DismountErrorFilesOpen        DismountErrorCode = 6
)

// DismountErrorMessages holds the human-readable dismount failures.
var DismountErrorMessages = map[DismountErrorCode]string{
	DismountErrorVolumeNotMounted: "Volume is not mounted.",
	DismountErrorFilesOpen:        "Volume contains files/folders in use by another program.",
}

// DescribeDismountError resolves a dismount return code, falling back to "error code N".
func DescribeDismountError(code int32) string {
	if msg, ok := DismountErrorMessages[DismountErrorCode(code)]; ok {
		return msg
	}
	return genericCode(code)
}

// OSErrorCode is a Win32 GetLastError value.
// Reference: https://learn.microsoft.com/windows/win32/debug/system-error-codes
type OSErrorCode uint32

const (
	OSErrorFileNotFound       OSErrorCode = 2
	OSErrorAccessDenied       OSErrorCode = 5
	OSErrorSharingViolation   OSErrorCode = 32
	OSErrorInsufficientBuffer OSErrorCode = 122
)

// OSErrorMessages holds the OS errors that are useful to explain to a user.
var OSErrorMessages = map[OSErrorCode]string{
	OSErrorFileNotFound:       "Driver device not found; is the driver loaded?",
	OSErrorAccessDenied:       "Access to the driver device was denied.",
	OSErrorSharingViolation:   "File is in use.",
	OSErrorInsufficientBuffer: "Data passed is too small.",
}

// DescribeOSError resolves an OS error code, falling back to "error code N".
func DescribeOSError(code uint32) string {
	if msg, ok := OSErrorMessages[OSErrorCode(code)]; ok {
		return msg
	}
	return fmt.Sprintf("error code %d", code)
}

func genericCode(code int32) string {
	return fmt.Sprintf("error code %d", code)
}
