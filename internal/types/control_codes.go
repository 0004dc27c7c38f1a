package types

import "fmt"

// Control Code Encoding (winioctl.h)

const (
	// FileDeviceUnknown is the device type the driver registers under.
	FileDeviceUnknown uint32 = 0x00000022

	// MethodBuffered selects buffered I/O: the I/O manager copies the input
	// buffer in and the output buffer back out.
	MethodBuffered uint32 = 0x00000000

	// FileAnyAccess places no access requirement on the caller's handle.
	FileAnyAccess uint32 = 0x00000000

	// DriverFunctionBase is the first function number available to vendor drivers.
	DriverFunctionBase uint32 = 0x800
)

// ControlCode is an encoded IOCTL operation selector.
type ControlCode uint32

// CtlCode is the Go form of the CTL_CODE macro.
func CtlCode(deviceType, function, method, access uint32) ControlCode {
	return ControlCode((deviceType << 16) | (access << 14) | (function << 2) | method)
}

// DriverControlCode is the Go form of the TC_IOCTL macro: a buffered, any-access
// code with function number 0x800 + ordinal.
func DriverControlCode(ordinal uint32) ControlCode {
	return CtlCode(FileDeviceUnknown, DriverFunctionBase+ordinal, MethodBuffered, FileAnyAccess)
}

// Control codes understood by the driver.
// Reference: Apidrvr.h
var (
	IoctlGetDriverVersion    = DriverControlCode(1)
	IoctlMountVolume         = DriverControlCode(3)
	IoctlDismountVolume      = DriverControlCode(4)
	IoctlDismountAllVolumes  = DriverControlCode(5)
	IoctlGetMountedVolumes   = DriverControlCode(6)
	IoctlGetVolumeProperties = DriverControlCode(7)
)

var controlCodeNames = map[ControlCode]string{
	IoctlGetDriverVersion:    "TC_IOCTL_GET_DRIVER_VERSION",
	IoctlMountVolume:         "TC_IOCTL_MOUNT_VOLUME",
	IoctlDismountVolume:      "TC_IOCTL_DISMOUNT_VOLUME",
	IoctlDismountAllVolumes:  "TC_IOCTL_DISMOUNT_ALL_VOLUMES",
	IoctlGetMountedVolumes:   "TC_IOCTL_GET_MOUNTED_VOLUMES",
	IoctlGetVolumeProperties: "TC_IOCTL_GET_VOLUME_PROPERTIES",
}

// Function returns the function number encoded in the code.
func (c ControlCode) Function() uint32 {
	return (uint32(c) >> 2) & 0xFFF
}

// String returns the driver's name for the code, or its hex value.
func (c ControlCode) String() string {
	if name, ok := controlCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("0x%08X", uint32(c))
}
