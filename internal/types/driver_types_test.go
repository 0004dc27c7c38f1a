package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControlCodes(t *testing.T) {
	tests := []struct {
		name     string
		code     ControlCode
		want     uint32
		function uint32
		str      string
	}{
		{"driver version", IoctlGetDriverVersion, 0x00222004, 0x801, "TC_IOCTL_GET_DRIVER_VERSION"},
		{"mount", IoctlMountVolume, 0x0022200C, 0x803, "TC_IOCTL_MOUNT_VOLUME"},
		{"dismount", IoctlDismountVolume, 0x00222010, 0x804, "TC_IOCTL_DISMOUNT_VOLUME"},
		{"dismount all", IoctlDismountAllVolumes, 0x00222014, 0x805, "TC_IOCTL_DISMOUNT_ALL_VOLUMES"},
		{"mounted volumes", IoctlGetMountedVolumes, 0x00222018, 0x806, "TC_IOCTL_GET_MOUNTED_VOLUMES"},
		{"volume properties", IoctlGetVolumeProperties, 0x0022201C, 0x807, "TC_IOCTL_GET_VOLUME_PROPERTIES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, uint32(tt.code))
			assert.Equal(t, tt.function, tt.code.Function())
			assert.Equal(t, tt.str, tt.code.String())
		})
	}

	assert.Equal(t, "0x00222800", DriverControlCode(0x200).String())
}

func TestDescribeErrors(t *testing.T) {
	assert.Equal(t, "Access denied!", DescribeMountError(3))
	assert.Equal(t, "Selected drive is occupied.", DescribeMountError(5))
	assert.Equal(t, "error code 42", DescribeMountError(42))

	assert.Equal(t, "Volume is not mounted.", DescribeDismountError(5))
	assert.Equal(t, "Volume contains files/folders in use by another program.", DescribeDismountError(6))
	assert.Equal(t, "error code 3", DescribeDismountError(3))

	assert.Equal(t, "File is in use.", DescribeOSError(32))
	assert.Equal(t, "Data passed is too small.", DescribeOSError(122))
	assert.Equal(t, "error code 1450", DescribeOSError(1450))
}

func TestVolumeCodes(t *testing.T) {
	assert.Equal(t, "AES", EncryptionAES.String())
	assert.True(t, EncryptionTwofishSerpent.Known())
	assert.False(t, EncryptionAlgorithm(99).Known())
	assert.Equal(t, "unknown algorithm (99)", EncryptionAlgorithm(99).String())

	assert.Equal(t, "Hidden", VolumeTypeHidden.String())
	assert.False(t, VolumeType(-1).Known())
	assert.Equal(t, "unknown volume type (-1)", VolumeType(-1).String())
}

func TestDriveLetters(t *testing.T) {
	assert.Equal(t, "A:", DriveLetter(0))
	assert.Equal(t, "C:", DriveLetter(2))
	assert.Equal(t, "Z:", DriveLetter(MaxVolumes-1))
	assert.Equal(t, "#26", DriveLetter(MaxVolumes))
	assert.Equal(t, "#-1", DriveLetter(-1))

	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"C", 2, false},
		{"c:", 2, false},
		{`X:\`, 23, false},
		{" z ", 25, false},
		{"", 0, true},
		{"CD", 0, true},
		{"1", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDriveLetter(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDriverVersion(t *testing.T) {
	v := DriverVersion(0x0126)
	assert.Equal(t, uint32(1), v.Major())
	assert.Equal(t, uint32(0x26), v.Minor())
	assert.Equal(t, "1.26", v.String())
	assert.Equal(t, "1.05", DriverVersion(0x0105).String())
}

func TestMountResult_ReadOnly(t *testing.T) {
	assert.False(t, MountResult{}.ReadOnly())
	assert.True(t, MountResult{ReadOnlyAfterAccessDenied: true}.ReadOnly())
	assert.True(t, MountResult{ReadOnlyAfterWriteProtected: true}.ReadOnly())
}
