// Package records declares the driver's binary records as static layouts and
// binds their wire fields to the domain types.
package records

import (
	"github.com/deploymenttheory/go-vcctl/internal/converters"
	"github.com/deploymenttheory/go-vcctl/internal/layout"
	"github.com/deploymenttheory/go-vcctl/internal/types"
)

// Wire names of MOUNT_LIST_STRUCT.
const (
	FieldMountedDrives = "ulMountedDrives"
	FieldListVolume    = "wszVolume"
	FieldListLabel     = "wszLabel"
	FieldListVolumeID  = "volumeID"
	FieldDiskLength    = "diskLength"
	FieldEA            = "ea"
	FieldVolumeType    = "volumeType"
	FieldTrueCryptMode = "truecryptMode"
)

// MountList is MOUNT_LIST_STRUCT: one slot per drive letter.
// Reference: Apidrvr.h
var MountList = layout.MustNew("MOUNT_LIST_STRUCT", types.SentinelSize,
	layout.FieldSpec{Name: FieldMountedDrives, Type: layout.Scalar(layout.KindUint32)},
	layout.FieldSpec{Name: FieldListVolume, Type: layout.Array(layout.KindWChar, types.TCMaxPath), Count: types.MaxVolumes},
	layout.FieldSpec{Name: FieldListLabel, Type: layout.Array(layout.KindWChar, types.VolumeLabelSize), Count: types.MaxVolumes},
	layout.FieldSpec{Name: FieldListVolumeID, Type: layout.Array(layout.KindWChar, types.VolumeIDSize), Count: types.MaxVolumes},
	layout.FieldSpec{Name: FieldDiskLength, Type: layout.Scalar(layout.KindUint64), Count: types.MaxVolumes},
	layout.FieldSpec{Name: FieldEA, Type: layout.Scalar(layout.KindInt32), Count: types.MaxVolumes},
	layout.FieldSpec{Name: FieldVolumeType, Type: layout.Scalar(layout.KindInt32), Count: types.MaxVolumes},
	layout.FieldSpec{Name: FieldTrueCryptMode, Type: layout.Scalar(layout.KindBool32), Count: types.MaxVolumes},
)

// VolumeBindings maps a MOUNT_LIST_STRUCT slot onto a types.Volume.
// DriveNo and IsMounted derive from the slot itself and are set by DecodeMountList.
var VolumeBindings = []layout.Binding[types.Volume]{
	{
		Wire: FieldListVolume, Logical: "path", Indexed: true,
		Decode: func(dst *types.Volume, v layout.Value) {
			dst.Path = converters.TrimDevicePrefix(converters.WideText(v.Raw()))
		},
		Encode: func(src *types.Volume, v layout.Value) error {
			return setWideText(v, FieldListVolume, src.Path, types.TCMaxPath)
		},
	},
	{
		Wire: FieldListLabel, Logical: "label", Indexed: true,
		Decode: func(dst *types.Volume, v layout.Value) {
			dst.Label = converters.WideText(v.Raw())
		},
		Encode: func(src *types.Volume, v layout.Value) error {
			return setWideText(v, FieldListLabel, src.Label, types.VolumeLabelSize)
		},
	},
	{
		Wire: FieldListVolumeID, Logical: "volume_id", Indexed: true,
		Decode: func(dst *types.Volume, v layout.Value) {
			dst.VolumeID = converters.WideUnitsBytes(v.Raw())
		},
		Encode: func(src *types.Volume, v layout.Value) error {
			if len(src.VolumeID) > len(v.Raw()) {
				return &converters.ValueTooLargeError{Field: FieldListVolumeID, Size: len(src.VolumeID), Capacity: len(v.Raw())}
			}
			return v.SetRaw(src.VolumeID)
		},
	},
	{
		Wire: FieldDiskLength, Logical: "disk_length", Indexed: true,
		Decode: func(dst *types.Volume, v layout.Value) {
			dst.DiskLength = v.Uint64()
		},
		Encode: func(src *types.Volume, v layout.Value) error {
			return v.SetUint64(src.DiskLength)
		},
	},
	{
		Wire: FieldEA, Logical: "enc_algorithm", Indexed: true,
		Decode: func(dst *types.Volume, v layout.Value) {
			dst.EncAlgorithm, _ = converters.TryDecode(v.Int32(), types.EncryptionAlgorithmNames)
		},
		Encode: func(src *types.Volume, v layout.Value) error {
			return v.SetInt32(int32(src.EncAlgorithm))
		},
	},
	{
		Wire: FieldVolumeType, Logical: "volume_type", Indexed: true,
		Decode: func(dst *types.Volume, v layout.Value) {
			dst.VolumeType, _ = converters.TryDecode(v.Int32(), types.VolumeTypeNames)
		},
		Encode: func(src *types.Volume, v layout.Value) error {
			return v.SetInt32(int32(src.VolumeType))
		},
	},
	{
		Wire: FieldTrueCryptMode, Logical: "legacy_compat_mode", Indexed: true,
		Decode: func(dst *types.Volume, v layout.Value) {
			dst.LegacyCompatMode = v.Bool()
		},
		Encode: func(src *types.Volume, v layout.Value) error {
			return v.SetBool(src.LegacyCompatMode)
		},
	},
}

// NewMountList returns a zeroed MOUNT_LIST_STRUCT ready to be sent.
func NewMountList() *layout.Record {
	return MountList.NewRecord()
}

// SlotMounted reports whether slot i holds a volume. A slot with an empty path
// is unmounted.
func SlotMounted(rec *layout.Record, i int) bool {
	v, err := rec.Value(FieldListVolume, i)
	if err != nil {
		return false
	}
	raw := v.Raw()
	return raw[0] != 0 || raw[1] != 0
}

// MountedDrives returns the driver's bitfield of mounted drive letters.
func MountedDrives(rec *layout.Record) uint32 {
	return rec.MustValue(FieldMountedDrives, 0).Uint32()
}

// DecodeMountList materializes every mounted slot, in drive order.
func DecodeMountList(rec *layout.Record, mode layout.Mode) ([]types.Volume, error) {
	var volumes []types.Volume
	for i := 0; i < types.MaxVolumes; i++ {
		if !SlotMounted(rec, i) {
			continue
		}
		vol, err := layout.Materialize(rec, i, VolumeBindings, mode)
		if err != nil {
			return nil, err
		}
		vol.IsMounted = true
		vol.DriveNo = i
		volumes = append(volumes, vol)
	}
	return volumes, nil
}

// PutMountListSlot writes vol into slot vol.DriveNo and sets its bit in
// ulMountedDrives. The driver does this on its side; tests and fakes use it to
// build replies.
func PutMountListSlot(rec *layout.Record, vol types.Volume) error {
	if err := layout.Populate(rec, vol.DriveNo, &vol, VolumeBindings, layout.Strict); err != nil {
		return err
	}
	drives := rec.MustValue(FieldMountedDrives, 0)
	return drives.SetUint32(drives.Uint32() | 1<<uint(vol.DriveNo))
}

func setWideText(v layout.Value, field, s string, capacity int) error {
	enc, err := converters.EncodeWideText(field, s, capacity)
	if err != nil {
		return err
	}
	return v.SetRaw(enc)
}
