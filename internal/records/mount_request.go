package records

import (
	"strings"

	"github.com/deploymenttheory/go-vcctl/internal/converters"
	"github.com/deploymenttheory/go-vcctl/internal/layout"
	"github.com/deploymenttheory/go-vcctl/internal/types"
)

// Wire names of MOUNT_STRUCT used by the bindings.
const (
	FieldMountReturnCode        = "nReturnCode"
	FieldFilesystemDirty        = "FilesystemDirty"
	FieldReadOnlyAccessDenied   = "VolumeMountedReadOnlyAfterAccessDenied"
	FieldReadOnlyWriteProtected = "VolumeMountedReadOnlyAfterDeviceWriteProtected"
	FieldMountVolume            = "wszVolume"
	FieldPasswordLength         = "VolumePassword.Length"
	FieldPasswordText           = "VolumePassword.Text"
	FieldCache                  = "bCache"
	FieldDosDriveNo             = "nDosDriveNo"
	FieldMountReadOnly          = "bMountReadOnly"
	FieldMountRemovable         = "bMountRemovable"
	FieldExclusiveAccess        = "bExclusiveAccess"
	FieldMountManager           = "bMountManager"
	FieldPreserveTimestamp      = "bPreserveTimestamp"
	FieldTrueCryptModeFlag      = "bTrueCryptMode"
	FieldVolumePim              = "VolumePim"
	FieldMountLabel             = "wszLabel"
)

// ntDevicePrefix marks paths that already name a kernel device object.
const ntDevicePrefix = `\Device\`

func passwordSpecs(prefix string) []layout.FieldSpec {
	return []layout.FieldSpec{
		{Name: prefix + ".Length", Type: layout.Scalar(layout.KindUint32)},
		{Name: prefix + ".Text", Type: layout.Array(layout.KindUint8, types.PasswordBufferSize)},
		{Name: prefix + ".Pad", Type: layout.Array(layout.KindUint8, types.PasswordPadSize)},
	}
}

func bool32(name string) layout.FieldSpec {
	return layout.FieldSpec{Name: name, Type: layout.Scalar(layout.KindBool32)}
}

func int32Field(name string) layout.FieldSpec {
	return layout.FieldSpec{Name: name, Type: layout.Scalar(layout.KindInt32)}
}

func uint32Field(name string) layout.FieldSpec {
	return layout.FieldSpec{Name: name, Type: layout.Scalar(layout.KindUint32)}
}

func mountSpecs() []layout.FieldSpec {
	specs := []layout.FieldSpec{
		int32Field(FieldMountReturnCode),
		bool32(FieldFilesystemDirty),
		bool32(FieldReadOnlyAccessDenied),
		bool32(FieldReadOnlyWriteProtected),
		{Name: FieldMountVolume, Type: layout.Array(layout.KindWChar, types.TCMaxPath)},
	}
	specs = append(specs, passwordSpecs("VolumePassword")...)
	specs = append(specs,
		bool32(FieldCache),
		int32Field(FieldDosDriveNo),
		uint32Field("BytesPerSector"),
		bool32("bUserContext"),
		bool32(FieldMountReadOnly),
		bool32(FieldMountRemovable),
		bool32(FieldExclusiveAccess),
		bool32(FieldMountManager),
		bool32(FieldPreserveTimestamp),
		bool32("bPartitionInInactiveSysEncScope"),
		int32Field("nPartitionInInactiveSysEncScopeDriveNo"),
		bool32("SystemFavorite"),
		bool32("bProtectHiddenVolume"),
	)
	specs = append(specs, passwordSpecs("ProtectedHidVolPassword")...)
	specs = append(specs,
		bool32("UseBackupHeader"),
		bool32("RecoveryMode"),
		int32Field("ProtectedHidVolPkcs5Prf"),
		int32Field("pkcs5_prf"),
		bool32(FieldTrueCryptModeFlag),
		uint32Field("BytesPerPhysicalSector"),
		int32Field(FieldVolumePim),
		int32Field("ProtectedHidVolPim"),
		layout.FieldSpec{Name: FieldMountLabel, Type: layout.Array(layout.KindWChar, types.VolumeLabelSize)},
		bool32("bIsNTFS"),
		bool32("bDriverSetLabel"),
		bool32("bCachePim"),
	)
	return specs
}

// Mount is MOUNT_STRUCT.
// Reference: Apidrvr.h
var Mount = layout.MustNew("MOUNT_STRUCT", types.SentinelSize, mountSpecs()...)

// MountRequest is the logical view of MOUNT_STRUCT. Password holds the secret
// on the way in and the full zero-padded Text buffer when decoded.
type MountRequest struct {
	Path              string
	DriveNo           int
	Password          []byte
	PasswordLength    uint32
	Pim               int32
	Cache             bool
	ReadOnly          bool
	Removable         bool
	ExclusiveAccess   bool
	MountManager      bool
	PreserveTimestamp bool
	TrueCryptMode     bool

	// Filled by the driver.
	ReturnCode                  int32
	FilesystemDirty             bool
	ReadOnlyAfterAccessDenied   bool
	ReadOnlyAfterWriteProtected bool
}

// Result returns the output fields as a types.MountResult.
func (m MountRequest) Result() types.MountResult {
	return types.MountResult{
		DriveNo:                     m.DriveNo,
		FilesystemDirty:             m.FilesystemDirty,
		ReadOnlyAfterAccessDenied:   m.ReadOnlyAfterAccessDenied,
		ReadOnlyAfterWriteProtected: m.ReadOnlyAfterWriteProtected,
	}
}

func boolBinding(wire, logical string, field func(*MountRequest) *bool) layout.Binding[MountRequest] {
	return layout.Binding[MountRequest]{
		Wire: wire, Logical: logical,
		Decode: func(dst *MountRequest, v layout.Value) { *field(dst) = v.Bool() },
		Encode: func(src *MountRequest, v layout.Value) error { return v.SetBool(*field(src)) },
	}
}

// outputBoolBinding binds a field the driver writes; it is never encoded.
func outputBoolBinding(wire, logical string, field func(*MountRequest) *bool) layout.Binding[MountRequest] {
	return layout.Binding[MountRequest]{
		Wire: wire, Logical: logical,
		Decode: func(dst *MountRequest, v layout.Value) { *field(dst) = v.Bool() },
	}
}

// MountBindings maps MOUNT_STRUCT onto MountRequest.
var MountBindings = []layout.Binding[MountRequest]{
	{
		Wire: FieldMountVolume, Logical: "path",
		Decode: func(dst *MountRequest, v layout.Value) {
			dst.Path = converters.TrimDevicePrefix(converters.WideText(v.Raw()))
		},
		Encode: func(src *MountRequest, v layout.Value) error {
			return setWideText(v, FieldMountVolume, DriverVolumePath(src.Path), types.TCMaxPath)
		},
	},
	{
		Wire: FieldDosDriveNo, Logical: "drive_no",
		Decode: func(dst *MountRequest, v layout.Value) { dst.DriveNo = int(v.Int32()) },
		Encode: func(src *MountRequest, v layout.Value) error { return v.SetInt32(int32(src.DriveNo)) },
	},
	{
		Wire: FieldPasswordLength, Logical: "password_length",
		Decode: func(dst *MountRequest, v layout.Value) { dst.PasswordLength = v.Uint32() },
		Encode: func(src *MountRequest, v layout.Value) error {
			return v.SetUint32(uint32(len(src.Password)))
		},
	},
	{
		Wire: FieldPasswordText, Logical: "password",
		Decode: func(dst *MountRequest, v layout.Value) { dst.Password = v.Bytes() },
		Encode: func(src *MountRequest, v layout.Value) error {
			buf, err := converters.BytesToFixedBuffer(src.Password, types.MaxPassword)
			if err != nil {
				return err
			}
			defer converters.Wipe(buf)
			return v.SetRaw(buf)
		},
	},
	{
		Wire: FieldVolumePim, Logical: "pim",
		Decode: func(dst *MountRequest, v layout.Value) { dst.Pim = v.Int32() },
		Encode: func(src *MountRequest, v layout.Value) error { return v.SetInt32(src.Pim) },
	},
	boolBinding(FieldCache, "cache", func(m *MountRequest) *bool { return &m.Cache }),
	boolBinding(FieldMountReadOnly, "read_only", func(m *MountRequest) *bool { return &m.ReadOnly }),
	boolBinding(FieldMountRemovable, "removable", func(m *MountRequest) *bool { return &m.Removable }),
	boolBinding(FieldExclusiveAccess, "exclusive_access", func(m *MountRequest) *bool { return &m.ExclusiveAccess }),
	boolBinding(FieldMountManager, "mount_manager", func(m *MountRequest) *bool { return &m.MountManager }),
	boolBinding(FieldPreserveTimestamp, "preserve_timestamp", func(m *MountRequest) *bool { return &m.PreserveTimestamp }),
	boolBinding(FieldTrueCryptModeFlag, "truecrypt_mode", func(m *MountRequest) *bool { return &m.TrueCryptMode }),
	{
		Wire: FieldMountReturnCode, Logical: "return_code",
		Decode: func(dst *MountRequest, v layout.Value) { dst.ReturnCode = v.Int32() },
	},
	outputBoolBinding(FieldFilesystemDirty, "filesystem_dirty", func(m *MountRequest) *bool { return &m.FilesystemDirty }),
	outputBoolBinding(FieldReadOnlyAccessDenied, "read_only_after_access_denied", func(m *MountRequest) *bool { return &m.ReadOnlyAfterAccessDenied }),
	outputBoolBinding(FieldReadOnlyWriteProtected, "read_only_after_write_protected", func(m *MountRequest) *bool { return &m.ReadOnlyAfterWriteProtected }),
}

// DriverVolumePath returns the path as the driver expects it: file containers
// get the `\??\` prefix, kernel device paths are left alone.
func DriverVolumePath(path string) string {
	if strings.HasPrefix(path, ntDevicePrefix) {
		return path
	}
	return converters.AddDevicePrefix(path)
}

// EncodeMount builds a MOUNT_STRUCT record from req.
func EncodeMount(req *MountRequest) (*layout.Record, error) {
	rec := Mount.NewRecord()
	if err := layout.Populate(rec, 0, req, MountBindings, layout.Strict); err != nil {
		rec.Reset()
		return nil, err
	}
	return rec, nil
}

// DecodeMount reads a MOUNT_STRUCT record back into a MountRequest.
func DecodeMount(rec *layout.Record, mode layout.Mode) (MountRequest, error) {
	return layout.Materialize(rec, 0, MountBindings, mode)
}
