package records

import (
	"github.com/deploymenttheory/go-vcctl/internal/layout"
	"github.com/deploymenttheory/go-vcctl/internal/types"
)

// Wire names of UNMOUNT_STRUCT.
const (
	FieldUnmountDriveNo                  = "nDosDriveNo"
	FieldIgnoreOpenFiles                 = "ignoreOpenFiles"
	FieldHiddenVolumeProtectionTriggered = "HiddenVolumeProtectionTriggered"
	FieldUnmountReturnCode               = "nReturnCode"
)

// Unmount is UNMOUNT_STRUCT.
// Reference: Apidrvr.h
var Unmount = layout.MustNew("UNMOUNT_STRUCT", types.SentinelSize,
	int32Field(FieldUnmountDriveNo),
	bool32(FieldIgnoreOpenFiles),
	bool32(FieldHiddenVolumeProtectionTriggered),
	int32Field(FieldUnmountReturnCode),
)

// DismountRequest is the logical view of UNMOUNT_STRUCT.
type DismountRequest struct {
	DriveNo         int
	IgnoreOpenFiles bool

	// Filled by the driver.
	HiddenVolumeProtectionTriggered bool
	ReturnCode                      int32
}

// DismountBindings maps UNMOUNT_STRUCT onto DismountRequest.
var DismountBindings = []layout.Binding[DismountRequest]{
	{
		Wire: FieldUnmountDriveNo, Logical: "drive_no",
		Decode: func(dst *DismountRequest, v layout.Value) { dst.DriveNo = int(v.Int32()) },
		Encode: func(src *DismountRequest, v layout.Value) error { return v.SetInt32(int32(src.DriveNo)) },
	},
	{
		Wire: FieldIgnoreOpenFiles, Logical: "ignore_open_files",
		Decode: func(dst *DismountRequest, v layout.Value) { dst.IgnoreOpenFiles = v.Bool() },
		Encode: func(src *DismountRequest, v layout.Value) error { return v.SetBool(src.IgnoreOpenFiles) },
	},
	{
		Wire: FieldHiddenVolumeProtectionTriggered, Logical: "hidden_volume_protection_triggered",
		Decode: func(dst *DismountRequest, v layout.Value) { dst.HiddenVolumeProtectionTriggered = v.Bool() },
	},
	{
		Wire: FieldUnmountReturnCode, Logical: "return_code",
		Decode: func(dst *DismountRequest, v layout.Value) { dst.ReturnCode = v.Int32() },
	},
}

// EncodeDismount builds an UNMOUNT_STRUCT record from req.
func EncodeDismount(req *DismountRequest) (*layout.Record, error) {
	rec := Unmount.NewRecord()
	if err := layout.Populate(rec, 0, req, DismountBindings, layout.Strict); err != nil {
		return nil, err
	}
	return rec, nil
}

// DecodeDismount reads an UNMOUNT_STRUCT record back into a DismountRequest.
func DecodeDismount(rec *layout.Record, mode layout.Mode) (DismountRequest, error) {
	return layout.Materialize(rec, 0, DismountBindings, mode)
}
