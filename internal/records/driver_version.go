package records

import (
	"github.com/deploymenttheory/go-vcctl/internal/layout"
	"github.com/deploymenttheory/go-vcctl/internal/types"
)

// FieldDriverVersion is the single LONG the driver writes for
// TC_IOCTL_GET_DRIVER_VERSION.
const FieldDriverVersion = "version"

// DriverVersion is the reply record of TC_IOCTL_GET_DRIVER_VERSION.
var DriverVersion = layout.MustNew("DRIVER_VERSION", types.SentinelSize,
	int32Field(FieldDriverVersion),
)

// DecodeDriverVersion reads the version from a DRIVER_VERSION record.
func DecodeDriverVersion(rec *layout.Record) types.DriverVersion {
	return types.DriverVersion(rec.MustValue(FieldDriverVersion, 0).Uint32())
}
