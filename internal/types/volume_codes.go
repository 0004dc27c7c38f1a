package types

import "fmt"

// EncryptionAlgorithm identifies the cipher cascade of a mounted volume.
// Values the driver reports that are not listed here are kept as-is.
// Reference: Crypto.h (EncryptionAlgorithms ids)
type EncryptionAlgorithm int32

const (
	EncryptionNone              EncryptionAlgorithm = 0
	EncryptionAES               EncryptionAlgorithm = 1
	EncryptionSerpent           EncryptionAlgorithm = 2
	EncryptionTwofish           EncryptionAlgorithm = 3
	EncryptionCamellia          EncryptionAlgorithm = 4
	EncryptionGOST89            EncryptionAlgorithm = 5
	EncryptionKuznyechik        EncryptionAlgorithm = 6
	EncryptionAESTwofish        EncryptionAlgorithm = 7
	EncryptionAESTwofishSerpent EncryptionAlgorithm = 8
	EncryptionSerpentAES        EncryptionAlgorithm = 9
	EncryptionSerpentTwofishAES EncryptionAlgorithm = 10
	EncryptionTwofishSerpent    EncryptionAlgorithm = 11
)

// EncryptionAlgorithmNames maps the known algorithm ids to display names.
var EncryptionAlgorithmNames = map[EncryptionAlgorithm]string{
	EncryptionNone:              "None",
	EncryptionAES:               "AES",
	EncryptionSerpent:           "Serpent",
	EncryptionTwofish:           "Twofish",
	EncryptionCamellia:          "Camellia",
	EncryptionGOST89:            "GOST89",
	EncryptionKuznyechik:        "Kuznyechik",
	EncryptionAESTwofish:        "AES-Twofish",
	EncryptionAESTwofishSerpent: "AES-Twofish-Serpent",
	EncryptionSerpentAES:        "Serpent-AES",
	EncryptionSerpentTwofishAES: "Serpent-Twofish-AES",
	EncryptionTwofishSerpent:    "Twofish-Serpent",
}

// Known reports whether the id is one of the listed algorithms.
func (e EncryptionAlgorithm) Known() bool {
	_, ok := EncryptionAlgorithmNames[e]
	return ok
}

func (e EncryptionAlgorithm) String() string {
	return DescribeEncryptionAlgorithm(e)
}

// DescribeEncryptionAlgorithm renders an algorithm id, falling back to the raw code.
func DescribeEncryptionAlgorithm(e EncryptionAlgorithm) string {
	if name, ok := EncryptionAlgorithmNames[e]; ok {
		return name
	}
	return fmt.Sprintf("unknown algorithm (%d)", int32(e))
}

// VolumeType is the PROP_VOL_TYPE_* classification of a mounted volume.
// Reference: Apidrvr.h
type VolumeType int32

const (
	VolumeTypeNormal VolumeType = 0
	VolumeTypeHidden VolumeType = 1
	// VolumeTypeOuter is an outer volume with hidden volume protection enabled.
	VolumeTypeOuter VolumeType = 2
	// VolumeTypeOuterWritePrevented is a protected outer volume on which a write
	// was already blocked.
	VolumeTypeOuterWritePrevented VolumeType = 3
	VolumeTypeSystem              VolumeType = 4
)

// VolumeTypeNames maps the known volume types to display names.
var VolumeTypeNames = map[VolumeType]string{
	VolumeTypeNormal:              "Normal",
	VolumeTypeHidden:              "Hidden",
	VolumeTypeOuter:               "Outer (hidden volume protected)",
	VolumeTypeOuterWritePrevented: "Outer (write prevented)",
	VolumeTypeSystem:              "System",
}

// Known reports whether the type is one of the listed volume types.
func (v VolumeType) Known() bool {
	_, ok := VolumeTypeNames[v]
	return ok
}

func (v VolumeType) String() string {
	return DescribeVolumeType(v)
}

// DescribeVolumeType renders a volume type, falling back to the raw code.
func DescribeVolumeType(v VolumeType) string {
	if name, ok := VolumeTypeNames[v]; ok {
		return name
	}
	return fmt.Sprintf("unknown volume type (%d)", int32(v))
}
