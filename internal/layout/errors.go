package layout

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMisaligned is matched by *MisalignedError.
	ErrMisaligned = errors.New("record misaligned")
	// ErrFieldMissing is matched by *FieldMissingError.
	ErrFieldMissing = errors.New("field missing")
	// ErrSizeMismatch is returned when raw bytes do not match the layout size.
	ErrSizeMismatch = errors.New("record size mismatch")
	// ErrIndexOutOfRange is returned when a slot index exceeds a field's count.
	ErrIndexOutOfRange = errors.New("slot index out of range")
	// ErrTypeMismatch is returned when a value is written with the wrong wire type.
	ErrTypeMismatch = errors.New("wire type mismatch")
)

// Region is a maximal run of non-zero bytes found in a sentinel buffer.
// Offset is relative to the start of the sentinel.
type Region struct {
	Offset int
	Bytes  []byte
}

// End returns the offset just past the region.
func (r Region) End() int {
	return r.Offset + len(r.Bytes)
}

// Contains reports whether the sentinel offset falls inside the region.
func (r Region) Contains(offset int) bool {
	return offset >= r.Offset && offset < r.End()
}

// MisalignedError reports data found in a record's sentinel buffer, which means
// the local layout does not match the struct the driver wrote.
type MisalignedError struct {
	Record  string
	Regions []Region
}

func (e *MisalignedError) Error() string {
	parts := make([]string, 0, len(e.Regions))
	for _, r := range e.Regions {
		parts = append(parts, fmt.Sprintf("%d+%d", r.Offset, len(r.Bytes)))
	}
	return fmt.Sprintf("%s: excess buffer contains data at [%s]; struct is not aligned",
		e.Record, strings.Join(parts, " "))
}

func (e *MisalignedError) Is(target error) bool {
	return target == ErrMisaligned
}

// FieldMissingError reports a binding whose wire field is not part of the layout.
type FieldMissingError struct {
	Record string
	Field  string
}

func (e *FieldMissingError) Error() string {
	return fmt.Sprintf("%s: field %s not present in layout", e.Record, e.Field)
}

func (e *FieldMissingError) Is(target error) bool {
	return target == ErrFieldMissing
}
