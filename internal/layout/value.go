package layout

import (
	"fmt"
)

// Value is a view onto one slot of a record field. Writes go straight to the
// record's bytes.
type Value struct {
	typ WireType
	b   []byte
}

// Type returns the wire type of the value.
func (v Value) Type() WireType {
	return v.typ
}

// Raw returns the value's bytes. The slice aliases the record.
func (v Value) Raw() []byte {
	return v.b
}

// Bytes returns a copy of the value's bytes.
func (v Value) Bytes() []byte {
	out := make([]byte, len(v.b))
	copy(out, v.b)
	return out
}

// IsZero reports whether every byte of the value is zero.
func (v Value) IsZero() bool {
	for _, b := range v.b {
		if b != 0 {
			return false
		}
	}
	return true
}

// Uint8 returns the first byte.
func (v Value) Uint8() uint8 {
	return v.b[0]
}

// Int32 returns the value as a little-endian int32.
func (v Value) Int32() int32 {
	return int32(ByteOrder.Uint32(v.b))
}

// Uint32 returns the value as a little-endian uint32.
func (v Value) Uint32() uint32 {
	return ByteOrder.Uint32(v.b)
}

// Uint64 returns the value as a little-endian uint64.
func (v Value) Uint64() uint64 {
	return ByteOrder.Uint64(v.b)
}

// Bool reports whether a bool8 or BOOL value is non-zero.
func (v Value) Bool() bool {
	return !v.IsZero()
}

// Units returns a wchar array as UTF-16 code units.
func (v Value) Units() []uint16 {
	out := make([]uint16, len(v.b)/2)
	for i := range out {
		out[i] = ByteOrder.Uint16(v.b[2*i:])
	}
	return out
}

// SetUint8 stores a byte.
func (v Value) SetUint8(x uint8) error {
	if err := v.expect(KindUint8, KindBool8); err != nil {
		return err
	}
	v.b[0] = x
	return nil
}

// SetInt32 stores a little-endian int32.
func (v Value) SetInt32(x int32) error {
	if err := v.expect(KindInt32, KindBool32); err != nil {
		return err
	}
	ByteOrder.PutUint32(v.b, uint32(x))
	return nil
}

// SetUint32 stores a little-endian uint32.
func (v Value) SetUint32(x uint32) error {
	if err := v.expect(KindUint32, KindInt32, KindBool32); err != nil {
		return err
	}
	ByteOrder.PutUint32(v.b, x)
	return nil
}

// SetUint64 stores a little-endian uint64.
func (v Value) SetUint64(x uint64) error {
	if err := v.expect(KindUint64); err != nil {
		return err
	}
	ByteOrder.PutUint64(v.b, x)
	return nil
}

// SetBool stores 1 or 0 in a bool8 or BOOL value.
func (v Value) SetBool(x bool) error {
	var n uint32
	if x {
		n = 1
	}
	switch v.typ.Kind {
	case KindBool8, KindUint8:
		v.b[0] = uint8(n)
		return nil
	case KindBool32, KindInt32, KindUint32:
		ByteOrder.PutUint32(v.b, n)
		return nil
	}
	return fmt.Errorf("set bool on %s: %w", v.typ, ErrTypeMismatch)
}

// SetRaw copies data into the value and zero-fills the remainder. data must not
// be longer than the value.
func (v Value) SetRaw(data []byte) error {
	if len(data) > len(v.b) {
		return fmt.Errorf("set %d bytes on %s (%d bytes): %w", len(data), v.typ, len(v.b), ErrSizeMismatch)
	}
	n := copy(v.b, data)
	clear(v.b[n:])
	return nil
}

func (v Value) expect(kinds ...Kind) error {
	for _, k := range kinds {
		if v.typ.Kind == k && !v.typ.IsArray() {
			return nil
		}
	}
	return fmt.Errorf("value of type %s: %w", v.typ, ErrTypeMismatch)
}
