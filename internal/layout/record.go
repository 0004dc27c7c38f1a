package layout

import (
	"fmt"
)

// Record is the raw bytes of one record, laid out by its Layout.
// Records are built right before a transaction and dropped after decoding.
type Record struct {
	layout *Layout
	buf    []byte
}

// NewRecord returns a zero-filled record.
func (l *Layout) NewRecord() *Record {
	return &Record{layout: l, buf: make([]byte, l.size)}
}

// Decode wraps raw bytes received from the driver. The bytes must be exactly the
// layout size; they are used in place.
func (l *Layout) Decode(data []byte) (*Record, error) {
	if len(data) != l.size {
		return nil, fmt.Errorf("%s: got %d bytes, want %d: %w", l.name, len(data), l.size, ErrSizeMismatch)
	}
	return &Record{layout: l, buf: data}, nil
}

// Layout returns the record's layout.
func (r *Record) Layout() *Layout {
	return r.layout
}

// Bytes returns the record's backing bytes.
func (r *Record) Bytes() []byte {
	return r.buf
}

// Sentinel returns the trailing sentinel buffer.
func (r *Record) Sentinel() []byte {
	start := r.layout.sentinelOffset
	return r.buf[start : start+r.layout.sentinelSize]
}

// Has reports whether the layout declares the wire field.
func (r *Record) Has(name string) bool {
	_, ok := r.layout.Field(name)
	return ok
}

// Value returns a view of slot idx of the named field. Non-indexed fields only
// accept idx 0.
func (r *Record) Value(name string, idx int) (Value, error) {
	f, ok := r.layout.Field(name)
	if !ok {
		return Value{}, &FieldMissingError{Record: r.layout.name, Field: name}
	}
	if idx < 0 || idx >= f.Slots() {
		return Value{}, fmt.Errorf("%s.%s[%d] (slots %d): %w", r.layout.name, name, idx, f.Slots(), ErrIndexOutOfRange)
	}
	start := f.Offset + idx*f.Stride()
	return Value{typ: f.Type, b: r.buf[start : start+f.Stride()]}, nil
}

// MustValue is Value for fields declared by the record's own static table.
func (r *Record) MustValue(name string, idx int) Value {
	v, err := r.Value(name, idx)
	if err != nil {
		panic(err)
	}
	return v
}

// Reset zeroes the record, sentinel included.
func (r *Record) Reset() {
	clear(r.buf)
}
