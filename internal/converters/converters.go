// Package converters holds the pure conversion functions used by the record
// binding tables: wide text, device path prefixes, booleans, enum lookups and
// fixed-capacity buffers.
package converters

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/deploymenttheory/go-vcctl/internal/types"
)

// ErrValueTooLarge is matched by *ValueTooLargeError.
var ErrValueTooLarge = errors.New("value too large")

// ValueTooLargeError reports an input longer than its fixed wire capacity.
type ValueTooLargeError struct {
	Field    string
	Size     int
	Capacity int
}

func (e *ValueTooLargeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %d bytes exceeds capacity of %d", e.Field, e.Size, e.Capacity)
	}
	return fmt.Sprintf("%d bytes exceeds capacity of %d", e.Size, e.Capacity)
}

func (e *ValueTooLargeError) Is(target error) bool {
	return target == ErrValueTooLarge
}

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// WideText decodes a NUL-terminated UTF-16LE wchar_t buffer. Text after the
// first NUL is ignored; a buffer without NUL is decoded whole. Invalid
// sequences decode to U+FFFD rather than failing.
func WideText(raw []byte) string {
	end := len(raw) &^ 1
	for i := 0; i+1 < len(raw); i += 2 {
		if raw[i] == 0 && raw[i+1] == 0 {
			end = i
			break
		}
	}
	if end == 0 {
		return ""
	}
	// The UTF-16 decoder replaces unpaired surrogates instead of failing.
	out, _ := utf16le.NewDecoder().Bytes(raw[:end])
	return string(out)
}

// EncodeWideText encodes s as UTF-16LE into a buffer of capacity code units,
// NUL-terminated and zero-padded. Text that leaves no room for the terminator
// fails with ErrValueTooLarge.
func EncodeWideText(field, s string, capacity int) ([]byte, error) {
	enc, err := utf16le.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("%s: encode utf-16: %w", field, err)
	}
	units := len(enc) / 2
	if units >= capacity {
		return nil, &ValueTooLargeError{Field: field, Size: units, Capacity: capacity - 1}
	}
	out := make([]byte, capacity*2)
	copy(out, enc)
	return out, nil
}

// WideUnitsBytes returns the raw code units of a wchar_t buffer up to the first
// NUL, as little-endian bytes. The driver stores opaque identifiers this way.
func WideUnitsBytes(raw []byte) []byte {
	end := len(raw) &^ 1
	for i := 0; i+1 < len(raw); i += 2 {
		if raw[i] == 0 && raw[i+1] == 0 {
			end = i
			break
		}
	}
	out := make([]byte, end)
	copy(out, raw[:end])
	return out
}

// TrimDevicePrefix strips the NT `\??\` namespace prefix from a volume path.
// Paths without the prefix are returned unchanged.
func TrimDevicePrefix(path string) string {
	return strings.TrimPrefix(path, types.DevicePathPrefix)
}

// AddDevicePrefix prepends the NT `\??\` namespace prefix unless already present.
func AddDevicePrefix(path string) string {
	if strings.HasPrefix(path, types.DevicePathPrefix) {
		return path
	}
	return types.DevicePathPrefix + path
}

// Bool normalises a C BOOL / bool: any non-zero value is true.
func Bool[N ~int32 | ~uint32 | ~uint8](n N) bool {
	return n != 0
}

// TryDecode maps a raw driver code onto the enum E. The returned value always
// carries the raw code; ok reports whether it is one of the known variants.
func TryDecode[E ~int32](raw int32, known map[E]string) (value E, ok bool) {
	value = E(raw)
	_, ok = known[value]
	return value, ok
}

// BytesToFixedBuffer right-pads secret with zeroes to exactly capacity bytes.
// It fails with ErrValueTooLarge when secret is longer than capacity.
func BytesToFixedBuffer(secret []byte, capacity int) ([]byte, error) {
	if len(secret) > capacity {
		return nil, &ValueTooLargeError{Size: len(secret), Capacity: capacity}
	}
	out := make([]byte, capacity)
	copy(out, secret)
	return out, nil
}

// Wipe zeroes a buffer that held secret material.
func Wipe(b []byte) {
	clear(b)
}
