// Package layout computes C-ABI compatible layouts for fixed-size driver records
// and gives typed access to the fields of a record's raw bytes.
package layout

import (
	"encoding/binary"
	"fmt"
)

// ByteOrder is the byte order of every record exchanged with the driver.
var ByteOrder binary.ByteOrder = binary.LittleEndian

// Kind is the C type of a single wire element.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindUint8 is unsigned char / char.
	KindUint8
	// KindBool8 is C99 bool.
	KindBool8
	// KindBool32 is the Win32 BOOL, a 32-bit int.
	KindBool32
	// KindInt32 is int / LONG.
	KindInt32
	// KindUint32 is unsigned __int32 / ULONG.
	KindUint32
	// KindUint64 is unsigned __int64.
	KindUint64
	// KindWChar is wchar_t, one UTF-16 code unit.
	KindWChar
)

var kindInfo = map[Kind]struct {
	name string
	size int
}{
	KindUint8:  {"uint8", 1},
	KindBool8:  {"bool8", 1},
	KindBool32: {"BOOL", 4},
	KindInt32:  {"int32", 4},
	KindUint32: {"uint32", 4},
	KindUint64: {"uint64", 8},
	KindWChar:  {"wchar", 2},
}

// Size returns the size of one element in bytes, or 0 for an unknown kind.
func (k Kind) Size() int {
	return kindInfo[k].size
}

func (k Kind) String() string {
	if info, ok := kindInfo[k]; ok {
		return info.name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// WireType is a C element type, optionally a fixed-length array of it
// (e.g. wchar_t[260]). Len 0 means a scalar.
type WireType struct {
	Kind Kind
	Len  int
}

// Scalar returns the scalar wire type of k.
func Scalar(k Kind) WireType {
	return WireType{Kind: k}
}

// Array returns the fixed-length array wire type k[n].
func Array(k Kind, n int) WireType {
	return WireType{Kind: k, Len: n}
}

// IsArray reports whether the type is a fixed-length array.
func (t WireType) IsArray() bool {
	return t.Len > 0
}

// Elements returns the number of elements, 1 for scalars.
func (t WireType) Elements() int {
	if t.Len > 0 {
		return t.Len
	}
	return 1
}

// Size returns the size of the type in bytes.
func (t WireType) Size() int {
	return t.Kind.Size() * t.Elements()
}

// Align returns the natural alignment of the type, which is that of its element.
func (t WireType) Align() int {
	return t.Kind.Size()
}

func (t WireType) String() string {
	if t.IsArray() {
		return fmt.Sprintf("%s[%d]", t.Kind, t.Len)
	}
	return t.Kind.String()
}
