package layout

import (
	"fmt"
)

// SentinelField is the wire name of the trailing overflow buffer.
const SentinelField = "_buffer"

// FieldSpec declares a record field. Count > 0 makes the field indexed: the
// wire type is repeated Count times, one element per logical slot
// (e.g. wchar_t wszVolume[26][260] is Array(KindWChar, 260) with Count 26).
type FieldSpec struct {
	Name  string
	Type  WireType
	Count int
}

// Field is a laid out field of a record.
type Field struct {
	Name   string
	Type   WireType
	Count  int
	Offset int
}

// Indexed reports whether the field holds one value per slot.
func (f Field) Indexed() bool {
	return f.Count > 0
}

// Slots returns the number of values the field holds, 1 for non-indexed fields.
func (f Field) Slots() int {
	if f.Count > 0 {
		return f.Count
	}
	return 1
}

// Stride returns the distance between two consecutive slots.
func (f Field) Stride() int {
	return f.Type.Size()
}

// Size returns the total size of the field in bytes.
func (f Field) Size() int {
	return f.Stride() * f.Slots()
}

// End returns the offset just past the field.
func (f Field) End() int {
	return f.Offset + f.Size()
}

// Layout is the fixed binary layout of one record type: the declared fields at
// their C offsets followed by a zero-filled sentinel buffer.
type Layout struct {
	name           string
	fields         []Field
	byName         map[string]int
	sentinelOffset int
	sentinelSize   int
	size           int
	align          int
}

// New lays out the fields in declaration order using the MSVC default packing
// rules (each field aligned to its element size, struct size rounded up to the
// largest alignment), then appends a sentinel buffer of sentinelSize bytes.
func New(name string, sentinelSize int, specs ...FieldSpec) (*Layout, error) {
	if sentinelSize < 0 {
		return nil, fmt.Errorf("layout %s: negative sentinel size %d", name, sentinelSize)
	}

	l := &Layout{
		name:   name,
		byName: make(map[string]int, len(specs)),
		align:  1,
	}

	offset := 0
	for _, spec := range specs {
		if spec.Name == "" || spec.Name == SentinelField {
			return nil, fmt.Errorf("layout %s: invalid field name %q", name, spec.Name)
		}
		if _, dup := l.byName[spec.Name]; dup {
			return nil, fmt.Errorf("layout %s: duplicate field %q", name, spec.Name)
		}
		if spec.Type.Kind.Size() == 0 {
			return nil, fmt.Errorf("layout %s: field %s has invalid kind %s", name, spec.Name, spec.Type.Kind)
		}
		if spec.Count < 0 || spec.Type.Len < 0 {
			return nil, fmt.Errorf("layout %s: field %s has negative length", name, spec.Name)
		}

		align := spec.Type.Align()
		if align > l.align {
			l.align = align
		}
		offset = alignUp(offset, align)

		f := Field{Name: spec.Name, Type: spec.Type, Count: spec.Count, Offset: offset}
		l.byName[spec.Name] = len(l.fields)
		l.fields = append(l.fields, f)
		offset = f.End()
	}

	l.sentinelOffset = offset
	l.sentinelSize = sentinelSize
	offset += sentinelSize
	l.size = alignUp(offset, l.align)

	return l, nil
}

// MustNew is New for static record tables; it panics on an invalid declaration.
func MustNew(name string, sentinelSize int, specs ...FieldSpec) *Layout {
	l, err := New(name, sentinelSize, specs...)
	if err != nil {
		panic(err)
	}
	return l
}

// Name returns the record type name, e.g. "MOUNT_LIST_STRUCT".
func (l *Layout) Name() string {
	return l.name
}

// Size returns the total record size, sentinel and tail padding included.
func (l *Layout) Size() int {
	return l.size
}

// DeclaredSize returns the offset at which the sentinel starts, i.e. the size the
// driver's own struct occupies before tail padding.
func (l *Layout) DeclaredSize() int {
	return l.sentinelOffset
}

// Align returns the record alignment.
func (l *Layout) Align() int {
	return l.align
}

// SentinelSize returns the size of the trailing sentinel buffer.
func (l *Layout) SentinelSize() int {
	return l.sentinelSize
}

// SentinelOffset returns the offset of the trailing sentinel buffer.
func (l *Layout) SentinelOffset() int {
	return l.sentinelOffset
}

// Fields returns the declared fields in wire order.
func (l *Layout) Fields() []Field {
	out := make([]Field, len(l.fields))
	copy(out, l.fields)
	return out
}

// Field looks up a declared field by wire name.
func (l *Layout) Field(name string) (Field, bool) {
	i, ok := l.byName[name]
	if !ok {
		return Field{}, false
	}
	return l.fields[i], true
}

// Offset returns the offset of a declared field, or -1.
func (l *Layout) Offset(name string) int {
	f, ok := l.Field(name)
	if !ok {
		return -1
	}
	return f.Offset
}

func alignUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}
