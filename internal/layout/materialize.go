package layout

import (
	"errors"
)

// Mode selects how materialization treats bindings whose field is absent.
type Mode int

const (
	// Lenient skips bindings whose wire field the layout does not declare.
	Lenient Mode = iota
	// Strict fails with *FieldMissingError on the first absent wire field.
	Strict
)

// Binding maps one wire field onto a logical field of T.
//
// Decode must be total: it receives whatever bytes the driver wrote and never
// fails. Encode is optional and only used for request records.
type Binding[T any] struct {
	Wire    string
	Logical string
	// Indexed bindings read slot i of the wire field for the i-th object.
	Indexed bool
	Decode  func(dst *T, v Value)
	Encode  func(src *T, v Value) error
}

// Materialize decodes the object at slot index of r. Non-indexed bindings always
// read slot 0.
func Materialize[T any](r *Record, index int, bindings []Binding[T], mode Mode) (T, error) {
	var out T
	for _, b := range bindings {
		if b.Decode == nil {
			continue
		}
		v, err := r.Value(b.Wire, slot(b, index))
		if err != nil {
			if errors.Is(err, ErrFieldMissing) && mode == Lenient {
				continue
			}
			return out, err
		}
		b.Decode(&out, v)
	}
	return out, nil
}

// MaterializeAll decodes one object per slot in [0, n), keeping those accepted
// by keep. A nil keep accepts every slot.
func MaterializeAll[T any](r *Record, n int, bindings []Binding[T], mode Mode, keep func(r *Record, index int) bool) ([]T, error) {
	var out []T
	for i := 0; i < n; i++ {
		if keep != nil && !keep(r, i) {
			continue
		}
		obj, err := Materialize(r, i, bindings, mode)
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	return out, nil
}

// Populate encodes src into slot index of r through the bindings' Encode funcs.
func Populate[T any](r *Record, index int, src *T, bindings []Binding[T], mode Mode) error {
	for _, b := range bindings {
		if b.Encode == nil {
			continue
		}
		v, err := r.Value(b.Wire, slot(b, index))
		if err != nil {
			if errors.Is(err, ErrFieldMissing) && mode == Lenient {
				continue
			}
			return err
		}
		if err := b.Encode(src, v); err != nil {
			return err
		}
	}
	return nil
}

func slot[T any](b Binding[T], index int) int {
	if b.Indexed {
		return index
	}
	return 0
}
