package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Code int32
	Flag bool
	Size uint64
	Tag  uint8
}

var entryBindings = []Binding[entry]{
	{
		Wire: "code", Logical: "code",
		Decode: func(dst *entry, v Value) { dst.Code = v.Int32() },
		Encode: func(src *entry, v Value) error { return v.SetInt32(src.Code) },
	},
	{
		Wire: "sizes", Logical: "size", Indexed: true,
		Decode: func(dst *entry, v Value) { dst.Size = v.Uint64() },
		Encode: func(src *entry, v Value) error { return v.SetUint64(src.Size) },
	},
	{
		Wire: "flag", Logical: "flag",
		Decode: func(dst *entry, v Value) { dst.Flag = v.Bool() },
	},
	{
		Wire: "absent", Logical: "tag",
		Decode: func(dst *entry, v Value) { dst.Tag = v.Uint8() },
		Encode: func(src *entry, v Value) error { return v.SetUint8(src.Tag) },
	},
}

func TestMaterialize_Modes(t *testing.T) {
	rec := testLayout().NewRecord()
	require.NoError(t, rec.MustValue("code", 0).SetInt32(3))
	require.NoError(t, rec.MustValue("sizes", 1).SetUint64(512))
	require.NoError(t, rec.MustValue("flag", 0).SetBool(true))

	got, err := Materialize(rec, 1, entryBindings, Lenient)
	require.NoError(t, err)
	assert.Equal(t, entry{Code: 3, Flag: true, Size: 512}, got)

	_, err = Materialize(rec, 1, entryBindings, Strict)
	assert.ErrorIs(t, err, ErrFieldMissing)
}

func TestMaterializeAll(t *testing.T) {
	rec := testLayout().NewRecord()
	for i, size := range []uint64{10, 0, 30} {
		require.NoError(t, rec.MustValue("sizes", i).SetUint64(size))
	}

	all, err := MaterializeAll(rec, 3, entryBindings, Lenient, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	nonEmpty, err := MaterializeAll(rec, 3, entryBindings, Lenient, func(r *Record, i int) bool {
		return !r.MustValue("sizes", i).IsZero()
	})
	require.NoError(t, err)
	require.Len(t, nonEmpty, 2)
	assert.Equal(t, uint64(10), nonEmpty[0].Size)
	assert.Equal(t, uint64(30), nonEmpty[1].Size)

	_, err = MaterializeAll(rec, 4, entryBindings, Lenient, nil)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestPopulate(t *testing.T) {
	rec := testLayout().NewRecord()
	src := &entry{Code: 9, Size: 77, Tag: 1}

	err := Populate(rec, 2, src, entryBindings, Strict)
	assert.ErrorIs(t, err, ErrFieldMissing)

	rec.Reset()
	require.NoError(t, Populate(rec, 2, src, entryBindings, Lenient))
	assert.Equal(t, int32(9), rec.MustValue("code", 0).Int32())
	assert.Equal(t, uint64(77), rec.MustValue("sizes", 2).Uint64())
	assert.False(t, rec.MustValue("flag", 0).Bool(), "decode-only bindings are not encoded")

	back, err := Materialize(rec, 2, entryBindings, Lenient)
	require.NoError(t, err)
	assert.Equal(t, src.Code, back.Code)
	assert.Equal(t, src.Size, back.Size)
}
