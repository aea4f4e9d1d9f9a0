package daqx

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	daqxerrors "github.com/heyvito/daqx/errors"
)

func TestRawTypeTable(t *testing.T) {
	cases := []struct {
		id     uint32
		kind   SampleKind
		width  uint32
		signed bool
	}{
		{1, KindInt8, 1, true},
		{2, KindUint16, 2, false},
		{3, KindInt16, 2, true},
		{4, KindUint32, 4, false},
		{5, KindInt32, 4, true},
	}
	for _, c := range cases {
		typ, ok := RawTypeByID(c.id)
		require.True(t, ok, "id %d", c.id)
		assert.Equal(t, c.kind, typ.Kind)
		assert.Equal(t, c.width, typ.Width)
		assert.Equal(t, c.signed, typ.Signed)
	}

	for _, id := range []uint32{0, 6, 7, 0xFFFFFFFF} {
		_, ok := RawTypeByID(id)
		assert.False(t, ok, "id %d", id)
	}
}

func TestDecodeScalerIndexUnknownRawType(t *testing.T) {
	meta := objectList(channelObject("/'Group'/'Channel1'", 4, []uint32{2},
		scalerEntry(9, 0, 0, 0)))
	_, err := DecodeMetadata(meta, binary.LittleEndian)
	var unknown daqxerrors.UnknownRawTypeID
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "/'Group'/'Channel1'", unknown.Path)
	assert.Equal(t, uint32(9), unknown.TypeID)
}

func TestDecodeScalerIndexBadDimension(t *testing.T) {
	obj := cat(
		str("/'Group'/'Channel1'"),
		u32(rawIndexScaler),
		u32(scalerDataTypeSentinel),
		u32(2), // only dimension 1 is meaningful
		u64(4),
		u32(0),
		u32(0),
		u32(0),
	)
	_, err := DecodeMetadata(objectList(obj), binary.LittleEndian)
	var dim daqxerrors.UnsupportedDimension
	require.ErrorAs(t, err, &dim)
	assert.Equal(t, uint32(2), dim.Dimension)
}

func TestDecodeScalerIndexTruncated(t *testing.T) {
	full := channelObject("/'Group'/'Channel1'", 4, []uint32{2},
		scalerEntry(3, 0, 0, 0))
	// Anything cut between the marker and the end of the width vector is a
	// hard error for the object; the trailing 4 bytes are the property
	// count, which fails as truncated metadata instead.
	pathAndMarker := 4 + len("/'Group'/'Channel1'") + 4
	for end := pathAndMarker; end < len(full)-4; end++ {
		_, err := DecodeMetadata(objectList(full[:end]), binary.LittleEndian)
		require.Error(t, err, "cut at byte %d must not decode", end)
		var trunc daqxerrors.TruncatedScalerIndex
		require.ErrorAs(t, err, &trunc, "cut at byte %d", end)
		assert.Equal(t, "/'Group'/'Channel1'", trunc.Path)
	}
}

func TestDecodeScalerIndexPreservesSampleFormatBitmap(t *testing.T) {
	entry := u32(3, 0, 0, 0xDEADBEEF, 0)
	meta := objectList(channelObject("/'Group'/'Channel1'", 4, []uint32{2}, entry))
	objects, err := DecodeMetadata(meta, binary.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), objects[0].RawIndex.Scaler.Scalers[0].SampleFormatBitmap)
}

func TestDecodeScalerIndexOversizedCount(t *testing.T) {
	// A count larger than the remaining bytes must fail upfront rather
	// than allocate and walk off the buffer.
	obj := cat(
		str("/c"),
		u32(rawIndexScaler),
		u32(scalerDataTypeSentinel),
		u32(1),
		u64(4),
		u32(0x10000000),
	)
	_, err := DecodeMetadata(objectList(obj), binary.LittleEndian)
	var trunc daqxerrors.TruncatedScalerIndex
	require.ErrorAs(t, err, &trunc)
}
