package daqx

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	daqxerrors "github.com/heyvito/daqx/errors"
)

func TestDecodeMetadataAbsentIndexes(t *testing.T) {
	meta := objectList(rootObject(), groupObject())
	objects, err := DecodeMetadata(meta, binary.LittleEndian)
	require.NoError(t, err)
	require.Len(t, objects, 2)

	assert.Equal(t, "/", objects[0].Path)
	assert.Equal(t, IndexAbsent, objects[0].RawIndex.Kind)
	assert.Empty(t, objects[0].Properties)

	assert.Equal(t, "/'Group'", objects[1].Path)
	assert.Equal(t, IndexAbsent, objects[1].RawIndex.Kind)
}

func TestDecodeMetadataOpaqueIndexSkipsDeclaredLength(t *testing.T) {
	// A marker that is neither a reserved value nor all-ones is the byte
	// length of a normal raw-data index. The cursor must stay in sync for
	// the next object regardless of the payload's contents.
	payload := mustBytesFromHex("03000000 01000000 0400000000000000 00000000")
	meta := objectList(
		cat(str("/'Group'/'Plain'"), u32(uint32(len(payload))), payload, u32(0)),
		groupObject(),
	)
	objects, err := DecodeMetadata(meta, binary.LittleEndian)
	require.NoError(t, err)
	require.Len(t, objects, 2)

	assert.Equal(t, IndexOpaque, objects[0].RawIndex.Kind)
	assert.Equal(t, payload, objects[0].RawIndex.Opaque)
	assert.Equal(t, "/'Group'", objects[1].Path)
}

func TestDecodeMetadataMatchesPreviousMarker(t *testing.T) {
	meta := objectList(cat(str("/'Group'/'Channel1'"), u32(rawIndexMatchesPrev), u32(0)))
	objects, err := DecodeMetadata(meta, binary.LittleEndian)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, IndexMatchesPrevious, objects[0].RawIndex.Kind)
}

func TestDecodeMetadataScalerIndex(t *testing.T) {
	meta := objectList(
		rootObject(),
		channelObject("/'Group'/'Channel1'", 4, []uint32{7},
			scalerEntry(1, 0, 0, 0),
			scalerEntry(3, 0, 1, 1),
			scalerEntry(5, 0, 3, 2)),
	)
	objects, err := DecodeMetadata(meta, binary.LittleEndian)
	require.NoError(t, err)
	require.Len(t, objects, 2)

	require.Equal(t, IndexScaler, objects[1].RawIndex.Kind)
	idx := objects[1].RawIndex.Scaler
	require.NotNil(t, idx)
	assert.Equal(t, uint64(4), idx.NumberOfValues)
	assert.Equal(t, []uint32{7}, idx.RawBufferWidths)
	require.Len(t, idx.Scalers, 3)
	assert.Equal(t, KindInt8, idx.Scalers[0].RawType.Kind)
	assert.Equal(t, KindInt16, idx.Scalers[1].RawType.Kind)
	assert.Equal(t, KindInt32, idx.Scalers[2].RawType.Kind)
	assert.Equal(t, uint32(3), idx.Scalers[2].ByteOffset)
	assert.Equal(t, uint32(2), idx.Scalers[2].ScaleID)
}

func TestDecodeMetadataBigEndian(t *testing.T) {
	meta := mustBytesFromHex(
		"00000001" + // one object
			"00000001 2F" + // path "/"
			"FFFFFFFF" + // no raw data
			"00000000") // no properties
	objects, err := DecodeMetadata(meta, binary.BigEndian)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "/", objects[0].Path)
	assert.Equal(t, IndexAbsent, objects[0].RawIndex.Kind)
}

func TestDecodeMetadataTruncated(t *testing.T) {
	meta := objectList(rootObject(), groupObject())
	for cut := 1; cut < len(meta); cut += 3 {
		_, err := DecodeMetadata(meta[:len(meta)-cut], binary.LittleEndian)
		require.Error(t, err, "cut of %d bytes must not decode", cut)
		var trunc daqxerrors.TruncatedMetadata
		require.ErrorAs(t, err, &trunc)
	}
}

func TestDecodeMetadataProperties(t *testing.T) {
	props := cat(
		str("NI_ChannelName"), u32(propTypeString), str("thermocouple0"),
		str("wf_increment"), u32(propTypeFloat64), mustBytesFromHex("0000000000E08F40"), // 1020.0
		str("wf_samples"), u32(propTypeInt32), u32(250),
		str("is_scaled"), u32(propTypeBool), []byte{0x01},
	)
	meta := objectList(cat(str("/'Group'/'Channel1'"), u32(rawIndexNoData), u32(4), props))

	objects, err := DecodeMetadata(meta, binary.LittleEndian)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	require.Len(t, objects[0].Properties, 4)

	assert.Equal(t, Property{Name: "NI_ChannelName", Type: propTypeString, Value: "thermocouple0"}, objects[0].Properties[0])
	assert.Equal(t, 1020.0, objects[0].Properties[1].Value)
	assert.Equal(t, int32(250), objects[0].Properties[2].Value)
	assert.Equal(t, true, objects[0].Properties[3].Value)
}

func TestDecodeMetadataTimestampProperty(t *testing.T) {
	// 2^63 fractions is half a second; seconds count from 1904-01-01.
	value := cat(u64(1<<63), u64(3600))
	meta := objectList(cat(str("/"), u32(rawIndexNoData), u32(1),
		str("wf_start_time"), u32(propTypeTimestamp), value))

	objects, err := DecodeMetadata(meta, binary.LittleEndian)
	require.NoError(t, err)
	ts, ok := objects[0].Properties[0].Value.(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.Date(1904, time.January, 1, 1, 0, 0, 500000000, time.UTC), ts)
}

func TestDecodeMetadataUnknownPropertyType(t *testing.T) {
	meta := objectList(cat(str("/"), u32(rawIndexNoData), u32(1),
		str("mystery"), u32(0x77), u32(0)))

	_, err := DecodeMetadata(meta, binary.LittleEndian)
	var unknown daqxerrors.UnknownPropertyType
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "mystery", unknown.Name)
	assert.Equal(t, uint32(0x77), unknown.TypeID)
}
