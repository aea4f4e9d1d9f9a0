package daqx

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustBytesFromHex(s string) []byte {
	s = strings.ReplaceAll(s, " ", "")
	v, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func u32(vs ...uint32) []byte {
	out := make([]byte, 4*len(vs))
	for i, v := range vs {
		binary.LittleEndian.PutUint32(out[i*4:], v)
	}
	return out
}

func u64(v uint64) []byte {
	out := make([]byte, 8)
	binary.LittleEndian.PutUint64(out, v)
	return out
}

func str(s string) []byte {
	return cat(u32(uint32(len(s))), []byte(s))
}

func cat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

// objectList prefixes the object count, forming a whole metadata block.
func objectList(objects ...[]byte) []byte {
	return cat(append([][]byte{u32(uint32(len(objects)))}, objects...)...)
}

func rootObject() []byte {
	return cat(str("/"), u32(rawIndexNoData), u32(0))
}

func groupObject() []byte {
	return cat(str("/'Group'"), u32(rawIndexNoData), u32(0))
}

func scalerEntry(typeID, bufferIndex, byteOffset, scaleID uint32) []byte {
	return u32(typeID, bufferIndex, byteOffset, 0, scaleID)
}

// channelObject assembles one scaler-mode object record the way an acquiring
// writer would: scaler-mode marker, data type sentinel, dimension 1, chunk
// size, scaler descriptors, buffer widths, and an empty property list.
func channelObject(path string, numValues uint64, widths []uint32, scalers ...[]byte) []byte {
	parts := [][]byte{
		str(path),
		u32(rawIndexScaler),
		u32(scalerDataTypeSentinel),
		u32(1),
		u64(numValues),
		u32(uint32(len(scalers))),
	}
	parts = append(parts, scalers...)
	parts = append(parts, u32(uint32(len(widths))), u32(widths...))
	parts = append(parts, u32(0))
	return cat(parts...)
}

func daqmxFlags() SegmentFlags {
	return SegmentFlags{
		HasMetaData:   true,
		NewObjectList: true,
		HasRawData:    true,
		DAQmxRawData:  true,
	}
}

func segmentBytes(flags SegmentFlags, meta, raw []byte) []byte {
	lead := cat(
		[]byte("TDSm"),
		u32(flags.mask()),
		u32(4713),
		u64(uint64(len(meta)+len(raw))),
		u64(uint64(len(meta))),
	)
	return cat(lead, meta, raw)
}

func writeTestFile(t *testing.T, segments ...[]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "acq.tdx")
	err := os.WriteFile(path, cat(segments...), 0644)
	require.NoError(t, err)
	return path
}

// singleChannelSegment is the simplest complete segment: root, group, and
// one scaler-mode channel over one raw buffer.
func singleChannelSegment(typeID, width uint32, numValues uint64, raw []byte) []byte {
	meta := objectList(
		rootObject(),
		groupObject(),
		channelObject("/'Group'/'Channel1'", numValues, []uint32{width},
			scalerEntry(typeID, 0, 0, 0)),
	)
	return segmentBytes(daqmxFlags(), meta, raw)
}
