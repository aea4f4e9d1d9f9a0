package daqx

import (
	"github.com/heyvito/daqx/errors"
	"github.com/heyvito/daqx/internal"
)

// SampleKind identifies the in-memory numeric type of one scaler's samples.
type SampleKind uint8

const (
	KindInt8 SampleKind = iota
	KindUint16
	KindInt16
	KindUint32
	KindInt32
)

func (k SampleKind) String() string {
	switch k {
	case KindInt8:
		return "int8"
	case KindUint16:
		return "uint16"
	case KindInt16:
		return "int16"
	case KindUint32:
		return "uint32"
	case KindInt32:
		return "int32"
	}
	return "invalid"
}

// RawType maps a raw type id from scaler metadata to a numeric type and
// width. The id scheme is narrower than the container's own type
// enumeration and does not match it.
type RawType struct {
	ID     uint32
	Kind   SampleKind
	Width  uint32
	Signed bool
}

// rawTypes is the registry of known raw type ids. Ids outside it fail with
// UnknownRawTypeID; extending support is a matter of adding an entry here
// and a matching case to extractScaler.
var rawTypes = map[uint32]RawType{
	1: {ID: 1, Kind: KindInt8, Width: 1, Signed: true},
	2: {ID: 2, Kind: KindUint16, Width: 2},
	3: {ID: 3, Kind: KindInt16, Width: 2, Signed: true},
	4: {ID: 4, Kind: KindUint32, Width: 4},
	5: {ID: 5, Kind: KindInt32, Width: 4, Signed: true},
}

// RawTypeByID looks up a raw type id in the registry.
func RawTypeByID(id uint32) (RawType, bool) {
	t, ok := rawTypes[id]
	return t, ok
}

// ScalerDescriptor declares one physical field inside a raw buffer record:
// where its bytes live, how to read them, and which output stream they feed.
type ScalerDescriptor struct {
	RawType        RawType
	RawBufferIndex uint32
	ByteOffset     uint32

	// SampleFormatBitmap is preserved verbatim; its semantics are not
	// documented and it is never interpreted.
	SampleFormatBitmap uint32

	ScaleID uint32
}

// ScalerRawDataIndex is the scaler-mode raw-data index of one object: how
// many samples each scaler contributes per chunk, the scaler descriptors,
// and the record stride of every raw buffer in the segment.
type ScalerRawDataIndex struct {
	NumberOfValues  uint64
	Scalers         []ScalerDescriptor
	RawBufferWidths []uint32
}

// scalerDescriptorSize is the wire size of one descriptor: five u32 fields.
const scalerDescriptorSize = 20

// Raw-data index markers. Any other marker value is the byte length of an
// opaque index payload that follows it.
const (
	rawIndexNoData         = 0xFFFFFFFF
	rawIndexScaler         = 0x00001269
	rawIndexMatchesPrev    = 0x00000000
	scalerDataTypeSentinel = 0xFFFFFFFF
)

// decodeScalerIndex decodes the scaler-mode payload following the marker.
// Truncation anywhere inside this fixed-shape record is a hard error for the
// owning object: a mis-parsed count would desynchronize every subsequent
// read in the segment.
func decodeScalerIndex(cur *internal.Cursor, path string) (*ScalerRawDataIndex, error) {
	// Data type sentinel, present for symmetry with non-scaler indexes.
	if _, err := cur.U32(); err != nil {
		return nil, errors.TruncatedScalerIndex{Path: path}
	}
	dim, err := cur.U32()
	if err != nil {
		return nil, errors.TruncatedScalerIndex{Path: path}
	}
	if dim != 1 {
		return nil, errors.UnsupportedDimension{Path: path, Dimension: dim}
	}

	idx := &ScalerRawDataIndex{}
	if idx.NumberOfValues, err = cur.U64(); err != nil {
		return nil, errors.TruncatedScalerIndex{Path: path}
	}

	scalerCount, err := cur.U32()
	if err != nil {
		return nil, errors.TruncatedScalerIndex{Path: path}
	}
	if cur.Remaining() < int(scalerCount)*scalerDescriptorSize {
		return nil, errors.TruncatedScalerIndex{Path: path}
	}
	idx.Scalers = make([]ScalerDescriptor, 0, scalerCount)
	for i := uint32(0); i < scalerCount; i++ {
		var raw [5]uint32
		for j := range raw {
			if raw[j], err = cur.U32(); err != nil {
				return nil, errors.TruncatedScalerIndex{Path: path}
			}
		}
		typ, ok := RawTypeByID(raw[0])
		if !ok {
			return nil, errors.UnknownRawTypeID{Path: path, TypeID: raw[0]}
		}
		idx.Scalers = append(idx.Scalers, ScalerDescriptor{
			RawType:            typ,
			RawBufferIndex:     raw[1],
			ByteOffset:         raw[2],
			SampleFormatBitmap: raw[3],
			ScaleID:            raw[4],
		})
	}

	widthCount, err := cur.U32()
	if err != nil {
		return nil, errors.TruncatedScalerIndex{Path: path}
	}
	if cur.Remaining() < int(widthCount)*4 {
		return nil, errors.TruncatedScalerIndex{Path: path}
	}
	idx.RawBufferWidths = make([]uint32, widthCount)
	for i := range idx.RawBufferWidths {
		if idx.RawBufferWidths[i], err = cur.U32(); err != nil {
			return nil, errors.TruncatedScalerIndex{Path: path}
		}
	}

	return idx, nil
}
