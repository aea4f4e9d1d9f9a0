package daqx

import (
	"encoding/binary"

	"github.com/heyvito/daqx/errors"
	"github.com/heyvito/daqx/internal"
)

// RawDataIndexKind tags the variant of an object's raw-data index. The wire
// marker fully determines the payload shape, so the index is a tagged value
// rather than a hierarchy.
type RawDataIndexKind uint8

const (
	// IndexAbsent means the object carries no raw data in this segment.
	IndexAbsent RawDataIndexKind = iota

	// IndexScaler means the object's raw data uses the scaler mode, and
	// Scaler holds its decoded index.
	IndexScaler

	// IndexOpaque means the object uses an index encoding this package does
	// not interpret. Opaque holds the undecoded payload for the caller.
	IndexOpaque

	// IndexMatchesPrevious means the object reuses the raw-data index it
	// declared in an earlier segment.
	IndexMatchesPrevious
)

func (k RawDataIndexKind) String() string {
	switch k {
	case IndexAbsent:
		return "absent"
	case IndexScaler:
		return "scaler"
	case IndexOpaque:
		return "opaque"
	case IndexMatchesPrevious:
		return "matches-previous"
	}
	return "invalid"
}

type RawDataIndex struct {
	Kind   RawDataIndexKind
	Scaler *ScalerRawDataIndex
	Opaque []byte
}

// ObjectMetadata is one decoded entry of a segment's object list.
type ObjectMetadata struct {
	Path       string
	RawIndex   RawDataIndex
	Properties []Property
}

// DecodeMetadata decodes a segment's metadata block into its declared object
// list. The cursor is consumed monotonically; every declared byte length is
// honored exactly, whether or not the payload was understood, so a single
// opaque object cannot desynchronize its siblings.
func DecodeMetadata(meta []byte, order binary.ByteOrder) ([]ObjectMetadata, error) {
	cur := internal.NewCursor(meta, order)

	count, err := cur.U32()
	if err != nil {
		return nil, errors.TruncatedMetadata{Offset: cur.Offset()}
	}

	// An object is at least 12 bytes on the wire; cap the allocation so a
	// corrupt count cannot balloon it.
	objects := make([]ObjectMetadata, 0, min(int(count), cur.Remaining()/12))
	for i := uint32(0); i < count; i++ {
		path, err := cur.String()
		if err != nil {
			return nil, errors.TruncatedMetadata{Offset: cur.Offset()}
		}

		obj := ObjectMetadata{Path: path}
		marker, err := cur.U32()
		if err != nil {
			return nil, errors.TruncatedMetadata{Path: path, Offset: cur.Offset()}
		}

		switch marker {
		case rawIndexNoData:
			obj.RawIndex.Kind = IndexAbsent
		case rawIndexMatchesPrev:
			obj.RawIndex.Kind = IndexMatchesPrevious
		case rawIndexScaler:
			idx, err := decodeScalerIndex(cur, path)
			if err != nil {
				return nil, err
			}
			obj.RawIndex = RawDataIndex{Kind: IndexScaler, Scaler: idx}
		default:
			// The marker doubles as the byte length of a normal raw-data
			// index payload, which is skipped but kept for the caller.
			payload, err := cur.Bytes(int(marker))
			if err != nil {
				return nil, errors.TruncatedMetadata{Path: path, Offset: cur.Offset()}
			}
			obj.RawIndex = RawDataIndex{Kind: IndexOpaque, Opaque: payload}
		}

		propCount, err := cur.U32()
		if err != nil {
			return nil, errors.TruncatedMetadata{Path: path, Offset: cur.Offset()}
		}
		if obj.Properties, err = decodeProperties(cur, path, propCount); err != nil {
			return nil, err
		}

		objects = append(objects, obj)
	}

	return objects, nil
}
