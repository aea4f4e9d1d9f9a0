package daqx

import (
	"time"

	"github.com/heyvito/daqx/errors"
	"github.com/heyvito/daqx/internal"
)

// Property value type ids. This is the container's own type enumeration,
// unrelated to the raw type id scheme used by scaler descriptors.
const (
	propTypeVoid      = 0x00
	propTypeInt8      = 0x01
	propTypeInt16     = 0x02
	propTypeInt32     = 0x03
	propTypeInt64     = 0x04
	propTypeUint8     = 0x05
	propTypeUint16    = 0x06
	propTypeUint32    = 0x07
	propTypeUint64    = 0x08
	propTypeFloat32   = 0x09
	propTypeFloat64   = 0x0A
	propTypeString    = 0x20
	propTypeBool      = 0x21
	propTypeTimestamp = 0x44
)

// Timestamps count seconds since 1904-01-01T00:00:00Z, with a 64-bit
// positive fraction field.
var timestampEpoch = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)

// Property is one decoded (name, typed value) pair of an object. Value holds
// the Go representation of the wire type: sized integers, floats, string,
// bool, or time.Time. Void properties carry a nil Value.
type Property struct {
	Name  string
	Type  uint32
	Value any
}

// decodeProperties reads count properties. Property values are not
// length-prefixed (strings aside), so an unknown value type makes the rest
// of the metadata block unreadable and fails the whole decode.
func decodeProperties(cur *internal.Cursor, path string, count uint32) ([]Property, error) {
	if count == 0 {
		return nil, nil
	}
	props := make([]Property, 0, count)
	for i := uint32(0); i < count; i++ {
		name, err := cur.String()
		if err != nil {
			return nil, errors.TruncatedMetadata{Path: path, Offset: cur.Offset()}
		}
		typ, err := cur.U32()
		if err != nil {
			return nil, errors.TruncatedMetadata{Path: path, Offset: cur.Offset()}
		}
		value, err := decodePropertyValue(cur, typ)
		if err != nil {
			if _, ok := err.(errors.UnknownPropertyType); ok {
				return nil, errors.UnknownPropertyType{Path: path, Name: name, TypeID: typ}
			}
			return nil, errors.TruncatedMetadata{Path: path, Offset: cur.Offset()}
		}
		props = append(props, Property{Name: name, Type: typ, Value: value})
	}
	return props, nil
}

func decodePropertyValue(cur *internal.Cursor, typ uint32) (any, error) {
	switch typ {
	case propTypeVoid:
		return nil, nil
	case propTypeInt8:
		return cur.I8()
	case propTypeInt16:
		return cur.I16()
	case propTypeInt32:
		return cur.I32()
	case propTypeInt64:
		return cur.I64()
	case propTypeUint8:
		return cur.U8()
	case propTypeUint16:
		return cur.U16()
	case propTypeUint32:
		return cur.U32()
	case propTypeUint64:
		return cur.U64()
	case propTypeFloat32:
		return cur.F32()
	case propTypeFloat64:
		return cur.F64()
	case propTypeString:
		return cur.String()
	case propTypeBool:
		v, err := cur.U8()
		return v != 0, err
	case propTypeTimestamp:
		frac, err := cur.U64()
		if err != nil {
			return nil, err
		}
		secs, err := cur.I64()
		if err != nil {
			return nil, err
		}
		ns := int64(float64(frac) / (1 << 63) / 2 * 1e9)
		return timestampEpoch.Add(time.Duration(secs)*time.Second + time.Duration(ns)), nil
	}
	return nil, errors.UnknownPropertyType{TypeID: typ}
}
