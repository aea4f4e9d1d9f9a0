package daqx

import (
	"bytes"
	"encoding/binary"

	"github.com/heyvito/daqx/errors"
)

// LeadInSize is the fixed size of a segment lead-in record: the 4-byte tag,
// the table-of-contents mask, the version, and two 64-bit offsets.
const LeadInSize = 28

// NoNextSegment in a lead-in's NextSegmentOffset marks a segment whose
// writer died before backpatching the offset; its raw data runs to the end
// of the file.
const NoNextSegment = ^uint64(0)

var leadInTag = []byte("TDSm")

const (
	tocMetaData        = 1 << 1
	tocNewObjList      = 1 << 2
	tocRawData         = 1 << 3
	tocInterleavedData = 1 << 5
	tocBigEndian       = 1 << 6
	tocDAQmxRawData    = 1 << 7
)

// SegmentFlags is the decoded table-of-contents bitmask of one segment. It
// selects which of the remaining segment components are present and how
// their bytes are to be read.
type SegmentFlags struct {
	HasMetaData     bool
	NewObjectList   bool
	HasRawData      bool
	InterleavedData bool
	BigEndian       bool
	DAQmxRawData    bool
}

func DecodeSegmentFlags(mask uint32) SegmentFlags {
	return SegmentFlags{
		HasMetaData:     mask&tocMetaData != 0,
		NewObjectList:   mask&tocNewObjList != 0,
		HasRawData:      mask&tocRawData != 0,
		InterleavedData: mask&tocInterleavedData != 0,
		BigEndian:       mask&tocBigEndian != 0,
		DAQmxRawData:    mask&tocDAQmxRawData != 0,
	}
}

func (f SegmentFlags) mask() uint32 {
	var m uint32
	set := func(on bool, bit uint32) {
		if on {
			m |= bit
		}
	}
	set(f.HasMetaData, tocMetaData)
	set(f.NewObjectList, tocNewObjList)
	set(f.HasRawData, tocRawData)
	set(f.InterleavedData, tocInterleavedData)
	set(f.BigEndian, tocBigEndian)
	set(f.DAQmxRawData, tocDAQmxRawData)
	return m
}

// ByteOrder returns the byte order every segment component after the
// table-of-contents mask is encoded in.
func (f SegmentFlags) ByteOrder() binary.ByteOrder {
	if f.BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// LeadIn is the decoded fixed-size header of one segment. Offsets are
// relative to the end of the lead-in itself: metadata occupies the first
// RawDataOffset bytes, raw data the following NextSegmentOffset-RawDataOffset.
type LeadIn struct {
	Flags             SegmentFlags
	Version           uint32
	NextSegmentOffset uint64
	RawDataOffset     uint64
}

// DecodeLeadIn decodes one lead-in record from b. fileOffset is only used to
// report errors against the position of the segment within the whole file.
// The table-of-contents mask is always little-endian; the remaining fields
// follow the segment's own byte order.
func DecodeLeadIn(b []byte, fileOffset int64) (LeadIn, error) {
	if len(b) < LeadInSize {
		return LeadIn{}, errors.BadLeadIn{Offset: fileOffset, Reason: "record cut short"}
	}
	if !bytes.Equal(b[:4], leadInTag) {
		return LeadIn{}, errors.BadLeadIn{Offset: fileOffset, Reason: "tag mismatch"}
	}
	flags := DecodeSegmentFlags(binary.LittleEndian.Uint32(b[4:]))
	order := flags.ByteOrder()
	return LeadIn{
		Flags:             flags,
		Version:           order.Uint32(b[8:]),
		NextSegmentOffset: order.Uint64(b[12:]),
		RawDataOffset:     order.Uint64(b[20:]),
	}, nil
}
