package errors

import "fmt"

// BadLeadIn indicates that a segment lead-in could not be decoded, either
// because the tag bytes did not match or because the record was cut short.
type BadLeadIn struct {
	Offset int64
	Reason string
}

func (b BadLeadIn) Error() string {
	return fmt.Sprintf("bad segment lead-in at offset %d: %s", b.Offset, b.Reason)
}

// TruncatedMetadata indicates that a fixed-size read inside the metadata
// block would have run past the end of the supplied buffer. Path holds the
// last object path successfully read, if any.
type TruncatedMetadata struct {
	Path   string
	Offset int
}

func (t TruncatedMetadata) Error() string {
	if t.Path == "" {
		return fmt.Sprintf("metadata block truncated at byte %d", t.Offset)
	}
	return fmt.Sprintf("metadata block truncated at byte %d while reading object %q", t.Offset, t.Path)
}

// TruncatedScalerIndex indicates that a scaler raw-data index ended before
// its fixed shape was fully read. The owning object is unreadable, as a
// mis-parsed count would desynchronize every subsequent read in the segment.
type TruncatedScalerIndex struct {
	Path string
}

func (t TruncatedScalerIndex) Error() string {
	return fmt.Sprintf("scaler raw-data index for %q is truncated", t.Path)
}

// UnsupportedDimension indicates a scaler raw-data index declaring an array
// dimension other than 1.
type UnsupportedDimension struct {
	Path      string
	Dimension uint32
}

func (u UnsupportedDimension) Error() string {
	return fmt.Sprintf("object %q declares array dimension %d, expected 1", u.Path, u.Dimension)
}

// UnknownRawTypeID indicates a scaler descriptor using a raw type id that is
// not present in the numeric type table.
type UnknownRawTypeID struct {
	Path   string
	TypeID uint32
}

func (u UnknownRawTypeID) Error() string {
	return fmt.Sprintf("object %q uses unknown raw type id %d", u.Path, u.TypeID)
}

// InconsistentChunking indicates that two objects sharing a segment's raw
// buffers disagree on a value both are required to agree on. Field names the
// disagreeing quantity.
type InconsistentChunking struct {
	Path  string
	Field string
}

func (i InconsistentChunking) Error() string {
	return fmt.Sprintf("object %q disagrees with its segment on %s", i.Path, i.Field)
}

// DuplicateScaleID indicates two scaler descriptors within one object
// claiming the same scale id.
type DuplicateScaleID struct {
	Path    string
	ScaleID uint32
}

func (d DuplicateScaleID) Error() string {
	return fmt.Sprintf("object %q declares scale id %d more than once", d.Path, d.ScaleID)
}

// ScalerOutOfBounds indicates a scaler descriptor whose field does not fit
// inside its raw buffer's declared record width, or that addresses a raw
// buffer the segment does not declare.
type ScalerOutOfBounds struct {
	Path        string
	ScaleID     uint32
	Buffer      uint32
	End         uint64
	BufferWidth uint32
}

func (s ScalerOutOfBounds) Error() string {
	return fmt.Sprintf("scaler %d of object %q needs %d bytes of raw buffer %d, which holds %d",
		s.ScaleID, s.Path, s.End, s.Buffer, s.BufferWidth)
}

// MalformedChunkSize indicates that a segment's raw data region is not an
// integer number of chunks long, or that the declared chunk geometry is too
// large to address at all. DataLength is zero in the latter case, as no raw
// data has been looked at yet.
type MalformedChunkSize struct {
	DataLength int
	ChunkBytes uint64
}

func (m MalformedChunkSize) Error() string {
	if m.DataLength == 0 {
		return fmt.Sprintf("declared chunk geometry of %d bytes per chunk cannot be addressed", m.ChunkBytes)
	}
	return fmt.Sprintf("raw data region of %d bytes is not a whole number of %d-byte chunks", m.DataLength, m.ChunkBytes)
}

// UnknownPropertyType indicates a property whose value type is not known to
// the decoder. Since only string property values carry a length prefix, an
// unknown type makes the remainder of the metadata block unreadable.
type UnknownPropertyType struct {
	Path   string
	Name   string
	TypeID uint32
}

func (u UnknownPropertyType) Error() string {
	return fmt.Sprintf("property %q of object %q has unknown type id 0x%X", u.Name, u.Path, u.TypeID)
}

// NoSuchScaler indicates that a (path, scale id) pair requested from a file
// has no decoded data.
type NoSuchScaler struct {
	Path    string
	ScaleID uint32
}

func (n NoSuchScaler) Error() string {
	return fmt.Sprintf("no data for scaler %d of object %q", n.ScaleID, n.Path)
}
