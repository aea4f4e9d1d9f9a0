package daqx

import (
	"math"
	"slices"
	"sort"

	"github.com/heyvito/daqx/errors"
)

// ScalerKey identifies one output sequence: the owning object's path plus
// the scale id of the descriptor feeding it. Scale ids are map keys, never
// array positions; the format does not guarantee contiguity.
type ScalerKey struct {
	Path    string
	ScaleID uint32
}

// LayoutField places one scaler inside one raw buffer's record.
type LayoutField struct {
	Key    ScalerKey
	Buffer uint32
	Offset uint32
	Type   RawType
}

// BufferLayout describes one raw buffer: its record stride and the fields
// read out of each record, sorted by offset for locality.
type BufferLayout struct {
	Width  uint32
	Fields []LayoutField
}

// SegmentLayout is the derived read plan for one segment's raw data region.
// It is a pure function of the segment's metadata, computed once and reused
// across every chunk.
type SegmentLayout struct {
	NumberOfValues uint64
	Buffers        []BufferLayout

	// chunkBytes is the byte length of one chunk across all buffers;
	// spanOffsets[b] is the byte offset of buffer b's span within a chunk.
	chunkBytes  int
	spanOffsets []int
}

// ChunkBytes returns the byte length of one chunk: every buffer's span of
// NumberOfValues records, laid end to end.
func (l *SegmentLayout) ChunkBytes() int { return l.chunkBytes }

// Fields returns every field of the layout across all buffers.
func (l *SegmentLayout) Fields() []LayoutField {
	var fields []LayoutField
	for _, b := range l.Buffers {
		fields = append(fields, b.Fields...)
	}
	return fields
}

// BuildLayout computes the raw buffer layout shared by every scaler-mode
// object in objects. All participating objects must agree on the chunk size
// and the buffer width vector, since they share physical buffers. Returns
// nil when no object uses the scaler mode.
func BuildLayout(objects []ObjectMetadata) (*SegmentLayout, error) {
	var (
		layout *SegmentLayout
		widths []uint32
	)

	for _, obj := range objects {
		if obj.RawIndex.Kind != IndexScaler {
			continue
		}
		idx := obj.RawIndex.Scaler

		if layout == nil {
			widths = idx.RawBufferWidths
			layout = &SegmentLayout{
				NumberOfValues: idx.NumberOfValues,
				Buffers:        make([]BufferLayout, len(widths)),
			}
			for i, w := range widths {
				layout.Buffers[i].Width = w
			}
		} else {
			if idx.NumberOfValues != layout.NumberOfValues {
				return nil, errors.InconsistentChunking{Path: obj.Path, Field: "numberOfValues"}
			}
			if !slices.Equal(idx.RawBufferWidths, widths) {
				return nil, errors.InconsistentChunking{Path: obj.Path, Field: "rawBufferWidths"}
			}
		}

		seen := make(map[uint32]struct{}, len(idx.Scalers))
		for _, sc := range idx.Scalers {
			if _, dup := seen[sc.ScaleID]; dup {
				return nil, errors.DuplicateScaleID{Path: obj.Path, ScaleID: sc.ScaleID}
			}
			seen[sc.ScaleID] = struct{}{}

			// The sum must not be computed in uint32: a descriptor with an
			// offset near the top of the range would wrap it back inside
			// the buffer.
			end := uint64(sc.ByteOffset) + uint64(sc.RawType.Width)
			if sc.RawBufferIndex >= uint32(len(widths)) {
				return nil, errors.ScalerOutOfBounds{
					Path: obj.Path, ScaleID: sc.ScaleID,
					Buffer: sc.RawBufferIndex, End: end,
				}
			}
			if end > uint64(widths[sc.RawBufferIndex]) {
				return nil, errors.ScalerOutOfBounds{
					Path: obj.Path, ScaleID: sc.ScaleID,
					Buffer: sc.RawBufferIndex, End: end,
					BufferWidth: widths[sc.RawBufferIndex],
				}
			}

			buf := &layout.Buffers[sc.RawBufferIndex]
			buf.Fields = append(buf.Fields, LayoutField{
				Key:    ScalerKey{Path: obj.Path, ScaleID: sc.ScaleID},
				Buffer: sc.RawBufferIndex,
				Offset: sc.ByteOffset,
				Type:   sc.RawType,
			})
		}
	}

	if layout == nil {
		return nil, nil
	}

	for b := range layout.Buffers {
		sort.SliceStable(layout.Buffers[b].Fields, func(i, j int) bool {
			return layout.Buffers[b].Fields[i].Offset < layout.Buffers[b].Fields[j].Offset
		})
	}

	// Span arithmetic stays in uint64 so hostile metadata cannot wrap the
	// native int; a chunk that cannot fit in memory is rejected outright.
	layout.spanOffsets = make([]int, len(layout.Buffers))
	var total uint64
	for b, buf := range layout.Buffers {
		span := uint64(buf.Width) * layout.NumberOfValues
		if layout.NumberOfValues != 0 && span/layout.NumberOfValues != uint64(buf.Width) {
			return nil, errors.MalformedChunkSize{ChunkBytes: math.MaxUint64}
		}
		layout.spanOffsets[b] = int(total)
		total += span
		if total < span || total > math.MaxInt {
			return nil, errors.MalformedChunkSize{ChunkBytes: total}
		}
	}
	layout.chunkBytes = int(total)

	return layout, nil
}
