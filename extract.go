package daqx

import (
	"encoding/binary"
	"sync"

	"golang.org/x/exp/constraints"

	"github.com/heyvito/daqx/errors"
	"github.com/heyvito/daqx/internal/metrics"
)

// Extract walks a segment layout against the segment's raw data region and
// produces one typed sample sequence per scaler. Raw data is chunk-major:
// within a chunk, each buffer contributes NumberOfValues consecutive
// fixed-width records before the next buffer's span begins.
//
// Either every sequence is correct, or an error and no sequences are
// returned. Workers bounds intra-segment parallelism; output is identical
// for any worker count.
func Extract(layout *SegmentLayout, raw []byte, order binary.ByteOrder, workers int) (map[ScalerKey]Series, error) {
	out := make(map[ScalerKey]Series)
	if layout == nil {
		return out, nil
	}
	done := metrics.Measure(metrics.ExtractLatency)
	defer done()

	cb := layout.chunkBytes
	if cb == 0 {
		if len(raw) != 0 {
			return nil, errors.MalformedChunkSize{DataLength: len(raw), ChunkBytes: uint64(cb)}
		}
		return out, nil
	}
	if len(raw)%cb != 0 {
		return nil, errors.MalformedChunkSize{DataLength: len(raw), ChunkBytes: uint64(cb)}
	}
	numChunks := len(raw) / cb

	for _, buf := range layout.Buffers {
		for _, f := range buf.Fields {
			series, err := extractScaler(raw, layout, numChunks, f, order, workers)
			if err != nil {
				return nil, err
			}
			metrics.Simple(metrics.ExtractSamples, float64(series.Len()))
			out[f.Key] = series
		}
	}
	return out, nil
}

func extractScaler(raw []byte, l *SegmentLayout, numChunks int, f LayoutField, order binary.ByteOrder, workers int) (Series, error) {
	switch f.Type.Kind {
	case KindInt8:
		data := extractField(raw, l, numChunks, f, workers, func(b []byte) int8 { return int8(b[0]) })
		return newSamples(f.Type, data), nil
	case KindUint16:
		data := extractField(raw, l, numChunks, f, workers, order.Uint16)
		return newSamples(f.Type, data), nil
	case KindInt16:
		data := extractField(raw, l, numChunks, f, workers, func(b []byte) int16 { return int16(order.Uint16(b)) })
		return newSamples(f.Type, data), nil
	case KindUint32:
		data := extractField(raw, l, numChunks, f, workers, order.Uint32)
		return newSamples(f.Type, data), nil
	case KindInt32:
		data := extractField(raw, l, numChunks, f, workers, func(b []byte) int32 { return int32(order.Uint32(b)) })
		return newSamples(f.Type, data), nil
	}
	return nil, errors.UnknownRawTypeID{Path: f.Key.Path, TypeID: f.Type.ID}
}

// extractField reads one sample per record for a single field. Workers each
// own a contiguous chunk range and write disjoint regions of the
// preallocated output, which keeps the sequence in file order without any
// merge step.
func extractField[T constraints.Integer](raw []byte, l *SegmentLayout, numChunks int, f LayoutField, workers int, read func([]byte) T) []T {
	nv := int(l.NumberOfValues)
	out := make([]T, nv*numChunks)
	span := l.spanOffsets[f.Buffer]
	stride := int(l.Buffers[f.Buffer].Width)
	fieldOff := int(f.Offset)
	width := int(f.Type.Width)

	fill := func(lo, hi int) {
		for c := lo; c < hi; c++ {
			base := c*l.chunkBytes + span + fieldOff
			oi := c * nv
			for r := 0; r < nv; r++ {
				off := base + r*stride
				out[oi+r] = read(raw[off : off+width])
			}
		}
	}

	if workers > numChunks {
		workers = numChunks
	}
	if workers <= 1 {
		fill(0, numChunks)
		return out
	}

	per := (numChunks + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < numChunks; lo += per {
		hi := min(lo+per, numChunks)
		wg.Add(1)
		go func() {
			defer wg.Done()
			fill(lo, hi)
		}()
	}
	wg.Wait()
	return out
}
