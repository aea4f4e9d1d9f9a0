// Package daqx reads segmented data-acquisition log containers and
// reconstructs typed numeric channel arrays from their raw data, including
// the format-changing scaler mode where several differently-typed fields
// share fixed-stride interleaved records.
package daqx

import (
	"github.com/heyvito/daqx/internal/metrics"
)

// SegmentData is the decoded result of one segment: the object list as
// declared by the metadata block, plus one sample sequence per scaler fed by
// the raw data region. Objects with index encodings this package does not
// interpret are passed through untouched under IndexOpaque.
type SegmentData struct {
	Flags   SegmentFlags
	Objects []ObjectMetadata
	Series  map[ScalerKey]Series
}

// DecodeSegment decodes one segment from its flags, metadata block, and raw
// data region, for callers that do their own segment-offset bookkeeping.
//
// Objects whose raw-data index reuses an earlier segment's declaration are
// returned with IndexMatchesPrevious but contribute no series here, as the
// predecessor is not available; Open resolves those across a whole file.
func DecodeSegment(flags SegmentFlags, meta, raw []byte, config Config) (*SegmentData, error) {
	metrics.Simple(metrics.DecodeSegmentCalls, 1)
	done := metrics.Measure(metrics.DecodeSegmentLatency)
	defer done()

	out := &SegmentData{Flags: flags, Series: map[ScalerKey]Series{}}

	if flags.HasMetaData && len(meta) > 0 {
		objects, err := DecodeMetadata(meta, flags.ByteOrder())
		if err != nil {
			metrics.Simple(metrics.DecodeSegmentFailures, 1)
			return nil, err
		}
		out.Objects = objects
		metrics.Simple(metrics.DecodeObjects, float64(len(objects)))
	}

	if !flags.DAQmxRawData || !flags.HasRawData {
		return out, nil
	}

	layout, err := BuildLayout(out.Objects)
	if err != nil {
		metrics.Simple(metrics.DecodeSegmentFailures, 1)
		return nil, err
	}

	series, err := Extract(layout, raw, flags.ByteOrder(), config.GetWorkers())
	if err != nil {
		metrics.Simple(metrics.DecodeSegmentFailures, 1)
		return nil, err
	}
	out.Series = series

	config.GetLogger().Debug("Segment decoded",
		"objects", len(out.Objects),
		"scalers", len(out.Series),
		"rawBytes", len(raw),
	)
	return out, nil
}
