package metrics

import (
	"sync/atomic"

	"github.com/heyvito/daqx/internal/metrics"
)

var hasDelegate atomic.Bool

// InstallDelegate registers del as the process-wide sink for decode
// instrumentation. Only the first call has any effect.
func InstallDelegate(del *Delegates) {
	if hasDelegate.Swap(true) {
		return
	}
	go metrics.Dispatch(del)
}

type Delegates struct {
	File    FileInstrumentationDelegate
	Decoder DecoderInstrumentationDelegate
	Extract ExtractInstrumentationDelegate
}

func (d *Delegates) Dispatch(kind metrics.MetricKind, value float64) {
	switch kind {
	case metrics.FileOpenCalls:
		d.File.OpenCalls(value)
	case metrics.FileOpenLatency:
		d.File.OpenLatency(value)
	case metrics.FileOpenFailures:
		d.File.OpenFailures(value)
	case metrics.FileBytesMapped:
		d.File.BytesMapped(value)
	case metrics.FileSegmentsLoaded:
		d.File.SegmentsLoaded(value)
	case metrics.DecodeSegmentCalls:
		d.Decoder.SegmentCalls(value)
	case metrics.DecodeSegmentLatency:
		d.Decoder.SegmentLatency(value)
	case metrics.DecodeSegmentFailures:
		d.Decoder.SegmentFailures(value)
	case metrics.DecodeObjects:
		d.Decoder.ObjectsDecoded(value)
	case metrics.ExtractSamples:
		d.Extract.SamplesExtracted(value)
	case metrics.ExtractLatency:
		d.Extract.Latency(value)
	}
}

type FileInstrumentationDelegate interface {
	OpenCalls(float64)
	OpenLatency(float64)
	OpenFailures(float64)
	BytesMapped(float64)
	SegmentsLoaded(float64)
}

type DecoderInstrumentationDelegate interface {
	SegmentCalls(float64)
	SegmentLatency(float64)
	SegmentFailures(float64)
	ObjectsDecoded(float64)
}

type ExtractInstrumentationDelegate interface {
	SamplesExtracted(float64)
	Latency(float64)
}
