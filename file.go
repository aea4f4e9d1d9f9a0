package daqx

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/go-stdlog/stdlog"
	"github.com/heyvito/gommap"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/heyvito/daqx/errors"
	"github.com/heyvito/daqx/internal"
	"github.com/heyvito/daqx/internal/metrics"
)

// File is a fully decoded container file. Scaler sequences are concatenated
// across segments in file order; all accessors are safe for concurrent use
// once Open returns.
type File interface {
	// Objects returns every object declared by the file, in order of first
	// appearance. Objects whose raw-data index this package does not
	// interpret carry their undecoded index payload under IndexOpaque.
	Objects() []ObjectMetadata

	// Scalers returns every (path, scale id) pair with decoded data, sorted
	// by path then scale id.
	Scalers() []ScalerKey

	// ScalerData returns the full sample sequence of one scaler. Returns a
	// NoSuchScaler error when the pair has no decoded data.
	ScalerData(path string, scaleID uint32) (Series, error)

	// Close releases the underlying descriptor. Series returned earlier
	// stay valid, as they hold copies of the decoded samples.
	Close() error
}

// Open maps path read-only and decodes every segment in it.
func Open(path string, config Config) (File, error) {
	log := config.GetLogger()
	metrics.Simple(metrics.FileOpenCalls, 1)
	done := metrics.Measure(metrics.FileOpenLatency)
	defer done()

	fd, err := os.Open(path)
	if err != nil {
		metrics.Simple(metrics.FileOpenFailures, 1)
		return nil, err
	}
	stat, err := fd.Stat()
	if err != nil {
		_ = fd.Close()
		metrics.Simple(metrics.FileOpenFailures, 1)
		return nil, err
	}
	if stat.IsDir() {
		_ = fd.Close()
		metrics.Simple(metrics.FileOpenFailures, 1)
		return nil, fmt.Errorf("%s: is a directory", path)
	}

	if vm, err := mem.VirtualMemory(); err == nil && uint64(stat.Size()) > vm.Available {
		log.Warning("File is larger than available memory, expect paging during extraction",
			"file", path,
			"size", stat.Size(),
			"available", vm.Available,
		)
	}

	f := &file{
		path:   path,
		fd:     fd,
		log:    log.Named("file"),
		config: config,
	}

	if stat.Size() > 0 {
		f.data, err = gommap.Map(fd.Fd(), gommap.PROT_READ, gommap.MAP_SHARED)
		if err != nil {
			_ = fd.Close()
			metrics.Simple(metrics.FileOpenFailures, 1)
			return nil, err
		}
		metrics.Simple(metrics.FileBytesMapped, float64(stat.Size()))
	}

	if err := f.load(); err != nil {
		_ = fd.Close()
		metrics.Simple(metrics.FileOpenFailures, 1)
		return nil, err
	}

	return f, nil
}

type file struct {
	path   string
	fd     *os.File
	data   gommap.MMap
	log    stdlog.Logger
	config Config

	objects  []ObjectMetadata
	objIndex map[string]int
	series   internal.AtomicMap[ScalerKey, Series]
	keys     []ScalerKey
}

// load walks the segment chain. The active object list persists across
// segments: a segment without the new-object-list flag only amends it, and a
// segment without metadata inherits it wholesale.
func (f *file) load() error {
	f.objIndex = make(map[string]int)

	var (
		active    []ObjectMetadata
		activeIdx = make(map[string]int)
		lastIndex = make(map[string]RawDataIndex)
		offset    int64
		segments  int
	)
	size := int64(len(f.data))

	for offset < size {
		if size-offset < LeadInSize {
			return errors.BadLeadIn{Offset: offset, Reason: "record cut short"}
		}
		lead, err := DecodeLeadIn(f.data[offset:offset+LeadInSize], offset)
		if err != nil {
			return err
		}
		flags := lead.Flags

		bodyStart := offset + LeadInSize
		dataStart := bodyStart + int64(lead.RawDataOffset)
		next := size
		if lead.NextSegmentOffset != NoNextSegment {
			next = bodyStart + int64(lead.NextSegmentOffset)
		}
		if dataStart > size || next > size || dataStart > next {
			return errors.BadLeadIn{Offset: offset, Reason: "offsets point past end of file"}
		}

		var decoded []ObjectMetadata
		if flags.HasMetaData && dataStart > bodyStart {
			decoded, err = DecodeMetadata(f.data[bodyStart:dataStart], flags.ByteOrder())
			if err != nil {
				return err
			}
			metrics.Simple(metrics.DecodeObjects, float64(len(decoded)))
		}

		for i := range decoded {
			obj := &decoded[i]
			switch obj.RawIndex.Kind {
			case IndexMatchesPrevious:
				prev, ok := lastIndex[obj.Path]
				if !ok {
					return errors.InconsistentChunking{
						Path:  obj.Path,
						Field: "raw-data index, reused before ever being declared",
					}
				}
				obj.RawIndex = prev
			case IndexScaler, IndexOpaque:
				lastIndex[obj.Path] = obj.RawIndex
			}
		}

		if flags.NewObjectList {
			active = slices.Clone(decoded)
			activeIdx = make(map[string]int, len(decoded))
			for i, obj := range active {
				activeIdx[obj.Path] = i
			}
		} else {
			for _, obj := range decoded {
				if i, ok := activeIdx[obj.Path]; ok {
					active[i] = obj
				} else {
					activeIdx[obj.Path] = len(active)
					active = append(active, obj)
				}
			}
		}

		for _, obj := range decoded {
			if i, ok := f.objIndex[obj.Path]; ok {
				f.objects[i] = obj
			} else {
				f.objIndex[obj.Path] = len(f.objects)
				f.objects = append(f.objects, obj)
			}
		}

		if flags.DAQmxRawData && flags.HasRawData && next > dataStart {
			layout, err := BuildLayout(active)
			if err != nil {
				return err
			}
			series, err := Extract(layout, f.data[dataStart:next], flags.ByteOrder(), f.config.GetWorkers())
			if err != nil {
				return err
			}
			for key, s := range series {
				current, _ := f.series.Load(key)
				merged, ok := appendSeries(current, s)
				if !ok {
					return errors.InconsistentChunking{Path: key.Path, Field: "raw type across segments"}
				}
				f.series.Store(key, merged)
			}
		}

		segments++
		offset = next
	}

	for key := range f.series.Range() {
		f.keys = append(f.keys, key)
	}
	slices.SortFunc(f.keys, func(a, b ScalerKey) int {
		if c := strings.Compare(a.Path, b.Path); c != 0 {
			return c
		}
		return int(a.ScaleID) - int(b.ScaleID)
	})

	metrics.Simple(metrics.FileSegmentsLoaded, float64(segments))
	f.log.Debug("File loaded", "segments", segments, "objects", len(f.objects), "scalers", len(f.keys))
	return nil
}

func (f *file) Objects() []ObjectMetadata {
	return f.objects
}

func (f *file) Scalers() []ScalerKey {
	return f.keys
}

func (f *file) ScalerData(path string, scaleID uint32) (Series, error) {
	s, ok := f.series.Load(ScalerKey{Path: path, ScaleID: scaleID})
	if !ok {
		return nil, errors.NoSuchScaler{Path: path, ScaleID: scaleID}
	}
	return s, nil
}

func (f *file) Close() error {
	return f.fd.Close()
}
