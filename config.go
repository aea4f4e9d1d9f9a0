package daqx

import (
	"runtime"

	"github.com/go-stdlog/stdlog"
)

type Config struct {
	// Workers defines how many goroutines may extract scaler samples in
	// parallel within one segment. Values below 1 select one worker per
	// available CPU. Extraction output is deterministic regardless of this
	// value, as each worker owns a contiguous chunk range.
	Workers int

	// Logger allows a given stdlog.Logger instance to be set as the system
	// logger. If unset, no logs will be generated.
	Logger stdlog.Logger
}

func (c Config) GetWorkers() int {
	if c.Workers < 1 {
		return runtime.NumCPU()
	}
	return c.Workers
}

func (c Config) GetLogger() stdlog.Logger {
	if c.Logger != nil {
		return c.Logger.Named("daqx")
	}
	return stdlog.Discard
}
