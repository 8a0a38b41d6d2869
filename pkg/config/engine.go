package config

import (
	"github.com/imdj360/xsltdbg/pkg/dbgengine"
	"github.com/imdj360/xsltdbg/pkg/tracelog"
)

// engineLogLevels maps the YAML-friendly LogLevel enum to dbgengine's.
var engineLogLevels = map[LogLevel]dbgengine.LogLevel{
	LogNone:     dbgengine.LogNone,
	LogLog:      dbgengine.LogLog,
	LogTrace:    dbgengine.LogTrace,
	LogTraceAll: dbgengine.LogTraceAll,
}

// ToEngineOptions converts a parsed launch-options document into the
// dbgengine.Options Engine.Start expects. trace may be nil.
func (o *LaunchOptions) ToEngineOptions(trace *tracelog.Writer) dbgengine.Options {
	return dbgengine.Options{
		StylesheetPath:      o.StylesheetPath,
		InputPath:           o.InputPath,
		OutputPath:          o.OutputPath,
		Engine:              o.Engine,
		StopOnEntry:         o.StopOnEntry,
		LogLevel:            engineLogLevels[o.LogLevel],
		InstrumentFunctions: o.InstrumentFunctions,
		Trace:               trace,
	}
}
