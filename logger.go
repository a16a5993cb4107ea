package sufast

import (
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger builds the logr.Logger sufast uses for its own diagnostics
// (currently the listener bind address). It adapts the stdlib
// log.Logger through go-logr's stdr adapter, which keeps the
// "write through a standard *log.Logger" shape while giving every caller
// a structured, leveled interface (V(1) for debug, Error for failures)
// rather than a fixed set of string-level methods.
//
// When logFile is non-empty, output is routed through a lumberjack
// rotating writer instead of stderr so a long-running embedded instance
// doesn't grow its log file unbounded.
func newLogger(appName string, logFile string, debugMode bool) logr.Logger {
	var out *log.Logger
	if logFile != "" {
		out = log.New(&lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}, "", log.LstdFlags)
	} else {
		out = log.New(os.Stderr, "", log.LstdFlags)
	}

	if debugMode {
		stdr.SetVerbosity(1)
	}

	return stdr.New(out).WithName(appName)
}
