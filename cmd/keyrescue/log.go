package main

import (
	"os"

	"github.com/btcsuite/btclog"

	"github.com/Amr-9/KeyRescue/pkg/checker"
	"github.com/Amr-9/KeyRescue/pkg/progress"
	"github.com/Amr-9/KeyRescue/pkg/validator"
)

// Loggers per subsystem. A single backend logger is created and all
// subsystem loggers created from it write to standard error, so the log
// never interleaves with the progress line drawn on standard output.
var (
	backendLog = btclog.NewBackend(os.Stderr)

	krscLog = backendLog.Logger("KRSC")
	valdLog = backendLog.Logger("VALD")
	progLog = backendLog.Logger("PROG")
	chkrLog = backendLog.Logger("CHKR")
)

// Initialize package-global logger variables.
func init() {
	validator.UseLogger(valdLog)
	progress.UseLogger(progLog)
	checker.UseLogger(chkrLog)
}

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]btclog.Logger{
	"KRSC": krscLog,
	"VALD": valdLog,
	"PROG": progLog,
	"CHKR": chkrLog,
}

// setLogLevels sets the log level for all subsystem loggers to the passed
// level.
func setLogLevels(level btclog.Level) {
	for _, logger := range subsystemLoggers {
		logger.SetLevel(level)
	}
}
