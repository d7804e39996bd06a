// Package logging builds the go-kit loggers used across rocketsim.
package logging

import (
	"fmt"
	"io"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// New returns a logfmt logger writing to w that drops records below lvl.
// Accepted levels are debug, info, warn and error.
func New(w io.Writer, lvl string) (log.Logger, error) {
	opt, err := parseLevel(lvl)
	if err != nil {
		return nil, err
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	return level.NewFilter(logger, opt), nil
}

func parseLevel(lvl string) (level.Option, error) {
	switch lvl {
	case "debug":
		return level.AllowDebug(), nil
	case "info", "":
		return level.AllowInfo(), nil
	case "warn":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	}
	return nil, fmt.Errorf("unknown log level: %s", lvl)
}

// Subsystem tags every record from logger with the given subsystem.
func Subsystem(logger log.Logger, name string) log.Logger {
	if logger == nil {
		return log.NewNopLogger()
	}
	return log.With(logger, "subsys", name)
}
