// Package logging builds the zerolog logger shared by the container, the HTTP
// kernel and the CLI.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/km-arc/go-injector/framework/config"
)

var partsOrder = []string{
	zerolog.TimestampFieldName,
	zerolog.LevelFieldName,
	zerolog.MessageFieldName,
}

// New returns a logger writing to w (stderr when nil) at cfg.Level, as JSON
// lines or, for the "console" format, human-readable text. An empty level
// means info.
//
// zerolog filters on a process-wide level as well; New lowers it when cfg asks
// for more detail, so a trace logger actually prints trace events.
func New(cfg config.LogConfig, w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil {
		return zerolog.Nop(), errors.Wrapf(err, "logging: level %q", cfg.Level)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if w == nil {
		w = os.Stderr
	}

	switch cfg.Format {
	case "", "console":
		w = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    !terminal(w),
			TimeFormat: time.RFC3339,
			PartsOrder: partsOrder,
		}
	case "json":
	default:
		return zerolog.Nop(), errors.Errorf("logging: unknown format %q", cfg.Format)
	}

	if level < zerolog.GlobalLevel() {
		zerolog.SetGlobalLevel(level)
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// Component tags every event of log with the emitting component.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

func terminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
