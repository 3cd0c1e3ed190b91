package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Format selects how log lines are rendered
type Format string

const (
	// FormatConsole renders human readable, colorized lines
	FormatConsole Format = "console"

	// FormatJSON renders one JSON object per line
	FormatJSON Format = "json"
)

// New builds a logger writing to w. Unknown levels fall back to info.
func New(w io.Writer, level string, format Format) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}

	if format != FormatJSON {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Setup installs l as the process-wide logger used by components that were
// not handed one explicitly
func Setup(l zerolog.Logger) {
	log.Logger = l
	zerolog.DefaultContextLogger = &l
}

// OrDefault returns l when set, otherwise the global logger
func OrDefault(l *zerolog.Logger) zerolog.Logger {
	if l != nil {
		return *l
	}
	return log.Logger
}
