package telemetry

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJson LogFormat = "json"
)

func newHandler(w io.Writer, verbose bool, format LogFormat) slog.Handler {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if format == LogFormatJson {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})
}

// InitSlog installs the default logger, text is colored for terminals,
// json is for log collectors (ex. cloudwatch).
func InitSlog(verbose bool, format LogFormat) {
	slog.SetDefault(slog.New(newHandler(os.Stderr, verbose, format)))
	if verbose {
		slog.Debug("verbose logging enabled")
	}
}
