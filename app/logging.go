package app

import (
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ryz3006/alignzo/config"
	"github.com/ryz3006/alignzo/internal/pathutil"
)

// initLogging routes the default slog logger to a rotating log file so
// service logs never interleave with table and TUI output on stdout.
func initLogging(cfg *config.Config) error {
	level := slog.LevelInfo

	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	logFile := &lumberjack.Logger{
		Filename:   pathutil.Must().LogFile(),
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Compress:   true,
	}

	handler := slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: level,
	})

	slog.SetDefault(slog.New(handler))

	return nil
}
