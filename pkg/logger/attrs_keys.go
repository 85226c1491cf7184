package logger

import (
	"log/slog"

	"github.com/gaze-network/near-indexer/pkg/logger/slogx"
)

// Keys for log attributes.
const (
	MessageKey         = slog.MessageKey
	SourceKey          = slog.SourceKey
	LevelKey           = slog.LevelKey
	ErrorKey           = slogx.ErrorKey
	ErrorVerboseKey    = "error_verbose"
	ErrorStackTraceKey = "error_stacktrace"
)
