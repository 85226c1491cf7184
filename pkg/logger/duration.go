package logger

import (
	"log/slog"
)

// durationToMsAttrReplacer renders durations as integer milliseconds for machine-read outputs.
func durationToMsAttrReplacer(_ []string, attr slog.Attr) slog.Attr {
	if attr.Value.Kind() == slog.KindDuration {
		return slog.Int64(attr.Key, attr.Value.Duration().Milliseconds())
	}
	return attr
}
