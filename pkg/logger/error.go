package logger

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors/errbase"
)

// errorAttrReplacer renders errors with their message only; the verbose form is
// attached separately by middlewareErrorVerbose.
func errorAttrReplacer(_ []string, attr slog.Attr) slog.Attr {
	if attr.Value.Kind() != slog.KindAny {
		return attr
	}
	if err, ok := attr.Value.Any().(error); ok && err != nil {
		return slog.String(attr.Key, err.Error())
	}
	return attr
}

func middlewareErrorVerbose() middleware {
	return func(next handleFunc) handleFunc {
		return func(ctx context.Context, rec slog.Record) error {
			if err := recordError(rec); err != nil {
				if verbose := fmt.Sprintf("%+v", err); verbose != err.Error() {
					rec.AddAttrs(slog.String(ErrorVerboseKey, verbose))
				}
			}
			return next(ctx, rec)
		}
	}
}

func middlewareErrorStackTrace() middleware {
	return func(next handleFunc) handleFunc {
		return func(ctx context.Context, rec slog.Record) error {
			if err := recordError(rec); err != nil {
				if x, ok := err.(errbase.StackTraceProvider); ok {
					rec.AddAttrs(slog.Any(ErrorStackTraceKey, traceLines(x.StackTrace())))
				}
			}
			return next(ctx, rec)
		}
	}
}

func recordError(rec slog.Record) (found error) {
	rec.Attrs(func(attr slog.Attr) bool {
		if attr.Key != ErrorKey && attr.Key != "err" {
			return true
		}
		if err, ok := attr.Value.Any().(error); ok && err != nil {
			found = err
			return false
		}
		return true
	})
	return found
}

func traceLines(frames errbase.StackTrace) []string {
	lines := make([]string, 0, len(frames))

	// skip the runtime frames at the bottom of the trace
	skipping := true
	for i := len(frames) - 1; i >= 0; i-- {
		pc := uintptr(frames[i]) - 1
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			lines = append(lines, "unknown")
			skipping = false
			continue
		}

		name := fn.Name()
		if skipping && strings.HasPrefix(name, "runtime.") {
			continue
		}
		skipping = false

		filename, lineNr := fn.FileLine(pc)
		lines = append(lines, fmt.Sprintf("%s %s:%d", name, filename, lineNr))
	}
	return lines
}
