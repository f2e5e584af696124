package chat

import (
	"log/slog"
)

func logInfo(l *slog.Logger, msg string, args ...any) {
	if l == nil {
		return
	}
	l.Info(msg, args...)
}

func logError(l *slog.Logger, msg string, err error, args ...any) {
	if l == nil {
		return
	}
	l.Error(msg, append([]any{"err", err}, args...)...)
}
