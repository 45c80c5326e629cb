package logger

import (
	"log/slog"
	"time"
)

// LogBid logs a bidding operation.
func LogBid(op string, duration time.Duration, err error) {
	attrs := []any{
		slog.String("type", "bid"),
		slog.String("op", op),
		slog.Duration("took", duration),
	}

	if err != nil {
		slog.Error("Bid operation failed", append(attrs, slog.Any("error", err))...)
	} else {
		slog.Info("Bid operation executed", attrs...)
	}
}

// LogSweep logs a settlement sweep pass.
func LogSweep(settled int, duration time.Duration, err error) {
	attrs := []any{
		slog.String("type", "sweep"),
		slog.Int("settled", settled),
		slog.Duration("took", duration),
	}

	if err != nil {
		slog.Error("Sweep failed", append(attrs, slog.Any("error", err))...)
	} else {
		slog.Info("Sweep completed", attrs...)
	}
}

// LogSystem logs system events.
func LogSystem(msg string, attrs ...any) {
	baseAttrs := []any{slog.String("type", "sys")}
	slog.Info(msg, append(baseAttrs, attrs...)...)
}

// LogError logs error events.
func LogError(msg string, err error, attrs ...any) {
	baseAttrs := []any{
		slog.String("type", "error"),
		slog.Any("error", err),
	}
	slog.Error(msg, append(baseAttrs, attrs...)...)
}
