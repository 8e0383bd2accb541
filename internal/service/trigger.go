package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/efreitasn/qualifier/internal/domain"
)

// Runner executes the qualifier flow once.
type Runner interface {
	Run(ctx context.Context) (*domain.Run, error)
}

// Trigger calls runner.Run exactly once at startup. Errors and panics are
// logged and never escape, so a failed flow cannot take the process down.
func Trigger(ctx context.Context, runner Runner, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("qualifier flow panicked", slog.String("panic", fmt.Sprint(r)))
		}
	}()

	logger.Info("application started, executing qualifier flow")

	run, err := runner.Run(ctx)
	if err != nil {
		attrs := []any{
			slog.String("kind", domain.ErrorKind(err)),
			slog.String("error", err.Error()),
		}
		if run != nil {
			attrs = append(attrs, slog.String("run_id", run.RunID), slog.String("step", string(run.Step)))
		}
		logger.Error("failed to execute qualifier flow", attrs...)
		return
	}

	if run != nil {
		logger.Info("qualifier flow finished", slog.String("run_id", run.RunID), slog.String("status", string(run.Status)))
	}
}
