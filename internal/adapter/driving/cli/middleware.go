package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

type runFunc func(cmd *cobra.Command, args []string) error

// withLogging logs each command with its name, duration and outcome.
func withLogging(logger *slog.Logger, next runFunc) runFunc {
	return func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		err := next(cmd, args)

		attrs := []any{
			"command", cmd.Name(),
			"duration", time.Since(start).Round(time.Microsecond),
		}
		if err != nil {
			logger.Debug("command failed", append(attrs, "error", err)...)
		} else {
			logger.Debug("command complete", attrs...)
		}
		return err
	}
}

// withRecovery converts a panic inside a command into an error so the process
// still exits through the error translator.
func withRecovery(logger *slog.Logger, next runFunc) runFunc {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if v := recover(); v != nil {
				logger.Error("panic recovered", "panic", v, "command", cmd.Name())
				err = fmt.Errorf("internal error: %v", v)
			}
		}()
		return next(cmd, args)
	}
}

func (h *Handler) markRunning(next runFunc) runFunc {
	return func(cmd *cobra.Command, args []string) error {
		h.running = true
		return next(cmd, args)
	}
}
