package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/recfetch/internal/state"
)

const defaultReportInterval = 5 * time.Second

// startReporter launches a background goroutine that logs the progress of
// unfinished downloads at a fixed cadence. The returned stop function blocks
// until the goroutine has exited.
func startReporter(ctx context.Context, store *state.Store, logger zerolog.Logger, interval time.Duration) (stop func()) {
	if interval <= 0 {
		interval = defaultReportInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				report(store.Snapshot(), logger)
			}
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

func report(snap state.Snapshot, logger zerolog.Logger) {
	for _, d := range snap.Downloads {
		if d.Done || d.Started.IsZero() {
			continue
		}
		ev := logger.Info().
			Str("id", d.ID).
			Str("file", d.Filename).
			Int64("received", d.Received)
		if d.Total >= 0 {
			ev = ev.Int64("total", d.Total).Float64("fraction", d.Fraction())
		}
		ev.Msg("downloading")
	}
}
