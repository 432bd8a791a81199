package store

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// RunSweeper evicts hosts idle for longer than ttl every interval until ctx
// is canceled.
func RunSweeper(ctx context.Context, s Store, interval, ttl time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.Sweep(ctx, now.Add(-ttl)); n > 0 {
				log.Info().Int("evicted", n).Msg("idle sessions swept")
			}
		}
	}
}
