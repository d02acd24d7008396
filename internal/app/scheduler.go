package app

import (
	"context"
	"time"
)

// StartScheduler runs the background market refresh loop until ctx is
// cancelled. A zero refresh interval disables it.
func (a *App) StartScheduler(ctx context.Context) {
	interval := a.Config.Market.GetRefreshInterval()
	if interval <= 0 {
		a.Logger.Info().Msg("Background market refresh disabled")
		return
	}

	a.Logger.Info().Dur("interval", interval).Msg("Background market refresh started")

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				a.Logger.Debug().Msg("Background market refresh stopped")
				return
			case <-ticker.C:
				if _, err := a.Market.Refresh(ctx, ""); err != nil {
					a.Logger.Warn().Err(err).Msg("Background market refresh failed")
				}
			}
		}
	}()
}
