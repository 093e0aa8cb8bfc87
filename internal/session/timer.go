package session

import (
	"context"
	"time"
)

// RunTimer ticks c once per interval until the session stops being timed and active, the
// session is restarted or ctx ends. It blocks; run it in its own goroutine.
func RunTimer(ctx context.Context, c *Controller, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	id := c.Snapshot().SessionID
	if id == "" {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !c.tickSession(id, interval) {
				return
			}
		}
	}
}
