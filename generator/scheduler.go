package generator

import (
	"context"
	"time"

	"github.com/Hoc27/cerropunta-app/util"
)

// RunEvery triggers a generation immediately and then on every tick until
// ctx is cancelled. Scheduled triggers go through the same single-flight
// guard as HTTP ones, so a tick during an in-flight run is simply dropped.
func (c *Coordinator) RunEvery(ctx context.Context, interval time.Duration) {
	util.InfoLogger.Infof("Scheduling catalog regeneration every %v", interval)
	c.Trigger()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			util.InfoLogger.Infof("Running scheduled catalog regeneration")
			c.Trigger()
		}
	}
}
