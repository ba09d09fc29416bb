package observer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/luticapital/arbitrage-helper/internal/metrics"
	"github.com/luticapital/arbitrage-helper/pkg/extract"
)

// Run polls the page every interval until ctx is done. The first poll runs
// immediately. A poll still running when the next one is due is skipped.
func (o *Observer) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("invalid poll interval %s", interval)
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	var id cron.EntryID
	id, err := c.AddFunc("@every "+interval.String(), func() {
		o.poll(ctx)
		metrics.ObserverNextPollTimestamp.Set(float64(c.Entry(id).Next.Unix()))
	})
	if err != nil {
		return fmt.Errorf("scheduling page poll: %w", err)
	}

	o.log.Info("observer started", "interval", interval)
	o.poll(ctx)

	c.Start()
	metrics.ObserverNextPollTimestamp.Set(float64(c.Entry(id).Next.Unix()))

	<-ctx.Done()
	<-c.Stop().Done()
	o.log.Info("observer stopped")
	return nil
}

func (o *Observer) poll(ctx context.Context) {
	res, err := o.Poll(ctx)
	switch {
	case err == nil:
		if res.Changed {
			o.log.Debug("page handled", "mode", res.Mode, "started", res.Started, "marks", len(res.Marks))
		}
	case errors.Is(err, context.Canceled):
	case extract.IsTransient(err):
		o.log.Debug("page item not ready", "error", err)
	default:
		o.log.Error("page poll failed", "error", err)
	}
}
