package countdown

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/ezan-vakti/internal/api"
	"github.com/smokyabdulrahman/ezan-vakti/internal/prayer"
)

// TimesLoader is satisfied by *loader.Loader.
type TimesLoader interface {
	LoadTimes(ctx context.Context, cityID string) (api.MonthlyTable, error)
}

// Run drives a Controller with a ticker until ctx is done or the countdown
// stops. onFrame is called after every load and tick. Reloads happen inline,
// so at most one load is ever in flight.
//
// Run returns ctx.Err() on cancellation, the load error on failure, and
// prayer.ErrNoData when the table runs out.
func Run(ctx context.Context, src TimesLoader, cityID string, onFrame func(Frame)) error {
	c := NewController()
	defer c.Stop()

	ticker := time.NewTicker(Interval)
	defer ticker.Stop()

	for {
		load := c.Begin(cityID)
		onFrame(c.Frame())

		table, err := src.LoadTimes(ctx, load.CityID)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		timerGen, ok := c.Finish(load.Gen, table, err)
		if !ok {
			f := c.Frame()
			onFrame(f)
			return f.Err
		}

		if err := tickUntilReload(ctx, c, timerGen, ticker.C, onFrame); err != nil {
			return err
		}
		log.Debug().Str("city", cityID).Msg("countdown boundary reached, reloading")
	}
}

// tickUntilReload returns nil when the controller asks for a reload.
func tickUntilReload(ctx context.Context, c *Controller, timerGen uint64, tick <-chan time.Time, onFrame func(Frame)) error {
	for {
		f, action := c.Tick(timerGen, time.Now())
		switch action {
		case ActionReload:
			return nil
		case ActionStop:
			onFrame(f)
			if f.Status == StatusNoData {
				return prayer.ErrNoData
			}
			return f.Err
		}
		onFrame(f)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
		}
	}
}
