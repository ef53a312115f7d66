package in

import (
	"context"
	"time"

	timerdto "gear/internal/modules/timer/dto"
	timerin "gear/internal/modules/timer/port/in"
)

const DefaultTickInterval = time.Second

// TickDriver feeds the timer one tick per interval until its context ends.
type TickDriver struct {
	usecase  timerin.Usecase
	interval time.Duration
	onTick   func(timerdto.EventOutput)
}

func NewTickDriver(usecase timerin.Usecase, interval time.Duration, onTick func(timerdto.EventOutput)) *TickDriver {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &TickDriver{usecase: usecase, interval: interval, onTick: onTick}
}

// Run blocks until ctx is done. It returns nil on cancellation and the
// usecase error otherwise.
func (d *TickDriver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			out, err := d.usecase.Tick(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			if d.onTick != nil {
				d.onTick(out)
			}
		}
	}
}
