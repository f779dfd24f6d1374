package backdrop

import (
	"context"
	"time"

	"sunglow/internal/celestial"
)

// StartUpdatingSun updates the target now and then every interval, until
// Destroy or the next StartUpdatingSun call. Ticks that fire while the
// renderer is stopped are skipped; Start catches up with an immediate update.
func (r *Renderer) StartUpdatingSun(interval time.Duration, e celestial.Ellipse) error {
	if r.state == Destroyed {
		return ErrDestroyed
	}
	if interval <= 0 {
		interval = DefaultSunInterval
	}
	r.sunTimer.Stop()
	r.sunEllipse = e

	r.UpdateSunTarget(r.ctx, e)
	r.sunTimer = r.loop.SetInterval(interval, func() {
		if r.state != Running {
			return
		}
		r.UpdateSunTarget(r.ctx, e)
	})
	r.logger.Debug("sun updates scheduled", "interval", interval)
	return nil
}

// UpdateSunTarget looks the sun up in the background and moves the target
// onto e. The result is applied on the loop, and only if the renderer is
// still running by then; a stale result is dropped and reported as nil.
// A failed lookup is logged, leaves the target alone and is sent on the
// returned channel.
func (r *Renderer) UpdateSunTarget(ctx context.Context, e celestial.Ellipse) <-chan error {
	done := make(chan error, 1)
	if r.state == Destroyed {
		done <- ErrDestroyed
		return done
	}
	if r.provider == nil {
		r.logger.Warn("could not get sun position", "err", celestial.ErrUnsupported)
		done <- celestial.ErrUnsupported
		return done
	}

	provider := r.provider
	go func() {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		stop := context.AfterFunc(r.ctx, cancel)
		defer stop()

		reading, err := provider.Target(ctx, e)
		r.loop.Post(func() { done <- r.applySun(reading, err) })
	}()
	return done
}

func (r *Renderer) applySun(reading celestial.Reading, err error) error {
	if r.state != Running {
		return nil
	}
	if err != nil {
		r.logger.Warn("could not get sun position", "err", err)
		return err
	}
	r.engine.Target = reading.Target
	r.logger.Debug("sun target updated", "target", reading.Target, "phase", reading.Phase)
	if r.onPhase != nil {
		r.onPhase(reading.Phase)
	}
	return nil
}
