package sweeper

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Canceller is the slice of the booking engine the sweeper drives.
type Canceller interface {
	SweepExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// Sweeper periodically cancels bookings left unpaid past the payment window.
// The clock is injectable so tests can drive it deterministically.
type Sweeper struct {
	bookings Canceller
	interval time.Duration
	window   time.Duration
	now      func() time.Time
	log      *zap.Logger
}

type Option func(*Sweeper)

func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) {
		s.now = now
	}
}

func New(bookings Canceller, interval, window time.Duration, log *zap.Logger, opts ...Option) *Sweeper {
	s := &Sweeper{
		bookings: bookings,
		interval: interval,
		window:   window,
		now:      time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run blocks sweeping on the configured interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("expiry sweeper started", zap.Duration("interval", s.interval), zap.Duration("window", s.window))
	for {
		select {
		case <-ctx.Done():
			s.log.Info("expiry sweeper stopped")
			return
		case <-ticker.C:
			count, err := s.Sweep(ctx)
			if err != nil {
				s.log.Error("sweep expired bookings failed", zap.Error(err))
				continue
			}
			if count > 0 {
				s.log.Info("expired stale bookings", zap.Int64("count", count))
			}
		}
	}
}

// Sweep runs a single pass, cancelling bookings created before
// now − paymentWindow.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	return s.bookings.SweepExpired(ctx, s.now().Add(-s.window))
}
