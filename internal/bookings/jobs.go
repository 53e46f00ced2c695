package bookings

import (
	"context"
	"time"

	"gatherly/pkg/logger"
)

// SweepConfig contains configuration for the expiry sweep
type SweepConfig struct {
	Interval time.Duration
}

// Sweeper periodically expires pending bookings whose hold deadline has
// passed.
type Sweeper struct {
	service Service
	config  SweepConfig
	logger  *logger.Logger
	done    chan struct{}
}

// NewSweeper creates a new expiry sweeper
func NewSweeper(service Service, config SweepConfig) *Sweeper {
	if config.Interval <= 0 {
		config.Interval = time.Minute
	}

	return &Sweeper{
		service: service,
		config:  config,
		logger:  logger.GetDefault(),
		done:    make(chan struct{}),
	}
}

// Start starts the sweep loop in a goroutine
func (s *Sweeper) Start(ctx context.Context) {
	go s.run(ctx)
	s.logger.Info("booking expiry sweep started", "interval", s.config.Interval.String())
}

// Stop stops the sweep loop
func (s *Sweeper) Stop() {
	close(s.done)
	s.logger.Info("booking expiry sweep stopped")
}

func (s *Sweeper) run(ctx context.Context) {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	expired, err := s.service.ExpireOverdueBookings(ctx)
	if err != nil {
		s.logger.ErrorWithContext(ctx, "expiry sweep failed", err, nil)
		return
	}

	if expired > 0 {
		s.logger.InfoWithContext(ctx, "expired overdue bookings", map[string]interface{}{
			"count": expired,
		})
	}
}
