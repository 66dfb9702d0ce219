package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/traveller-conductor/internal/logging"
	"github.com/i474232898/traveller-conductor/internal/metrics"
	"github.com/i474232898/traveller-conductor/internal/weather"
)

// DefaultFetchTimeout bounds a single provider call.
const DefaultFetchTimeout = 30 * time.Second

// Refresher fetches and stores the weather for one point.
type Refresher interface {
	Refresh(ctx context.Context, p weather.Point) error
}

// Scheduler refreshes one location per tick, cycling through the points
// forever. A failing location never stops the others from being visited.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	points    []weather.Point
	delay     time.Duration

	// FetchTimeout bounds each Refresh call.
	FetchTimeout time.Duration
	// Cached, when set, reports the cache size after every tick.
	Cached func() int

	mu     sync.Mutex
	cursor int
}

// New creates a new Scheduler.
func New(points []weather.Point, delay time.Duration, refresher Refresher) *Scheduler {
	return &Scheduler{
		scheduler:    gocron.NewScheduler(time.UTC),
		refresher:    refresher,
		points:       points,
		delay:        delay,
		FetchTimeout: DefaultFetchTimeout,
	}
}

// Start schedules the refresh job and starts the underlying scheduler.
// The first tick runs immediately; ticks never overlap.
func (s *Scheduler) Start(ctx context.Context) error {
	log := logging.Component("scheduler")
	if len(s.points) == 0 {
		log.Warn().Msg("no locations configured; nothing to schedule")
		return nil
	}
	if s.delay <= 0 {
		return errors.New("refresh delay must be positive")
	}

	_, err := s.scheduler.Every(s.delay).SingletonMode().Do(s.Tick, ctx)
	if err != nil {
		return err
	}

	log.Info().
		Int("locations", len(s.points)).
		Dur("delay", s.delay).
		Msg("weather refresh scheduled")
	s.scheduler.StartAsync()
	return nil
}

// Tick refreshes the next location in round-robin order.
func (s *Scheduler) Tick(ctx context.Context) {
	if len(s.points) == 0 || ctx.Err() != nil {
		return
	}

	p := s.next()
	log := logging.Component("scheduler").With().Str("location", p.LocationID).Logger()

	defer func() {
		if r := recover(); r != nil {
			metrics.WeatherFetchTotal.WithLabelValues(metrics.OutcomeError).Inc()
			log.Error().Interface("panic", r).Msg("weather refresh panicked")
		}
	}()

	fetchCtx, cancel := context.WithTimeout(ctx, s.FetchTimeout)
	defer cancel()

	if err := s.refresher.Refresh(fetchCtx, p); err != nil {
		metrics.WeatherFetchTotal.WithLabelValues(metrics.OutcomeError).Inc()
		log.Warn().Err(err).Msg("weather refresh failed")
		return
	}

	metrics.WeatherFetchTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	if s.Cached != nil {
		metrics.WeatherCachedLocations.Set(float64(s.Cached()))
	}
	log.Debug().Msg("weather refreshed")
}

func (s *Scheduler) next() weather.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.points[s.cursor]
	s.cursor = (s.cursor + 1) % len(s.points)
	return p
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
