package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"trattoria/internal/cache"
	"trattoria/internal/metrics"
	"trattoria/internal/schedule"
)

// Status is the API-facing open-state snapshot.
type Status struct {
	IsOpen           bool                    `json:"is_open"`
	CurrentWindowEnd *time.Time              `json:"current_window_end,omitempty"`
	NextOpen         *time.Time              `json:"next_open,omitempty"`
	NextOpenLabel    *schedule.NextOpenLabel `json:"next_open_label,omitempty"`
	MinutesUntilOpen *int                    `json:"minutes_until_open,omitempty"`
}

// StatusService resolves the restaurant's open state on demand and on a
// periodic tick. The weekly schedule is swapped atomically on hot reload.
type StatusService struct {
	mu     sync.RWMutex
	week   schedule.WeeklySchedule
	loc    *time.Location
	clock  func() time.Time
	cache  *cache.StatusCache
	logger *zerolog.Logger
}

// NewStatusService creates the service. cache may be nil.
func NewStatusService(loc *time.Location, statusCache *cache.StatusCache, logger *zerolog.Logger) *StatusService {
	if loc == nil {
		loc = time.UTC
	}
	return &StatusService{
		loc:    loc,
		clock:  time.Now,
		cache:  statusCache,
		logger: logger,
	}
}

// SetClock overrides the time source, for tests.
func (s *StatusService) SetClock(clock func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = clock
}

// SetSchedule installs a new weekly schedule and drops any cached status.
func (s *StatusService) SetSchedule(week schedule.WeeklySchedule) {
	s.mu.Lock()
	s.week = week
	s.mu.Unlock()

	s.cache.Invalidate(context.Background())
	if s.logger != nil {
		s.logger.Info().Msg("weekly schedule updated")
	}
}

// ResolveAt resolves the open state at an arbitrary instant, e.g. for
// validating a reservation time.
func (s *StatusService) ResolveAt(at time.Time) schedule.OpenState {
	s.mu.RLock()
	week := s.week
	s.mu.RUnlock()
	return schedule.Resolve(week, at.In(s.loc))
}

// Current resolves the open state right now and formats it for display.
func (s *StatusService) Current() Status {
	s.mu.RLock()
	week := s.week
	clock := s.clock
	s.mu.RUnlock()

	now := clock().In(s.loc)
	state := schedule.Resolve(week, now)

	status := Status{
		IsOpen:           state.IsOpen,
		CurrentWindowEnd: state.CurrentWindowEnd,
		NextOpen:         state.NextOpen,
	}
	if state.NextOpen != nil {
		label := schedule.FormatNextOpen(*state.NextOpen, now)
		minutes := schedule.MinutesUntil(*state.NextOpen, now)
		status.NextOpenLabel = &label
		status.MinutesUntilOpen = &minutes
	}

	if state.IsOpen {
		metrics.IncStatusResolved("open")
	} else {
		metrics.IncStatusResolved("closed")
	}
	return status
}

// CurrentJSON returns the serialized status, served from cache when warm.
func (s *StatusService) CurrentJSON(ctx context.Context) ([]byte, error) {
	if data := s.cache.Get(ctx); data != nil {
		return data, nil
	}

	data, err := json.Marshal(s.Current())
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, data)
	return data, nil
}

// Run re-resolves on a fixed interval until ctx is done, logging open and
// close transitions so operators can follow the state from the logs.
func (s *StatusService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	last := s.Current().IsOpen
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			current := s.Current().IsOpen
			if current != last && s.logger != nil {
				s.logger.Info().Bool("is_open", current).Msg("open state changed")
			}
			last = current
		}
	}
}
