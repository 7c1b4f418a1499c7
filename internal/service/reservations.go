package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"trattoria/internal/database"
	"trattoria/internal/metrics"
	"trattoria/internal/models"
	"trattoria/internal/notify"
	"trattoria/internal/whatsapp"
)

// Reservation request failures surfaced to the API layer.
var (
	ErrGuestsOutOfRange  = errors.New("guest count out of range")
	ErrTooSoon           = errors.New("reservation time is too soon")
	ErrTooFarAhead       = errors.New("reservation time is too far ahead")
	ErrOutsideOpenHours  = errors.New("reservation time is outside opening hours")
	ErrMissingContactRes = errors.New("customer name and phone are required")
)

// ReservationRules are the validation knobs from configuration.
type ReservationRules struct {
	MinGuests  int
	MaxGuests  int
	MinAdvance time.Duration
	MaxAdvance time.Duration
}

// ReservationRequest is a table reservation submission.
type ReservationRequest struct {
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	Guests        int       `json:"guests"`
	At            time.Time `json:"at"`
	Notes         string    `json:"notes,omitempty"`
}

// ReservationResult carries the stored request plus the handoff link.
type ReservationResult struct {
	Reservation  *models.Reservation `json:"reservation"`
	WhatsAppLink string              `json:"whatsapp_link"`
}

// ReservationService validates and persists reservation requests.
type ReservationService struct {
	db             *database.DB
	status         *StatusService
	rules          ReservationRules
	restaurantName string
	handoffPhone   string
	notifier       *notify.Notifier
	logger         *zerolog.Logger

	mu    sync.Mutex
	clock func() time.Time
}

// NewReservationService creates the service. notifier may be nil.
func NewReservationService(
	db *database.DB,
	status *StatusService,
	rules ReservationRules,
	restaurantName, handoffPhone string,
	notifier *notify.Notifier,
	logger *zerolog.Logger,
) *ReservationService {
	if rules.MinGuests <= 0 {
		rules.MinGuests = 1
	}
	if rules.MaxGuests <= 0 {
		rules.MaxGuests = 12
	}
	return &ReservationService{
		db:             db,
		status:         status,
		rules:          rules,
		restaurantName: restaurantName,
		handoffPhone:   handoffPhone,
		notifier:       notifier,
		logger:         logger,
		clock:          time.Now,
	}
}

// SetClock overrides the time source, for tests.
func (s *ReservationService) SetClock(clock func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = clock
}

func (s *ReservationService) now() time.Time {
	s.mu.Lock()
	clock := s.clock
	s.mu.Unlock()
	return clock()
}

// Request validates and stores a reservation request. The requested
// instant must fall inside an opening window of the weekly schedule.
func (s *ReservationService) Request(ctx context.Context, req *ReservationRequest) (*ReservationResult, error) {
	if strings.TrimSpace(req.CustomerName) == "" || whatsapp.NormalizePhone(req.CustomerPhone) == "" {
		return nil, ErrMissingContactRes
	}
	if req.Guests < s.rules.MinGuests || req.Guests > s.rules.MaxGuests {
		return nil, ErrGuestsOutOfRange
	}

	now := s.now()
	if req.At.Before(now.Add(s.rules.MinAdvance)) {
		return nil, ErrTooSoon
	}
	if s.rules.MaxAdvance > 0 && req.At.After(now.Add(s.rules.MaxAdvance)) {
		return nil, ErrTooFarAhead
	}
	if !s.status.ResolveAt(req.At).IsOpen {
		return nil, ErrOutsideOpenHours
	}

	reservation := &models.Reservation{
		Code:          orderCode(),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		Guests:        req.Guests,
		At:            req.At,
		Notes:         strings.TrimSpace(req.Notes),
		Status:        models.ReservationStatusPending,
	}
	if err := s.db.CreateReservation(ctx, reservation); err != nil {
		return nil, err
	}

	metrics.IncReservationCreated()
	if s.logger != nil {
		s.logger.Info().
			Str("code", reservation.Code).
			Time("at", reservation.At).
			Int("guests", reservation.Guests).
			Msg("reservation requested")
	}
	s.notifier.ReservationRequested(reservation)

	message := whatsapp.ReservationMessage(s.restaurantName, reservation)
	return &ReservationResult{
		Reservation:  reservation,
		WhatsAppLink: whatsapp.Link(s.handoffPhone, message),
	}, nil
}
