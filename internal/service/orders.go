package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"trattoria/internal/database"
	"trattoria/internal/metrics"
	"trattoria/internal/models"
	"trattoria/internal/notify"
	"trattoria/internal/whatsapp"
)

// Order submission failures surfaced to the API layer.
var (
	ErrRestaurantClosed = errors.New("restaurant is closed")
	ErrOrderingDisabled = errors.New("ordering is disabled")
	ErrTooManyRequests  = errors.New("too many order attempts")
	ErrEmptyOrder       = errors.New("order has no items")
	ErrTooManyItems     = errors.New("too many items in order")
	ErrUnknownProduct   = errors.New("unknown or unavailable product")
	ErrMissingContact   = errors.New("customer name and phone are required")
	ErrMissingAddress   = errors.New("delivery orders need an address")
	ErrInvalidOrderType = errors.New("order type must be pickup or delivery")
	ErrBelowMinimum     = errors.New("order below delivery minimum")
)

// OrderRules are the validation knobs from configuration.
type OrderRules struct {
	MinOrderDelivery decimal.Decimal
	DeliveryFee      decimal.Decimal
	MaxItems         int
	SubmitRate       rate.Limit
	SubmitBurst      int
}

// OrderItemRequest is one requested line; prices come from the menu, not
// from the client.
type OrderItemRequest struct {
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes,omitempty"`
}

// OrderRequest is a cart submission.
type OrderRequest struct {
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone"`
	Type          string             `json:"type"`
	Address       string             `json:"address,omitempty"`
	Notes         string             `json:"notes,omitempty"`
	Items         []OrderItemRequest `json:"items"`
}

// OrderResult carries the persisted order plus the WhatsApp handoff link
// the client opens to send it.
type OrderResult struct {
	Order        *models.Order `json:"order"`
	WhatsAppLink string        `json:"whatsapp_link"`
}

// OrderService validates and persists cart submissions.
type OrderService struct {
	db             *database.DB
	status         *StatusService
	rules          OrderRules
	restaurantName string
	handoffPhone   string
	notifier       *notify.Notifier
	logger         *zerolog.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewOrderService creates the service. notifier may be nil.
func NewOrderService(
	db *database.DB,
	status *StatusService,
	rules OrderRules,
	restaurantName, handoffPhone string,
	notifier *notify.Notifier,
	logger *zerolog.Logger,
) *OrderService {
	if rules.MaxItems <= 0 {
		rules.MaxItems = 30
	}
	if rules.SubmitRate <= 0 {
		rules.SubmitRate = rate.Every(20 * time.Second)
	}
	if rules.SubmitBurst <= 0 {
		rules.SubmitBurst = 3
	}
	return &OrderService{
		db:             db,
		status:         status,
		rules:          rules,
		restaurantName: restaurantName,
		handoffPhone:   handoffPhone,
		notifier:       notifier,
		logger:         logger,
		limiters:       make(map[string]*rate.Limiter),
	}
}

// Submit validates the request against the menu, the open state and the
// ordering rules, persists the order and returns the handoff link.
func (s *OrderService) Submit(ctx context.Context, req *OrderRequest) (*OrderResult, error) {
	clientKey := whatsapp.NormalizePhone(req.CustomerPhone)
	if !s.allow(clientKey) {
		metrics.IncOrderRejected("rate_limited")
		return nil, ErrTooManyRequests
	}

	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}

	order := &models.Order{
		Code:          orderCode(),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		Type:          req.Type,
		Address:       strings.TrimSpace(req.Address),
		Notes:         strings.TrimSpace(req.Notes),
		Status:        models.OrderStatusNew,
	}

	for _, line := range req.Items {
		product, err := s.db.GetProduct(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("lookup product %d: %w", line.ProductID, err)
		}
		if product == nil || !product.Visible {
			metrics.IncOrderRejected("unknown_product")
			return nil, fmt.Errorf("%w: id %d", ErrUnknownProduct, line.ProductID)
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  line.Quantity,
			Notes:     strings.TrimSpace(line.Notes),
		})
	}

	order.ComputeTotals(s.rules.DeliveryFee)

	if order.Type == models.OrderTypeDelivery && order.Subtotal.LessThan(s.rules.MinOrderDelivery) {
		metrics.IncOrderRejected("below_minimum")
		return nil, fmt.Errorf("%w: minimum €%s", ErrBelowMinimum, s.rules.MinOrderDelivery.StringFixed(2))
	}

	if err := s.db.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	metrics.IncOrderCreated(order.Type)
	if s.logger != nil {
		s.logger.Info().
			Str("code", order.Code).
			Str("type", order.Type).
			Int("items", order.ItemCount()).
			Str("total", order.Total.StringFixed(2)).
			Msg("order created")
	}
	s.notifier.OrderCreated(order)

	message := whatsapp.OrderMessage(s.restaurantName, order)
	return &OrderResult{
		Order:        order,
		WhatsAppLink: whatsapp.Link(s.handoffPhone, message),
	}, nil
}

func (s *OrderService) validate(ctx context.Context, req *OrderRequest) error {
	if strings.TrimSpace(req.CustomerName) == "" || whatsapp.NormalizePhone(req.CustomerPhone) == "" {
		return ErrMissingContact
	}
	if req.Type != models.OrderTypePickup && req.Type != models.OrderTypeDelivery {
		return ErrInvalidOrderType
	}
	if req.Type == models.OrderTypeDelivery && strings.TrimSpace(req.Address) == "" {
		return ErrMissingAddress
	}
	if len(req.Items) == 0 {
		return ErrEmptyOrder
	}

	total := 0
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return ErrEmptyOrder
		}
		total += line.Quantity
	}
	if total > s.rules.MaxItems {
		metrics.IncOrderRejected("too_many_items")
		return ErrTooManyItems
	}

	enabled, err := s.db.GetSetting(ctx, database.SettingOrderingOpen, "1")
	if err != nil {
		return err
	}
	if enabled != "1" {
		metrics.IncOrderRejected("disabled")
		return ErrOrderingDisabled
	}

	if !s.status.Current().IsOpen {
		metrics.IncOrderRejected("closed")
		return ErrRestaurantClosed
	}
	return nil
}

// allow applies the per-client token bucket. Unknown clients get a fresh
// limiter; the map is small enough that it is never pruned.
func (s *OrderService) allow(clientKey string) bool {
	if clientKey == "" {
		clientKey = "anonymous"
	}

	s.mu.Lock()
	limiter, ok := s.limiters[clientKey]
	if !ok {
		limiter = rate.NewLimiter(s.rules.SubmitRate, s.rules.SubmitBurst)
		s.limiters[clientKey] = limiter
	}
	s.mu.Unlock()

	return limiter.Allow()
}

// orderCode returns a short public identifier. Collisions are guarded by
// the unique index on orders.code.
func orderCode() string {
	return strings.ToUpper(uuid.NewString()[:8])
}
