// Package notify pings the staff Telegram chat about new orders and
// reservation requests. The notifier is optional: a nil *Notifier is a
// no-op, so wiring stays unconditional in the services.
package notify

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"trattoria/internal/models"
)

// Notifier sends staff notifications through a Telegram bot.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *zerolog.Logger
}

// New creates a Notifier. An empty token returns (nil, nil) so callers
// can wire it straight from config.
func New(token string, chatID int64, logger *zerolog.Logger) (*Notifier, error) {
	if token == "" {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Notifier{bot: bot, chatID: chatID, logger: logger}, nil
}

// OrderCreated notifies staff about a new order.
func (n *Notifier) OrderCreated(o *models.Order) {
	if n == nil {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🍕 Nuovo ordine %s\n", o.Code)
	fmt.Fprintf(&b, "%s — %s\n", o.CustomerName, o.CustomerPhone)
	for _, item := range o.Items {
		fmt.Fprintf(&b, "• %dx %s\n", item.Quantity, item.Name)
	}
	fmt.Fprintf(&b, "Totale: €%s (%s)", o.Total.StringFixed(2), o.Type)

	n.send(b.String())
}

// ReservationRequested notifies staff about a reservation request.
func (n *Notifier) ReservationRequested(r *models.Reservation) {
	if n == nil {
		return
	}

	msg := fmt.Sprintf("📅 Prenotazione %s\n%s — %s\n%s, %d persone",
		r.Code, r.CustomerName, r.CustomerPhone,
		r.At.Format("02/01 15:04"), r.Guests)

	n.send(msg)
}

func (n *Notifier) send(text string) {
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil && n.logger != nil {
		n.logger.Error().Err(err).Msg("telegram notification failed")
	}
}
