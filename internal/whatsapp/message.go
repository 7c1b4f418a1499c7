// Package whatsapp builds the wa.me handoff link for orders and
// reservations. Nothing is sent from here; the client opens the link and
// WhatsApp carries the conversation.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"trattoria/internal/models"
)

// NormalizePhone strips everything but digits from a phone number, the
// form wa.me expects. A leading + is dropped, not an error.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Link returns the wa.me URL that opens a chat with phone prefilled with
// text.
func Link(phone, text string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", NormalizePhone(phone), url.QueryEscape(text))
}

// OrderMessage renders the order as the text the customer sends to the
// restaurant.
func OrderMessage(restaurantName string, o *models.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Nuovo ordine %s — %s\n\n", o.Code, restaurantName)
	for _, item := range o.Items {
		fmt.Fprintf(&b, "%dx %s (€%s)\n", item.Quantity, item.Name, item.LineTotal().StringFixed(2))
		if item.Notes != "" {
			fmt.Fprintf(&b, "   nota: %s\n", item.Notes)
		}
	}

	fmt.Fprintf(&b, "\nSubtotale: €%s\n", o.Subtotal.StringFixed(2))
	if o.Type == models.OrderTypeDelivery {
		fmt.Fprintf(&b, "Consegna: €%s\n", o.DeliveryFee.StringFixed(2))
		fmt.Fprintf(&b, "Indirizzo: %s\n", o.Address)
	} else {
		b.WriteString("Ritiro al locale\n")
	}
	fmt.Fprintf(&b, "Totale: €%s\n\n", o.Total.StringFixed(2))

	fmt.Fprintf(&b, "Nome: %s\n", o.CustomerName)
	if o.Notes != "" {
		fmt.Fprintf(&b, "Note: %s\n", o.Notes)
	}

	return b.String()
}

// ReservationMessage renders a reservation request for the handoff link.
func ReservationMessage(restaurantName string, r *models.Reservation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Prenotazione %s — %s\n\n", r.Code, restaurantName)
	fmt.Fprintf(&b, "Data: %s\n", r.At.Format("02/01/2006"))
	fmt.Fprintf(&b, "Ora: %s\n", r.At.Format("15:04"))
	fmt.Fprintf(&b, "Persone: %d\n", r.Guests)
	fmt.Fprintf(&b, "Nome: %s\n", r.CustomerName)
	if r.Notes != "" {
		fmt.Fprintf(&b, "Note: %s\n", r.Notes)
	}

	return b.String()
}
