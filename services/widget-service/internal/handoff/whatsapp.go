// Package handoff builds the external messaging deep link that closes a
// confirmed booking: a wa.me URL addressed to the staff member's contact
// token with a pre-filled summary message.
package handoff

import (
	"fmt"
	"net/url"
	"strings"
)

// ComposeMessage assembles the booking summary the customer sends to the
// barber. The wording is what the shop expects; keep it in sync with them,
// not with taste.
func ComposeMessage(name string, services []string, staffName, humanDate, timeSlot, phone string) string {
	if staffName == "" {
		staffName = "No especificado"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Hola, soy %s. Quiero agendar mi cita:\n", name)
	fmt.Fprintf(&b, "📌 Servicio(s): %s\n", strings.Join(services, ", "))
	fmt.Fprintf(&b, "👨‍🦱 Barbero: %s\n", staffName)
	fmt.Fprintf(&b, "📅 Fecha: %s\n", humanDate)
	fmt.Fprintf(&b, "⏰ Hora: %s\n", timeSlot)
	fmt.Fprintf(&b, "📞 Tel: %s", phone)
	return b.String()
}

// Link returns the wa.me deep link for a contact token and message, or ""
// when no token is known (the availability fetch never supplied one).
func Link(contactToken, message string) string {
	token := strings.TrimSpace(contactToken)
	if token == "" {
		return ""
	}
	v := url.Values{}
	v.Set("text", message)
	return "https://wa.me/" + url.PathEscape(token) + "?" + v.Encode()
}
