package handoff

import (
	"net/url"
	"strings"
	"testing"
)

func TestComposeMessage(t *testing.T) {
	msg := ComposeMessage("Ana", []string{"CORTE Y BARBA TRADICIONAL", "RETOQUE BARBA"},
		"feder hernandez", "10/06/2024", "10:00", "3001234567")

	for _, want := range []string{
		"Hola, soy Ana.",
		"CORTE Y BARBA TRADICIONAL, RETOQUE BARBA",
		"Barbero: feder hernandez",
		"Fecha: 10/06/2024",
		"Hora: 10:00",
		"Tel: 3001234567",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestComposeMessage_NoStaffFallback(t *testing.T) {
	msg := ComposeMessage("Ana", []string{"X"}, "", "10/06/2024", "10:00", "300")
	if !strings.Contains(msg, "No especificado") {
		t.Fatalf("expected fallback staff name, got:\n%s", msg)
	}
}

func TestLink(t *testing.T) {
	link := Link("573001112233", "hola & adiós")
	if !strings.HasPrefix(link, "https://wa.me/573001112233?") {
		t.Fatalf("unexpected link prefix %q", link)
	}

	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link must parse: %v", err)
	}
	if got := u.Query().Get("text"); got != "hola & adiós" {
		t.Fatalf("text must round-trip through encoding, got %q", got)
	}
}

func TestLink_EmptyTokenYieldsNoLink(t *testing.T) {
	if got := Link("  ", "hola"); got != "" {
		t.Fatalf("no contact token means no link, got %q", got)
	}
}
