package cart

import (
	"testing"

	"github.com/elpoderosocode/Barberia/services/widget-service/internal/catalog"
)

func price(t *testing.T, cat *catalog.Catalog, id string) int {
	t.Helper()
	s, ok := cat.ServiceByID(id)
	if !ok {
		t.Fatalf("service %q missing from catalog", id)
	}
	return s.Price
}

func TestAddAndTotal(t *testing.T) {
	cat := catalog.Default()
	c := New(cat)

	c.Add("s1")
	c.Add("s1")
	c.Add("s4")

	if got := c.ItemCount(); got != 3 {
		t.Fatalf("expected item count 3, got %d", got)
	}
	want := 2*price(t, cat, "s1") + price(t, cat, "s4")
	if got := c.Total(); got != want {
		t.Fatalf("expected total %d, got %d", want, got)
	}

	lines := c.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected one line per service, got %d", len(lines))
	}
	if lines[0].ServiceID != "s1" || lines[0].Quantity != 2 {
		t.Fatalf("unexpected first line %+v", lines[0])
	}
}

func TestAddUnknownServiceIsNoOp(t *testing.T) {
	c := New(catalog.Default())
	c.Add("does-not-exist")
	if !c.Empty() {
		t.Fatal("unknown service id must not create a line")
	}
}

func TestChangeQuantityRemovesAtZero(t *testing.T) {
	c := New(catalog.Default())
	c.Add("s2")
	c.ChangeQuantity("s2", 2)
	if got := c.ItemCount(); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}

	c.ChangeQuantity("s2", -3)
	if !c.Empty() {
		t.Fatal("quantity dropping to zero must remove the line")
	}

	// Going below zero removes as well.
	c.Add("s2")
	c.ChangeQuantity("s2", -5)
	if !c.Empty() {
		t.Fatal("quantity below zero must remove the line")
	}

	// Unknown line: no-op.
	c.ChangeQuantity("s9", 1)
	if !c.Empty() {
		t.Fatal("changing quantity of an absent line must not create it")
	}
}

func TestQuantityNeverZeroOrNegative(t *testing.T) {
	c := New(catalog.Default())
	ops := []struct {
		id    string
		delta int
	}{
		{"s1", +1}, {"s2", +1}, {"s1", -1}, {"s1", -1}, {"s2", +3}, {"s2", -2}, {"s3", -1},
	}
	c.Add("s1")
	c.Add("s2")
	for _, op := range ops {
		c.ChangeQuantity(op.id, op.delta)
		for _, l := range c.Lines() {
			if l.Quantity <= 0 {
				t.Fatalf("line %q has quantity %d after delta %+d", l.ServiceID, l.Quantity, op.delta)
			}
		}
	}
}

func TestTotalTracksLinesExactly(t *testing.T) {
	cat := catalog.Default()
	c := New(cat)

	c.Add("s1")
	c.Add("s5")
	c.Add("s5")
	c.Remove("s1")
	c.ChangeQuantity("s5", -1)

	want := 0
	for _, l := range c.Lines() {
		want += price(t, cat, l.ServiceID) * l.Quantity
	}
	if got := c.Total(); got != want {
		t.Fatalf("total %d does not match recomputed %d", got, want)
	}
}

func TestRemoveAndReset(t *testing.T) {
	c := New(catalog.Default())
	c.Add("s1")
	c.Add("s2")

	c.Remove("s1")
	if got := len(c.Lines()); got != 1 {
		t.Fatalf("expected 1 line after remove, got %d", got)
	}
	c.Remove("never-added")

	c.Reset()
	if !c.Empty() || c.Total() != 0 || c.ItemCount() != 0 {
		t.Fatal("reset must empty the cart")
	}
}

func TestTitlesPreserveCartOrder(t *testing.T) {
	c := New(catalog.Default())
	c.Add("s4")
	c.Add("s1")
	c.Add("s4")

	titles := c.Titles()
	if len(titles) != 2 {
		t.Fatalf("expected 2 titles, got %d", len(titles))
	}
	if titles[0] != "RETOQUE BARBA" || titles[1] != "CORTE Y BARBA TRADICIONAL" {
		t.Fatalf("titles must follow first-insertion order, got %v", titles)
	}
}
