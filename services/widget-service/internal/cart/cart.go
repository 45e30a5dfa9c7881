// Package cart implements the widget's service cart: ordered lines keyed by
// service id, with quantities that can never drop to zero or below.
package cart

import (
	"github.com/elpoderosocode/Barberia/services/widget-service/internal/catalog"
)

type Line struct {
	ServiceID string `json:"service_id"`
	Quantity  int    `json:"quantity"`
}

// Cart keeps at most one line per service, in first-insertion order. The
// order matters: the submission payload lists service titles in cart order.
type Cart struct {
	catalog *catalog.Catalog
	lines   []Line
}

func New(cat *catalog.Catalog) *Cart {
	return &Cart{catalog: cat}
}

// Add increments an existing line or appends a new one with quantity 1.
// Unknown service ids are ignored: callers are expected to pass ids drawn
// from the catalog, so this is a defensive no-op rather than an error.
func (c *Cart) Add(serviceID string) {
	if _, ok := c.catalog.ServiceByID(serviceID); !ok {
		return
	}
	for i := range c.lines {
		if c.lines[i].ServiceID == serviceID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, Line{ServiceID: serviceID, Quantity: 1})
}

// ChangeQuantity adjusts a line by delta. A resulting quantity of zero or
// less removes the line.
func (c *Cart) ChangeQuantity(serviceID string, delta int) {
	for i := range c.lines {
		if c.lines[i].ServiceID != serviceID {
			continue
		}
		c.lines[i].Quantity += delta
		if c.lines[i].Quantity <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		}
		return
	}
}

func (c *Cart) Remove(serviceID string) {
	for i := range c.lines {
		if c.lines[i].ServiceID == serviceID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

func (c *Cart) Total() int {
	total := 0
	for _, l := range c.lines {
		if s, ok := c.catalog.ServiceByID(l.ServiceID); ok {
			total += s.Price * l.Quantity
		}
	}
	return total
}

// ItemCount is the sum of quantities, used for the badge display.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Titles returns the service titles in cart order, as submitted upstream.
func (c *Cart) Titles() []string {
	out := make([]string, 0, len(c.lines))
	for _, l := range c.lines {
		if s, ok := c.catalog.ServiceByID(l.ServiceID); ok {
			out = append(out, s.Title)
		}
	}
	return out
}

func (c *Cart) Reset() {
	c.lines = nil
}
