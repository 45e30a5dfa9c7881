package session

// Snapshot is the immutable view the render surface consumes. Every mutation
// produces a fresh snapshot; rendering from it is idempotent.
type Snapshot struct {
	SessionID string            `json:"session_id"`
	Step      Step              `json:"step"`
	Filter    string            `json:"filter"`
	Category  string            `json:"category"`
	Page      int               `json:"page"`
	PageCount int               `json:"page_count"`
	Cart      CartSnapshot      `json:"cart"`
	Selection SelectionSnapshot `json:"selection"`
	Dates     []string          `json:"dates"`
	Slots     []string          `json:"slots"`
	SlotsErr  string            `json:"slots_error,omitempty"`
}

type CartSnapshot struct {
	Lines     []LineSnapshot `json:"lines"`
	Total     int            `json:"total"`
	ItemCount int            `json:"item_count"`
}

type LineSnapshot struct {
	ServiceID string `json:"service_id"`
	Title     string `json:"title"`
	UnitPrice int    `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  int    `json:"subtotal"`
}

type SelectionSnapshot struct {
	StaffID string `json:"staff_id,omitempty"`
	Date    string `json:"date,omitempty"`
	Time    string `json:"time,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	_, pageCount := s.catalog.ListServices(s.filter, s.category, 1)

	lines := make([]LineSnapshot, 0, len(s.cart.Lines()))
	for _, l := range s.cart.Lines() {
		svc, ok := s.catalog.ServiceByID(l.ServiceID)
		if !ok {
			continue
		}
		lines = append(lines, LineSnapshot{
			ServiceID: l.ServiceID,
			Title:     svc.Title,
			UnitPrice: svc.Price,
			Quantity:  l.Quantity,
			Subtotal:  svc.Price * l.Quantity,
		})
	}

	sel := SelectionSnapshot{
		StaffID: s.selection.StaffID,
		Time:    s.selection.Time,
	}
	if !s.selection.Date.IsZero() {
		sel.Date = FormatDate(s.selection.Date)
	}

	today := s.now()
	dates := make([]string, 0, DateWindowDays)
	for i := 0; i < DateWindowDays; i++ {
		dates = append(dates, FormatDate(today.AddDate(0, 0, i)))
	}

	slots := make([]string, len(s.slots))
	copy(slots, s.slots)

	return Snapshot{
		SessionID: s.id,
		Step:      s.step,
		Filter:    s.filter,
		Category:  s.category,
		Page:      s.page,
		PageCount: pageCount,
		Cart: CartSnapshot{
			Lines:     lines,
			Total:     s.cart.Total(),
			ItemCount: s.cart.ItemCount(),
		},
		Selection: sel,
		Dates:     dates,
		Slots:     slots,
		SlotsErr:  s.slotsErr,
	}
}
