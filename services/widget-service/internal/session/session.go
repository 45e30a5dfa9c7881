// Package session owns the booking state machine and the in-memory session
// state behind the widget. State changes go through transition methods and
// come back out as immutable snapshots, so a render surface can be driven
// idempotently from the current state alone.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/elpoderosocode/Barberia/services/widget-service/internal/cart"
	"github.com/elpoderosocode/Barberia/services/widget-service/internal/catalog"
)

type Step string

const (
	StepBrowsing      Step = "browsing"
	StepSlotSelection Step = "selecting-slot"
	StepContactEntry  Step = "entering-contact"
)

// DateWindowDays is how many days (starting today) the date picker offers.
const DateWindowDays = 7

// Selection tracks the staff/date/time choice. Time is only meaningful for
// the (staff, date) pair it was fetched under: changing either clears it.
type Selection struct {
	StaffID       string
	Date          time.Time // zero means unset; local calendar date
	Time          string
	StaffWhatsApp string
}

// FetchKey tags an availability fetch with the (staff, date) it was issued
// for, so responses that arrive after the selection moved on are discarded.
type FetchKey struct {
	StaffID string
	Date    string
}

type Session struct {
	id        string
	catalog   *catalog.Catalog
	filter    string
	category  string
	page      int
	cart      *cart.Cart
	selection Selection
	step      Step
	slots     []string
	slotsErr  string

	now func() time.Time
}

func New(cat *catalog.Catalog) *Session {
	return &Session{
		id:       uuid.NewString(),
		catalog:  cat,
		category: catalog.CategoryAll,
		page:     1,
		cart:     cart.New(cat),
		step:     StepBrowsing,
		now:      time.Now,
	}
}

func (s *Session) ID() string           { return s.id }
func (s *Session) Step() Step           { return s.step }
func (s *Session) Cart() *cart.Cart     { return s.cart }
func (s *Session) Selection() Selection { return s.selection }
func (s *Session) Page() int            { return s.page }
func (s *Session) Slots() []string      { return s.slots }

// SetFilter stores the browse inputs, clamping the page against the page
// count the filter produces.
func (s *Session) SetFilter(filterText, category string, page int) {
	if category == "" {
		category = catalog.CategoryAll
	}
	s.filter = filterText
	s.category = category
	_, pageCount := s.catalog.ListServices(filterText, category, 1)
	s.page = catalog.ClampPage(page, pageCount)
}

// ServicesPage returns the current page of the filtered catalog.
func (s *Session) ServicesPage() (items []catalog.Service, pageCount int) {
	return s.catalog.ListServices(s.filter, s.category, s.page)
}

// Advance moves to the next step when the gate for the current step is
// satisfied; otherwise it is a no-op. It reports whether the step changed.
func (s *Session) Advance() bool {
	switch s.step {
	case StepBrowsing:
		if s.cart.Empty() {
			return false
		}
		s.step = StepSlotSelection
		return true
	case StepSlotSelection:
		if !s.SelectionComplete() {
			return false
		}
		s.step = StepContactEntry
		return true
	default:
		return false
	}
}

// Back returns to the previous step, preserving selections.
func (s *Session) Back() bool {
	switch s.step {
	case StepContactEntry:
		s.step = StepSlotSelection
		return true
	case StepSlotSelection:
		s.step = StepBrowsing
		return true
	default:
		return false
	}
}

// SelectStaff stores the staff choice and clears the time slot. It reports
// whether a fresh availability fetch is due (both staff and date set).
func (s *Session) SelectStaff(staffID string) (needsFetch bool) {
	s.selection.StaffID = staffID
	s.selection.Time = ""
	s.selection.StaffWhatsApp = ""
	s.slots = nil
	s.slotsErr = ""
	return !s.selection.Date.IsZero()
}

// SelectDate stores the date choice and clears the time slot. It reports
// whether a fresh availability fetch is due.
func (s *Session) SelectDate(date time.Time) (needsFetch bool) {
	s.selection.Date = date
	s.selection.Time = ""
	s.slots = nil
	s.slotsErr = ""
	return s.selection.StaffID != ""
}

// SelectTime stores the slot choice; staff and date are untouched. Only a
// slot from the current availability set is accepted.
func (s *Session) SelectTime(slot string) bool {
	for _, t := range s.slots {
		if t == slot {
			s.selection.Time = slot
			return true
		}
	}
	return false
}

func (s *Session) SelectionComplete() bool {
	return s.selection.StaffID != "" && !s.selection.Date.IsZero() && s.selection.Time != ""
}

// CurrentFetchKey identifies the availability fetch the current selection
// calls for, if both staff and date are set.
func (s *Session) CurrentFetchKey() (FetchKey, bool) {
	if s.selection.StaffID == "" || s.selection.Date.IsZero() {
		return FetchKey{}, false
	}
	return FetchKey{StaffID: s.selection.StaffID, Date: FormatDate(s.selection.Date)}, true
}

// ApplyAvailability installs a fetched slot set and the staff contact token.
func (s *Session) ApplyAvailability(slots []string, whatsapp string) {
	s.slots = slots
	s.selection.StaffWhatsApp = whatsapp
	s.slotsErr = ""
}

// ApplyAvailabilityError records a failed fetch. The time stays unset and the
// user retries by re-selecting staff or date.
func (s *Session) ApplyAvailabilityError(msg string) {
	s.slots = nil
	s.slotsErr = msg
}

// Reset returns the session to its initial state, as after a completed
// submission: empty cart, cleared selection, page 1, browsing.
func (s *Session) Reset() {
	s.id = uuid.NewString()
	s.filter = ""
	s.category = catalog.CategoryAll
	s.page = 1
	s.cart.Reset()
	s.selection = Selection{}
	s.step = StepBrowsing
	s.slots = nil
	s.slotsErr = ""
}

// FormatDate renders a local calendar date as ISO YYYY-MM-DD using the
// date's own calendar fields, never a UTC conversion, to avoid
// off-by-one-day shifts across time zones.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseDate parses an ISO YYYY-MM-DD date in the local time zone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.Local)
}

// HumanDate renders a date the way the handoff message shows it.
func HumanDate(t time.Time) string {
	return t.Format("02/01/2006")
}
