// Package widget is the controller behind the booking widget: it owns the
// single in-memory session, talks to the agenda endpoint, and hands every
// caller back a snapshot of the resulting state.
package widget

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/elpoderosocode/Barberia/services/widget-service/internal/agenda"
	"github.com/elpoderosocode/Barberia/services/widget-service/internal/catalog"
	"github.com/elpoderosocode/Barberia/services/widget-service/internal/handoff"
	"github.com/elpoderosocode/Barberia/services/widget-service/internal/session"
)

var (
	ErrUnknownStaff = errors.New("unknown staff")
	ErrBadDate      = errors.New("invalid date")
	ErrUnknownSlot  = errors.New("slot not available")
	ErrWrongStep    = errors.New("operation not valid at this step")
)

// ValidationError marks a missing contact field. Recovered locally: the
// user is re-prompted and no state transition happens.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return e.Field + " is required"
}

// AgendaClient is the slice of the agenda client the controller needs.
type AgendaClient interface {
	FetchSlots(ctx context.Context, staffID, date string) (agenda.Availability, error)
	Submit(ctx context.Context, req agenda.BookingRequest) (agenda.SubmitResult, error)
}

type Controller struct {
	mu      sync.Mutex
	catalog *catalog.Catalog
	session *session.Session
	agenda  AgendaClient
	logger  *slog.Logger
}

func New(cat *catalog.Catalog, agendaClient AgendaClient, logger *slog.Logger) *Controller {
	return &Controller{
		catalog: cat,
		session: session.New(cat),
		agenda:  agendaClient,
		logger:  logger,
	}
}

func (c *Controller) State() session.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Snapshot()
}

func (c *Controller) StaffList() []catalog.Staff {
	return c.catalog.StaffList()
}

// ServicesPage is the browse view: one fixed-size page of the filtered
// catalog plus the snapshot the filter change produced.
type ServicesPage struct {
	Items     []catalog.Service `json:"items"`
	PageCount int               `json:"page_count"`
	State     session.Snapshot  `json:"state"`
}

func (c *Controller) BrowseServices(filterText, category string, page int) ServicesPage {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.SetFilter(filterText, category, page)
	items, pageCount := c.session.ServicesPage()
	return ServicesPage{
		Items:     items,
		PageCount: pageCount,
		State:     c.session.Snapshot(),
	}
}

func (c *Controller) AddToCart(serviceID string) session.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Cart().Add(serviceID)
	return c.session.Snapshot()
}

func (c *Controller) ChangeQuantity(serviceID string, delta int) session.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Cart().ChangeQuantity(serviceID, delta)
	return c.session.Snapshot()
}

func (c *Controller) RemoveFromCart(serviceID string) session.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Cart().Remove(serviceID)
	return c.session.Snapshot()
}

// Advance moves the step machine forward when its gate allows; a gated
// advance is a no-op, not an error.
func (c *Controller) Advance() session.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Advance()
	return c.session.Snapshot()
}

func (c *Controller) Back() session.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Back()
	return c.session.Snapshot()
}

// SelectStaff stores the staff choice and, when a date is already chosen,
// fetches availability for the new (staff, date) pair.
func (c *Controller) SelectStaff(ctx context.Context, staffID string) (session.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.Step() != session.StepSlotSelection {
		return c.session.Snapshot(), ErrWrongStep
	}
	if _, ok := c.catalog.StaffByID(staffID); !ok {
		return c.session.Snapshot(), ErrUnknownStaff
	}
	if c.session.SelectStaff(staffID) {
		c.fetchAvailabilityLocked(ctx)
	}
	return c.session.Snapshot(), nil
}

// SelectDate stores a local calendar date and, when a staff member is
// already chosen, fetches availability for the pair.
func (c *Controller) SelectDate(ctx context.Context, date string) (session.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.Step() != session.StepSlotSelection {
		return c.session.Snapshot(), ErrWrongStep
	}
	d, err := session.ParseDate(date)
	if err != nil {
		return c.session.Snapshot(), ErrBadDate
	}
	if c.session.SelectDate(d) {
		c.fetchAvailabilityLocked(ctx)
	}
	return c.session.Snapshot(), nil
}

// SelectSlot stores the time slot; staff and date stay as they are.
func (c *Controller) SelectSlot(slot string) (session.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.session.SelectTime(slot) {
		return c.session.Snapshot(), ErrUnknownSlot
	}
	return c.session.Snapshot(), nil
}

// fetchAvailabilityLocked runs the fetch for the current (staff, date) pair.
// The lock is released for the duration of the network call; a response is
// applied only if the selection still matches the key it was fetched under,
// so a reply for a superseded selection is simply dropped.
func (c *Controller) fetchAvailabilityLocked(ctx context.Context) {
	key, ok := c.session.CurrentFetchKey()
	if !ok {
		return
	}
	c.mu.Unlock()
	avail, err := c.agenda.FetchSlots(ctx, key.StaffID, key.Date)
	c.mu.Lock()

	cur, ok := c.session.CurrentFetchKey()
	if !ok || cur != key {
		c.logger.Debug("discarding stale availability response",
			"staff_id", key.StaffID, "date", key.Date)
		return
	}
	if err != nil {
		c.logger.Warn("availability fetch failed",
			"staff_id", key.StaffID, "date", key.Date, "err", err)
		c.session.ApplyAvailabilityError("error cargando horarios")
		return
	}
	c.session.ApplyAvailability(avail.Slots, avail.WhatsApp)
}

// SubmitOutcome is what the render surface needs after a submission: the
// classified outcome, a user-facing message, and on confirmation the
// WhatsApp handoff link.
type SubmitOutcome struct {
	Outcome     agenda.Outcome   `json:"outcome"`
	Message     string           `json:"message"`
	WhatsAppURL string           `json:"whatsapp_url,omitempty"`
	State       session.Snapshot `json:"state"`
}

// Submit validates the contact fields, posts the booking, and on the
// opaque-channel confirmation builds the handoff link and resets the
// session. An explicit failure leaves all state in place for retry.
func (c *Controller) Submit(ctx context.Context, name, phone string) (SubmitOutcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)

	if c.session.Step() != session.StepContactEntry {
		return SubmitOutcome{State: c.session.Snapshot()}, ErrWrongStep
	}
	if name == "" {
		return SubmitOutcome{State: c.session.Snapshot()}, &ValidationError{Field: "name"}
	}
	if phone == "" {
		return SubmitOutcome{State: c.session.Snapshot()}, &ValidationError{Field: "phone"}
	}

	sel := c.session.Selection()
	req := agenda.BookingRequest{
		Action:   agenda.ActionBook,
		Name:     name,
		Phone:    phone,
		Barber:   sel.StaffID,
		Date:     session.FormatDate(sel.Date),
		Time:     sel.Time,
		Services: c.session.Cart().Titles(),
	}

	c.mu.Unlock()
	res, err := c.agenda.Submit(ctx, req)
	c.mu.Lock()
	if err != nil {
		return SubmitOutcome{State: c.session.Snapshot()}, err
	}

	if res.Outcome == agenda.ConfirmedViaOpaqueChannel {
		staffName := ""
		if st, ok := c.catalog.StaffByID(sel.StaffID); ok {
			staffName = st.Name
		}
		msg := handoff.ComposeMessage(name, req.Services, staffName, session.HumanDate(sel.Date), sel.Time, phone)
		link := handoff.Link(sel.StaffWhatsApp, msg)

		c.session.Reset()
		c.logger.Info("booking confirmed", "barber", req.Barber, "date", req.Date, "time", req.Time)
		return SubmitOutcome{
			Outcome:     agenda.ConfirmedViaOpaqueChannel,
			Message:     "🎉 ¡Cita Agendada! Tu cita fue registrada exitosamente.",
			WhatsAppURL: link,
			State:       c.session.Snapshot(),
		}, nil
	}

	return SubmitOutcome{
		Outcome: agenda.ExplicitFailure,
		Message: res.Detail,
		State:   c.session.Snapshot(),
	}, nil
}
