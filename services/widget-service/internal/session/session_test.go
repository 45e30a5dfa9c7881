package session

import (
	"testing"
	"time"

	"github.com/elpoderosocode/Barberia/services/widget-service/internal/catalog"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s := New(catalog.Default())
	s.now = func() time.Time {
		return time.Date(2024, 6, 10, 12, 0, 0, 0, time.Local)
	}
	return s
}

func mustDate(t *testing.T, v string) time.Time {
	t.Helper()
	d, err := ParseDate(v)
	if err != nil {
		t.Fatalf("parse date %q: %v", v, err)
	}
	return d
}

func TestAdvanceRequiresNonEmptyCart(t *testing.T) {
	s := newTestSession(t)

	if s.Advance() {
		t.Fatal("advance with empty cart must be a no-op")
	}
	if s.Step() != StepBrowsing {
		t.Fatalf("step changed to %q", s.Step())
	}

	s.Cart().Add("s1")
	if !s.Advance() {
		t.Fatal("advance with a filled cart must move on")
	}
	if s.Step() != StepSlotSelection {
		t.Fatalf("expected slot selection, got %q", s.Step())
	}
}

func TestAdvanceRequiresFullSelection(t *testing.T) {
	s := newTestSession(t)
	s.Cart().Add("s1")
	s.Advance()

	if s.Advance() {
		t.Fatal("advance with nothing selected must be a no-op")
	}

	s.SelectStaff("c1")
	s.SelectDate(mustDate(t, "2024-06-10"))
	if s.Advance() {
		t.Fatal("advance without a time slot must be a no-op")
	}

	s.ApplyAvailability([]string{"10:00"}, "57300")
	if !s.SelectTime("10:00") {
		t.Fatal("selecting a fetched slot must succeed")
	}
	if !s.Advance() {
		t.Fatal("advance with a full selection must move on")
	}
	if s.Step() != StepContactEntry {
		t.Fatalf("expected contact entry, got %q", s.Step())
	}
}

func TestSelectingStaffOrDateClearsTime(t *testing.T) {
	s := newTestSession(t)
	s.Cart().Add("s1")
	s.Advance()

	s.SelectStaff("c1")
	s.SelectDate(mustDate(t, "2024-06-10"))
	s.ApplyAvailability([]string{"10:00", "11:00"}, "57300")
	s.SelectTime("10:00")

	s.SelectStaff("c2")
	sel := s.Selection()
	if sel.Time != "" {
		t.Fatal("changing staff must clear the time slot")
	}
	if sel.Date.IsZero() {
		t.Fatal("changing staff must not clear the date")
	}
	if sel.StaffWhatsApp != "" {
		t.Fatal("changing staff must clear the contact token")
	}

	s.ApplyAvailability([]string{"14:00"}, "57301")
	s.SelectTime("14:00")
	s.SelectDate(mustDate(t, "2024-06-11"))
	sel = s.Selection()
	if sel.Time != "" {
		t.Fatal("changing date must clear the time slot")
	}
	if sel.StaffID != "c2" {
		t.Fatal("changing date must not clear the staff")
	}
}

func TestSelectTimeKeepsStaffAndDate(t *testing.T) {
	s := newTestSession(t)
	s.Cart().Add("s1")
	s.Advance()
	s.SelectStaff("c1")
	s.SelectDate(mustDate(t, "2024-06-10"))
	s.ApplyAvailability([]string{"10:00"}, "57300")

	s.SelectTime("10:00")
	sel := s.Selection()
	if sel.StaffID != "c1" || sel.Date.IsZero() || sel.Time != "10:00" {
		t.Fatalf("selecting a slot must not clear staff/date: %+v", sel)
	}
}

func TestSelectTimeRejectsUnknownSlot(t *testing.T) {
	s := newTestSession(t)
	s.ApplyAvailability([]string{"10:00"}, "")
	if s.SelectTime("23:00") {
		t.Fatal("a slot outside the fetched set must be rejected")
	}
	if s.Selection().Time != "" {
		t.Fatal("rejected slot must not be stored")
	}
}

func TestFetchTriggerSemantics(t *testing.T) {
	s := newTestSession(t)

	if s.SelectStaff("c1") {
		t.Fatal("staff alone must not trigger a fetch")
	}
	if _, ok := s.CurrentFetchKey(); ok {
		t.Fatal("no fetch key without a date")
	}

	if !s.SelectDate(mustDate(t, "2024-06-10")) {
		t.Fatal("date with staff set must trigger a fetch")
	}
	key, ok := s.CurrentFetchKey()
	if !ok {
		t.Fatal("expected a fetch key")
	}
	if key != (FetchKey{StaffID: "c1", Date: "2024-06-10"}) {
		t.Fatalf("unexpected fetch key %+v", key)
	}

	if !s.SelectStaff("c2") {
		t.Fatal("staff change with date set must trigger a fetch")
	}
}

func TestBackPreservesSelection(t *testing.T) {
	s := newTestSession(t)
	s.Cart().Add("s1")
	s.Advance()
	s.SelectStaff("c1")
	s.SelectDate(mustDate(t, "2024-06-10"))
	s.ApplyAvailability([]string{"10:00"}, "57300")
	s.SelectTime("10:00")
	s.Advance()

	if !s.Back() {
		t.Fatal("back from contact entry must work")
	}
	if s.Step() != StepSlotSelection {
		t.Fatalf("expected slot selection, got %q", s.Step())
	}
	sel := s.Selection()
	if sel.StaffID != "c1" || sel.Time != "10:00" {
		t.Fatalf("back must preserve the selection: %+v", sel)
	}

	snap := s.Snapshot()
	if snap.Selection.StaffID != "c1" || snap.Selection.Date != "2024-06-10" || snap.Selection.Time != "10:00" {
		t.Fatalf("snapshot must restore the selected staff/date/slot: %+v", snap.Selection)
	}

	if !s.Back() {
		t.Fatal("back from slot selection must work")
	}
	if s.Step() != StepBrowsing {
		t.Fatalf("expected browsing, got %q", s.Step())
	}
	if s.Back() {
		t.Fatal("back from browsing must be a no-op")
	}
}

func TestAvailabilityErrorLeavesTimeUnset(t *testing.T) {
	s := newTestSession(t)
	s.ApplyAvailabilityError("error cargando horarios")

	if s.Selection().Time != "" {
		t.Fatal("a failed fetch must leave the time unset")
	}
	snap := s.Snapshot()
	if snap.SlotsErr == "" {
		t.Fatal("snapshot must carry the fetch error for the inline message")
	}
	if len(snap.Slots) != 0 {
		t.Fatal("a failed fetch must clear the slot set")
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	s := newTestSession(t)
	oldID := s.ID()

	s.SetFilter("corte", "servicio_clasico", 1)
	s.Cart().Add("s1")
	s.Advance()
	s.SelectStaff("c1")
	s.SelectDate(mustDate(t, "2024-06-10"))
	s.ApplyAvailability([]string{"10:00"}, "57300")
	s.SelectTime("10:00")
	s.Advance()

	s.Reset()

	if s.Step() != StepBrowsing {
		t.Fatalf("expected browsing after reset, got %q", s.Step())
	}
	if !s.Cart().Empty() {
		t.Fatal("cart must be empty after reset")
	}
	if s.Page() != 1 {
		t.Fatalf("page must reset to 1, got %d", s.Page())
	}
	if sel := s.Selection(); sel.StaffID != "" || !sel.Date.IsZero() || sel.Time != "" || sel.StaffWhatsApp != "" {
		t.Fatalf("selection must be cleared: %+v", sel)
	}
	if s.ID() == oldID {
		t.Fatal("reset must start a fresh session id")
	}
}

func TestSetFilterClampsPage(t *testing.T) {
	s := newTestSession(t)

	s.SetFilter("", catalog.CategoryAll, 2)
	if s.Page() != 2 {
		t.Fatalf("page 2 is valid unfiltered, got %d", s.Page())
	}

	// Narrowing to one page pulls the stale page back.
	s.SetFilter("", "premium", 2)
	if s.Page() != 1 {
		t.Fatalf("expected clamp to 1, got %d", s.Page())
	}
}

func TestSnapshotDateWindow(t *testing.T) {
	s := newTestSession(t)
	snap := s.Snapshot()

	if len(snap.Dates) != DateWindowDays {
		t.Fatalf("expected %d dates, got %d", DateWindowDays, len(snap.Dates))
	}
	if snap.Dates[0] != "2024-06-10" {
		t.Fatalf("window must start today, got %q", snap.Dates[0])
	}
	if snap.Dates[6] != "2024-06-16" {
		t.Fatalf("window must span 7 days, got %q", snap.Dates[6])
	}
}

func TestFormatDateUsesLocalCalendarFields(t *testing.T) {
	// 23:30 local on the 10th must stay the 10th regardless of what UTC says.
	d := time.Date(2024, 6, 10, 23, 30, 0, 0, time.Local)
	if got := FormatDate(d); got != "2024-06-10" {
		t.Fatalf("expected 2024-06-10, got %q", got)
	}
}

func TestSnapshotCartView(t *testing.T) {
	s := newTestSession(t)
	s.Cart().Add("s1")
	s.Cart().Add("s1")
	s.Cart().Add("s4")

	snap := s.Snapshot()
	if snap.Cart.ItemCount != 3 {
		t.Fatalf("expected item count 3, got %d", snap.Cart.ItemCount)
	}
	if len(snap.Cart.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(snap.Cart.Lines))
	}
	first := snap.Cart.Lines[0]
	if first.Title != "CORTE Y BARBA TRADICIONAL" || first.Quantity != 2 || first.Subtotal != 80000 {
		t.Fatalf("unexpected first line %+v", first)
	}
	if snap.Cart.Total != 95000 {
		t.Fatalf("expected total 95000, got %d", snap.Cart.Total)
	}
}
