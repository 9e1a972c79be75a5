package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"clinic-appointments-server/internal/cache"
	"clinic-appointments-server/internal/models"
	"clinic-appointments-server/internal/store"
)

func newTestEngine(t *testing.T) (*ReservationEngine, *store.MemoryStore) {
	t.Helper()
	memStore := store.NewMemoryStore()
	availabilityCache, err := cache.New(8, zap.NewNop())
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	return NewReservationEngine(memStore, availabilityCache, zap.NewNop()), memStore
}

func mustCreate(t *testing.T, e *ReservationEngine, doctorID, date, start, end string) *models.Slot {
	t.Helper()
	d, _ := models.ParseDate(date)
	st, _ := models.ParseTimeOfDay(start)
	en, _ := models.ParseTimeOfDay(end)
	slot, err := e.Create(context.Background(), doctorID, d, st, en)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return slot
}

func TestEngine_CreateDefaults(t *testing.T) {
	engine, _ := newTestEngine(t)
	slot := mustCreate(t, engine, "doc-3", "2024-06-01", "10:00:00", "10:30:00")

	if slot.ID == "" {
		t.Error("expected an assigned id")
	}
	if slot.Status != models.StatusAvailable || !slot.Available || slot.OccupantUserID != nil {
		t.Error("new slot must default to AVAILABLE with no occupant")
	}
	if !slot.Consistent() {
		t.Error("new slot violates the state invariant")
	}
}

func TestEngine_CreateRejectsInvertedWindow(t *testing.T) {
	engine, _ := newTestEngine(t)
	d, _ := models.ParseDate("2024-06-01")
	start, _ := models.ParseTimeOfDay("10:30:00")
	end, _ := models.ParseTimeOfDay("10:00:00")

	if _, err := engine.Create(context.Background(), "doc-3", d, start, end); !errors.Is(err, ErrInvalidTimeWindow) {
		t.Errorf("expected ErrInvalidTimeWindow, got %v", err)
	}

	// Zero-length windows are not bookable either.
	if _, err := engine.Create(context.Background(), "doc-3", d, start, start); !errors.Is(err, ErrInvalidTimeWindow) {
		t.Errorf("expected ErrInvalidTimeWindow for equal bounds, got %v", err)
	}
}

func TestEngine_ReserveAndConflict(t *testing.T) {
	engine, _ := newTestEngine(t)
	slot := mustCreate(t, engine, "doc-3", "2024-06-01", "10:00:00", "10:30:00")
	ctx := context.Background()

	reserved, err := engine.Reserve(ctx, slot.ID, "user-7")
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if reserved.Status != models.StatusConfirmed || reserved.Available {
		t.Error("reserve did not confirm the slot")
	}
	if reserved.OccupantUserID == nil || *reserved.OccupantUserID != "user-7" {
		t.Error("reserve did not record the occupant")
	}

	if _, err := engine.Reserve(ctx, slot.ID, "user-8"); !errors.Is(err, store.ErrSlotTaken) {
		t.Errorf("expected ErrSlotTaken, got %v", err)
	}

	// The losing reserve must leave the original occupant in place.
	current, _ := engine.Get(ctx, slot.ID)
	if *current.OccupantUserID != "user-7" {
		t.Errorf("occupant changed after conflict: %s", *current.OccupantUserID)
	}

	if _, err := engine.Reserve(ctx, "missing", "user-7"); !errors.Is(err, store.ErrSlotNotFound) {
		t.Errorf("expected ErrSlotNotFound, got %v", err)
	}
}

func TestEngine_CancelIsIdempotent(t *testing.T) {
	engine, _ := newTestEngine(t)
	slot := mustCreate(t, engine, "doc-3", "2024-06-01", "10:00:00", "10:30:00")
	ctx := context.Background()

	if _, err := engine.Reserve(ctx, slot.ID, "user-7"); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	cancelled, err := engine.Cancel(ctx, slot.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != models.StatusAvailable || !cancelled.Available || cancelled.OccupantUserID != nil {
		t.Error("cancel did not clear the slot")
	}

	// Cancelling an already-available slot re-clears it and still succeeds.
	again, err := engine.Cancel(ctx, slot.ID)
	if err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if again.Status != models.StatusAvailable || !again.Available || again.OccupantUserID != nil {
		t.Error("idempotent cancel returned a dirty slot")
	}

	if _, err := engine.Cancel(ctx, "missing"); !errors.Is(err, store.ErrSlotNotFound) {
		t.Errorf("expected ErrSlotNotFound, got %v", err)
	}
}

func TestEngine_IsAvailable(t *testing.T) {
	engine, _ := newTestEngine(t)
	slot := mustCreate(t, engine, "doc-3", "2024-06-01", "10:00:00", "10:30:00")
	ctx := context.Background()

	available, err := engine.IsAvailable(ctx, slot.ID)
	if err != nil {
		t.Fatalf("isAvailable: %v", err)
	}
	if !available {
		t.Error("fresh slot must be available")
	}

	if _, err := engine.Reserve(ctx, slot.ID, "user-7"); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	available, _ = engine.IsAvailable(ctx, slot.ID)
	if available {
		t.Error("confirmed slot must not be available")
	}

	if _, err := engine.IsAvailable(ctx, "missing"); !errors.Is(err, store.ErrSlotNotFound) {
		t.Errorf("expected ErrSlotNotFound, got %v", err)
	}
}

func TestEngine_UpdateDerivesAvailableFromStatus(t *testing.T) {
	engine, _ := newTestEngine(t)
	slot := mustCreate(t, engine, "doc-3", "2024-06-01", "10:00:00", "10:30:00")
	ctx := context.Background()

	occupant := "user-7"
	newDate, _ := models.ParseDate("2024-06-02")
	start, _ := models.ParseTimeOfDay("11:00:00")
	end, _ := models.ParseTimeOfDay("11:45:00")

	updated, err := engine.Update(ctx, slot.ID, SlotUpdate{
		Date:           newDate,
		StartTime:      start,
		EndTime:        end,
		Status:         models.StatusConfirmed,
		OccupantUserID: &occupant,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Available {
		t.Error("available must be derived false for CONFIRMED")
	}
	if !updated.Date.Equal(newDate) || updated.StartTime.String() != "11:00:00" {
		t.Error("update did not apply the new schedule")
	}

	// isAvailable reflects exactly what was last written.
	available, err := engine.IsAvailable(ctx, slot.ID)
	if err != nil {
		t.Fatalf("isAvailable: %v", err)
	}
	if available {
		t.Error("updated CONFIRMED slot must not report available")
	}
}

func TestEngine_UpdateRejectsInconsistentState(t *testing.T) {
	engine, _ := newTestEngine(t)
	slot := mustCreate(t, engine, "doc-3", "2024-06-01", "10:00:00", "10:30:00")
	ctx := context.Background()
	occupant := "user-7"

	base := SlotUpdate{
		Date:      slot.Date,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
	}

	confirmedNoOccupant := base
	confirmedNoOccupant.Status = models.StatusConfirmed
	if _, err := engine.Update(ctx, slot.ID, confirmedNoOccupant); !errors.Is(err, ErrInvalidSlotState) {
		t.Errorf("CONFIRMED without occupant: expected ErrInvalidSlotState, got %v", err)
	}

	availableWithOccupant := base
	availableWithOccupant.Status = models.StatusAvailable
	availableWithOccupant.OccupantUserID = &occupant
	if _, err := engine.Update(ctx, slot.ID, availableWithOccupant); !errors.Is(err, ErrInvalidSlotState) {
		t.Errorf("AVAILABLE with occupant: expected ErrInvalidSlotState, got %v", err)
	}

	unknownStatus := base
	unknownStatus.Status = models.SlotStatus("Confirmado")
	if _, err := engine.Update(ctx, slot.ID, unknownStatus); !errors.Is(err, ErrInvalidSlotState) {
		t.Errorf("unknown status: expected ErrInvalidSlotState, got %v", err)
	}

	valid := base
	valid.Status = models.StatusAvailable
	if _, err := engine.Update(ctx, "missing", valid); !errors.Is(err, store.ErrSlotNotFound) {
		t.Errorf("expected ErrSlotNotFound, got %v", err)
	}
}

func TestEngine_Delete(t *testing.T) {
	engine, _ := newTestEngine(t)
	slot := mustCreate(t, engine, "doc-3", "2024-06-01", "10:00:00", "10:30:00")
	ctx := context.Background()

	if err := engine.Delete(ctx, slot.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := engine.Delete(ctx, slot.ID); !errors.Is(err, store.ErrSlotNotFound) {
		t.Errorf("expected ErrSlotNotFound on second delete, got %v", err)
	}
}
