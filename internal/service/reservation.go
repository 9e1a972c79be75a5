package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"clinic-appointments-server/internal/cache"
	"clinic-appointments-server/internal/models"
	"clinic-appointments-server/internal/store"
)

// Errors returned by the reservation engine on invalid input.
var (
	ErrInvalidTimeWindow = errors.New("startTime must be before endTime")
	ErrInvalidSlotState  = errors.New("status and occupant do not agree")
)

// SlotUpdate carries the caller-supplied fields for an administrative
// overwrite of a slot. DoctorID is immutable and deliberately absent.
type SlotUpdate struct {
	Date           models.Date
	StartTime      models.TimeOfDay
	EndTime        models.TimeOfDay
	Status         models.SlotStatus
	OccupantUserID *string
}

// ReservationEngine enforces the slot booking state machine on top of a
// SlotStore. The only two transitions are Reserve (AVAILABLE -> CONFIRMED)
// and Cancel (back to AVAILABLE, idempotent); Update is the administrative
// escape hatch and still refuses state combinations that would break the
// status/occupant/available coupling.
type ReservationEngine struct {
	store  store.SlotStore
	cache  *cache.AvailabilityCache
	logger *zap.Logger
}

// NewReservationEngine creates a ReservationEngine.
func NewReservationEngine(s store.SlotStore, c *cache.AvailabilityCache, logger *zap.Logger) *ReservationEngine {
	return &ReservationEngine{store: s, cache: c, logger: logger}
}

// Create registers a new bookable time block for a doctor. Slots always
// start out AVAILABLE with no occupant.
func (e *ReservationEngine) Create(ctx context.Context, doctorID string, date models.Date, start, end models.TimeOfDay) (*models.Slot, error) {
	if !start.Before(end) {
		return nil, ErrInvalidTimeWindow
	}

	slot := &models.Slot{
		DoctorID:  doctorID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Status:    models.StatusAvailable,
		Available: true,
	}
	if err := e.store.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}

	e.cache.Invalidate(slot.DoctorID, slot.Date)
	e.logger.Info("slot created",
		zap.String("slot_id", slot.ID),
		zap.String("doctor_id", slot.DoctorID),
		zap.String("date", slot.Date.String()),
	)
	return slot, nil
}

// Get fetches a single slot.
func (e *ReservationEngine) Get(ctx context.Context, id string) (*models.Slot, error) {
	return e.store.Get(ctx, id)
}

// Reserve transitions an AVAILABLE slot to CONFIRMED for userID. The
// check-then-set runs as one atomic unit in the store, so concurrent
// reserves on the same slot produce exactly one winner; the rest get
// store.ErrSlotTaken and the slot keeps its original occupant.
func (e *ReservationEngine) Reserve(ctx context.Context, id, userID string) (*models.Slot, error) {
	slot, err := e.store.Reserve(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	e.cache.Invalidate(slot.DoctorID, slot.Date)
	e.logger.Info("slot reserved",
		zap.String("slot_id", slot.ID),
		zap.String("doctor_id", slot.DoctorID),
		zap.String("user_id", userID),
	)
	return slot, nil
}

// Cancel releases a slot back to AVAILABLE and clears its occupant.
// Cancelling an already-available slot simply re-clears it.
func (e *ReservationEngine) Cancel(ctx context.Context, id string) (*models.Slot, error) {
	slot, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	slot.MarkAvailable()
	if err := e.store.Save(ctx, slot); err != nil {
		return nil, err
	}

	e.cache.Invalidate(slot.DoctorID, slot.Date)
	e.logger.Info("slot cancelled",
		zap.String("slot_id", slot.ID),
		zap.String("doctor_id", slot.DoctorID),
	)
	return slot, nil
}

// IsAvailable reports whether the slot can currently be reserved. Both the
// stored flag and the status are checked independently, mirroring the
// upstream contract.
func (e *ReservationEngine) IsAvailable(ctx context.Context, id string) (bool, error) {
	slot, err := e.store.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return slot.Available && slot.Status == models.StatusAvailable, nil
}

// Update overwrites a slot's mutable fields from caller-supplied values.
// The status must be one of the two known states and must agree with the
// occupant; the available flag is always derived from the status so the two
// can never be written independently.
func (e *ReservationEngine) Update(ctx context.Context, id string, fields SlotUpdate) (*models.Slot, error) {
	if !fields.Status.Valid() {
		return nil, ErrInvalidSlotState
	}
	if fields.Status == models.StatusConfirmed && fields.OccupantUserID == nil {
		return nil, ErrInvalidSlotState
	}
	if fields.Status == models.StatusAvailable && fields.OccupantUserID != nil {
		return nil, ErrInvalidSlotState
	}

	slot, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	previousDate := slot.Date

	slot.Date = fields.Date
	slot.StartTime = fields.StartTime
	slot.EndTime = fields.EndTime
	slot.Status = fields.Status
	slot.OccupantUserID = fields.OccupantUserID
	slot.Available = fields.Status == models.StatusAvailable

	if err := e.store.Save(ctx, slot); err != nil {
		return nil, err
	}

	e.cache.Invalidate(slot.DoctorID, previousDate)
	e.cache.Invalidate(slot.DoctorID, slot.Date)
	e.logger.Info("slot updated",
		zap.String("slot_id", slot.ID),
		zap.String("status", string(slot.Status)),
	)
	return slot, nil
}

// Delete removes a slot permanently.
func (e *ReservationEngine) Delete(ctx context.Context, id string) error {
	slot, err := e.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := e.store.Delete(ctx, id); err != nil {
		return err
	}

	e.cache.Invalidate(slot.DoctorID, slot.Date)
	e.logger.Info("slot deleted",
		zap.String("slot_id", id),
		zap.String("doctor_id", slot.DoctorID),
	)
	return nil
}
