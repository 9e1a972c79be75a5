package service

import (
	"context"

	"go.uber.org/zap"

	"clinic-appointments-server/internal/cache"
	"clinic-appointments-server/internal/models"
	"clinic-appointments-server/internal/store"
)

// AvailabilityQuery provides the read-side projections over the slot store
// for client-facing listings. All queries return an empty slice, never an
// error, when nothing matches. Date comparisons are calendar-date only: a
// slot earlier today still counts as upcoming for the whole day.
type AvailabilityQuery struct {
	store  store.SlotStore
	cache  *cache.AvailabilityCache
	logger *zap.Logger
}

// NewAvailabilityQuery creates an AvailabilityQuery.
func NewAvailabilityQuery(s store.SlotStore, c *cache.AvailabilityCache, logger *zap.Logger) *AvailabilityQuery {
	return &AvailabilityQuery{store: s, cache: c, logger: logger}
}

// AllSlots returns every registered slot.
func (q *AvailabilityQuery) AllSlots(ctx context.Context) ([]models.Slot, error) {
	return q.store.ListAll(ctx)
}

// SlotsForUser returns the full reservation history of a user.
func (q *AvailabilityQuery) SlotsForUser(ctx context.Context, userID string) ([]models.Slot, error) {
	return q.store.ListByUser(ctx, userID)
}

// UpcomingForUser returns the user's reservations on or after today.
func (q *AvailabilityQuery) UpcomingForUser(ctx context.Context, userID string, today models.Date) ([]models.Slot, error) {
	return q.store.ListByUserFrom(ctx, userID, today)
}

// UpcomingForDoctor returns the doctor's slots on or after today.
func (q *AvailabilityQuery) UpcomingForDoctor(ctx context.Context, doctorID string, today models.Date) ([]models.Slot, error) {
	return q.store.ListByDoctorFrom(ctx, doctorID, today)
}

// SlotsForDoctorOnDate returns all of a doctor's slots on one date.
func (q *AvailabilityQuery) SlotsForDoctorOnDate(ctx context.Context, doctorID string, date models.Date) ([]models.Slot, error) {
	return q.store.ListByDoctorAndDate(ctx, doctorID, date)
}

// AvailableSlotsForDoctorOnDate returns only the bookable slots of a doctor
// on one date. This is the hot listing behind the booking flow, so it reads
// through the availability cache; the reservation engine invalidates the
// entry on every mutation of that doctor and date.
func (q *AvailabilityQuery) AvailableSlotsForDoctorOnDate(ctx context.Context, doctorID string, date models.Date) ([]models.Slot, error) {
	if slots, ok := q.cache.Get(doctorID, date); ok {
		return slots, nil
	}

	slots, err := q.store.ListByDoctorDateAvailable(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}

	q.cache.Store(doctorID, date, slots)
	q.logger.Debug("availability listing loaded",
		zap.String("doctor_id", doctorID),
		zap.String("date", date.String()),
		zap.Int("count", len(slots)),
	)
	return slots, nil
}
