package store

import (
	"context"
	"errors"

	"clinic-appointments-server/internal/models"
)

// Errors returned by SlotStore implementations.
var (
	ErrSlotNotFound = errors.New("slot not found")
	ErrSlotTaken    = errors.New("slot is already confirmed")
)

// SlotStore is durable keyed storage of appointment slots plus the lookup
// predicates needed by the reservation engine and the availability queries.
//
// Reserve is the one conditional write: it must atomically check that the
// slot is still AVAILABLE and confirm it for the given user, so that two
// concurrent reserves on the same slot yield exactly one success and one
// ErrSlotTaken. Everything else is plain last-writer-wins CRUD.
type SlotStore interface {
	Create(ctx context.Context, slot *models.Slot) error
	Get(ctx context.Context, id string) (*models.Slot, error)
	Save(ctx context.Context, slot *models.Slot) error
	Delete(ctx context.Context, id string) error
	Reserve(ctx context.Context, id, userID string) (*models.Slot, error)

	ListAll(ctx context.Context) ([]models.Slot, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]models.Slot, error)
	ListByUser(ctx context.Context, userID string) ([]models.Slot, error)
	ListByDoctorAndDate(ctx context.Context, doctorID string, date models.Date) ([]models.Slot, error)
	ListByDoctorDateAvailable(ctx context.Context, doctorID string, date models.Date) ([]models.Slot, error)
	ListByUserFrom(ctx context.Context, userID string, from models.Date) ([]models.Slot, error)
	ListByDoctorFrom(ctx context.Context, doctorID string, from models.Date) ([]models.Slot, error)
}
