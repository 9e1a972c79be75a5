package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"clinic-appointments-server/internal/models"
)

// MemoryStore is an in-memory SlotStore used by tests and available as a
// runtime driver for environments without a database. All access goes
// through a single RWMutex; Reserve holds the write lock for the whole
// check-then-set, which serializes concurrent reserves on a slot.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string]*models.Slot
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string]*models.Slot)}
}

func (s *MemoryStore) Create(_ context.Context, slot *models.Slot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	now := time.Now()
	slot.CreatedAt = now
	slot.UpdatedAt = now

	s.slots[slot.ID] = clone(slot)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.Slot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slot, ok := s.slots[id]
	if !ok {
		return nil, ErrSlotNotFound
	}
	return clone(slot), nil
}

func (s *MemoryStore) Save(_ context.Context, slot *models.Slot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.slots[slot.ID]; !ok {
		return ErrSlotNotFound
	}
	slot.UpdatedAt = time.Now()
	s.slots[slot.ID] = clone(slot)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.slots[id]; !ok {
		return ErrSlotNotFound
	}
	delete(s.slots, id)
	return nil
}

func (s *MemoryStore) Reserve(_ context.Context, id, userID string) (*models.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[id]
	if !ok {
		return nil, ErrSlotNotFound
	}
	if slot.Status != models.StatusAvailable {
		return nil, ErrSlotTaken
	}
	slot.MarkConfirmed(userID)
	slot.UpdatedAt = time.Now()
	return clone(slot), nil
}

func (s *MemoryStore) ListAll(_ context.Context) ([]models.Slot, error) {
	return s.filter(func(*models.Slot) bool { return true }), nil
}

func (s *MemoryStore) ListByDoctor(_ context.Context, doctorID string) ([]models.Slot, error) {
	return s.filter(func(slot *models.Slot) bool {
		return slot.DoctorID == doctorID
	}), nil
}

func (s *MemoryStore) ListByUser(_ context.Context, userID string) ([]models.Slot, error) {
	return s.filter(func(slot *models.Slot) bool {
		return slot.OccupantUserID != nil && *slot.OccupantUserID == userID
	}), nil
}

func (s *MemoryStore) ListByDoctorAndDate(_ context.Context, doctorID string, date models.Date) ([]models.Slot, error) {
	return s.filter(func(slot *models.Slot) bool {
		return slot.DoctorID == doctorID && slot.Date.Equal(date)
	}), nil
}

func (s *MemoryStore) ListByDoctorDateAvailable(_ context.Context, doctorID string, date models.Date) ([]models.Slot, error) {
	return s.filter(func(slot *models.Slot) bool {
		return slot.DoctorID == doctorID && slot.Date.Equal(date) && slot.Available
	}), nil
}

func (s *MemoryStore) ListByUserFrom(_ context.Context, userID string, from models.Date) ([]models.Slot, error) {
	return s.filter(func(slot *models.Slot) bool {
		return slot.OccupantUserID != nil && *slot.OccupantUserID == userID && !slot.Date.Before(from)
	}), nil
}

func (s *MemoryStore) ListByDoctorFrom(_ context.Context, doctorID string, from models.Date) ([]models.Slot, error) {
	return s.filter(func(slot *models.Slot) bool {
		return slot.DoctorID == doctorID && !slot.Date.Before(from)
	}), nil
}

func (s *MemoryStore) filter(match func(*models.Slot) bool) []models.Slot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []models.Slot{}
	for _, slot := range s.slots {
		if match(slot) {
			results = append(results, *clone(slot))
		}
	}
	return results
}

// clone copies a slot so callers never alias stored records.
func clone(slot *models.Slot) *models.Slot {
	copied := *slot
	if slot.OccupantUserID != nil {
		occupant := *slot.OccupantUserID
		copied.OccupantUserID = &occupant
	}
	return &copied
}
