package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"clinic-appointments-server/internal/models"
)

// GormStore is the MySQL-backed SlotStore.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a SlotStore on top of an initialized gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, slot *models.Slot) error {
	return s.db.WithContext(ctx).Create(slot).Error
}

func (s *GormStore) Get(ctx context.Context, id string) (*models.Slot, error) {
	var slot models.Slot
	if err := s.db.WithContext(ctx).First(&slot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return &slot, nil
}

func (s *GormStore) Save(ctx context.Context, slot *models.Slot) error {
	// Save would upsert a missing row, so verify existence first.
	if _, err := s.Get(ctx, slot.ID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Save(slot).Error
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	slot, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(slot).Error
}

// Reserve confirms the slot for userID with a single conditional UPDATE keyed
// on the expected AVAILABLE status. The database serializes concurrent
// reserves on the same row; the loser affects zero rows and gets ErrSlotTaken.
func (s *GormStore) Reserve(ctx context.Context, id, userID string) (*models.Slot, error) {
	res := s.db.WithContext(ctx).Model(&models.Slot{}).
		Where("id = ? AND status = ?", id, models.StatusAvailable).
		Updates(map[string]interface{}{
			"status":           models.StatusConfirmed,
			"occupant_user_id": userID,
			"available":        false,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing slot from one already confirmed.
		if _, err := s.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrSlotTaken
	}
	return s.Get(ctx, id)
}

func (s *GormStore) ListAll(ctx context.Context) ([]models.Slot, error) {
	return s.list(ctx, s.db.WithContext(ctx))
}

func (s *GormStore) ListByDoctor(ctx context.Context, doctorID string) ([]models.Slot, error) {
	return s.list(ctx, s.db.WithContext(ctx).Where("doctor_id = ?", doctorID))
}

func (s *GormStore) ListByUser(ctx context.Context, userID string) ([]models.Slot, error) {
	return s.list(ctx, s.db.WithContext(ctx).Where("occupant_user_id = ?", userID))
}

func (s *GormStore) ListByDoctorAndDate(ctx context.Context, doctorID string, date models.Date) ([]models.Slot, error) {
	return s.list(ctx, s.db.WithContext(ctx).Where("doctor_id = ? AND date = ?", doctorID, date))
}

func (s *GormStore) ListByDoctorDateAvailable(ctx context.Context, doctorID string, date models.Date) ([]models.Slot, error) {
	return s.list(ctx, s.db.WithContext(ctx).
		Where("doctor_id = ? AND date = ? AND available = ?", doctorID, date, true))
}

func (s *GormStore) ListByUserFrom(ctx context.Context, userID string, from models.Date) ([]models.Slot, error) {
	return s.list(ctx, s.db.WithContext(ctx).Where("occupant_user_id = ? AND date >= ?", userID, from))
}

func (s *GormStore) ListByDoctorFrom(ctx context.Context, doctorID string, from models.Date) ([]models.Slot, error) {
	return s.list(ctx, s.db.WithContext(ctx).Where("doctor_id = ? AND date >= ?", doctorID, from))
}

func (s *GormStore) list(ctx context.Context, query *gorm.DB) ([]models.Slot, error) {
	var slots []models.Slot
	if err := query.Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}
