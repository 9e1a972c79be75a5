package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"clinic-appointments-server/internal/models"
)

// AvailabilityCache keeps recently requested available-slot listings keyed by
// (doctor, date). Entries are evicted LRU and invalidated whenever a slot of
// that doctor and date is mutated. A nil *AvailabilityCache is a valid
// disabled cache; all methods degrade to pass-through.
type AvailabilityCache struct {
	cache  *lru.Cache[string, []models.Slot]
	mu     sync.RWMutex
	logger *zap.Logger
}

// New creates an AvailabilityCache holding up to size entries.
// Returns nil (cache disabled) when size is zero.
func New(size int, logger *zap.Logger) (*AvailabilityCache, error) {
	if size == 0 {
		logger.Info("availability cache disabled")
		return nil, nil
	}

	cache, err := lru.New[string, []models.Slot](size)
	if err != nil {
		return nil, err
	}

	return &AvailabilityCache{
		cache:  cache,
		logger: logger.Named("cache"),
	}, nil
}

func key(doctorID string, date models.Date) string {
	return doctorID + "|" + date.String()
}

// Get returns the cached listing for a doctor and date, if present.
func (c *AvailabilityCache) Get(doctorID string, date models.Date) ([]models.Slot, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	slots, ok := c.cache.Get(key(doctorID, date))
	if ok {
		c.logger.Debug("cache hit",
			zap.String("doctor_id", doctorID),
			zap.String("date", date.String()),
		)
	}
	return slots, ok
}

// Store caches a listing for a doctor and date.
func (c *AvailabilityCache) Store(doctorID string, date models.Date, slots []models.Slot) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Add(key(doctorID, date), slots)
}

// Invalidate drops the cached listing for a doctor and date. Called by the
// reservation engine after every slot mutation.
func (c *AvailabilityCache) Invalidate(doctorID string, date models.Date) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cache.Remove(key(doctorID, date)) {
		c.logger.Debug("cache invalidated",
			zap.String("doctor_id", doctorID),
			zap.String("date", date.String()),
		)
	}
}
