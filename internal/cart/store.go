package cart

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"matjar/internal/models"
)

// Store persists a trader's cart lines between sessions. The whole line
// collection is overwritten on every mutation; the last writer wins and no
// conflict resolution is attempted.
type Store interface {
	Load(traderID string) ([]models.CartLine, error)
	Save(traderID string, lines []models.CartLine) error
}

// CartRecord is the persisted row: one JSON document per trader holding the
// full line collection.
type CartRecord struct {
	TraderID  string `gorm:"primaryKey;type:varchar(36)"`
	Lines     string `gorm:"type:text"`
	UpdatedAt time.Time
}

// GORMStore is a GORM implementation of Store.
type GORMStore struct {
	db *gorm.DB
}

// NewGORMStore creates a new instance of GORMStore.
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{db: db}
}

// Load returns the trader's persisted lines, or nil when no cart was saved.
func (s *GORMStore) Load(traderID string) ([]models.CartLine, error) {
	var record CartRecord
	if err := s.db.First(&record, "trader_id = ?", traderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load cart record for trader %s: %w", traderID, err)
	}
	var lines []models.CartLine
	if err := json.Unmarshal([]byte(record.Lines), &lines); err != nil {
		return nil, fmt.Errorf("failed to decode cart record for trader %s: %w", traderID, err)
	}
	return lines, nil
}

// Save overwrites the trader's persisted lines.
func (s *GORMStore) Save(traderID string, lines []models.CartLine) error {
	encoded, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to encode cart for trader %s: %w", traderID, err)
	}
	record := CartRecord{TraderID: traderID, Lines: string(encoded), UpdatedAt: time.Now()}
	if err := s.db.Save(&record).Error; err != nil {
		return fmt.Errorf("failed to save cart record for trader %s: %w", traderID, err)
	}
	return nil
}

// MemoryStore is an in-memory implementation of Store, used in tests.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string][]models.CartLine
}

// NewMemoryStore creates a new instance of MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]models.CartLine)}
}

// Load returns the stored lines for a trader.
func (s *MemoryStore) Load(traderID string) ([]models.CartLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lines := make([]models.CartLine, len(s.carts[traderID]))
	copy(lines, s.carts[traderID])
	return lines, nil
}

// Save overwrites the stored lines for a trader.
func (s *MemoryStore) Save(traderID string, lines []models.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]models.CartLine, len(lines))
	copy(stored, lines)
	s.carts[traderID] = stored
	return nil
}
