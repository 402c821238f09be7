package store

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Slot is the GORM model backing the key-value store: one row per slot.
type Slot struct {
	Key   string `gorm:"primaryKey;type:varchar(64)"`
	Value string `gorm:"type:text"`
}

// GormStore is a GORM-backed implementation of Store. It persists slots in a
// single table and maps Update onto a database transaction.
type GormStore struct {
	db *gorm.DB
}

// Open connects to the configured database and returns a GormStore. Supported
// drivers are "sqlite" (dsn is a file path) and "postgres" (dsn is a
// connection string).
func Open(driver, dsn string) (*GormStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", driver, err)
	}
	if err := db.AutoMigrate(&Slot{}); err != nil {
		return nil, fmt.Errorf("failed to migrate slots table: %w", err)
	}
	return &GormStore{db: db}, nil
}

// NewGormStore wraps an existing gorm.DB as a Store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Get returns the value at key and whether the slot exists.
func (s *GormStore) Get(key string) (string, bool, error) {
	return gormGet(s.db, key)
}

// Set writes value to key, creating or replacing the slot.
func (s *GormStore) Set(key, value string) error {
	return gormSet(s.db, key, value)
}

// Delete removes the slot at key. Deleting a missing slot is a no-op.
func (s *GormStore) Delete(key string) error {
	return gormDelete(s.db, key)
}

// Update runs fn inside a database transaction.
func (s *GormStore) Update(fn func(tx Tx) error) error {
	return s.db.Transaction(func(dbtx *gorm.DB) error {
		return fn(&gormTx{db: dbtx})
	})
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) Get(key string) (string, bool, error) { return gormGet(t.db, key) }
func (t *gormTx) Set(key, value string) error          { return gormSet(t.db, key, value) }
func (t *gormTx) Delete(key string) error              { return gormDelete(t.db, key) }

func gormGet(db *gorm.DB, key string) (string, bool, error) {
	var slot Slot
	if err := db.First(&slot, "key = ?", key).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get slot %s: %w", key, err)
	}
	return slot.Value, true, nil
}

func gormSet(db *gorm.DB, key, value string) error {
	slot := Slot{Key: key, Value: value}
	if err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&slot).Error; err != nil {
		return fmt.Errorf("failed to set slot %s: %w", key, err)
	}
	return nil
}

func gormDelete(db *gorm.DB, key string) error {
	if err := db.Delete(&Slot{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("failed to delete slot %s: %w", key, err)
	}
	return nil
}
