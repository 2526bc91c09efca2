package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"mock_exchange/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage persists recorded trade events in SQLite.
type Storage struct {
	db *gorm.DB
}

// NewStorage creates a new SQLite storage instance at the default path.
func NewStorage() (*Storage, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve DB path: %w", err)
	}
	return NewStorageAt(dbPath)
}

// NewStorageAt creates a SQLite storage instance at an explicit path.
func NewStorageAt(dbPath string) (*Storage, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto Migration
	if err := db.AutoMigrate(&domain.TradeRecord{}, &domain.RunConfig{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// getDBPath resolves the database file path based on OS
func getDBPath() (string, error) {
	var configDir string
	var err error

	if runtime.GOOS == "windows" {
		configDir = os.Getenv("LOCALAPPDATA")
		if configDir == "" {
			configDir, err = os.UserConfigDir()
		}
	} else {
		configDir, err = os.UserConfigDir()
	}

	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "MockExchange", "data", "mockexchange.db"), nil
}

// SaveTrade inserts one recorded trade event.
func (s *Storage) SaveTrade(rec *domain.TradeRecord) error {
	return s.db.Create(rec).Error
}

// FindBySymbol returns every recorded event for symbol, oldest first.
func (s *Storage) FindBySymbol(symbol string) ([]*domain.TradeRecord, error) {
	var recs []*domain.TradeRecord
	err := s.db.Where("symbol = ?", symbol).Order("event_time asc, id asc").Find(&recs).Error
	return recs, err
}

// CountFills returns how many synthetic fills were recorded for symbol.
func (s *Storage) CountFills(symbol string) (int64, error) {
	var n int64
	err := s.db.Model(&domain.TradeRecord{}).
		Where("symbol = ? AND is_fill = ?", symbol, true).Count(&n).Error
	return n, err
}

// SetRunConfig upserts a run-scoped key/value pair.
func (s *Storage) SetRunConfig(key, value string) error {
	return s.db.Save(&domain.RunConfig{Key: key, Value: value}).Error
}

// GetRunConfig reads a run-scoped key; missing keys return empty string.
func (s *Storage) GetRunConfig(key string) (string, error) {
	var cfg domain.RunConfig
	err := s.db.First(&cfg, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return cfg.Value, err
}
