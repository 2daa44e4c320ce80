package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/force3dev/Forc3-sub001/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// PostgresConfig holds connection settings for the table-backed cache
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN renders the libpq connection string
func (c PostgresConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=5",
		c.Host, c.Port, c.User, c.Password, c.DBName, sslMode)
}

// searchCacheRow is one row of food_search_cache
type searchCacheRow struct {
	Query     string    `gorm:"primaryKey;size:500"`
	Results   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

func (searchCacheRow) TableName() string {
	return "food_search_cache"
}

// PostgresCache keeps search results in a single table keyed by normalized query
type PostgresCache struct {
	db  *gorm.DB
	now func() time.Time
}

// OpenPostgres connects to PostgreSQL through gorm
func OpenPostgres(cfg PostgresConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// NewPostgresCache migrates the cache table and returns the store
func NewPostgresCache(db *gorm.DB) (*PostgresCache, error) {
	if err := db.AutoMigrate(&searchCacheRow{}); err != nil {
		return nil, fmt.Errorf("failed to auto migrate: %w", err)
	}
	return &PostgresCache{db: db, now: time.Now}, nil
}

// Get returns live results for key. Expired rows are ignored, not deleted.
func (c *PostgresCache) Get(ctx context.Context, key string) ([]domain.FoodResult, error) {
	var row searchCacheRow
	err := c.db.WithContext(ctx).
		Where("query = ? AND expires_at > ?", key, c.now()).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	results := []domain.FoodResult{}
	if err := json.Unmarshal([]byte(row.Results), &results); err != nil {
		return nil, fmt.Errorf("%w: corrupt entry: %v", domain.ErrCacheMiss, err)
	}

	return results, nil
}

// Set creates or overwrites the row for key
func (c *PostgresCache) Set(ctx context.Context, key string, results []domain.FoodResult, ttl time.Duration) error {
	if results == nil {
		results = []domain.FoodResult{}
	}
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	row := searchCacheRow{
		Query:     key,
		Results:   string(data),
		ExpiresAt: c.now().Add(ttl),
	}

	err = c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "query"}},
		DoUpdates: clause.AssignmentColumns([]string{"results", "expires_at", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	return nil
}

// Close releases the underlying connection pool
func (c *PostgresCache) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
