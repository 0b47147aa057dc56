package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"promptfeed/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentKey is the row name holding the live feed document.
const DocumentKey = "feed"

// FeedDocument is the single-row table backing GormBackend.
type FeedDocument struct {
	Name      string `gorm:"primaryKey;size:64"`
	Body      string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName pins the table name regardless of naming strategy.
func (FeedDocument) TableName() string { return "feed_documents" }

// GormBackend stores the feed document as one JSON row and writes it in a transaction.
type GormBackend struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormBackend migrates the document table and returns a backend over db.
func NewGormBackend(db *gorm.DB) (*GormBackend, error) {
	if err := db.AutoMigrate(&FeedDocument{}); err != nil {
		return nil, fmt.Errorf("migrate feed_documents: %w", err)
	}
	return &GormBackend{db: db, now: time.Now}, nil
}

// Name implements Backend.
func (b *GormBackend) Name() string { return b.db.Dialector.Name() }

// Load implements Backend.
func (b *GormBackend) Load(ctx context.Context) (*models.Store, error) {
	var row FeedDocument
	if err := b.db.WithContext(ctx).Where("name = ?", DocumentKey).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoDocument
		}
		return nil, err
	}

	var doc models.Store
	if err := json.Unmarshal([]byte(row.Body), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	return &doc, nil
}

// Save implements Backend.
func (b *GormBackend) Save(ctx context.Context, doc *models.Store) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode feed document: %w", err)
	}

	row := FeedDocument{Name: DocumentKey, Body: string(body), UpdatedAt: b.now().UTC()}
	return b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
		}).Create(&row).Error
	})
}

// Quarantine implements Backend by renaming the live row to feed.corrupt-<unix>.
func (b *GormBackend) Quarantine(ctx context.Context) (string, error) {
	dest := fmt.Sprintf("%s.corrupt-%d", DocumentKey, b.now().Unix())
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(&FeedDocument{}).
			Where("name = ?", DocumentKey).
			Update("name", dest).Error
	})
	if err != nil {
		return "", err
	}
	return dest, nil
}

// Ping implements Backend.
func (b *GormBackend) Ping(ctx context.Context) error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close implements Backend.
func (b *GormBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
