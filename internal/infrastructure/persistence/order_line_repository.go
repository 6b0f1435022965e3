package persistence

import (
	"context"

	"github.com/restopos/backend/internal/application/pos"
	"gorm.io/gorm"
)

// GormOrderLineRepository implements pos.OrderLineRepository using GORM
type GormOrderLineRepository struct {
	db *gorm.DB
}

// NewGormOrderLineRepository creates a new GormOrderLineRepository
func NewGormOrderLineRepository(db *gorm.DB) *GormOrderLineRepository {
	return &GormOrderLineRepository{db: db}
}

// FindBySessionID returns every sold line of the session
func (r *GormOrderLineRepository) FindBySessionID(ctx context.Context, sessionID string) ([]pos.OrderLine, error) {
	var lines []pos.OrderLine
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

var _ pos.OrderLineRepository = (*GormOrderLineRepository)(nil)
