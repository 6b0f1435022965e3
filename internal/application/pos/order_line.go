package pos

import (
	"context"

	"github.com/google/uuid"
	"github.com/restopos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderLine is a persisted sold line belonging to a POS session. The order
// and session lifecycle themselves live outside this service; only the
// lines are read here, at close time.
type OrderLine struct {
	shared.BaseEntity
	SessionID string          `gorm:"size:64;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (OrderLine) TableName() string {
	return "pos_order_lines"
}

// OrderLineRepository reads the sold lines of a session
type OrderLineRepository interface {
	// FindBySessionID returns every sold line of the session
	FindBySessionID(ctx context.Context, sessionID string) ([]OrderLine, error)
}
