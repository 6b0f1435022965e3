package pos

import (
	"github.com/google/uuid"
	"github.com/restopos/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
)

// SoldLineInput is one sold order line handed in by the session lifecycle
type SoldLineInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// CloseResult is returned to the caller after a session close. Warnings are
// operator notifications; they never block or roll back the close.
type CloseResult struct {
	SessionID string          `json:"session_id"`
	Committed bool            `json:"committed"`
	Warnings  []string        `json:"warnings"`
	Details   []stock.Warning `json:"details,omitempty"`
}

// AvailabilityResult is the outcome of the pre-close dry run
type AvailabilityResult struct {
	SessionID string   `json:"session_id"`
	Success   bool     `json:"success"`
	Errors    []string `json:"errors"`
}

func newCloseResult(sessionID string, warnings []stock.Warning) *CloseResult {
	result := &CloseResult{
		SessionID: sessionID,
		Committed: true,
		Warnings:  make([]string, 0, len(warnings)),
		Details:   warnings,
	}
	for _, w := range warnings {
		result.Warnings = append(result.Warnings, w.String())
	}
	return result
}
