package pos

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/restopos/backend/internal/domain/catalog"
	"github.com/restopos/backend/internal/domain/shared"
	"github.com/restopos/backend/internal/domain/stock"
	"go.uber.org/zap"
)

// CloseService orchestrates the stock consumption of one session close:
// load the catalog snapshot once, group the sold lines, aggregate the
// component requirements, then either commit them against the ledger or
// only compare them against available stock.
type CloseService struct {
	loader     *catalog.IndexLoader
	aggregator *stock.Aggregator
	checker    *stock.Checker
	scope      TransactionScope
	orderLines OrderLineRepository
	guard      shared.CloseGuard
	guardCfg   shared.CloseGuardConfig
	logger     *zap.Logger
}

// NewCloseService creates a new CloseService
func NewCloseService(
	loader *catalog.IndexLoader,
	aggregator *stock.Aggregator,
	checker *stock.Checker,
	scope TransactionScope,
	logger *zap.Logger,
) *CloseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CloseService{
		loader:     loader,
		aggregator: aggregator,
		checker:    checker,
		scope:      scope,
		guardCfg:   shared.DefaultCloseGuardConfig(),
		logger:     logger,
	}
}

// SetOrderLineRepository lets the service load a session's sold lines
// itself when the caller does not pass them inline
func (s *CloseService) SetOrderLineRepository(repo OrderLineRepository) {
	s.orderLines = repo
}

// SetCloseGuard installs the guard that keeps a session from being
// committed twice
func (s *CloseService) SetCloseGuard(guard shared.CloseGuard, cfg shared.CloseGuardConfig) {
	s.guard = guard
	s.guardCfg = cfg
}

// CloseSession consumes stock for every sold line of the session and
// returns the shortfall warnings. Warnings do not block the close; the one
// fatal condition is the absence of any internal location to commit into.
// A session already recorded by the close guard returns ErrSessionClosed.
func (s *CloseService) CloseSession(ctx context.Context, sessionID string, lines []SoldLineInput) (*CloseResult, error) {
	lines, err := s.resolveLines(ctx, sessionID, lines)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		s.logger.Info("Session has no sold lines, nothing to consume",
			zap.String("session_id", sessionID),
		)
		return newCloseResult(sessionID, nil), nil
	}

	if err := s.acquireGuard(ctx, sessionID); err != nil {
		return nil, err
	}

	index, soldItems, err := s.loadAndGroup(ctx, lines)
	if err != nil {
		s.releaseGuard(ctx, sessionID)
		return nil, err
	}

	requirements := s.aggregator.Aggregate(index, soldItems)
	s.logger.Info("Aggregated component requirements",
		zap.String("session_id", sessionID),
		zap.Int("sold_products", len(soldItems)),
		zap.Int("requirement_entries", len(requirements)),
	)

	var warnings []stock.Warning
	err = s.scope.Execute(ctx, func(repos StockRepositories) error {
		ledger := stock.NewLedger(repos.Quants(), repos.Locations(), s.logger)
		var commitErr error
		warnings, commitErr = ledger.Commit(ctx, requirements)
		return commitErr
	})
	if err != nil {
		s.releaseGuard(ctx, sessionID)
		return nil, fmt.Errorf("failed to commit stock consumption: %w", err)
	}

	return newCloseResult(sessionID, warnings), nil
}

// CheckAvailability runs the identical aggregation as CloseSession and
// compares it against current stock without writing anything. The caller
// uses the result to decide whether to warn the operator before closing.
func (s *CloseService) CheckAvailability(ctx context.Context, sessionID string, lines []SoldLineInput) (*AvailabilityResult, error) {
	lines, err := s.resolveLines(ctx, sessionID, lines)
	if err != nil {
		return nil, err
	}
	result := &AvailabilityResult{SessionID: sessionID, Success: true, Errors: make([]string, 0)}
	if len(lines) == 0 {
		return result, nil
	}

	index, soldItems, err := s.loadAndGroup(ctx, lines)
	if err != nil {
		return nil, err
	}

	requirements := s.aggregator.Aggregate(index, soldItems)
	checked, err := s.checker.Check(ctx, requirements)
	if err != nil {
		return nil, err
	}

	result.Success = checked.OK
	result.Errors = checked.Errors
	return result, nil
}

// resolveLines prefers inline lines and falls back to the session's
// persisted order lines
func (s *CloseService) resolveLines(ctx context.Context, sessionID string, lines []SoldLineInput) ([]SoldLineInput, error) {
	if len(lines) > 0 || s.orderLines == nil {
		return lines, nil
	}
	stored, err := s.orderLines.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session lines: %w", err)
	}
	out := make([]SoldLineInput, 0, len(stored))
	for _, l := range stored {
		out = append(out, SoldLineInput{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return out, nil
}

// loadAndGroup builds the catalog snapshot and nets the signed sold lines
// per (product, resolved location). Refund lines carry negative quantities
// and must be netted against the sales of the same product before the BOM
// explosion; a session selling 5 and refunding 2 consumes 3. A group that
// nets to a negative quantity flows through as a restock.
func (s *CloseService) loadAndGroup(ctx context.Context, lines []SoldLineInput) (*catalog.Index, []stock.SoldItem, error) {
	productIDs := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		productIDs = append(productIDs, l.ProductID)
	}

	index, err := s.loader.Load(ctx, productIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	for _, templateID := range index.AmbiguousTemplates() {
		s.logger.Error("Catalog data error: template carries multiple active BOMs",
			zap.String("template_id", templateID.String()),
		)
	}

	type groupKey struct {
		productID  uuid.UUID
		locationID uuid.UUID
	}
	grouped := make(map[groupKey]*stock.SoldItem)
	for _, l := range lines {
		product, ok := index.Product(l.ProductID)
		if !ok {
			s.logger.Warn("Sold line references unknown product, skipping line",
				zap.String("product_id", l.ProductID.String()),
			)
			continue
		}

		key := groupKey{productID: product.ID}
		if product.PreferredLocationID != nil {
			key.locationID = *product.PreferredLocationID
		}
		if item, ok := grouped[key]; ok {
			item.Quantity = item.Quantity.Add(l.Quantity)
		} else {
			grouped[key] = &stock.SoldItem{Product: product, Quantity: l.Quantity}
		}
	}

	soldItems := make([]stock.SoldItem, 0, len(grouped))
	for _, item := range grouped {
		if item.Quantity.IsZero() {
			// sales and refunds cancelled out
			continue
		}
		soldItems = append(soldItems, *item)
	}
	sort.Slice(soldItems, func(i, j int) bool {
		return soldItems[i].Product.ID.String() < soldItems[j].Product.ID.String()
	})
	return index, soldItems, nil
}

func (s *CloseService) acquireGuard(ctx context.Context, sessionID string) error {
	if s.guard == nil || !s.guardCfg.Enabled {
		return nil
	}
	acquired, err := s.guard.Acquire(ctx, sessionID, s.guardCfg.TTL)
	if err != nil {
		return fmt.Errorf("close guard unavailable: %w", err)
	}
	if !acquired {
		return shared.ErrSessionClosed
	}
	return nil
}

// releaseGuard frees the close mark after a failed attempt so the session
// can be retried. Release failures are logged, not propagated; the original
// error matters more to the caller.
func (s *CloseService) releaseGuard(ctx context.Context, sessionID string) {
	if s.guard == nil || !s.guardCfg.Enabled {
		return
	}
	if err := s.guard.Release(ctx, sessionID); err != nil {
		s.logger.Error("Failed to release close guard",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
	}
}
