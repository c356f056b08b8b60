package stock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/stock"
	"go.uber.org/zap"
)

// AvailabilityCache caches available quantities for product-location pairs.
// It is display-level only: the cached value is advisory and finalization
// never consults it. A miss or a cache failure falls through to the database.
type AvailabilityCache interface {
	// Get returns the cached on-hand and reserved quantities, with
	// found=false on a miss
	Get(ctx context.Context, productID, locationID uuid.UUID) (quantity, reserved int64, found bool, err error)
	// Set stores the on-hand and reserved quantities
	Set(ctx context.Context, productID, locationID uuid.UUID, quantity, reserved int64) error
	// Invalidate drops the cached value after a write
	Invalidate(ctx context.Context, productID, locationID uuid.UUID) error
}

// StockService handles stock queries and manual adjustments
type StockService struct {
	scope        TransactionScope
	stockRepo    stock.StockRecordRepository
	movementRepo stock.StockMovementRepository
	locationRepo stock.LocationRepository
	cache        AvailabilityCache
	logger       *zap.Logger
}

// NewStockService creates a new StockService. cache may be nil.
func NewStockService(
	scope TransactionScope,
	stockRepo stock.StockRecordRepository,
	movementRepo stock.StockMovementRepository,
	locationRepo stock.LocationRepository,
	cache AvailabilityCache,
	logger *zap.Logger,
) *StockService {
	return &StockService{
		scope:        scope,
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		locationRepo: locationRepo,
		cache:        cache,
		logger:       logger,
	}
}

// GetAvailability returns the available quantity for a product at a location.
// Unlike finalization, a missing stock record is an error here so callers can
// distinguish "never stocked" from "stocked out".
func (s *StockService) GetAvailability(ctx context.Context, productID, locationID uuid.UUID) (*StockRecordResponse, error) {
	if s.cache != nil {
		if quantity, reserved, found, err := s.cache.Get(ctx, productID, locationID); err == nil && found {
			return &StockRecordResponse{
				ProductID:  productID,
				LocationID: locationID,
				Quantity:   quantity,
				Reserved:   reserved,
				Available:  quantity - reserved,
			}, nil
		} else if err != nil {
			s.logger.Warn("availability cache read failed", zap.Error(err))
		}
	}

	record, err := s.stockRepo.FindByProductAndLocation(ctx, productID, locationID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, productID, locationID, record.Quantity, record.Reserved); err != nil {
			s.logger.Warn("availability cache write failed", zap.Error(err))
		}
	}

	response := ToStockRecordResponse(record)
	return &response, nil
}

// ListByLocation lists stock records at a location
func (s *StockService) ListByLocation(ctx context.Context, locationID uuid.UUID, filter shared.Filter) ([]StockRecordResponse, error) {
	if _, err := s.locationRepo.FindByID(ctx, locationID); err != nil {
		return nil, err
	}
	records, err := s.stockRepo.FindByLocation(ctx, locationID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]StockRecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, ToStockRecordResponse(&records[i]))
	}
	return responses, nil
}

// List lists all stock records
func (s *StockService) List(ctx context.Context, filter shared.Filter) ([]StockRecordResponse, int64, error) {
	records, err := s.stockRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.stockRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]StockRecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, ToStockRecordResponse(&records[i]))
	}
	return responses, total, nil
}

// Adjust applies a signed manual change to a stock record and appends the
// matching movement atomically. A change that would drive the quantity
// negative is rejected with the current availability.
func (s *StockService) Adjust(ctx context.Context, recordID uuid.UUID, req AdjustStockRequest) (*StockRecordResponse, error) {
	var response StockRecordResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		record, err := repos.Stock().FindByID(ctx, recordID)
		if err != nil {
			return err
		}

		now := time.Now()
		newQuantity, err := repos.Stock().ApplyChange(ctx, record.ID, req.Change, now)
		if err != nil {
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) && domainErr.Code == shared.ErrInsufficientStock.Code {
				return stock.NewInsufficientStockError(record.ProductID, -req.Change, record.Quantity)
			}
			return err
		}

		movement, err := stock.NewStockMovement(record.ProductID, record.LocationID, req.Change, req.Reason, stock.ReferenceManual, nil)
		if err != nil {
			return err
		}
		if req.CreatedBy != nil {
			movement.WithActor(*req.CreatedBy)
		}
		if err := repos.Movements().Create(ctx, movement); err != nil {
			return err
		}

		response = ToStockRecordResponse(record)
		response.Quantity = newQuantity
		response.Available = newQuantity - record.Reserved
		response.LastMovementAt = &now
		return nil
	})
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return nil, domainErr
		}
		s.logger.Error("stock adjustment failed",
			zap.String("record_id", recordID.String()),
			zap.Int64("change", req.Change),
			zap.Error(err))
		return nil, shared.ErrPersistenceFailure
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, response.ProductID, response.LocationID); err != nil {
			s.logger.Warn("availability cache invalidation failed", zap.Error(err))
		}
	}

	s.logger.Info("stock adjusted",
		zap.String("record_id", recordID.String()),
		zap.Int64("change", req.Change),
		zap.Int64("quantity", response.Quantity),
		zap.String("reason", req.Reason))
	return &response, nil
}

// Movements lists the movement history for a product at a location, newest first
func (s *StockService) Movements(ctx context.Context, productID, locationID uuid.UUID, filter shared.Filter) ([]StockMovementResponse, error) {
	movements, err := s.movementRepo.FindByProductAndLocation(ctx, productID, locationID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]StockMovementResponse, 0, len(movements))
	for i := range movements {
		responses = append(responses, ToStockMovementResponse(&movements[i]))
	}
	return responses, nil
}

// ListMovements lists all movements, newest first
func (s *StockService) ListMovements(ctx context.Context, filter shared.Filter) ([]StockMovementResponse, error) {
	movements, err := s.movementRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]StockMovementResponse, 0, len(movements))
	for i := range movements {
		responses = append(responses, ToStockMovementResponse(&movements[i]))
	}
	return responses, nil
}

// Locations lists all stock locations
func (s *StockService) Locations(ctx context.Context) ([]LocationResponse, error) {
	locations, err := s.locationRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]LocationResponse, 0, len(locations))
	for i := range locations {
		responses = append(responses, ToLocationResponse(&locations[i]))
	}
	return responses, nil
}

// Reconcile verifies that a stock record's quantity equals the sum of its
// movement history. A mismatch means a write bypassed the ledger.
func (s *StockService) Reconcile(ctx context.Context, productID, locationID uuid.UUID) (bool, error) {
	record, err := s.stockRepo.FindByProductAndLocation(ctx, productID, locationID)
	if err != nil {
		return false, err
	}
	sum, err := s.movementRepo.SumChanges(ctx, productID, locationID)
	if err != nil {
		return false, err
	}
	if record.Quantity != sum {
		s.logger.Error("stock ledger out of balance",
			zap.String("product_id", productID.String()),
			zap.String("location_id", locationID.String()),
			zap.Int64("quantity", record.Quantity),
			zap.Int64("movement_sum", sum))
		return false, nil
	}
	return true, nil
}
