package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormStockRecordRepository implements stock.StockRecordRepository using GORM
type GormStockRecordRepository struct {
	db *gorm.DB
}

// NewGormStockRecordRepository creates a new GormStockRecordRepository
func NewGormStockRecordRepository(db *gorm.DB) *GormStockRecordRepository {
	return &GormStockRecordRepository{db: db}
}

// FindByID finds a stock record by its ID
func (r *GormStockRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.StockRecord, error) {
	var record stock.StockRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByProductAndLocation finds the record for a product-location pair
func (r *GormStockRecordRepository) FindByProductAndLocation(ctx context.Context, productID, locationID uuid.UUID) (*stock.StockRecord, error) {
	var record stock.StockRecord
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND location_id = ?", productID, locationID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByLocation lists stock records at a location
func (r *GormStockRecordRepository) FindByLocation(ctx context.Context, locationID uuid.UUID, filter shared.Filter) ([]stock.StockRecord, error) {
	var records []stock.StockRecord
	if err := r.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Order("product_id ASC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindAll lists stock records
func (r *GormStockRecordRepository) FindAll(ctx context.Context, filter shared.Filter) ([]stock.StockRecord, error) {
	var records []stock.StockRecord
	if err := r.db.WithContext(ctx).
		Order("product_id ASC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Count counts stock records
func (r *GormStockRecordRepository) Count(ctx context.Context, _ shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&stock.StockRecord{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a stock record
func (r *GormStockRecordRepository) Save(ctx context.Context, record *stock.StockRecord) error {
	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// ApplyChange atomically adds change to the record's quantity. The guard
// lives in the WHERE clause: the check and the write are a single statement,
// so two concurrent sales cannot both pass the check and oversell. Zero rows
// affected means either the record is gone or the guard refused the change;
// a follow-up existence probe tells the two apart.
func (r *GormStockRecordRepository) ApplyChange(ctx context.Context, recordID uuid.UUID, change int64, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&stock.StockRecord{}).
		Where("id = ? AND quantity + ? >= 0", recordID, change).
		Updates(map[string]any{
			"quantity":         gorm.Expr("quantity + ?", change),
			"last_movement_at": at,
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&stock.StockRecord{}).
			Where("id = ?", recordID).
			Count(&count).Error; err != nil {
			return 0, err
		}
		if count == 0 {
			return 0, shared.ErrNotFound
		}
		return 0, shared.ErrInsufficientStock
	}

	var record stock.StockRecord
	if err := r.db.WithContext(ctx).Select("quantity").First(&record, "id = ?", recordID).Error; err != nil {
		return 0, err
	}
	return record.Quantity, nil
}

var _ stock.StockRecordRepository = (*GormStockRecordRepository)(nil)
