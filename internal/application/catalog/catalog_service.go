package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CatalogService handles product lookups and maintenance. The POS terminal
// uses Search and GetForSale; maintenance endpoints use the rest.
type CatalogService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	logger       *zap.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(productRepo catalog.ProductRepository, categoryRepo catalog.CategoryRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// GetForSale resolves a product for a new invoice line, distinguishing a
// product that does not exist from one that is withdrawn from sale.
func (s *CatalogService) GetForSale(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == shared.ErrNotFound.Code {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product does not exist").
				WithDetails(map[string]any{"product_id": productID.String()})
		}
		return nil, err
	}
	if !product.IsSellable() {
		return nil, shared.NewDomainError("PRODUCT_INACTIVE", "Product is not available for sale").
			WithDetails(map[string]any{"product_id": product.ID.String(), "sku": product.SKU})
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product regardless of its active flag
func (s *CatalogService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetBySKU retrieves a product by SKU, as scanned from a barcode
func (s *CatalogService) GetBySKU(ctx context.Context, sku string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// Search finds products matching the filter's search term
func (s *CatalogService) Search(ctx context.Context, filter shared.Filter) ([]ProductResponse, int64, error) {
	products, err := s.productRepo.Search(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToProductResponse(&products[i]))
	}
	return responses, total, nil
}

// Create registers a new product
func (s *CatalogService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if existing, err := s.productRepo.FindBySKU(ctx, req.SKU); err == nil && existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_SKU", "A product with this SKU already exists").
			WithDetails(map[string]any{"sku": existing.SKU})
	}

	product, err := catalog.NewProduct(req.SKU, req.Name, req.CostPrice, req.MRP, req.TaxPercent)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = req.CategoryID
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU))
	response := ToProductResponse(product)
	return &response, nil
}

// UpdatePrices reprices a product. Open carts holding the old price will be
// rejected at finalization.
func (s *CatalogService) UpdatePrices(ctx context.Context, productID uuid.UUID, req UpdatePricesRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := product.SetPrices(req.CostPrice, req.MRP); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product repriced",
		zap.String("product_id", product.ID.String()),
		zap.String("mrp", product.MRP.String()))
	response := ToProductResponse(product)
	return &response, nil
}

// SetActive toggles a product's availability for sale
func (s *CatalogService) SetActive(ctx context.Context, productID uuid.UUID, active bool) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if active {
		product.Activate()
	} else {
		product.Deactivate()
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// Categories lists all categories
func (s *CatalogService) Categories(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, ToCategoryResponse(&categories[i]))
	}
	return responses, nil
}
