package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memProductRepo struct {
	products map[uuid.UUID]catalog.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[uuid.UUID]catalog.Product)}
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := r.products[id]; ok {
		return &p, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindBySKU(_ context.Context, sku string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return &p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProductRepo) Search(_ context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var out []catalog.Product
	term := strings.ToUpper(filter.Search)
	for _, p := range r.products {
		if term == "" || strings.Contains(p.SKU, term) || strings.Contains(strings.ToUpper(p.Name), term) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProductRepo) Count(_ context.Context, filter shared.Filter) (int64, error) {
	found, _ := r.Search(context.Background(), filter)
	return int64(len(found)), nil
}

func (r *memProductRepo) Save(_ context.Context, p *catalog.Product) error {
	r.products[p.ID] = *p
	return nil
}

type memCategoryRepo struct {
	categories map[uuid.UUID]catalog.Category
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{categories: make(map[uuid.UUID]catalog.Category)}
}

func (r *memCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Category, error) {
	if c, ok := r.categories[id]; ok {
		return &c, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memCategoryRepo) FindAll(_ context.Context) ([]catalog.Category, error) {
	out := make([]catalog.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	return out, nil
}

func (r *memCategoryRepo) Save(_ context.Context, c *catalog.Category) error {
	r.categories[c.ID] = *c
	return nil
}

func newTestService() (*CatalogService, *memProductRepo, *memCategoryRepo) {
	products := newMemProductRepo()
	categories := newMemCategoryRepo()
	return NewCatalogService(products, categories, zap.NewNop()), products, categories
}

func seedProduct(t *testing.T, repo *memProductRepo, sku string, active bool) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(sku, "Product "+sku, decimal.NewFromInt(70), decimal.NewFromInt(100), decimal.NewFromInt(5))
	require.NoError(t, err)
	if !active {
		product.Deactivate()
	}
	require.NoError(t, repo.Save(context.Background(), product))
	return product
}

func TestCatalogGetForSale(t *testing.T) {
	ctx := context.Background()

	t.Run("returns active product", func(t *testing.T) {
		service, products, _ := newTestService()
		product := seedProduct(t, products, "SKU-001", true)

		resp, err := service.GetForSale(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, "SKU-001", resp.SKU)
		assert.True(t, resp.MRP.Equal(decimal.NewFromInt(100)))
	})

	t.Run("unknown product yields PRODUCT_NOT_FOUND", func(t *testing.T) {
		service, _, _ := newTestService()

		_, err := service.GetForSale(ctx, uuid.New())
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "PRODUCT_NOT_FOUND", domainErr.Code)
	})

	t.Run("inactive product yields PRODUCT_INACTIVE", func(t *testing.T) {
		service, products, _ := newTestService()
		product := seedProduct(t, products, "SKU-002", false)

		_, err := service.GetForSale(ctx, product.ID)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "PRODUCT_INACTIVE", domainErr.Code)
		assert.Equal(t, "SKU-002", domainErr.Details["sku"])
	})
}

func TestCatalogSearch(t *testing.T) {
	ctx := context.Background()
	service, products, _ := newTestService()
	seedProduct(t, products, "RICE-001", true)
	seedProduct(t, products, "RICE-002", true)
	seedProduct(t, products, "OIL-001", true)

	t.Run("matches by SKU fragment", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "RICE"
		found, total, err := service.Search(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, found, 2)
	})

	t.Run("empty term returns everything", func(t *testing.T) {
		found, total, err := service.Search(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, found, 3)
	})
}

func TestCatalogCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates product with category", func(t *testing.T) {
		service, _, categories := newTestService()
		category, err := catalog.NewCategory("Groceries", "")
		require.NoError(t, err)
		require.NoError(t, categories.Save(ctx, category))

		resp, err := service.Create(ctx, CreateProductRequest{
			SKU:        "sku-100",
			Name:       "Atta 10kg",
			CategoryID: &category.ID,
			CostPrice:  decimal.NewFromInt(300),
			MRP:        decimal.NewFromInt(420),
			TaxPercent: decimal.NewFromInt(5),
		})
		require.NoError(t, err)
		assert.Equal(t, "SKU-100", resp.SKU)
		require.NotNil(t, resp.CategoryID)
		assert.Equal(t, category.ID, *resp.CategoryID)
	})

	t.Run("rejects duplicate SKU", func(t *testing.T) {
		service, products, _ := newTestService()
		seedProduct(t, products, "SKU-001", true)

		_, err := service.Create(ctx, CreateProductRequest{SKU: "SKU-001", Name: "Other", MRP: decimal.NewFromInt(10)})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "DUPLICATE_SKU", domainErr.Code)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		service, _, _ := newTestService()
		badCategory := uuid.New()

		_, err := service.Create(ctx, CreateProductRequest{SKU: "SKU-200", Name: "Thing", CategoryID: &badCategory, MRP: decimal.NewFromInt(10)})
		require.Error(t, err)
	})
}

func TestCatalogMaintenance(t *testing.T) {
	ctx := context.Background()

	t.Run("reprices product", func(t *testing.T) {
		service, products, _ := newTestService()
		product := seedProduct(t, products, "SKU-001", true)

		resp, err := service.UpdatePrices(ctx, product.ID, UpdatePricesRequest{
			CostPrice: decimal.NewFromInt(80),
			MRP:       decimal.NewFromInt(120),
		})
		require.NoError(t, err)
		assert.True(t, resp.MRP.Equal(decimal.NewFromInt(120)))

		stored := products.products[product.ID]
		assert.True(t, stored.MRP.Equal(decimal.NewFromInt(120)))
	})

	t.Run("deactivates and reactivates product", func(t *testing.T) {
		service, products, _ := newTestService()
		product := seedProduct(t, products, "SKU-001", true)

		resp, err := service.SetActive(ctx, product.ID, false)
		require.NoError(t, err)
		assert.False(t, resp.Active)

		resp, err = service.SetActive(ctx, product.ID, true)
		require.NoError(t, err)
		assert.True(t, resp.Active)
	})

	t.Run("lists categories", func(t *testing.T) {
		service, _, categories := newTestService()
		category, err := catalog.NewCategory("Dairy", "")
		require.NoError(t, err)
		require.NoError(t, categories.Save(ctx, category))

		found, err := service.Categories(ctx)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Dairy", found[0].Name)
	})
}
