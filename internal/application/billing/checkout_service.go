package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/billing"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/stock"
	"go.uber.org/zap"
)

// maxFinalizeAttempts bounds retries on invoice number collisions. A collision
// aborts the whole database transaction, so the entire finalization is rerun.
const maxFinalizeAttempts = 3

// CheckoutService finalizes carts into invoices. Finalization is the only
// path that turns a cart into durable state: within one transaction it
// validates every line, decrements stock, appends movements referencing the
// new invoice, and inserts the numbered invoice. Any failure leaves no trace.
type CheckoutService struct {
	scope       TransactionScope
	invoiceRepo billing.InvoiceRepository
	logger      *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(scope TransactionScope, invoiceRepo billing.InvoiceRepository, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		scope:       scope,
		invoiceRepo: invoiceRepo,
		logger:      logger,
	}
}

// Finalize validates the cart and commits the sale atomically. Stock checks
// happen inside the transaction with conditional updates, so concurrent sales
// of the last units cannot both succeed.
func (s *CheckoutService) Finalize(ctx context.Context, req FinalizeInvoiceRequest) (*FinalizeInvoiceResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("EMPTY_CART", "Cannot finalize an empty cart")
	}

	var result *FinalizeInvoiceResponse
	var err error
	for attempt := 1; attempt <= maxFinalizeAttempts; attempt++ {
		result, err = s.finalizeOnce(ctx, req)
		if err == nil {
			return result, nil
		}
		if !isNumberCollision(err) {
			break
		}
		s.logger.Warn("invoice number collision, retrying finalization",
			zap.Int("attempt", attempt),
			zap.String("location_id", req.LocationID.String()))
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return nil, domainErr
	}

	s.logger.Error("invoice finalization failed",
		zap.String("location_id", req.LocationID.String()),
		zap.Int("items", len(req.Items)),
		zap.Error(err))
	return nil, shared.ErrPersistenceFailure
}

func (s *CheckoutService) finalizeOnce(ctx context.Context, req FinalizeInvoiceRequest) (*FinalizeInvoiceResponse, error) {
	var response FinalizeInvoiceResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.Locations().FindByID(ctx, req.LocationID); err != nil {
			if isNotFound(err) {
				return shared.NewDomainError("INVALID_LOCATION", "Location does not exist")
			}
			return err
		}

		invoice, err := billing.NewInvoice(req.LocationID, req.CustomerName, req.CustomerPhone, req.Notes)
		if err != nil {
			return err
		}
		if req.CreatedBy != nil {
			invoice.SetCreatedBy(*req.CreatedBy)
		}

		now := time.Now()
		for _, line := range req.Items {
			if err := s.sellLine(ctx, repos, invoice, line, now); err != nil {
				return err
			}
		}

		if err := invoice.ApplyDiscount(req.DiscountAmount, req.DiscountPercent); err != nil {
			return err
		}
		if err := invoice.FinalizeTotals(); err != nil {
			return err
		}

		number, err := repos.Numbers().Next(ctx)
		if err != nil {
			return err
		}
		if err := invoice.SetInvoiceNumber(number); err != nil {
			return err
		}

		if err := repos.Invoices().Create(ctx, invoice); err != nil {
			return err
		}

		response = FinalizeInvoiceResponse{
			InvoiceID:     invoice.ID,
			InvoiceNumber: invoice.InvoiceNumber,
			Subtotal:      invoice.Subtotal,
			Total:         invoice.Total,
		}

		s.logger.Info("invoice finalized",
			zap.String("invoice_id", invoice.ID.String()),
			zap.String("invoice_number", invoice.InvoiceNumber),
			zap.Int("items", invoice.ItemCount()),
			zap.String("total", invoice.Total.String()))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// sellLine resolves one cart line against the catalog, decrements stock, and
// records the movement. The decrement is a conditional update: a concurrent
// sale that drained the stock first makes it fail, never oversell.
func (s *CheckoutService) sellLine(ctx context.Context, repos TransactionalRepositories, invoice *billing.Invoice, line CartLine, now time.Time) error {
	product, err := repos.Products().FindByID(ctx, line.ProductID)
	if err != nil {
		if isNotFound(err) {
			return shared.NewDomainError("PRODUCT_NOT_FOUND", "Product does not exist").
				WithDetails(map[string]any{"product_id": line.ProductID.String()})
		}
		return err
	}
	if !product.IsSellable() {
		return shared.NewDomainError("PRODUCT_INACTIVE", "Product is not available for sale").
			WithDetails(map[string]any{"product_id": product.ID.String(), "sku": product.SKU})
	}

	// The terminal submits the price it displayed. A difference means the
	// catalog changed under the cashier; the sale is rejected rather than
	// silently repriced.
	if !line.UnitPrice.Equal(product.MRP) {
		return shared.NewDomainError("PRICE_MISMATCH", "Submitted price no longer matches the catalog").
			WithDetails(map[string]any{
				"product_id":      product.ID.String(),
				"submitted_price": line.UnitPrice.String(),
				"current_price":   product.MRP.String(),
			})
	}

	record, err := repos.Stock().FindByProductAndLocation(ctx, line.ProductID, invoice.LocationID)
	if err != nil {
		if isNotFound(err) {
			// Never stocked at this location reads as zero available.
			return stock.NewInsufficientStockError(line.ProductID, line.Qty, 0)
		}
		return err
	}

	if _, err := repos.Stock().ApplyChange(ctx, record.ID, -line.Qty, now); err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == shared.ErrInsufficientStock.Code {
			return stock.NewInsufficientStockError(line.ProductID, line.Qty, record.Quantity)
		}
		return err
	}

	movement, err := stock.NewStockMovement(line.ProductID, invoice.LocationID, -line.Qty, stock.ReasonSale, stock.ReferenceInvoice, &invoice.ID)
	if err != nil {
		return err
	}
	if invoice.CreatedBy != nil {
		movement.WithActor(*invoice.CreatedBy)
	}
	if err := repos.Movements().Create(ctx, movement); err != nil {
		return err
	}

	_, err = invoice.AddLine(product.ID, product.SKU, product.Name, line.Qty, line.UnitPrice, line.DiscountAmount, product.TaxPercent)
	return err
}

// GetByID retrieves an invoice with its items
func (s *CheckoutService) GetByID(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByNumber retrieves an invoice by its invoice number
func (s *CheckoutService) GetByNumber(ctx context.Context, number string) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves invoices, newest first
func (s *CheckoutService) List(ctx context.Context, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}

	var invoices []billing.Invoice
	var err error
	if filter.From != nil && filter.To != nil {
		invoices, err = s.invoiceRepo.FindByDateRange(ctx, *filter.From, *filter.To, f)
	} else {
		invoices, err = s.invoiceRepo.FindAll(ctx, f)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.invoiceRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		responses = append(responses, ToInvoiceResponse(&invoices[i]))
	}
	return responses, total, nil
}

func isNotFound(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == shared.ErrNotFound.Code
}

func isNumberCollision(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == shared.ErrAlreadyExists.Code
}
