package billing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/billing"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/stock"
)

// memStore is an in-memory backing store shared by the fake repositories.
// memScope serializes transactions with the store mutex and restores a
// snapshot on error, giving the tests real commit/rollback semantics.
type memStore struct {
	mu        sync.Mutex
	products  map[uuid.UUID]catalog.Product
	locations map[uuid.UUID]stock.Location
	records   map[uuid.UUID]stock.StockRecord
	movements []stock.StockMovement
	invoices  map[uuid.UUID]billing.Invoice
	numbers   map[string]struct{}

	// seq has its own lock: like a native database sequence it is issued on
	// the base connection, outside the transaction and its store lock.
	seqMu sync.Mutex
	seq   int64
}

func newMemStore() *memStore {
	return &memStore{
		products:  make(map[uuid.UUID]catalog.Product),
		locations: make(map[uuid.UUID]stock.Location),
		records:   make(map[uuid.UUID]stock.StockRecord),
		invoices:  make(map[uuid.UUID]billing.Invoice),
		numbers:   make(map[string]struct{}),
	}
}

// memSnapshot omits seq: like a native database sequence, number issuance
// does not roll back with the transaction.
type memSnapshot struct {
	records      map[uuid.UUID]stock.StockRecord
	movementsLen int
	invoices     map[uuid.UUID]billing.Invoice
	numbers      map[string]struct{}
}

func (s *memStore) snapshot() memSnapshot {
	records := make(map[uuid.UUID]stock.StockRecord, len(s.records))
	for k, v := range s.records {
		records[k] = v
	}
	invoices := make(map[uuid.UUID]billing.Invoice, len(s.invoices))
	for k, v := range s.invoices {
		invoices[k] = v
	}
	numbers := make(map[string]struct{}, len(s.numbers))
	for k := range s.numbers {
		numbers[k] = struct{}{}
	}
	return memSnapshot{
		records:      records,
		movementsLen: len(s.movements),
		invoices:     invoices,
		numbers:      numbers,
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.records = snap.records
	s.movements = s.movements[:snap.movementsLen]
	s.invoices = snap.invoices
	s.numbers = snap.numbers
}

func (s *memStore) addProduct(p *catalog.Product)    { s.products[p.ID] = *p }
func (s *memStore) addLocation(l *stock.Location)    { s.locations[l.ID] = *l }
func (s *memStore) addRecord(r *stock.StockRecord)   { s.records[r.ID] = *r }
func (s *memStore) reserveNumber(n string)           { s.numbers[n] = struct{}{} }
func (s *memStore) quantityOf(recordID uuid.UUID) int64 {
	return s.records[recordID].Quantity
}

// memScope implements TransactionScope and TransactionalRepositories over
// the store.
type memScope struct {
	store *memStore
}

func newMemScope(store *memStore) *memScope {
	return &memScope{store: store}
}

func (s *memScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	snap := s.store.snapshot()
	if err := fn(s); err != nil {
		s.store.restore(snap)
		return err
	}
	return nil
}

func (s *memScope) Products() catalog.ProductRepository      { return &memProductRepo{s.store} }
func (s *memScope) Locations() stock.LocationRepository      { return &memLocationRepo{s.store} }
func (s *memScope) Stock() stock.StockRecordRepository       { return &memStockRepo{s.store} }
func (s *memScope) Movements() stock.StockMovementRepository { return &memMovementRepo{s.store} }
func (s *memScope) Invoices() billing.InvoiceRepository      { return &memInvoiceRepo{s.store} }
func (s *memScope) Numbers() billing.NumberSequenceRepository {
	return &memNumberRepo{s.store}
}

var _ TransactionScope = (*memScope)(nil)
var _ TransactionalRepositories = (*memScope)(nil)

type memProductRepo struct{ store *memStore }

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := r.store.products[id]; ok {
		return &p, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindBySKU(_ context.Context, sku string) (*catalog.Product, error) {
	for _, p := range r.store.products {
		if p.SKU == sku {
			return &p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.store.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProductRepo) Search(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *memProductRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.store.products)), nil
}

func (r *memProductRepo) Save(_ context.Context, p *catalog.Product) error {
	r.store.products[p.ID] = *p
	return nil
}

type memLocationRepo struct{ store *memStore }

func (r *memLocationRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.Location, error) {
	if l, ok := r.store.locations[id]; ok {
		return &l, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memLocationRepo) FindAll(_ context.Context) ([]stock.Location, error) {
	out := make([]stock.Location, 0, len(r.store.locations))
	for _, l := range r.store.locations {
		out = append(out, l)
	}
	return out, nil
}

func (r *memLocationRepo) Save(_ context.Context, l *stock.Location) error {
	r.store.locations[l.ID] = *l
	return nil
}

type memStockRepo struct{ store *memStore }

func (r *memStockRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.StockRecord, error) {
	if rec, ok := r.store.records[id]; ok {
		return &rec, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memStockRepo) FindByProductAndLocation(_ context.Context, productID, locationID uuid.UUID) (*stock.StockRecord, error) {
	for _, rec := range r.store.records {
		if rec.ProductID == productID && rec.LocationID == locationID {
			return &rec, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memStockRepo) FindByLocation(_ context.Context, locationID uuid.UUID, _ shared.Filter) ([]stock.StockRecord, error) {
	var out []stock.StockRecord
	for _, rec := range r.store.records {
		if rec.LocationID == locationID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memStockRepo) FindAll(_ context.Context, _ shared.Filter) ([]stock.StockRecord, error) {
	out := make([]stock.StockRecord, 0, len(r.store.records))
	for _, rec := range r.store.records {
		out = append(out, rec)
	}
	return out, nil
}

func (r *memStockRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.store.records)), nil
}

func (r *memStockRepo) Save(_ context.Context, rec *stock.StockRecord) error {
	r.store.records[rec.ID] = *rec
	return nil
}

func (r *memStockRepo) ApplyChange(_ context.Context, recordID uuid.UUID, change int64, at time.Time) (int64, error) {
	rec, ok := r.store.records[recordID]
	if !ok {
		return 0, shared.ErrNotFound
	}
	if rec.Quantity+change < 0 {
		return 0, shared.ErrInsufficientStock
	}
	rec.Quantity += change
	rec.LastMovementAt = &at
	r.store.records[recordID] = rec
	return rec.Quantity, nil
}

type memMovementRepo struct{ store *memStore }

func (r *memMovementRepo) Create(_ context.Context, m *stock.StockMovement) error {
	r.store.movements = append(r.store.movements, *m)
	return nil
}

func (r *memMovementRepo) FindByProductAndLocation(_ context.Context, productID, locationID uuid.UUID, _ shared.Filter) ([]stock.StockMovement, error) {
	var out []stock.StockMovement
	for _, m := range r.store.movements {
		if m.ProductID == productID && m.LocationID == locationID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMovementRepo) FindByReference(_ context.Context, refType stock.ReferenceType, refID uuid.UUID) ([]stock.StockMovement, error) {
	var out []stock.StockMovement
	for _, m := range r.store.movements {
		if m.ReferenceType == refType && m.ReferenceID != nil && *m.ReferenceID == refID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMovementRepo) FindAll(_ context.Context, _ shared.Filter) ([]stock.StockMovement, error) {
	return append([]stock.StockMovement(nil), r.store.movements...), nil
}

func (r *memMovementRepo) SumChanges(_ context.Context, productID, locationID uuid.UUID) (int64, error) {
	var sum int64
	for _, m := range r.store.movements {
		if m.ProductID == productID && m.LocationID == locationID {
			sum += m.Change
		}
	}
	return sum, nil
}

type memInvoiceRepo struct{ store *memStore }

func (r *memInvoiceRepo) Create(_ context.Context, inv *billing.Invoice) error {
	if _, taken := r.store.numbers[inv.InvoiceNumber]; taken {
		return shared.ErrAlreadyExists
	}
	r.store.numbers[inv.InvoiceNumber] = struct{}{}
	r.store.invoices[inv.ID] = *inv
	return nil
}

func (r *memInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*billing.Invoice, error) {
	if inv, ok := r.store.invoices[id]; ok {
		return &inv, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memInvoiceRepo) FindByNumber(_ context.Context, number string) (*billing.Invoice, error) {
	for _, inv := range r.store.invoices {
		if inv.InvoiceNumber == number {
			return &inv, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memInvoiceRepo) FindAll(_ context.Context, _ shared.Filter) ([]billing.Invoice, error) {
	out := make([]billing.Invoice, 0, len(r.store.invoices))
	for _, inv := range r.store.invoices {
		out = append(out, inv)
	}
	return out, nil
}

func (r *memInvoiceRepo) FindByDateRange(_ context.Context, start, end time.Time, _ shared.Filter) ([]billing.Invoice, error) {
	var out []billing.Invoice
	for _, inv := range r.store.invoices {
		if !inv.CreatedAt.Before(start) && inv.CreatedAt.Before(end) {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *memInvoiceRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.store.invoices)), nil
}

func (r *memInvoiceRepo) Save(_ context.Context, inv *billing.Invoice) error {
	r.store.invoices[inv.ID] = *inv
	return nil
}

type memNumberRepo struct{ store *memStore }

func (r *memNumberRepo) Next(_ context.Context) (string, error) {
	r.store.seqMu.Lock()
	defer r.store.seqMu.Unlock()
	r.store.seq++
	return fmt.Sprintf("INV-%d-%05d", time.Now().Year(), r.store.seq), nil
}
