package ledger_test

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// Fakes en memoria para los tests del caso de uso. No simulan bloqueo de filas:
// los tests ejercitan la lógica de negocio, no la concurrencia de PostgreSQL.

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	m := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		cp := *p
		m[p.ID] = &cp
	}
	return &fakeProductRepo{products: m}
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	for _, existing := range r.products {
		if existing.SKU == p.SKU {
			return domain.ErrConflict
		}
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *fakeProductRepo) UpdateStock(id string, newStock int64) error {
	p, ok := r.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = newStock
	return nil
}

func (r *fakeProductRepo) UpdateCost(id string, cost decimal.Decimal) error {
	p, ok := r.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.CostPrice = cost
	return nil
}

func (r *fakeProductRepo) SetInventoryStatus(id string, date time.Time, status string) error {
	p, ok := r.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	d := date
	p.LastInventoryDate = &d
	p.LastInventoryStatus = status
	return nil
}

type fakeMovementRepo struct {
	movements []*entity.Movement
}

func (r *fakeMovementRepo) Create(m *entity.Movement) error {
	cp := *m
	r.movements = append(r.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) GetByID(id string) (*entity.Movement, error) {
	for _, m := range r.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.movements {
		if m.ProductID == productID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) List(from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.movements {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeMovementRepo) SumDeltasByProduct(productID string) (int64, error) {
	var sum int64
	for _, m := range r.movements {
		if m.ProductID == productID {
			sum += m.QuantityDelta
		}
	}
	return sum, nil
}

type fakeSaleRepo struct {
	sales []*entity.Sale
}

func (r *fakeSaleRepo) Create(s *entity.Sale) error {
	cp := *s
	r.sales = append(r.sales, &cp)
	return nil
}

func (r *fakeSaleRepo) SumByPaymentMethod(method string, from time.Time, to *time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, s := range r.sales {
		if s.PaymentMethod != method || s.SaleDate.Before(from) {
			continue
		}
		if to != nil && s.SaleDate.After(*to) {
			continue
		}
		sum = sum.Add(s.Total)
	}
	return sum, nil
}

func (r *fakeSaleRepo) CountByPaymentMethod(method string, from time.Time, to *time.Time) (int64, error) {
	var count int64
	for _, s := range r.sales {
		if s.PaymentMethod != method || s.SaleDate.Before(from) {
			continue
		}
		if to != nil && s.SaleDate.After(*to) {
			continue
		}
		count++
	}
	return count, nil
}

func (r *fakeSaleRepo) ListBetween(from time.Time, to *time.Time, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, s := range r.sales {
		if s.SaleDate.Before(from) {
			continue
		}
		if to != nil && s.SaleDate.After(*to) {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

type fakeSessionRepo struct {
	sessions map[string]*entity.CashSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*entity.CashSession)}
}

func (r *fakeSessionRepo) CreateOpen(s *entity.CashSession) error {
	for _, existing := range r.sessions {
		if existing.Status == entity.SessionOpen {
			return domain.ErrSessionAlreadyOpen
		}
	}
	cp := *s
	cp.Status = entity.SessionOpen
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) GetByID(id string) (*entity.CashSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) GetOpen() (*entity.CashSession, error) {
	for _, s := range r.sessions {
		if s.Status == entity.SessionOpen {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) AddCashSaleToCurrent(amount decimal.Decimal) (string, error) {
	for _, s := range r.sessions {
		if s.Status == entity.SessionOpen {
			s.TotalSales = s.TotalSales.Add(amount)
			s.TotalTransactions++
			return s.ID, nil
		}
	}
	for _, s := range r.sessions {
		if s.Status == entity.SessionUnassigned {
			s.TotalSales = s.TotalSales.Add(amount)
			s.TotalTransactions++
			return s.ID, nil
		}
	}
	s := &entity.CashSession{
		ID:                "unassigned-1",
		Status:            entity.SessionUnassigned,
		OpeningAmount:     decimal.Zero,
		TotalSales:        amount,
		TotalTransactions: 1,
		StartTime:         time.Now(),
		CashierName:       "sistema",
	}
	r.sessions[s.ID] = s
	return s.ID, nil
}

func (r *fakeSessionRepo) UpdateReconciliation(s *entity.CashSession) error {
	if _, ok := r.sessions[s.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) List(limit, offset int) ([]*entity.CashSession, error) {
	var out []*entity.CashSession
	for _, s := range r.sessions {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out, nil
}

type fakeBatchRepo struct {
	batches map[string]*entity.ExpirationBatch
}

func newFakeBatchRepo(batches ...*entity.ExpirationBatch) *fakeBatchRepo {
	m := make(map[string]*entity.ExpirationBatch, len(batches))
	for _, b := range batches {
		cp := *b
		m[b.ID] = &cp
	}
	return &fakeBatchRepo{batches: m}
}

func (r *fakeBatchRepo) Create(b *entity.ExpirationBatch) error {
	cp := *b
	r.batches[b.ID] = &cp
	return nil
}

func (r *fakeBatchRepo) GetByID(id string) (*entity.ExpirationBatch, error) {
	b, ok := r.batches[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBatchRepo) ListActive() ([]*entity.ExpirationBatch, error) {
	var out []*entity.ExpirationBatch
	for _, b := range r.batches {
		if b.IsActive {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpirationDate.Before(out[j].ExpirationDate) })
	return out, nil
}

func (r *fakeBatchRepo) ListActiveByProduct(productID string) ([]*entity.ExpirationBatch, error) {
	var out []*entity.ExpirationBatch
	for _, b := range r.batches {
		if b.IsActive && b.ProductID == productID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) DecreaseTo(id string, newQuantity int64) (bool, error) {
	b, ok := r.batches[id]
	if !ok || !b.IsActive || b.CurrentQuantity < newQuantity {
		return false, nil
	}
	b.CurrentQuantity = newQuantity
	if newQuantity == 0 {
		b.IsActive = false
	}
	return true, nil
}

type fakeNotificationRepo struct {
	notifications []*entity.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(n *entity.Notification) error {
	cp := *n
	r.notifications = append(r.notifications, &cp)
	return nil
}

func (r *fakeNotificationRepo) ExistsUnread(productID, ntype string) (bool, error) {
	return r.hasUnread(productID, ntype), nil
}

func (r *fakeNotificationRepo) hasUnread(productID, ntype string) bool {
	for _, n := range r.notifications {
		if n.ProductID == productID && n.Type == ntype && !n.IsRead {
			return true
		}
	}
	return false
}

func (r *fakeNotificationRepo) List(onlyUnread bool, limit, offset int) ([]*entity.Notification, error) {
	var out []*entity.Notification
	for _, n := range r.notifications {
		if onlyUnread && n.IsRead {
			continue
		}
		cp := *n
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(id string) error {
	for _, n := range r.notifications {
		if n.ID == id {
			n.IsRead = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeNotificationRepo) MarkAllRead() (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if !n.IsRead {
			n.IsRead = true
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) Delete(id string) error {
	for i, n := range r.notifications {
		if n.ID == id {
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// fakeTxRunner ejecuta el callback directamente con los repos compartidos.
// No hay rollback: los tests que esperan fallo verifican el estado después.
type fakeTxRunner struct {
	movRepo     repository.MovementRepository
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	sessionRepo repository.CashSessionRepository
	batchRepo   repository.ExpirationBatchRepository
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	sessionRepo repository.CashSessionRepository,
	batchRepo repository.ExpirationBatchRepository,
) error) error {
	return fn(r.movRepo, r.productRepo, r.saleRepo, r.sessionRepo, r.batchRepo)
}
