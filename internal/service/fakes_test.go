package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"barpos/internal/model"
	"barpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── In-memory SessionRepository ──────────────────────────────────────────────

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*model.ShiftSession
	failNext error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*model.ShiftSession)}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *model.ShiftSession) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ShiftSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) FindOpen(_ context.Context) (*model.ShiftSession, error) {
	for _, s := range r.sessions {
		if s.Status == model.ShiftOpen {
			cp := *s
			return &cp, nil
		}
	}
	return nil, repository.ErrNoOpenSession
}

func (r *fakeSessionRepo) FindLastClosed(_ context.Context) (*model.ShiftSession, error) {
	var last *model.ShiftSession
	for _, s := range r.sessions {
		if s.Status == model.ShiftOpen || s.ClosedAt == nil {
			continue
		}
		if last == nil || s.ClosedAt.After(*last.ClosedAt) {
			last = s
		}
	}
	if last == nil {
		return nil, errors.New("not found")
	}
	cp := *last
	return &cp, nil
}

func (r *fakeSessionRepo) Update(_ context.Context, s *model.ShiftSession) error {
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) List(_ context.Context, _, _ int) ([]model.ShiftSession, error) {
	out := make([]model.ShiftSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OpenedAt.After(out[j].OpenedAt) })
	return out, nil
}

func (r *fakeSessionRepo) ListClosedInRange(_ context.Context, from, to time.Time) ([]model.ShiftSession, error) {
	var out []model.ShiftSession
	for _, s := range r.sessions {
		if s.Status != model.ShiftClosed || s.ClosedAt == nil {
			continue
		}
		if !s.ClosedAt.Before(from) && s.ClosedAt.Before(to) {
			out = append(out, *s)
		}
	}
	return out, nil
}

// ── In-memory ProductRepository ──────────────────────────────────────────────

type fakeProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newFakeProductRepo(products ...*model.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[uuid.UUID]*model.Product)}
	for _, p := range products {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *fakeProductRepo) List(_ context.Context, includeInactive bool) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.Active || includeInactive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) ListActiveTracked(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.Active && p.TrackStock {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) UpdateCounts(_ context.Context, counts map[uuid.UUID]int) error {
	for id, count := range counts {
		if p, ok := r.products[id]; ok {
			p.CurrentCount = count
		}
	}
	return nil
}

// ── In-memory CreditRepository ───────────────────────────────────────────────

type fakeCreditRepo struct {
	customers map[uuid.UUID]*model.CreditCustomer
	txs       []model.CreditTransaction
	failTx    error
}

func newFakeCreditRepo(customers ...*model.CreditCustomer) *fakeCreditRepo {
	r := &fakeCreditRepo{customers: make(map[uuid.UUID]*model.CreditCustomer)}
	for _, c := range customers {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		r.customers[c.ID] = c
	}
	return r
}

func (r *fakeCreditRepo) CreateCustomer(_ context.Context, c *model.CreditCustomer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCreditRepo) FindCustomerByID(_ context.Context, id uuid.UUID) (*model.CreditCustomer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCreditRepo) ListCustomers(_ context.Context) ([]model.CreditCustomer, error) {
	out := make([]model.CreditCustomer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeCreditRepo) UpdateCustomer(_ context.Context, c *model.CreditCustomer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCreditRepo) RegisterTransaction(_ context.Context, t *model.CreditTransaction) error {
	if r.failTx != nil {
		return r.failTx
	}
	c, ok := r.customers[t.CustomerID]
	if !ok {
		return errors.New("not found")
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	// Mirrors the real repo: entry and balance move together or not at all.
	delta := t.Amount
	if t.Type == model.TxPayment {
		delta = delta.Neg()
	}
	c.CurrentUsed = c.CurrentUsed.Add(delta)
	r.txs = append(r.txs, *t)
	return nil
}

func (r *fakeCreditRepo) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]model.CreditTransaction, error) {
	var out []model.CreditTransaction
	for _, t := range r.txs {
		if t.CustomerID == customerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeCreditRepo) ListInWindow(_ context.Context, from, to time.Time) ([]model.CreditTransaction, error) {
	var out []model.CreditTransaction
	for _, t := range r.txs {
		if !t.CreatedAt.Before(from) && t.CreatedAt.Before(to) {
			out = append(out, t)
		}
	}
	return out, nil
}

// ── In-memory AlertRepository ────────────────────────────────────────────────

type fakeAlertRepo struct {
	alerts []model.Alert
}

func (r *fakeAlertRepo) Create(_ context.Context, a *model.Alert) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.alerts = append(r.alerts, *a)
	return nil
}

func (r *fakeAlertRepo) ListPending(_ context.Context) ([]model.Alert, error) {
	return r.alerts, nil
}

func (r *fakeAlertRepo) Acknowledge(_ context.Context, _, _ uuid.UUID) error { return nil }

// ── In-memory AppConfigRepository ────────────────────────────────────────────

type fakeAppConfigRepo struct {
	cfg model.AppConfig
}

func newFakeAppConfigRepo() *fakeAppConfigRepo {
	return &fakeAppConfigRepo{cfg: model.AppConfig{
		ID:                     1,
		BusinessName:           "Bar",
		VarianceAlertThreshold: decimal.NewFromInt(5000),
		DrawerBaudRate:         9600,
		DrawerPulseMs:          200,
		DrawerMaxOpenMs:        10000,
		DrawerSensorPollMs:     1000,
	}}
}

func (r *fakeAppConfigRepo) Get(_ context.Context) (*model.AppConfig, error) {
	cp := r.cfg
	return &cp, nil
}

func (r *fakeAppConfigRepo) Update(_ context.Context, c *model.AppConfig) error {
	r.cfg = *c
	return nil
}

// ── In-memory SaleRepository ─────────────────────────────────────────────────

type fakeSaleRepo struct {
	sales []model.Sale
}

func (r *fakeSaleRepo) Create(_ context.Context, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.CreatedAt = time.Now()
	r.sales = append(r.sales, *s)
	return nil
}

func (r *fakeSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	for i := range r.sales {
		if r.sales[i].ID == id {
			return &r.sales[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeSaleRepo) ListBySession(_ context.Context, sessionID uuid.UUID) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if s.SessionID == sessionID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) List(_ context.Context, _, _ int) ([]model.Sale, error) {
	return r.sales, nil
}

// ── In-memory accounting repositories ────────────────────────────────────────

type fakeExpenseRepo struct {
	expenses []model.Expense
}

func (r *fakeExpenseRepo) Create(_ context.Context, e *model.Expense) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	r.expenses = append(r.expenses, *e)
	return nil
}

func (r *fakeExpenseRepo) List(_ context.Context) ([]model.Expense, error) {
	return r.expenses, nil
}

func (r *fakeExpenseRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, e := range r.expenses {
		if e.ID == id {
			r.expenses = append(r.expenses[:i], r.expenses[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (r *fakeExpenseRepo) SumInRange(_ context.Context, from, to time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range r.expenses {
		if !e.CreatedAt.Before(from) && e.CreatedAt.Before(to) {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

type fakePurchaseRepo struct {
	purchases []model.Purchase
}

func (r *fakePurchaseRepo) Create(_ context.Context, p *model.Purchase) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	r.purchases = append(r.purchases, *p)
	return nil
}

func (r *fakePurchaseRepo) List(_ context.Context) ([]model.Purchase, error) {
	return r.purchases, nil
}

func (r *fakePurchaseRepo) SumInRange(_ context.Context, from, to time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range r.purchases {
		if !p.CreatedAt.Before(from) && p.CreatedAt.Before(to) {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

type fakePayrollRepo struct {
	entries map[uuid.UUID]*model.PayrollEntry
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{entries: make(map[uuid.UUID]*model.PayrollEntry)}
}

func (r *fakePayrollRepo) Create(_ context.Context, p *model.PayrollEntry) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	cp := *p
	r.entries[p.ID] = &cp
	return nil
}

func (r *fakePayrollRepo) FindByID(_ context.Context, id uuid.UUID) (*model.PayrollEntry, error) {
	p, ok := r.entries[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *p
	return &cp, nil
}

func (r *fakePayrollRepo) List(_ context.Context) ([]model.PayrollEntry, error) {
	out := make([]model.PayrollEntry, 0, len(r.entries))
	for _, p := range r.entries {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakePayrollRepo) Update(_ context.Context, p *model.PayrollEntry) error {
	cp := *p
	r.entries[p.ID] = &cp
	return nil
}

func (r *fakePayrollRepo) SumApprovedInRange(_ context.Context, from, to time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range r.entries {
		if p.Status != model.PayrollApproved || p.ResolvedAt == nil {
			continue
		}
		if !p.ResolvedAt.Before(from) && p.ResolvedAt.Before(to) {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

// ── In-memory UserRepository ─────────────────────────────────────────────────

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeUserRepo) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}
