package repository

import (
	"context"
	"time"

	"barpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreditRepository interface {
	CreateCustomer(ctx context.Context, c *model.CreditCustomer) error
	FindCustomerByID(ctx context.Context, id uuid.UUID) (*model.CreditCustomer, error)
	ListCustomers(ctx context.Context) ([]model.CreditCustomer, error)
	UpdateCustomer(ctx context.Context, c *model.CreditCustomer) error
	// RegisterTransaction persists the ledger entry and the customer balance
	// delta inside a single DB transaction — they succeed or fail together.
	RegisterTransaction(ctx context.Context, t *model.CreditTransaction) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.CreditTransaction, error)
	// ListInWindow returns all ledger entries with created_at in [from, to),
	// regardless of customer — used by shift reconciliation.
	ListInWindow(ctx context.Context, from, to time.Time) ([]model.CreditTransaction, error)
}

type creditRepo struct{ db *gorm.DB }

func NewCreditRepository(db *gorm.DB) CreditRepository { return &creditRepo{db: db} }

func (r *creditRepo) CreateCustomer(ctx context.Context, c *model.CreditCustomer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *creditRepo) FindCustomerByID(ctx context.Context, id uuid.UUID) (*model.CreditCustomer, error) {
	var c model.CreditCustomer
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *creditRepo) ListCustomers(ctx context.Context) ([]model.CreditCustomer, error) {
	var customers []model.CreditCustomer
	err := r.db.WithContext(ctx).Where("active = true").Order("name ASC").Find(&customers).Error
	return customers, err
}

func (r *creditRepo) UpdateCustomer(ctx context.Context, c *model.CreditCustomer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *creditRepo) RegisterTransaction(ctx context.Context, t *model.CreditTransaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			return err
		}

		delta := t.Amount
		if t.Type == model.TxPayment {
			delta = delta.Neg()
		}
		return tx.Model(&model.CreditCustomer{}).
			Where("id = ?", t.CustomerID).
			Update("current_used", gorm.Expr("current_used + ?", delta)).Error
	})
}

func (r *creditRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.CreditTransaction, error) {
	var txs []model.CreditTransaction
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&txs).Error
	return txs, err
}

func (r *creditRepo) ListInWindow(ctx context.Context, from, to time.Time) ([]model.CreditTransaction, error) {
	var txs []model.CreditTransaction
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&txs).Error
	return txs, err
}
