package repository

import (
	"context"
	"time"

	"barpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// sumRow scans COALESCE(SUM(amount),0) results.
type sumRow struct {
	Total decimal.Decimal
}

// ─── Expenses ────────────────────────────────────────────────────────────────

type ExpenseRepository interface {
	Create(ctx context.Context, e *model.Expense) error
	List(ctx context.Context) ([]model.Expense, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SumInRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}

type expenseRepo struct{ db *gorm.DB }

func NewExpenseRepository(db *gorm.DB) ExpenseRepository { return &expenseRepo{db: db} }

func (r *expenseRepo) Create(ctx context.Context, e *model.Expense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *expenseRepo) List(ctx context.Context) ([]model.Expense, error) {
	var expenses []model.Expense
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Expense{}, id).Error
}

func (r *expenseRepo) SumInRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var row sumRow
	err := r.db.WithContext(ctx).Model(&model.Expense{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("created_at >= ? AND created_at < ?", from, to).
		Scan(&row).Error
	return row.Total, err
}

// ─── Purchases ───────────────────────────────────────────────────────────────

type PurchaseRepository interface {
	Create(ctx context.Context, p *model.Purchase) error
	List(ctx context.Context) ([]model.Purchase, error)
	SumInRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}

type purchaseRepo struct{ db *gorm.DB }

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository { return &purchaseRepo{db: db} }

func (r *purchaseRepo) Create(ctx context.Context, p *model.Purchase) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *purchaseRepo) List(ctx context.Context) ([]model.Purchase, error) {
	var purchases []model.Purchase
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&purchases).Error
	return purchases, err
}

func (r *purchaseRepo) SumInRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var row sumRow
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("created_at >= ? AND created_at < ?", from, to).
		Scan(&row).Error
	return row.Total, err
}

// ─── Payroll ─────────────────────────────────────────────────────────────────

type PayrollRepository interface {
	Create(ctx context.Context, p *model.PayrollEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PayrollEntry, error)
	List(ctx context.Context) ([]model.PayrollEntry, error)
	Update(ctx context.Context, p *model.PayrollEntry) error
	SumApprovedInRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}

type payrollRepo struct{ db *gorm.DB }

func NewPayrollRepository(db *gorm.DB) PayrollRepository { return &payrollRepo{db: db} }

func (r *payrollRepo) Create(ctx context.Context, p *model.PayrollEntry) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *payrollRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PayrollEntry, error) {
	var p model.PayrollEntry
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *payrollRepo) List(ctx context.Context) ([]model.PayrollEntry, error) {
	var entries []model.PayrollEntry
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&entries).Error
	return entries, err
}

func (r *payrollRepo) Update(ctx context.Context, p *model.PayrollEntry) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *payrollRepo) SumApprovedInRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var row sumRow
	err := r.db.WithContext(ctx).Model(&model.PayrollEntry{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("status = ? AND resolved_at >= ? AND resolved_at < ?", model.PayrollApproved, from, to).
		Scan(&row).Error
	return row.Total, err
}
