package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateExpenseRequest struct {
	Description string          `json:"description" validate:"required,min=3"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"      validate:"required,gt=0"`
}

type CreatePurchaseRequest struct {
	ProductID *string         `json:"product_id" validate:"omitempty,uuid"`
	Detail    string          `json:"detail"     validate:"required,min=3"`
	Supplier  *string         `json:"supplier"`
	Quantity  int             `json:"quantity"   validate:"min=1"`
	Amount    decimal.Decimal `json:"amount"     validate:"required,gt=0"`
}

type CreatePayrollRequest struct {
	EmployeeID  string          `json:"employee_id"  validate:"required,uuid"`
	PeriodStart string          `json:"period_start" validate:"required,datetime=2006-01-02"`
	PeriodEnd   string          `json:"period_end"   validate:"required,datetime=2006-01-02"`
	Amount      decimal.Decimal `json:"amount"       validate:"required,gt=0"`
	Note        *string         `json:"note"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PayrollResponse struct {
	ID          string          `json:"id"`
	Employee    string          `json:"employee"`
	PeriodStart string          `json:"period_start"`
	PeriodEnd   string          `json:"period_end"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	Note        *string         `json:"note"`
	CreatedAt   string          `json:"created_at"`
}

type AccountingSummaryResponse struct {
	From            string          `json:"from"`
	To              string          `json:"to"`
	Revenue         decimal.Decimal `json:"revenue"`
	Profit          decimal.Decimal `json:"profit"`
	Expenses        decimal.Decimal `json:"expenses"`
	Purchases       decimal.Decimal `json:"purchases"`
	ApprovedPayroll decimal.Decimal `json:"approved_payroll"`
	Net             decimal.Decimal `json:"net"`
	SessionsClosed  int             `json:"sessions_closed"`
}
