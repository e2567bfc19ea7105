package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateCustomerRequest struct {
	Name        string          `json:"name"         validate:"required,min=2"`
	Phone       *string         `json:"phone"`
	CreditLimit decimal.Decimal `json:"credit_limit" validate:"required,gt=0"`
}

type UpdateCustomerRequest struct {
	Name        *string          `json:"name"         validate:"omitempty,min=2"`
	Phone       *string          `json:"phone"`
	CreditLimit *decimal.Decimal `json:"credit_limit" validate:"omitempty,gt=0"`
}

type RegisterTransactionRequest struct {
	Type        string          `json:"type"        validate:"required,oneof=DEBT PAYMENT"`
	Amount      decimal.Decimal `json:"amount"      validate:"required,gt=0"`
	Method      *string         `json:"method"      validate:"omitempty,oneof=CASH TRANSFER CARD"`
	Description *string         `json:"description"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CustomerResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Phone       *string         `json:"phone"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	CurrentUsed decimal.Decimal `json:"current_used"`
	Available   decimal.Decimal `json:"available"`
	Active      bool            `json:"active"`
}

type TransactionResponse struct {
	ID          string          `json:"id"`
	CustomerID  string          `json:"customer_id"`
	Type        string          `json:"type"`
	Method      *string         `json:"method"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description"`
	Employee    string          `json:"employee"`
	CreatedAt   string          `json:"created_at"`
}
