package service

import (
	"context"
	"errors"
	"time"

	"barpos/internal/dto"
	"barpos/internal/model"
	"barpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountingService interface {
	CreateExpense(ctx context.Context, actor Actor, req dto.CreateExpenseRequest) (*model.Expense, error)
	ListExpenses(ctx context.Context) ([]model.Expense, error)
	DeleteExpense(ctx context.Context, id uuid.UUID) error

	CreatePurchase(ctx context.Context, actor Actor, req dto.CreatePurchaseRequest) (*model.Purchase, error)
	ListPurchases(ctx context.Context) ([]model.Purchase, error)

	CreatePayroll(ctx context.Context, req dto.CreatePayrollRequest) (*dto.PayrollResponse, error)
	ListPayroll(ctx context.Context) ([]dto.PayrollResponse, error)
	ResolvePayroll(ctx context.Context, actor Actor, id uuid.UUID, approve bool) (*dto.PayrollResponse, error)

	Summary(ctx context.Context, from, to time.Time) (*dto.AccountingSummaryResponse, error)
}

type accountingService struct {
	expenses  repository.ExpenseRepository
	purchases repository.PurchaseRepository
	payroll   repository.PayrollRepository
	sessions  repository.SessionRepository
	users     repository.UserRepository
}

func NewAccountingService(
	expenses repository.ExpenseRepository,
	purchases repository.PurchaseRepository,
	payroll repository.PayrollRepository,
	sessions repository.SessionRepository,
	users repository.UserRepository,
) AccountingService {
	return &accountingService{
		expenses:  expenses,
		purchases: purchases,
		payroll:   payroll,
		sessions:  sessions,
		users:     users,
	}
}

// ── Expenses ─────────────────────────────────────────────────────────────────

func (s *accountingService) CreateExpense(ctx context.Context, actor Actor, req dto.CreateExpenseRequest) (*model.Expense, error) {
	category := req.Category
	if category == "" {
		category = "general"
	}
	expense := &model.Expense{
		Description: req.Description,
		Category:    category,
		Amount:      req.Amount,
		RecordedBy:  actor.ID,
	}
	if err := s.expenses.Create(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *accountingService) ListExpenses(ctx context.Context) ([]model.Expense, error) {
	return s.expenses.List(ctx)
}

func (s *accountingService) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	return s.expenses.Delete(ctx, id)
}

// ── Purchases ────────────────────────────────────────────────────────────────

func (s *accountingService) CreatePurchase(ctx context.Context, actor Actor, req dto.CreatePurchaseRequest) (*model.Purchase, error) {
	purchase := &model.Purchase{
		Detail:     req.Detail,
		Supplier:   req.Supplier,
		Quantity:   req.Quantity,
		Amount:     req.Amount,
		RecordedBy: actor.ID,
	}
	if req.ProductID != nil {
		pid, err := uuid.Parse(*req.ProductID)
		if err != nil {
			return nil, errors.New("product_id inválido")
		}
		purchase.ProductID = &pid
	}
	if err := s.purchases.Create(ctx, purchase); err != nil {
		return nil, err
	}
	return purchase, nil
}

func (s *accountingService) ListPurchases(ctx context.Context) ([]model.Purchase, error) {
	return s.purchases.List(ctx)
}

// ── Payroll ──────────────────────────────────────────────────────────────────

func (s *accountingService) CreatePayroll(ctx context.Context, req dto.CreatePayrollRequest) (*dto.PayrollResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return nil, errors.New("employee_id inválido")
	}
	employee, err := s.users.FindByID(ctx, employeeID)
	if err != nil {
		return nil, errors.New("empleado no encontrado")
	}

	periodStart, err := time.Parse("2006-01-02", req.PeriodStart)
	if err != nil {
		return nil, errors.New("period_start inválido")
	}
	periodEnd, err := time.Parse("2006-01-02", req.PeriodEnd)
	if err != nil {
		return nil, errors.New("period_end inválido")
	}
	if !periodEnd.After(periodStart) {
		return nil, errors.New("el período es inválido")
	}

	entry := &model.PayrollEntry{
		EmployeeID:   employee.ID,
		EmployeeName: employee.Name,
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
		Amount:       req.Amount,
		Status:       model.PayrollPending,
		Note:         req.Note,
	}
	if err := s.payroll.Create(ctx, entry); err != nil {
		return nil, err
	}
	resp := payrollToResponse(entry)
	return &resp, nil
}

func (s *accountingService) ListPayroll(ctx context.Context) ([]dto.PayrollResponse, error) {
	entries, err := s.payroll.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PayrollResponse, 0, len(entries))
	for i := range entries {
		out = append(out, payrollToResponse(&entries[i]))
	}
	return out, nil
}

// ResolvePayroll moves a PENDING entry to APPROVED or REJECTED. Any other
// starting status is an error — resolved entries are final.
func (s *accountingService) ResolvePayroll(ctx context.Context, actor Actor, id uuid.UUID, approve bool) (*dto.PayrollResponse, error) {
	entry, err := s.payroll.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("registro de nómina no encontrado")
	}
	if entry.Status != model.PayrollPending {
		return nil, errors.New("el registro ya fue resuelto")
	}

	now := time.Now()
	entry.Status = model.PayrollRejected
	if approve {
		entry.Status = model.PayrollApproved
	}
	entry.ResolvedByID = &actor.ID
	entry.ResolvedAt = &now
	if err := s.payroll.Update(ctx, entry); err != nil {
		return nil, err
	}
	resp := payrollToResponse(entry)
	return &resp, nil
}

// ── Summary ──────────────────────────────────────────────────────────────────

// Summary aggregates closed-shift reports against expenses, purchases and
// approved payroll over [from, to).
func (s *accountingService) Summary(ctx context.Context, from, to time.Time) (*dto.AccountingSummaryResponse, error) {
	sessions, err := s.sessions.ListClosedInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	revenue, profit := decimal.Zero, decimal.Zero
	for i := range sessions {
		if sessions[i].Report == nil {
			continue
		}
		revenue = revenue.Add(sessions[i].Report.Revenue)
		profit = profit.Add(sessions[i].Report.Profit)
	}

	expenses, err := s.expenses.SumInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	purchases, err := s.purchases.SumInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	approvedPayroll, err := s.payroll.SumApprovedInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &dto.AccountingSummaryResponse{
		From:            from.Format("2006-01-02"),
		To:              to.Format("2006-01-02"),
		Revenue:         revenue,
		Profit:          profit,
		Expenses:        expenses,
		Purchases:       purchases,
		ApprovedPayroll: approvedPayroll,
		Net:             profit.Sub(expenses).Sub(purchases).Sub(approvedPayroll),
		SessionsClosed:  len(sessions),
	}, nil
}

func payrollToResponse(p *model.PayrollEntry) dto.PayrollResponse {
	return dto.PayrollResponse{
		ID:          p.ID.String(),
		Employee:    p.EmployeeName,
		PeriodStart: p.PeriodStart.Format("2006-01-02"),
		PeriodEnd:   p.PeriodEnd.Format("2006-01-02"),
		Amount:      p.Amount,
		Status:      p.Status,
		Note:        p.Note,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}
