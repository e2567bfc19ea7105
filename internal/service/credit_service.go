package service

import (
	"context"
	"errors"
	"time"

	"barpos/internal/dto"
	"barpos/internal/model"
	"barpos/internal/repository"

	"github.com/google/uuid"
)

type CreditService interface {
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	ListCustomers(ctx context.Context) ([]dto.CustomerResponse, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	History(ctx context.Context, customerID uuid.UUID) ([]dto.TransactionResponse, error)
	// Register posts a DEBT or PAYMENT against a customer. The ledger entry
	// and the balance delta are committed atomically.
	Register(ctx context.Context, actor Actor, customerID uuid.UUID, req dto.RegisterTransactionRequest) (*dto.TransactionResponse, error)
}

type creditService struct {
	repo repository.CreditRepository
}

func NewCreditService(repo repository.CreditRepository) CreditService {
	return &creditService{repo: repo}
}

func (s *creditService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	customer := &model.CreditCustomer{
		Name:        req.Name,
		Phone:       req.Phone,
		CreditLimit: req.CreditLimit,
		Active:      true,
	}
	if err := s.repo.CreateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	resp := customerToResponse(customer)
	return &resp, nil
}

func (s *creditService) ListCustomers(ctx context.Context) ([]dto.CustomerResponse, error) {
	customers, err := s.repo.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		out = append(out, customerToResponse(&customers[i]))
	}
	return out, nil
}

func (s *creditService) GetCustomer(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	customer, err := s.repo.FindCustomerByID(ctx, id)
	if err != nil {
		return nil, errors.New("cliente no encontrado")
	}
	resp := customerToResponse(customer)
	return &resp, nil
}

func (s *creditService) UpdateCustomer(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := s.repo.FindCustomerByID(ctx, id)
	if err != nil {
		return nil, errors.New("cliente no encontrado")
	}
	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Phone != nil {
		customer.Phone = req.Phone
	}
	if req.CreditLimit != nil {
		customer.CreditLimit = *req.CreditLimit
	}
	if err := s.repo.UpdateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	resp := customerToResponse(customer)
	return &resp, nil
}

func (s *creditService) History(ctx context.Context, customerID uuid.UUID) ([]dto.TransactionResponse, error) {
	if _, err := s.repo.FindCustomerByID(ctx, customerID); err != nil {
		return nil, errors.New("cliente no encontrado")
	}
	txs, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionResponse, 0, len(txs))
	for i := range txs {
		out = append(out, txToResponse(&txs[i]))
	}
	return out, nil
}

func (s *creditService) Register(ctx context.Context, actor Actor, customerID uuid.UUID, req dto.RegisterTransactionRequest) (*dto.TransactionResponse, error) {
	customer, err := s.repo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, errors.New("cliente no encontrado")
	}
	if !customer.Active {
		return nil, errors.New("cliente inactivo")
	}

	switch req.Type {
	case model.TxDebt:
		if req.Amount.GreaterThan(customer.Available()) {
			return nil, errors.New("el monto excede el crédito disponible del cliente")
		}
	case model.TxPayment:
		if req.Method == nil {
			return nil, errors.New("el método de pago es obligatorio para un pago")
		}
		if req.Amount.GreaterThan(customer.CurrentUsed) {
			return nil, errors.New("el pago excede la deuda actual del cliente")
		}
	}

	tx := &model.CreditTransaction{
		CustomerID:   customerID,
		Type:         req.Type,
		Method:       req.Method,
		Amount:       req.Amount,
		Description:  req.Description,
		EmployeeID:   actor.ID,
		EmployeeName: actor.Name,
		CreatedAt:    time.Now(),
	}
	if err := s.repo.RegisterTransaction(ctx, tx); err != nil {
		return nil, err
	}
	resp := txToResponse(tx)
	return &resp, nil
}

func customerToResponse(c *model.CreditCustomer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Phone:       c.Phone,
		CreditLimit: c.CreditLimit,
		CurrentUsed: c.CurrentUsed,
		Available:   c.Available(),
		Active:      c.Active,
	}
}

func txToResponse(t *model.CreditTransaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:          t.ID.String(),
		CustomerID:  t.CustomerID.String(),
		Type:        t.Type,
		Method:      t.Method,
		Amount:      t.Amount,
		Description: t.Description,
		Employee:    t.EmployeeName,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
}
