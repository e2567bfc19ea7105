package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"barpos/internal/dto"
	"barpos/internal/model"
	"barpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DrawerOpener is the slice of the drawer service the POS needs. A failed
// pulse never blocks a sale — availability over fidelity.
type DrawerOpener interface {
	Open(ctx context.Context) error
}

type SaleService interface {
	Register(ctx context.Context, actor Actor, req dto.RegisterSaleRequest) (*dto.SaleResponse, error)
	List(ctx context.Context, page, limit int) ([]dto.SaleResponse, error)
}

type saleService struct {
	repo     repository.SaleRepository
	products repository.ProductRepository
	shifts   ShiftService
	drawer   DrawerOpener
}

func NewSaleService(
	repo repository.SaleRepository,
	products repository.ProductRepository,
	shifts ShiftService,
	drawer DrawerOpener,
) SaleService {
	return &saleService{repo: repo, products: products, shifts: shifts, drawer: drawer}
}

func (s *saleService) Register(ctx context.Context, actor Actor, req dto.RegisterSaleRequest) (*dto.SaleResponse, error) {
	session, err := s.shifts.RequireOpen(ctx)
	if err != nil {
		return nil, err
	}

	sale := model.Sale{
		SessionID:    session.ID,
		EmployeeID:   actor.ID,
		EmployeeName: actor.Name,
		Method:       req.Method,
		Total:        decimal.Zero,
	}
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product_id inválido: %w", err)
		}
		p, err := s.products.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("producto %s no encontrado", item.ProductID)
		}
		if !p.Active {
			return nil, errors.New("el producto " + p.Name + " está inactivo")
		}
		subtotal := p.SalePrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		sale.Items = append(sale.Items, model.SaleItem{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  item.Quantity,
			UnitPrice: p.SalePrice,
			Subtotal:  subtotal,
		})
		sale.Total = sale.Total.Add(subtotal)
	}

	if err := s.repo.Create(ctx, &sale); err != nil {
		return nil, err
	}

	// Cash sales fire the drawer pulse. Hardware failure degrades silently —
	// the sale is already committed.
	drawerOpened := false
	if req.Method == model.MethodCash && s.drawer != nil {
		if err := s.drawer.Open(ctx); err != nil {
			log.Warn().Err(err).Str("sale_id", sale.ID.String()).Msg("drawer open failed after cash sale")
		} else {
			drawerOpened = true
		}
	}

	resp := saleToResponse(&sale)
	resp.DrawerOpened = drawerOpened
	return resp, nil
}

func (s *saleService) List(ctx context.Context, page, limit int) ([]dto.SaleResponse, error) {
	sales, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		out = append(out, *saleToResponse(&sales[i]))
	}
	return out, nil
}

func saleToResponse(s *model.Sale) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:        s.ID.String(),
		SessionID: s.SessionID.String(),
		Employee:  s.EmployeeName,
		Method:    s.Method,
		Total:     s.Total,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
	for _, it := range s.Items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ProductID: it.ProductID.String(),
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}
	return resp
}
