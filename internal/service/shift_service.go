package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"barpos/internal/dto"
	"barpos/internal/model"
	"barpos/internal/repository"
	"barpos/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Actor identifies the authenticated user performing a service operation.
type Actor struct {
	ID    uuid.UUID
	Name  string
	Admin bool
}

var (
	ErrSessionAlreadyOpen = errors.New("ya existe un turno abierto")
	ErrInvalidTransition  = errors.New("transición de estado inválida para el turno")
)

type ShiftService interface {
	Open(ctx context.Context, actor Actor, req dto.OpenSessionRequest) (*dto.SessionResponse, error)
	Close(ctx context.Context, actor Actor, id uuid.UUID, req dto.CloseSessionRequest) (*dto.SessionResponse, error)
	Approve(ctx context.Context, actor Actor, id uuid.UUID, reason string) (*dto.SessionResponse, error)
	Reopen(ctx context.Context, actor Actor, id uuid.UUID, reason string) (*dto.SessionResponse, error)
	GetActive(ctx context.Context) (*dto.SessionResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error)
	List(ctx context.Context, page, limit int) ([]dto.SessionResponse, error)
	// RequireOpen is called by SaleService to validate the POS session.
	RequireOpen(ctx context.Context) (*model.ShiftSession, error)
}

type shiftService struct {
	sessions   repository.SessionRepository
	products   repository.ProductRepository
	credit     repository.CreditRepository
	alerts     repository.AlertRepository
	appConfig  repository.AppConfigRepository
	dispatcher *worker.Dispatcher
}

func NewShiftService(
	sessions repository.SessionRepository,
	products repository.ProductRepository,
	credit repository.CreditRepository,
	alerts repository.AlertRepository,
	appConfig repository.AppConfigRepository,
	dispatcher *worker.Dispatcher,
) ShiftService {
	return &shiftService{
		sessions:   sessions,
		products:   products,
		credit:     credit,
		alerts:     alerts,
		appConfig:  appConfig,
		dispatcher: dispatcher,
	}
}

// ── Open ─────────────────────────────────────────────────────────────────────

func (s *shiftService) Open(ctx context.Context, actor Actor, req dto.OpenSessionRequest) (*dto.SessionResponse, error) {
	if _, err := s.sessions.FindOpen(ctx); err == nil {
		return nil, ErrSessionAlreadyOpen
	} else if !errors.Is(err, repository.ErrNoOpenSession) {
		return nil, err
	}

	initial, err := s.openingBaseline(ctx, req.InitialInventory)
	if err != nil {
		return nil, err
	}

	session := &model.ShiftSession{
		OpenedByID:       actor.ID,
		OpenedByName:     actor.Name,
		Status:           model.ShiftOpen,
		InitialInventory: initial,
		AuditTrail:       model.AuditTrail{},
		OpenedAt:         time.Now(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return sessionToResponse(session), nil
}

// openingBaseline resolves the opening snapshot. The server is the single
// authority here: unless an explicit count list is sent, the previous
// session's closing snapshot is reused, falling back to the product table's
// mirrored counts for a first-ever shift.
func (s *shiftService) openingBaseline(ctx context.Context, override []dto.InventoryCountRequest) (model.InventorySnapshot, error) {
	if len(override) > 0 {
		return s.resolveSnapshot(ctx, override)
	}

	if last, err := s.sessions.FindLastClosed(ctx); err == nil && len(last.FinalInventory) > 0 {
		return last.FinalInventory, nil
	}

	products, err := s.products.ListActiveTracked(ctx)
	if err != nil {
		return nil, err
	}
	snap := make(model.InventorySnapshot, 0, len(products))
	for _, p := range products {
		snap = append(snap, model.InventoryItem{ProductID: p.ID, Name: p.Name, Count: p.CurrentCount})
	}
	return snap, nil
}

// resolveSnapshot validates product ids and fills in names.
func (s *shiftService) resolveSnapshot(ctx context.Context, counts []dto.InventoryCountRequest) (model.InventorySnapshot, error) {
	snap := make(model.InventorySnapshot, 0, len(counts))
	for _, c := range counts {
		pid, err := uuid.Parse(c.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product_id inválido: %w", err)
		}
		p, err := s.products.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("producto %s no encontrado", c.ProductID)
		}
		snap = append(snap, model.InventoryItem{ProductID: p.ID, Name: p.Name, Count: c.Count})
	}
	return snap, nil
}

// ── Close ────────────────────────────────────────────────────────────────────

func (s *shiftService) Close(ctx context.Context, actor Actor, id uuid.UUID, req dto.CloseSessionRequest) (*dto.SessionResponse, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("turno no encontrado")
	}
	if session.Status != model.ShiftOpen {
		return nil, fmt.Errorf("%w: el turno no está abierto", ErrInvalidTransition)
	}

	final, err := s.resolveSnapshot(ctx, req.FinalInventory)
	if err != nil {
		return nil, err
	}

	products, err := s.products.ListActiveTracked(ctx)
	if err != nil {
		return nil, err
	}

	closedAt := time.Now()
	creditTxs, err := s.credit.ListInWindow(ctx, session.OpenedAt, closedAt)
	if err != nil {
		return nil, err
	}

	report := buildSalesReport(products, session.InitialInventory, final, creditTxs, req.CountedCash)

	status := model.ShiftPendingApproval
	if actor.Admin {
		status = model.ShiftClosed
	}

	counted := req.CountedCash
	session.FinalInventory = final
	session.Report = report
	session.CountedCash = &counted
	session.ClosingNote = req.Note
	session.ClosedByID = &actor.ID
	session.ClosedByName = &actor.Name
	session.ClosedAt = &closedAt
	session.Status = status

	// Single UPDATE — any persistence failure leaves the session OPEN.
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}

	s.afterClose(ctx, session, products)
	return sessionToResponse(session), nil
}

// afterClose runs best-effort side effects once the close is persisted:
// mirror counts, raise alerts, enqueue the report PDF and alert email.
// None of these can fail the close.
func (s *shiftService) afterClose(ctx context.Context, session *model.ShiftSession, products []model.Product) {
	counts := make(map[uuid.UUID]int, len(session.FinalInventory))
	for _, it := range session.FinalInventory {
		counts[it.ProductID] = it.Count
	}
	if err := s.products.UpdateCounts(ctx, counts); err != nil {
		log.Error().Err(err).Msg("shift close: mirror product counts")
	}

	for _, p := range products {
		count, ok := counts[p.ID]
		if ok && count < p.MinCount {
			alert := &model.Alert{
				Source:   model.AlertSourceStock,
				Severity: model.AlertWarning,
				Message:  fmt.Sprintf("Stock bajo: %s (%d unidades, mínimo %d)", p.Name, count, p.MinCount),
			}
			if err := s.alerts.Create(ctx, alert); err != nil {
				log.Error().Err(err).Str("product", p.Name).Msg("shift close: low stock alert")
			}
		}
	}

	cfg, err := s.appConfig.Get(ctx)
	if err != nil {
		log.Error().Err(err).Msg("shift close: load app config")
		return
	}

	if session.Report.Variance.Abs().GreaterThanOrEqual(cfg.VarianceAlertThreshold) {
		alert := &model.Alert{
			Source:   model.AlertSourceVariance,
			Severity: model.AlertCritical,
			Message: fmt.Sprintf("Desvío de caja de %s en el turno cerrado por %s",
				session.Report.Variance.StringFixed(2), *session.ClosedByName),
		}
		if err := s.alerts.Create(ctx, alert); err != nil {
			log.Error().Err(err).Msg("shift close: variance alert")
		}
		if s.dispatcher != nil && cfg.AlertEmail != nil {
			payload := worker.AlertEmailPayload{
				To:       *cfg.AlertEmail,
				Subject:  "Alerta de desvío de caja",
				Body:     alert.Message,
				SessionID: session.ID.String(),
			}
			if err := s.dispatcher.EnqueueAlertEmail(ctx, payload); err != nil {
				log.Error().Err(err).Msg("shift close: enqueue alert email")
			}
		}
	}

	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueShiftReport(ctx, worker.ShiftReportPayload{SessionID: session.ID.String()}); err != nil {
			log.Error().Err(err).Msg("shift close: enqueue report pdf")
		}
	}
}

// ── Approve / Reopen ─────────────────────────────────────────────────────────

func (s *shiftService) Approve(ctx context.Context, actor Actor, id uuid.UUID, reason string) (*dto.SessionResponse, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("turno no encontrado")
	}
	if session.Status != model.ShiftPendingApproval {
		return nil, fmt.Errorf("%w: el turno no está pendiente de aprobación", ErrInvalidTransition)
	}

	session.Status = model.ShiftClosed
	session.AuditTrail = append(session.AuditTrail, model.AuditEntry{
		Timestamp: time.Now(),
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Action:    model.AuditApprove,
		Reason:    reason,
	})
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}
	return sessionToResponse(session), nil
}

func (s *shiftService) Reopen(ctx context.Context, actor Actor, id uuid.UUID, reason string) (*dto.SessionResponse, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("turno no encontrado")
	}
	if session.Status != model.ShiftClosed {
		return nil, fmt.Errorf("%w: solo se puede reabrir un turno cerrado", ErrInvalidTransition)
	}
	if _, err := s.sessions.FindOpen(ctx); err == nil {
		return nil, ErrSessionAlreadyOpen
	} else if !errors.Is(err, repository.ErrNoOpenSession) {
		return nil, err
	}

	session.Status = model.ShiftOpen
	session.AuditTrail = append(session.AuditTrail, model.AuditEntry{
		Timestamp: time.Now(),
		ActorID:   actor.ID,
		ActorName: actor.Name,
		Action:    model.AuditReopen,
		Reason:    reason,
	})
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}
	return sessionToResponse(session), nil
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *shiftService) GetActive(ctx context.Context) (*dto.SessionResponse, error) {
	session, err := s.sessions.FindOpen(ctx)
	if err != nil {
		return nil, err
	}
	return sessionToResponse(session), nil
}

func (s *shiftService) GetByID(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("turno no encontrado")
	}
	return sessionToResponse(session), nil
}

func (s *shiftService) List(ctx context.Context, page, limit int) ([]dto.SessionResponse, error) {
	sessions, err := s.sessions.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, *sessionToResponse(&sessions[i]))
	}
	return out, nil
}

func (s *shiftService) RequireOpen(ctx context.Context) (*model.ShiftSession, error) {
	session, err := s.sessions.FindOpen(ctx)
	if errors.Is(err, repository.ErrNoOpenSession) {
		return nil, errors.New("no hay un turno abierto")
	}
	return session, err
}

// ── Reconciliation ───────────────────────────────────────────────────────────

// buildSalesReport derives the shift report from inventory deltas and the
// credit ledger activity inside the shift window.
//
//	sold          = max(0, initial − final)   per product (missing initial ⇒ 0)
//	cashToDeliver = revenue − creditSales + cashPayments
//	variance      = countedCash − cashToDeliver
//
// A closing count above the opening one (restock without logging) clamps to
// zero sold instead of producing negative revenue. Non-cash credit payments
// are reported but never move the cash total.
func buildSalesReport(
	products []model.Product,
	initial, final model.InventorySnapshot,
	creditTxs []model.CreditTransaction,
	countedCash decimal.Decimal,
) *model.SalesReport {
	report := &model.SalesReport{
		Revenue:         decimal.Zero,
		Cost:            decimal.Zero,
		CreditSales:     decimal.Zero,
		CashPayments:    decimal.Zero,
		NonCashPayments: decimal.Zero,
	}

	for _, p := range products {
		sold := initial.Count(p.ID) - final.Count(p.ID)
		if sold <= 0 {
			continue
		}
		qty := decimal.NewFromInt(int64(sold))
		revenue := p.SalePrice.Mul(qty)
		cost := p.CostPrice.Mul(qty)

		report.Revenue = report.Revenue.Add(revenue)
		report.Cost = report.Cost.Add(cost)
		report.Products = append(report.Products, model.ProductSold{
			ProductID: p.ID,
			Name:      p.Name,
			Sold:      sold,
			Revenue:   revenue,
			Cost:      cost,
		})
	}
	report.Profit = report.Revenue.Sub(report.Cost)

	for _, tx := range creditTxs {
		switch tx.Type {
		case model.TxDebt:
			report.CreditSales = report.CreditSales.Add(tx.Amount)
		case model.TxPayment:
			if tx.Method != nil && *tx.Method == model.MethodCash {
				report.CashPayments = report.CashPayments.Add(tx.Amount)
			} else {
				report.NonCashPayments = report.NonCashPayments.Add(tx.Amount)
			}
		}
	}

	report.CashToDeliver = report.Revenue.Sub(report.CreditSales).Add(report.CashPayments)
	report.Variance = countedCash.Sub(report.CashToDeliver)
	return report
}

func sessionToResponse(s *model.ShiftSession) *dto.SessionResponse {
	resp := &dto.SessionResponse{
		ID:               s.ID.String(),
		Status:           s.Status,
		OpenedBy:         s.OpenedByName,
		ClosedBy:         s.ClosedByName,
		InitialInventory: s.InitialInventory,
		FinalInventory:   s.FinalInventory,
		Report:           s.Report,
		CountedCash:      s.CountedCash,
		ClosingNote:      s.ClosingNote,
		AuditTrail:       s.AuditTrail,
		OpenedAt:         s.OpenedAt.Format(time.RFC3339),
	}
	if s.ClosedAt != nil {
		t := s.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp
}
