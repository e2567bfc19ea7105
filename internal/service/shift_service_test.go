package service

import (
	"context"
	"testing"
	"time"

	"barpos/internal/dto"
	"barpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func testActor(admin bool) Actor {
	name := "Empleado Test"
	if admin {
		name = "Admin Test"
	}
	return Actor{ID: uuid.New(), Name: name, Admin: admin}
}

func newShiftFixture(products ...*model.Product) (*shiftService, *fakeSessionRepo, *fakeProductRepo, *fakeCreditRepo, *fakeAlertRepo, *fakeAppConfigRepo) {
	sessions := newFakeSessionRepo()
	prods := newFakeProductRepo(products...)
	credit := newFakeCreditRepo()
	alerts := &fakeAlertRepo{}
	appCfg := newFakeAppConfigRepo()
	svc := NewShiftService(sessions, prods, credit, alerts, appCfg, nil).(*shiftService)
	return svc, sessions, prods, credit, alerts, appCfg
}

func beerProduct() *model.Product {
	return &model.Product{
		ID:           uuid.New(),
		Name:         "Cerveza",
		CostPrice:    dec(2000),
		SalePrice:    dec(5000),
		CurrentCount: 10,
		MinCount:     2,
		TrackStock:   true,
		Active:       true,
	}
}

// ── buildSalesReport ─────────────────────────────────────────────────────────

func TestBuildSalesReport_InventoryDelta(t *testing.T) {
	p := beerProduct()
	initial := model.InventorySnapshot{{ProductID: p.ID, Name: p.Name, Count: 10}}
	final := model.InventorySnapshot{{ProductID: p.ID, Name: p.Name, Count: 4}}

	cash := "CASH"
	creditTxs := []model.CreditTransaction{
		{Type: model.TxDebt, Amount: dec(5000)},
		{Type: model.TxPayment, Method: &cash, Amount: dec(2000)},
	}

	report := buildSalesReport([]model.Product{*p}, initial, final, creditTxs, dec(27500))

	// 6 sold at 5000/2000
	assert.True(t, report.Revenue.Equal(dec(30000)), "revenue %s", report.Revenue)
	assert.True(t, report.Cost.Equal(dec(12000)), "cost %s", report.Cost)
	assert.True(t, report.Profit.Equal(dec(18000)), "profit %s", report.Profit)

	// 30000 − 5000 fiado + 2000 cobrado en efectivo
	assert.True(t, report.CreditSales.Equal(dec(5000)))
	assert.True(t, report.CashPayments.Equal(dec(2000)))
	assert.True(t, report.CashToDeliver.Equal(dec(27000)), "cashToDeliver %s", report.CashToDeliver)

	// Contado 27500 → sobran 500
	assert.True(t, report.Variance.Equal(dec(500)), "variance %s", report.Variance)

	require.Len(t, report.Products, 1)
	assert.Equal(t, 6, report.Products[0].Sold)
}

func TestBuildSalesReport_RestockClampsToZero(t *testing.T) {
	p := beerProduct()
	initial := model.InventorySnapshot{{ProductID: p.ID, Count: 3}}
	final := model.InventorySnapshot{{ProductID: p.ID, Count: 9}} // restock mid-shift

	report := buildSalesReport([]model.Product{*p}, initial, final, nil, decimal.Zero)

	assert.True(t, report.Revenue.IsZero())
	assert.Empty(t, report.Products)
}

func TestBuildSalesReport_MissingInitialCountsAsZero(t *testing.T) {
	p := beerProduct()
	final := model.InventorySnapshot{{ProductID: p.ID, Count: 5}}

	report := buildSalesReport([]model.Product{*p}, model.InventorySnapshot{}, final, nil, decimal.Zero)

	assert.True(t, report.Revenue.IsZero())
}

func TestBuildSalesReport_NonCashPaymentDoesNotMoveCash(t *testing.T) {
	transfer := "TRANSFER"
	creditTxs := []model.CreditTransaction{
		{Type: model.TxPayment, Method: &transfer, Amount: dec(3000)},
	}

	report := buildSalesReport(nil, nil, nil, creditTxs, dec(0))

	assert.True(t, report.NonCashPayments.Equal(dec(3000)))
	assert.True(t, report.CashPayments.IsZero())
	assert.True(t, report.CashToDeliver.IsZero())
}

// ── Open ─────────────────────────────────────────────────────────────────────

func TestOpen_RejectsSecondOpenSession(t *testing.T) {
	svc, _, _, _, _, _ := newShiftFixture(beerProduct())
	ctx := context.Background()

	_, err := svc.Open(ctx, testActor(false), dto.OpenSessionRequest{})
	require.NoError(t, err)

	_, err = svc.Open(ctx, testActor(false), dto.OpenSessionRequest{})
	assert.ErrorIs(t, err, ErrSessionAlreadyOpen)
}

func TestOpen_BaselineFromLastClosedSession(t *testing.T) {
	p := beerProduct()
	svc, sessions, _, _, _, _ := newShiftFixture(p)
	ctx := context.Background()

	closedAt := time.Now().Add(-time.Hour)
	require.NoError(t, sessions.Create(ctx, &model.ShiftSession{
		Status:         model.ShiftClosed,
		OpenedAt:       closedAt.Add(-8 * time.Hour),
		ClosedAt:       &closedAt,
		FinalInventory: model.InventorySnapshot{{ProductID: p.ID, Name: p.Name, Count: 7}},
	}))

	resp, err := svc.Open(ctx, testActor(false), dto.OpenSessionRequest{})
	require.NoError(t, err)
	require.Len(t, resp.InitialInventory, 1)
	assert.Equal(t, 7, resp.InitialInventory[0].Count)
}

func TestOpen_BaselineFallsBackToProductCounts(t *testing.T) {
	p := beerProduct() // CurrentCount 10
	svc, _, _, _, _, _ := newShiftFixture(p)

	resp, err := svc.Open(context.Background(), testActor(false), dto.OpenSessionRequest{})
	require.NoError(t, err)
	require.Len(t, resp.InitialInventory, 1)
	assert.Equal(t, 10, resp.InitialInventory[0].Count)
}

func TestOpen_ExplicitOverrideWins(t *testing.T) {
	p := beerProduct()
	svc, _, _, _, _, _ := newShiftFixture(p)

	resp, err := svc.Open(context.Background(), testActor(false), dto.OpenSessionRequest{
		InitialInventory: []dto.InventoryCountRequest{{ProductID: p.ID.String(), Count: 3}},
	})
	require.NoError(t, err)
	require.Len(t, resp.InitialInventory, 1)
	assert.Equal(t, 3, resp.InitialInventory[0].Count)
}

// ── Close ────────────────────────────────────────────────────────────────────

func closeReq(p *model.Product, finalCount int, countedCash decimal.Decimal) dto.CloseSessionRequest {
	return dto.CloseSessionRequest{
		FinalInventory: []dto.InventoryCountRequest{{ProductID: p.ID.String(), Count: finalCount}},
		CountedCash:    countedCash,
	}
}

func TestClose_ByEmployeeGoesPendingApproval(t *testing.T) {
	p := beerProduct()
	svc, _, _, _, _, _ := newShiftFixture(p)
	ctx := context.Background()

	opened, err := svc.Open(ctx, testActor(false), dto.OpenSessionRequest{})
	require.NoError(t, err)

	id := uuid.MustParse(opened.ID)
	resp, err := svc.Close(ctx, testActor(false), id, closeReq(p, 4, dec(30000)))
	require.NoError(t, err)
	assert.Equal(t, model.ShiftPendingApproval, resp.Status)
	require.NotNil(t, resp.Report)
	assert.True(t, resp.Report.Revenue.Equal(dec(30000)))
}

func TestClose_ByAdminGoesStraightToClosed(t *testing.T) {
	p := beerProduct()
	svc, _, _, _, _, _ := newShiftFixture(p)
	ctx := context.Background()

	opened, err := svc.Open(ctx, testActor(false), dto.OpenSessionRequest{})
	require.NoError(t, err)

	resp, err := svc.Close(ctx, testActor(true), uuid.MustParse(opened.ID), closeReq(p, 4, dec(30000)))
	require.NoError(t, err)
	assert.Equal(t, model.ShiftClosed, resp.Status)
}

func TestClose_AlreadyClosedIsRejected(t *testing.T) {
	p := beerProduct()
	svc, _, _, _, _, _ := newShiftFixture(p)
	ctx := context.Background()

	opened, err := svc.Open(ctx, testActor(false), dto.OpenSessionRequest{})
	require.NoError(t, err)
	id := uuid.MustParse(opened.ID)

	_, err = svc.Close(ctx, testActor(true), id, closeReq(p, 4, dec(30000)))
	require.NoError(t, err)

	_, err = svc.Close(ctx, testActor(true), id, closeReq(p, 4, dec(30000)))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestClose_PersistFailureLeavesSessionOpen(t *testing.T) {
	p := beerProduct()
	svc, sessions, _, _, _, _ := newShiftFixture(p)
	ctx := context.Background()

	opened, err := svc.Open(ctx, testActor(false), dto.OpenSessionRequest{})
	require.NoError(t, err)

	sessions.failNext = assert.AnError
	_, err = svc.Close(ctx, testActor(true), uuid.MustParse(opened.ID), closeReq(p, 4, dec(30000)))
	require.Error(t, err)

	stored, err := sessions.FindByID(ctx, uuid.MustParse(opened.ID))
	require.NoError(t, err)
	assert.Equal(t, model.ShiftOpen, stored.Status)
	assert.Nil(t, stored.Report)
}

func TestClose_MirrorsCountsAndRaisesAlerts(t *testing.T) {
	p := beerProduct() // MinCount 2
	svc, _, prods, _, alerts, appCfg := newShiftFixture(p)
	ctx := context.Background()

	appCfg.cfg.VarianceAlertThreshold = dec(1000)

	opened, err := svc.Open(ctx, testActor(false), dto.OpenSessionRequest{})
	require.NoError(t, err)

	// Final count 1 < MinCount 2 → stock alert. 9 sold × 5000 = 45000 to
	// deliver, counted 40000 → variance −5000 exceeds the 1000 threshold.
	_, err = svc.Close(ctx, testActor(true), uuid.MustParse(opened.ID), closeReq(p, 1, dec(40000)))
	require.NoError(t, err)

	stored, _ := prods.FindByID(ctx, p.ID)
	assert.Equal(t, 1, stored.CurrentCount)

	sources := make(map[string]int)
	for _, a := range alerts.alerts {
		sources[a.Source]++
	}
	assert.Equal(t, 1, sources[model.AlertSourceStock])
	assert.Equal(t, 1, sources[model.AlertSourceVariance])
}

// ── Approve / Reopen ─────────────────────────────────────────────────────────

func TestApprove_OnlyFromPendingApproval(t *testing.T) {
	p := beerProduct()
	svc, _, _, _, _, _ := newShiftFixture(p)
	ctx := context.Background()
	admin := testActor(true)

	opened, err := svc.Open(ctx, testActor(false), dto.OpenSessionRequest{})
	require.NoError(t, err)
	id := uuid.MustParse(opened.ID)

	// Not yet closed — approve must fail.
	_, err = svc.Approve(ctx, admin, id, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.Close(ctx, testActor(false), id, closeReq(p, 4, dec(30000)))
	require.NoError(t, err)

	resp, err := svc.Approve(ctx, admin, id, "todo en orden")
	require.NoError(t, err)
	assert.Equal(t, model.ShiftClosed, resp.Status)
	require.Len(t, resp.AuditTrail, 1)
	assert.Equal(t, model.AuditApprove, resp.AuditTrail[0].Action)
	assert.Equal(t, "todo en orden", resp.AuditTrail[0].Reason)

	// Approving twice is rejected.
	_, err = svc.Approve(ctx, admin, id, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestReopen_OnlyClosedAndNoOtherOpen(t *testing.T) {
	p := beerProduct()
	svc, _, _, _, _, _ := newShiftFixture(p)
	ctx := context.Background()
	admin := testActor(true)

	opened, err := svc.Open(ctx, admin, dto.OpenSessionRequest{})
	require.NoError(t, err)
	id := uuid.MustParse(opened.ID)

	// OPEN sessions cannot be reopened.
	_, err = svc.Reopen(ctx, admin, id, "error de carga")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.Close(ctx, admin, id, closeReq(p, 4, dec(30000)))
	require.NoError(t, err)

	resp, err := svc.Reopen(ctx, admin, id, "error de carga")
	require.NoError(t, err)
	assert.Equal(t, model.ShiftOpen, resp.Status)
	require.Len(t, resp.AuditTrail, 1)
	assert.Equal(t, model.AuditReopen, resp.AuditTrail[0].Action)
}

func TestReopen_BlockedWhileAnotherSessionIsOpen(t *testing.T) {
	p := beerProduct()
	svc, _, _, _, _, _ := newShiftFixture(p)
	ctx := context.Background()
	admin := testActor(true)

	first, err := svc.Open(ctx, admin, dto.OpenSessionRequest{})
	require.NoError(t, err)
	_, err = svc.Close(ctx, admin, uuid.MustParse(first.ID), closeReq(p, 4, dec(30000)))
	require.NoError(t, err)

	_, err = svc.Open(ctx, admin, dto.OpenSessionRequest{})
	require.NoError(t, err)

	_, err = svc.Reopen(ctx, admin, uuid.MustParse(first.ID), "ajuste")
	assert.ErrorIs(t, err, ErrSessionAlreadyOpen)
}

// ── Close window picks up credit activity ────────────────────────────────────

func TestClose_CreditActivityInsideWindowOnly(t *testing.T) {
	p := beerProduct()
	svc, _, _, credit, _, _ := newShiftFixture(p)
	ctx := context.Background()

	opened, err := svc.Open(ctx, testActor(false), dto.OpenSessionRequest{})
	require.NoError(t, err)

	// One debt before the shift, one inside it.
	credit.txs = append(credit.txs,
		model.CreditTransaction{Type: model.TxDebt, Amount: dec(9999), CreatedAt: time.Now().Add(-48 * time.Hour)},
		model.CreditTransaction{Type: model.TxDebt, Amount: dec(5000), CreatedAt: time.Now()},
	)

	resp, err := svc.Close(ctx, testActor(true), uuid.MustParse(opened.ID), closeReq(p, 4, dec(25000)))
	require.NoError(t, err)
	require.NotNil(t, resp.Report)
	assert.True(t, resp.Report.CreditSales.Equal(dec(5000)), "creditSales %s", resp.Report.CreditSales)
	assert.True(t, resp.Report.CashToDeliver.Equal(dec(25000)))
	assert.True(t, resp.Report.Variance.IsZero())
}
