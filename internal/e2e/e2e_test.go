//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"barpos/internal/config"
	"barpos/internal/drawer"
	"barpos/internal/infra"
	"barpos/internal/model"
	"barpos/internal/repository"
	"barpos/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Suite setup ──────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("barpos_test"),
		tcPostgres.WithUsername("barpos"),
		tcPostgres.WithPassword("barpos"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		PDFStoragePath:     t.TempDir(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed admin
	hash, err := bcrypt.GenerateFromPassword([]byte("barpos2026"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, repository.NewUserRepository(db).Create(ctx, &model.User{
		Username:     "admin",
		Name:         "Admin E2E",
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		Active:       true,
	}))

	// No serial device in CI — the drawer runs simulated.
	appCfgRepo := repository.NewAppConfigRepository(db)
	appCfg, err := appCfgRepo.Get(ctx)
	require.NoError(t, err)
	drawerSvc := drawer.New(appCfg)
	drawerSvc.Connect()
	t.Cleanup(drawerSvc.Close)

	r := router.New(cfg, db, rdb, drawerSvc)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "barpos2026"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

// ── Tests ────────────────────────────────────────────────────────────────────

// Full shift cycle: product → open → sale → close → reconciliation report.
func TestE2E_FullShiftCycle(t *testing.T) {
	env := setupTestEnv(t)

	prodResp := do(t, env.server, "POST", "/v1/products",
		jsonBody(t, map[string]any{
			"name":       "Cerveza",
			"cost_price": "2000",
			"sale_price": "5000",
			"min_count":  2,
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, prodResp, &prod)

	openResp := do(t, env.server, "POST", "/v1/sessions",
		jsonBody(t, map[string]any{
			"initial_inventory": []map[string]any{{"product_id": prod.ID, "count": 10}},
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, openResp.StatusCode)
	var session struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeJSON(t, openResp, &session)
	assert.Equal(t, "OPEN", session.Status)

	// A second open must conflict.
	dupResp := do(t, env.server, "POST", "/v1/sessions", jsonBody(t, map[string]any{}), env.token)
	assert.Equal(t, http.StatusConflict, dupResp.StatusCode)
	dupResp.Body.Close()

	// Cash sale fires the (simulated) drawer.
	saleResp := do(t, env.server, "POST", "/v1/pos/sales",
		jsonBody(t, map[string]any{
			"method": "CASH",
			"items":  []map[string]any{{"product_id": prod.ID, "quantity": 2}},
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale struct {
		Total        string `json:"total"`
		DrawerOpened bool   `json:"drawer_opened"`
	}
	decodeJSON(t, saleResp, &sale)
	assert.Equal(t, "10000", sale.Total)
	assert.True(t, sale.DrawerOpened)

	closeResp := do(t, env.server, "POST", fmt.Sprintf("/v1/sessions/%s/close", session.ID),
		jsonBody(t, map[string]any{
			"final_inventory": []map[string]any{{"product_id": prod.ID, "count": 4}},
			"counted_cash":    "30000",
		}),
		env.token,
	)
	require.Equal(t, http.StatusOK, closeResp.StatusCode)
	var closed struct {
		Status string `json:"status"`
		Report struct {
			Revenue       string `json:"revenue"`
			Profit        string `json:"profit"`
			CashToDeliver string `json:"cash_to_deliver"`
			Variance      string `json:"variance"`
		} `json:"report"`
	}
	decodeJSON(t, closeResp, &closed)
	// Admin close goes straight to CLOSED; 6 sold × 5000.
	assert.Equal(t, "CLOSED", closed.Status)
	assert.Equal(t, "30000", closed.Report.Revenue)
	assert.Equal(t, "18000", closed.Report.Profit)
	assert.Equal(t, "0", closed.Report.Variance)
}

// Fiao ledger: debts and payments update the balance atomically.
func TestE2E_CreditLedger(t *testing.T) {
	env := setupTestEnv(t)

	custResp := do(t, env.server, "POST", "/v1/credit/customers",
		jsonBody(t, map[string]any{"name": "Doña Marta", "credit_limit": "20000"}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, custResp.StatusCode)
	var cust struct {
		ID string `json:"id"`
	}
	decodeJSON(t, custResp, &cust)

	debtResp := do(t, env.server, "POST", fmt.Sprintf("/v1/credit/customers/%s/transactions", cust.ID),
		jsonBody(t, map[string]any{"type": "DEBT", "amount": "5000"}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, debtResp.StatusCode)
	debtResp.Body.Close()

	// Over-limit debt rejected.
	overResp := do(t, env.server, "POST", fmt.Sprintf("/v1/credit/customers/%s/transactions", cust.ID),
		jsonBody(t, map[string]any{"type": "DEBT", "amount": "16000"}),
		env.token,
	)
	assert.Equal(t, http.StatusBadRequest, overResp.StatusCode)
	overResp.Body.Close()

	payResp := do(t, env.server, "POST", fmt.Sprintf("/v1/credit/customers/%s/transactions", cust.ID),
		jsonBody(t, map[string]any{"type": "PAYMENT", "method": "CASH", "amount": "2000"}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, payResp.StatusCode)
	payResp.Body.Close()

	getResp := do(t, env.server, "GET", fmt.Sprintf("/v1/credit/customers/%s", cust.ID), nil, env.token)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	var balance struct {
		CurrentUsed string `json:"current_used"`
		Available   string `json:"available"`
	}
	decodeJSON(t, getResp, &balance)
	assert.Equal(t, "3000", balance.CurrentUsed)
	assert.Equal(t, "17000", balance.Available)
}

// The drawer endpoints work in simulation without hardware.
func TestE2E_DrawerSimulated(t *testing.T) {
	env := setupTestEnv(t)

	statusResp := do(t, env.server, "GET", "/v1/drawer/status", nil, env.token)
	require.Equal(t, http.StatusOK, statusResp.StatusCode)
	var status struct {
		Mode string `json:"mode"`
	}
	decodeJSON(t, statusResp, &status)
	assert.Equal(t, "simulated", status.Mode)

	openResp := do(t, env.server, "POST", "/v1/drawer/open", nil, env.token)
	require.Equal(t, http.StatusOK, openResp.StatusCode)
	var opened struct {
		Open bool `json:"open"`
	}
	decodeJSON(t, openResp, &opened)
	assert.True(t, opened.Open)

	logsResp := do(t, env.server, "GET", "/v1/drawer/logs", nil, env.token)
	require.Equal(t, http.StatusOK, logsResp.StatusCode)
	logsResp.Body.Close()
}
