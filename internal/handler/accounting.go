package handler

import (
	"net/http"
	"time"

	"barpos/internal/apierror"
	"barpos/internal/dto"
	"barpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AccountingHandler struct{ svc service.AccountingService }

func NewAccountingHandler(svc service.AccountingService) *AccountingHandler {
	return &AccountingHandler{svc: svc}
}

// ── Expenses ─────────────────────────────────────────────────────────────────

func (h *AccountingHandler) CreateExpense(c *gin.Context) {
	var req dto.CreateExpenseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateExpense(c.Request.Context(), actorFromClaims(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AccountingHandler) ListExpenses(c *gin.Context) {
	resp, err := h.svc.ListExpenses(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AccountingHandler) DeleteExpense(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	if err := h.svc.DeleteExpense(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Purchases ────────────────────────────────────────────────────────────────

func (h *AccountingHandler) CreatePurchase(c *gin.Context) {
	var req dto.CreatePurchaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreatePurchase(c.Request.Context(), actorFromClaims(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AccountingHandler) ListPurchases(c *gin.Context) {
	resp, err := h.svc.ListPurchases(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Payroll ──────────────────────────────────────────────────────────────────

func (h *AccountingHandler) CreatePayroll(c *gin.Context) {
	var req dto.CreatePayrollRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreatePayroll(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AccountingHandler) ListPayroll(c *gin.Context) {
	resp, err := h.svc.ListPayroll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AccountingHandler) ApprovePayroll(c *gin.Context) {
	h.resolvePayroll(c, true)
}

func (h *AccountingHandler) RejectPayroll(c *gin.Context) {
	h.resolvePayroll(c, false)
}

func (h *AccountingHandler) resolvePayroll(c *gin.Context, approve bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.ResolvePayroll(c.Request.Context(), actorFromClaims(c), id, approve)
	if err != nil {
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Summary ──────────────────────────────────────────────────────────────────

// Summary godoc
// @Summary Resumen contable de un rango de fechas
// @Description Agrega ingresos y ganancia de los turnos cerrados del rango
// @Description junto con gastos, compras y sueldos aprobados.
// @Tags accounting
// @Produce json
// @Param from query string true "Fecha inicial (YYYY-MM-DD)"
// @Param to query string true "Fecha final (YYYY-MM-DD)"
// @Success 200 {object} dto.AccountingSummaryResponse
// @Failure 400 {object} apierror.APIError
// @Security BearerAuth
// @Router /v1/accounting/summary [get]
func (h *AccountingHandler) Summary(c *gin.Context) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("parámetro from inválido, se espera YYYY-MM-DD"))
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("parámetro to inválido, se espera YYYY-MM-DD"))
		return
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, apierror.New("el rango de fechas es inválido"))
		return
	}
	// El rango es inclusivo en días: [from 00:00, to+1d 00:00).
	resp, err := h.svc.Summary(c.Request.Context(), from, to.AddDate(0, 0, 1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
