package handler

import (
	"net/http"
	"strconv"

	"barpos/internal/apierror"
	"barpos/internal/dto"
	"barpos/internal/service"

	"github.com/gin-gonic/gin"
)

type POSHandler struct{ svc service.SaleService }

func NewPOSHandler(svc service.SaleService) *POSHandler { return &POSHandler{svc: svc} }

// RegisterSale godoc
// @Summary Registra una venta del punto de venta
// @Description Requiere un turno abierto. Las ventas en efectivo disparan la
// @Description apertura del cajón; una falla del cajón nunca bloquea la venta.
// @Tags pos
// @Accept json
// @Produce json
// @Param body body dto.RegisterSaleRequest true "Venta"
// @Success 201 {object} dto.SaleResponse
// @Failure 400 {object} apierror.APIError
// @Security BearerAuth
// @Router /v1/pos/sales [post]
func (h *POSHandler) RegisterSale(c *gin.Context) {
	var req dto.RegisterSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Register(c.Request.Context(), actorFromClaims(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *POSHandler) ListSales(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	resp, err := h.svc.List(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
