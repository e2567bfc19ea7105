package handler

import (
	"net/http"

	"barpos/internal/apierror"
	"barpos/internal/middleware"
	"barpos/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AlertHandler reads and acknowledges back-office alerts. It talks to the
// repository directly — there is no business logic between list and ack.
type AlertHandler struct{ repo repository.AlertRepository }

func NewAlertHandler(repo repository.AlertRepository) *AlertHandler {
	return &AlertHandler{repo: repo}
}

func (h *AlertHandler) List(c *gin.Context) {
	alerts, err := h.repo.ListPending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, alerts)
}

func (h *AlertHandler) Acknowledge(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	userID, _ := uuid.Parse(middleware.GetClaims(c).UserID)
	if err := h.repo.Acknowledge(c.Request.Context(), id, userID); err != nil {
		c.JSON(http.StatusNotFound, apierror.New("alerta no encontrada o ya reconocida"))
		return
	}
	c.Status(http.StatusNoContent)
}
