package handler

import (
	"net/http"
	"strconv"

	"barpos/internal/apierror"
	"barpos/internal/drawer"
	"barpos/internal/repository"

	"github.com/gin-gonic/gin"
)

type DrawerHandler struct {
	drawer *drawer.Service
	logs   repository.DrawerLogRepository
}

func NewDrawerHandler(d *drawer.Service, logs repository.DrawerLogRepository) *DrawerHandler {
	return &DrawerHandler{drawer: d, logs: logs}
}

// Open godoc
// @Summary Dispara la apertura manual del cajón de dinero
// @Tags drawer
// @Produce json
// @Success 200 {object} drawer.Status
// @Security BearerAuth
// @Router /v1/drawer/open [post]
func (h *DrawerHandler) Open(c *gin.Context) {
	if err := h.drawer.Open(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, h.drawer.Status())
}

func (h *DrawerHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.drawer.Status())
}

func (h *DrawerHandler) Logs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 500 {
		limit = 50
	}
	logs, err := h.logs.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, logs)
}
