package handler

import (
	"errors"
	"net/http"
	"strconv"

	"barpos/internal/apierror"
	"barpos/internal/dto"
	"barpos/internal/repository"
	"barpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionHandler struct{ svc service.ShiftService }

func NewSessionHandler(svc service.ShiftService) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// Open godoc
// @Summary Abre un turno de caja
// @Description Solo puede existir un turno abierto a la vez. El inventario
// @Description inicial se toma del cierre anterior salvo que se envíe override.
// @Tags sessions
// @Accept json
// @Produce json
// @Param body body dto.OpenSessionRequest true "Apertura"
// @Success 201 {object} dto.SessionResponse
// @Failure 409 {object} apierror.APIError
// @Security BearerAuth
// @Router /v1/sessions [post]
func (h *SessionHandler) Open(c *gin.Context) {
	var req dto.OpenSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Open(c.Request.Context(), actorFromClaims(c), req)
	if err != nil {
		if errors.Is(err, service.ErrSessionAlreadyOpen) {
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Close godoc
// @Summary Cierra el turno: concilia inventario y calcula el reporte de ventas
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "ID del turno"
// @Param body body dto.CloseSessionRequest true "Cierre"
// @Success 200 {object} dto.SessionResponse
// @Failure 409 {object} apierror.APIError
// @Security BearerAuth
// @Router /v1/sessions/{id}/close [post]
func (h *SessionHandler) Close(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.CloseSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Close(c.Request.Context(), actorFromClaims(c), id, req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTransition) {
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SessionHandler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.ApproveSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	reason := ""
	if req.Reason != nil {
		reason = *req.Reason
	}
	resp, err := h.svc.Approve(c.Request.Context(), actorFromClaims(c), id, reason)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTransition) {
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SessionHandler) Reopen(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	var req dto.ReopenSessionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Reopen(c.Request.Context(), actorFromClaims(c), id, req.Reason)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTransition) || errors.Is(err, service.ErrSessionAlreadyOpen) {
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SessionHandler) Active(c *gin.Context) {
	resp, err := h.svc.GetActive(c.Request.Context())
	if err != nil {
		if errors.Is(err, repository.ErrNoOpenSession) {
			c.JSON(http.StatusNotFound, apierror.New("no hay turno abierto"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SessionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("turno no encontrado"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SessionHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	resp, err := h.svc.List(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
