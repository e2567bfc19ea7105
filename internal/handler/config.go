package handler

import (
	"net/http"

	"barpos/internal/apierror"
	"barpos/internal/dto"
	"barpos/internal/service"

	"github.com/gin-gonic/gin"
)

type ConfigHandler struct{ svc service.ConfigService }

func NewConfigHandler(svc service.ConfigService) *ConfigHandler {
	return &ConfigHandler{svc: svc}
}

func (h *ConfigHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Patch godoc
// @Summary Actualiza la configuración del negocio
// @Description Aplica solo los campos presentes. Los cambios de puerto o
// @Description baudios reconectan el cajón en caliente.
// @Tags config
// @Accept json
// @Produce json
// @Param body body dto.PatchConfigRequest true "Campos a actualizar"
// @Success 200 {object} dto.ConfigResponse
// @Failure 400 {object} apierror.APIError
// @Security BearerAuth
// @Router /v1/config [patch]
func (h *ConfigHandler) Patch(c *gin.Context) {
	var req dto.PatchConfigRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Patch(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
