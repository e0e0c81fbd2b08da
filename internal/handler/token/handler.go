package token

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/push-api/internal/model"
	"github.com/jwalitptl/push-api/internal/service/token"
	"github.com/jwalitptl/push-api/pkg/httputil"
)

type Handler struct {
	service token.Servicer
}

func NewHandler(service token.Servicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/tokens", h.RegisterToken)
}

func (h *Handler) RegisterToken(c *gin.Context) {
	var req model.RegisterTokenRequest
	if err := httputil.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err, http.StatusBadRequest)
		return
	}

	dt, err := h.service.RegisterToken(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, dt)
}
