package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/push-api/internal/handler"
	"github.com/jwalitptl/push-api/internal/model"
	"github.com/jwalitptl/push-api/internal/service/message"
	"github.com/jwalitptl/push-api/internal/service/user"
	"github.com/jwalitptl/push-api/pkg/httputil"
)

type Handler struct {
	service  user.UserServicer
	messages message.Servicer
}

func NewHandler(service user.UserServicer, messages message.Servicer) *Handler {
	return &Handler{service: service, messages: messages}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.POST("", h.CreateUser)
		users.DELETE("/:id", h.DeleteUser)
		users.GET("/:id/messages", h.ListMessages)
	}
}

// CreateUser is idempotent on email / external id.
func (h *Handler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if err := httputil.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err, http.StatusBadRequest)
		return
	}

	u, err := h.service.CreateOrGetUser(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, u)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err, http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err, http.StatusBadRequest)
		return
	}

	handler.Deleted(c)
}

// ListMessages returns the user's delivery history, newest first.
func (h *Handler) ListMessages(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err, http.StatusBadRequest)
		return
	}

	history, err := h.messages.ListUserHistory(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, history)
}
