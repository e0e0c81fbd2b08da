package message

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/push-api/internal/handler"
	"github.com/jwalitptl/push-api/internal/model"
	"github.com/jwalitptl/push-api/internal/service/delivery"
	"github.com/jwalitptl/push-api/internal/service/dispatch"
	"github.com/jwalitptl/push-api/internal/service/message"
	"github.com/jwalitptl/push-api/pkg/httputil"
)

type Handler struct {
	dispatcher dispatch.Servicer
	messages   message.Servicer
	ledger     delivery.Ledger
}

func NewHandler(dispatcher dispatch.Servicer, messages message.Servicer, ledger delivery.Ledger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		messages:   messages,
		ledger:     ledger,
	}
}

// RegisterRoutes mounts the message endpoints. sendGuard runs before
// POST /messages only.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, sendGuard ...gin.HandlerFunc) {
	messages := r.Group("/messages")
	{
		messages.POST("", append(sendGuard, h.SendMessage)...)
		messages.GET("/:id", h.GetMessage)
		messages.DELETE("/:id", h.DeleteMessage)
	}
}

type sendResponse struct {
	Message    *model.Message         `json:"message"`
	Deliveries []model.DeliveryResult `json:"deliveries"`
}

type messageResponse struct {
	Message    *model.Message    `json:"message"`
	Deliveries []*model.Delivery `json:"deliveries"`
}

// SendMessage stores the message and fans it out to its recipients.
func (h *Handler) SendMessage(c *gin.Context) {
	var req model.SendMessageRequest
	if err := httputil.BindJSON(c, &req); err != nil {
		httputil.RespondWithError(c, err, http.StatusBadRequest)
		return
	}

	msg, results, err := h.dispatcher.Send(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, sendResponse{Message: msg, Deliveries: results})
}

func (h *Handler) GetMessage(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err, http.StatusBadRequest)
		return
	}

	msg, err := h.messages.GetMessage(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err, http.StatusBadRequest)
		return
	}

	deliveries, err := h.ledger.ListByMessage(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, messageResponse{Message: msg, Deliveries: deliveries})
}

func (h *Handler) DeleteMessage(c *gin.Context) {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		httputil.RespondWithError(c, err, http.StatusBadRequest)
		return
	}

	if err := h.messages.DeleteMessage(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err, http.StatusBadRequest)
		return
	}

	handler.Deleted(c)
}
