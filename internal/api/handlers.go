package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emirozbir/alert2jira/internal/database"
	"github.com/emirozbir/alert2jira/internal/dispatcher"
	"github.com/emirozbir/alert2jira/internal/jira"
	"github.com/emirozbir/alert2jira/internal/models"
)

const (
	maxAlertBytes = 1 << 20

	defaultListLimit = 50
	maxListLimit     = 500
)

type Handler struct {
	dispatcher *dispatcher.Dispatcher
	logger     *zap.Logger
	db         *database.DB
}

// NewHandler wires the HTTP handlers. db may be nil when history is disabled.
func NewHandler(d *dispatcher.Dispatcher, logger *zap.Logger, db *database.DB) *Handler {
	return &Handler{
		dispatcher: d,
		logger:     logger,
		db:         db,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now(),
	})
}

func (h *Handler) readAlert(c *gin.Context) (*models.Alert, bool) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxAlertBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.TicketErrorResponse{Error: "failed to read request body"})
		return nil, false
	}

	alert, err := models.ParseAlert(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.TicketErrorResponse{Error: "invalid alert: " + err.Error()})
		return nil, false
	}

	return alert, true
}

// CreateTicket creates one Jira issue from the alert in the request body.
func (h *Handler) CreateTicket(c *gin.Context) {
	alert, ok := h.readAlert(c)
	if !ok {
		return
	}

	result, err := h.dispatcher.Dispatch(c.Request.Context(), alert, nil)
	if err != nil {
		var apiErr *jira.APIError
		if errors.As(err, &apiErr) {
			c.JSON(http.StatusBadGateway, models.TicketErrorResponse{
				Error:      "jira rejected the issue",
				StatusCode: apiErr.StatusCode,
				Response:   apiErr.Body,
			})
			return
		}

		h.logger.Error("ticket creation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.TicketErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, result)
}

// RenderTicket returns the summary and ADF description without creating an issue.
func (h *Handler) RenderTicket(c *gin.Context) {
	alert, ok := h.readAlert(c)
	if !ok {
		return
	}

	summary, doc := h.dispatcher.Preview(alert)
	description, err := json.Marshal(doc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.TicketErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.RenderResponse{
		Summary:     summary,
		Description: description,
	})
}

func (h *Handler) ListTickets(c *gin.Context) {
	limit := queryInt(c, "limit", defaultListLimit)
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	offset := queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	stored, err := h.db.ListTickets(limit, offset)
	if err != nil {
		h.logger.Error("failed to list tickets", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.TicketErrorResponse{Error: "failed to list tickets"})
		return
	}

	total, err := h.db.CountTickets()
	if err != nil {
		h.logger.Error("failed to count tickets", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.TicketErrorResponse{Error: "failed to count tickets"})
		return
	}

	tickets := make([]models.TicketResult, 0, len(stored))
	for _, s := range stored {
		tickets = append(tickets, s.Ticket)
	}

	c.JSON(http.StatusOK, models.TicketListResponse{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		Tickets: tickets,
	})
}

func (h *Handler) GetTicket(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.TicketErrorResponse{Error: "invalid ticket id"})
		return
	}

	stored, err := h.db.GetTicket(id)
	if err != nil {
		h.logger.Error("failed to get ticket", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.TicketErrorResponse{Error: "failed to get ticket"})
		return
	}
	if stored == nil {
		c.JSON(http.StatusNotFound, models.TicketErrorResponse{Error: "ticket not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ticket":      stored.Ticket,
		"description": json.RawMessage(stored.Description),
	})
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
