package handler

import (
	"errors"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/restopos/backend/internal/application/pos"
	"github.com/restopos/backend/internal/domain/shared"
	"github.com/restopos/backend/internal/interfaces/http/dto"
)

// SessionHandler handles POS session close endpoints
type SessionHandler struct {
	BaseHandler
	closeService *pos.CloseService
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(closeService *pos.CloseService) *SessionHandler {
	return &SessionHandler{closeService: closeService}
}

// RegisterRoutes registers the session endpoints on the API group
func (h *SessionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sessions := rg.Group("/sessions")
	{
		sessions.POST("/:id/close", h.CloseSession)
		sessions.POST("/:id/stock-check", h.CheckStock)
	}
}

// CloseSessionRequest is the request body for closing a session. Lines are
// optional: when absent, the sold lines are loaded from storage.
type CloseSessionRequest struct {
	Lines []pos.SoldLineInput `json:"lines"`
}

// CloseSession handles POST /api/v1/sessions/:id/close
func (h *SessionHandler) CloseSession(c *gin.Context) {
	sessionID := c.Param("id")
	if sessionID == "" {
		h.BadRequest(c, "Session ID is required")
		return
	}

	req, ok := h.bindLines(c)
	if !ok {
		return
	}

	result, err := h.closeService.CloseSession(c.Request.Context(), sessionID, req.Lines)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.Success(c, result)
}

// CheckStock handles POST /api/v1/sessions/:id/stock-check. By default a
// shortfall is reported in the payload with a 200, matching the advisory
// pre-close check in the POS UI; with ?strict=true a shortfall is rejected
// with 422 so callers can gate the close on it.
func (h *SessionHandler) CheckStock(c *gin.Context) {
	sessionID := c.Param("id")
	if sessionID == "" {
		h.BadRequest(c, "Session ID is required")
		return
	}

	req, ok := h.bindLines(c)
	if !ok {
		return
	}

	result, err := h.closeService.CheckAvailability(c.Request.Context(), sessionID, req.Lines)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if !result.Success && c.Query("strict") == "true" {
		h.ErrorWithCode(c, dto.ErrCodeInsufficientStock, strings.Join(result.Errors, "\n"))
		return
	}

	h.Success(c, result)
}

// bindLines parses the optional request body. An empty body means the sold
// lines should be loaded from storage.
func (h *SessionHandler) bindLines(c *gin.Context) (CloseSessionRequest, bool) {
	var req CloseSessionRequest
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return CloseSessionRequest{}, true
		}
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeValidation), dto.ErrCodeValidation, err.Error())
		return req, false
	}
	return req, true
}

// handleServiceError maps application errors to HTTP responses
func (h *SessionHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, shared.ErrSessionClosed):
		h.ErrorWithCode(c, dto.ErrCodeSessionClosed, shared.ErrSessionClosed.Message)
	case errors.Is(err, shared.ErrNoInternalLocation):
		h.ErrorWithCode(c, dto.ErrCodeNoInternalLocation, shared.ErrNoInternalLocation.Message)
	case errors.Is(err, shared.ErrNotFound):
		h.NotFound(c, "Resource not found")
	default:
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			h.ErrorWithCode(c, dto.ErrCodeBadRequest, domainErr.Message)
			return
		}
		h.Internal(c, "Failed to process session")
	}
}
