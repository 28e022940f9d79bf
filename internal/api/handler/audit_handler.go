package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/glamora/backoffice-system/internal/core/ports"
)

const defaultAuditLimit = 50

// AuditHandler serves the administrative read view of the audit trail.
type AuditHandler struct {
	reader ports.AuditReader
}

func NewAuditHandler(reader ports.AuditReader) *AuditHandler {
	return &AuditHandler{reader: reader}
}

type auditEventResponse struct {
	Actor   string    `json:"actor,omitempty"`
	Action  string    `json:"action"`
	Subject string    `json:"subject,omitempty"`
	Detail  string    `json:"detail,omitempty"`
	At      time.Time `json:"at"`
}

// Recent returns the newest audit entries.
//
// @Summary      Recent audit trail entries
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum entries to return (default 50)"
// @Success      200    {array}   auditEventResponse
// @Failure      500    {object}  errorResponse
// @Router       /admin/audit [get]
func (h *AuditHandler) Recent(c echo.Context) error {
	limit := defaultAuditLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
		}
		limit = n
	}

	events, err := h.reader.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return err
	}

	out := make([]auditEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, auditEventResponse{
			Actor:   e.Actor,
			Action:  string(e.Action),
			Subject: e.Subject,
			Detail:  e.Detail,
			At:      e.At,
		})
	}
	return c.JSON(http.StatusOK, out)
}
