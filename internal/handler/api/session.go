package api

import (
	"net/http"
	"strconv"

	resdto "parkflow/internal/handler/dto/response"
	"parkflow/internal/infra"
	"parkflow/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionHandler struct {
	sessionQueries queries.SessionQueries
}

func NewSessionHandler(sessionQueries queries.SessionQueries) *SessionHandler {
	return &SessionHandler{
		sessionQueries: sessionQueries,
	}
}

// @Summary Get session
// @Description Get one session with its full fee breakdown
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.SessionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid session ID",
		})
		return
	}

	view, err := h.sessionQueries.GetByID(c.Request.Context(), sessionID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Session not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromSessionView(view))
}

// @Summary List sessions
// @Description List sessions newest first with cursor pagination
// @Tags sessions
// @Produce json
// @Param status query string false "Filter by lifecycle status"
// @Param plate_no query string false "Filter by normalized plate"
// @Param after query string false "Pagination cursor"
// @Param limit query int false "Page size (max 200)"
// @Success 200 {object} resdto.SessionListResponse
// @Failure 400 {object} map[string]string
// @Router /sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	var filter queries.SessionListFilter
	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}
	if plateNo := c.Query("plate_no"); plateNo != "" {
		filter.PlateNo = &plateNo
	}

	var after *queries.Cursor
	if cursor := c.Query("after"); cursor != "" {
		after = &queries.Cursor{After: cursor}
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid limit",
			})
			return
		}
		limit = parsed
	}

	items, next, err := h.sessionQueries.List(c.Request.Context(), filter, after, limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid cursor",
		})
		return
	}

	resp := resdto.SessionListResponse{
		Items: make([]*resdto.SessionListItemResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, resdto.FromSessionListItem(item))
	}
	if next != nil {
		resp.NextCursor = &next.After
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List session events
// @Description List the plate captures attached to a session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {array} resdto.PlateEventResponse
// @Failure 400 {object} map[string]string
// @Router /sessions/{id}/events [get]
func (h *SessionHandler) ListSessionEvents(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid session ID",
		})
		return
	}

	events, err := h.sessionQueries.ListEventsBySession(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	resp := make([]*resdto.PlateEventResponse, 0, len(events))
	for _, event := range events {
		resp = append(resp, resdto.FromPlateEventView(event))
	}
	c.JSON(http.StatusOK, resp)
}
