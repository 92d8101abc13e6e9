package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ASB-05/LearnHubPro/internal/history"
	"github.com/ASB-05/LearnHubPro/pkg/response"
)

const (
	defaultLimit = 50
	maxLimit     = 100
)

// HTTPHandler serves the request/response history backfill path.
type HTTPHandler struct {
	historyService history.Service
}

func NewHTTPHandler(historyService history.Service) *HTTPHandler {
	return &HTTPHandler{
		historyService: historyService,
	}
}

func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/chat/messages", h.GetMessages)
	}

	r.GET("/health", h.HealthCheck)
}

func (h *HTTPHandler) GetMessages(c *gin.Context) {
	before := c.Query("before")

	limit := defaultLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		parsedLimit, err := strconv.Atoi(limitStr)
		if err != nil || parsedLimit < 1 {
			response.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = parsedLimit
		if limit > maxLimit {
			limit = maxLimit
		}
	}

	page, err := h.historyService.GetHistory(c.Request.Context(), before, limit)
	if err != nil {
		response.InternalError(c, "failed to get chat history")
		return
	}

	response.Success(c, page)
}

func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
