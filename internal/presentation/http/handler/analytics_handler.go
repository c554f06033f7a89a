package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pharmacy-api/internal/application/service"
	"github.com/sangkips/pharmacy-api/internal/presentation/http/dto/request"
	"github.com/sangkips/pharmacy-api/internal/presentation/http/dto/response"
)

// AnalyticsHandler handles sales analytics HTTP requests
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GetSummary returns sales totals with a per payment mode breakdown
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	var req request.AnalyticsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	summary, err := h.analyticsService.Summary(c.Request.Context(), service.TimeRange(req.Range), req.StartDate, req.EndDate)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sales summary retrieved successfully", summary)
}
