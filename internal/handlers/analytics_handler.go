package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/portfolio/internal/domains/analytics"
	"github.com/xpanvictor/portfolio/internal/domains/user"
	"github.com/xpanvictor/portfolio/pkg/Logger"
)

type AnalyticsHandler struct {
	analyticsService analytics.AnalyticsService
	userService      user.UserService
	trustForwarded   bool
	logger           *Logger.Logger
}

func NewAnalyticsHandler(analyticsService analytics.AnalyticsService, userService user.UserService, trustForwarded bool, logger *Logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		userService:      userService,
		trustForwarded:   trustForwarded,
		logger:           logger,
	}
}

// Track records a page view. It never fails the caller.
// @Summary Track page view
// @Tags Analytics
// @Accept json
// @Produce json
// @Param request body analytics.TrackRequest true "Page view"
// @Success 200 {object} SuccessResponse "success is false when the view was not stored"
// @Router /analytics/track [post]
func (h *AnalyticsHandler) Track(c *gin.Context) {
	var req analytics.TrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debugf("analytics track: bad body: %v", err)
		c.JSON(http.StatusOK, SuccessResponse{Success: false})
		return
	}

	visitor := analytics.Visitor{
		IPAddress: clientIP(c, h.trustForwarded),
		UserAgent: c.Request.UserAgent(),
	}
	if err := h.analyticsService.Track(c.Request.Context(), req, visitor); err != nil {
		c.JSON(http.StatusOK, SuccessResponse{Success: false})
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// Stats returns traffic aggregates
// @Summary Analytics stats (Admin)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param days query int false "Look-back window in days" default(30)
// @Success 200 {object} analytics.Stats
// @Failure 500 {object} ErrorResponse "Failed to fetch analytics"
// @Router /analytics/stats [get]
func (h *AnalyticsHandler) Stats(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", strconv.Itoa(analytics.DefaultDays)))
	if err != nil {
		days = analytics.DefaultDays
	}

	stats, err := h.analyticsService.Stats(c.Request.Context(), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch analytics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AnalyticsHandler) RegisterAnalyticsRoutes(r *gin.RouterGroup) {
	group := r.Group("/analytics")
	group.POST("/track", h.Track)
	group.GET("/stats", AuthMiddleware(h.userService, h.logger), AdminMiddleware(), h.Stats)
}
