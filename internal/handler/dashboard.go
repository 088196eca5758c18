package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/service"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	failOpen         bool
}

func NewDashboardHandler(dashboardService *service.DashboardService, failOpen bool) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, failOpen: failOpen}
}

// GET /dashboard/stats
//
// When fail-open is enabled a backend outage degrades to a static demo
// payload instead of a 503, so the landing page keeps rendering.
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.Stats()
	if err != nil {
		if h.failOpen {
			Success(c, service.FallbackStats())
			return
		}
		ServiceUnavailable(c, err)
		return
	}
	Success(c, stats)
}

// GET /dashboard/yearly
func (h *DashboardHandler) Yearly(c *gin.Context) {
	stats, err := h.dashboardService.YearlyStats()
	if err != nil {
		ServiceUnavailable(c, err)
		return
	}
	Success(c, stats)
}

// GET /dashboard/monthly
func (h *DashboardHandler) Monthly(c *gin.Context) {
	year := time.Now().Year()
	if s := c.Query("year"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1970 || v > 9999 {
			BadRequest(c, "invalid year")
			return
		}
		year = v
	}

	stats, err := h.dashboardService.MonthlyStats(year)
	if err != nil {
		ServiceUnavailable(c, err)
		return
	}
	Success(c, gin.H{"year": year, "months": stats})
}

// GET /dashboard/abuse-types
func (h *DashboardHandler) AbuseTypes(c *gin.Context) {
	stats, err := h.dashboardService.AbuseTypeStats()
	if err != nil {
		ServiceUnavailable(c, err)
		return
	}
	Success(c, stats)
}
