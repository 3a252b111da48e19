package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/treydodson26/talo-studio/internal/service"
)

type DashboardHandler struct {
	svc *service.DashboardSvc
}

func NewDashboardHandler(svc *service.DashboardSvc) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// GET /v1/dashboard/metrics
func (h *DashboardHandler) Metrics(c *gin.Context) {
	snap, err := h.svc.KPIs(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// POST /v1/dashboard/segments/refresh
func (h *DashboardHandler) RefreshSegments(c *gin.Context) {
	if err := h.svc.RefreshSegments(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type InsightsHandler struct {
	svc *service.InsightsSvc
}

func NewInsightsHandler(svc *service.InsightsSvc) *InsightsHandler {
	return &InsightsHandler{svc: svc}
}

// POST /v1/insights/query
func (h *InsightsHandler) Query(c *gin.Context) {
	var in struct {
		Question string `json:"question" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.svc.Answer(c.Request.Context(), in.Question)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
