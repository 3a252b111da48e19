package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/treydodson26/talo-studio/internal/domain"
	"github.com/treydodson26/talo-studio/internal/service"
)

type CampaignHandler struct {
	svc *service.CampaignSvc
}

func NewCampaignHandler(svc *service.CampaignSvc) *CampaignHandler {
	return &CampaignHandler{svc: svc}
}

// POST /v1/campaigns
func (h *CampaignHandler) Create(c *gin.Context) {
	var in struct {
		Name          string `json:"name" binding:"required"`
		Subject       string `json:"subject" binding:"required"`
		Content       string `json:"content" binding:"required"`
		TargetSegment string `json:"target_segment" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.svc.Create(c.Request.Context(), domain.Campaign{
		Name:          in.Name,
		Type:          "email",
		Subject:       in.Subject,
		Content:       in.Content,
		TargetSegment: in.TargetSegment,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GET /v1/campaigns
func (h *CampaignHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	items, total, err := h.svc.List(c.Request.Context(), page-1, size)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

// GET /v1/campaigns/:id
func (h *CampaignHandler) Get(c *gin.Context) {
	camp, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, camp)
}

// POST /v1/campaigns/:id/send
func (h *CampaignHandler) Send(c *gin.Context) {
	camp, queued, err := h.svc.Send(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"campaign": camp, "queued": queued})
}

// GET /v1/segments
func (h *CampaignHandler) Segments(c *gin.Context) {
	segs, err := h.svc.Segments(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": segs})
}
