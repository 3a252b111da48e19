package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/treydodson26/talo-studio/internal/service"
)

type SequenceHandler struct {
	nurture   *service.NurtureSvc
	messaging *service.MessagingSvc
}

func NewSequenceHandler(n *service.NurtureSvc, m *service.MessagingSvc) *SequenceHandler {
	return &SequenceHandler{nurture: n, messaging: m}
}

// GET /v1/sequences/groups returns one card per touchpoint with its customers
func (h *SequenceHandler) Groups(c *gin.Context) {
	groups, err := h.nurture.Groups(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// GET /v1/sequences/pipeline returns the prioritized intro pipeline, at-risk first
func (h *SequenceHandler) Pipeline(c *gin.Context) {
	entries, err := h.nurture.Pipeline(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// POST /v1/sequences/:day/send
func (h *SequenceHandler) Send(c *gin.Context) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day must be an integer"})
		return
	}
	var in struct {
		CustomerID string `json:"customer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.messaging.SendSequence(c.Request.Context(), in.CustomerID, day)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}
