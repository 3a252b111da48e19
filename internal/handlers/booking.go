package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/treydodson26/talo-studio/internal/service"
)

type BookingHandler struct {
	svc *service.BookingSvc
}

func NewBookingHandler(svc *service.BookingSvc) *BookingHandler {
	return &BookingHandler{svc: svc}
}

// POST /v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var in struct {
		CustomerID string `json:"customer_id" binding:"required"`
		ClassID    string `json:"class_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.svc.Book(c.Request.Context(), in.CustomerID, in.ClassID)
	if err != nil {
		fail(c, err)
		return
	}
	msg := "Booking Confirmed"
	if res.Waitlisted {
		msg = "Added to Waitlist"
	}
	c.JSON(http.StatusCreated, gin.H{
		"booking": res.Booking,
		"class":   res.Class,
		"message": msg,
	})
}

// POST /v1/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	var in struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&in)

	res, window, err := h.svc.Cancel(c.Request.Context(), c.Param("id"), in.Reason)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"booking":  res.Booking,
		"class":    res.Class,
		"late_fee": window.LateFee,
	})
}

// POST /v1/bookings/:id/checkin
func (h *BookingHandler) CheckIn(c *gin.Context) {
	b, err := h.svc.CheckIn(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GET /v1/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	b, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GET /v1/bookings?page=1&page_size=20&customer_id=&class_id=
func (h *BookingHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	items, total, err := h.svc.List(c.Request.Context(), page-1, size,
		c.Query("customer_id"), c.Query("class_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}
