package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/treydodson26/talo-studio/internal/domain"
	"github.com/treydodson26/talo-studio/internal/repository"
	"github.com/treydodson26/talo-studio/internal/service"
)

type ClassHandler struct {
	repo     *repository.ClassRepo
	bookings *service.BookingSvc
}

func NewClassHandler(repo *repository.ClassRepo, bookings *service.BookingSvc) *ClassHandler {
	return &ClassHandler{repo: repo, bookings: bookings}
}

// POST /v1/classes
func (h *ClassHandler) Create(c *gin.Context) {
	var in struct {
		ClassName      string `json:"class_name" binding:"required"`
		InstructorName string `json:"instructor_name" binding:"required"`
		ClassDate      string `json:"class_date" binding:"required"` // YYYY-MM-DD
		ClassTime      string `json:"class_time" binding:"required"` // HH:MM
		Room           string `json:"room"`
		PriceCents     int64  `json:"price_cents"`
		MaxCapacity    int    `json:"max_capacity" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.ParseInLocation("2006-01-02", in.ClassDate, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "class_date must be YYYY-MM-DD"})
		return
	}
	if _, err := time.Parse("15:04", in.ClassTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "class_time must be HH:MM"})
		return
	}

	cs := domain.ClassSession{
		ClassName:      in.ClassName,
		InstructorName: in.InstructorName,
		ClassDate:      date,
		ClassTime:      in.ClassTime,
		Room:           in.Room,
		PriceCents:     in.PriceCents,
		MaxCapacity:    in.MaxCapacity,
	}
	if err := h.repo.Create(c.Request.Context(), &cs); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cs)
}

// GET /v1/classes?from=YYYY-MM-DD&to=YYYY-MM-DD&instructor=
// Returns sessions with derived availability attached.
func (h *ClassHandler) List(c *gin.Context) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 7)
	if v := c.Query("from"); v != "" {
		if t, err := time.ParseInLocation("2006-01-02", v, time.Local); err == nil {
			from = t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.ParseInLocation("2006-01-02", v, time.Local); err == nil {
			to = t
		}
	}

	views, err := h.bookings.Schedule(c.Request.Context(), from, to, c.Query("instructor"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": views})
}

// GET /v1/classes/:id
func (h *ClassHandler) Get(c *gin.Context) {
	cs, err := h.repo.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, service.NewClassView(*cs, time.Now()))
}

// PUT /v1/classes/:id updates instructor, substitute flag, room
func (h *ClassHandler) Update(c *gin.Context) {
	cs, err := h.repo.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	var in struct {
		InstructorName  *string `json:"instructor_name"`
		Room            *string `json:"room"`
		NeedsSubstitute *bool   `json:"needs_substitute"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fields := map[string]any{}
	if in.InstructorName != nil {
		cs.InstructorName = *in.InstructorName
		fields["instructor_name"] = *in.InstructorName
	}
	if in.Room != nil {
		cs.Room = *in.Room
		fields["room"] = *in.Room
	}
	if in.NeedsSubstitute != nil {
		cs.NeedsSubstitute = *in.NeedsSubstitute
		fields["needs_substitute"] = *in.NeedsSubstitute
	}
	if err := h.repo.UpdateDetails(c.Request.Context(), cs.ID, fields); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cs)
}
