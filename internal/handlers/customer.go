package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/treydodson26/talo-studio/internal/domain"
	"github.com/treydodson26/talo-studio/internal/repository"
	"github.com/treydodson26/talo-studio/internal/service"
)

type CustomerHandler struct {
	repo      *repository.CustomerRepo
	importer  *service.ImportSvc
	messaging *service.MessagingSvc
}

func NewCustomerHandler(repo *repository.CustomerRepo, importer *service.ImportSvc, messaging *service.MessagingSvc) *CustomerHandler {
	return &CustomerHandler{repo: repo, importer: importer, messaging: messaging}
}

// POST /v1/customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var in struct {
		FirstName      string `json:"first_name" binding:"required"`
		LastName       string `json:"last_name"`
		Email          string `json:"email" binding:"omitempty,email"`
		Phone          string `json:"phone"`
		Status         string `json:"status"`
		FirstClassDate string `json:"first_class_date"` // YYYY-MM-DD
		IntroEndDate   string `json:"intro_end_date"`
		OptInMarketing *bool  `json:"opt_in_marketing"`
		Tags           string `json:"tags"`
		Source         string `json:"source"`
		Notes          string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cust := domain.Customer{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		Phone:          in.Phone,
		Status:         domain.CustomerStatus(in.Status),
		OptInMarketing: true,
		Tags:           in.Tags,
		Source:         in.Source,
		Notes:          in.Notes,
	}
	if in.OptInMarketing != nil {
		cust.OptInMarketing = *in.OptInMarketing
	}
	if t, err := time.Parse("2006-01-02", in.FirstClassDate); err == nil && in.FirstClassDate != "" {
		cust.FirstClassDate = &t
	}
	if t, err := time.Parse("2006-01-02", in.IntroEndDate); err == nil && in.IntroEndDate != "" {
		cust.IntroEndDate = &t
	}

	if err := h.repo.Create(c.Request.Context(), &cust); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, cust)
}

// GET /v1/customers?page=1&page_size=20&q=&status=
func (h *CustomerHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	items, total, err := h.repo.List(c.Request.Context(), page-1, size,
		c.Query("q"), domain.CustomerStatus(c.Query("status")))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

// GET /v1/customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	cust, err := h.repo.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cust)
}

// customerPatch is the PUT body. Pointer fields distinguish "not sent"
// from an explicit zero, so opt-out and cleared text fields persist.
type customerPatch struct {
	FirstName          *string `json:"first_name"`
	LastName           *string `json:"last_name"`
	Email              *string `json:"email" binding:"omitempty,email"`
	Phone              *string `json:"phone"`
	Status             *string `json:"status"`
	FirstClassDate     *string `json:"first_class_date"` // YYYY-MM-DD
	IntroEndDate       *string `json:"intro_end_date"`
	OptInMarketing     *bool   `json:"opt_in_marketing"`
	OptInTransactional *bool   `json:"opt_in_transactional"`
	Tags               *string `json:"tags"`
	Source             *string `json:"source"`
	Notes              *string `json:"notes"`
}

func (p *customerPatch) fields() map[string]any {
	f := map[string]any{}
	set := func(col string, v *string) {
		if v != nil {
			f[col] = *v
		}
	}
	set("first_name", p.FirstName)
	set("last_name", p.LastName)
	set("email", p.Email)
	set("phone", p.Phone)
	set("tags", p.Tags)
	set("source", p.Source)
	set("notes", p.Notes)
	if p.Status != nil {
		f["status"] = domain.CustomerStatus(*p.Status)
	}
	if p.OptInMarketing != nil {
		f["opt_in_marketing"] = *p.OptInMarketing
	}
	if p.OptInTransactional != nil {
		f["opt_in_transactional"] = *p.OptInTransactional
	}
	if p.FirstClassDate != nil {
		if t, err := time.Parse("2006-01-02", *p.FirstClassDate); err == nil {
			f["first_class_date"] = t
		}
	}
	if p.IntroEndDate != nil {
		if t, err := time.Parse("2006-01-02", *p.IntroEndDate); err == nil {
			f["intro_end_date"] = t
		}
	}
	return f
}

// PUT /v1/customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	var in customerPatch
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := c.Param("id")
	if err := h.repo.UpdateFields(c.Request.Context(), id, in.fields()); err != nil {
		fail(c, err)
		return
	}
	cust, err := h.repo.ByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cust)
}

// POST /v1/customers/import (multipart, field "file")
func (h *CustomerHandler) Import(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, err)
		return
	}
	defer f.Close()

	report, err := h.importer.Customers(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// GET /v1/customers/:id/communications
func (h *CustomerHandler) Communications(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	items, err := h.messaging.History(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
