package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/treydodson26/talo-studio/internal/domain"
)

var ErrNotFound = errors.New("not_found")

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

type CustomerRepo struct{ db *gorm.DB }

func NewCustomerRepo(db *gorm.DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

func (r *CustomerRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Customer{})
}

func (r *CustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = domain.StatusProspect
	}
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CustomerRepo) ByID(ctx context.Context, id string) (*domain.Customer, error) {
	var c domain.Customer
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// UpdateFields patches columns by name. Map-based Updates keeps explicit
// zero values (opt-out, cleared tags) in the SET clause, which a struct
// update would drop.
func (r *CustomerRepo) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&domain.Customer{}).Where("id = ?", id).Updates(fields).Error
}

func (r *CustomerRepo) List(ctx context.Context, page, size int, q string, status domain.CustomerStatus) ([]domain.Customer, int64, error) {
	if size <= 0 {
		size = 20
	}
	if page < 0 {
		page = 0
	}
	qb := r.db.WithContext(ctx).Model(&domain.Customer{})
	if q != "" {
		like := "%" + q + "%"
		qb = qb.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?", like, like, like)
	}
	if status != "" {
		qb = qb.Where("status = ?", status)
	}
	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.Customer
	if err := qb.Order("created_at DESC").Limit(size).Offset(page * size).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ActiveIntro returns customers still inside their intro window, the
// population the nurture grouping partitions.
func (r *CustomerRepo) ActiveIntro(ctx context.Context, today time.Time) ([]domain.Customer, error) {
	var out []domain.Customer
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.StatusIntroTrial).
		Where("intro_end_date >= ?", today).
		Order("first_class_date ASC").
		Find(&out).Error
	return out, err
}

// BySegment resolves a campaign target segment to its customers. Unknown
// segment names resolve to nobody rather than everybody.
func (r *CustomerRepo) BySegment(ctx context.Context, segment string, marketingOnly bool) ([]domain.Customer, error) {
	qb := r.db.WithContext(ctx).Model(&domain.Customer{})
	switch segment {
	case "all":
	case "prospects":
		qb = qb.Where("status = ?", domain.StatusProspect)
	case "intro_trial":
		qb = qb.Where("status = ?", domain.StatusIntroTrial)
	case "active_members":
		qb = qb.Where("status = ?", domain.StatusActiveMember)
	case "inactive":
		qb = qb.Where("status IN ?", []domain.CustomerStatus{domain.StatusInactive, domain.StatusCancelled})
	default:
		return nil, nil
	}
	if marketingOnly {
		qb = qb.Where("opt_in_marketing = ?", true)
	}
	var out []domain.Customer
	err := qb.Find(&out).Error
	return out, err
}

// RecordVisit stamps a check-in on the customer card.
func (r *CustomerRepo) RecordVisit(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.Customer{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_visit_date":        at,
			"total_classes_attended": gorm.Expr("total_classes_attended + 1"),
		}).Error
}
