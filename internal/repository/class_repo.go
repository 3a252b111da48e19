package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/treydodson26/talo-studio/internal/domain"
)

type ClassRepo struct{ db *gorm.DB }

func NewClassRepo(db *gorm.DB) *ClassRepo {
	return &ClassRepo{db: db}
}

func (r *ClassRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.ClassSession{})
}

func (r *ClassRepo) Create(ctx context.Context, c *domain.ClassSession) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ClassRepo) ByID(ctx context.Context, id string) (*domain.ClassSession, error) {
	var c domain.ClassSession
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// UpdateDetails patches schedule fields by name; the booking counters are
// never touched here, they belong to the booking transactions.
func (r *ClassRepo) UpdateDetails(ctx context.Context, id string, fields map[string]any) error {
	delete(fields, "current_bookings")
	delete(fields, "waitlist_count")
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&domain.ClassSession{}).Where("id = ?", id).Updates(fields).Error
}

// List returns sessions in a date window, soonest first.
func (r *ClassRepo) List(ctx context.Context, from, to time.Time, instructor string) ([]domain.ClassSession, error) {
	qb := r.db.WithContext(ctx).Model(&domain.ClassSession{}).
		Where("class_date >= ? AND class_date < ?", from, to)
	if instructor != "" {
		qb = qb.Where("instructor_name ILIKE ?", "%"+instructor+"%")
	}
	var out []domain.ClassSession
	err := qb.Order("class_date ASC, class_time ASC").Find(&out).Error
	return out, err
}

func (r *ClassRepo) CountOnDate(ctx context.Context, day time.Time) (int64, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.ClassSession{}).
		Where("class_date >= ? AND class_date < ?", start, start.Add(24*time.Hour)).
		Count(&n).Error
	return n, err
}
