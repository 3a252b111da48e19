package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/treydodson26/talo-studio/internal/domain"
)

type SequenceRepo struct{ db *gorm.DB }

func NewSequenceRepo(db *gorm.DB) *SequenceRepo {
	return &SequenceRepo{db: db}
}

func (r *SequenceRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.MessageSequence{})
}

func (r *SequenceRepo) Create(ctx context.Context, s *domain.MessageSequence) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(s).Error
}

// Active returns the touchpoint catalog in day order; one template per
// day is assumed.
func (r *SequenceRepo) Active(ctx context.Context) ([]domain.MessageSequence, error) {
	var out []domain.MessageSequence
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("day ASC").
		Find(&out).Error
	return out, err
}

func (r *SequenceRepo) ByDay(ctx context.Context, day int) (*domain.MessageSequence, error) {
	var s domain.MessageSequence
	if err := r.db.WithContext(ctx).
		Where("day = ? AND active = ?", day, true).
		First(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}
