package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/treydodson26/talo-studio/internal/domain"
)

type CampaignRepo struct{ db *gorm.DB }

func NewCampaignRepo(db *gorm.DB) *CampaignRepo {
	return &CampaignRepo{db: db}
}

func (r *CampaignRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Campaign{}, &domain.CustomerSegment{})
}

func (r *CampaignRepo) Create(ctx context.Context, c *domain.Campaign) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = domain.CampaignDraft
	}
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CampaignRepo) ByID(ctx context.Context, id string) (*domain.Campaign, error) {
	var c domain.Campaign
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CampaignRepo) Update(ctx context.Context, c *domain.Campaign) error {
	return r.db.WithContext(ctx).Model(&domain.Campaign{}).Where("id = ?", c.ID).Updates(c).Error
}

func (r *CampaignRepo) List(ctx context.Context, page, size int) ([]domain.Campaign, int64, error) {
	if size <= 0 {
		size = 20
	}
	if page < 0 {
		page = 0
	}
	qb := r.db.WithContext(ctx).Model(&domain.Campaign{})
	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.Campaign
	if err := qb.Order("created_at DESC").Limit(size).Offset(page * size).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// MarkSending claims the campaign; the rows-affected count tells the
// caller whether it won the transition (a concurrent send sees zero).
func (r *CampaignRepo) MarkSending(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Campaign{}).
		Where("id = ? AND status IN ?", id, []domain.CampaignStatus{domain.CampaignDraft, domain.CampaignScheduled}).
		Update("status", domain.CampaignSending)
	return res.RowsAffected, res.Error
}

func (r *CampaignRepo) MarkSent(ctx context.Context, id string, sentCount int, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.Campaign{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": domain.CampaignSent, "sent_count": sentCount, "sent_at": at}).Error
}

func (r *CampaignRepo) Segments(ctx context.Context) ([]domain.CustomerSegment, error) {
	var out []domain.CustomerSegment
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}
