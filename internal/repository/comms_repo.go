package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/treydodson26/talo-studio/internal/domain"
)

type CommsRepo struct{ db *gorm.DB }

func NewCommsRepo(db *gorm.DB) *CommsRepo {
	return &CommsRepo{db: db}
}

func (r *CommsRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.CommunicationLog{}, &domain.EmailTemplate{}, &domain.EmailQueueItem{})
}

func (r *CommsRepo) Append(ctx context.Context, e *domain.CommunicationLog) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.SentAt.IsZero() {
		e.SentAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *CommsRepo) ByCustomer(ctx context.Context, customerID string, limit int) ([]domain.CommunicationLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []domain.CommunicationLog
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("sent_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// Enqueue inserts pending queue items in one batch; campaign send fans
// out through here.
func (r *CommsRepo) Enqueue(ctx context.Context, items []domain.EmailQueueItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		if items[i].Status == "" {
			items[i].Status = domain.QueuePending
		}
	}
	return r.db.WithContext(ctx).CreateInBatches(items, 100).Error
}

func (r *CommsRepo) DuePending(ctx context.Context, now time.Time, limit int) ([]domain.EmailQueueItem, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []domain.EmailQueueItem
	err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_for <= ?", domain.QueuePending, now).
		Order("scheduled_for ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *CommsRepo) MarkSent(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&domain.EmailQueueItem{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": domain.QueueSent, "last_error": ""}).Error
}

// MarkAttemptFailed bumps attempts; the item stays pending until maxAttempts,
// then flips to failed for good.
func (r *CommsRepo) MarkAttemptFailed(ctx context.Context, id string, attempts, maxAttempts int, errDetail string) error {
	status := domain.QueuePending
	if attempts >= maxAttempts {
		status = domain.QueueFailed
	}
	return r.db.WithContext(ctx).Model(&domain.EmailQueueItem{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "attempts": attempts, "last_error": errDetail}).Error
}
