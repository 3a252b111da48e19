package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/treydodson26/talo-studio/internal/domain"
)

var (
	ErrAlreadyCancelled = errors.New("booking_already_cancelled")
	ErrAlreadyCheckedIn = errors.New("booking_already_checked_in")
	ErrNotConfirmed     = errors.New("booking_not_confirmed")
)

type BookingRepo struct{ db *gorm.DB }

func NewBookingRepo(db *gorm.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

func (r *BookingRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Booking{})
}

// Create decides confirmed-vs-waitlisted and bumps the class counters in
// one transaction with the class row locked FOR UPDATE, so two bookings
// racing for the last spot cannot both read the same counter value:
// exactly one is confirmed, the other is waitlisted.
func (r *BookingRepo) Create(ctx context.Context, customerID, classID string) (*domain.Booking, *domain.ClassSession, error) {
	var (
		b  domain.Booking
		cs domain.ClassSession
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&cs, "id = ?", classID).Error; err != nil {
			return translate(err)
		}

		status, pos := domain.ApplyBooking(&cs)
		b = domain.Booking{
			ID:               uuid.NewString(),
			CustomerID:       customerID,
			ClassID:          classID,
			Status:           status,
			WaitlistPosition: pos,
			BookingDate:      time.Now(),
		}
		if err := tx.Create(&b).Error; err != nil {
			return err
		}
		return tx.Model(&domain.ClassSession{}).Where("id = ?", classID).Updates(map[string]any{
			"current_bookings": cs.CurrentBookings,
			"waitlist_count":   cs.WaitlistCount,
		}).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &b, &cs, nil
}

// Cancel flips the booking to cancelled and reverses exactly the counter
// the booking held, floored at zero. Waitlisted bookings behind it are
// not promoted.
func (r *BookingRepo) Cancel(ctx context.Context, id, reason string) (*domain.Booking, *domain.ClassSession, error) {
	var (
		b  domain.Booking
		cs domain.ClassSession
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&b, "id = ?", id).Error; err != nil {
			return translate(err)
		}
		if b.Status == domain.BookingCancelled {
			return ErrAlreadyCancelled
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&cs, "id = ?", b.ClassID).Error; err != nil {
			return translate(err)
		}

		was := b.Status
		b.Status = domain.BookingCancelled
		b.CancellationReason = &reason
		if err := tx.Model(&domain.Booking{}).Where("id = ?", b.ID).Updates(map[string]any{
			"status":              b.Status,
			"cancellation_reason": reason,
		}).Error; err != nil {
			return err
		}

		domain.ReleaseBooking(&cs, was)
		return tx.Model(&domain.ClassSession{}).Where("id = ?", cs.ID).Updates(map[string]any{
			"current_bookings": cs.CurrentBookings,
			"waitlist_count":   cs.WaitlistCount,
		}).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &b, &cs, nil
}

// CheckIn stamps a confirmed booking; repeated check-ins are rejected so
// attendance counters stay honest.
func (r *BookingRepo) CheckIn(ctx context.Context, id string, at time.Time) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&b, "id = ?", id).Error; err != nil {
			return translate(err)
		}
		if b.Status != domain.BookingConfirmed {
			return ErrNotConfirmed
		}
		if b.CheckedInAt != nil {
			return ErrAlreadyCheckedIn
		}
		b.CheckedInAt = &at
		return tx.Model(&domain.Booking{}).Where("id = ?", b.ID).
			Update("checked_in_at", at).Error
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepo) ByID(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *BookingRepo) List(ctx context.Context, page, size int, customerID, classID string) ([]domain.Booking, int64, error) {
	if size <= 0 {
		size = 20
	}
	if page < 0 {
		page = 0
	}
	qb := r.db.WithContext(ctx).Model(&domain.Booking{})
	if customerID != "" {
		qb = qb.Where("customer_id = ?", customerID)
	}
	if classID != "" {
		qb = qb.Where("class_id = ?", classID)
	}
	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.Booking
	if err := qb.Order("booking_date DESC").Limit(size).Offset(page * size).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *BookingRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("booking_date >= ? AND status <> ?", since, domain.BookingCancelled).
		Count(&n).Error
	return n, err
}
