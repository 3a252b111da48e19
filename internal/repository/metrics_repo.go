package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/treydodson26/talo-studio/internal/domain"
)

// MetricsRepo holds the read-only aggregates behind the dashboard and the
// canned insight queries. Nothing here mutates state.
type MetricsRepo struct{ db *gorm.DB }

func NewMetricsRepo(db *gorm.DB) *MetricsRepo {
	return &MetricsRepo{db: db}
}

func (r *MetricsRepo) TotalCustomers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Customer{}).Count(&n).Error
	return n, err
}

func (r *MetricsRepo) CustomersByStatus(ctx context.Context, status domain.CustomerStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Customer{}).
		Where("status = ?", status).Count(&n).Error
	return n, err
}

func (r *MetricsRepo) NewCustomersSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Customer{}).
		Where("created_at >= ?", since).Count(&n).Error
	return n, err
}

// RevenueBetween sums the drop-in rate of every non-cancelled booking whose
// class falls in the window. Cents, so the delta math stays exact.
func (r *MetricsRepo) RevenueBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var total *int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT SUM(c.price_cents)
		FROM bookings b
		JOIN classes_schedule c ON c.id = b.class_id
		WHERE b.status <> ? AND c.class_date >= ? AND c.class_date < ?`,
		domain.BookingCancelled, from, to).Scan(&total).Error
	if err != nil || total == nil {
		return 0, err
	}
	return *total, nil
}

type AttendanceRow struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Classes    int    `json:"classes"`
}

// TopCustomersSince ranks customers by attended (non-cancelled) bookings.
func (r *MetricsRepo) TopCustomersSince(ctx context.Context, since time.Time, limit int) ([]AttendanceRow, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []AttendanceRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT cu.id AS customer_id,
		       cu.first_name || ' ' || cu.last_name AS name,
		       cu.email,
		       COUNT(*) AS classes
		FROM bookings b
		JOIN customers cu ON cu.id = b.customer_id
		WHERE b.status <> ? AND b.booking_date >= ?
		GROUP BY cu.id, cu.first_name, cu.last_name, cu.email
		ORDER BY classes DESC
		LIMIT ?`,
		domain.BookingCancelled, since, limit).Scan(&out).Error
	return out, err
}

type FillRateRow struct {
	ClassName string  `json:"class_name"`
	Sessions  int     `json:"sessions"`
	Booked    int     `json:"booked"`
	Capacity  int     `json:"capacity"`
	FillRate  float64 `json:"fill_rate"`
}

// FillRatesBetween reports how full each class ran, straight off the
// denormalized counters.
func (r *MetricsRepo) FillRatesBetween(ctx context.Context, from, to time.Time) ([]FillRateRow, error) {
	var out []FillRateRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT class_name,
		       COUNT(*) AS sessions,
		       SUM(current_bookings) AS booked,
		       SUM(max_capacity) AS capacity,
		       ROUND(SUM(current_bookings)::numeric / NULLIF(SUM(max_capacity), 0), 2) AS fill_rate
		FROM classes_schedule
		WHERE class_date >= ? AND class_date < ?
		GROUP BY class_name
		ORDER BY fill_rate DESC NULLS LAST`,
		from, to).Scan(&out).Error
	return out, err
}

// RefreshSegmentCounts recomputes the display counts on customer_segments.
func (r *MetricsRepo) RefreshSegmentCounts(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE customer_segments s SET customer_count = sub.n, updated_at = NOW()
		FROM (
			SELECT CASE status
				WHEN 'prospect' THEN 'prospects'
				WHEN 'intro_trial' THEN 'intro_trial'
				WHEN 'active_member' THEN 'active_members'
				ELSE 'inactive'
			END AS seg, COUNT(*) AS n
			FROM customers GROUP BY 1
		) sub
		WHERE s.name = sub.seg`).Error
}
