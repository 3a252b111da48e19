package service

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/treydodson26/talo-studio/internal/cache"
	"github.com/treydodson26/talo-studio/internal/domain"
	"github.com/treydodson26/talo-studio/internal/repository"
)

const snapshotKey = "dashboard:snapshot"
const snapshotTTL = 60 * time.Second

type DashboardSvc struct {
	metrics  *repository.MetricsRepo
	classes  *repository.ClassRepo
	bookings *repository.BookingRepo
	cache    *cache.Cache
	log      zerolog.Logger
	now      func() time.Time
}

func NewDashboardSvc(m *repository.MetricsRepo, cl *repository.ClassRepo, b *repository.BookingRepo, c *cache.Cache) *DashboardSvc {
	return &DashboardSvc{
		metrics:  m,
		classes:  cl,
		bookings: b,
		cache:    c,
		log:      zerolog.New(os.Stdout).With().Timestamp().Str("component", "dashboard").Logger(),
		now:      time.Now,
	}
}

type Snapshot struct {
	TotalCustomers     int64   `json:"total_customers"`
	NewCustomers7d     int64   `json:"new_customers_7d"`
	ActiveIntros       int64   `json:"active_intros"`
	ActiveMembers      int64   `json:"active_members"`
	ClassesToday       int64   `json:"classes_today"`
	BookingsToday      int64   `json:"bookings_today"`
	RevenueMonthCents  int64   `json:"revenue_month_cents"`
	RevenuePrevCents   int64   `json:"revenue_prev_month_cents"`
	RevenueDeltaPct    float64 `json:"revenue_delta_pct"`
	GeneratedAt        string  `json:"generated_at"`
}

// KPIs serves the dashboard snapshot cache-aside: 60s staleness is fine
// for a front-desk screen and keeps seven aggregates off the hot path.
func (s *DashboardSvc) KPIs(ctx context.Context) (*Snapshot, error) {
	var cached Snapshot
	if err := s.cache.GetJSON(ctx, snapshotKey, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.log.Warn().Err(err).Msg("snapshot cache read failed")
	}

	snap, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetJSON(ctx, snapshotKey, snap, snapshotTTL); err != nil {
		s.log.Warn().Err(err).Msg("snapshot cache write failed")
	}
	return snap, nil
}

func (s *DashboardSvc) compute(ctx context.Context) (*Snapshot, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevStart := monthStart.AddDate(0, -1, 0)

	snap := &Snapshot{GeneratedAt: now.Format(time.RFC3339)}
	var err error
	if snap.TotalCustomers, err = s.metrics.TotalCustomers(ctx); err != nil {
		return nil, err
	}
	if snap.NewCustomers7d, err = s.metrics.NewCustomersSince(ctx, now.AddDate(0, 0, -7)); err != nil {
		return nil, err
	}
	if snap.ActiveIntros, err = s.metrics.CustomersByStatus(ctx, domain.StatusIntroTrial); err != nil {
		return nil, err
	}
	if snap.ActiveMembers, err = s.metrics.CustomersByStatus(ctx, domain.StatusActiveMember); err != nil {
		return nil, err
	}
	if snap.ClassesToday, err = s.classes.CountOnDate(ctx, now); err != nil {
		return nil, err
	}
	if snap.BookingsToday, err = s.bookings.CountSince(ctx, today); err != nil {
		return nil, err
	}
	if snap.RevenueMonthCents, err = s.metrics.RevenueBetween(ctx, monthStart, monthStart.AddDate(0, 1, 0)); err != nil {
		return nil, err
	}
	if snap.RevenuePrevCents, err = s.metrics.RevenueBetween(ctx, prevStart, monthStart); err != nil {
		return nil, err
	}
	if snap.RevenuePrevCents > 0 {
		snap.RevenueDeltaPct = float64(snap.RevenueMonthCents-snap.RevenuePrevCents) / float64(snap.RevenuePrevCents) * 100
	}
	return snap, nil
}

func (s *DashboardSvc) RefreshSegments(ctx context.Context) error {
	return s.metrics.RefreshSegmentCounts(ctx)
}
