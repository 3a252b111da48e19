package service

import (
	"math"
	"sort"
	"time"

	"github.com/treydodson26/talo-studio/internal/domain"
)

// SequenceDays is the fixed touchpoint ladder, largest first so bucketing
// is a first-match scan.
var SequenceDays = []int{28, 14, 10, 7, 0}

// DaysSince counts elapsed days rounded up, the same way the intro
// tracker always has.
func DaysSince(from, today time.Time) int {
	d := today.Sub(from).Hours() / 24
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d))
}

// Bucket returns the largest sequence day not exceeding daysSinceFirst.
func Bucket(daysSinceFirst int) int {
	for _, day := range SequenceDays {
		if daysSinceFirst >= day {
			return day
		}
	}
	return 0
}

// DaysRemaining in the intro window, floored at zero for display.
func DaysRemaining(introEnd, today time.Time) int {
	d := introEnd.Sub(today).Hours() / 24
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d))
}

type PriorityTier string

const (
	TierAtRisk          PriorityTier = "at-risk"
	TierNeedsAttention  PriorityTier = "needs-attention"
	TierConversionReady PriorityTier = "conversion-ready"
	TierOnTrack         PriorityTier = "on-track"
)

var tierOrder = map[PriorityTier]int{
	TierAtRisk:          0,
	TierNeedsAttention:  1,
	TierConversionReady: 2,
	TierOnTrack:         3,
}

// ClassesPerWeek averages attendance over whole elapsed weeks, never
// dividing by less than one week.
func ClassesPerWeek(totalClasses, daysSinceFirst int) float64 {
	weeks := daysSinceFirst / 7
	if weeks < 1 {
		weeks = 1
	}
	return float64(totalClasses) / float64(weeks)
}

// Priority classifies an intro customer for the pipeline view. The four
// tiers are evaluated top to bottom, first match wins.
func Priority(c *domain.Customer, today time.Time) PriorityTier {
	daysSinceFirst := 0
	if c.FirstClassDate != nil {
		daysSinceFirst = DaysSince(*c.FirstClassDate, today)
	}
	daysSinceVisit := 0
	if c.LastVisitDate != nil {
		daysSinceVisit = DaysSince(*c.LastVisitDate, today)
	}

	switch {
	case daysSinceFirst >= 25 || daysSinceVisit >= 7 || c.TotalClassesAttended <= 2:
		return TierAtRisk
	case daysSinceVisit >= 5:
		return TierNeedsAttention
	case daysSinceFirst >= 15 && ClassesPerWeek(c.TotalClassesAttended, daysSinceFirst) >= 1.5:
		return TierConversionReady
	default:
		return TierOnTrack
	}
}

// PipelineEntry is one customer on the intro pipeline view.
type PipelineEntry struct {
	Customer       domain.Customer `json:"customer"`
	DaysSinceFirst int             `json:"days_since_first"`
	DaysRemaining  int             `json:"days_remaining"`
	Tier           PriorityTier    `json:"tier"`
}

// SortPipeline orders at-risk first, then by least days remaining.
func SortPipeline(entries []PipelineEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if tierOrder[entries[i].Tier] != tierOrder[entries[j].Tier] {
			return tierOrder[entries[i].Tier] < tierOrder[entries[j].Tier]
		}
		return entries[i].DaysRemaining < entries[j].DaysRemaining
	})
}
