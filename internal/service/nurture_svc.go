package service

import (
	"context"
	"time"

	"github.com/treydodson26/talo-studio/internal/domain"
)

type introRoster interface {
	ActiveIntro(ctx context.Context, today time.Time) ([]domain.Customer, error)
}

type sequenceCatalog interface {
	Active(ctx context.Context) ([]domain.MessageSequence, error)
}

type NurtureSvc struct {
	customers introRoster
	sequences sequenceCatalog
	now       func() time.Time
}

func NewNurtureSvc(cu introRoster, sq sequenceCatalog) *NurtureSvc {
	return &NurtureSvc{customers: cu, sequences: sq, now: time.Now}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NurtureMember is one customer inside a touchpoint card.
type NurtureMember struct {
	Customer       domain.Customer `json:"customer"`
	DaysSinceFirst int             `json:"days_since_first"`
	DaysRemaining  int             `json:"days_remaining"`
}

// SequenceGroup is one touchpoint card: the template plus the customers
// currently sitting in that bucket.
type SequenceGroup struct {
	Sequence domain.MessageSequence `json:"sequence"`
	Members  []NurtureMember        `json:"members"`
}

// Groups partitions active intro customers across the touchpoint catalog.
// Every eligible customer lands in exactly one bucket; customers without
// a first class date sit in day 0.
func (s *NurtureSvc) Groups(ctx context.Context) ([]SequenceGroup, error) {
	today := s.now()
	sequences, err := s.sequences.Active(ctx)
	if err != nil {
		return nil, err
	}
	// intro_end_date is stored at midnight; comparing against a full
	// timestamp would drop customers on their last eligible day
	customers, err := s.customers.ActiveIntro(ctx, startOfDay(today))
	if err != nil {
		return nil, err
	}

	byDay := map[int][]NurtureMember{}
	for _, c := range customers {
		days := 0
		if c.FirstClassDate != nil {
			days = DaysSince(*c.FirstClassDate, today)
		}
		remaining := 0
		if c.IntroEndDate != nil {
			remaining = DaysRemaining(*c.IntroEndDate, today)
		}
		b := Bucket(days)
		byDay[b] = append(byDay[b], NurtureMember{
			Customer:       c,
			DaysSinceFirst: days,
			DaysRemaining:  remaining,
		})
	}

	out := make([]SequenceGroup, 0, len(sequences))
	for _, seq := range sequences {
		out = append(out, SequenceGroup{Sequence: seq, Members: byDay[seq.Day]})
	}
	return out, nil
}

// Pipeline builds the prioritized intro pipeline, at-risk first.
func (s *NurtureSvc) Pipeline(ctx context.Context) ([]PipelineEntry, error) {
	today := s.now()
	customers, err := s.customers.ActiveIntro(ctx, startOfDay(today))
	if err != nil {
		return nil, err
	}
	entries := make([]PipelineEntry, 0, len(customers))
	for _, c := range customers {
		days := 0
		if c.FirstClassDate != nil {
			days = DaysSince(*c.FirstClassDate, today)
		}
		remaining := 0
		if c.IntroEndDate != nil {
			remaining = DaysRemaining(*c.IntroEndDate, today)
		}
		entries = append(entries, PipelineEntry{
			Customer:       c,
			DaysSinceFirst: days,
			DaysRemaining:  remaining,
			Tier:           Priority(&c, today),
		})
	}
	SortPipeline(entries)
	return entries, nil
}
