package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/treydodson26/talo-studio/internal/llm"
	"github.com/treydodson26/talo-studio/internal/repository"
)

// Intent is the explicit dispatch key for the insights endpoint. This is
// keyword routing over four known questions plus a fallback, nothing more.
type Intent int

const (
	IntentUnknown Intent = iota
	IntentTopCustomers
	IntentChurnRisk
	IntentAttendance
)

// ClassifyQuestion maps free text onto an intent by keyword sets.
func ClassifyQuestion(q string) Intent {
	s := strings.ToLower(q)
	has := func(kw string) bool { return strings.Contains(s, kw) }
	switch {
	case has("top") && has("customer") && has("month"):
		return IntentTopCustomers
	case has("churn") || has("at risk"):
		return IntentChurnRisk
	case has("attendance") || has("class"):
		return IntentAttendance
	default:
		return IntentUnknown
	}
}

// InsightResult is the response union: a table or a text answer.
type InsightResult struct {
	Type    string     `json:"type"` // table|text
	Title   string     `json:"title,omitempty"`
	Columns []string   `json:"columns,omitempty"`
	Rows    [][]string `json:"rows,omitempty"`
	Text    string     `json:"text,omitempty"`
}

type InsightsSvc struct {
	metrics *repository.MetricsRepo
	nurture *NurtureSvc
	llm     *llm.Client
	log     zerolog.Logger
	now     func() time.Time
}

func NewInsightsSvc(m *repository.MetricsRepo, n *NurtureSvc, client *llm.Client) *InsightsSvc {
	return &InsightsSvc{
		metrics: m,
		nurture: n,
		llm:     client,
		log:     zerolog.New(os.Stdout).With().Timestamp().Str("component", "insights").Logger(),
		now:     time.Now,
	}
}

// Answer runs the canned query for a recognized intent, otherwise falls
// back to a KPI snapshot narrated by the LLM when one is configured.
func (s *InsightsSvc) Answer(ctx context.Context, question string) (*InsightResult, error) {
	switch ClassifyQuestion(question) {
	case IntentTopCustomers:
		return s.topCustomers(ctx)
	case IntentChurnRisk:
		return s.churnRisk(ctx)
	case IntentAttendance:
		return s.attendance(ctx)
	default:
		return s.fallback(ctx, question)
	}
}

func (s *InsightsSvc) topCustomers(ctx context.Context) (*InsightResult, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	rows, err := s.metrics.TopCustomersSince(ctx, monthStart, 10)
	if err != nil {
		return nil, err
	}
	out := &InsightResult{
		Type:    "table",
		Title:   "Top customers this month",
		Columns: []string{"Name", "Email", "Classes"},
	}
	for _, r := range rows {
		out.Rows = append(out.Rows, []string{r.Name, r.Email, fmt.Sprintf("%d", r.Classes)})
	}
	return out, nil
}

func (s *InsightsSvc) churnRisk(ctx context.Context) (*InsightResult, error) {
	entries, err := s.nurture.Pipeline(ctx)
	if err != nil {
		return nil, err
	}
	out := &InsightResult{
		Type:    "table",
		Title:   "Intro customers at churn risk",
		Columns: []string{"Name", "Email", "Days in intro", "Days left", "Tier"},
	}
	for _, e := range entries {
		if e.Tier != TierAtRisk && e.Tier != TierNeedsAttention {
			continue
		}
		out.Rows = append(out.Rows, []string{
			e.Customer.FullName(),
			e.Customer.Email,
			fmt.Sprintf("%d", e.DaysSinceFirst),
			fmt.Sprintf("%d", e.DaysRemaining),
			string(e.Tier),
		})
	}
	return out, nil
}

func (s *InsightsSvc) attendance(ctx context.Context) (*InsightResult, error) {
	now := s.now()
	rows, err := s.metrics.FillRatesBetween(ctx, now.AddDate(0, 0, -7), now)
	if err != nil {
		return nil, err
	}
	out := &InsightResult{
		Type:    "table",
		Title:   "Class fill rates, last 7 days",
		Columns: []string{"Class", "Sessions", "Booked", "Capacity", "Fill rate"},
	}
	for _, r := range rows {
		out.Rows = append(out.Rows, []string{
			r.ClassName,
			fmt.Sprintf("%d", r.Sessions),
			fmt.Sprintf("%d", r.Booked),
			fmt.Sprintf("%d", r.Capacity),
			fmt.Sprintf("%.0f%%", r.FillRate*100),
		})
	}
	return out, nil
}

const insightsSystem = "You are a concise business analyst for a yoga studio. " +
	"Answer the owner's question using only the KPI context provided. " +
	"If the context cannot answer it, say so briefly."

func (s *InsightsSvc) fallback(ctx context.Context, question string) (*InsightResult, error) {
	total, err := s.metrics.TotalCustomers(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.metrics.NewCustomersSince(ctx, s.now().AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}
	intros, err := s.metrics.CustomersByStatus(ctx, "intro_trial")
	if err != nil {
		return nil, err
	}

	kpis := fmt.Sprintf("Total customers: %d. New in last 7 days: %d. Active intro offers: %d.", total, recent, intros)
	answer, err := s.llm.Complete(ctx, insightsSystem, fmt.Sprintf("KPIs: %s\n\nQuestion: %s", kpis, question))
	if errors.Is(err, llm.ErrDisabled) {
		return &InsightResult{Type: "text", Text: kpis}, nil
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("llm fallback failed")
		return &InsightResult{Type: "text", Text: kpis}, nil
	}
	return &InsightResult{Type: "text", Text: answer}, nil
}
