package service

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/treydodson26/talo-studio/internal/domain"
)

var ErrCampaignNotSendable = errors.New("campaign_not_sendable")

type campaignStore interface {
	Create(ctx context.Context, c *domain.Campaign) error
	ByID(ctx context.Context, id string) (*domain.Campaign, error)
	Update(ctx context.Context, c *domain.Campaign) error
	List(ctx context.Context, page, size int) ([]domain.Campaign, int64, error)
	MarkSending(ctx context.Context, id string) (int64, error)
	MarkSent(ctx context.Context, id string, sentCount int, at time.Time) error
	Segments(ctx context.Context) ([]domain.CustomerSegment, error)
}

type segmentReader interface {
	BySegment(ctx context.Context, segment string, marketingOnly bool) ([]domain.Customer, error)
}

type emailEnqueuer interface {
	Enqueue(ctx context.Context, items []domain.EmailQueueItem) error
}

type CampaignSvc struct {
	campaigns campaignStore
	customers segmentReader
	comms     emailEnqueuer
	log       zerolog.Logger
	now       func() time.Time
}

func NewCampaignSvc(ca campaignStore, cu segmentReader, cm emailEnqueuer) *CampaignSvc {
	return &CampaignSvc{
		campaigns: ca,
		customers: cu,
		comms:     cm,
		log:       zerolog.New(os.Stdout).With().Timestamp().Str("component", "campaign").Logger(),
		now:       time.Now,
	}
}

func (s *CampaignSvc) Create(ctx context.Context, c domain.Campaign) (*domain.Campaign, error) {
	if err := s.campaigns.Create(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CampaignSvc) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	return s.campaigns.ByID(ctx, id)
}

func (s *CampaignSvc) List(ctx context.Context, page, size int) ([]domain.Campaign, int64, error) {
	return s.campaigns.List(ctx, page, size)
}

func (s *CampaignSvc) Update(ctx context.Context, c domain.Campaign) (*domain.Campaign, error) {
	if err := s.campaigns.Update(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Send fans a campaign out to its target segment through the email queue.
// Only marketing opt-ins are targeted; the queue processor in the notify
// worker does the actual delivery.
func (s *CampaignSvc) Send(ctx context.Context, id string) (*domain.Campaign, int, error) {
	c, err := s.campaigns.ByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	if c.Status != domain.CampaignDraft && c.Status != domain.CampaignScheduled {
		return nil, 0, ErrCampaignNotSendable
	}

	targets, err := s.customers.BySegment(ctx, c.TargetSegment, true)
	if err != nil {
		return nil, 0, err
	}
	// the guarded update is the real gate; a concurrent send of the same
	// campaign loses the transition and must not enqueue a second batch
	claimed, err := s.campaigns.MarkSending(ctx, c.ID)
	if err != nil {
		return nil, 0, err
	}
	if claimed == 0 {
		return nil, 0, ErrCampaignNotSendable
	}

	now := s.now()
	items := make([]domain.EmailQueueItem, 0, len(targets))
	for _, t := range targets {
		if t.Email == "" {
			continue
		}
		items = append(items, domain.EmailQueueItem{
			CustomerID:   t.ID,
			CampaignID:   c.ID,
			Recipient:    t.Email,
			Subject:      RenderTemplate(c.Subject, &t),
			Body:         RenderTemplate(c.Content, &t),
			ScheduledFor: now,
		})
	}
	if err := s.comms.Enqueue(ctx, items); err != nil {
		return nil, 0, err
	}
	if err := s.campaigns.MarkSent(ctx, c.ID, len(items), now); err != nil {
		return nil, 0, err
	}
	s.log.Info().Str("campaign_id", c.ID).Int("queued", len(items)).Msg("campaign queued")

	c.Status = domain.CampaignSent
	c.SentCount = len(items)
	c.SentAt = &now
	return c, len(items), nil
}

func (s *CampaignSvc) Segments(ctx context.Context) ([]domain.CustomerSegment, error) {
	return s.campaigns.Segments(ctx)
}
