package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treydodson26/talo-studio/internal/domain"
)

type fakeCampaigns struct {
	campaign  *domain.Campaign
	claimable int64
	sentCount int
	sentAt    time.Time
}

func (f *fakeCampaigns) Create(_ context.Context, _ *domain.Campaign) error { return nil }
func (f *fakeCampaigns) ByID(_ context.Context, _ string) (*domain.Campaign, error) {
	return f.campaign, nil
}
func (f *fakeCampaigns) Update(_ context.Context, _ *domain.Campaign) error { return nil }
func (f *fakeCampaigns) List(_ context.Context, _, _ int) ([]domain.Campaign, int64, error) {
	return nil, 0, nil
}
func (f *fakeCampaigns) MarkSending(_ context.Context, _ string) (int64, error) {
	return f.claimable, nil
}
func (f *fakeCampaigns) MarkSent(_ context.Context, _ string, n int, at time.Time) error {
	f.sentCount = n
	f.sentAt = at
	return nil
}
func (f *fakeCampaigns) Segments(_ context.Context) ([]domain.CustomerSegment, error) {
	return nil, nil
}

type fakeSegmentCustomers struct {
	customers     []domain.Customer
	marketingOnly bool
}

func (f *fakeSegmentCustomers) BySegment(_ context.Context, _ string, marketingOnly bool) ([]domain.Customer, error) {
	f.marketingOnly = marketingOnly
	return f.customers, nil
}

type fakeEmailQueue struct{ items []domain.EmailQueueItem }

func (f *fakeEmailQueue) Enqueue(_ context.Context, items []domain.EmailQueueItem) error {
	f.items = append(f.items, items...)
	return nil
}

func newTestCampaign(store *fakeCampaigns, seg *fakeSegmentCustomers) (*CampaignSvc, *fakeEmailQueue) {
	queue := &fakeEmailQueue{}
	svc := NewCampaignSvc(store, seg, queue)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	return svc, queue
}

func TestCampaignSend(t *testing.T) {
	store := &fakeCampaigns{
		campaign: &domain.Campaign{
			ID:            "cmp-1",
			Status:        domain.CampaignDraft,
			Subject:       "Hi {{first_name}}",
			Content:       "Spring schedule is live, {{first_name}}!",
			TargetSegment: "active_members",
		},
		claimable: 1,
	}
	seg := &fakeSegmentCustomers{customers: []domain.Customer{
		{ID: "cus-1", FirstName: "Maya", Email: "maya@example.com"},
		{ID: "cus-2", FirstName: "Bo"}, // no email on file
	}}
	svc, queue := newTestCampaign(store, seg)

	camp, queued, err := svc.Send(context.Background(), "cmp-1")
	require.NoError(t, err)

	assert.True(t, seg.marketingOnly, "campaigns target marketing opt-ins only")
	assert.Equal(t, 1, queued)
	require.Len(t, queue.items, 1)
	assert.Equal(t, "maya@example.com", queue.items[0].Recipient)
	assert.Equal(t, "Hi Maya", queue.items[0].Subject)
	assert.Equal(t, "cmp-1", queue.items[0].CampaignID)
	assert.Equal(t, 1, store.sentCount)
	assert.Equal(t, domain.CampaignSent, camp.Status)
}

func TestCampaignSend_WrongStatus(t *testing.T) {
	store := &fakeCampaigns{
		campaign:  &domain.Campaign{ID: "cmp-1", Status: domain.CampaignSent},
		claimable: 1,
	}
	svc, queue := newTestCampaign(store, &fakeSegmentCustomers{})

	_, _, err := svc.Send(context.Background(), "cmp-1")
	assert.ErrorIs(t, err, ErrCampaignNotSendable)
	assert.Empty(t, queue.items)
}

// Two sends racing past the status read: the one that loses the guarded
// status update must back off without enqueueing a second batch.
func TestCampaignSend_LostClaim(t *testing.T) {
	store := &fakeCampaigns{
		campaign: &domain.Campaign{
			ID:            "cmp-1",
			Status:        domain.CampaignDraft,
			TargetSegment: "all",
		},
		claimable: 0,
	}
	seg := &fakeSegmentCustomers{customers: []domain.Customer{
		{ID: "cus-1", FirstName: "Maya", Email: "maya@example.com"},
	}}
	svc, queue := newTestCampaign(store, seg)

	_, _, err := svc.Send(context.Background(), "cmp-1")
	assert.ErrorIs(t, err, ErrCampaignNotSendable)
	assert.Empty(t, queue.items, "losing claimant must not enqueue")
	assert.Zero(t, store.sentCount)
}
