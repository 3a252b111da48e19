package domain

import "time"

type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignScheduled CampaignStatus = "scheduled"
	CampaignSending   CampaignStatus = "sending"
	CampaignSent      CampaignStatus = "sent"
)

type Campaign struct {
	ID            string         `gorm:"primaryKey" json:"id"`
	Name          string         `json:"name"`
	Type          string         `json:"type"` // email for now; text reserved
	Status        CampaignStatus `gorm:"index;default:draft" json:"status"`
	Subject       string         `json:"subject"`
	Content       string         `json:"content"`
	TargetSegment string         `gorm:"column:target_segment" json:"target_segment"`
	ScheduledAt   *time.Time     `gorm:"column:scheduled_at" json:"scheduled_at"`
	SentAt        *time.Time     `gorm:"column:sent_at" json:"sent_at"`
	SentCount     int            `gorm:"column:sent_count" json:"sent_count"`
	OpenCount     int            `gorm:"column:open_count" json:"open_count"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// CustomerSegment is a display row on the dashboard; counts are refreshed
// by the metrics queries, not maintained incrementally.
type CustomerSegment struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"uniqueIndex" json:"name"`
	Description   string    `json:"description"`
	CustomerCount int       `gorm:"column:customer_count" json:"customer_count"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (CustomerSegment) TableName() string { return "customer_segments" }
