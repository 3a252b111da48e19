package domain

import "time"

type MessageChannel string

const (
	ChannelEmail MessageChannel = "email"
	ChannelText  MessageChannel = "text"
)

// MessageSequence is one intro-offer touchpoint. Day is the offset from
// the customer's first class; the catalog carries exactly {0,7,10,14,28}.
type MessageSequence struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	Day         int            `gorm:"index" json:"day"`
	MessageType MessageChannel `gorm:"column:message_type" json:"message_type"`
	Subject     string         `json:"subject"` // email only
	Content     string         `json:"content"` // {{first_name}} placeholders
	Active      bool           `gorm:"default:true" json:"active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (MessageSequence) TableName() string { return "message_sequences" }

type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)

// CommunicationLog is append-only: one row per dispatch attempt, whatever
// the outcome. delivery_status says what actually happened.
type CommunicationLog struct {
	ID             string         `gorm:"primaryKey" json:"id"`
	CustomerID     string         `gorm:"column:customer_id;index" json:"customer_id"`
	Type           string         `json:"type"` // nurture|booking_notice|campaign
	Channel        MessageChannel `json:"channel"`
	Subject        string         `json:"subject"`
	Content        string         `json:"content"`
	Recipient      string         `json:"recipient"`
	DeliveryStatus DeliveryStatus `gorm:"column:delivery_status" json:"delivery_status"`
	ErrorDetail    string         `gorm:"column:error_detail" json:"error_detail"`
	SentAt         time.Time      `gorm:"column:sent_at" json:"sent_at"`
	CreatedAt      time.Time      `json:"created_at"`
}

func (CommunicationLog) TableName() string { return "communications_log" }

// EmailTemplate is a reusable named template for campaign content.
type EmailTemplate struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex" json:"name"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type QueueStatus string

const (
	QueuePending QueueStatus = "pending"
	QueueSent    QueueStatus = "sent"
	QueueFailed  QueueStatus = "failed"
)

// EmailQueueItem is one outbound email waiting for the notify worker's
// queue processor.
type EmailQueueItem struct {
	ID           string      `gorm:"primaryKey" json:"id"`
	CustomerID   string      `gorm:"column:customer_id;index" json:"customer_id"`
	CampaignID   string      `gorm:"column:campaign_id;index" json:"campaign_id"`
	Recipient    string      `json:"recipient"`
	Subject      string      `json:"subject"`
	Body         string      `json:"body"`
	ScheduledFor time.Time   `gorm:"column:scheduled_for;index" json:"scheduled_for"`
	Status       QueueStatus `gorm:"index;default:pending" json:"status"`
	Attempts     int         `json:"attempts"`
	LastError    string      `gorm:"column:last_error" json:"last_error"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (EmailQueueItem) TableName() string { return "email_queue" }
