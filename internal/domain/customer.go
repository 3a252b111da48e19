package domain

import "time"

type CustomerStatus string

const (
	StatusProspect     CustomerStatus = "prospect"
	StatusIntroTrial   CustomerStatus = "intro_trial"
	StatusActiveMember CustomerStatus = "active_member"
	StatusInactive     CustomerStatus = "inactive"
	StatusCancelled    CustomerStatus = "cancelled"
)

// Customer column names follow the hosted schema (customers table) so the
// service can run against the existing database unchanged.
type Customer struct {
	ID                    string         `gorm:"primaryKey" json:"id"`
	FirstName             string         `gorm:"column:first_name" json:"first_name"`
	LastName              string         `gorm:"column:last_name" json:"last_name"`
	Email                 string         `gorm:"index" json:"email"`
	Phone                 string         `json:"phone"`
	Status                CustomerStatus `gorm:"index;default:prospect" json:"status"`
	FirstClassDate        *time.Time     `gorm:"column:first_class_date" json:"first_class_date"`
	IntroEndDate          *time.Time     `gorm:"column:intro_end_date" json:"intro_end_date"`
	LastVisitDate         *time.Time     `gorm:"column:last_visit_date" json:"last_visit_date"`
	TotalClassesAttended  int            `gorm:"column:total_classes_attended" json:"total_classes_attended"`
	OptInMarketing        bool           `gorm:"column:opt_in_marketing;default:true" json:"opt_in_marketing"`
	OptInTransactional    bool           `gorm:"column:opt_in_transactional;default:true" json:"opt_in_transactional"`
	Tags                  string         `json:"tags"`
	Source                string         `json:"source"`
	Notes                 string         `json:"notes"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
}

func (c *Customer) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
