package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyQuestion(t *testing.T) {
	tests := []struct {
		q    string
		want Intent
	}{
		{"Who are my top customers this month?", IntentTopCustomers},
		{"show TOP customers for the MONTH", IntentTopCustomers},
		{"Which customers are at risk of churning?", IntentChurnRisk},
		{"churn report please", IntentChurnRisk},
		{"How is class attendance trending?", IntentAttendance},
		{"which class fills up fastest", IntentAttendance},
		{"What should I do about pricing?", IntentUnknown},
		{"", IntentUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyQuestion(tt.q), "q=%q", tt.q)
	}
}

// The top-customers table answers a monthly question; all three keywords
// are required. A different window must not get a table titled for this
// month.
func TestClassifyQuestion_TopNeedsAllThreeKeywords(t *testing.T) {
	assert.NotEqual(t, IntentTopCustomers, ClassifyQuestion("top customers last year"))
	assert.NotEqual(t, IntentTopCustomers, ClassifyQuestion("top classes this week"))
	assert.NotEqual(t, IntentTopCustomers, ClassifyQuestion("how many customers do I have"))
}
