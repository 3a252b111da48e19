package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

// Opting out is a false boolean and clearing tags is an empty string;
// both must survive into the column patch, not vanish as zero values.
func TestCustomerPatchFields_ExplicitZeroesPersist(t *testing.T) {
	p := customerPatch{
		OptInMarketing: boolPtr(false),
		Tags:           strPtr(""),
		Notes:          strPtr(""),
	}

	f := p.fields()

	assert.Equal(t, false, f["opt_in_marketing"])
	assert.Equal(t, "", f["tags"])
	assert.Equal(t, "", f["notes"])
}

func TestCustomerPatchFields_UnsentFieldsOmitted(t *testing.T) {
	p := customerPatch{Email: strPtr("maya@example.com")}

	f := p.fields()

	assert.Equal(t, "maya@example.com", f["email"])
	assert.NotContains(t, f, "first_name")
	assert.NotContains(t, f, "opt_in_marketing")
	assert.NotContains(t, f, "status")
	assert.Len(t, f, 1)
}

func TestCustomerPatchFields_Dates(t *testing.T) {
	p := customerPatch{
		FirstClassDate: strPtr("2026-02-20"),
		IntroEndDate:   strPtr("not-a-date"),
	}

	f := p.fields()

	require.Contains(t, f, "first_class_date")
	assert.Equal(t, time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC), f["first_class_date"])
	assert.NotContains(t, f, "intro_end_date")
}

func TestCustomerPatchFields_Empty(t *testing.T) {
	p := customerPatch{}
	assert.Empty(t, p.fields())
}
