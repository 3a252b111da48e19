package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treydodson26/talo-studio/internal/domain"
)

type fakeCreator struct {
	created []domain.Customer
	failOn  string // email that triggers a create error
}

func (f *fakeCreator) Create(_ context.Context, c *domain.Customer) error {
	if f.failOn != "" && c.Email == f.failOn {
		return errors.New("duplicate key value violates unique constraint")
	}
	f.created = append(f.created, *c)
	return nil
}

func TestImportCustomers(t *testing.T) {
	csv := strings.Join([]string{
		"first_name,last_name,email,phone,status,first_class_date",
		"Maya,Chen,maya@example.com,+15550100,intro_trial,2026-02-20",
		",Nolast,missing@example.com,,,",
		"Jo,Park,not-an-email,,,",
		"Sam,Lee,sam@example.com,,,",
	}, "\n")

	creator := &fakeCreator{}
	report, err := NewImportSvc(creator).Customers(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 2, report.Failed)
	require.Len(t, report.Errors, 2)
	assert.Equal(t, 3, report.Errors[0].Row)
	assert.Contains(t, report.Errors[0].Reason, "first_name")
	assert.Equal(t, 4, report.Errors[1].Row)
	assert.Contains(t, report.Errors[1].Reason, "email")

	require.Len(t, creator.created, 2)
	maya := creator.created[0]
	assert.Equal(t, "Maya", maya.FirstName)
	assert.Equal(t, domain.CustomerStatus("intro_trial"), maya.Status)
	assert.Equal(t, "csv_import", maya.Source)
	require.NotNil(t, maya.FirstClassDate)
	assert.Equal(t, "2026-02-20", maya.FirstClassDate.Format("2006-01-02"))
}

// A row the database rejects lands in the report; the rest of the batch
// still imports.
func TestImportCustomers_CreateFailureDoesNotAbort(t *testing.T) {
	csv := strings.Join([]string{
		"first_name,email",
		"Maya,maya@example.com",
		"Dup,dup@example.com",
		"Sam,sam@example.com",
	}, "\n")

	creator := &fakeCreator{failOn: "dup@example.com"}
	report, err := NewImportSvc(creator).Customers(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, 3, report.Errors[0].Row)
}

func TestImportCustomers_MissingHeader(t *testing.T) {
	_, err := NewImportSvc(&fakeCreator{}).Customers(context.Background(), strings.NewReader("email\nmaya@example.com\n"))
	assert.Error(t, err)
}

func TestValidEmail(t *testing.T) {
	assert.True(t, validEmail("maya@example.com"))
	assert.False(t, validEmail("@example.com"))
	assert.False(t, validEmail("maya@"))
	assert.False(t, validEmail("maya@nodot"))
	assert.False(t, validEmail("ma ya@example.com"))
}
