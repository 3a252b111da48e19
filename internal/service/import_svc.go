package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/treydodson26/talo-studio/internal/domain"
)

type ImportError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportReport struct {
	Imported int           `json:"imported"`
	Failed   int           `json:"failed"`
	Errors   []ImportError `json:"errors"`
}

// customerCreator is the one repo method the importer needs; keeps the
// batch loop testable without a database.
type customerCreator interface {
	Create(ctx context.Context, c *domain.Customer) error
}

type ImportSvc struct {
	customers customerCreator
}

func NewImportSvc(cu customerCreator) *ImportSvc {
	return &ImportSvc{customers: cu}
}

// Customers imports a CSV export. Row failures accumulate into the report
// and never abort the batch; the header row is required and maps columns
// by name.
func (s *ImportSvc) Customers(ctx context.Context, r io.Reader) (*ImportReport, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := col["first_name"]; !ok {
		return nil, fmt.Errorf("missing required column first_name")
	}

	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	report := &ImportReport{}
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, ImportError{Row: row, Reason: err.Error()})
			continue
		}

		c := domain.Customer{
			FirstName: field(rec, "first_name"),
			LastName:  field(rec, "last_name"),
			Email:     field(rec, "email"),
			Phone:     field(rec, "phone"),
			Tags:      field(rec, "tags"),
			Source:    "csv_import",
		}
		if c.FirstName == "" {
			report.Failed++
			report.Errors = append(report.Errors, ImportError{Row: row, Reason: "first_name is required"})
			continue
		}
		if c.Email != "" && !validEmail(c.Email) {
			report.Failed++
			report.Errors = append(report.Errors, ImportError{Row: row, Reason: "malformed email"})
			continue
		}
		if st := field(rec, "status"); st != "" {
			c.Status = domain.CustomerStatus(st)
		}
		if d := field(rec, "first_class_date"); d != "" {
			if t, err := time.Parse("2006-01-02", d); err == nil {
				c.FirstClassDate = &t
			}
		}
		if d := field(rec, "intro_end_date"); d != "" {
			if t, err := time.Parse("2006-01-02", d); err == nil {
				c.IntroEndDate = &t
			}
		}

		if err := s.customers.Create(ctx, &c); err != nil {
			report.Failed++
			report.Errors = append(report.Errors, ImportError{Row: row, Reason: err.Error()})
			continue
		}
		report.Imported++
	}
	return report, nil
}

func validEmail(e string) bool {
	at := strings.Index(e, "@")
	if at <= 0 || at == len(e)-1 {
		return false
	}
	dom := e[at+1:]
	return strings.Contains(dom, ".") && !strings.ContainsAny(e, " \t")
}
