// ABOUTME: Field validation for CRM records
// ABOUTME: Mirrors the form rules and fails fast on malformed numbers and dates
package models

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	phonePattern = regexp.MustCompile(`^[+()\-.\s\d]{7,}$`)
)

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Reason: "is required"}
	}
	return nil
}

func validEmail(field, value string) error {
	if !emailPattern.MatchString(value) {
		return &ValidationError{Field: field, Value: value, Reason: "is not a valid email address"}
	}
	return nil
}

func (d *Deal) Validate() error {
	return withEntity(d.validate(), "deal", d.ID)
}

func (d *Deal) validate() error {
	if err := required("title", d.Title); err != nil {
		return err
	}
	if d.Value.IsNegative() {
		return &ValidationError{Field: "value", Value: d.Value.String(), Reason: "must not be negative"}
	}
	if d.ContactID <= 0 {
		return &ValidationError{Field: "contact_id", Reason: "is required"}
	}
	if d.Probability < 0 || d.Probability > 100 {
		return &ValidationError{Field: "probability", Reason: "must be between 0 and 100"}
	}
	if !d.Stage.Valid() {
		return &ValidationError{Field: "stage", Value: string(d.Stage), Reason: "unknown stage"}
	}
	if d.SalesRep != "" && !isSalesRep(d.SalesRep) {
		return &ValidationError{Field: "sales_rep", Value: d.SalesRep, Reason: "is not on the roster"}
	}
	if !d.CreatedAt.IsZero() && d.UpdatedAt.Before(d.CreatedAt) {
		return &ValidationError{Field: "updated_at", Reason: "precedes created_at"}
	}
	return nil
}

func (l *Lead) Validate() error {
	return withEntity(l.validate(), "lead", l.ID)
}

func (l *Lead) validate() error {
	for _, f := range []struct{ name, value string }{
		{"name", l.Name},
		{"company", l.Company},
		{"email", l.Email},
		{"phone", l.Phone},
	} {
		if err := required(f.name, f.value); err != nil {
			return err
		}
	}
	if err := validEmail("email", l.Email); err != nil {
		return err
	}
	if _, err := ParseLeadSource(string(l.Source)); err != nil {
		return err
	}
	if _, err := ParseLeadStatus(string(l.Status)); err != nil {
		return err
	}
	if _, err := ParsePriority(string(l.Priority)); err != nil {
		return err
	}
	return nil
}

func (c *Contact) Validate() error {
	return withEntity(c.validate(), "contact", c.ID)
}

func (c *Contact) validate() error {
	if err := required("name", c.Name); err != nil {
		return err
	}
	if err := required("email", c.Email); err != nil {
		return err
	}
	if err := validEmail("email", c.Email); err != nil {
		return err
	}
	if err := required("company", c.Company); err != nil {
		return err
	}
	if c.Phone != "" && !phonePattern.MatchString(c.Phone) {
		return &ValidationError{Field: "phone", Value: c.Phone, Reason: "is not a valid phone number"}
	}
	if _, err := ParseContactType(string(c.Type)); err != nil {
		return err
	}
	return nil
}

func (c *Company) Validate() error {
	return withEntity(c.validate(), "company", c.ID)
}

func (c *Company) validate() error {
	if err := required("name", c.Name); err != nil {
		return err
	}
	if c.Email != "" {
		if err := validEmail("email", c.Email); err != nil {
			return err
		}
	}
	if c.Website != "" {
		u, err := url.Parse(c.Website)
		if err != nil || u.Host == "" {
			return &ValidationError{Field: "website", Value: c.Website, Reason: "is not a valid URL"}
		}
	}
	if c.Phone != "" && !phonePattern.MatchString(c.Phone) {
		return &ValidationError{Field: "phone", Value: c.Phone, Reason: "is not a valid phone number"}
	}
	if _, err := ParseContactType(string(c.Type)); err != nil {
		return err
	}
	return nil
}

func (t *Task) Validate() error {
	return withEntity(t.validate(), "task", t.ID)
}

func (t *Task) validate() error {
	if err := required("title", t.Title); err != nil {
		return err
	}
	if t.DueDate.IsZero() {
		return &ValidationError{Field: "due_date", Reason: "is required"}
	}
	if !t.Status.Valid() {
		return &ValidationError{Field: "status", Value: string(t.Status), Reason: "unknown task status"}
	}
	return nil
}

func (a *Activity) Validate() error {
	return withEntity(a.validate(), "activity", a.ID)
}

func (a *Activity) validate() error {
	if _, err := ParseActivityType(string(a.Type)); err != nil {
		return err
	}
	if a.Timestamp.IsZero() {
		return &ValidationError{Field: "timestamp", Reason: "is required"}
	}
	return nil
}
