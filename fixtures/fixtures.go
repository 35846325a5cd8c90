// ABOUTME: YAML seed files for populating a record store
// ABOUTME: Strict decoding, relative dates, and name-based contact references
package fixtures

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/crmboard/crm"
	"github.com/harperreed/crmboard/models"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// File is the top-level seed document.
type File struct {
	Companies  []Company  `yaml:"companies"`
	Contacts   []Contact  `yaml:"contacts"`
	Leads      []Lead     `yaml:"leads"`
	Deals      []Deal     `yaml:"deals"`
	Tasks      []Task     `yaml:"tasks"`
	Activities []Activity `yaml:"activities"`
}

type Company struct {
	Name    string `yaml:"name"`
	Email   string `yaml:"email"`
	Phone   string `yaml:"phone"`
	Website string `yaml:"website"`
	Address string `yaml:"address"`
	Type    string `yaml:"type"`
	Created string `yaml:"created"`
}

type Contact struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Phone    string `yaml:"phone"`
	Company  string `yaml:"company"`
	JobTitle string `yaml:"job_title"`
	Address  string `yaml:"address"`
	Notes    string `yaml:"notes"`
	Type     string `yaml:"type"`
	Created  string `yaml:"created"`
}

type Lead struct {
	Name       string `yaml:"name"`
	Company    string `yaml:"company"`
	Email      string `yaml:"email"`
	Phone      string `yaml:"phone"`
	Source     string `yaml:"source"`
	Status     string `yaml:"status"`
	Priority   string `yaml:"priority"`
	AssignedTo string `yaml:"assigned_to"`
	Notes      string `yaml:"notes"`
	Created    string `yaml:"created"`
}

// Deal values are strings so money is parsed exactly.
type Deal struct {
	Title         string `yaml:"title"`
	Value         string `yaml:"value"`
	Stage         string `yaml:"stage"`
	Contact       string `yaml:"contact"`
	ExpectedClose string `yaml:"expected_close"`
	Probability   int    `yaml:"probability"`
	SalesRep      string `yaml:"sales_rep"`
	Description   string `yaml:"description"`
	Created       string `yaml:"created"`
}

type Task struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Due         string `yaml:"due"`
	Status      string `yaml:"status"`
	Contact     string `yaml:"contact"`
	Created     string `yaml:"created"`
}

type Activity struct {
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
	Contact     string `yaml:"contact"`
	Deal        string `yaml:"deal"`
	At          string `yaml:"at"`
}

// Summary counts the records a seed created.
type Summary struct {
	Companies  int
	Contacts   int
	Leads      int
	Deals      int
	Tasks      int
	Activities int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d companies, %d contacts, %d leads, %d deals, %d tasks, %d activities",
		s.Companies, s.Contacts, s.Leads, s.Deals, s.Tasks, s.Activities)
}

// Decode parses a seed document. Unknown keys are an error.
func Decode(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return &f, nil
		}
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return &f, nil
}

func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(data))
}

// ParseTime accepts RFC 3339, a bare date, "now", or an offset from now such
// as "-3d", "+2w" or "-90m". An empty string is the zero time.
func ParseTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return time.Time{}, nil
	case s == "now":
		return now, nil
	case strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-"):
		return parseOffset(s, now)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, now.Location()); err == nil {
		return t, nil
	}
	return time.Time{}, &models.ValidationError{Field: "date", Value: s, Reason: "expected RFC 3339, YYYY-MM-DD, now, or an offset like -3d"}
}

func parseOffset(s string, now time.Time) (time.Time, error) {
	unit := s[len(s)-1]
	switch unit {
	case 'd', 'w':
		n, err := strconv.Atoi(s[:len(s)-1])
		if err != nil {
			return time.Time{}, &models.ValidationError{Field: "date", Value: s, Reason: "bad day offset"}
		}
		if unit == 'w' {
			n *= 7
		}
		return now.AddDate(0, 0, n), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Time{}, &models.ValidationError{Field: "date", Value: s, Reason: "bad offset"}
	}
	return now.Add(d), nil
}

// Apply creates every record through svc, so seeded data is validated and
// logged in the activity feed like any other write. Contacts are referenced
// by name or email, deals by title.
func (f *File) Apply(ctx context.Context, svc *crm.Service, now time.Time) (Summary, error) {
	var sum Summary
	contacts := map[string]int64{}
	deals := map[string]int64{}

	for i, c := range f.Companies {
		created, err := ParseTime(c.Created, now)
		if err != nil {
			return sum, fmt.Errorf("companies[%d]: %w", i, err)
		}
		if _, err := svc.CreateCompany(ctx, models.Company{
			Name: c.Name, Email: c.Email, Phone: c.Phone, Website: c.Website,
			Address: c.Address, Type: models.ContactType(c.Type), CreatedAt: created,
		}); err != nil {
			return sum, fmt.Errorf("companies[%d]: %w", i, err)
		}
		sum.Companies++
	}

	for i, c := range f.Contacts {
		created, err := ParseTime(c.Created, now)
		if err != nil {
			return sum, fmt.Errorf("contacts[%d]: %w", i, err)
		}
		rec, err := svc.CreateContact(ctx, models.Contact{
			Name: c.Name, Email: c.Email, Phone: c.Phone, Company: c.Company, JobTitle: c.JobTitle,
			Address: c.Address, Notes: c.Notes, Type: models.ContactType(c.Type), CreatedAt: created,
		})
		if err != nil {
			return sum, fmt.Errorf("contacts[%d]: %w", i, err)
		}
		contacts[strings.ToLower(rec.Name)] = rec.ID
		contacts[strings.ToLower(rec.Email)] = rec.ID
		sum.Contacts++
	}

	for i, l := range f.Leads {
		created, err := ParseTime(l.Created, now)
		if err != nil {
			return sum, fmt.Errorf("leads[%d]: %w", i, err)
		}
		if _, err := svc.CreateLead(ctx, models.Lead{
			Name: l.Name, Company: l.Company, Email: l.Email, Phone: l.Phone,
			Source: models.LeadSource(l.Source), Status: models.LeadStatus(l.Status),
			Priority: models.Priority(l.Priority), AssignedTo: l.AssignedTo, Notes: l.Notes, CreatedAt: created,
		}); err != nil {
			return sum, fmt.Errorf("leads[%d]: %w", i, err)
		}
		sum.Leads++
	}

	for i, d := range f.Deals {
		rec, err := d.model(contacts, now)
		if err != nil {
			return sum, fmt.Errorf("deals[%d]: %w", i, err)
		}
		created, err := svc.CreateDeal(ctx, rec)
		if err != nil {
			return sum, fmt.Errorf("deals[%d]: %w", i, err)
		}
		deals[strings.ToLower(created.Title)] = created.ID
		sum.Deals++
	}

	for i, t := range f.Tasks {
		due, err := ParseTime(t.Due, now)
		if err != nil {
			return sum, fmt.Errorf("tasks[%d]: %w", i, err)
		}
		created, err := ParseTime(t.Created, now)
		if err != nil {
			return sum, fmt.Errorf("tasks[%d]: %w", i, err)
		}
		rec := models.Task{Title: t.Title, Description: t.Description, DueDate: due, Status: models.TaskStatus(t.Status), CreatedAt: created}
		if t.Contact != "" {
			id, err := lookup(contacts, "contact", t.Contact)
			if err != nil {
				return sum, fmt.Errorf("tasks[%d]: %w", i, err)
			}
			rec.ContactID = &id
		}
		if _, err := svc.CreateTask(ctx, rec); err != nil {
			return sum, fmt.Errorf("tasks[%d]: %w", i, err)
		}
		sum.Tasks++
	}

	for i, a := range f.Activities {
		at, err := ParseTime(a.At, now)
		if err != nil {
			return sum, fmt.Errorf("activities[%d]: %w", i, err)
		}
		rec := models.Activity{Type: models.ActivityType(a.Type), Description: a.Description, Timestamp: at}
		if a.Contact != "" {
			if rec.ContactID, err = lookup(contacts, "contact", a.Contact); err != nil {
				return sum, fmt.Errorf("activities[%d]: %w", i, err)
			}
		}
		if a.Deal != "" {
			id, err := lookup(deals, "deal", a.Deal)
			if err != nil {
				return sum, fmt.Errorf("activities[%d]: %w", i, err)
			}
			rec.DealID = &id
		}
		if _, err := svc.LogActivity(ctx, rec); err != nil {
			return sum, fmt.Errorf("activities[%d]: %w", i, err)
		}
		sum.Activities++
	}

	return sum, nil
}

func (d Deal) model(contacts map[string]int64, now time.Time) (models.Deal, error) {
	value := decimal.Zero
	if strings.TrimSpace(d.Value) != "" {
		v, err := decimal.NewFromString(strings.TrimSpace(d.Value))
		if err != nil {
			return models.Deal{}, &models.ValidationError{Field: "value", Value: d.Value, Reason: "is not a number"}
		}
		value = v
	}
	contactID, err := lookup(contacts, "contact", d.Contact)
	if err != nil {
		return models.Deal{}, err
	}
	created, err := ParseTime(d.Created, now)
	if err != nil {
		return models.Deal{}, err
	}
	rec := models.Deal{
		Title: d.Title, Value: value, Stage: models.Stage(d.Stage), ContactID: contactID,
		Probability: d.Probability, SalesRep: d.SalesRep, Description: d.Description,
		CreatedAt: created, UpdatedAt: created,
	}
	if d.ExpectedClose != "" {
		closeAt, err := ParseTime(d.ExpectedClose, now)
		if err != nil {
			return models.Deal{}, err
		}
		rec.ExpectedCloseDate = &closeAt
	}
	return rec, nil
}

func lookup(index map[string]int64, entity, ref string) (int64, error) {
	id, ok := index[strings.ToLower(strings.TrimSpace(ref))]
	if !ok {
		return 0, &models.ValidationError{Field: entity, Value: ref, Reason: "does not match any seeded " + entity}
	}
	return id, nil
}
