// ABOUTME: Create, update, delete, and list helpers for every CRM collection
// ABOUTME: Normalizes legacy spellings, validates, and appends feed entries
package crm

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/crmboard/analytics"
	"github.com/harperreed/crmboard/models"
	"go.uber.org/zap"
)

func (s *Service) CreateContact(ctx context.Context, c models.Contact) (models.Contact, error) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	if c.Type == "" {
		c.Type = models.ContactCustomer
	} else if ct, err := models.ParseContactType(string(c.Type)); err == nil {
		c.Type = ct
	}
	if err := c.Validate(); err != nil {
		return models.Contact{}, err
	}

	created, err := s.store.Contacts().Create(ctx, c)
	if err != nil {
		return models.Contact{}, fmt.Errorf("create contact: %w", err)
	}
	s.logActivity(ctx, models.Activity{
		Type:        models.ActivityContactCreated,
		Description: fmt.Sprintf("New contact %s added", created.Name),
		ContactID:   created.ID,
	})
	s.logger.Debug("contact created", zap.Int64("contact_id", created.ID))
	return created, nil
}

func (s *Service) UpdateContact(ctx context.Context, c models.Contact) (models.Contact, error) {
	existing, err := s.store.Contacts().Get(ctx, c.ID)
	if err != nil {
		return models.Contact{}, err
	}
	c.CreatedAt = existing.CreatedAt
	if ct, err := models.ParseContactType(string(c.Type)); err == nil {
		c.Type = ct
	}
	if err := c.Validate(); err != nil {
		return models.Contact{}, err
	}

	updated, err := s.store.Contacts().Update(ctx, c)
	if err != nil {
		return models.Contact{}, fmt.Errorf("update contact: %w", err)
	}
	s.logActivity(ctx, models.Activity{
		Type:        models.ActivityContactUpdated,
		Description: fmt.Sprintf("Contact %s updated", updated.Name),
		ContactID:   updated.ID,
	})
	return updated, nil
}

func (s *Service) DeleteContact(ctx context.Context, id int64) error {
	return s.store.Contacts().Delete(ctx, id)
}

func (s *Service) CreateCompany(ctx context.Context, c models.Company) (models.Company, error) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	if c.Type == "" {
		c.Type = models.ContactCustomer
	} else if ct, err := models.ParseContactType(string(c.Type)); err == nil {
		c.Type = ct
	}
	if err := c.Validate(); err != nil {
		return models.Company{}, err
	}
	created, err := s.store.Companies().Create(ctx, c)
	if err != nil {
		return models.Company{}, fmt.Errorf("create company: %w", err)
	}
	return created, nil
}

func (s *Service) UpdateCompany(ctx context.Context, c models.Company) (models.Company, error) {
	existing, err := s.store.Companies().Get(ctx, c.ID)
	if err != nil {
		return models.Company{}, err
	}
	c.CreatedAt = existing.CreatedAt
	if err := c.Validate(); err != nil {
		return models.Company{}, err
	}
	return s.store.Companies().Update(ctx, c)
}

func (s *Service) DeleteCompany(ctx context.Context, id int64) error {
	return s.store.Companies().Delete(ctx, id)
}

// normalizeLead fills form defaults and canonicalizes enum spellings.
func normalizeLead(l *models.Lead) {
	if l.Source == "" {
		l.Source = models.SourceWebsite
	} else if src, err := models.ParseLeadSource(string(l.Source)); err == nil {
		l.Source = src
	}
	if l.Status == "" {
		l.Status = models.LeadNew
	} else if st, err := models.ParseLeadStatus(string(l.Status)); err == nil {
		l.Status = st
	}
	if l.Priority == "" {
		l.Priority = models.PriorityMedium
	} else if p, err := models.ParsePriority(string(l.Priority)); err == nil {
		l.Priority = p
	}
}

func (s *Service) CreateLead(ctx context.Context, l models.Lead) (models.Lead, error) {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = s.now()
	}
	normalizeLead(&l)
	if err := l.Validate(); err != nil {
		return models.Lead{}, err
	}
	created, err := s.store.Leads().Create(ctx, l)
	if err != nil {
		return models.Lead{}, fmt.Errorf("create lead: %w", err)
	}
	return created, nil
}

func (s *Service) UpdateLead(ctx context.Context, l models.Lead) (models.Lead, error) {
	existing, err := s.store.Leads().Get(ctx, l.ID)
	if err != nil {
		return models.Lead{}, err
	}
	l.CreatedAt = existing.CreatedAt
	normalizeLead(&l)
	if err := l.Validate(); err != nil {
		return models.Lead{}, err
	}
	return s.store.Leads().Update(ctx, l)
}

func (s *Service) DeleteLead(ctx context.Context, id int64) error {
	return s.store.Leads().Delete(ctx, id)
}

// CreateDeal stores a new deal. The contact must exist; a blank stage
// starts the deal in Prospecting.
func (s *Service) CreateDeal(ctx context.Context, d models.Deal) (models.Deal, error) {
	now := s.now()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = d.CreatedAt
	}
	if d.Stage == "" {
		d.Stage = models.StageProspecting
	} else if st, err := models.ParseStage(string(d.Stage)); err == nil {
		d.Stage = st
	}
	if err := d.Validate(); err != nil {
		return models.Deal{}, err
	}
	if _, err := s.store.Contacts().Get(ctx, d.ContactID); err != nil {
		return models.Deal{}, err
	}

	created, err := s.store.Deals().Create(ctx, d)
	if err != nil {
		return models.Deal{}, fmt.Errorf("create deal: %w", err)
	}
	dealRef := created.ID
	s.logActivity(ctx, models.Activity{
		Type:        models.ActivityDealCreated,
		Description: fmt.Sprintf("Deal %q created worth %s", created.Title, created.Value.StringFixed(2)),
		ContactID:   created.ContactID,
		DealID:      &dealRef,
	})
	s.logger.Debug("deal created", zap.Int64("deal_id", created.ID), zap.String("stage", string(created.Stage)))
	return created, nil
}

// UpdateDeal saves edited deal fields. Stage changes belong to MoveDeal; an
// edit that changes the stage is rejected.
func (s *Service) UpdateDeal(ctx context.Context, d models.Deal) (models.Deal, error) {
	existing, err := s.store.Deals().Get(ctx, d.ID)
	if err != nil {
		return models.Deal{}, err
	}
	if d.Stage == "" {
		d.Stage = existing.Stage
	}
	from, err := models.ParseStage(string(existing.Stage))
	if err != nil {
		return models.Deal{}, withDeal(err, d.ID)
	}
	to, err := models.ParseStage(string(d.Stage))
	if err != nil {
		return models.Deal{}, withDeal(err, d.ID)
	}
	if from != to {
		return models.Deal{}, &models.StateError{State: string(from), Event: "change stage through a deal edit"}
	}

	d.Stage = to
	d.CreatedAt = existing.CreatedAt
	d.UpdatedAt = bumped(existing.UpdatedAt, s.now())
	if err := d.Validate(); err != nil {
		return models.Deal{}, err
	}

	updated, err := s.store.Deals().Update(ctx, d)
	if err != nil {
		return models.Deal{}, fmt.Errorf("update deal: %w", err)
	}
	dealRef := updated.ID
	s.logActivity(ctx, models.Activity{
		Type:        models.ActivityDealUpdated,
		Description: fmt.Sprintf("Deal %q updated", updated.Title),
		ContactID:   updated.ContactID,
		DealID:      &dealRef,
		Timestamp:   updated.UpdatedAt,
	})
	return updated, nil
}

func (s *Service) DeleteDeal(ctx context.Context, id int64) error {
	return s.store.Deals().Delete(ctx, id)
}

// bumped returns now, or one millisecond past prev when now does not move
// past it.
func bumped(prev, now time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Millisecond)
}

func (s *Service) CreateTask(ctx context.Context, t models.Task) (models.Task, error) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now()
	}
	if t.Status == "" {
		t.Status = models.TaskToDo
	} else if st, err := models.ParseTaskStatus(string(t.Status)); err == nil {
		t.Status = st
	}
	if err := t.Validate(); err != nil {
		return models.Task{}, err
	}

	created, err := s.store.Tasks().Create(ctx, t)
	if err != nil {
		return models.Task{}, fmt.Errorf("create task: %w", err)
	}
	a := models.Activity{
		Type:        models.ActivityTaskCreated,
		Description: fmt.Sprintf("Task %q created", created.Title),
	}
	if created.ContactID != nil {
		a.ContactID = *created.ContactID
	}
	s.logActivity(ctx, a)
	return created, nil
}

// ToggleTask flips a task between completed and to-do. Completing a task
// adds a task_completed feed entry.
func (s *Service) ToggleTask(ctx context.Context, id int64) (models.Task, error) {
	t, err := s.store.Tasks().Get(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	status, err := models.ParseTaskStatus(string(t.Status))
	if err != nil {
		return models.Task{}, &models.ValidationError{Entity: "task", ID: id, Field: "status", Value: string(t.Status), Reason: "unknown task status"}
	}

	if status == models.TaskCompleted {
		t.Status = models.TaskToDo
	} else {
		t.Status = models.TaskCompleted
	}
	updated, err := s.store.Tasks().Update(ctx, t)
	if err != nil {
		return models.Task{}, fmt.Errorf("toggle task: %w", err)
	}

	if updated.Status == models.TaskCompleted {
		a := models.Activity{
			Type:        models.ActivityTaskCompleted,
			Description: fmt.Sprintf("Task %q completed", updated.Title),
		}
		if updated.ContactID != nil {
			a.ContactID = *updated.ContactID
		}
		s.logActivity(ctx, a)
	}
	return updated, nil
}

// CompleteTask marks a task completed. A task that is already completed is
// returned unchanged.
func (s *Service) CompleteTask(ctx context.Context, id int64) (models.Task, error) {
	t, err := s.store.Tasks().Get(ctx, id)
	if err != nil {
		return models.Task{}, err
	}
	if status, err := models.ParseTaskStatus(string(t.Status)); err == nil && status == models.TaskCompleted {
		return t, nil
	}
	return s.ToggleTask(ctx, id)
}

func (s *Service) DeleteTask(ctx context.Context, id int64) error {
	return s.store.Tasks().Delete(ctx, id)
}

func (s *Service) Leads(ctx context.Context, search, status, source string) ([]models.Lead, error) {
	leads, err := s.store.Leads().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return FilterLeads(leads, search, status, source)
}

func (s *Service) Contacts(ctx context.Context, search, contactType string) ([]models.Contact, error) {
	contacts, err := s.store.Contacts().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return FilterContacts(contacts, search, contactType)
}

// FindContact resolves ref as a contact id, an exact name or email, or
// failing those the first search hit.
func (s *Service) FindContact(ctx context.Context, ref string) (models.Contact, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return s.store.Contacts().Get(ctx, id)
	}
	contacts, err := s.Contacts(ctx, ref, "")
	if err != nil {
		return models.Contact{}, err
	}
	for _, c := range contacts {
		if strings.EqualFold(c.Name, ref) || strings.EqualFold(c.Email, ref) {
			return c, nil
		}
	}
	if len(contacts) > 0 {
		return contacts[0], nil
	}
	return models.Contact{}, &models.ValidationError{Field: "contact", Value: ref, Reason: "no contact matches"}
}

func (s *Service) Companies(ctx context.Context, search, companyType string) ([]models.Company, error) {
	companies, err := s.store.Companies().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return FilterCompanies(companies, search, companyType)
}

func (s *Service) Deals(ctx context.Context, search string) ([]models.Deal, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return FilterDeals(snap.Deals, ContactNames(snap.Contacts), search), nil
}

func (s *Service) Tasks(ctx context.Context, search, status string) ([]models.Task, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return FilterTasks(snap.Tasks, ContactNames(snap.Contacts), search, status)
}

// Activities returns the filtered feed, newest first.
func (s *Service) Activities(ctx context.Context, search, activityType string) ([]models.Activity, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	filtered, err := FilterActivities(snap.Activities, ContactNames(snap.Contacts), search, activityType)
	if err != nil {
		return nil, err
	}
	return analytics.RecentActivities(filtered, 0)
}
