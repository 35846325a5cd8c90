// ABOUTME: List filters for the lead, contact, company, deal, task, and activity views
// ABOUTME: Case-insensitive search plus enum filters where "" or "all" matches everything
package crm

import (
	"strings"

	"github.com/harperreed/crmboard/models"
)

// ContactNames indexes contact display names by id for filters and views.
func ContactNames(contacts []models.Contact) map[int64]string {
	names := make(map[int64]string, len(contacts))
	for _, c := range contacts {
		names[c.ID] = c.Name
	}
	return names
}

func anyValue(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "all")
}

func matches(search string, fields ...string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

// FilterLeads matches search against name, company and email. An unknown
// status or source filter is a validation error.
func FilterLeads(leads []models.Lead, search, status, source string) ([]models.Lead, error) {
	var wantStatus models.LeadStatus
	if !anyValue(status) {
		st, err := models.ParseLeadStatus(status)
		if err != nil {
			return nil, err
		}
		wantStatus = st
	}
	var wantSource models.LeadSource
	if !anyValue(source) {
		src, err := models.ParseLeadSource(source)
		if err != nil {
			return nil, err
		}
		wantSource = src
	}

	out := []models.Lead{}
	for _, l := range leads {
		if !matches(search, l.Name, l.Company, l.Email) {
			continue
		}
		if wantStatus != "" {
			if st, err := models.ParseLeadStatus(string(l.Status)); err != nil || st != wantStatus {
				continue
			}
		}
		if wantSource != "" {
			if src, err := models.ParseLeadSource(string(l.Source)); err != nil || src != wantSource {
				continue
			}
		}
		out = append(out, l)
	}
	return out, nil
}

func FilterContacts(contacts []models.Contact, search, contactType string) ([]models.Contact, error) {
	var want models.ContactType
	if !anyValue(contactType) {
		ct, err := models.ParseContactType(contactType)
		if err != nil {
			return nil, err
		}
		want = ct
	}

	out := []models.Contact{}
	for _, c := range contacts {
		if !matches(search, c.Name, c.Email, c.Company) {
			continue
		}
		if want != "" && c.Type != want {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func FilterCompanies(companies []models.Company, search, companyType string) ([]models.Company, error) {
	var want models.ContactType
	if !anyValue(companyType) {
		ct, err := models.ParseContactType(companyType)
		if err != nil {
			return nil, err
		}
		want = ct
	}

	out := []models.Company{}
	for _, c := range companies {
		if !matches(search, c.Name, c.Email, c.Website) {
			continue
		}
		if want != "" && c.Type != want {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// FilterDeals matches search against the title and the contact's name.
func FilterDeals(deals []models.Deal, names map[int64]string, search string) []models.Deal {
	out := []models.Deal{}
	for _, d := range deals {
		if matches(search, d.Title, names[d.ContactID]) {
			out = append(out, d)
		}
	}
	return out
}

func FilterTasks(tasks []models.Task, names map[int64]string, search, status string) ([]models.Task, error) {
	var want models.TaskStatus
	if !anyValue(status) {
		st, err := models.ParseTaskStatus(status)
		if err != nil {
			return nil, err
		}
		want = st
	}

	out := []models.Task{}
	for _, t := range tasks {
		contact := ""
		if t.ContactID != nil {
			contact = names[*t.ContactID]
		}
		if !matches(search, t.Title, contact) {
			continue
		}
		if want != "" {
			if st, err := models.ParseTaskStatus(string(t.Status)); err != nil || st != want {
				continue
			}
		}
		out = append(out, t)
	}
	return out, nil
}

func FilterActivities(activities []models.Activity, names map[int64]string, search, activityType string) ([]models.Activity, error) {
	var want models.ActivityType
	if !anyValue(activityType) {
		at, err := models.ParseActivityType(activityType)
		if err != nil {
			return nil, err
		}
		want = at
	}

	out := []models.Activity{}
	for _, a := range activities {
		if !matches(search, a.Description, names[a.ContactID]) {
			continue
		}
		if want != "" && a.Type != want {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}
