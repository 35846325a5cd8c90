// ABOUTME: SQLite implementation of the crm.Store contract
// ABOUTME: Adapts the per-entity functions into repositories and converts leads in one transaction
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/harperreed/crmboard/crm"
	"github.com/harperreed/crmboard/models"
)

type repo[T any] struct {
	db     *sql.DB
	list   func(context.Context, queryer) ([]T, error)
	get    func(context.Context, queryer, int64) (*T, error)
	create func(context.Context, queryer, *T) error
	update func(context.Context, queryer, *T) error
	remove func(context.Context, queryer, int64) error
}

func (r *repo[T]) List(ctx context.Context) ([]T, error) {
	return r.list(ctx, r.db)
}

func (r *repo[T]) Get(ctx context.Context, id int64) (T, error) {
	rec, err := r.get(ctx, r.db, id)
	if err != nil {
		var zero T
		return zero, err
	}
	return *rec, nil
}

func (r *repo[T]) Create(ctx context.Context, rec T) (T, error) {
	if err := r.create(ctx, r.db, &rec); err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

func (r *repo[T]) Update(ctx context.Context, rec T) (T, error) {
	if err := r.update(ctx, r.db, &rec); err != nil {
		var zero T
		return zero, err
	}
	return rec, nil
}

func (r *repo[T]) Delete(ctx context.Context, id int64) error {
	return r.remove(ctx, r.db, id)
}

// Store is the SQLite record store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, err
	}
	return NewStore(db), nil
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Contacts() crm.Repository[models.Contact] {
	return &repo[models.Contact]{s.db, ListContacts, GetContact, CreateContact, UpdateContact, DeleteContact}
}

func (s *Store) Companies() crm.Repository[models.Company] {
	return &repo[models.Company]{s.db, ListCompanies, GetCompany, CreateCompany, UpdateCompany, DeleteCompany}
}

func (s *Store) Leads() crm.Repository[models.Lead] {
	return &repo[models.Lead]{s.db, ListLeads, GetLead, CreateLead, UpdateLead, DeleteLead}
}

func (s *Store) Deals() crm.Repository[models.Deal] {
	return &repo[models.Deal]{s.db, ListDeals, GetDeal, CreateDeal, UpdateDeal, DeleteDeal}
}

func (s *Store) Tasks() crm.Repository[models.Task] {
	return &repo[models.Task]{s.db, ListTasks, GetTask, CreateTask, UpdateTask, DeleteTask}
}

func (s *Store) Activities() crm.Repository[models.Activity] {
	return &repo[models.Activity]{s.db, ListActivities, GetActivity, CreateActivity, UpdateActivity, DeleteActivity}
}

// ConvertLead inserts the contact and deletes the lead in one transaction.
func (s *Store) ConvertLead(ctx context.Context, leadID int64, now time.Time) (models.Contact, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Contact{}, fmt.Errorf("begin conversion: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	lead, err := GetLead(ctx, tx, leadID)
	if err != nil {
		return models.Contact{}, err
	}
	contact := crm.ContactFromLead(*lead, now)
	if err := CreateContact(ctx, tx, &contact); err != nil {
		return models.Contact{}, err
	}
	if err := DeleteLead(ctx, tx, leadID); err != nil {
		return models.Contact{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Contact{}, fmt.Errorf("commit conversion: %w", err)
	}
	return contact, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

var _ crm.Store = (*Store)(nil)
