// ABOUTME: In-memory Record Store used by tests, seeds, and the memory driver
// ABOUTME: Ids come from an injected Sequence so callers control allocation
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/harperreed/crmboard/crm"
	"github.com/harperreed/crmboard/models"
)

// Sequence hands out ids. Implementations must never repeat a value.
type Sequence interface {
	Next() (uint64, error)
}

// Counter is a Sequence counting up from its starting value.
type Counter struct {
	mu sync.Mutex
	n  uint64
}

// NewCounter returns a counter whose first id is start+1.
func NewCounter(start uint64) *Counter {
	return &Counter{n: start}
}

func (c *Counter) Next() (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return c.n, nil
}

type table[T any] struct {
	mu     sync.RWMutex
	entity string
	seq    Sequence
	id     func(*T) *int64
	rows   map[int64]T
}

func newTable[T any](entity string, seq Sequence, id func(*T) *int64) *table[T] {
	return &table[T]{entity: entity, seq: seq, id: id, rows: make(map[int64]T)}
}

func (t *table[T]) List(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.rows[id])
	}
	return out, nil
}

func (t *table[T]) Get(ctx context.Context, id int64) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, ok := t.rows[id]
	if !ok {
		return zero, &models.NotFoundError{Entity: t.entity, ID: id}
	}
	return rec, nil
}

func (t *table[T]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	next, err := t.seq.Next()
	if err != nil {
		return zero, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	*t.id(&rec) = int64(next)
	t.rows[int64(next)] = rec
	return rec, nil
}

func (t *table[T]) Update(ctx context.Context, rec T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	id := *t.id(&rec)

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return zero, &models.NotFoundError{Entity: t.entity, ID: id}
	}
	t.rows[id] = rec
	return rec, nil
}

func (t *table[T]) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return &models.NotFoundError{Entity: t.entity, ID: id}
	}
	delete(t.rows, id)
	return nil
}

// Store keeps every collection in process memory.
type Store struct {
	contacts   *table[models.Contact]
	companies  *table[models.Company]
	leads      *table[models.Lead]
	deals      *table[models.Deal]
	tasks      *table[models.Task]
	activities *table[models.Activity]

	convertMu sync.Mutex
}

// New builds a store drawing every id from seq. A nil seq uses a fresh Counter.
func New(seq Sequence) *Store {
	if seq == nil {
		seq = NewCounter(0)
	}
	return &Store{
		contacts:   newTable("contact", seq, func(c *models.Contact) *int64 { return &c.ID }),
		companies:  newTable("company", seq, func(c *models.Company) *int64 { return &c.ID }),
		leads:      newTable("lead", seq, func(l *models.Lead) *int64 { return &l.ID }),
		deals:      newTable("deal", seq, func(d *models.Deal) *int64 { return &d.ID }),
		tasks:      newTable("task", seq, func(t *models.Task) *int64 { return &t.ID }),
		activities: newTable("activity", seq, func(a *models.Activity) *int64 { return &a.ID }),
	}
}

func (s *Store) Contacts() crm.Repository[models.Contact] { return s.contacts }
func (s *Store) Companies() crm.Repository[models.Company] { return s.companies }
func (s *Store) Leads() crm.Repository[models.Lead] { return s.leads }
func (s *Store) Deals() crm.Repository[models.Deal] { return s.deals }
func (s *Store) Tasks() crm.Repository[models.Task] { return s.tasks }
func (s *Store) Activities() crm.Repository[models.Activity] { return s.activities }
func (s *Store) Close() error { return nil }

func (s *Store) ConvertLead(ctx context.Context, leadID int64, now time.Time) (models.Contact, error) {
	s.convertMu.Lock()
	defer s.convertMu.Unlock()

	lead, err := s.leads.Get(ctx, leadID)
	if err != nil {
		return models.Contact{}, err
	}
	contact, err := s.contacts.Create(ctx, crm.ContactFromLead(lead, now))
	if err != nil {
		return models.Contact{}, err
	}
	if err := s.leads.Delete(ctx, leadID); err != nil {
		_ = s.contacts.Delete(context.Background(), contact.ID)
		return models.Contact{}, err
	}
	return contact, nil
}

var _ crm.Store = (*Store)(nil)
