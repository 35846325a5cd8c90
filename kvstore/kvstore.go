// ABOUTME: BadgerDB implementation of the crm.Store contract
// ABOUTME: JSON records under entity-prefixed keys with ids from a badger Sequence
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/harperreed/crmboard/crm"
	"github.com/harperreed/crmboard/logging"
	"github.com/harperreed/crmboard/models"
	"go.uber.org/zap"
)

const (
	sequenceKey       = "seq/ids"
	sequenceBandwidth = 100
)

// badgerLogger routes badger's internal logging through zap.
type badgerLogger struct {
	*zap.SugaredLogger
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}

// Options configures Open. An empty Path keeps everything in memory.
type Options struct {
	Path   string
	Logger *zap.Logger
}

// Store keeps each collection as JSON values in one badger database.
type Store struct {
	db  *badger.DB
	seq *badger.Sequence

	contacts   *table[models.Contact]
	companies  *table[models.Company]
	leads      *table[models.Lead]
	deals      *table[models.Deal]
	tasks      *table[models.Task]
	activities *table[models.Activity]
}

func Open(opts Options) (*Store, error) {
	bopts := badger.DefaultOptions(opts.Path)
	if opts.Path == "" {
		bopts = bopts.WithInMemory(true)
	}
	bopts = bopts.WithLogger(badgerLogger{logging.OrNop(opts.Logger).Named("badger").Sugar()})

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	seq, err := db.GetSequence([]byte(sequenceKey), sequenceBandwidth)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open id sequence: %w", err)
	}

	s := &Store{db: db, seq: seq}
	s.contacts = newTable(s, "contact", func(c *models.Contact) *int64 { return &c.ID })
	s.companies = newTable(s, "company", func(c *models.Company) *int64 { return &c.ID })
	s.leads = newTable(s, "lead", func(l *models.Lead) *int64 { return &l.ID })
	s.deals = newTable(s, "deal", func(d *models.Deal) *int64 { return &d.ID })
	s.tasks = newTable(s, "task", func(t *models.Task) *int64 { return &t.ID })
	s.activities = newTable(s, "activity", func(a *models.Activity) *int64 { return &a.ID })
	return s, nil
}

// nextID draws from the badger sequence, which starts at zero.
func (s *Store) nextID() (int64, error) {
	n, err := s.seq.Next()
	if err != nil {
		return 0, fmt.Errorf("next id: %w", err)
	}
	return int64(n) + 1, nil
}

func (s *Store) Contacts() crm.Repository[models.Contact] { return s.contacts }

func (s *Store) Companies() crm.Repository[models.Company] { return s.companies }

func (s *Store) Leads() crm.Repository[models.Lead] { return s.leads }

func (s *Store) Deals() crm.Repository[models.Deal] { return s.deals }

func (s *Store) Tasks() crm.Repository[models.Task] { return s.tasks }

func (s *Store) Activities() crm.Repository[models.Activity] { return s.activities }

// ConvertLead writes the new contact and removes the lead in one badger
// transaction.
func (s *Store) ConvertLead(ctx context.Context, leadID int64, now time.Time) (models.Contact, error) {
	if err := ctx.Err(); err != nil {
		return models.Contact{}, err
	}
	id, err := s.nextID()
	if err != nil {
		return models.Contact{}, err
	}

	var contact models.Contact
	err = s.db.Update(func(txn *badger.Txn) error {
		var lead models.Lead
		if err := s.leads.read(txn, leadID, &lead); err != nil {
			return err
		}
		contact = crm.ContactFromLead(lead, now)
		contact.ID = id
		if err := s.contacts.write(txn, id, contact); err != nil {
			return err
		}
		return txn.Delete(s.leads.key(leadID))
	})
	if err != nil {
		return models.Contact{}, err
	}
	return contact, nil
}

func (s *Store) Close() error {
	return errors.Join(s.seq.Release(), s.db.Close())
}

type table[T any] struct {
	store  *Store
	entity string
	id     func(*T) *int64
}

func newTable[T any](s *Store, entity string, id func(*T) *int64) *table[T] {
	return &table[T]{store: s, entity: entity, id: id}
}

func (t *table[T]) prefix() []byte {
	return []byte(t.entity + "/")
}

// key zero-pads ids so key order is id order.
func (t *table[T]) key(id int64) []byte {
	return []byte(fmt.Sprintf("%s/%020d", t.entity, id))
}

func (t *table[T]) read(txn *badger.Txn, id int64, into *T) error {
	item, err := txn.Get(t.key(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return &models.NotFoundError{Entity: t.entity, ID: id}
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, into)
	})
}

func (t *table[T]) write(txn *badger.Txn, id int64, rec T) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s %d: %w", t.entity, id, err)
	}
	return txn.Set(t.key(id), data)
}

func (t *table[T]) List(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := []T{}
	err := t.store.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := t.prefix()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec T
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (t *table[T]) Get(ctx context.Context, id int64) (T, error) {
	var rec T
	if err := ctx.Err(); err != nil {
		return rec, err
	}
	err := t.store.db.View(func(txn *badger.Txn) error {
		return t.read(txn, id, &rec)
	})
	return rec, err
}

func (t *table[T]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	id, err := t.store.nextID()
	if err != nil {
		return zero, err
	}
	*t.id(&rec) = id
	if err := t.store.db.Update(func(txn *badger.Txn) error {
		return t.write(txn, id, rec)
	}); err != nil {
		return zero, err
	}
	return rec, nil
}

func (t *table[T]) Update(ctx context.Context, rec T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	id := *t.id(&rec)
	err := t.store.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(t.key(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return &models.NotFoundError{Entity: t.entity, ID: id}
			}
			return err
		}
		return t.write(txn, id, rec)
	})
	if err != nil {
		return zero, err
	}
	return rec, nil
}

func (t *table[T]) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.store.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(t.key(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return &models.NotFoundError{Entity: t.entity, ID: id}
			}
			return err
		}
		return txn.Delete(t.key(id))
	})
}

var _ crm.Store = (*Store)(nil)
