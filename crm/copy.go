// ABOUTME: Copies every record from one Record Store into another
// ABOUTME: Target ids are reassigned, so contact and deal references are remapped on the way
package crm

import (
	"context"
	"fmt"
)

// CopySummary counts the records a copy wrote (or would write on a dry run).
type CopySummary struct {
	Companies  int
	Contacts   int
	Leads      int
	Deals      int
	Tasks      int
	Activities int
}

func (s CopySummary) String() string {
	return fmt.Sprintf("%d companies, %d contacts, %d leads, %d deals, %d tasks, %d activities",
		s.Companies, s.Contacts, s.Leads, s.Deals, s.Tasks, s.Activities)
}

// CopyStore writes the contents of src into dst. The destination must be
// empty unless force is set. With dryRun nothing is written and dst is not
// consulted, so it may be nil.
func CopyStore(ctx context.Context, src, dst Store, dryRun, force bool) (CopySummary, error) {
	var sum CopySummary

	if !dryRun && !force {
		empty, err := IsEmpty(ctx, dst)
		if err != nil {
			return sum, fmt.Errorf("failed to inspect target: %w", err)
		}
		if !empty {
			return sum, fmt.Errorf("target store is not empty (use force to append)")
		}
	}

	companies, err := src.Companies().List(ctx)
	if err != nil {
		return sum, fmt.Errorf("failed to list companies: %w", err)
	}
	contacts, err := src.Contacts().List(ctx)
	if err != nil {
		return sum, fmt.Errorf("failed to list contacts: %w", err)
	}
	leads, err := src.Leads().List(ctx)
	if err != nil {
		return sum, fmt.Errorf("failed to list leads: %w", err)
	}
	deals, err := src.Deals().List(ctx)
	if err != nil {
		return sum, fmt.Errorf("failed to list deals: %w", err)
	}
	tasks, err := src.Tasks().List(ctx)
	if err != nil {
		return sum, fmt.Errorf("failed to list tasks: %w", err)
	}
	activities, err := src.Activities().List(ctx)
	if err != nil {
		return sum, fmt.Errorf("failed to list activities: %w", err)
	}

	if dryRun {
		return CopySummary{
			Companies:  len(companies),
			Contacts:   len(contacts),
			Leads:      len(leads),
			Deals:      len(deals),
			Tasks:      len(tasks),
			Activities: len(activities),
		}, nil
	}

	for _, c := range companies {
		if _, err := dst.Companies().Create(ctx, c); err != nil {
			return sum, fmt.Errorf("failed to copy company %d: %w", c.ID, err)
		}
		sum.Companies++
	}

	contactIDs := make(map[int64]int64, len(contacts))
	for _, c := range contacts {
		created, err := dst.Contacts().Create(ctx, c)
		if err != nil {
			return sum, fmt.Errorf("failed to copy contact %d: %w", c.ID, err)
		}
		contactIDs[c.ID] = created.ID
		sum.Contacts++
	}

	for _, l := range leads {
		if _, err := dst.Leads().Create(ctx, l); err != nil {
			return sum, fmt.Errorf("failed to copy lead %d: %w", l.ID, err)
		}
		sum.Leads++
	}

	dealIDs := make(map[int64]int64, len(deals))
	for _, d := range deals {
		if id, ok := contactIDs[d.ContactID]; ok {
			d.ContactID = id
		}
		created, err := dst.Deals().Create(ctx, d)
		if err != nil {
			return sum, fmt.Errorf("failed to copy deal %d: %w", d.ID, err)
		}
		dealIDs[d.ID] = created.ID
		sum.Deals++
	}

	for _, t := range tasks {
		t.ContactID = remapRef(t.ContactID, contactIDs)
		if _, err := dst.Tasks().Create(ctx, t); err != nil {
			return sum, fmt.Errorf("failed to copy task %d: %w", t.ID, err)
		}
		sum.Tasks++
	}

	for _, a := range activities {
		if id, ok := contactIDs[a.ContactID]; ok {
			a.ContactID = id
		}
		a.DealID = remapRef(a.DealID, dealIDs)
		if _, err := dst.Activities().Create(ctx, a); err != nil {
			return sum, fmt.Errorf("failed to copy activity %d: %w", a.ID, err)
		}
		sum.Activities++
	}

	return sum, nil
}

// IsEmpty reports whether store holds no records in any collection.
func IsEmpty(ctx context.Context, store Store) (bool, error) {
	counts := []func() (int, error){
		func() (int, error) { return count(ctx, store.Companies()) },
		func() (int, error) { return count(ctx, store.Contacts()) },
		func() (int, error) { return count(ctx, store.Leads()) },
		func() (int, error) { return count(ctx, store.Deals()) },
		func() (int, error) { return count(ctx, store.Tasks()) },
		func() (int, error) { return count(ctx, store.Activities()) },
	}
	for _, n := range counts {
		got, err := n()
		if err != nil {
			return false, err
		}
		if got > 0 {
			return false, nil
		}
	}
	return true, nil
}

func count[T any](ctx context.Context, repo Repository[T]) (int, error) {
	recs, err := repo.List(ctx)
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}

func remapRef(ref *int64, ids map[int64]int64) *int64 {
	if ref == nil {
		return nil
	}
	if id, ok := ids[*ref]; ok {
		return &id
	}
	return ref
}
