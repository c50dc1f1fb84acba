package booking

import (
	"context"
	"log"
)

// ParentDeleter removes a parent resource together with every booking
// referencing it as one atomic unit.  The SQL repositories implement it
// with a single transaction; a failure on either side must leave both
// collections untouched.
type ParentDeleter interface {
	DeleteWithBookings(ctx context.Context, id uint64) (removed int64, err error)
}

// Cascade coordinates parent deletion.  It exists as an explicit, named
// operation so the two-step delete is invoked deliberately from the
// parent-deletion handler and can be tested in isolation, rather than
// hanging off an implicit lifecycle hook that bulk paths might bypass.
type Cascade struct {
	kind  string // booking kind removed alongside the parent
	store ParentDeleter
}

// NewCascade builds a coordinator for one parent kind.
func NewCascade(kind string, store ParentDeleter) *Cascade {
	if store == nil {
		panic("nil store passed to NewCascade")
	}
	return &Cascade{kind: kind, store: store}
}

// DeleteParent removes the parent and its bookings.  Not-found errors
// from the store pass through untouched so handlers can map them; any
// other failure is wrapped with the cascade context and means nothing
// was deleted.
func (c *Cascade) DeleteParent(ctx context.Context, parentID uint64) (int64, error) {
	removed, err := c.store.DeleteWithBookings(ctx, parentID)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		log.Printf("cascade: removed %d %ss for parent %d", removed, c.kind, parentID)
	}
	return removed, nil
}
