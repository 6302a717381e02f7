package template

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"stampkit/layout"
	"stampkit/observability"
	"stampkit/placement"
)

// Lifecycle drives a template through its draft and locked states. It
// owns the placement store that the interaction controllers mutate.
type Lifecycle struct {
	persist    Persistence
	table      layout.Table
	catalog    layout.Catalog
	pageHeight float64

	store    *placement.Store
	locked   bool
	revision string

	log    observability.Logger
	tracer observability.Tracer
}

// Option adjusts a Lifecycle.
type Option func(*Lifecycle)

// WithLogger installs a logger. The default discards everything.
func WithLogger(l observability.Logger) Option {
	return func(lc *Lifecycle) { lc.log = l }
}

// WithTracer installs a tracer around the blocking operations.
func WithTracer(t observability.Tracer) Option {
	return func(lc *Lifecycle) { lc.tracer = t }
}

// NewLifecycle builds an empty draft over the given persistence
// boundary. The table, catalog and page height fix how cell anchors
// resolve when a locked snapshot is flattened.
func NewLifecycle(persist Persistence, tbl layout.Table, cat layout.Catalog, pageHeight float64, opts ...Option) *Lifecycle {
	lc := &Lifecycle{
		persist:    persist,
		table:      tbl,
		catalog:    cat,
		pageHeight: pageHeight,
		store:      placement.NewStore(),
		log:        observability.NopLogger{},
		tracer:     observability.NopTracer(),
	}
	for _, opt := range opts {
		opt(lc)
	}
	return lc
}

// Store returns the placement store this lifecycle owns.
func (lc *Lifecycle) Store() *placement.Store { return lc.store }

// Table returns the table geometry the template is laid out on.
func (lc *Lifecycle) Table() layout.Table { return lc.table }

// Catalog returns the requirement catalog the template rows follow.
func (lc *Lifecycle) Catalog() layout.Catalog { return lc.catalog }

// IsLocked reports whether the template is published.
func (lc *Lifecycle) IsLocked() bool { return lc.locked }

// Revision returns the revision id of the last successful save.
func (lc *Lifecycle) Revision() string { return lc.revision }

// Editable returns ErrLocked when the template rejects mutations.
func (lc *Lifecycle) Editable() error {
	if lc.locked {
		return ErrLocked
	}
	return nil
}

// Load replaces the in-memory state with the persisted snapshot. A
// missing snapshot leaves an empty draft. On any failure the in-memory
// state is untouched.
func (lc *Lifecycle) Load(ctx context.Context) error {
	ctx, span := lc.tracer.StartSpan(ctx, "template.load")
	defer span.Finish()

	snap, err := lc.persist.Load(ctx)
	if err != nil {
		span.SetError(err)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if snap == nil {
		lc.store.Reset()
		lc.locked = false
		lc.revision = ""
		lc.log.Info("no stored template, starting draft")
		return nil
	}
	d, err := decodeSnapshot(snap, lc.catalog)
	if err != nil {
		span.SetError(err)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	lc.store.Reset()
	for _, p := range d.placements {
		lc.store.Put(p)
	}
	lc.store.SeedCounters(d.freeSignatures, d.dateStamps)
	lc.locked = snap.IsLocked
	lc.revision = snap.Revision
	lc.log.Info("template loaded",
		observability.Int("placements", lc.store.Len()),
		observability.String("revision", lc.revision),
	)
	return nil
}

// Save writes the draft-form snapshot: cell anchors stay cell anchors.
// A locked template rejects saves.
func (lc *Lifecycle) Save(ctx context.Context) error {
	if lc.locked {
		return ErrLocked
	}
	return lc.write(ctx, "template.save", false, false)
}

// Lock publishes the template. The snapshot is written with every cell
// anchor flattened to its absolute rectangle, the form older readers
// expect, and the lock flag set. In-memory anchors are not rewritten.
func (lc *Lifecycle) Lock(ctx context.Context) error {
	if lc.locked {
		return ErrLocked
	}
	if err := lc.write(ctx, "template.lock", true, true); err != nil {
		return err
	}
	lc.locked = true
	lc.log.Info("template locked", observability.String("revision", lc.revision))
	return nil
}

// Unlock flips the lock flag and persists it. Placements are never
// altered. Unlocking an unlocked template is a no-op.
func (lc *Lifecycle) Unlock(ctx context.Context) error {
	if !lc.locked {
		return nil
	}
	if err := lc.write(ctx, "template.unlock", false, false); err != nil {
		return err
	}
	lc.locked = false
	lc.log.Info("template unlocked", observability.String("revision", lc.revision))
	return nil
}

// Fingerprint hashes the current in-memory state in draft form.
// Identical placement sets produce identical fingerprints across
// processes.
func (lc *Lifecycle) Fingerprint() string {
	snap := encodeStore(lc.store, lc.table, lc.pageHeight, false)
	snap.IsLocked = lc.locked
	return fingerprint(snap)
}

func (lc *Lifecycle) write(ctx context.Context, name string, flatten, locked bool) error {
	ctx, span := lc.tracer.StartSpan(ctx, name)
	defer span.Finish()

	snap := encodeStore(lc.store, lc.table, lc.pageHeight, flatten)
	snap.IsLocked = locked
	snap.Revision = uuid.NewString()
	if err := lc.persist.Save(ctx, snap); err != nil {
		span.SetError(err)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	lc.revision = snap.Revision
	return nil
}
