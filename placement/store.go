package placement

import "fmt"

// Store is the source of truth for every placement on a template. It is
// driven by a single interaction goroutine and does no locking of its
// own. Iteration follows insertion order so alignment ties resolve the
// same way on every run.
//
// Ordinal ids are scoped to the store, not the process: two stores
// hand out "Free Signature #1" independently.
type Store struct {
	items map[string]*Placement
	order []string

	freeSignatures int
	dateStamps     int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{items: make(map[string]*Placement)}
}

// Len returns the number of placements.
func (s *Store) Len() int { return len(s.order) }

// Get returns the placement with the given id.
func (s *Store) Get(id string) (*Placement, bool) {
	p, ok := s.items[id]
	return p, ok
}

// All returns the placements in insertion order.
func (s *Store) All() []*Placement {
	out := make([]*Placement, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

// FirstLinked returns the earliest-inserted placement aligned with the
// given requirement label, skipping the excluded id.
func (s *Store) FirstLinked(label, exclude string) (*Placement, bool) {
	if label == "" {
		return nil, false
	}
	for _, id := range s.order {
		p := s.items[id]
		if p.ID != exclude && p.Linked == label {
			return p, true
		}
	}
	return nil, false
}

// LinkedOfClass returns the placement aligned with label whose kind
// shares p's class: signatures replace signatures, stamps replace
// stamps.
func (s *Store) LinkedOfClass(label string, kind Kind) (*Placement, bool) {
	if label == "" {
		return nil, false
	}
	for _, id := range s.order {
		p := s.items[id]
		if p.Linked == label && signatureClass(p.Kind) == signatureClass(kind) {
			return p, true
		}
	}
	return nil, false
}

// Put inserts p. A linked placement replaces any existing placement of
// the same class for the same requirement instead of appending.
func (s *Store) Put(p *Placement) {
	if p.Linked != "" {
		if q, ok := s.LinkedOfClass(p.Linked, p.Kind); ok && q.ID != p.ID {
			s.Delete(q.ID)
		}
	}
	if _, exists := s.items[p.ID]; !exists {
		s.order = append(s.order, p.ID)
	}
	s.items[p.ID] = p
}

// Delete removes a placement. It reports whether the id existed.
func (s *Store) Delete(id string) bool {
	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	for i, other := range s.order {
		if other == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// SetAnchor replaces the anchor of a placement.
func (s *Store) SetAnchor(id string, a Anchor) error {
	p, ok := s.items[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	p.Anchor = a
	return nil
}

// SetLocked flips the per-placement lock.
func (s *Store) SetLocked(id string, locked bool) error {
	p, ok := s.items[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	p.Locked = locked
	return nil
}

// NextFreeSignatureID mints the next free-signature display id.
func (s *Store) NextFreeSignatureID() string {
	s.freeSignatures++
	return fmt.Sprintf("Free Signature #%d", s.freeSignatures)
}

// NextDateStampID mints the next date-stamp display id.
func (s *Store) NextDateStampID() string {
	s.dateStamps++
	return fmt.Sprintf("Date Stamp #%d", s.dateStamps)
}

// SeedCounters advances the ordinal counters to at least the given
// values. Loading a persisted template seeds them past the highest
// persisted ordinal so fresh ids never collide with stored ones.
func (s *Store) SeedCounters(freeSignatures, dateStamps int) {
	if freeSignatures > s.freeSignatures {
		s.freeSignatures = freeSignatures
	}
	if dateStamps > s.dateStamps {
		s.dateStamps = dateStamps
	}
}

// Reset clears all placements and both ordinal counters.
func (s *Store) Reset() {
	s.items = make(map[string]*Placement)
	s.order = nil
	s.freeSignatures = 0
	s.dateStamps = 0
}
