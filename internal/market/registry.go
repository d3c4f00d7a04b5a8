package market

import (
	"sync"

	"github.com/kara-india/boliapp/internal/model"
)

// ListingRegistry owns the id → listing mapping. Newly created listings are
// prepended so enumeration is newest-first, matching how the browse view
// presents them.
type ListingRegistry struct {
	mu      sync.RWMutex
	byID    map[string]*model.Listing
	ordered []string
}

func NewListingRegistry() *ListingRegistry {
	return &ListingRegistry{byID: make(map[string]*model.Listing)}
}

func (r *ListingRegistry) Get(id string) (*model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.byID[id]
	if !ok {
		return nil, ErrListingNotFound
	}
	return l, nil
}

// Upsert replaces an existing listing in place or prepends a new one.
func (r *ListingRegistry) Upsert(l *model.Listing) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[l.ID]; !ok {
		r.ordered = append([]string{l.ID}, r.ordered...)
	}
	r.byID[l.ID] = l
}

// List returns listings newest-first.
func (r *ListingRegistry) List() []*model.Listing {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Listing, 0, len(r.ordered))
	for _, id := range r.ordered {
		out = append(out, r.byID[id])
	}
	return out
}

func (r *ListingRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ordered)
}
