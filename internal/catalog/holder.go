package catalog

import (
	"sync"
	"sync/atomic"

	dom "github.com/cuihairu/arcadehub/internal/ports"
)

// Holder publishes the catalog exactly once. Readers see an empty catalog until then.
type Holder struct {
	cur   atomic.Pointer[dom.Catalog]
	once  sync.Once
	ready chan struct{}
}

func NewHolder() *Holder { return &Holder{ready: make(chan struct{})} }

// Get returns the published catalog, or an empty one while the load is pending.
func (h *Holder) Get() dom.Catalog {
	if c := h.cur.Load(); c != nil {
		return *c
	}
	return dom.Catalog{}
}

// Set publishes c. Only the first call has an effect; it reports whether c was published.
func (h *Holder) Set(c dom.Catalog) bool {
	published := false
	h.once.Do(func() {
		h.cur.Store(&c)
		close(h.ready)
		published = true
	})
	return published
}

// Ready is closed once a catalog (possibly empty) has been published.
func (h *Holder) Ready() <-chan struct{} { return h.ready }

// Loaded reports whether Set has been called.
func (h *Holder) Loaded() bool { return h.cur.Load() != nil }
