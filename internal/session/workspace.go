package session

import (
	"sync"

	"github.com/Veraticus/search-term-analyzer/internal/model"
	"github.com/Veraticus/search-term-analyzer/internal/service"
)

// Workspace holds one independent session per product type and tracks the
// active tab.
type Workspace struct {
	sessions map[model.ProductType]*Session
	active   model.ProductType
	mu       sync.Mutex
}

// NewWorkspace creates a session for every product type. opts apply to
// every session.
func NewWorkspace(analyzer service.Analyzer, opts ...Option) *Workspace {
	w := &Workspace{
		sessions: make(map[model.ProductType]*Session, len(model.ProductTypes)),
		active:   model.ProductTypes[0],
	}
	for _, pt := range model.ProductTypes {
		w.sessions[pt] = New(pt, analyzer, opts...)
	}
	return w
}

// Session returns the session of a product type.
func (w *Workspace) Session(pt model.ProductType) *Session {
	return w.sessions[pt]
}

// Sessions returns every session in tab order.
func (w *Workspace) Sessions() []*Session {
	out := make([]*Session, 0, len(model.ProductTypes))
	for _, pt := range model.ProductTypes {
		out = append(out, w.sessions[pt])
	}
	return out
}

// Active returns the session of the active tab.
func (w *Workspace) Active() *Session {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sessions[w.active]
}

// ActiveType returns the product type of the active tab.
func (w *Workspace) ActiveType() model.ProductType {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// SetActive switches tabs. Unknown product types are ignored.
func (w *Workspace) SetActive(pt model.ProductType) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.sessions[pt]; !ok {
		return false
	}
	w.active = pt
	return true
}

// Next activates the following tab, wrapping around, and returns it.
func (w *Workspace) Next() model.ProductType {
	return w.step(1)
}

// Prev activates the preceding tab, wrapping around, and returns it.
func (w *Workspace) Prev() model.ProductType {
	return w.step(-1)
}

func (w *Workspace) step(delta int) model.ProductType {
	w.mu.Lock()
	defer w.mu.Unlock()

	n := len(model.ProductTypes)
	for i, pt := range model.ProductTypes {
		if pt == w.active {
			w.active = model.ProductTypes[((i+delta)%n+n)%n]
			break
		}
	}
	return w.active
}
