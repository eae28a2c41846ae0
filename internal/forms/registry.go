package forms

import "sync"

// Registry keeps the open form sessions of a process, keyed by form id.
// Each form still has a single owner; the registry only guards the map.
type Registry struct {
	mu    sync.RWMutex
	forms map[string]*Form
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{forms: map[string]*Form{}}
}

// Add stores form under its id, replacing any session with the same id.
func (r *Registry) Add(form *Form) {
	if form == nil {
		return
	}
	r.mu.Lock()
	r.forms[form.ID()] = form
	r.mu.Unlock()
}

// Form returns the open session for id.
func (r *Registry) Form(id string) (*Form, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	form, ok := r.forms[id]
	return form, ok
}

// Close drops the session for id and reports whether it was open.
func (r *Registry) Close(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.forms[id]; !ok {
		return false
	}
	delete(r.forms, id)
	return true
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.forms)
}
