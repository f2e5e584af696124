package broker

import (
	"log/slog"
	"sync"
)

// Member - registered participant of broadcasting.
type Member interface {
	// ID - identity which is compared by value to exclude the sender.
	ID() string
	// Send - delivers one line, false means the member is gone.
	Send(line string) bool
}

// Registry - set of members which are believed to be still open.
// Insert, snapshot and removal are mutually exclusive.
type Registry struct {
	logger *slog.Logger

	mu   sync.RWMutex
	list map[string]Member
}

// New - builds empty registry.
func New(options ...Option) (*Registry, error) {
	r := &Registry{
		list: make(map[string]Member),
	}
	if err := setup(r, options...); err != nil {
		return nil, err
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r, nil
}

// Add - registers member. The member with the same ID is replaced.
func (r *Registry) Add(m Member) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list[m.ID()] = m
}

// Len - number of registered members.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.list)
}

// Contains - reports whether member with given ID is registered.
func (r *Registry) Contains(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.list[id]
	return ok
}

// snapshot - consistent copy of current members.
func (r *Registry) snapshot() []Member {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := make([]Member, 0, len(r.list))
	for _, m := range r.list {
		members = append(members, m)
	}
	return members
}

// drop - removes members, but only if they are still the registered ones.
func (r *Registry) drop(members []Member) {
	if len(members) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range members {
		if current, ok := r.list[m.ID()]; ok && current == m {
			delete(r.list, m.ID())
		}
	}
}
