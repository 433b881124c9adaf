// Package achievement holds the in-memory registry of unlockable
// achievements. The set of names is fixed when the registry is created and
// every flag starts locked. Nothing is persisted; a restart resets all flags.
package achievement

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownAchievement is returned when an unlock names an achievement that
// is not part of the registry. Handlers should translate this into an HTTP
// 400 response.
var ErrUnknownAchievement = errors.New("unknown achievement")

// Registry maps achievement names to their unlocked state. The key set never
// changes after construction and a flag, once unlocked, stays unlocked.
type Registry struct {
	mu    sync.RWMutex
	order []string
	flags map[string]bool
}

// NewRegistry builds a registry for the given names with every flag locked.
// Duplicate names are collapsed. With no names the default catalog is used.
func NewRegistry(names ...string) *Registry {
	if len(names) == 0 {
		names = Names()
	}
	r := &Registry{flags: make(map[string]bool, len(names))}
	for _, n := range names {
		if _, dup := r.flags[n]; dup {
			continue
		}
		r.flags[n] = false
		r.order = append(r.order, n)
	}
	return r
}

// Snapshot returns a copy of the current state. Callers may modify the
// returned map freely.
func (r *Registry) Snapshot() map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]bool, len(r.flags))
	for k, v := range r.flags {
		out[k] = v
	}
	return out
}

// Has reports whether name is a known achievement.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.flags[name]
	return ok
}

// Names returns the registry's achievement names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Unlock marks name as unlocked. The returned bool is true only for the call
// that moved the flag from locked to unlocked; repeated unlocks succeed and
// report false. Unknown names leave the registry untouched and return an
// error wrapping ErrUnknownAchievement.
func (r *Registry) Unlock(name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	unlocked, ok := r.flags[name]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownAchievement, name)
	}
	if unlocked {
		return false, nil
	}
	r.flags[name] = true
	return true, nil
}
