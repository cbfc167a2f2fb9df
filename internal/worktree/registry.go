package worktree

import "sync"

// Registry is the in-memory table from session token to worktree path.
// It is the single source of truth consulted by the path rewriter on every
// tool call. Entries live for the process lifetime unless explicitly
// cleared; there is no eviction policy (the host signals session end, and
// a serve process rarely sees more than a handful of sessions).
type Registry struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]string)}
}

// Set records the worktree path for a session token.
func (r *Registry) Set(token, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[token] = path
}

// Get returns the worktree path for a session token.
func (r *Registry) Get(token string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	path, ok := r.entries[token]
	return path, ok
}

// Has reports whether a session token has a registered worktree.
func (r *Registry) Has(token string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[token]
	return ok
}

// Clear removes the entry for a session token.
func (r *Registry) Clear(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, token)
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
