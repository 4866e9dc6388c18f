// Package registry holds the fingerprint registry shared by all hashing tasks
// of one scan session.
package registry

import (
	"sync"

	"github.com/harrison/dupescan/internal/hasher"
)

// Registry maps a digest to the first path observed with that digest.
// Entries are never overwritten or removed. It is safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	seen map[hasher.Digest]string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		seen: make(map[hasher.Digest]string),
	}
}

// CheckOrInsert records path for d unless d is already known.
// If d was already registered, the stored path is returned with found=true
// and the registry is left unchanged. Exactly one of any number of concurrent
// callers with the same digest inserts; all others observe its path.
func (r *Registry) CheckOrInsert(d hasher.Digest, path string) (existing string, found bool) {
	// Lookups take the shared lock so hits on different digests run in parallel.
	r.mu.RLock()
	existing, found = r.seen[d]
	r.mu.RUnlock()
	if found {
		return existing, true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another writer may have inserted between the two locks.
	if existing, found = r.seen[d]; found {
		return existing, true
	}
	r.seen[d] = path
	return "", false
}
