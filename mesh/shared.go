package mesh

import (
	"sync"

	"github.com/pkg/errors"
)

var ErrNoTriangulation = errors.New("mesh: no triangulation installed")

// Shared guards a triangulation that may be replaced while queries run.
// Queries take the read side (any number in parallel); structural replacement
// takes the write side and waits for in-flight queries to finish.
type Shared struct {
	mu  sync.RWMutex
	tri *Triangulation
}

// NewShared wraps t. t may be nil until the first Swap.
func NewShared(t *Triangulation) *Shared {
	return &Shared{tri: t}
}

// View runs fn with the current triangulation under the read lock.
// fn must not retain t after returning or call Swap/Update.
func (s *Shared) View(fn func(t *Triangulation) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tri == nil {
		return ErrNoTriangulation
	}
	return fn(s.tri)
}

// Swap installs t and returns the previous triangulation.
func (s *Shared) Swap(t *Triangulation) *Triangulation {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.tri
	s.tri = t
	return old
}

// Update replaces the triangulation with fn(current) under the write lock.
// On error the current triangulation is kept.
func (s *Shared) Update(fn func(cur *Triangulation) (*Triangulation, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(s.tri)
	if err != nil {
		return err
	}
	if next == nil {
		return ErrNoTriangulation
	}
	s.tri = next
	return nil
}
