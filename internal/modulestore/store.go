package modulestore

import (
	"iter"
	"sync"

	"github.com/specialistvlad/gridbuild/internal/config"
)

// Store holds module descriptors keyed by identifier. It is safe for
// concurrent use; descriptors themselves are treated as immutable once
// registered.
type Store struct {
	mu    sync.RWMutex
	byID  map[string]*config.ModuleDescriptor
	order []string
}

// New creates an empty store.
func New() *Store {
	return &Store{byID: make(map[string]*config.ModuleDescriptor)}
}

// FromModel creates a store and registers every module of the model in order.
// The first registration error is returned.
func FromModel(m *config.Model) (*Store, error) {
	s := New()
	for _, d := range m.Modules {
		if err := s.Register(d); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Register adds a descriptor. It fails with DuplicateModuleError when the
// identifier is already present.
func (s *Store) Register(d *config.ModuleDescriptor) error {
	if d == nil || d.ID == "" {
		return &InvalidModuleError{Msg: "identifier must not be empty"}
	}
	if d.EntryPoint != nil && d.EntryPoint.Runnable == nil {
		return &InvalidModuleError{ID: d.ID, Msg: "entry point '" + d.EntryPoint.Name + "' is not bound to a runnable"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[d.ID]; exists {
		return &DuplicateModuleError{ID: d.ID, File: d.File}
	}
	s.byID[d.ID] = d
	s.order = append(s.order, d.ID)
	return nil
}

// Get returns the descriptor registered under id, or UnknownModuleError.
func (s *Store) Get(id string) (*config.ModuleDescriptor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.byID[id]
	if !ok {
		return nil, &UnknownModuleError{ID: id}
	}
	return d, nil
}

// Has reports whether id is registered.
func (s *Store) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byID[id]
	return ok
}

// All returns the descriptors in registration order. The sequence is lazy and
// restartable: every range over it starts from the first registered module and
// sees a snapshot taken when that range began.
func (s *Store) All() iter.Seq[*config.ModuleDescriptor] {
	return func(yield func(*config.ModuleDescriptor) bool) {
		s.mu.RLock()
		snapshot := make([]*config.ModuleDescriptor, len(s.order))
		for i, id := range s.order {
			snapshot[i] = s.byID[id]
		}
		s.mu.RUnlock()

		for _, d := range snapshot {
			if !yield(d) {
				return
			}
		}
	}
}

// IDs returns the identifiers in registration order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of registered modules.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
