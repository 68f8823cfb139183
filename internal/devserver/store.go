package devserver

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var errNotFound = errors.New("object not found")

// object is the stored representation; the server owns CreatedAt.
type object struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt *time.Time     `json:"updatedAt,omitempty"`
}

// memStore keeps objects in insertion order.
type memStore struct {
	mu    sync.RWMutex
	items map[string]*object
	order []string
}

func newMemStore() *memStore {
	return &memStore{items: map[string]*object{}}
}

func (s *memStore) list() []object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]object, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.items[id])
	}
	return out
}

func (s *memStore) get(id string) (object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.items[id]
	if !ok {
		return object{}, errNotFound
	}
	return *o, nil
}

func (s *memStore) create(name string, data map[string]any) object {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := &object{ID: uuid.NewString(), Name: name, Data: data, CreatedAt: time.Now().UTC()}
	s.items[o.ID] = o
	s.order = append(s.order, o.ID)
	return *o
}

// put stores the object under a caller-chosen id, used for seeding.
func (s *memStore) put(id, name string, data map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		s.order = append(s.order, id)
	}
	s.items[id] = &object{ID: id, Name: name, Data: data, CreatedAt: time.Now().UTC()}
}

func (s *memStore) update(id, name string, data map[string]any) (object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.items[id]
	if !ok {
		return object{}, errNotFound
	}
	now := time.Now().UTC()
	o.Name, o.Data, o.UpdatedAt = name, data, &now
	return *o, nil
}

func (s *memStore) delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return errNotFound
	}
	delete(s.items, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
