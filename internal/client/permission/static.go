package permission

import (
	"context"
	"sync"
)

// Static is a Gateway with fixed answers, used where no interactive
// authorization exists. Request promotes NotDetermined to Grant.
type Static struct {
	mu       sync.Mutex
	statuses map[Resource]Status
	grant    Status
}

// NewStatic returns a gateway with the given statuses. Resources not listed
// are NotDetermined. grant is what Request resolves NotDetermined to.
func NewStatic(statuses map[Resource]Status, grant Status) *Static {
	m := make(map[Resource]Status, len(statuses))
	for k, v := range statuses {
		m[k] = v
	}
	return &Static{statuses: m, grant: grant}
}

func (s *Static) Status(_ context.Context, r Resource) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.statuses[r]; ok {
		return st, nil
	}
	return NotDetermined, nil
}

func (s *Static) Request(_ context.Context, r Resource) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.statuses[r]
	if !ok || st == NotDetermined {
		st = s.grant
		s.statuses[r] = st
	}
	return st, nil
}
