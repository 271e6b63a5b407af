package catalog

import (
	"sync"

	"github.com/google/uuid"
)

// EnrolmentRegistry records fallback enrolments per (user, session) pair.
// It is an explicit instance injected into the service so tests get isolated
// state instead of sharing a package-level global.
type EnrolmentRegistry struct {
	mu     sync.Mutex
	byUser map[uuid.UUID]map[string]bool
}

func NewEnrolmentRegistry() *EnrolmentRegistry {
	return &EnrolmentRegistry{byUser: make(map[uuid.UUID]map[string]bool)}
}

// Add records the enrolment. Re-adding an existing pair is a no-op, so at
// most one record exists per (user, session).
func (r *EnrolmentRegistry) Add(userID uuid.UUID, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.byUser[userID] == nil {
		r.byUser[userID] = make(map[string]bool)
	}
	r.byUser[userID][sessionID] = true
}

func (r *EnrolmentRegistry) Has(userID uuid.UUID, sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byUser[userID][sessionID]
}

// Count reports how many sessions the user has enrolled into via fallback.
func (r *EnrolmentRegistry) Count(userID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byUser[userID])
}
