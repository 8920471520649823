package session

import "sync"

// DefaultUserID is used when a request carries no session id.
const DefaultUserID = "default_user"

// RecruiterType classifies the asker persona.
type RecruiterType string

const (
	RecruiterTechLead       RecruiterType = "TECH_LEAD"
	RecruiterHRManager      RecruiterType = "HR_MANAGER"
	RecruiterProductManager RecruiterType = "PRODUCT_MANAGER"
	RecruiterGeneralist     RecruiterType = "GENERALIST"
)

// IsSpecific reports whether t is a concrete (non-generalist) persona.
func (t RecruiterType) IsSpecific() bool {
	switch t {
	case RecruiterTechLead, RecruiterHRManager, RecruiterProductManager:
		return true
	}
	return false
}

// Manager persists the recruiter type per session with sticky-upgrade
// semantics: a specific type always wins, and a later GENERALIST detection
// never downgrades a stored specific type.
type Manager struct {
	mu    sync.Mutex
	types map[string]RecruiterType
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{types: make(map[string]RecruiterType)}
}

// Update applies the sticky-upgrade rules for userID.
func (m *Manager) Update(userID string, detected RecruiterType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, stored := m.types[userID]
	switch {
	case detected.IsSpecific():
		m.types[userID] = detected
	case stored && current.IsSpecific() && detected == RecruiterGeneralist:
		// No downgrade.
	default:
		m.types[userID] = detected
	}
}

// Get returns the stored type for userID and whether one was ever set.
func (m *Manager) Get(userID string) (RecruiterType, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.types[userID]
	return t, ok
}
