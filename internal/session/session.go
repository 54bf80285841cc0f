package session

import (
	"sync"

	"github.com/dukerupert/sindri/internal/domain"
)

// Session is the current authentication state. IsLoading is true while
// identity is still being fetched; callers must tolerate a nil User.
type Session struct {
	User            *domain.User
	IsAuthenticated bool
	IsLoading       bool
}

// Provider exposes the authentication/session state and a logout action.
// The storefront core only reads from it; session establishment lives with
// the upstream API.
type Provider interface {
	Current() Session
	Logout()
}

// Memory is an in-process session provider. The upstream API remains the
// source of truth; this just mirrors what it last told us.
type Memory struct {
	mu      sync.Mutex
	session Session
}

// NewMemory creates a session provider in the loading state.
func NewMemory() *Memory {
	return &Memory{session: Session{IsLoading: true}}
}

// Current implements Provider.
func (m *Memory) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// SetUser records a resolved identity.
func (m *Memory) SetUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = Session{User: user, IsAuthenticated: user != nil}
}

// Logout implements Provider.
func (m *Memory) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = Session{}
}

var _ Provider = (*Memory)(nil)
