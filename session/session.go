// Package session holds the operator's authenticated state: the backend
// token and the logged-in user's profile.
package session

import (
	"slices"
	"sync"
	"time"
)

type Profile struct {
	ID          int      `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Email       string   `yaml:"email" json:"email"`
	PhoneNumber string   `yaml:"phone_number" json:"phone_number"`
	Role        string   `yaml:"role" json:"role"`
	Permissions []string `yaml:"permissions" json:"permissions"`
}

func (p *Profile) HasPermission(perm string) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.Permissions, perm)
}

// Session is safe for concurrent use.
type Session struct {
	mu        sync.RWMutex
	id        string
	token     string
	user      *Profile
	createdAt time.Time
	updatedAt time.Time
}

// record is the persisted form of a Session.
type record struct {
	ID        string    `yaml:"id"`
	Token     string    `yaml:"token,omitempty"`
	User      *Profile  `yaml:"user,omitempty"`
	CreatedAt time.Time `yaml:"created_at"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

func newSession(id string, now time.Time) *Session {
	return &Session{id: id, createdAt: now, updatedAt: now}
}

func (s *Session) ID() string {
	return s.id
}

// Token implements the API client's TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.updatedAt = time.Now()
}

// User returns a copy of the stored profile, or nil.
func (s *Session) User() *Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	u.Permissions = slices.Clone(s.user.Permissions)
	return &u
}

func (s *Session) SetUser(p *Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == nil {
		s.user = nil
	} else {
		u := *p
		u.Permissions = slices.Clone(p.Permissions)
		s.user = &u
	}
	s.updatedAt = time.Now()
}

// Clear drops the token and the user profile.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	s.updatedAt = time.Now()
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

func (s *Session) toRecord() record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r := record{
		ID:        s.id,
		Token:     s.token,
		CreatedAt: s.createdAt,
		UpdatedAt: s.updatedAt,
	}
	if s.user != nil {
		u := *s.user
		u.Permissions = slices.Clone(s.user.Permissions)
		r.User = &u
	}
	return r
}

func fromRecord(r record) *Session {
	return &Session{
		id:        r.ID,
		token:     r.Token,
		user:      r.User,
		createdAt: r.CreatedAt,
		updatedAt: r.UpdatedAt,
	}
}
