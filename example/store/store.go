// Package store holds the in-memory state shared by the example routes.
package store

import (
	"sort"
	"strconv"
	"sync"
)

// User is a registered user.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Store is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	users map[string]User
	next  int
}

// New returns a store seeded with two users.
func New() *Store {
	s := &Store{users: make(map[string]User)}
	s.AddUser("Ada")
	s.AddUser("Grace")
	return s
}

// Users returns every user ordered by ID.
func (s *Store) Users() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		a, _ := strconv.Atoi(out[i].ID)
		b, _ := strconv.Atoi(out[j].ID)
		return a < b
	})
	return out
}

// User looks a user up by ID.
func (s *Store) User(id string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

// AddUser registers a user and returns it.
func (s *Store) AddUser(name string) User {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	u := User{ID: strconv.Itoa(s.next), Name: name}
	s.users[u.ID] = u
	return u
}

// DeleteUser removes a user. It reports whether the user existed.
func (s *Store) DeleteUser(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return false
	}
	delete(s.users, id)
	return true
}
