/*
Package presence tracks which live connection belongs to which user and room.

It defines the User value and the Registry, an in-memory directory of active
(connection id, username, room) triples. The Registry enforces per-room
username uniqueness and is the sole source of room membership: broadcast
targets are always derived from it, never from a separate subscription list.
*/
package presence

import (
	"strings"
	"sync"

	"chatrelay/internal/pkg/errs"
)

// User represents one chat participant bound to a single live connection.
// The stored Username and Room keep the trimmed casing the user typed;
// uniqueness and grouping comparisons use a folded form instead.
type User struct {
	// ID is the opaque connection identifier assigned by the transport layer.
	ID string `json:"id"`

	// Username is the display name, unique within its room (case-insensitive).
	Username string `json:"username"`

	// Room is the name of the room the user joined.
	Room string `json:"room"`
}

// foldKey normalizes a username or room name for comparison.
// The stored display value is never mutated beyond trimming.
func foldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Registry is the in-memory directory of active users, keyed by connection id.
// All operations are safe for concurrent use; under racing joins for the same
// name in the same room, exactly one caller wins.
type Registry struct {
	// mu protects users and order.
	mu sync.RWMutex

	// users maps connection id to the registered user.
	users map[string]User

	// order holds connection ids in registration order so room listings
	// are deterministic.
	order []string
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		users: make(map[string]User),
	}
}

// Add validates and registers a user for the given connection id.
// Username and room are trimmed; an empty value after trimming, a connection
// id that is already registered, or a case-insensitive username collision
// within the room yields a CustomError. On success the stored User is
// returned. Add performs no broadcasting; that is the hub's responsibility.
func (r *Registry) Add(id, username, room string) (*User, *errs.CustomError) {
	username = strings.TrimSpace(username)
	room = strings.TrimSpace(room)

	if username == "" || room == "" {
		return nil, errs.NewError(errs.ErrIdentityRequired)
	}

	nameKey := foldKey(username)
	roomKey := foldKey(room)

	r.mu.Lock()
	defer r.mu.Unlock()

	// An id maps to at most one user; a connection must disconnect before
	// it can register again.
	if _, ok := r.users[id]; ok {
		return nil, errs.NewError(errs.ErrAlreadyJoined)
	}

	for _, existing := range r.users {
		if foldKey(existing.Room) == roomKey && foldKey(existing.Username) == nameKey {
			return nil, errs.NewError(errs.ErrUsernameTaken)
		}
	}

	user := User{
		ID:       id,
		Username: username,
		Room:     room,
	}

	r.users[id] = user
	r.order = append(r.order, id)

	return &user, nil
}

// Remove deletes and returns the user registered for the connection id.
// It returns nil if the connection was never registered or was already
// removed, so it is safe to call more than once.
func (r *Registry) Remove(id string) *User {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil
	}

	delete(r.users, id)

	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return &user
}

// Get returns the user registered for the connection id, or nil if none.
// It never mutates the directory.
func (r *Registry) Get(id string) *User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil
	}

	return &user
}

// UsersInRoom returns every registered user whose room matches the given
// name (case-insensitive, trimmed), in registration order.
func (r *Registry) UsersInRoom(room string) []User {
	roomKey := foldKey(room)

	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]User, 0, len(r.order))

	for _, id := range r.order {
		user := r.users[id]
		if foldKey(user.Room) == roomKey {
			users = append(users, user)
		}
	}

	return users
}
