package presence

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatrelay/internal/pkg/errs"
)

func TestRegistryAdd(t *testing.T) {
	tests := []struct {
		name      string
		username  string
		room      string
		wantUser  string
		wantRoom  string
		wantError int
	}{
		{
			name:     "valid user",
			username: "Alice",
			room:     "Data",
			wantUser: "Alice",
			wantRoom: "Data",
		},
		{
			name:     "trims whitespace but keeps casing",
			username: "  Alice  ",
			room:     " Data ",
			wantUser: "Alice",
			wantRoom: "Data",
		},
		{
			name:      "empty username",
			username:  "",
			room:      "Data",
			wantError: errs.ErrIdentityRequired,
		},
		{
			name:      "empty room",
			username:  "Alice",
			room:      "",
			wantError: errs.ErrIdentityRequired,
		},
		{
			name:      "whitespace-only username",
			username:  "   ",
			room:      "Data",
			wantError: errs.ErrIdentityRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()

			user, err := r.Add("conn-1", tt.username, tt.room)

			if tt.wantError != 0 {
				require.NotNil(t, err)
				assert.Equal(t, tt.wantError, err.Code)
				assert.Nil(t, user)
				assert.Empty(t, r.UsersInRoom(tt.room))
				return
			}

			require.Nil(t, err)
			require.NotNil(t, user)
			assert.Equal(t, "conn-1", user.ID)
			assert.Equal(t, tt.wantUser, user.Username)
			assert.Equal(t, tt.wantRoom, user.Room)
		})
	}
}

func TestRegistryAddDuplicateUsername(t *testing.T) {
	r := NewRegistry()

	_, err := r.Add("conn-1", "Sam", "lobby")
	require.Nil(t, err)

	// Same name in the same room fails, regardless of casing.
	user, dupErr := r.Add("conn-2", "  sAm ", "LOBBY")
	require.NotNil(t, dupErr)
	assert.Equal(t, errs.ErrUsernameTaken, dupErr.Code)
	assert.Equal(t, "Username is in use!", dupErr.Message)
	assert.Nil(t, user)

	// The failed call left the directory unchanged.
	assert.Nil(t, r.Get("conn-2"))
	require.Len(t, r.UsersInRoom("lobby"), 1)
	assert.Equal(t, "conn-1", r.UsersInRoom("lobby")[0].ID)
}

func TestRegistryAddExistingConnection(t *testing.T) {
	r := NewRegistry()

	_, err := r.Add("conn-1", "Sam", "lobby")
	require.Nil(t, err)

	// A second registration for a live connection id is rejected and leaves
	// the first registration untouched.
	user, rejoinErr := r.Add("conn-1", "Alex", "lobby")
	require.NotNil(t, rejoinErr)
	assert.Equal(t, errs.ErrAlreadyJoined, rejoinErr.Code)
	assert.Nil(t, user)

	users := r.UsersInRoom("lobby")
	require.Len(t, users, 1)
	assert.Equal(t, "Sam", users[0].Username)

	// Removal fully clears the id, so the connection could register again.
	require.NotNil(t, r.Remove("conn-1"))
	assert.Nil(t, r.Get("conn-1"))
	assert.Empty(t, r.UsersInRoom("lobby"))

	_, err = r.Add("conn-1", "Alex", "lobby")
	require.Nil(t, err)
	users = r.UsersInRoom("lobby")
	require.Len(t, users, 1)
	assert.Equal(t, "Alex", users[0].Username)
}

func TestRegistryRoomIsolation(t *testing.T) {
	r := NewRegistry()

	_, err := r.Add("conn-1", "Bob", "Room1")
	require.Nil(t, err)

	user, err := r.Add("conn-2", "Bob", "Room2")
	require.Nil(t, err)
	assert.Equal(t, "Bob", user.Username)
	assert.Equal(t, "Room2", user.Room)
}

func TestRegistryRoundTrip(t *testing.T) {
	r := NewRegistry()

	_, err := r.Add("conn-1", "Alice", "Data")
	require.Nil(t, err)

	user := r.Get("conn-1")
	require.NotNil(t, user)
	assert.Equal(t, "Alice", user.Username)
	assert.Equal(t, "Data", user.Room)

	removed := r.Remove("conn-1")
	require.NotNil(t, removed)
	assert.Equal(t, "Alice", removed.Username)

	assert.Nil(t, r.Get("conn-1"))
}

func TestRegistryRemoveIdempotent(t *testing.T) {
	r := NewRegistry()

	_, err := r.Add("conn-1", "Alice", "Data")
	require.Nil(t, err)
	_, err = r.Add("conn-2", "Bob", "Data")
	require.Nil(t, err)

	require.NotNil(t, r.Remove("conn-1"))
	assert.Nil(t, r.Remove("conn-1"))
	assert.Nil(t, r.Remove("never-registered"))

	// The second removal left the remaining state untouched.
	users := r.UsersInRoom("Data")
	require.Len(t, users, 1)
	assert.Equal(t, "Bob", users[0].Username)
}

func TestRegistryUsersInRoom(t *testing.T) {
	r := NewRegistry()

	_, err := r.Add("conn-1", "A", "R")
	require.Nil(t, err)
	_, err = r.Add("conn-2", "B", "R")
	require.Nil(t, err)
	_, err = r.Add("conn-3", "C", "Other")
	require.Nil(t, err)

	// Room lookup folds case and preserves registration order.
	users := r.UsersInRoom("r")
	require.Len(t, users, 2)
	assert.Equal(t, "A", users[0].Username)
	assert.Equal(t, "B", users[1].Username)

	assert.Empty(t, r.UsersInRoom("missing"))
}

func TestRegistryConcurrentJoinsSingleWinner(t *testing.T) {
	const racers = 32

	r := NewRegistry()

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	losers := 0

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			_, err := r.Add(fmt.Sprintf("conn-%d", i), "Sam", "lobby")

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners++
			} else {
				assert.Equal(t, errs.ErrUsernameTaken, err.Code)
				losers++
			}
		}(i)
	}

	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Equal(t, racers-1, losers)
	assert.Len(t, r.UsersInRoom("lobby"), 1)
}
