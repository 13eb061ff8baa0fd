package chat

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	before := time.Now().UnixMilli()
	msg := NewMessage("Sam", "hello")
	after := time.Now().UnixMilli()

	assert.Equal(t, "Sam", msg.Username)
	assert.Equal(t, "hello", msg.Text)
	assert.GreaterOrEqual(t, msg.CreatedAt, before)
	assert.LessOrEqual(t, msg.CreatedAt, after)
}

// The rendering layer consumes the text field under the "message" key.
func TestMessageWireShape(t *testing.T) {
	msg := Message{Username: "Sam", Text: "hello", CreatedAt: 1700000000000}

	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))

	assert.Equal(t, "Sam", fields["username"])
	assert.Equal(t, "hello", fields["message"])
	assert.Equal(t, float64(1700000000000), fields["createdAt"])
}

func TestNewLocationMessage(t *testing.T) {
	tests := []struct {
		name      string
		latitude  float64
		longitude float64
		wantURL   string
	}{
		{
			name:      "positive coordinates",
			latitude:  31.2,
			longitude: 29.95,
			wantURL:   "https://google.com/maps?q=31.2,29.95",
		},
		{
			name:      "negative longitude",
			latitude:  10.5,
			longitude: -3.25,
			wantURL:   "https://google.com/maps?q=10.5,-3.25",
		},
		{
			name:      "whole numbers",
			latitude:  0,
			longitude: 180,
			wantURL:   "https://google.com/maps?q=0,180",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := NewLocationMessage("Sam", tt.latitude, tt.longitude)

			assert.Equal(t, "Sam", loc.Username)
			assert.Equal(t, tt.wantURL, loc.URL)
			assert.NotZero(t, loc.CreatedAt)
		})
	}
}

func TestEncodeFrame(t *testing.T) {
	frame, err := encodeFrame(EventRoomData, "", RoomData{
		Room:  "lobby",
		Users: []RoomMember{{Username: "Sam"}},
	})
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(frame, &env))
	assert.Equal(t, EventRoomData, env.Event)
	assert.Empty(t, env.Seq)

	var data RoomData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "lobby", data.Room)
	assert.Equal(t, []RoomMember{{Username: "Sam"}}, data.Users)
}
