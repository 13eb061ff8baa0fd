package profanity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterIsProfane(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{
			name: "clean text",
			text: "hello there, how are you?",
			want: false,
		},
		{
			name: "blocked word",
			text: "well damn",
			want: true,
		},
		{
			name: "mixed case",
			text: "DaMn it",
			want: true,
		},
		{
			name: "adjacent punctuation",
			text: "damn!",
			want: true,
		},
		{
			name: "blocked word inside larger word does not match",
			text: "classic grass",
			want: false,
		},
		{
			name: "empty text",
			text: "",
			want: false,
		},
	}

	f := NewFilter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.IsProfane(tt.text))
		})
	}
}

func TestFilterExtraWords(t *testing.T) {
	f := NewFilter("Voldemort")

	assert.True(t, f.IsProfane("he who must not be named: voldemort"))
	assert.False(t, NewFilter().IsProfane("voldemort"))
}
