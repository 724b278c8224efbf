package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFields_MultilineAndQuotes(t *testing.T) {
	text := "thought: Hello\nworld\ntrack_id: T7\nmessage: \"Nice one\""

	got := Fields(text, []string{"thought", "track_id", "message"})

	assert.Equal(t, map[string]string{
		"thought":  "Hello world",
		"track_id": "T7",
		"message":  "Nice one",
	}, got)
}

func TestFields_FencedBlock(t *testing.T) {
	text := "```yaml\nthought: Hello\nworld\ntrack_id: T7\nmessage: \"Nice one\"\n```"

	got := Fields(text, []string{"thought", "track_id", "message"})

	assert.Equal(t, map[string]string{
		"thought":  "Hello world",
		"track_id": "T7",
		"message":  "Nice one",
	}, got)
}

func TestFields_AbsentFieldOmitted(t *testing.T) {
	got := Fields("thought: something", []string{"thought", "message"})

	assert.Equal(t, "something", got["thought"])
	_, ok := got["message"]
	assert.False(t, ok, "absent field must be omitted, not defaulted")
}

func TestFields_WindowingPreventsSwallowing(t *testing.T) {
	// The thought value spans lines; it must stop at the message label.
	text := "thought: first line\nsecond line\nmessage: hi there"

	got := Fields(text, []string{"thought", "message"})

	assert.Equal(t, "first line second line", got["thought"])
	assert.Equal(t, "hi there", got["message"])
}

func TestFields_Various(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
		want     map[string]string
	}{
		{
			name:     "empty text",
			text:     "",
			expected: []string{"thought"},
			want:     map[string]string{},
		},
		{
			name:     "fence only",
			text:     "```yaml\n```",
			expected: []string{"thought"},
			want:     map[string]string{},
		},
		{
			name:     "label without value omitted",
			text:     "thought:\nmessage: hi",
			expected: []string{"thought", "message"},
			want:     map[string]string{"message": "hi"},
		},
		{
			name:     "label anywhere in line",
			text:     "some prefix thought: deep idea",
			expected: []string{"thought"},
			want:     map[string]string{"thought": "deep idea"},
		},
		{
			name:     "line-start occurrence preferred over earlier inline one",
			text:     "the thought: wrong\nthought: right",
			expected: []string{"thought"},
			want:     map[string]string{"thought": "right"},
		},
		{
			name:     "duplicate labels capture first only",
			text:     "track_id: T1\ntrack_id: T2",
			expected: []string{"track_id"},
			want:     map[string]string{"track_id": "T1 track_id: T2"},
		},
		{
			name:     "whitespace runs collapsed",
			text:     "message:    spaced     out\t value",
			expected: []string{"message"},
			want:     map[string]string{"message": "spaced out value"},
		},
		{
			name:     "single quotes stripped",
			text:     "message: 'hello'",
			expected: []string{"message"},
			want:     map[string]string{"message": "hello"},
		},
		{
			name:     "fields out of order",
			text:     "message: later\nthought: earlier",
			expected: []string{"thought", "message"},
			want:     map[string]string{"thought": "earlier", "message": "later"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fields(tt.text, tt.expected))
		})
	}
}

func TestChoiceIndex(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want int
	}{
		{name: "choice colon", text: "choice: 2", max: 4, want: 2},
		{name: "choice equals", text: "Choice = 3", max: 4, want: 3},
		{name: "index form", text: "I pick index 1 here", max: 4, want: 1},
		{name: "bare integer", text: "blah\nthe 2nd option", max: 4, want: 2},
		{name: "clamped to max", text: "choice: 9", max: 2, want: 2},
		{name: "nothing parses", text: "no numbers here", max: 4, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChoiceIndex(tt.text, tt.max))
		})
	}
}
