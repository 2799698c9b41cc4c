package chat

import (
	"testing"
	"time"
)

func TestPeek(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		words int
		want  string
	}{
		{
			// Six tokens survive a five-word peek; the cut has always
			// been one past the configured count.
			name:  "long message keeps words plus one",
			text:  "a b c d e f g",
			words: 5,
			want:  "a b c d e f...",
		},
		{
			name:  "short message kept whole",
			text:  "see you tomorrow",
			words: 5,
			want:  "see you tomorrow...",
		},
		{
			name:  "exactly at the cut",
			text:  "one two three four five six",
			words: 5,
			want:  "one two three four five six...",
		},
		{
			name:  "zero word peek",
			text:  "hello there",
			words: 0,
			want:  "hello...",
		},
		{
			name:  "collapses runs of whitespace",
			text:  "a\t b   c",
			words: 5,
			want:  "a b c...",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMessageStore()
			s.Append(msg("an older message that must not matter", time.Now()))
			s.Append(msg(tt.text, time.Now()))
			if got := Peek(s, tt.words); got != tt.want {
				t.Errorf("Peek() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPeek_EmptyStore(t *testing.T) {
	if got := Peek(NewMessageStore(), DefaultPeekWords); got != "..." {
		t.Errorf("Peek(empty) = %q, want ...", got)
	}
}
