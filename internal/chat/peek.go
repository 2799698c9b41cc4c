package chat

import "strings"

// DefaultPeekWords is the preview length used by the partner list.
const DefaultPeekWords = 5

// Peek builds the short conversation preview shown next to each
// partner: the leading words of the most recent message followed by an
// ellipsis, or a bare ellipsis for an empty conversation.
//
// A preview keeps words+1 tokens, not words: the platform's partner
// list has always cut on "index > peekWordCount", and the extra word
// is part of the product's look. Cost is bounded by the last message's
// length, never by the store size.
func Peek(store *MessageStore, words int) string {
	last, ok := store.Last()
	if !ok {
		return "..."
	}
	tokens := strings.Fields(last.Text)
	if len(tokens) > words+1 {
		tokens = tokens[:words+1]
	}
	return strings.Join(tokens, " ") + "..."
}
