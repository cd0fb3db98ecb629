package summarize

import "strings"

// SplitWords partitions words into ordered chunks whose serialized length
// (word bytes plus one separating space each) stays within budget. Words are
// never split or dropped; a single word longer than the budget becomes its
// own oversized chunk. Empty input yields no chunks.
func SplitWords(words []string, budget int) [][]string {
	var chunks [][]string
	var current []string
	size := 0

	for _, word := range words {
		wordSize := len(word) + 1 // +1 for space

		if size+wordSize > budget && len(current) > 0 {
			chunks = append(chunks, current)
			current = []string{word}
			size = wordSize
		} else {
			current = append(current, word)
			size += wordSize
		}
	}

	if len(current) > 0 {
		chunks = append(chunks, current)
	}

	return chunks
}

// Split chunks whitespace-separated text by the given character budget.
func Split(text string, budget int) []string {
	wordChunks := SplitWords(strings.Fields(text), budget)

	chunks := make([]string, 0, len(wordChunks))
	for _, words := range wordChunks {
		chunks = append(chunks, strings.Join(words, " "))
	}
	return chunks
}
