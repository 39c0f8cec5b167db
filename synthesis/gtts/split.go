package gtts

import (
	"strings"
	"unicode"
)

// maxChunkRunes is the longest text the speech endpoint accepts per call.
const maxChunkRunes = 100

// splitText breaks text into chunks of at most max runes. It cuts after
// sentence punctuation when possible, then at whitespace, and only splits
// a word that is longer than max on its own.
func splitText(text string, max int) []string {
	text = strings.Join(strings.Fields(text), " ")
	var chunks []string
	for {
		runes := []rune(text)
		if len(runes) <= max {
			break
		}
		cut := lastPunctuation(runes, max)
		if cut <= 0 {
			cut = lastSpace(runes, max)
		}
		if cut <= 0 {
			cut = max
		}
		if chunk := strings.TrimSpace(string(runes[:cut])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		text = strings.TrimSpace(string(runes[cut:]))
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

// lastPunctuation returns the cut index just after the last punctuation
// mark within the first max runes that is followed by a space.
func lastPunctuation(runes []rune, max int) int {
	for i := max; i > 0; i-- {
		if isBreak(runes[i-1]) && unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return 0
}

func lastSpace(runes []rune, max int) int {
	for i := max; i > 0; i-- {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return 0
}

func isBreak(r rune) bool {
	switch r {
	case '.', ',', ';', ':', '!', '?', '…', '。', '，', '、', '！', '？', '؟', '।':
		return true
	}
	return false
}
