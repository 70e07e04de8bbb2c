package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeSpacing collapses each run of horizontal whitespace into one space,
// keeps at most one blank line between paragraphs and trims both ends.
func NormalizeSpacing(s string) string {
	s = strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(s)

	var b strings.Builder
	b.Grow(len(s))

	space, newlines := false, 0
	for _, r := range s {
		switch {
		case r == '\n':
			space = false
			newlines++
		case unicode.IsSpace(r):
			space = true
		default:
			if b.Len() > 0 {
				if newlines > 0 {
					b.WriteString(strings.Repeat("\n", min(newlines, 2)))
				} else if space {
					b.WriteByte(' ')
				}
			}
			space, newlines = false, 0
			b.WriteRune(r)
		}
	}

	return b.String()
}

// TruncateRunes shortens s to at most maxRunes runes, ending with "..." when cut.
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	if maxRunes <= 3 {
		return string([]rune(s)[:maxRunes])
	}
	return string([]rune(s)[:maxRunes-3]) + "..."
}

// SplitMessage breaks content into chunks of at most maxRunes runes, preferring
// to cut at the last newline, then the last space, inside each window.
func SplitMessage(content string, maxRunes int) []string {
	if maxRunes <= 0 {
		return nil
	}

	runes := []rune(content)
	if len(runes) <= maxRunes {
		return []string{content}
	}

	var chunks []string
	for len(runes) > maxRunes {
		// The rune just past the limit may itself be a separator
		window := runes[:maxRunes+1]

		cut := lastIndexRune(window, '\n')
		if cut <= 0 {
			cut = lastIndexRune(window, ' ')
		}
		if cut <= 0 {
			cut = maxRunes
		}

		chunk := strings.TrimRight(string(runes[:cut]), " \n")
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		runes = runes[cut:]
		// Drop the separator we split on
		for len(runes) > 0 && (runes[0] == '\n' || runes[0] == ' ') {
			runes = runes[1:]
		}
	}

	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}

	return chunks
}

func lastIndexRune(runes []rune, r rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}
