package pdfgen

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/Hoc27/cerropunta-app/util"
)

// FontMetric measures the rendered width of a string at some font face and
// size, both bound by the caller.
type FontMetric func(text string) (float64, error)

// Wrap splits text into lines no wider than maxWidth using greedy word
// wrapping. It always returns at least one line, never splits inside a
// word, and places a single over-wide word alone on its line. A failed
// measurement keeps the word on the current line rather than aborting.
func Wrap(text string, maxWidth float64, measure FontMetric) []string {
	if text == "" {
		return []string{""}
	}

	words := strings.Split(text, " ")
	lines := []string{}
	currentLine := words[0]

	for _, word := range words[1:] {
		width, err := measure(currentLine + " " + word)
		if err != nil {
			util.ErrorLogger.Warnf("Failed to measure text %q: %v", currentLine+" "+word, err)
			currentLine += " " + word
			continue
		}

		if width < maxWidth {
			currentLine += " " + word
		} else {
			lines = append(lines, currentLine)
			currentLine = word
		}
	}

	return append(lines, currentLine)
}

// Normalize reduces text to the ASCII subset the embedded fonts can render:
// accented characters lose their diacritics, everything else non-ASCII is
// dropped, and only word characters, whitespace and basic punctuation
// survive. Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	decomposed := norm.NFD.String(text)
	var b strings.Builder
	b.Grow(len(decomposed))

	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue // diacritic stripped off its base
		}
		if r > unicode.MaxASCII {
			continue
		}
		if allowedRune(r) {
			b.WriteRune(r)
		}
	}

	return b.String()
}

func allowedRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		return true
	case unicode.IsSpace(r):
		return true
	}
	switch r {
	case '.', ',', ';', ':', '!', '?', '(', ')', '/', '-', '"', '\'':
		return true
	}
	return false
}
