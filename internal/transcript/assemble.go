package transcript

import (
	"regexp"
	"strings"
	"unicode"
)

// Options controls transcript assembly formatting behavior.
type Options struct {
	CapitalizeSentences bool
}

var (
	pronounIPattern     = regexp.MustCompile(`\bi\b`)
	pronounIContraction = regexp.MustCompile(`\bi['’](?:m|d|ll|ve|re|s)\b`)
)

// Assemble joins recognizer segments into display text.
func Assemble(segments []string, opts Options) string {
	normalized := strings.Join(strings.Fields(strings.Join(segments, " ")), " ")
	if normalized == "" {
		return ""
	}
	if opts.CapitalizeSentences {
		normalized = capitalizeSentences(normalized)
	}
	return normalized
}

// capitalizeSentences upper-cases the first letter of each sentence and the
// standalone pronoun "i". Offline recognizers emit lowercase text only.
func capitalizeSentences(text string) string {
	runes := []rune(text)
	atStart := true
	for i, r := range runes {
		switch {
		case atStart && unicode.IsLetter(r):
			runes[i] = unicode.ToUpper(r)
			atStart = false
		case r == '.' || r == '!' || r == '?':
			atStart = i+1 == len(runes) || unicode.IsSpace(runes[i+1])
		case unicode.IsDigit(r):
			atStart = false
		}
	}
	text = string(runes)

	text = pronounIContraction.ReplaceAllStringFunc(text, func(m string) string {
		return "I" + m[1:]
	})
	return pronounIPattern.ReplaceAllStringFunc(text, func(string) string { return "I" })
}
