// Package transcript tracks the live answer text and normalizes recognizer output.
package transcript

import (
	"strings"
	"unicode/utf8"
)

// Accumulator holds the in-progress answer and the length watermark used to
// detect new speech between silence ticks.
//
// Word count and length are always derived from the stored text.
type Accumulator struct {
	text      string
	watermark int
}

// Set replaces the current text and reports whether it differs from the
// previous value. The watermark is left for Observe.
func (a *Accumulator) Set(text string) bool {
	if text == a.text {
		return false
	}
	a.text = text
	return true
}

// Observe reports whether the trimmed length moved away from the watermark
// since the last call. The watermark follows the current length.
func (a *Accumulator) Observe() bool {
	length := Length(a.text)
	if length == a.watermark {
		return false
	}
	a.watermark = length
	return true
}

// Text returns the raw accumulated text.
func (a *Accumulator) Text() string {
	return a.text
}

// Trimmed returns the accumulated text without surrounding whitespace.
func (a *Accumulator) Trimmed() string {
	return strings.TrimSpace(a.text)
}

// Words returns the whitespace-delimited token count of the current text.
func (a *Accumulator) Words() int {
	return WordCount(a.text)
}

// Length returns the trimmed character count of the current text.
func (a *Accumulator) Length() int {
	return Length(a.text)
}

// Watermark returns the last observed trimmed length.
func (a *Accumulator) Watermark() int {
	return a.watermark
}

// Empty reports whether the trimmed text is empty.
func (a *Accumulator) Empty() bool {
	return a.Trimmed() == ""
}

// Reset clears text and watermark.
func (a *Accumulator) Reset() {
	a.text = ""
	a.watermark = 0
}

// WordCount counts non-empty whitespace-delimited tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Length counts characters of text after trimming surrounding whitespace.
func Length(text string) int {
	return utf8.RuneCountInString(strings.TrimSpace(text))
}
