package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

func decodeJSONC(content string) (fileConfig, error) {
	normalized, err := normalizeJSONC(content)
	if err != nil {
		return fileConfig{}, err
	}

	decoder := json.NewDecoder(strings.NewReader(normalized))
	decoder.DisallowUnknownFields()

	var payload fileConfig
	if err := decoder.Decode(&payload); err != nil {
		return fileConfig{}, wrapJSONDecodeError(normalized, err)
	}
	if err := ensureSingleJSONValue(decoder); err != nil {
		return fileConfig{}, wrapJSONDecodeError(normalized, err)
	}
	return payload, nil
}

// normalizeJSONC blanks comments and trailing commas with spaces. The output
// has the same byte length and line structure as the input, so decoder
// offsets map straight back to the file.
func normalizeJSONC(content string) (string, error) {
	out := []byte(content)
	for i := 0; i < len(out); {
		switch {
		case out[i] == '"':
			i = skipJSONString(out, i)
		case out[i] == ',':
			if next := nextSignificant(out, i+1); next < len(out) && (out[next] == '}' || out[next] == ']') {
				out[i] = ' '
			}
			i++
		case hasPrefixAt(out, i, "//"):
			end := i
			for end < len(out) && out[end] != '\n' && out[end] != '\r' {
				end++
			}
			blank(out, i, end)
			i = end
		case hasPrefixAt(out, i, "/*"):
			end := commentEnd(out, i)
			if end < 0 {
				return "", errors.New("unterminated block comment in JSONC")
			}
			blank(out, i, end)
			i = end
		default:
			i++
		}
	}
	return string(out), nil
}

// skipJSONString returns the index just past the string starting at quote.
func skipJSONString(b []byte, quote int) int {
	for i := quote + 1; i < len(b); i++ {
		switch b[i] {
		case '\\':
			i++
		case '"':
			return i + 1
		}
	}
	return len(b)
}

// commentEnd returns the index just past the block comment starting at i, or
// -1 when it never closes.
func commentEnd(b []byte, i int) int {
	idx := strings.Index(string(b[i+2:]), "*/")
	if idx < 0 {
		return -1
	}
	return i + 2 + idx + 2
}

// nextSignificant returns the index of the next byte that is neither JSON
// whitespace nor inside a comment.
func nextSignificant(b []byte, i int) int {
	for i < len(b) {
		switch {
		case isJSONWhitespace(b[i]):
			i++
		case hasPrefixAt(b, i, "//"):
			for i < len(b) && b[i] != '\n' {
				i++
			}
		case hasPrefixAt(b, i, "/*"):
			end := commentEnd(b, i)
			if end < 0 {
				return len(b)
			}
			i = end
		default:
			return i
		}
	}
	return i
}

func hasPrefixAt(b []byte, i int, prefix string) bool {
	return i+len(prefix) <= len(b) && string(b[i:i+len(prefix)]) == prefix
}

// blank overwrites b[from:to] with spaces, keeping line breaks and tabs.
func blank(b []byte, from, to int) {
	for i := from; i < to; i++ {
		switch b[i] {
		case '\n', '\r', '\t':
		default:
			b[i] = ' '
		}
	}
}

func isJSONWhitespace(ch byte) bool {
	switch ch {
	case ' ', '\n', '\r', '\t':
		return true
	default:
		return false
	}
}

func ensureSingleJSONValue(decoder *json.Decoder) error {
	var extra struct{}
	err := decoder.Decode(&extra)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err == nil {
		return fmt.Errorf("multiple JSON values are not allowed")
	}
	return err
}

func wrapJSONDecodeError(content string, err error) error {
	var offset int64
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	default:
		return err
	}
	line, col := offsetToLineCol(content, offset)
	return fmt.Errorf("line %d column %d: %w", line, col, err)
}

// offsetToLineCol maps a decoder offset, which points just past the offending
// byte, to a 1-based line and column.
func offsetToLineCol(content string, offset int64) (int, int) {
	if offset <= 0 {
		return 1, 1
	}
	limit := min(int(offset), len(content))
	prefix := content[:max(limit-1, 0)]

	line := 1 + strings.Count(prefix, "\n")
	col := len(prefix) - (strings.LastIndexByte(prefix, '\n') + 1) + 1
	return line, col
}
