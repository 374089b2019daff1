package jslit

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMarkerNotFound reports that the marker text does not occur.
	ErrMarkerNotFound = errors.New("marker not found")
	// ErrUnbalanced reports a literal whose braces never close.
	ErrUnbalanced = errors.New("unbalanced braces")
)

// Span locates a literal inside a source file. All offsets are byte
// offsets into the source.
type Span struct {
	Marker int // start of the marker text
	Open   int // the opening brace
	Close  int // one past the closing brace
	End    int // one past a ';' following Close on the same line, else Close
}

// Text returns the literal's source text, braces included.
func (s Span) Text(src string) string {
	return src[s.Open:s.Close]
}

// Indent returns the leading whitespace of the marker's line.
func (s Span) Indent(src string) string {
	lineStart := strings.LastIndexByte(src[:s.Marker], '\n') + 1
	line := src[lineStart:s.Marker]
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// Locate finds the first occurrence of marker, then the first '{' after it,
// and scans forward to the matching '}'. Braces inside strings and comments
// are not counted.
func Locate(src, marker string) (Span, error) {
	start := strings.Index(src, marker)
	if start < 0 {
		return Span{}, fmt.Errorf("%w: %q", ErrMarkerNotFound, marker)
	}
	rel := strings.IndexByte(src[start+len(marker):], '{')
	if rel < 0 {
		return Span{}, fmt.Errorf("%w: no '{' after %q", ErrMarkerNotFound, marker)
	}
	open := start + len(marker) + rel

	closeAt, err := matchBrace(src, open)
	if err != nil {
		return Span{}, err
	}

	end := closeAt
	rest := strings.TrimLeft(src[closeAt:], " \t")
	if strings.HasPrefix(rest, ";") {
		end = len(src) - len(rest) + 1
	}
	return Span{Marker: start, Open: open, Close: closeAt, End: end}, nil
}

// matchBrace returns one past the brace closing the one at open.
func matchBrace(src string, open int) (int, error) {
	depth := 0
	for i := open; i < len(src); i++ {
		switch c := src[i]; c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, nil
			}
		case '"', '\'', '`':
			i = skipString(src, i)
		case '/':
			if i+1 < len(src) && src[i+1] == '/' {
				nl := strings.IndexByte(src[i:], '\n')
				if nl < 0 {
					i = len(src)
				} else {
					i += nl
				}
			} else if i+1 < len(src) && src[i+1] == '*' {
				endc := strings.Index(src[i+2:], "*/")
				if endc < 0 {
					i = len(src)
				} else {
					i += endc + 3
				}
			}
		}
	}
	return 0, fmt.Errorf("%w: literal opened at offset %d", ErrUnbalanced, open)
}

// skipString returns the index of the quote closing the string opened at i.
func skipString(src string, i int) int {
	quote := src[i]
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case quote:
			return j
		}
	}
	return len(src)
}
