package key

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Control codes with special meaning.
const (
	CodeTab     rune = '\t'
	CodeNewline rune = '\n'
	CodeEscape  rune = 0x1b
	CodeDelete  rune = 0x7f
)

// Parse errors
var (
	ErrEmptySpec          = errors.New("empty key specification")
	ErrInvalidSpec        = errors.New("invalid key specification")
	ErrUnknownCommandName = errors.New("unknown command name")
)

var namedCodes = map[string]rune{
	"del":       CodeDelete,
	"delete":    CodeDelete,
	"backspace": CodeDelete,
	"bs":        CodeDelete,
	"enter":     CodeNewline,
	"return":    CodeNewline,
	"cr":        CodeNewline,
	"tab":       CodeTab,
	"esc":       CodeEscape,
	"escape":    CodeEscape,
	"space":     ' ',
}

// ParseCode parses a key specification into an input code.
func ParseCode(spec string) (rune, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return 0, ErrEmptySpec
	}

	// Single character
	if utf8.RuneCountInString(spec) == 1 {
		r, _ := utf8.DecodeRuneInString(spec)
		return r, nil
	}

	// Caret notation: ^q, ^?
	if strings.HasPrefix(spec, "^") && utf8.RuneCountInString(spec) == 2 {
		return caret(rune(spec[1]))
	}

	// Vim-style: <C-q>, <BS>
	if strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		inner := spec[1 : len(spec)-1]
		if rest, ok := cutPrefixFold(inner, "C-"); ok {
			return ctrl(rest, spec)
		}
		return named(inner, spec)
	}

	// Modifier style: Ctrl+Q
	if rest, ok := cutPrefixFold(spec, "Ctrl+"); ok {
		return ctrl(rest, spec)
	}

	// Decimal code
	if n, err := strconv.ParseInt(spec, 10, 32); err == nil {
		if n < 0 || n > unicode.MaxRune {
			return 0, fmt.Errorf("%w: code %d out of range", ErrInvalidSpec, n)
		}
		return rune(n), nil
	}

	return named(spec, spec)
}

// FormatCode returns a readable caret-notation form of an input code.
func FormatCode(code rune) string {
	switch {
	case code == CodeDelete:
		return "^?"
	case code < 0x20:
		return "^" + string(code+'@')
	case code == ' ':
		return "Space"
	default:
		return string(code)
	}
}

func caret(r rune) (rune, error) {
	if r == '?' {
		return CodeDelete, nil
	}
	up := unicode.ToUpper(r)
	if up < '@' || up > '_' {
		return 0, fmt.Errorf("%w: ^%c", ErrInvalidSpec, r)
	}
	return up - '@', nil
}

func ctrl(rest, spec string) (rune, error) {
	if utf8.RuneCountInString(rest) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSpec, spec)
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return caret(r)
}

func named(name, spec string) (rune, error) {
	if code, ok := namedCodes[strings.ToLower(name)]; ok {
		return code, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSpec, spec)
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}
