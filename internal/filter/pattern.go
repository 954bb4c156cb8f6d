package filter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// Patterns follow find -path semantics: '*', '?' and bracket classes all match '/',
// '[!...]' negates a class and '\' escapes the next character.

// Match reports whether path matches pattern.
func Match(pattern, path string) (bool, error) {
	re, err := compilePattern(pattern)
	if err != nil {
		return false, err
	}

	return re.MatchString(path), nil
}

// matcher is a compiled set of patterns.
type matcher []*regexp.Regexp

func newMatcher(patterns []string) (matcher, error) {
	compiled := make(matcher, 0, len(patterns))

	for _, p := range patterns {
		re, err := compilePattern(p)
		if err != nil {
			return nil, err
		}

		compiled = append(compiled, re)
	}

	return compiled, nil
}

func (m matcher) matchAny(path string) bool {
	for _, re := range m {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}

//nolint:gochecknoglobals
var compiled sync.Map

func compilePattern(pattern string) (*regexp.Regexp, error) {
	if cached, ok := compiled.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil //nolint:forcetypeassert // only *regexp.Regexp is stored
	}

	expr, err := translate(pattern)
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", pattern, err)
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", pattern, err)
	}

	compiled.Store(pattern, re)

	return re, nil
}

// translate rewrites a glob into an anchored regular expression.
func translate(pattern string) (string, error) {
	var out strings.Builder

	out.WriteByte('^')

	for pos := 0; pos < len(pattern); pos++ {
		switch c := pattern[pos]; c {
		case '*':
			out.WriteString(".*")
		case '?':
			out.WriteByte('.')
		case '\\':
			if pos+1 == len(pattern) {
				return "", errors.New("trailing backslash")
			}

			pos++
			out.WriteString(regexp.QuoteMeta(pattern[pos : pos+1]))
		case '[':
			end, err := classEnd(pattern, pos)
			if err != nil {
				return "", err
			}

			class := pattern[pos+1 : end]
			if strings.HasPrefix(class, "!") && len(class) > 1 {
				class = "^" + class[1:]
			}

			out.WriteString("[" + class + "]")

			pos = end
		default:
			out.WriteString(regexp.QuoteMeta(pattern[pos : pos+1]))
		}
	}

	out.WriteByte('$')

	return out.String(), nil
}

// classEnd returns the index of the ']' closing the class opened at start.
// A ']' directly after '[' or '[!' is a literal member.
func classEnd(pattern string, start int) (int, error) {
	idx := start + 1

	if idx < len(pattern) && pattern[idx] == '!' {
		idx++
	}

	if idx < len(pattern) && pattern[idx] == ']' {
		idx++
	}

	if end := strings.IndexByte(pattern[idx:], ']'); end >= 0 {
		return idx + end, nil
	}

	return 0, errors.New("unclosed character class")
}
