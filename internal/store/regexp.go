package store

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"sync"

	"github.com/dlclark/regexp2"
	"modernc.org/sqlite"

	"github.com/scoreforum/phorum/internal/unaccent"
)

// uregexp(pattern, text) is the SQL realization of diacritics-insensitive,
// case-insensitive, word-boundary regex matching: the column side of every
// search filter. Patterns arrive in the store dialect (\y boundaries) and
// are evaluated by a Unicode-aware engine against the unaccented text, so
// "kočka" and "kocka" match either way around.
func init() {
	sqlite.MustRegisterDeterministicScalarFunction("uregexp", 2, uregexpFunc)
}

func uregexpFunc(tctx *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	pattern, ok := args[0].(string)
	if !ok {
		return int64(0), nil
	}
	text, ok := args[1].(string)
	if !ok {
		// NULL text matches nothing.
		return int64(0), nil
	}

	re, err := compiledPattern(pattern)
	if err != nil {
		return nil, err
	}

	matched, err := re.MatchString(unaccent.String(text))
	if err != nil {
		return nil, fmt.Errorf("uregexp: %w", err)
	}
	if matched {
		return int64(1), nil
	}
	return int64(0), nil
}

var patternCache = struct {
	sync.Mutex
	m map[string]*regexp2.Regexp
}{m: make(map[string]*regexp2.Regexp)}

// compiledPattern translates a store-dialect pattern to the engine's own
// boundary syntax and compiles it, caching the result. Patterns are
// stateless, so one compiled instance serves every row and request.
func compiledPattern(pattern string) (*regexp2.Regexp, error) {
	patternCache.Lock()
	defer patternCache.Unlock()

	if re, ok := patternCache.m[pattern]; ok {
		return re, nil
	}
	re, err := regexp2.Compile(translateBoundaries(pattern), regexp2.IgnoreCase)
	if err != nil {
		return nil, fmt.Errorf("uregexp: bad pattern %q: %w", pattern, err)
	}
	patternCache.m[pattern] = re
	return re, nil
}

// translateBoundaries rewrites \y boundary operators to \b. Only an
// unescaped \y is a boundary: \\y is an escaped backslash followed by a
// literal y and must survive untouched.
func translateBoundaries(pattern string) string {
	var b strings.Builder
	b.Grow(len(pattern))

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 < len(pattern) {
			if pattern[i+1] == 'y' {
				b.WriteString(`\b`)
			} else {
				b.WriteByte(c)
				b.WriteByte(pattern[i+1])
			}
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
