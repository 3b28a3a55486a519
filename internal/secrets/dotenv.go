package secrets

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	apperrors "github.com/significa/1password-secrets/internal/errors"
)

// envKeyPattern matches the key of an assignment line. It only recovers
// declaration order; godotenv owns the value semantics (quoting, comments,
// export prefixes).
var envKeyPattern = regexp.MustCompile(`^\s*(?:export\s+)?([A-Za-z_][A-Za-z0-9_.]*)\s*=`)

// ParseEnv parses line-oriented KEY=VALUE content into an ordered secret set.
// Keys keep the order of their first appearance in the input; a repeated key
// keeps its first position with the last value, matching dotenv semantics.
func ParseEnv(data []byte) (*SecretSet, error) {
	values, err := godotenv.UnmarshalBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse env content: %v", apperrors.ErrLocalFile, err)
	}

	set := NewSecretSet()
	for _, line := range strings.Split(string(data), "\n") {
		m := envKeyPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if v, ok := values[m[1]]; ok && !set.Has(m[1]) {
			set.Set(m[1], v)
		}
	}

	// Keys godotenv produced that the order scan did not see (multiline
	// values and similar edge cases) are appended in sorted order so the
	// result stays deterministic.
	var rest []string
	for k := range values {
		if !set.Has(k) {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		set.Set(k, values[k])
	}

	return set, nil
}

// FormatEnv serializes a secret set to env-file lines in set order.
// The output round-trips through ParseEnv.
func FormatEnv(s *SecretSet) []byte {
	var b strings.Builder
	for _, key := range s.Keys() {
		v, _ := s.Get(key)
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(quoteEnvValue(v))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// quoteEnvValue quotes a value when it would not survive an unquoted
// round-trip. Single quotes are preferred because they are literal; double
// quotes with escapes are the fallback for values containing single quotes
// or newlines.
func quoteEnvValue(v string) string {
	if v == "" || !strings.ContainsAny(v, " \t\r\n#\"'\\$`") {
		return v
	}
	if !strings.ContainsAny(v, "'\r\n") {
		return "'" + v + "'"
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	v = strings.ReplaceAll(v, "\r", `\r`)
	v = strings.ReplaceAll(v, "\n", `\n`)
	return `"` + v + `"`
}
