package sufast

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ParamType is the declared type of a path parameter parsed out of a route
// pattern's `{name:type}` placeholder.
type ParamType uint8

// Recognized parameter types. An unrecognized type suffix in a placeholder
// falls back to ParamString.
const (
	ParamString ParamType = iota
	ParamInt
	ParamFloat
	ParamUUID
	ParamSlug
)

// String returns the canonical name of the pt, as it would appear after the
// ":" in a placeholder.
func (pt ParamType) String() string {
	switch pt {
	case ParamInt:
		return "int"
	case ParamFloat:
		return "float"
	case ParamUUID:
		return "uuid"
	case ParamSlug:
		return "slug"
	default:
		return "string"
	}
}

func parseParamType(s string) ParamType {
	switch s {
	case "int":
		return ParamInt
	case "float":
		return ParamFloat
	case "uuid":
		return ParamUUID
	case "slug":
		return ParamSlug
	default:
		return ParamString
	}
}

// segmentPattern is the regex fragment (already parenthesized as a capture
// group) used for each ParamType.
var segmentPattern = map[ParamType]string{
	ParamString: `([^/]+)`,
	ParamInt:    `(-?[0-9]+)`,
	ParamFloat:  `(-?[0-9]+(?:\.[0-9]+)?)`,
	// Canonical, lowercase-hex-only 8-4-4-4-12. Anything else (uppercase,
	// missing hyphens, wrong hyphen positions) simply fails to match this
	// fragment.
	ParamUUID: `([0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})`,
	ParamSlug: `([A-Za-z0-9-]+)`,
}

// ParamDescriptor names one captured path parameter and its declared type,
// in the order it appears in the originating pattern.
type ParamDescriptor struct {
	Name string
	Type ParamType
}

// CompiledPattern is the anchored matcher produced by Compile. It is safe
// for concurrent use by multiple goroutines; it holds no mutable state past
// construction.
type CompiledPattern struct {
	Raw    string
	re     *regexp.Regexp
	Params []ParamDescriptor
}

// Compile parses a route pattern (STATIC segments interspersed with
// "{name}" or "{name:type}" placeholders) into a CompiledPattern. It returns
// an error only for a duplicate parameter name; every other input,
// including a malformed "{" with no matching "}", compiles successfully by
// falling back to treating the offending text as a literal.
//
// Compiling the same pattern twice always yields matchers that accept
// exactly the same language of paths; Compile holds no state shared across
// calls.
func Compile(pattern string) (*CompiledPattern, error) {
	var (
		re   strings.Builder
		seen = map[string]bool{}
		cp   = &CompiledPattern{Raw: pattern}
	)

	re.WriteByte('^')

	i, n := 0, len(pattern)
	for i < n {
		if pattern[i] != '{' {
			re.WriteString(regexp.QuoteMeta(string(pattern[i])))
			i++
			continue
		}

		end := strings.IndexByte(pattern[i:], '}')
		if end < 0 {
			// Malformed placeholder: no closing brace. Treat the
			// rest of the pattern, starting with this "{", as a
			// literal.
			re.WriteString(regexp.QuoteMeta(pattern[i:]))
			i = n
			break
		}
		end += i

		spec := pattern[i+1 : end]
		name, typ := spec, "string"
		if idx := strings.IndexByte(spec, ':'); idx >= 0 {
			name, typ = spec[:idx], spec[idx+1:]
		}

		if seen[name] {
			return nil, fmt.Errorf(
				"sufast: duplicate parameter name %q in pattern %q",
				name, pattern,
			)
		}
		seen[name] = true

		pt := parseParamType(typ)
		cp.Params = append(cp.Params, ParamDescriptor{Name: name, Type: pt})
		re.WriteString(segmentPattern[pt])

		i = end + 1
	}

	re.WriteByte('$')
	cp.re = regexp.MustCompile(re.String())

	return cp, nil
}

// MustCompile is like Compile but panics on error. It exists for static,
// trusted patterns baked into a program, where a registration-time programmer error should panic rather than be
// returned up a call chain that has no way to recover from it.
func MustCompile(pattern string) *CompiledPattern {
	cp, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return cp
}

// Match reports whether path satisfies the cp, and if so returns the
// extracted parameter values keyed by name. Every captured value is
// re-validated against its declared type; a single failure turns the whole
// match into a non-match, protecting against segment classes that the
// regex alone over-accepts (notably int, whose digit run can exceed the
// 64-bit range).
func (cp *CompiledPattern) Match(path string) (map[string]string, bool) {
	m := cp.re.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}

	params := make(map[string]string, len(cp.Params))
	for idx, pd := range cp.Params {
		val := m[idx+1]
		if !validate(pd.Type, val) {
			return nil, false
		}
		params[pd.Name] = val
	}

	return params, true
}

// validate re-checks a captured segment value against its declared type,
// the "double-check" required by the pattern compiler's documented
// behavior.
func validate(pt ParamType, val string) bool {
	switch pt {
	case ParamInt:
		_, err := strconv.ParseInt(val, 10, 64)
		return err == nil
	case ParamFloat:
		_, err := strconv.ParseFloat(val, 64)
		return err == nil
	case ParamUUID:
		parsed, err := uuid.Parse(val)
		return err == nil && parsed.String() == val
	default:
		return true
	}
}
