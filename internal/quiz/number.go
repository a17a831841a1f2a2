package quiz

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValidationError reports why a request parameter was rejected. Its JSON
// form is returned to clients under the "error" key.
type ValidationError struct {
	Name   string  `json:"name"`
	Issues []Issue `json:"issues"`
}

// Issue is a single parameter problem.
type Issue struct {
	Code     string   `json:"code"`
	Expected string   `json:"expected,omitempty"`
	Received string   `json:"received,omitempty"`
	Path     []string `json:"path"`
	Message  string   `json:"message"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		msgs[i] = fmt.Sprintf("%s: %s", strings.Join(is.Path, "."), is.Message)
	}
	return strings.Join(msgs, "; ")
}

func paramError(param string, is Issue) *ValidationError {
	is.Path = []string{param}
	return &ValidationError{Name: "ValidationError", Issues: []Issue{is}}
}

// ParseNumber converts a raw question id, from a path segment or a CLI
// argument, the way a numeric coercion would: surrounding whitespace is
// ignored, a blank value is zero and 0x/0o/0b prefixes are accepted. The result must be a finite
// integer that fits in an int64.
func ParseNumber(param, raw string) (int64, *ValidationError) {
	f, ok := parseNumber(strings.TrimSpace(raw))
	switch {
	case !ok:
		return 0, paramError(param, Issue{
			Code:     "invalid_type",
			Expected: "number",
			Received: "nan",
			Message:  "Expected number, received nan",
		})
	case math.IsInf(f, 0):
		return 0, paramError(param, Issue{
			Code:    "not_finite",
			Message: "Number must be finite",
		})
	case f != math.Trunc(f):
		return 0, paramError(param, Issue{
			Code:     "invalid_type",
			Expected: "integer",
			Received: "float",
			Message:  "Expected integer, received float",
		})
	case f >= 0x1p63:
		return 0, paramError(param, Issue{
			Code:    "too_big",
			Message: fmt.Sprintf("Number must be less than or equal to %d", int64(math.MaxInt64)),
		})
	case f < -0x1p63:
		return 0, paramError(param, Issue{
			Code:    "too_small",
			Message: fmt.Sprintf("Number must be greater than or equal to %d", int64(math.MinInt64)),
		})
	}
	return int64(f), nil
}

func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, true
	}
	if hasRadixPrefix(s) {
		n, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return 0, false
		}
		return float64(n), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Out-of-range literals parse to ±Inf and are rejected as non-finite.
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f, true
		}
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func hasRadixPrefix(s string) bool {
	if len(s) < 2 || s[0] != '0' {
		return false
	}
	switch s[1] {
	case 'x', 'X', 'o', 'O', 'b', 'B':
		return true
	}
	return false
}
