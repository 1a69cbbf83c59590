package gateway

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	intPattern   = regexp.MustCompile(`^[0-9]+$`)
	floatPattern = regexp.MustCompile(`^[0-9]+\.[0-9]+$`)
)

// CoerceValue converts a single string parameter to a typed scalar. The
// precedence is fixed and order-sensitive: all-digit integers first, then
// decimal-point numbers, then case-insensitive booleans, then the string
// itself.
func CoerceValue(s string) any {
	if intPattern.MatchString(s) {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	}
	if floatPattern.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

// CoerceParams converts query-string parameters to typed values, dropping
// the keys listed in skip (the routing key is never forwarded upstream).
// When a key is repeated, the first value wins.
func CoerceParams(values url.Values, skip ...string) map[string]any {
	skipped := make(map[string]struct{}, len(skip))
	for _, k := range skip {
		skipped[k] = struct{}{}
	}

	out := make(map[string]any, len(values))
	for key, vals := range values {
		if _, ok := skipped[key]; ok {
			continue
		}
		if len(vals) == 0 {
			continue
		}
		out[key] = CoerceValue(vals[0])
	}
	return out
}

// MergeParams writes the coerced parameters into the request's extra
// mapping. Query parameters deliberately override same-named body fields so
// callers can experiment without editing the JSON payload.
func (r *ChatRequest) MergeParams(params map[string]any) {
	if r.Extra == nil {
		r.Extra = make(map[string]any, len(params))
	}
	for k, v := range params {
		r.Extra[k] = v
	}
}
