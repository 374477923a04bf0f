package utils

import (
	"net/url"
	"strconv"
	"strings"
)

// QueryInt parses an integer query parameter, falling back to def when the
// parameter is missing or malformed.
func QueryInt(q url.Values, key string, def int) int {
	v := q.Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// QueryString returns a trimmed query parameter.
func QueryString(q url.Values, key string) string {
	return strings.TrimSpace(q.Get(key))
}
