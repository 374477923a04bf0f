package utils

import "context"

// GetString reads a string value out of the request context, reporting
// whether it was present.
func GetString(ctx context.Context, key any) (string, bool) {
	v := ctx.Value(key)
	s, ok := v.(string)
	return s, ok
}
