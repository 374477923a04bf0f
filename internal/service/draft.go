package service

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"
)

// emailPattern is deliberately stricter than what net/mail accepts: the
// remote API rejects addresses without a dotted domain, so we refuse them
// before any network call is made.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Upload is one pending attachment of a draft.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// Draft is the create-ticket form as submitted. It lives only for the
// duration of one submission; nothing is persisted locally.
type Draft struct {
	FirstName   string
	LastName    string
	Email       string
	Summary     string
	Description string
	Attachments []Upload
}

// ValidationError aggregates every missing or invalid field of a draft into
// one human-readable message, so the user fixes the form in a single pass.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid fields: %s", strings.Join(e.Fields, ", "))
}

// Validate checks every field and reports all failures together. A draft
// that fails validation must never reach the gateway.
func (d Draft) Validate() error {
	var bad []string
	if !validName(d.FirstName) {
		bad = append(bad, "first name")
	}
	if !validName(d.LastName) {
		bad = append(bad, "last name")
	}
	if !emailPattern.MatchString(trimmed(d.Email)) {
		bad = append(bad, "email")
	}
	if trimmed(d.Summary) == "" {
		bad = append(bad, "summary")
	}
	if trimmed(d.Description) == "" {
		bad = append(bad, "description")
	}
	if len(bad) > 0 {
		return &ValidationError{Fields: bad}
	}
	return nil
}

// ReporterName is the display name sent to the gateway's custom field.
func (d Draft) ReporterName() string {
	return CleanName(d.FirstName) + " " + CleanName(d.LastName)
}

// CleanName filters a name down to letters and hyphens and capitalizes each
// hyphen-separated part, mirroring what the form does as the user types.
func CleanName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || r == '-' {
			b.WriteRune(r)
		}
	}
	parts := strings.Split(b.String(), "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		runes := []rune(strings.ToLower(p))
		runes[0] = unicode.ToUpper(runes[0])
		parts[i] = string(runes)
	}
	return strings.Join(parts, "-")
}

func validName(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// DedupUploads drops files already pending under the same name and size,
// keeping first occurrences in order.
func DedupUploads(uploads []Upload) []Upload {
	type fileKey struct {
		name string
		size int64
	}
	seen := make(map[fileKey]struct{}, len(uploads))
	out := make([]Upload, 0, len(uploads))
	for _, u := range uploads {
		k := fileKey{u.Filename, u.Size}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, u)
	}
	return out
}

func trimmed(s string) string { return strings.TrimSpace(s) }
