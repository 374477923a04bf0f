package jira

import (
	"encoding/json"
	"time"
)

// Issue is the remote ticket record. The client never mutates one; changes
// go back through explicit create/comment/attach calls.
type Issue struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Fields Fields `json:"fields"`
}

type Fields struct {
	Summary     string          `json:"summary"`
	Status      Status          `json:"status"`
	Created     string          `json:"created"`
	Description json.RawMessage `json:"description,omitempty"`
	Attachments []Attachment    `json:"attachment,omitempty"`
	Comments    *CommentPage    `json:"comment,omitempty"`

	// Every key of the fields object, kept so configurable custom fields
	// (reporter name, reporter email) stay reachable by ID.
	custom map[string]json.RawMessage
}

func (f *Fields) UnmarshalJSON(b []byte) error {
	type plain Fields
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*f = Fields(p)
	f.custom = raw
	return nil
}

// CustomString returns the string value of a custom field, or "" when the
// field is absent or not a string.
func (f Fields) CustomString(id string) string {
	raw, ok := f.custom[id]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

type Status struct {
	Name string `json:"name"`
}

type Attachment struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType,omitempty"`
}

type CommentPage struct {
	Total    int       `json:"total"`
	Comments []Comment `json:"comments"`
}

type Comment struct {
	ID      string          `json:"id"`
	Author  User            `json:"author"`
	Body    json.RawMessage `json:"body"`
	Created string          `json:"created"`
}

type User struct {
	AccountID   string `json:"accountId,omitempty"`
	DisplayName string `json:"displayName"`
}

type SearchResult struct {
	Total      int     `json:"total"`
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Issues     []Issue `json:"issues"`
}

// CreatedIssue is the create-issue response: the gateway assigns id and key.
type CreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self,omitempty"`
}

// timeFormats covers the timestamp shapes the remote API emits.
var timeFormats = []string{
	"2006-01-02T15:04:05.000-0700",
	time.RFC3339,
}

// ParseTime parses a gateway timestamp, returning the zero time when the
// value is absent or malformed so callers can sort without error plumbing.
func ParseTime(s string) time.Time {
	for _, layout := range timeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
