package models

import "time"

// TicketSummary is the list-view projection of a remote issue.
type TicketSummary struct {
	ID       string    `json:"id,omitempty"`
	Key      string    `json:"key"`
	Summary  string    `json:"summary"`
	Status   string    `json:"status"`
	Reporter string    `json:"reporter"`
	Created  time.Time `json:"created"`
}

// Ticket is the detail-view projection: the summary plus rendered
// description, attachments and comments (newest first).
type Ticket struct {
	TicketSummary
	DescriptionHTML string       `json:"descriptionHtml"`
	Attachments     []Attachment `json:"attachments"`
	Comments        []Comment    `json:"comments"`
}

type Attachment struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

type Comment struct {
	ID       string    `json:"id"`
	Author   string    `json:"author"`
	BodyHTML string    `json:"bodyHtml"`
	Created  time.Time `json:"created"`
}

// AttachmentData carries downloaded attachment bytes back to the browser.
type AttachmentData struct {
	Filename    string
	ContentType string
	Data        []byte
}
