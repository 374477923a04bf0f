package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/rs/zerolog"

	"helpdesk/internal/adf"
	"helpdesk/internal/jira"
	"helpdesk/internal/models"
)

// ErrEmptyComment rejects comment submissions that are blank after trimming.
var ErrEmptyComment = errors.New("comment text is empty")

// ErrAttachmentEmpty marks a download that transferred successfully but
// carried zero bytes, which is a distinct failure from a transport error.
var ErrAttachmentEmpty = errors.New("attachment is empty")

// Gateway is the slice of the remote ticketing client the service needs.
type Gateway interface {
	SearchAll(ctx context.Context) ([]jira.Issue, error)
	GetIssue(ctx context.Context, key string) (*jira.Issue, error)
	CreateIssue(ctx context.Context, req jira.CreateIssueRequest) (*jira.CreatedIssue, error)
	AddComment(ctx context.Context, issueID string, body *adf.Document) (*jira.Comment, error)
	AttachFile(ctx context.Context, issueID, filename string, r io.Reader) ([]jira.Attachment, error)
	GetAttachment(ctx context.Context, attachmentID string) ([]byte, string, error)
}

type TicketService struct {
	gw          Gateway
	nameFieldID string
	log         zerolog.Logger
}

func NewTicketService(gw Gateway, nameFieldID string, log zerolog.Logger) *TicketService {
	return &TicketService{gw: gw, nameFieldID: nameFieldID, log: log}
}

// ListTickets materializes the full collection for the configured project
// and issue type as list-view summaries, oldest first.
func (s *TicketService) ListTickets(ctx context.Context) ([]models.TicketSummary, error) {
	issues, err := s.gw.SearchAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.TicketSummary, len(issues))
	for i, is := range issues {
		out[i] = s.toSummary(is)
	}
	return out, nil
}

// GetTicket fetches one issue and derives its display fields: rendered
// description, attachments and comments sorted newest first.
func (s *TicketService) GetTicket(ctx context.Context, key string) (*models.Ticket, error) {
	issue, err := s.gw.GetIssue(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.toTicket(issue), nil
}

// PreviewDescription renders just the description of one issue, for hover
// previews over the list.
func (s *TicketService) PreviewDescription(ctx context.Context, key string) (string, error) {
	issue, err := s.gw.GetIssue(ctx, key)
	if err != nil {
		return "", err
	}
	return adf.Render(issue.Fields.Description), nil
}

// AddComment posts a comment and then re-fetches the issue so server-side
// derived fields are reconciled. Blank text never reaches the gateway.
func (s *TicketService) AddComment(ctx context.Context, key, text string) (*models.Ticket, error) {
	text = trimmed(text)
	if text == "" {
		return nil, ErrEmptyComment
	}
	if _, err := s.gw.AddComment(ctx, key, adf.FromText(text)); err != nil {
		return nil, err
	}
	return s.GetTicket(ctx, key)
}

// DownloadAttachment fetches an attachment's bytes. A zero-byte body on a
// successful transfer is reported as ErrAttachmentEmpty.
func (s *TicketService) DownloadAttachment(ctx context.Context, attachmentID string) (*models.AttachmentData, error) {
	data, contentType, err := s.gw.GetAttachment(ctx, attachmentID)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrAttachmentEmpty
	}
	return &models.AttachmentData{ContentType: contentType, Data: data}, nil
}

// CreateResult reports a successful submission. Attachment uploads are
// best-effort: a failed upload never rolls back the created issue, it only
// adds a warning.
type CreateResult struct {
	ID       string   `json:"id"`
	Key      string   `json:"key"`
	Warnings []string `json:"attachmentWarnings,omitempty"`
}

// CreateTicket validates the draft, submits it and then uploads each pending
// attachment sequentially, tagged with the new issue's id.
func (s *TicketService) CreateTicket(ctx context.Context, d Draft) (*CreateResult, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	created, err := s.gw.CreateIssue(ctx, jira.CreateIssueRequest{
		Summary:       trimmed(d.Summary),
		Description:   adf.FromText(trimmed(d.Description)),
		ReporterName:  d.ReporterName(),
		ReporterEmail: trimmed(d.Email),
	})
	if err != nil {
		return nil, err
	}

	res := &CreateResult{ID: created.ID, Key: created.Key}
	for _, up := range d.Attachments {
		if _, err := s.gw.AttachFile(ctx, created.ID, up.Filename, up.Content); err != nil {
			s.log.Warn().Err(err).Str("issue", created.Key).
				Str("file", up.Filename).Msg("attachment upload failed")
			res.Warnings = append(res.Warnings, fmt.Sprintf("could not attach %s", up.Filename))
		}
	}
	return res, nil
}

func (s *TicketService) toSummary(is jira.Issue) models.TicketSummary {
	return models.TicketSummary{
		ID:       is.ID,
		Key:      is.Key,
		Summary:  is.Fields.Summary,
		Status:   is.Fields.Status.Name,
		Reporter: is.Fields.CustomString(s.nameFieldID),
		Created:  jira.ParseTime(is.Fields.Created),
	}
}

func (s *TicketService) toTicket(is *jira.Issue) *models.Ticket {
	t := &models.Ticket{
		TicketSummary:   s.toSummary(*is),
		DescriptionHTML: adf.Render(is.Fields.Description),
		Attachments:     make([]models.Attachment, 0, len(is.Fields.Attachments)),
		Comments:        []models.Comment{},
	}
	for _, a := range is.Fields.Attachments {
		t.Attachments = append(t.Attachments, models.Attachment{
			ID: a.ID, Filename: a.Filename, Size: a.Size,
		})
	}
	if is.Fields.Comments != nil {
		for _, c := range is.Fields.Comments.Comments {
			t.Comments = append(t.Comments, models.Comment{
				ID:       c.ID,
				Author:   c.Author.DisplayName,
				BodyHTML: adf.Render(c.Body),
				Created:  jira.ParseTime(c.Created),
			})
		}
	}
	// Newest first; stable so same-instant comments keep gateway order.
	sort.SliceStable(t.Comments, func(i, j int) bool {
		return t.Comments[i].Created.After(t.Comments[j].Created)
	})
	return t
}
