package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk/internal/adf"
	"helpdesk/internal/jira"
)

const nameField = "customfield_10067"

// fakeGateway records calls and plays back canned issues.
type fakeGateway struct {
	issues    []jira.Issue
	issueByID map[string]*jira.Issue

	searchErr  error
	createErr  error
	commentErr error
	attachErr  map[string]error // by filename

	created     []jira.CreateIssueRequest
	attached    []string // "issueID/filename"
	attachBytes map[string]string
	comments    []string

	attachmentData []byte
	attachmentType string
	attachmentErr  error
}

func (f *fakeGateway) SearchAll(ctx context.Context) ([]jira.Issue, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.issues, nil
}

func (f *fakeGateway) GetIssue(ctx context.Context, key string) (*jira.Issue, error) {
	if is, ok := f.issueByID[key]; ok {
		return is, nil
	}
	return nil, &jira.StatusError{Code: 404}
}

func (f *fakeGateway) CreateIssue(ctx context.Context, req jira.CreateIssueRequest) (*jira.CreatedIssue, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, req)
	return &jira.CreatedIssue{ID: "10042", Key: "SUP-42"}, nil
}

func (f *fakeGateway) AddComment(ctx context.Context, issueID string, body *adf.Document) (*jira.Comment, error) {
	if f.commentErr != nil {
		return nil, f.commentErr
	}
	f.comments = append(f.comments, body.Content[0].Content[0].Text)
	return &jira.Comment{ID: "c1"}, nil
}

func (f *fakeGateway) AttachFile(ctx context.Context, issueID, filename string, r io.Reader) ([]jira.Attachment, error) {
	if err := f.attachErr[filename]; err != nil {
		return nil, err
	}
	f.attached = append(f.attached, issueID+"/"+filename)
	if f.attachBytes == nil {
		f.attachBytes = map[string]string{}
	}
	b, _ := io.ReadAll(r)
	f.attachBytes[filename] = string(b)
	return []jira.Attachment{{ID: "att-" + filename, Filename: filename}}, nil
}

func (f *fakeGateway) GetAttachment(ctx context.Context, attachmentID string) ([]byte, string, error) {
	if f.attachmentErr != nil {
		return nil, "", f.attachmentErr
	}
	return f.attachmentData, f.attachmentType, nil
}

func newService(gw *fakeGateway) *TicketService {
	return NewTicketService(gw, nameField, zerolog.Nop())
}

func issueJSON(t *testing.T, raw string) *jira.Issue {
	t.Helper()
	var is jira.Issue
	require.NoError(t, json.Unmarshal([]byte(raw), &is))
	return &is
}

func validDraft() Draft {
	return Draft{
		FirstName:   "ada",
		LastName:    "lovelace",
		Email:       "ada@example.com",
		Summary:     "printer on fire",
		Description: "smoke everywhere",
	}
}

func TestCreateTicketWithTwoAttachments(t *testing.T) {
	gw := &fakeGateway{}
	svc := newService(gw)

	d := validDraft()
	d.Attachments = []Upload{
		{Filename: "a.png", Size: 3, Content: strings.NewReader("aaa")},
		{Filename: "b.pdf", Size: 4, Content: strings.NewReader("bbbb")},
	}

	res, err := svc.CreateTicket(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, "SUP-42", res.Key)
	assert.Empty(t, res.Warnings)

	require.Len(t, gw.created, 1)
	assert.Equal(t, "printer on fire", gw.created[0].Summary)
	assert.Equal(t, "Ada Lovelace", gw.created[0].ReporterName)
	assert.Equal(t, "ada@example.com", gw.created[0].ReporterEmail)
	assert.Equal(t, "smoke everywhere", gw.created[0].Description.Content[0].Content[0].Text)

	// Exactly two uploads, both tagged with the returned issue id.
	assert.Equal(t, []string{"10042/a.png", "10042/b.pdf"}, gw.attached)
	assert.Equal(t, "aaa", gw.attachBytes["a.png"])
}

func TestCreateTicketAttachmentFailureIsWarningOnly(t *testing.T) {
	gw := &fakeGateway{attachErr: map[string]error{"a.png": errors.New("disk full")}}
	svc := newService(gw)

	d := validDraft()
	d.Attachments = []Upload{
		{Filename: "a.png", Content: strings.NewReader("aaa")},
		{Filename: "b.pdf", Content: strings.NewReader("bbbb")},
	}

	res, err := svc.CreateTicket(context.Background(), d)
	require.NoError(t, err) // issue creation is not rolled back
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "a.png")
	assert.Equal(t, []string{"10042/b.pdf"}, gw.attached)
}

func TestCreateTicketValidationBlocksNetwork(t *testing.T) {
	gw := &fakeGateway{}
	svc := newService(gw)

	_, err := svc.CreateTicket(context.Background(), Draft{Email: "a@b"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"first name", "last name", "email", "summary", "description"}, verr.Fields)
	assert.Empty(t, gw.created, "invalid draft must not reach the gateway")
}

func TestCreateTicketGatewayErrorPassesThrough(t *testing.T) {
	gw := &fakeGateway{createErr: &jira.StatusError{Code: 400, Body: "customfield invalid"}}
	svc := newService(gw)

	_, err := svc.CreateTicket(context.Background(), validDraft())
	require.Error(t, err)
	assert.True(t, jira.IsBadRequest(err))
}

func TestGetTicketDerivesDisplayFields(t *testing.T) {
	gw := &fakeGateway{issueByID: map[string]*jira.Issue{
		"SUP-7": issueJSON(t, `{
			"id":"10007","key":"SUP-7",
			"fields":{
				"summary":"broken",
				"status":{"name":"To Do"},
				"created":"2024-03-01T10:00:00.000+0000",
				"customfield_10067":"Grace Hopper",
				"description":{"type":"doc","version":1,"content":[
					{"type":"paragraph","content":[{"type":"text","text":"Hello"}]}
				]},
				"attachment":[{"id":"att-1","filename":"x.png","size":100}],
				"comment":{"total":2,"comments":[
					{"id":"c1","author":{"displayName":"Old"},"created":"2024-03-01T10:00:00.000+0000",
					 "body":{"type":"doc","version":1,"content":[{"type":"paragraph","content":[{"type":"text","text":"first"}]}]}},
					{"id":"c2","author":{"displayName":"New"},"created":"2024-03-02T10:00:00.000+0000",
					 "body":{"type":"doc","version":1,"content":[{"type":"paragraph","content":[{"type":"text","text":"second"}]}]}}
				]}
			}
		}`),
	}}
	svc := newService(gw)

	tk, err := svc.GetTicket(context.Background(), "SUP-7")
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", tk.Reporter)
	assert.Equal(t, "<p>Hello</p>", tk.DescriptionHTML)
	require.Len(t, tk.Attachments, 1)
	assert.Equal(t, "x.png", tk.Attachments[0].Filename)

	// Newest first.
	require.Len(t, tk.Comments, 2)
	assert.Equal(t, "c2", tk.Comments[0].ID)
	assert.Equal(t, "<p>second</p>", tk.Comments[0].BodyHTML)
	assert.Equal(t, "c1", tk.Comments[1].ID)
}

func TestAddCommentRefetchesIssue(t *testing.T) {
	gw := &fakeGateway{issueByID: map[string]*jira.Issue{
		"SUP-7": issueJSON(t, `{"id":"10007","key":"SUP-7","fields":{"summary":"s","status":{"name":"To Do"},"created":"2024-03-01T10:00:00.000+0000"}}`),
	}}
	svc := newService(gw)

	tk, err := svc.AddComment(context.Background(), "SUP-7", "  hello there  ")
	require.NoError(t, err)
	assert.Equal(t, "SUP-7", tk.Key)
	assert.Equal(t, []string{"hello there"}, gw.comments)
}

func TestAddCommentEmptyIsNoop(t *testing.T) {
	gw := &fakeGateway{}
	svc := newService(gw)

	_, err := svc.AddComment(context.Background(), "SUP-7", "   ")
	assert.ErrorIs(t, err, ErrEmptyComment)
	assert.Empty(t, gw.comments)
}

func TestAddCommentFailurePreservesNothing(t *testing.T) {
	gw := &fakeGateway{commentErr: errors.New("down")}
	svc := newService(gw)

	_, err := svc.AddComment(context.Background(), "SUP-7", "hello")
	require.Error(t, err)
}

func TestDownloadAttachment(t *testing.T) {
	gw := &fakeGateway{attachmentData: []byte{1, 2}, attachmentType: "image/png"}
	svc := newService(gw)

	got, err := svc.DownloadAttachment(context.Background(), "att-1")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, got.Data)
	assert.Equal(t, "image/png", got.ContentType)
}

func TestDownloadAttachmentEmptyIsDistinctError(t *testing.T) {
	gw := &fakeGateway{attachmentData: nil}
	svc := newService(gw)

	_, err := svc.DownloadAttachment(context.Background(), "att-1")
	assert.ErrorIs(t, err, ErrAttachmentEmpty)

	gw.attachmentErr = errors.New("network")
	_, err = svc.DownloadAttachment(context.Background(), "att-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAttachmentEmpty)
}

func TestListTicketsMapsSummaries(t *testing.T) {
	gw := &fakeGateway{}
	var is jira.Issue
	require.NoError(t, json.Unmarshal([]byte(`{
		"id":"1","key":"SUP-1",
		"fields":{"summary":"s","status":{"name":"Done"},
		"created":"2024-03-01T10:00:00.000+0000","customfield_10067":"Ada"}
	}`), &is))
	gw.issues = []jira.Issue{is}
	svc := newService(gw)

	items, err := svc.ListTickets(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Ada", items[0].Reporter)
	assert.Equal(t, "Done", items[0].Status)
	assert.Equal(t, 2024, items[0].Created.Year())
}

func TestListTicketsDiscardsPartialOnError(t *testing.T) {
	gw := &fakeGateway{searchErr: errors.New("page 2 failed")}
	svc := newService(gw)

	items, err := svc.ListTickets(context.Background())
	require.Error(t, err)
	assert.Nil(t, items)
}
