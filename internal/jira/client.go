package jira

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"helpdesk/internal/adf"
	"helpdesk/internal/config"
)

const requestTimeout = 30 * time.Second

// Client talks to a Jira-compatible REST v3 API. It is stateless apart from
// its static credential, so one instance is shared across all requests.
type Client struct {
	base       string
	authHeader string
	http       *http.Client
	log        zerolog.Logger

	projectKey   string
	issueType    string
	nameFieldID  string
	emailFieldID string
}

func New(cfg config.Config, log zerolog.Logger) *Client {
	cred := base64.StdEncoding.EncodeToString([]byte(cfg.AccountEmail + ":" + cfg.APIToken))
	return &Client{
		base:         strings.TrimRight(cfg.JiraBaseURL, "/"),
		authHeader:   "Basic " + cred,
		http:         &http.Client{Timeout: requestTimeout},
		log:          log,
		projectKey:   cfg.ProjectKey,
		issueType:    cfg.IssueType,
		nameFieldID:  cfg.NameFieldID,
		emailFieldID: cfg.EmailFieldID,
	}
}

// NameFieldID exposes the custom field holding the reporter display name so
// callers can read it back out of fetched issues.
func (c *Client) NameFieldID() string { return c.nameFieldID }

// CreateIssueRequest is the typed create payload. The client maps it onto
// the wire shape, including the configured custom field IDs, so nothing
// outside this package handles open-ended field maps.
type CreateIssueRequest struct {
	Summary       string
	Description   *adf.Document
	ReporterName  string
	ReporterEmail string
}

func (c *Client) CreateIssue(ctx context.Context, req CreateIssueRequest) (*CreatedIssue, error) {
	fields := map[string]any{
		"project":      map[string]string{"key": c.projectKey},
		"summary":      req.Summary,
		"description":  req.Description,
		"issuetype":    map[string]string{"name": c.issueType},
		c.nameFieldID:  req.ReporterName,
		c.emailFieldID: req.ReporterEmail,
	}
	var out CreatedIssue
	if err := c.do(ctx, http.MethodPost, "/issue", nil, map[string]any{"fields": fields}, &out); err != nil {
		return nil, fmt.Errorf("create issue: %w", err)
	}
	return &out, nil
}

func (c *Client) GetIssue(ctx context.Context, key string) (*Issue, error) {
	q := url.Values{}
	q.Set("fields", strings.Join([]string{
		"summary", "status", "created", "description", "attachment", "comment", c.nameFieldID,
	}, ","))
	var out Issue
	if err := c.do(ctx, http.MethodGet, "/issue/"+url.PathEscape(key), q, nil, &out); err != nil {
		return nil, fmt.Errorf("get issue %s: %w", key, err)
	}
	return &out, nil
}

func (c *Client) SearchIssues(ctx context.Context, jql, fields string, startAt, maxResults int) (*SearchResult, error) {
	q := url.Values{}
	q.Set("jql", jql)
	q.Set("fields", fields)
	q.Set("startAt", fmt.Sprint(startAt))
	q.Set("maxResults", fmt.Sprint(maxResults))
	var out SearchResult
	if err := c.do(ctx, http.MethodGet, "/search", q, nil, &out); err != nil {
		return nil, fmt.Errorf("search issues: %w", err)
	}
	return &out, nil
}

func (c *Client) AddComment(ctx context.Context, issueID string, body *adf.Document) (*Comment, error) {
	var out Comment
	payload := map[string]any{"body": body}
	if err := c.do(ctx, http.MethodPost, "/issue/"+url.PathEscape(issueID)+"/comment", nil, payload, &out); err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return &out, nil
}

// AttachFile uploads one file to an issue. The API answers with the metadata
// of every attachment created by the call.
func (c *Client) AttachFile(ctx context.Context, issueID, filename string, r io.Reader) ([]Attachment, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("attach file: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return nil, fmt.Errorf("attach file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("attach file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.base+"/issue/"+url.PathEscape(issueID)+"/attachments", &buf)
	if err != nil {
		return nil, fmt.Errorf("attach file: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	// Required by the API to bypass its XSRF check on multipart uploads.
	req.Header.Set("X-Atlassian-Token", "no-check")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("attach file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("attach file: %w", readStatusError(resp))
	}
	var out []Attachment
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("attach file: decode response: %w", err)
	}
	return out, nil
}

// GetAttachment downloads an attachment's raw bytes plus its content type.
func (c *Client) GetAttachment(ctx context.Context, attachmentID string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.base+"/attachment/content/"+url.PathEscape(attachmentID), nil)
	if err != nil {
		return nil, "", fmt.Errorf("get attachment: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("get attachment: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("get attachment: %w", readStatusError(resp))
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("get attachment: %w", err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// do performs a JSON request against the API and decodes the response into
// out (which may be nil for calls whose body the caller ignores).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	c.log.Debug().Str("method", method).Str("path", path).
		Int("status", resp.StatusCode).Dur("took", time.Since(start)).Msg("ticketing api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readStatusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

const maxErrorBody = 4 << 10

func readStatusError(resp *http.Response) *StatusError {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
}
