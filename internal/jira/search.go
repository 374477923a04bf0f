package jira

import (
	"context"
	"fmt"
)

const searchPageSize = 100

// SearchAll materializes the full collection of issues for the configured
// project and issue type, oldest first, by walking the search endpoint's
// pages until exhaustion. Pages are requested strictly one after another:
// each request's offset comes from the previous response. Any page failure
// discards everything accumulated so far.
func (c *Client) SearchAll(ctx context.Context) ([]Issue, error) {
	jql := fmt.Sprintf("issuetype = %q AND project = %q ORDER BY created ASC", c.issueType, c.projectKey)
	fields := "summary,status,created," + c.nameFieldID

	var all []Issue
	startAt := 0
	// Cap iterations from the first reported total so an inconsistent
	// server count can never turn this loop infinite.
	maxPages := -1
	for page := 0; maxPages < 0 || page < maxPages; page++ {
		res, err := c.SearchIssues(ctx, jql, fields, startAt, searchPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, res.Issues...)

		if maxPages < 0 {
			per := res.MaxResults
			if per <= 0 {
				per = searchPageSize
			}
			maxPages = (res.Total+per-1)/per + 1
		}
		if res.Total <= res.StartAt+res.MaxResults {
			break
		}
		startAt = res.StartAt + res.MaxResults
	}
	return all, nil
}
