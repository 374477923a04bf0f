// Package list derives the visible page of the ticket list from the full
// cached collection: status/free-text filtering, stable column sorting and
// page windowing. It never mutates the collection it is given.
package list

import (
	"sort"
	"strings"

	"helpdesk/internal/models"
)

type Column string

const (
	ColNone     Column = "none"
	ColReporter Column = "reporter"
	ColStatus   Column = "status"
	ColCreated  Column = "created"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// StatusAll disables status filtering.
const StatusAll = "all"

const DefaultPageSize = 20

type State struct {
	Column   Column
	Dir      Direction
	Status   string
	Text     string
	Page     int
	PageSize int
}

func NewState() State {
	return State{
		Column:   ColNone,
		Dir:      Asc,
		Status:   StatusAll,
		Page:     1,
		PageSize: DefaultPageSize,
	}
}

// SortBy selects a sort column. Re-selecting the current column toggles the
// direction; switching columns resets it to ascending. Either way the view
// returns to page one.
func (s *State) SortBy(col Column) {
	if s.Column == col {
		if s.Dir == Asc {
			s.Dir = Desc
		} else {
			s.Dir = Asc
		}
	} else {
		s.Column = col
		s.Dir = Asc
	}
	s.Page = 1
}

// SetFilters replaces both filters and returns the view to page one.
// Filters always apply to the full collection, never to a previous result.
func (s *State) SetFilters(status, text string) {
	if status == "" {
		status = StatusAll
	}
	s.Status = status
	s.Text = text
	s.Page = 1
}

func (s *State) NextPage() { s.Page++ }

func (s *State) PreviousPage() { s.Page-- }

// Page is one derived window of the collection plus pagination metadata.
type Page struct {
	Items   []models.TicketSummary `json:"items"`
	Total   int                    `json:"total"`
	Page    int                    `json:"page"`
	PageMax int                    `json:"pageMax"`
}

// Apply filters, sorts and windows the full collection. The page number is
// clamped to [1, pageMax], so a stale page request degrades to the nearest
// valid page instead of an empty one.
func (s State) Apply(all []models.TicketSummary) Page {
	filtered := s.filter(all)
	s.sortIssues(filtered)

	size := s.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	pageMax := (len(filtered) + size - 1) / size
	if pageMax < 1 {
		pageMax = 1
	}
	page := s.Page
	if page < 1 {
		page = 1
	}
	if page > pageMax {
		page = pageMax
	}

	lo := (page - 1) * size
	hi := lo + size
	if lo > len(filtered) {
		lo = len(filtered)
	}
	if hi > len(filtered) {
		hi = len(filtered)
	}

	return Page{
		Items:   filtered[lo:hi],
		Total:   len(filtered),
		Page:    page,
		PageMax: pageMax,
	}
}

func (s State) filter(all []models.TicketSummary) []models.TicketSummary {
	out := make([]models.TicketSummary, 0, len(all))
	text := strings.ToLower(strings.TrimSpace(s.Text))
	for _, t := range all {
		if s.Status != StatusAll && t.Status != s.Status {
			continue
		}
		if text != "" && !matchesText(t, text) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchesText(t models.TicketSummary, needle string) bool {
	return strings.Contains(strings.ToLower(t.Reporter), needle) ||
		strings.Contains(strings.ToLower(t.Summary), needle) ||
		strings.Contains(strings.ToLower(t.Key), needle)
}

func (s State) sortIssues(items []models.TicketSummary) {
	var less func(a, b models.TicketSummary) bool
	switch s.Column {
	case ColReporter:
		less = func(a, b models.TicketSummary) bool {
			return strings.ToUpper(a.Reporter) < strings.ToUpper(b.Reporter)
		}
	case ColStatus:
		less = func(a, b models.TicketSummary) bool { return a.Status < b.Status }
	case ColCreated:
		less = func(a, b models.TicketSummary) bool { return a.Created.Before(b.Created) }
	default:
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		if s.Dir == Desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

// ParseColumn maps a query value onto a sort column, defaulting to none.
func ParseColumn(v string) Column {
	switch Column(v) {
	case ColReporter, ColStatus, ColCreated:
		return Column(v)
	default:
		return ColNone
	}
}

// ParseDirection maps a query value onto a direction, defaulting to asc.
func ParseDirection(v string) Direction {
	if Direction(v) == Desc {
		return Desc
	}
	return Asc
}
