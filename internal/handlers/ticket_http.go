package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"helpdesk/internal/jira"
	"helpdesk/internal/list"
	"helpdesk/internal/middleware"
	"helpdesk/internal/preview"
	"helpdesk/internal/service"
	"helpdesk/internal/utils"
)

// maxUploadBytes bounds one create-ticket submission, files included.
const maxUploadBytes = 32 << 20

// TicketHTTP wires HTTP endpoints to the ticket service.
type TicketHTTP struct {
	svc      *service.TicketService
	previews *preview.Fetcher
}

func NewTicketHTTP(svc *service.TicketService) *TicketHTTP {
	return &TicketHTTP{
		svc:      svc,
		previews: preview.New(svc.PreviewDescription),
	}
}

// GET /api/tickets?q=&status=&sort=&order=&page=&pageSize=
//
// The full collection is fetched from the gateway on every call and the
// requested window derived from it, so filters always apply to fresh data.
func (h *TicketHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := h.svc.ListTickets(r.Context())
		if err != nil {
			utils.Error(w, http.StatusBadGateway, "failed to load tickets")
			return
		}

		qv := r.URL.Query()
		st := list.NewState()
		st.Column = list.ParseColumn(qv.Get("sort"))
		st.Dir = list.ParseDirection(qv.Get("order"))
		st.SetFilters(utils.QueryString(qv, "status"), utils.QueryString(qv, "q"))
		st.Page = utils.QueryInt(qv, "page", 1)
		st.PageSize = utils.QueryInt(qv, "pageSize", list.DefaultPageSize)

		utils.JSON(w, http.StatusOK, st.Apply(all))
	}
}

// GET /api/tickets/{key}
func (h *TicketHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")
		if key == "" {
			utils.Error(w, http.StatusBadRequest, "missing ticket key")
			return
		}
		t, err := h.svc.GetTicket(r.Context(), key)
		if err != nil {
			if jira.IsNotFound(err) {
				utils.Error(w, http.StatusNotFound, "ticket not found")
				return
			}
			utils.Error(w, http.StatusBadGateway, "failed to load ticket")
			return
		}
		utils.JSON(w, http.StatusOK, t)
	}
}

// GET /api/tickets/{key}/preview
//
// Hover previews: at most one in-flight description fetch per session. A
// request superseded by a newer hover answers 204 so the browser drops it.
func (h *TicketHTTP) Preview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")
		clientID, _ := utils.GetString(r.Context(), middleware.CtxUserID)
		if clientID == "" {
			clientID = r.RemoteAddr
		}

		html, err := h.previews.Fetch(r.Context(), clientID, key)
		if err != nil {
			if errors.Is(err, preview.ErrSuperseded) {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			utils.Error(w, http.StatusBadGateway, "failed to load preview")
			return
		}
		utils.JSON(w, http.StatusOK, map[string]string{"descriptionHtml": html})
	}
}

// POST /api/tickets — multipart form: firstName, lastName, email, summary,
// description, attachments (repeatable).
func (h *TicketHTTP) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		draft := service.Draft{
			FirstName:   r.FormValue("firstName"),
			LastName:    r.FormValue("lastName"),
			Email:       r.FormValue("email"),
			Summary:     r.FormValue("summary"),
			Description: r.FormValue("description"),
		}

		if r.MultipartForm != nil {
			var uploads []service.Upload
			for _, fh := range r.MultipartForm.File["attachments"] {
				f, err := fh.Open()
				if err != nil {
					utils.Error(w, http.StatusBadRequest, fmt.Sprintf("cannot read attachment %s", fh.Filename))
					return
				}
				defer f.Close()
				uploads = append(uploads, service.Upload{
					Filename: fh.Filename,
					Size:     fh.Size,
					Content:  f,
				})
			}
			draft.Attachments = service.DedupUploads(uploads)
		}

		res, err := h.svc.CreateTicket(r.Context(), draft)
		if err != nil {
			var verr *service.ValidationError
			if errors.As(err, &verr) {
				utils.Error(w, http.StatusUnprocessableEntity, verr.Error())
				return
			}
			utils.Error(w, http.StatusBadGateway, submissionGuidance(err))
			return
		}
		utils.JSON(w, http.StatusCreated, res)
	}
}

// POST /api/tickets/{key}/comments
func (h *TicketHTTP) AddComment() http.HandlerFunc {
	type inDTO struct {
		Text string `json:"text"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")
		if key == "" {
			utils.Error(w, http.StatusBadRequest, "missing ticket key")
			return
		}
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		t, err := h.svc.AddComment(r.Context(), key, in.Text)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrEmptyComment):
				utils.Error(w, http.StatusBadRequest, "text is required")
			case jira.IsNotFound(err):
				utils.Error(w, http.StatusNotFound, "ticket not found")
			default:
				utils.Error(w, http.StatusBadGateway, "failed to add comment")
			}
			return
		}
		utils.JSON(w, http.StatusOK, t)
	}
}

// GET /api/attachments/{id}?filename=
func (h *TicketHTTP) DownloadAttachment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			utils.Error(w, http.StatusBadRequest, "missing attachment id")
			return
		}

		att, err := h.svc.DownloadAttachment(r.Context(), id)
		if err != nil {
			if errors.Is(err, service.ErrAttachmentEmpty) {
				utils.Error(w, http.StatusUnprocessableEntity, "attachment is empty")
				return
			}
			utils.Error(w, http.StatusBadGateway, "failed to download attachment")
			return
		}

		filename := utils.QueryString(r.URL.Query(), "filename")
		if filename == "" {
			filename = id
		}
		ct := att.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(att.Data)
	}
}

// submissionGuidance turns a failed create-issue call into a hint about the
// usual misconfiguration behind that status class. Cosmetic only.
func submissionGuidance(err error) string {
	switch {
	case jira.IsNotFound(err):
		return "ticket creation failed: the ticketing endpoint was not found, check the base URL and project key"
	case jira.IsBadRequest(err):
		return "ticket creation failed: the request was rejected, check the configured custom field IDs"
	case jira.IsUnauthorized(err):
		return "ticket creation failed: the ticketing credential was rejected, check the account email and API token"
	default:
		return "ticket creation failed"
	}
}
