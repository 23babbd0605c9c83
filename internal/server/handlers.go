package server

import (
	"encoding/json"
	stderrors "errors"
	"mime"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cruderly/wallie/pkg/errors"
	"github.com/cruderly/wallie/pkg/i18n"
	"github.com/cruderly/wallie/pkg/leads"
	"github.com/cruderly/wallie/pkg/site"
)

const maxLeadBody = 64 << 10

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	l, err := i18n.Parse(chi.URLParam(r, "locale"))
	if err != nil {
		s.handleNotFound(w, r)
		return
	}
	p, err := site.ParsePage(chi.URLParam(r, "page"))
	if err != nil {
		s.handleNotFound(w, r)
		return
	}

	html, err := s.opts.Site.Render(r.Context(), l, p)
	if err != nil {
		s.logger.Error("render page", "locale", l, "page", p.Name(), "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Content-Language", l.Lang())
	h.Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(html)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, errors.New(errors.ErrCodeNotFound, "not found: %s", r.URL.Path))
}

// leadResponse is the body of every /api/leads response.
type leadResponse struct {
	ID      string       `json:"id,omitempty"`
	Status  string       `json:"status"`
	Code    string       `json:"code,omitempty"`
	Message string       `json:"message"`
	Fields  []fieldError `json:"fields,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func (s *Server) handleLead(w http.ResponseWriter, r *http.Request) {
	form, err := decodeLead(w, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	dict := s.opts.Catalog.For(i18n.Locale(strings.ToLower(strings.TrimSpace(form.Locale))))

	lead, err := s.opts.Leads.Submit(r.Context(), clientKey(r), form)
	if err == nil {
		respondJSON(w, http.StatusAccepted, leadResponse{ID: lead.ID, Status: "accepted", Message: dict.T("form.sent")})
		return
	}

	code := errors.GetCode(err)
	resp := leadResponse{Status: "rejected", Code: string(code)}
	status := errors.HTTPStatus(err)

	var fe *errors.FieldErrors
	var rl *errors.RateLimitedError
	switch {
	case stderrors.As(err, &fe):
		resp.Message = dict.T("form.failed")
		for _, f := range fe.Fields {
			resp.Fields = append(resp.Fields, fieldError{Field: f.Field, Reason: f.Reason, Message: dict.T("errors." + f.Reason)})
		}
	case stderrors.As(err, &rl):
		resp.Message = dict.T("errors.rate_limited")
		if rl.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(rl.RetryAfter))
		}
	case lead != nil:
		// Archived but not delivered.
		resp.ID = lead.ID
		resp.Status = "archived"
		resp.Message = dict.T("form.failed")
		status = http.StatusBadGateway
	default:
		s.logger.Error("lead intake failed", "error", err)
		resp.Message = dict.T("form.failed")
	}
	respondJSON(w, status, resp)
}

// decodeLead reads a JSON or form-encoded submission.
func decodeLead(w http.ResponseWriter, r *http.Request) (leads.Form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxLeadBody)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		var form leads.Form
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			return leads.Form{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode lead")
		}
		return form, nil
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(maxLeadBody); err != nil && !stderrors.Is(err, http.ErrNotMultipart) {
			return leads.Form{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse form")
		}
		return leads.FormFromValues(r.PostForm), nil
	default:
		return leads.Form{}, errors.New(errors.ErrCodeInvalidInput, "unsupported content type %q", mediaType)
	}
}

// clientKey identifies the submitter for rate limiting. RealIP has already
// replaced RemoteAddr with the forwarded address when a proxy set one.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// respondJSON sends a JSON response with appropriate headers.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// respondError sends a structured JSON error response.
func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, struct {
		Error     string `json:"error"`
		Status    int    `json:"status"`
		Code      string `json:"code,omitempty"`
		Message   string `json:"message"`
		Timestamp string `json:"timestamp"`
	}{
		Error:     http.StatusText(status),
		Status:    status,
		Code:      string(errors.GetCode(err)),
		Message:   errors.UserMessage(err),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
