package server

import (
	"bytes"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/observability"
	"github.com/matzehuels/orgchart/pkg/pipeline"
	"github.com/matzehuels/orgchart/pkg/render/html"
	"github.com/matzehuels/orgchart/pkg/view"
)

func (s *Server) title() string {
	if s.opts.Defaults.Title != "" {
		return s.opts.Defaults.Title
	}
	return "Organization chart"
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if id, ok := s.defaultChart(); ok {
		http.Redirect(w, r, chartPath(id), http.StatusFound)
		return
	}
	s.writeIndex(w, http.StatusOK, "")
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.writeIndex(w, http.StatusOK, "")
}

func (s *Server) writeIndex(w http.ResponseWriter, status int, errMsg string) {
	var list []html.Entry
	for _, e := range s.charts.list() {
		list = append(list, html.Entry{
			ID:        e.id,
			Source:    e.source,
			Employees: e.chart.Hierarchy().Roster().Len(),
			Loaded:    e.created,
		})
	}
	var buf bytes.Buffer
	if err := html.Index(&buf, s.title(), list, errMsg); err != nil {
		s.internalError(w, err)
		return
	}
	writeBody(w, status, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	source := strings.TrimSpace(r.FormValue("source"))
	id, err := s.Load(r.Context(), source)
	if err != nil {
		s.logger.Warn("load failed", "source", source, "error", err)
		s.writeIndex(w, loadStatus(err), errors.UserMessage(err))
		return
	}
	http.Redirect(w, r, chartPath(id), http.StatusSeeOther)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	tree := e.chart.Render()
	selected := r.URL.Query().Get("layer")
	if _, err := view.ParseSelector(selected); err != nil {
		selected = "all"
	}

	var buf bytes.Buffer
	err := html.Render(&buf, tree, html.Options{
		Title:       s.title(),
		Interactive: true,
		ActionBase:  chartPath(e.id),
		Focus:       r.URL.Query().Get("focus"),
		Selected:    selected,
	})
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeBody(w, http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	s.handleFormat(w, r, pipeline.FormatJSON, "application/json")
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	s.handleFormat(w, r, pipeline.FormatSVG, "image/svg+xml")
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request, format, contentType string) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	data, err := pipeline.Render(r.Context(), e.chart.Render(), format, s.opts.Defaults)
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeBody(w, http.StatusOK, contentType, data)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	node := chi.URLParam(r, "node")
	// chi routes on the raw path when the request carries escapes like %2F.
	if r.URL.RawPath != "" {
		if v, err := url.PathUnescape(node); err == nil {
			node = v
		}
	}
	changed := 0
	if e.chart.Toggle(node) {
		changed = 1
	}
	observability.Chart().OnInteraction(r.Context(), "toggle", changed)

	target := chartPath(e.id) + "?focus=" + url.QueryEscape(node) + "#node-" + url.PathEscape(node)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) handleLayers(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	sel, err := view.ParseSelector(r.FormValue("layer"))
	if err != nil {
		http.Error(w, errors.UserMessage(err), http.StatusBadRequest)
		return
	}
	var expand bool
	switch r.FormValue("action") {
	case "expand":
		expand = true
	case "collapse":
	default:
		http.Error(w, `action must be "expand" or "collapse"`, http.StatusBadRequest)
		return
	}

	n := e.chart.ExpandLayer(sel, expand)
	observability.Chart().OnInteraction(r.Context(), r.FormValue("action"), n)
	http.Redirect(w, r, chartPath(e.id)+"?layer="+url.QueryEscape(sel.String()), http.StatusSeeOther)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookup(w, r)
	if !ok {
		return
	}
	opts := s.opts.Defaults
	opts.Source = e.source
	opts.Refresh = true
	opts.Logger = s.logger
	ros, err := s.runner.Load(r.Context(), opts)
	if err != nil {
		s.writeIndex(w, loadStatus(err), errors.UserMessage(err))
		return
	}
	e.chart.Reload(ros)
	http.Redirect(w, r, chartPath(e.id), http.StatusSeeOther)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.charts.remove(id) {
		s.notFound(w, id)
		return
	}
	s.logger.Info("chart deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*entry, bool) {
	id := chi.URLParam(r, "id")
	e, ok := s.charts.get(id)
	if !ok {
		s.notFound(w, id)
	}
	return e, ok
}

func (s *Server) notFound(w http.ResponseWriter, id string) {
	err := errors.New(errors.ErrCodeChartNotFound, "chart %q not found", id)
	http.Error(w, errors.UserMessage(err), http.StatusNotFound)
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.logger.Error("request failed", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// loadStatus maps a load error to a response status: bad input is the
// client's fault, anything upstream is a bad gateway.
func loadStatus(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidSource, errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func chartPath(id string) string { return "/charts/" + id }

func writeBody(w http.ResponseWriter, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
