package web

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
)

// handleSearch runs a catalog search from the query string. Unknown keys
// are ignored by the query builder.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Search(r.Context(), queryFilters(r))
	if err != nil {
		s.respondMessage(w, r, err, http.StatusInternalServerError, "Database error")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleReport serves a failure report written by the last import that
// rejected rows of that entity.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	path, ok := s.service.ReportPath(name)
	if !ok {
		s.respondError(w, r, errReportNotFound, http.StatusNotFound)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.respondError(w, r, errReportNotFound, http.StatusNotFound)
			return
		}
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	http.ServeContent(w, r, name, info.ModTime(), f)
}
