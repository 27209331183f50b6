package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JonMunkholm/catalog/internal/core"
	"github.com/JonMunkholm/catalog/internal/jobs"
	"github.com/JonMunkholm/catalog/internal/logging"
)

// Multipart field names of the import form.
const (
	FieldFamiliesFile = "familiesFile"
	FieldProductsFile = "productsFile"
)

// multipartMemory is how much of the form is buffered in memory before
// spilling to temporary files.
const multipartMemory = 32 << 20

// ImportResponse is the body of a completed synchronous import.
type ImportResponse struct {
	Message  string       `json:"message"`
	ImportID string       `json:"import_id"`
	Summary  ImportCounts `json:"summary"`
	Reports  []string     `json:"reports"`
}

// ImportCounts groups the per-entity counts of an import.
type ImportCounts struct {
	Families core.EntityCounts `json:"families"`
	Products core.EntityCounts `json:"products"`
}

// ImportQueuedResponse is the body of an accepted async import.
type ImportQueuedResponse struct {
	Message   string `json:"message"`
	JobID     string `json:"job_id"`
	StatusURL string `json:"status_url"`
}

// handleImport stores the uploaded files and imports them, either inline or
// through the job queue when ?async=true.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	async := r.URL.Query().Get("async") == "true"
	if async && s.jobs == nil {
		s.respondError(w, r, errAsyncDisabled, http.StatusNotImplemented)
		return
	}

	maxSize := s.cfg.Upload.MaxFileSize
	// Two files plus form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, 2*maxSize+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, r, fmt.Errorf("request body too large: %w", err), http.StatusRequestEntityTooLarge)
			return
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			s.respondError(w, r, fmt.Errorf("invalid multipart form: %w", err), http.StatusBadRequest)
			return
		}
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	familiesPath, err := s.saveUpload(r, FieldFamiliesFile, core.EntityFamilies)
	if err != nil {
		s.respondUploadError(w, r, err)
		return
	}
	productsPath, err := s.saveUpload(r, FieldProductsFile, core.EntityProducts)
	if err != nil {
		removeUploads(familiesPath)
		s.respondUploadError(w, r, err)
		return
	}
	if familiesPath == "" && productsPath == "" {
		s.respondError(w, r, core.ErrNoImportFiles, http.StatusBadRequest)
		return
	}

	if async {
		s.enqueueImport(w, r, familiesPath, productsPath)
		return
	}
	s.runImport(w, r, familiesPath, productsPath)
}

func (s *Server) runImport(w http.ResponseWriter, r *http.Request, familiesPath, productsPath string) {
	if err := s.limiter.Acquire(r.Context()); err != nil {
		removeUploads(familiesPath, productsPath)
		status := http.StatusServiceUnavailable
		if errors.Is(err, core.ErrTooManyImports) {
			w.Header().Set("Retry-After", "30")
		}
		s.respondError(w, r, err, status)
		return
	}
	defer s.limiter.Release()

	// The import finishes even if the client goes away; only the upload
	// timeout bounds it.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), s.cfg.Upload.Timeout)
	defer cancel()
	importID := uuid.NewString()
	ctx = core.ContextWithImportID(ctx, importID)

	summary, err := s.service.ProcessImport(ctx, familiesPath, productsPath)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	reports := summary.Reports
	if reports == nil {
		reports = []string{}
	}
	writeJSON(w, http.StatusOK, ImportResponse{
		Message:  "Import completed",
		ImportID: importID,
		Summary:  ImportCounts{Families: summary.Families, Products: summary.Products},
		Reports:  reports,
	})
}

func (s *Server) enqueueImport(w http.ResponseWriter, r *http.Request, familiesPath, productsPath string) {
	id, err := s.jobs.EnqueueImport(r.Context(), jobs.ImportPayload{
		FamiliesPath: familiesPath,
		ProductsPath: productsPath,
	})
	if err != nil {
		removeUploads(familiesPath, productsPath)
		s.respondError(w, r, fmt.Errorf("enqueue import: %w", err), http.StatusInternalServerError)
		return
	}

	logging.FromContext(r.Context()).Info("import queued", "job_id", id)
	writeJSON(w, http.StatusAccepted, ImportQueuedResponse{
		Message:   "Import queued",
		JobID:     id,
		StatusURL: "/api/import/jobs/" + id,
	})
}

func (s *Server) handleImportJob(w http.ResponseWriter, r *http.Request) {
	if s.jobStatus == nil {
		s.respondError(w, r, errAsyncDisabled, http.StatusNotImplemented)
		return
	}

	st, err := s.jobStatus.Status(chi.URLParam(r, "id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, jobs.ErrJobNotFound) {
			status = http.StatusNotFound
		}
		s.respondError(w, r, err, status)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// saveUpload copies the form file in field to the upload directory under a
// generated name. It returns "" when the field is absent.
func (s *Server) saveUpload(r *http.Request, field, entity string) (string, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", field, err)
	}
	defer file.Close()

	if header.Size > s.cfg.Upload.MaxFileSize {
		return "", fmt.Errorf("%s: %w", field, errFileTooLarge)
	}
	return s.storeUpload(file, entity)
}

func (s *Server) storeUpload(src multipart.File, entity string) (string, error) {
	if err := os.MkdirAll(s.cfg.Upload.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	path := filepath.Join(s.cfg.Upload.Dir, uuid.NewString()+"-"+entity+".csv")

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		removeUploads(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := dst.Close(); err != nil {
		removeUploads(path)
		return "", fmt.Errorf("close upload file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}

func (s *Server) respondUploadError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errFileTooLarge) {
		s.respondError(w, r, err, http.StatusRequestEntityTooLarge)
		return
	}
	s.respondError(w, r, err, http.StatusInternalServerError)
}

func removeUploads(paths ...string) {
	for _, p := range paths {
		if p != "" {
			_ = os.Remove(p)
		}
	}
}
