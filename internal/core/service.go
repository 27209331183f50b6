package core

import (
	"context"
	"fmt"
	"path/filepath"
	"time"
)

// Store is the persistence capability the service needs. Implementations
// must be safe for concurrent use by searches.
type Store interface {
	// UpsertFamily inserts f or updates the family with the same code.
	UpsertFamily(ctx context.Context, f Family) error
	// UpsertProduct inserts p or updates the product with the same SKU.
	UpsertProduct(ctx context.Context, p Product) error
	// FamilyCodes returns every family code currently stored.
	FamilyCodes(ctx context.Context) (CodeSet, error)
	// CountCatalog counts distinct products matching q through the
	// product/family inner join. Pagination fields of q are ignored.
	CountCatalog(ctx context.Context, q SearchQuery) (int64, error)
	// ListCatalog returns the page of joined rows selected by q.
	ListCatalog(ctx context.Context, q SearchQuery) ([]CatalogRow, error)
}

// SearchCache stores rendered search results per generation. A search reads
// Version once and uses it for both Get and Set. Bump starts a new
// generation, hiding every earlier entry.
type SearchCache interface {
	Version(ctx context.Context) (int64, error)
	Get(ctx context.Context, version int64, key string, dest any) (bool, error)
	Set(ctx context.Context, version int64, key string, value any) error
	Bump(ctx context.Context) error
}

// ImportRecorder observes finished imports, e.g. for metrics.
type ImportRecorder interface {
	ObserveImport(summary ImportSummary, elapsed time.Duration)
}

// ServiceConfig holds optional collaborators and settings for a Service.
type ServiceConfig struct {
	// ReportDir is where failure reports are written (default: ./failures).
	ReportDir string
	// Cache, when set, caches search results until the next import.
	Cache SearchCache
	// Recorder, when set, is told about every finished import.
	Recorder ImportRecorder
}

// DefaultReportDir is used when ServiceConfig.ReportDir is empty.
const DefaultReportDir = "failures"

// Service runs catalog imports and searches against a Store.
type Service struct {
	store     Store
	validator *RowValidator
	reports   ReportWriter
	cache     SearchCache
	recorder  ImportRecorder
}

// NewService creates a Service. The report directory is resolved to an
// absolute path but only created when the first report is written.
func NewService(store Store, cfg ServiceConfig) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("core: store is required")
	}

	dir := cfg.ReportDir
	if dir == "" {
		dir = DefaultReportDir
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve report dir: %w", err)
	}

	return &Service{
		store:     store,
		validator: NewRowValidator(),
		reports:   ReportWriter{Dir: abs},
		cache:     cfg.Cache,
		recorder:  cfg.Recorder,
	}, nil
}

// ReportPath returns the on-disk path of a generated report. Only names
// produced by ReportFileName for a known entity are accepted.
func (s *Service) ReportPath(name string) (string, bool) {
	for _, entity := range []string{EntityFamilies, EntityProducts} {
		if name == ReportFileName(entity) {
			return s.reports.Path(name), true
		}
	}
	return "", false
}
