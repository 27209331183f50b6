package core

// import.go runs the two-phase catalog import.
//
// Families are always loaded before products so the product phase can check
// family references against a snapshot that already includes the families
// from the same call. Each phase is a fold over the file's rows: a row either
// becomes an upsert or a FailureRecord, and only a store failure that is not
// attributable to the row stops the fold.
//
// Source files are temporary uploads and are deleted when their phase ends,
// whatever the outcome.

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/JonMunkholm/catalog/internal/logging"
)

// File names used in file-level error messages.
const (
	FamiliesFileName = "families.csv"
	ProductsFileName = "products.csv"
)

// rowStep validates and persists one row. It returns a *RowError for a
// rejected row and any other error to abort the phase.
type rowStep func(ctx context.Context, row Row) error

type importPhase struct {
	entity   string
	fileName string
	headers  []string
	// begin runs once, after the header check and before the first row.
	begin func(ctx context.Context) (rowStep, error)
}

// ProcessImport loads the families file and then the products file into the
// store. Either path may be empty, but not both. Row and file problems are
// reported through the summary and failure reports; the returned error is
// non-nil only when the store became unusable, in which case rows already
// written stay written.
func (s *Service) ProcessImport(ctx context.Context, familiesPath, productsPath string) (ImportSummary, error) {
	if familiesPath == "" && productsPath == "" {
		return ImportSummary{}, ErrNoImportFiles
	}
	defer removeImportFile(ctx, familiesPath)
	defer removeImportFile(ctx, productsPath)

	ctx, _ = ensureImportID(ctx)
	logger := logging.FromContext(ctx)
	start := time.Now()

	summary := ImportSummary{Reports: []string{}}
	familyFailures := NewFailureSink(EntityFamilies)
	productFailures := NewFailureSink(EntityProducts)

	logger.Info("import started",
		"families", familiesPath != "",
		"products", productsPath != "",
	)

	var err error
	if familiesPath != "" {
		summary.Families, err = s.runPhase(ctx, s.familyPhase(), familiesPath, familyFailures)
	}
	if err == nil && productsPath != "" {
		summary.Products, err = s.runPhase(ctx, s.productPhase(), productsPath, productFailures)
	}

	if err == nil {
		for _, sink := range []*FailureSink{familyFailures, productFailures} {
			name, werr := s.reports.Write(sink)
			if werr != nil {
				logger.Error("failure report not written", "entity", sink.Entity(), "error", werr)
				continue
			}
			if name != "" {
				summary.Reports = append(summary.Reports, name)
			}
		}
	}

	s.finishImport(ctx, summary, time.Since(start))

	if err != nil {
		logger.Error("import aborted",
			"error", err,
			"families_processed", summary.Families.Processed,
			"products_processed", summary.Products.Processed,
		)
		return summary, err
	}

	logger.Info("import completed",
		"families_processed", summary.Families.Processed,
		"families_failed", summary.Families.Failed,
		"products_processed", summary.Products.Processed,
		"products_failed", summary.Products.Failed,
		"reports", len(summary.Reports),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return summary, nil
}

// runPhase folds the rows of one file into counts and failure records.
func (s *Service) runPhase(ctx context.Context, p importPhase, path string, failures *FailureSink) (EntityCounts, error) {
	defer removeImportFile(ctx, path)
	logger := logging.WithFields(ctx, "entity", p.entity)

	var counts EntityCounts

	table, err := ReadCSVFile(path)
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		// Uploads are stored under generated names.
		parseErr.File = p.fileName
	}
	if err == nil {
		err = ValidateHeaders(table.Headers, p.headers, p.fileName)
	}
	if err != nil {
		logger.Warn("import file rejected", "error", err)
		failures.AddFileError(err)
		counts.Failed = failures.Len()
		return counts, nil
	}

	step, err := p.begin(ctx)
	if err != nil {
		return counts, err
	}

	for i, row := range table.Rows {
		rowNumber := i + 2

		err := step(ctx, row)
		if err == nil {
			counts.Processed++
			continue
		}

		var rowErr *RowError
		if !errors.As(err, &rowErr) {
			counts.Failed = failures.Len()
			return counts, err
		}
		logger.Debug("row rejected", "row", rowNumber, "key", rowErr.Key, "reason", rowErr.Reason)
		failures.Add(rowNumber, rowErr.Key, rowErr.Reason)
	}

	counts.Failed = failures.Len()
	logger.Info("import phase finished",
		"rows", len(table.Rows),
		"processed", counts.Processed,
		"failed", counts.Failed,
	)
	return counts, nil
}

func (s *Service) familyPhase() importPhase {
	return importPhase{
		entity:   EntityFamilies,
		fileName: FamiliesFileName,
		headers:  FamilyHeaders,
		begin: func(context.Context) (rowStep, error) {
			return func(ctx context.Context, row Row) error {
				family, err := s.validator.Family(row)
				if err != nil {
					return err
				}
				if err := s.store.UpsertFamily(ctx, family); err != nil {
					return classifyStoreError("upsert family", family.Code, err)
				}
				return nil
			}, nil
		},
	}
}

func (s *Service) productPhase() importPhase {
	return importPhase{
		entity:   EntityProducts,
		fileName: ProductsFileName,
		headers:  ProductHeaders,
		begin: func(ctx context.Context) (rowStep, error) {
			// Taken once; rows of this file never see codes added after it.
			known, err := s.store.FamilyCodes(ctx)
			if err != nil {
				return nil, &SystemError{Op: "load family codes", Err: err}
			}
			return func(ctx context.Context, row Row) error {
				product, err := s.validator.Product(row, known)
				if err != nil {
					return err
				}
				if err := s.store.UpsertProduct(ctx, product); err != nil {
					return classifyStoreError("upsert product", product.SKU, err)
				}
				return nil
			}, nil
		},
	}
}

// finishImport invalidates cached searches and reports metrics. It runs for
// aborted imports too, since their committed rows are already visible.
func (s *Service) finishImport(ctx context.Context, summary ImportSummary, elapsed time.Duration) {
	if summary.Changed() && s.cache != nil {
		if err := s.cache.Bump(ctx); err != nil {
			logging.FromContext(ctx).Warn("search cache not invalidated", "error", err)
		}
	}
	if s.recorder != nil {
		s.recorder.ObserveImport(summary, elapsed)
	}
}

// removeImportFile deletes an uploaded source file if it still exists.
func removeImportFile(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.FromContext(ctx).Warn("import file not removed", "path", path, "error", err)
	}
}
