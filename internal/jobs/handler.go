package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/JonMunkholm/catalog/internal/core"
	"github.com/JonMunkholm/catalog/internal/logging"
)

// Importer runs one import. *core.Service implements it.
type Importer interface {
	ProcessImport(ctx context.Context, familiesPath, productsPath string) (core.ImportSummary, error)
}

// ImportHandler processes TypeCatalogImport tasks.
type ImportHandler struct {
	importer Importer
	logger   *slog.Logger
}

func NewImportHandler(importer Importer, logger *slog.Logger) *ImportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportHandler{importer: importer, logger: logger}
}

// Handle runs the import and stores the summary as the task result. The
// task ID doubles as the import ID.
func (h *ImportHandler) Handle(ctx context.Context, t *asynq.Task) error {
	var payload ImportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode import payload: %v: %w", err, asynq.SkipRetry)
	}

	rw := t.ResultWriter()
	if rw != nil {
		ctx = core.ContextWithImportID(ctx, rw.TaskID())
	}
	log := logging.FromContext(ctx)
	log.Info("import task started",
		"families_file", payload.FamiliesPath != "",
		"products_file", payload.ProductsPath != "")

	summary, err := h.importer.ProcessImport(ctx, payload.FamiliesPath, payload.ProductsPath)
	if rw != nil {
		body, mErr := json.Marshal(summary)
		if mErr != nil {
			return fmt.Errorf("encode import summary: %w", mErr)
		}
		if _, wErr := rw.Write(body); wErr != nil {
			log.Warn("write task result failed", "error", wErr)
		}
	}
	if err != nil {
		log.Error("import task failed", "error", err)
		return fmt.Errorf("process import: %w", err)
	}

	log.Info("import task completed",
		"families_processed", summary.Families.Processed,
		"products_processed", summary.Products.Processed)
	return nil
}
