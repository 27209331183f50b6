package core

import (
	"context"

	"github.com/google/uuid"

	"github.com/JonMunkholm/catalog/internal/logging"
)

type contextKey string

const ctxKeyImportID contextKey = "import_id"

// ContextWithImportID tags ctx with an import run ID. Loggers derived from
// the returned context include it as import_id.
func ContextWithImportID(ctx context.Context, id string) context.Context {
	ctx = logging.ContextWith(ctx, "import_id", id)
	return context.WithValue(ctx, ctxKeyImportID, id)
}

// ImportIDFromContext returns the import run ID stored in ctx, or "".
func ImportIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyImportID).(string); ok {
		return v
	}
	return ""
}

// ensureImportID returns ctx with an import ID, generating one if absent.
func ensureImportID(ctx context.Context) (context.Context, string) {
	if id := ImportIDFromContext(ctx); id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return ContextWithImportID(ctx, id), id
}
