// Package jobs runs catalog imports in the background on asynq.
package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the queue import tasks are enqueued on.
	QueueDefault = "default"
	// TypeCatalogImport is the task type for a catalog import.
	TypeCatalogImport = "catalog:import"
)

// ImportPayload names the uploaded files to import. Either path may be
// empty, not both. The files must be readable by the worker.
type ImportPayload struct {
	FamiliesPath string `json:"families_path,omitempty"`
	ProductsPath string `json:"products_path,omitempty"`
}

// NewImportTask builds a catalog import task.
func NewImportTask(payload ImportPayload, opts ...asynq.Option) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode import payload: %w", err)
	}
	return asynq.NewTask(TypeCatalogImport, body, opts...), nil
}
