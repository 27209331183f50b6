package jobs

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/JonMunkholm/catalog/internal/core"
)

// ErrJobNotFound is returned for an unknown or expired task ID.
var ErrJobNotFound = errors.New("import job: task not found")

// TaskInspector is the part of *asynq.Inspector used to read task state.
type TaskInspector interface {
	GetTaskInfo(queue, id string) (*asynq.TaskInfo, error)
}

// ImportStatus is the externally visible state of an async import.
type ImportStatus struct {
	ID          string              `json:"id"`
	State       string              `json:"state"`
	Summary     *core.ImportSummary `json:"summary,omitempty"`
	Error       string              `json:"error,omitempty"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
}

// StatusReader looks up import tasks.
type StatusReader struct {
	inspector TaskInspector
}

func NewStatusReader(inspector TaskInspector) *StatusReader {
	return &StatusReader{inspector: inspector}
}

// Status returns the state of the import task id.
func (r *StatusReader) Status(id string) (ImportStatus, error) {
	info, err := r.inspector.GetTaskInfo(QueueDefault, id)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
			return ImportStatus{}, ErrJobNotFound
		}
		return ImportStatus{}, fmt.Errorf("get task info: %w", err)
	}
	if info.Type != TypeCatalogImport {
		return ImportStatus{}, ErrJobNotFound
	}

	st := ImportStatus{
		ID:    info.ID,
		State: info.State.String(),
		Error: info.LastErr,
	}
	if len(info.Result) > 0 {
		var summary core.ImportSummary
		if err := json.Unmarshal(info.Result, &summary); err != nil {
			return ImportStatus{}, fmt.Errorf("decode task result: %w", err)
		}
		st.Summary = &summary
	}
	if !info.CompletedAt.IsZero() {
		completed := info.CompletedAt
		st.CompletedAt = &completed
	}
	return st, nil
}
