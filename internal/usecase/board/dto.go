package board

import (
	"time"

	"github.com/google/uuid"

	domainTask "taskboard/internal/domain/task"
)

// TaskInput is one task entry as the client submits it. A nil ID means the
// entry is new; a set ID must resolve to an existing task.
type TaskInput struct {
	ID      *uuid.UUID                `json:"id"`
	Title   string                    `json:"title" validate:"required,max=255"`
	Image   *string                   `json:"img" validate:"omitempty,url"`
	MoveLog []domainTask.MoveLogEntry `json:"movedAt" validate:"omitempty,dive"`
}

// ReconcileRequest is the full client-side board state. Order within each
// column is display order and is preserved.
type ReconcileRequest struct {
	Todo  []TaskInput `json:"todo" validate:"dive"`
	Doing []TaskInput `json:"doing" validate:"dive"`
	Done  []TaskInput `json:"done" validate:"dive"`
}

func (r *ReconcileRequest) column(c domainTask.Column) []TaskInput {
	switch c {
	case domainTask.ColumnTodo:
		return r.Todo
	case domainTask.ColumnDoing:
		return r.Doing
	case domainTask.ColumnDone:
		return r.Done
	}
	return nil
}

// UpdateTaskRequest patches a single task. Column, when set, signals an
// explicit column move and appends to the move log.
type UpdateTaskRequest struct {
	Title   *string            `json:"title" validate:"omitempty,max=255"`
	Image   *string            `json:"img" validate:"omitempty,url"`
	Column  *domainTask.Column `json:"column" validate:"omitempty,board_column"`
	MovedAt *time.Time         `json:"movedAt"`
}
