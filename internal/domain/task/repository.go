package task

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for task and board reference operations
type Repository interface {
	Create(ctx context.Context, t *Task) error
	GetByID(ctx context.Context, taskID uuid.UUID) (*Task, error)
	Update(ctx context.Context, t *Task) error

	// GetBoard returns the user's dereferenced board, each column ordered by
	// stored position.
	GetBoard(ctx context.Context, userID uuid.UUID) (*Board, error)

	// FindColumn reports which column of the user's board holds the task,
	// searching todo, doing, done in that order.
	FindColumn(ctx context.Context, userID, taskID uuid.UUID) (Column, error)

	// FindOwner reports which user's board currently references the task.
	// ErrTaskNotFound when no board references it.
	FindOwner(ctx context.Context, taskID uuid.UUID) (uuid.UUID, error)

	// ReplaceBoard swaps all three reference sequences of the user's board in
	// a single transaction. Tasks dropped from the board are left in place.
	ReplaceBoard(ctx context.Context, userID uuid.UUID, refs *BoardRefs) error

	// MoveEntry reassigns the task's board entry to the tail of the target
	// column.
	MoveEntry(ctx context.Context, userID, taskID uuid.UUID, to Column) error
}
