package board

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainTask "taskboard/internal/domain/task"
	"taskboard/internal/logger"
	appErrors "taskboard/pkg/errors"
	"taskboard/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service merges client-submitted board state into persisted tasks and board
// references.
type Service struct {
	taskRepo domainTask.Repository
}

func NewService(taskRepo domainTask.Repository) *Service {
	return &Service{taskRepo: taskRepo}
}

// Reconcile walks all three submitted columns in order: entries with an id
// update that task in place, entries without one create a task, and the
// resulting id sequences replace the user's board references in a single
// transaction. A failing task write aborts before any reference changes.
func (s *Service) Reconcile(ctx context.Context, userID uuid.UUID, req *ReconcileRequest) (*domainTask.Board, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	refs := &domainTask.BoardRefs{}

	for _, column := range domainTask.Columns() {
		inputs := req.column(column)
		ids := make([]uuid.UUID, 0, len(inputs))

		for _, input := range inputs {
			id, err := s.applyTaskInput(ctx, userID, &input)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}

		refs.SetColumnRefs(column, ids)
	}

	if err := s.taskRepo.ReplaceBoard(ctx, userID, refs); err != nil {
		return nil, err
	}

	logger.Info("Board reconciled",
		zap.String("user_id", userID.String()),
		zap.Int("todo", len(refs.Todo)),
		zap.Int("doing", len(refs.Doing)),
		zap.Int("done", len(refs.Done)),
		zap.String("event", "board_reconciled"),
	)

	return s.taskRepo.GetBoard(ctx, userID)
}

// applyTaskInput updates the referenced task or creates a new one, returning
// the identity to collect into the column. A submitted id must resolve to a
// task on the submitting user's own board or to an unreferenced task; tasks
// held by another user's board are reported as not found.
func (s *Service) applyTaskInput(ctx context.Context, userID uuid.UUID, input *TaskInput) (uuid.UUID, error) {
	for _, entry := range input.MoveLog {
		if !entry.Column.Valid() {
			return uuid.Nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", domainTask.ErrInvalidColumn)
		}
	}

	if input.ID != nil {
		owner, err := s.taskRepo.FindOwner(ctx, *input.ID)
		if err != nil && !errors.Is(err, domainTask.ErrTaskNotFound) {
			return uuid.Nil, fmt.Errorf("failed to check task ownership: %w", err)
		}
		if err == nil && owner != userID {
			return uuid.Nil, appErrors.ErrTaskNotFound
		}

		t, err := s.taskRepo.GetByID(ctx, *input.ID)
		if err != nil {
			if errors.Is(err, domainTask.ErrTaskNotFound) {
				return uuid.Nil, appErrors.ErrTaskNotFound
			}
			return uuid.Nil, fmt.Errorf("failed to load task: %w", err)
		}

		t.Title = utils.SanitizeString(input.Title)
		t.Image = input.Image
		if input.MoveLog != nil {
			t.MoveLog = input.MoveLog
		}

		if err := s.taskRepo.Update(ctx, t); err != nil {
			return uuid.Nil, err
		}
		return t.ID, nil
	}

	t := &domainTask.Task{
		Title:   utils.SanitizeString(input.Title),
		Image:   input.Image,
		MoveLog: input.MoveLog,
	}
	if err := s.taskRepo.Create(ctx, t); err != nil {
		return uuid.Nil, err
	}

	return t.ID, nil
}

// GetBoard returns the user's dereferenced board.
func (s *Service) GetBoard(ctx context.Context, userID uuid.UUID) (*domainTask.Board, error) {
	return s.taskRepo.GetBoard(ctx, userID)
}

// UpdateTask patches one task inside the user's board. The task is re-read
// before the patch is applied so the write never acts on a stale copy. A move
// log entry is appended only when the caller explicitly signals a column
// change, and the board reference follows to the tail of the target column.
func (s *Service) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req *UpdateTaskRequest) (*domainTask.Task, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	if _, err := s.taskRepo.FindColumn(ctx, userID, taskID); err != nil {
		if errors.Is(err, domainTask.ErrTaskNotFound) {
			return nil, appErrors.ErrTaskNotFound
		}
		return nil, err
	}

	t, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, domainTask.ErrTaskNotFound) {
			return nil, appErrors.ErrTaskNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		t.Title = utils.SanitizeString(*req.Title)
	}
	if req.Image != nil {
		t.Image = req.Image
	}

	if req.Column != nil {
		movedAt := time.Now()
		if req.MovedAt != nil {
			movedAt = *req.MovedAt
		}
		t.MoveLog = append(t.MoveLog, domainTask.MoveLogEntry{
			Column: *req.Column,
			Time:   movedAt,
		})

		if err := s.taskRepo.MoveEntry(ctx, userID, taskID, *req.Column); err != nil {
			return nil, err
		}
	}

	if err := s.taskRepo.Update(ctx, t); err != nil {
		return nil, err
	}

	logger.Info("Task updated",
		zap.String("user_id", userID.String()),
		zap.String("task_id", taskID.String()),
		zap.Bool("column_changed", req.Column != nil),
		zap.String("event", "task_updated"),
	)

	return t, nil
}
