package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domainTask "taskboard/internal/domain/task"
	"taskboard/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TaskRepository struct {
	db *DB
}

func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *domainTask.Task) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	t.UpdatedAt = time.Now()

	dbModel, err := toTaskModel(t)
	if err != nil {
		return err
	}

	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, taskID uuid.UUID) (*domainTask.Task, error) {
	var dbModel models.TaskModel
	err := r.db.DB.WithContext(ctx).First(&dbModel, "id = ?", taskID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainTask.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return toTaskEntity(&dbModel)
}

func (r *TaskRepository) Update(ctx context.Context, t *domainTask.Task) error {
	t.UpdatedAt = time.Now()

	moveLog, err := marshalMoveLog(t.MoveLog)
	if err != nil {
		return err
	}

	result := r.db.DB.WithContext(ctx).Model(&models.TaskModel{}).
		Where("id = ?", t.ID).
		Updates(map[string]interface{}{
			"title":      t.Title,
			"image":      t.Image,
			"move_log":   moveLog,
			"updated_at": t.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainTask.ErrTaskNotFound
	}

	return nil
}

func (r *TaskRepository) GetBoard(ctx context.Context, userID uuid.UUID) (*domainTask.Board, error) {
	board := domainTask.NewBoard()

	for _, column := range domainTask.Columns() {
		var dbModels []models.TaskModel
		err := r.db.DB.WithContext(ctx).
			Select("tasks.*").
			Joins("JOIN board_entries ON board_entries.task_id = tasks.id").
			Where("board_entries.user_id = ? AND board_entries.board_column = ?", userID, string(column)).
			Order("board_entries.position").
			Find(&dbModels).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load %s column: %w", column, err)
		}

		tasks := make([]*domainTask.Task, 0, len(dbModels))
		for i := range dbModels {
			t, err := toTaskEntity(&dbModels[i])
			if err != nil {
				return nil, err
			}
			tasks = append(tasks, t)
		}

		switch column {
		case domainTask.ColumnTodo:
			board.Todo = tasks
		case domainTask.ColumnDoing:
			board.Doing = tasks
		case domainTask.ColumnDone:
			board.Done = tasks
		}
	}

	return board, nil
}

func (r *TaskRepository) FindColumn(ctx context.Context, userID, taskID uuid.UUID) (domainTask.Column, error) {
	for _, column := range domainTask.Columns() {
		var count int64
		err := r.db.DB.WithContext(ctx).Model(&models.BoardEntryModel{}).
			Where("user_id = ? AND board_column = ? AND task_id = ?", userID, string(column), taskID).
			Count(&count).Error
		if err != nil {
			return "", fmt.Errorf("failed to search %s column: %w", column, err)
		}
		if count > 0 {
			return column, nil
		}
	}

	return "", domainTask.ErrTaskNotFound
}

func (r *TaskRepository) FindOwner(ctx context.Context, taskID uuid.UUID) (uuid.UUID, error) {
	var entry models.BoardEntryModel
	err := r.db.DB.WithContext(ctx).Where("task_id = ?", taskID).First(&entry).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, domainTask.ErrTaskNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to find board entry: %w", err)
	}
	return entry.UserID, nil
}

// ReplaceBoard swaps all three reference sequences in one transaction. Tasks
// no longer referenced keep their rows; destruction is never explicit here.
func (r *TaskRepository) ReplaceBoard(ctx context.Context, userID uuid.UUID, refs *domainTask.BoardRefs) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.BoardEntryModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear board entries: %w", err)
		}

		var entries []models.BoardEntryModel
		for _, column := range domainTask.Columns() {
			for position, taskID := range refs.ColumnRefs(column) {
				entries = append(entries, models.BoardEntryModel{
					UserID:   userID,
					Column:   string(column),
					Position: position,
					TaskID:   taskID,
				})
			}
		}

		if len(entries) == 0 {
			return nil
		}

		if err := tx.Create(&entries).Error; err != nil {
			return fmt.Errorf("failed to write board entries: %w", err)
		}
		return nil
	})
}

func (r *TaskRepository) MoveEntry(ctx context.Context, userID, taskID uuid.UUID, to domainTask.Column) error {
	if !to.Valid() {
		return domainTask.ErrInvalidColumn
	}

	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry models.BoardEntryModel
		err := tx.Where("user_id = ? AND task_id = ?", userID, taskID).First(&entry).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainTask.ErrTaskNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to find board entry: %w", err)
		}

		// Close the gap the entry leaves behind so positions stay dense.
		err = tx.Model(&models.BoardEntryModel{}).
			Where("user_id = ? AND board_column = ? AND position > ?", userID, entry.Column, entry.Position).
			UpdateColumn("position", gorm.Expr("position - 1")).Error
		if err != nil {
			return fmt.Errorf("failed to compact %s column: %w", entry.Column, err)
		}

		var tail int64
		err = tx.Model(&models.BoardEntryModel{}).
			Where("user_id = ? AND board_column = ? AND id <> ?", userID, string(to), entry.ID).
			Count(&tail).Error
		if err != nil {
			return fmt.Errorf("failed to size %s column: %w", to, err)
		}

		result := tx.Model(&models.BoardEntryModel{}).
			Where("id = ?", entry.ID).
			Updates(map[string]interface{}{
				"board_column": string(to),
				"position":     int(tail),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to move board entry: %w", result.Error)
		}
		return nil
	})
}

func toTaskModel(t *domainTask.Task) (*models.TaskModel, error) {
	moveLog, err := marshalMoveLog(t.MoveLog)
	if err != nil {
		return nil, err
	}

	return &models.TaskModel{
		ID:        t.ID,
		Title:     t.Title,
		Image:     t.Image,
		MoveLog:   moveLog,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}, nil
}

func toTaskEntity(m *models.TaskModel) (*domainTask.Task, error) {
	var moveLog []domainTask.MoveLogEntry
	if len(m.MoveLog) > 0 {
		if err := json.Unmarshal(m.MoveLog, &moveLog); err != nil {
			return nil, fmt.Errorf("failed to decode move log: %w", err)
		}
	}

	return &domainTask.Task{
		ID:        m.ID,
		Title:     m.Title,
		Image:     m.Image,
		MoveLog:   moveLog,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

func marshalMoveLog(log []domainTask.MoveLogEntry) (datatypes.JSON, error) {
	if log == nil {
		log = []domainTask.MoveLogEntry{}
	}
	data, err := json.Marshal(log)
	if err != nil {
		return nil, fmt.Errorf("failed to encode move log: %w", err)
	}
	return datatypes.JSON(data), nil
}
