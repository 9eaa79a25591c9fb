package task

import (
	"time"

	"github.com/google/uuid"
)

// Column identifies one of the three board columns.
type Column string

const (
	ColumnTodo  Column = "todo"
	ColumnDoing Column = "doing"
	ColumnDone  Column = "done"
)

// Columns returns the board columns in their canonical search order.
func Columns() []Column {
	return []Column{ColumnTodo, ColumnDoing, ColumnDone}
}

func (c Column) Valid() bool {
	switch c {
	case ColumnTodo, ColumnDoing, ColumnDone:
		return true
	}
	return false
}

// MoveLogEntry records a single column transition.
type MoveLogEntry struct {
	Column Column    `json:"column"`
	Time   time.Time `json:"time"`
}

// Task is owned by exactly one user at a time through its board entry.
// Moving a task between columns reassigns the entry, not the task row.
type Task struct {
	ID        uuid.UUID      `json:"id"`
	Title     string         `json:"title"`
	Image     *string        `json:"img,omitempty"`
	MoveLog   []MoveLogEntry `json:"movedAt"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"-"`
}

// Board is the three ordered task columns of one user. Slice order within a
// column is display order.
type Board struct {
	Todo  []*Task `json:"todo"`
	Doing []*Task `json:"doing"`
	Done  []*Task `json:"done"`
}

func NewBoard() *Board {
	return &Board{
		Todo:  []*Task{},
		Doing: []*Task{},
		Done:  []*Task{},
	}
}

// ColumnTasks returns the slice holding the given column.
func (b *Board) ColumnTasks(c Column) []*Task {
	switch c {
	case ColumnTodo:
		return b.Todo
	case ColumnDoing:
		return b.Doing
	case ColumnDone:
		return b.Done
	}
	return nil
}

// BoardRefs is the persisted reference view of a board: ordered task ids per
// column.
type BoardRefs struct {
	Todo  []uuid.UUID
	Doing []uuid.UUID
	Done  []uuid.UUID
}

// ColumnRefs returns the id sequence of the given column.
func (r *BoardRefs) ColumnRefs(c Column) []uuid.UUID {
	switch c {
	case ColumnTodo:
		return r.Todo
	case ColumnDoing:
		return r.Doing
	case ColumnDone:
		return r.Done
	}
	return nil
}

func (r *BoardRefs) SetColumnRefs(c Column, ids []uuid.UUID) {
	switch c {
	case ColumnTodo:
		r.Todo = ids
	case ColumnDoing:
		r.Doing = ids
	case ColumnDone:
		r.Done = ids
	}
}
