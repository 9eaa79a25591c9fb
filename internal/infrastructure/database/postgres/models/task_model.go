package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TaskModel represents the database model for Task. MoveLog is the ordered
// JSON log of column transitions.
type TaskModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key"`
	Title     string         `gorm:"type:varchar(255);not null"`
	Image     *string        `gorm:"type:text"`
	MoveLog   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}

func (TaskModel) TableName() string {
	return "tasks"
}

// BoardEntryModel is one reference in a user's board: which column holds the
// task and at what position. A task appears in at most one entry per user.
type BoardEntryModel struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index:idx_board_user_column,priority:1"`
	Column   string    `gorm:"column:board_column;type:varchar(10);not null;index:idx_board_user_column,priority:2"`
	Position int       `gorm:"not null"`
	TaskID   uuid.UUID `gorm:"type:uuid;not null;index"`
}

func (BoardEntryModel) TableName() string {
	return "board_entries"
}
