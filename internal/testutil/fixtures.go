package testutil

import (
	"context"
	"fmt"
	"testing"

	domainTask "taskboard/internal/domain/task"
	domainUser "taskboard/internal/domain/user"
	"taskboard/internal/infrastructure/database/postgres"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	username string
	email    string
	password string
	role     string
	googleID *string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		username: fmt.Sprintf("testuser_%s", suffix),
		email:    fmt.Sprintf("testuser_%s@example.com", suffix),
		password: "testpassword123",
		role:     domainUser.RoleUser,
	}
}

// WithUsername sets the username
func (b *UserBuilder) WithUsername(name string) *UserBuilder {
	b.username = name
	return b
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// WithRole sets the role
func (b *UserBuilder) WithRole(role string) *UserBuilder {
	b.role = role
	return b
}

// WithGoogleID marks the user as a Google account
func (b *UserBuilder) WithGoogleID(id string) *UserBuilder {
	b.googleID = &id
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *postgres.DB) (*domainUser.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	hash := string(hashedPassword)

	user := &domainUser.User{
		ID:           uuid.New(),
		Username:     b.username,
		Email:        b.email,
		PasswordHash: &hash,
		GoogleID:     b.googleID,
		Avatar:       domainUser.DefaultAvatar,
		Role:         b.role,
	}

	repo := postgres.NewUserRepository(db)
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// TaskBuilder creates test tasks
type TaskBuilder struct {
	title   string
	image   *string
	moveLog []domainTask.MoveLogEntry
}

// NewTaskBuilder creates a new TaskBuilder with default values
func NewTaskBuilder() *TaskBuilder {
	return &TaskBuilder{
		title: fmt.Sprintf("task_%s", uuid.New().String()[:8]),
	}
}

// WithTitle sets the title
func (b *TaskBuilder) WithTitle(title string) *TaskBuilder {
	b.title = title
	return b
}

// WithImage sets the image URL
func (b *TaskBuilder) WithImage(url string) *TaskBuilder {
	b.image = &url
	return b
}

// WithMoveLog sets the move log
func (b *TaskBuilder) WithMoveLog(log []domainTask.MoveLogEntry) *TaskBuilder {
	b.moveLog = log
	return b
}

// Build creates the task in the database
func (b *TaskBuilder) Build(t *testing.T, db *postgres.DB) *domainTask.Task {
	t.Helper()

	task := &domainTask.Task{
		ID:      uuid.New(),
		Title:   b.title,
		Image:   b.image,
		MoveLog: b.moveLog,
	}

	repo := postgres.NewTaskRepository(db)
	if err := repo.Create(context.Background(), task); err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	return task
}

// BuildOnBoard creates the task and places it at the tail of a board column
func (b *TaskBuilder) BuildOnBoard(t *testing.T, db *postgres.DB, userID uuid.UUID, column domainTask.Column) *domainTask.Task {
	t.Helper()

	task := b.Build(t, db)
	repo := postgres.NewTaskRepository(db)

	board, err := repo.GetBoard(context.Background(), userID)
	if err != nil {
		t.Fatalf("failed to load board: %v", err)
	}

	refs := &domainTask.BoardRefs{}
	for _, col := range domainTask.Columns() {
		ids := make([]uuid.UUID, 0)
		for _, existing := range board.ColumnTasks(col) {
			ids = append(ids, existing.ID)
		}
		if col == column {
			ids = append(ids, task.ID)
		}
		refs.SetColumnRefs(col, ids)
	}

	if err := repo.ReplaceBoard(context.Background(), userID, refs); err != nil {
		t.Fatalf("failed to place task on board: %v", err)
	}

	return task
}
