package postgres_test

import (
	"context"
	"testing"
	"time"

	domainTask "taskboard/internal/domain/task"
	"taskboard/internal/infrastructure/database/postgres"
	"taskboard/internal/infrastructure/database/postgres/models"
	"taskboard/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := postgres.NewTaskRepository(db)
	ctx := context.Background()

	image := "https://example.com/cover.png"
	task := &domainTask.Task{
		Title: "write report",
		Image: &image,
		MoveLog: []domainTask.MoveLogEntry{
			{Column: domainTask.ColumnTodo, Time: time.Now().Truncate(time.Second)},
		},
	}

	require.NoError(t, repo.Create(ctx, task))
	assert.NotEqual(t, uuid.Nil, task.ID)

	found, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "write report", found.Title)
	require.NotNil(t, found.Image)
	assert.Equal(t, image, *found.Image)
	require.Len(t, found.MoveLog, 1)
	assert.Equal(t, domainTask.ColumnTodo, found.MoveLog[0].Column)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domainTask.ErrTaskNotFound)
}

func TestTaskRepository_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := postgres.NewTaskRepository(db)
	ctx := context.Background()

	task := testutil.NewTaskBuilder().WithTitle("before").Build(t, db)

	task.Title = "after"
	task.MoveLog = append(task.MoveLog, domainTask.MoveLogEntry{
		Column: domainTask.ColumnDoing,
		Time:   time.Now(),
	})
	require.NoError(t, repo.Update(ctx, task))

	found, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", found.Title)
	require.Len(t, found.MoveLog, 1)
	assert.Equal(t, domainTask.ColumnDoing, found.MoveLog[0].Column)

	ghost := &domainTask.Task{ID: uuid.New(), Title: "ghost"}
	assert.ErrorIs(t, repo.Update(ctx, ghost), domainTask.ErrTaskNotFound)
}

func TestTaskRepository_ReplaceBoardAndGetBoard(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := postgres.NewTaskRepository(db)
	ctx := context.Background()

	userID := uuid.New()

	first := testutil.NewTaskBuilder().WithTitle("first").Build(t, db)
	second := testutil.NewTaskBuilder().WithTitle("second").Build(t, db)
	third := testutil.NewTaskBuilder().WithTitle("third").Build(t, db)

	refs := &domainTask.BoardRefs{
		Todo:  []uuid.UUID{second.ID, first.ID},
		Doing: []uuid.UUID{third.ID},
	}
	require.NoError(t, repo.ReplaceBoard(ctx, userID, refs))

	board, err := repo.GetBoard(ctx, userID)
	require.NoError(t, err)

	require.Len(t, board.Todo, 2)
	assert.Equal(t, "second", board.Todo[0].Title)
	assert.Equal(t, "first", board.Todo[1].Title)
	require.Len(t, board.Doing, 1)
	assert.Equal(t, "third", board.Doing[0].Title)
	assert.Empty(t, board.Done)

	t.Run("replace drops stale references", func(t *testing.T) {
		next := &domainTask.BoardRefs{
			Done: []uuid.UUID{first.ID},
		}
		require.NoError(t, repo.ReplaceBoard(ctx, userID, next))

		board, err := repo.GetBoard(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, board.Todo)
		assert.Empty(t, board.Doing)
		require.Len(t, board.Done, 1)
		assert.Equal(t, "first", board.Done[0].Title)

		// Dropped tasks keep their rows
		_, err = repo.GetByID(ctx, second.ID)
		assert.NoError(t, err)
	})

	t.Run("boards are per user", func(t *testing.T) {
		board, err := repo.GetBoard(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, board.Todo)
		assert.Empty(t, board.Doing)
		assert.Empty(t, board.Done)
	})
}

func TestTaskRepository_FindColumn(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := postgres.NewTaskRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	inTodo := testutil.NewTaskBuilder().BuildOnBoard(t, db, userID, domainTask.ColumnTodo)
	inDone := testutil.NewTaskBuilder().BuildOnBoard(t, db, userID, domainTask.ColumnDone)

	col, err := repo.FindColumn(ctx, userID, inTodo.ID)
	require.NoError(t, err)
	assert.Equal(t, domainTask.ColumnTodo, col)

	col, err = repo.FindColumn(ctx, userID, inDone.ID)
	require.NoError(t, err)
	assert.Equal(t, domainTask.ColumnDone, col)

	_, err = repo.FindColumn(ctx, userID, uuid.New())
	assert.ErrorIs(t, err, domainTask.ErrTaskNotFound)

	// Same task is invisible on another user's board
	_, err = repo.FindColumn(ctx, uuid.New(), inTodo.ID)
	assert.ErrorIs(t, err, domainTask.ErrTaskNotFound)
}

func TestTaskRepository_FindOwner(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := postgres.NewTaskRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	owned := testutil.NewTaskBuilder().BuildOnBoard(t, db, userID, domainTask.ColumnTodo)
	loose := testutil.NewTaskBuilder().Build(t, db)

	owner, err := repo.FindOwner(ctx, owned.ID)
	require.NoError(t, err)
	assert.Equal(t, userID, owner)

	// A task no board references has no owner
	_, err = repo.FindOwner(ctx, loose.ID)
	assert.ErrorIs(t, err, domainTask.ErrTaskNotFound)

	_, err = repo.FindOwner(ctx, uuid.New())
	assert.ErrorIs(t, err, domainTask.ErrTaskNotFound)
}

func TestTaskRepository_MoveEntry(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := postgres.NewTaskRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	moved := testutil.NewTaskBuilder().WithTitle("moved").BuildOnBoard(t, db, userID, domainTask.ColumnTodo)
	testutil.NewTaskBuilder().WithTitle("resident").BuildOnBoard(t, db, userID, domainTask.ColumnDoing)

	require.NoError(t, repo.MoveEntry(ctx, userID, moved.ID, domainTask.ColumnDoing))

	board, err := repo.GetBoard(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, board.Todo)
	require.Len(t, board.Doing, 2)

	// Moved entry lands at the tail of the target column
	assert.Equal(t, "resident", board.Doing[0].Title)
	assert.Equal(t, "moved", board.Doing[1].Title)

	t.Run("invalid column", func(t *testing.T) {
		err := repo.MoveEntry(ctx, userID, moved.ID, domainTask.Column("archived"))
		assert.ErrorIs(t, err, domainTask.ErrInvalidColumn)
	})

	t.Run("task not on board", func(t *testing.T) {
		err := repo.MoveEntry(ctx, userID, uuid.New(), domainTask.ColumnDone)
		assert.ErrorIs(t, err, domainTask.ErrTaskNotFound)
	})
}

func TestTaskRepository_MoveEntry_KeepsPositionsDense(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := postgres.NewTaskRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	first := testutil.NewTaskBuilder().WithTitle("first").BuildOnBoard(t, db, userID, domainTask.ColumnDoing)
	testutil.NewTaskBuilder().WithTitle("second").BuildOnBoard(t, db, userID, domainTask.ColumnDoing)
	testutil.NewTaskBuilder().WithTitle("third").BuildOnBoard(t, db, userID, domainTask.ColumnDoing)

	positions := func(column domainTask.Column) []int {
		var entries []models.BoardEntryModel
		require.NoError(t, db.DB.
			Where("user_id = ? AND board_column = ?", userID, string(column)).
			Order("position").
			Find(&entries).Error)

		out := make([]int, 0, len(entries))
		for _, e := range entries {
			out = append(out, e.Position)
		}
		return out
	}

	t.Run("same column move lands at the tail without gaps", func(t *testing.T) {
		require.NoError(t, repo.MoveEntry(ctx, userID, first.ID, domainTask.ColumnDoing))

		assert.Equal(t, []int{0, 1, 2}, positions(domainTask.ColumnDoing))

		board, err := repo.GetBoard(ctx, userID)
		require.NoError(t, err)
		require.Len(t, board.Doing, 3)
		assert.Equal(t, "second", board.Doing[0].Title)
		assert.Equal(t, "third", board.Doing[1].Title)
		assert.Equal(t, "first", board.Doing[2].Title)
	})

	t.Run("cross column move compacts the source column", func(t *testing.T) {
		// "second" sits at the head of doing after the previous move
		board, err := repo.GetBoard(ctx, userID)
		require.NoError(t, err)
		require.NoError(t, repo.MoveEntry(ctx, userID, board.Doing[0].ID, domainTask.ColumnDone))

		assert.Equal(t, []int{0, 1}, positions(domainTask.ColumnDoing))
		assert.Equal(t, []int{0}, positions(domainTask.ColumnDone))
	})
}
