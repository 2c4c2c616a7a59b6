package task

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"kanbaniq/internal/app/board"
	"kanbaniq/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentCreatesKeepPositionsDense(t *testing.T) {
	f := newFixture(t)
	column := f.column(0)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.CreateTask(context.Background(), f.board.ID, f.admin, CreateTaskRequest{
				Title:    fmt.Sprintf("task %d", i),
				ColumnID: &column,
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Len(t, f.order(t, column), n)
}

func TestRepositoryRejectsDeletedColumn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := NewRepository(f.db)
	task := f.create(t, "Write brief", f.column(0))

	gone := f.column(2)
	require.NoError(t, f.db.Delete(&board.Column{}, gone).Error)

	t.Run("move", func(t *testing.T) {
		_, err := repo.Move(ctx, f.board.ID, task.ID, gone, 0)
		assert.ErrorIs(t, err, utils.ErrValidation)

		stored, err := repo.GetByID(ctx, f.board.ID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, f.column(0), stored.ColumnID)
		assert.Equal(t, 0, stored.Position)
	})

	t.Run("create", func(t *testing.T) {
		err := repo.Create(ctx, &Task{
			BoardID:     f.board.ID,
			ColumnID:    gone,
			Title:       "Orphan",
			Priority:    PriorityLow,
			CreatedByID: f.admin.ID,
		})
		assert.ErrorIs(t, err, utils.ErrValidation)

		var count int64
		require.NoError(t, f.db.Model(&Task{}).Where("column_id = ?", gone).Count(&count).Error)
		assert.Zero(t, count)
	})
}

func TestRepositoryOnMissingBoard(t *testing.T) {
	f := newFixture(t)
	repo := NewRepository(f.db)
	task := f.create(t, "Write brief", f.column(0))

	_, err := repo.Move(context.Background(), f.board.ID+100, task.ID, f.column(1), 0)
	assert.True(t, IsNotFound(err))

	_, err = repo.Delete(context.Background(), f.board.ID+100, task.ID)
	assert.True(t, IsNotFound(err))
}
