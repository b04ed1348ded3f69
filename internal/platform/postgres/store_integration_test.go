//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskapi/internal/store"
	"github.com/phrazzld/taskapi/internal/testdb"
)

func TestPostgresTaskStoreIntegration(t *testing.T) {
	db := testdb.GetTestDB(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		tasks := NewPostgresTaskStore(tx, nil)
		comments := NewPostgresCommentStore(tx, nil)

		before, err := tasks.Count(ctx)
		require.NoError(t, err)

		created, err := tasks.Create(ctx, "Buy milk", "2 liters")
		require.NoError(t, err)
		assert.Positive(t, created.ID)

		got, err := tasks.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Buy milk", got.Title)
		assert.Nil(t, got.Comments)

		updated, err := tasks.Update(ctx, created.ID, "Buy oat milk", "1 liter")
		require.NoError(t, err)
		assert.Equal(t, "Buy oat milk", updated.Title)

		after, err := tasks.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, before+1, after)

		c1, err := comments.Create(ctx, created.ID, "first")
		require.NoError(t, err)
		_, err = comments.Create(ctx, created.ID, "second")
		require.NoError(t, err)

		all, err := tasks.ListWithComments(ctx)
		require.NoError(t, err)
		var found bool
		for _, task := range all {
			assert.NotNil(t, task.Comments)
			if task.ID == created.ID {
				found = true
				require.Len(t, task.Comments, 2)
				assert.Equal(t, c1.ID, task.Comments[0].ID)
				assert.Equal(t, created.ID, task.Comments[1].TaskID)
			}
		}
		assert.True(t, found)

		require.NoError(t, tasks.Delete(ctx, created.ID))
		_, err = tasks.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		_, err = comments.GetByID(ctx, c1.ID)
		assert.ErrorIs(t, err, store.ErrCommentNotFound, "comments cascade with their task")

		assert.ErrorIs(t, tasks.Delete(ctx, created.ID), store.ErrTaskNotFound)
		_, err = tasks.Update(ctx, created.ID, "x", "y")
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestPostgresCommentStoreIntegration(t *testing.T) {
	db := testdb.GetTestDB(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		tasks := NewPostgresTaskStore(tx, nil)
		comments := NewPostgresCommentStore(tx, nil)

		task, err := tasks.Create(ctx, "t", "d")
		require.NoError(t, err)

		empty, err := comments.ListByTask(ctx, task.ID)
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)

		c, err := comments.Create(ctx, task.ID, "hello")
		require.NoError(t, err)

		c, err = comments.Update(ctx, c.ID, "edited")
		require.NoError(t, err)
		assert.Equal(t, "edited", c.Content)
		assert.Equal(t, task.ID, c.TaskID)

		list, err := comments.ListByTask(ctx, task.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "edited", list[0].Content)

		require.NoError(t, comments.Delete(ctx, c.ID))
		assert.ErrorIs(t, comments.Delete(ctx, c.ID), store.ErrCommentNotFound)
		_, err = comments.Update(ctx, c.ID, "again")
		assert.ErrorIs(t, err, store.ErrCommentNotFound)
	})
}

func TestPostgresCommentOnMissingTask(t *testing.T) {
	db := testdb.GetTestDB(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		_, err := NewPostgresCommentStore(tx, nil).Create(context.Background(), -1, "orphan")
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}
