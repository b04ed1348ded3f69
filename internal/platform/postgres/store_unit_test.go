package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/taskapi/internal/store"
)

// mockDBTX implements store.DBTX for the paths that only use ExecContext.
type mockDBTX struct {
	result sql.Result
	err    error
	query  string
	args   []any
}

func (m *mockDBTX) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	m.query = query
	m.args = args
	return m.result, m.err
}

func (m *mockDBTX) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, errors.New("not implemented")
}

func (m *mockDBTX) QueryRowContext(context.Context, string, ...any) *sql.Row {
	return nil
}

func TestNewStores(t *testing.T) {
	tests := []struct {
		name        string
		db          store.DBTX
		logger      *slog.Logger
		expectPanic bool
	}{
		{name: "nil_db_panics", db: nil, logger: slog.Default(), expectPanic: true},
		{name: "valid_db_with_logger", db: &sql.DB{}, logger: slog.Default()},
		{name: "nil_logger_uses_default", db: &mockDBTX{}, logger: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.expectPanic {
				assert.Panics(t, func() { NewPostgresTaskStore(tt.db, tt.logger) })
				assert.Panics(t, func() { NewPostgresCommentStore(tt.db, tt.logger) })
				return
			}

			ts := NewPostgresTaskStore(tt.db, tt.logger)
			assert.NotNil(t, ts.db)
			assert.NotNil(t, ts.logger)

			cs := NewPostgresCommentStore(tt.db, tt.logger)
			assert.NotNil(t, cs.db)
			assert.NotNil(t, cs.logger)
		})
	}
}

func TestTaskStoreDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		db := &mockDBTX{result: fakeResult{rows: 1}}
		err := NewPostgresTaskStore(db, nil).Delete(ctx, 7)
		assert.NoError(t, err)
		assert.Equal(t, []any{int64(7)}, db.args)
	})

	t.Run("missing row", func(t *testing.T) {
		db := &mockDBTX{result: fakeResult{rows: 0}}
		err := NewPostgresTaskStore(db, nil).Delete(ctx, 7)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("driver error", func(t *testing.T) {
		db := &mockDBTX{err: errors.New("connection refused")}
		err := NewPostgresTaskStore(db, nil).Delete(ctx, 7)

		var storeErr *store.StoreError
		assert.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "delete", storeErr.Operation)
		assert.False(t, store.IsNotFoundError(err))
	})
}

func TestCommentStoreDelete(t *testing.T) {
	ctx := context.Background()

	db := &mockDBTX{result: fakeResult{rows: 0}}
	err := NewPostgresCommentStore(db, nil).Delete(ctx, 3)
	assert.ErrorIs(t, err, store.ErrCommentNotFound)
	assert.NotErrorIs(t, err, store.ErrTaskNotFound)

	db = &mockDBTX{result: fakeResult{rows: 1}}
	assert.NoError(t, NewPostgresCommentStore(db, nil).Delete(ctx, 3))
}
