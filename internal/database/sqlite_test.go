package database

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB(t *testing.T) {
	t.Run("Success - creates the directory and the turns table", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "ledger.db")

		db, err := InitDB(path)
		require.NoError(t, err)
		defer func() { require.NoError(t, db.Close()) }()

		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='turns'").Scan(&name)
		require.NoError(t, err)
		assert.Equal(t, "turns", name)
	})

	t.Run("Success - running twice is a no-op", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.db")

		db, err := InitDB(path)
		require.NoError(t, err)
		require.NoError(t, db.Close())

		db, err = InitDB(path)
		require.NoError(t, err)
		require.NoError(t, db.Close())
	})

	t.Run("Success - in-memory database is shared by every query", func(t *testing.T) {
		db, err := InitDB(":memory:")
		require.NoError(t, err)
		defer func() { require.NoError(t, db.Close()) }()

		assert.Equal(t, 1, db.Stats().MaxOpenConnections)

		ctx := context.Background()
		conn, err := db.Conn(ctx)
		require.NoError(t, err)
		var n int
		require.NoError(t, conn.QueryRowContext(ctx, "SELECT count(*) FROM turns").Scan(&n))

		// While the only connection is held, the pool waits rather than
		// opening a second, empty database.
		waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		err = db.QueryRowContext(waitCtx, "SELECT count(*) FROM turns").Scan(&n)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		require.NoError(t, conn.Close())

		require.NoError(t, db.QueryRowContext(ctx, "SELECT count(*) FROM turns").Scan(&n))
		assert.Equal(t, 0, n)
	})

	t.Run("Success - concurrent writes and reads on an in-memory database", func(t *testing.T) {
		db, err := InitDB(":memory:")
		require.NoError(t, err)
		defer func() { require.NoError(t, db.Close()) }()

		var wg sync.WaitGroup
		errs := make(chan error, 40)
		for i := 0; i < 20; i++ {
			wg.Add(2)
			go func(i int) {
				defer wg.Done()
				_, err := db.Exec(`INSERT INTO turns (id, language, provider, history_len, message_len, bytes_streamed, status, started_at, duration_ms)
					VALUES (?, 'en', 'test', 0, 1, 0, 'completed', ?, 0)`, fmt.Sprintf("turn-%d", i), time.Now().UTC())
				errs <- err
			}(i)
			go func() {
				defer wg.Done()
				var n int
				errs <- db.QueryRow("SELECT count(*) FROM turns").Scan(&n)
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		var n int
		require.NoError(t, db.QueryRow("SELECT count(*) FROM turns").Scan(&n))
		assert.Equal(t, 20, n)
	})

	t.Run("Success - in-memory DSN detection", func(t *testing.T) {
		assert.True(t, isInMemory(":memory:"))
		assert.True(t, isInMemory("file::memory:?cache=shared"))
		assert.True(t, isInMemory("file:ledger?mode=memory&cache=shared"))
		assert.False(t, isInMemory("/data/legalaid.db"))
	})
}
