package bookdb

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/bookseed/pkg/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testConfig returns a SQLite config whose database lives in a fresh
// temporary directory.
func testConfig(t *testing.T) types.Config {
	t.Helper()
	return types.Config{
		Driver: types.DriverSQLite,
		URL:    t.TempDir(),
		Schema: types.DefaultSchema,
	}
}

// openTestBackend opens a backend on a fresh SQLite database and resets the
// schema. The backend is closed when the test ends.
func openTestBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend(discardLogger())
	require.NoError(t, b.Open(context.Background(), testConfig(t)))
	t.Cleanup(func() { b.Close() })
	require.NoError(t, b.ResetSchema(context.Background()))
	return b
}

// seededBackend returns an open backend loaded with the default seed.
func seededBackend(t *testing.T) (*Backend, *SeedResult) {
	t.Helper()
	b := openTestBackend(t)
	res, err := b.Seed(context.Background())
	require.NoError(t, err)
	return b, res
}

// counts returns the row count of every standard table.
func counts(t *testing.T, b *Backend) map[string]int {
	t.Helper()
	out := make(map[string]int, len(types.StandardTableNames))
	for _, name := range types.StandardTableNames {
		n, err := b.Count(context.Background(), name)
		require.NoError(t, err)
		out[name] = n
	}
	return out
}

// titleExists reports whether a title with the given name is present.
func titleExists(t *testing.T, b *Backend, title string) bool {
	t.Helper()
	var n int
	err := b.conn.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM titles WHERE title = ?", title).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

// authorExists reports whether an author with the given ID is present.
func authorExists(t *testing.T, b *Backend, id int64) bool {
	t.Helper()
	var n int
	err := b.conn.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM authors WHERE authorID = ?", id).Scan(&n)
	require.NoError(t, err)
	return n > 0
}
