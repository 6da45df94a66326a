//go:build integration

package bookdb

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mesh-intelligence/bookseed/pkg/types"
)

// postgresConfig starts a throwaway Postgres container and returns a pgx
// config pointing at it.
func postgresConfig(t *testing.T) types.Config {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase(types.DefaultSchema),
		postgres.WithUsername("bookseed"),
		postgres.WithPassword("bookseed"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	return types.Config{
		Driver:           types.DriverPgx,
		URL:              url,
		Schema:           types.DefaultSchema,
		StatementTimeout: 30 * time.Second,
	}
}

func openPostgresBackend(t *testing.T, cfg types.Config) (*Backend, *SeedResult) {
	t.Helper()
	b := NewBackend(discardLogger())
	require.NoError(t, b.Open(context.Background(), cfg))
	t.Cleanup(func() { b.Close() })
	require.NoError(t, b.ResetSchema(context.Background()))
	res, err := b.Seed(context.Background())
	require.NoError(t, err)
	return b, res
}

func TestPostgres(t *testing.T) {
	cfg := postgresConfig(t)
	ctx := context.Background()

	t.Run("run", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, Run(ctx, cfg, RunOptions{Out: &out, Logger: discardLogger()}))
		assert.Contains(t, out.String(), "Zzz Running Man")
		assert.Contains(t, out.String(), "Done.")
	})

	t.Run("seed", func(t *testing.T) {
		b, res := openPostgresBackend(t, cfg)
		got := counts(t, b)
		assert.Equal(t, 15, got[types.TableAuthors])
		assert.Equal(t, 15, got[types.TablePublishers])
		assert.Equal(t, len(defaultSeed.titles), got[types.TableTitles])
		assert.Equal(t, 15, got[types.TableAuthorISBN])

		titles, err := b.TitlesByPublisher(ctx, "Pearson")
		require.NoError(t, err)
		require.Len(t, titles, 3)
		assert.Equal(t, "A Running Man", titles[0].Title)
		assert.Equal(t, res.PublisherIDs["Pearson"], titles[0].PublisherID)
		assert.InDelta(t, 15.99, titles[0].Price, 0.001)
	})

	t.Run("delete author", func(t *testing.T) {
		b, res := openPostgresBackend(t, cfg)
		require.NoError(t, b.DeleteAuthor(ctx, res.AuthorIDs["Steven King"]))

		got := counts(t, b)
		assert.Equal(t, 14, got[types.TableAuthors])
		assert.Equal(t, len(defaultSeed.titles)-1, got[types.TableTitles])
		assert.Equal(t, 14, got[types.TableAuthorISBN])
	})

	t.Run("delete author keeps co-authors", func(t *testing.T) {
		b, res := openPostgresBackend(t, cfg)
		lee := res.AuthorIDs["Harper Lee"]
		_, err := b.Mutate(ctx, types.Mutation{
			Description: "link author",
			SQL:         "INSERT INTO authorISBN (authorID, isbn) VALUES (?, ?)",
			Args:        []any{lee, res.ISBNs["Harry Potter"]},
		})
		require.NoError(t, err)

		require.NoError(t, b.DeleteAuthor(ctx, res.AuthorIDs["Steven King"]))

		authors, err := b.AuthorsByLastName(ctx)
		require.NoError(t, err)
		assert.Contains(t, authors, types.Author{AuthorID: lee, FirstName: "Harper", LastName: "Lee"})

		got := counts(t, b)
		assert.Equal(t, 14, got[types.TableAuthors])
		assert.Equal(t, len(defaultSeed.titles)-1, got[types.TableTitles])
		assert.Equal(t, 14, got[types.TableAuthorISBN])
	})

	t.Run("delete authorISBN", func(t *testing.T) {
		b, res := openPostgresBackend(t, cfg)
		require.NoError(t, b.DeleteAuthorISBN(ctx, res.AuthorIDs["J.K. Rowling"], res.ISBNs["The Running Man"]))

		got := counts(t, b)
		assert.Equal(t, 14, got[types.TableAuthors])
		assert.Equal(t, len(defaultSeed.titles)-1, got[types.TableTitles])
		assert.Equal(t, 14, got[types.TableAuthorISBN])
	})

	t.Run("demonstrate", func(t *testing.T) {
		b, res := openPostgresBackend(t, cfg)
		require.NoError(t, b.Demonstrate(ctx, nil))

		pubs, err := b.Publishers(ctx)
		require.NoError(t, err)
		assert.Contains(t, pubs, types.Publisher{
			PublisherID:   res.PublisherIDs["Pearson"],
			PublisherName: "New Publisher Name",
		})
	})
}
