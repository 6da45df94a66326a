package bookdb

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/bookseed/pkg/types"
)

func TestDialectFor(t *testing.T) {
	d, err := dialectFor(types.DriverSQLite)
	require.NoError(t, err)
	assert.Same(t, sqliteDialect, d)

	d, err = dialectFor(types.DriverPgx)
	require.NoError(t, err)
	assert.Same(t, pgDialect, d)

	_, err = dialectFor("mysql")
	assert.ErrorIs(t, err, types.ErrDriverUnknown)
}

func TestRebind(t *testing.T) {
	tests := []struct {
		name  string
		d     *dialect
		query string
		want  string
	}{
		{
			name:  "sqlite keeps question marks",
			d:     sqliteDialect,
			query: "UPDATE authors SET firstName = ? WHERE firstName = ?",
			want:  "UPDATE authors SET firstName = ? WHERE firstName = ?",
		},
		{
			name:  "postgres numbers placeholders",
			d:     pgDialect,
			query: "UPDATE authors SET firstName = ? WHERE firstName = ?",
			want:  "UPDATE authors SET firstName = $1 WHERE firstName = $2",
		},
		{
			name:  "postgres without placeholders is unchanged",
			d:     pgDialect,
			query: "SELECT COUNT(*) FROM titles",
			want:  "SELECT COUNT(*) FROM titles",
		},
		{
			name:  "postgres numbers past nine",
			d:     pgDialect,
			query: strings.Repeat("?,", 10) + "?",
			want:  "$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.rebind(tt.query))
		})
	}
}

func TestDialectsCreateParentsFirst(t *testing.T) {
	for _, d := range []*dialect{sqliteDialect, pgDialect} {
		t.Run(d.driver, func(t *testing.T) {
			pos := map[string]int{}
			for i, s := range d.tables {
				pos[s.name] = i
			}
			assert.Less(t, pos[types.TableAuthors], pos[types.TableAuthorISBN])
			assert.Less(t, pos[types.TablePublishers], pos[types.TableTitles])
			assert.Less(t, pos[types.TableTitles], pos[types.TableAuthorISBN])
			assert.NotEmpty(t, d.drop)
			assert.NotEmpty(t, d.triggers)
		})
	}
}
