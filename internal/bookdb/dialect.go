package bookdb

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/bookseed/pkg/types"
)

// dialect holds the per-driver DDL and the placeholder style. Queries in
// this package are written with ? placeholders and rebound before use.
type dialect struct {
	driver   string
	session  []string // run once on the pinned connection after connecting
	drop     []statement
	tables   []statement
	triggers []statement
	numbered bool // placeholders are $1, $2, ...
}

var sqliteDialect = &dialect{
	driver:   types.DriverSQLite,
	session:  []string{"PRAGMA foreign_keys = ON;"},
	drop:     sqliteDrop,
	tables:   sqliteTables,
	triggers: sqliteTriggers,
}

var pgDialect = &dialect{
	driver:   types.DriverPgx,
	drop:     pgDrop,
	tables:   pgTables,
	triggers: pgTriggers,
	numbered: true,
}

// dialectFor returns the dialect registered for driver.
func dialectFor(driver string) (*dialect, error) {
	switch driver {
	case types.DriverSQLite:
		return sqliteDialect, nil
	case types.DriverPgx:
		return pgDialect, nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrDriverUnknown, driver)
	}
}

// rebind rewrites ? placeholders to $n for dialects that number them.
// Queries in this package never contain a literal question mark.
func (d *dialect) rebind(query string) string {
	if !d.numbered || !strings.Contains(query, "?") {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r != '?' {
			sb.WriteRune(r)
			continue
		}
		n++
		sb.WriteByte('$')
		sb.WriteString(strconv.Itoa(n))
	}
	return sb.String()
}
