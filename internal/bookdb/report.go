package bookdb

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/bookseed/pkg/types"
)

// Report names accepted by WriteReport.
const (
	ReportAuthors     = "authors"
	ReportPublishers  = "publishers"
	ReportByPublisher = "by-publisher"
	ReportTitles      = "titles"
	ReportAuthorISBN  = "authorisbn"
)

// ReportNames lists the reports in display order.
var ReportNames = []string{
	ReportAuthors,
	ReportPublishers,
	ReportByPublisher,
	ReportTitles,
	ReportAuthorISBN,
}

const (
	selectAuthorsByLastName = "SELECT authorID, firstName, lastName FROM authors ORDER BY lastName ASC, firstName ASC"
	selectPublishers        = "SELECT publisherID, publisherName FROM publishers ORDER BY publisherID"
	selectPublisherID       = "SELECT publisherID FROM publishers WHERE publisherName = ?"
	selectTitlesByPublisher = "SELECT isbn, editionNumber, year, publisherID, price, title FROM titles WHERE publisherID = ? ORDER BY title ASC"
	selectTitles            = "SELECT isbn, editionNumber, year, publisherID, price, title FROM titles ORDER BY isbn"
	selectAuthorISBNs       = "SELECT authorID, isbn FROM authorISBN ORDER BY authorID, isbn"
)

// query runs a read-only statement and hands each row to scan.
func (b *Backend) query(ctx context.Context, name, q string, scan func(*sql.Rows) error, args ...any) error {
	if b.conn == nil {
		return types.ErrBackendClosed
	}
	ctx, cancel := b.stmtContext(ctx)
	defer cancel()

	rows, err := b.conn.QueryContext(ctx, b.dialect.rebind(q), args...)
	if err != nil {
		return &types.StatementError{Op: types.OpQuery, Name: name, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return &types.StatementError{Op: types.OpQuery, Name: name, Err: err}
		}
	}
	if err := rows.Err(); err != nil {
		return &types.StatementError{Op: types.OpQuery, Name: name, Err: err}
	}
	return nil
}

// AuthorsByLastName returns every author ordered by last name, then first
// name.
func (b *Backend) AuthorsByLastName(ctx context.Context) ([]types.Author, error) {
	var out []types.Author
	err := b.query(ctx, ReportAuthors, selectAuthorsByLastName, func(rows *sql.Rows) error {
		var a types.Author
		var first, last sql.NullString
		if err := rows.Scan(&a.AuthorID, &first, &last); err != nil {
			return err
		}
		a.FirstName, a.LastName = first.String, last.String
		out = append(out, a)
		return nil
	})
	return out, err
}

// Publishers returns every publisher in ID order.
func (b *Backend) Publishers(ctx context.Context) ([]types.Publisher, error) {
	var out []types.Publisher
	err := b.query(ctx, ReportPublishers, selectPublishers, func(rows *sql.Rows) error {
		var p types.Publisher
		var name sql.NullString
		if err := rows.Scan(&p.PublisherID, &name); err != nil {
			return err
		}
		p.PublisherName = name.String
		out = append(out, p)
		return nil
	})
	return out, err
}

// PublisherID resolves a publisher name to its generated ID. The boolean
// is false when no publisher has that name.
func (b *Backend) PublisherID(ctx context.Context, name string) (int64, bool, error) {
	if b.conn == nil {
		return 0, false, types.ErrBackendClosed
	}
	ctx, cancel := b.stmtContext(ctx)
	defer cancel()

	var id int64
	err := b.conn.QueryRowContext(ctx, b.dialect.rebind(selectPublisherID), name).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		return 0, false, nil
	case err != nil:
		return 0, false, &types.StatementError{Op: types.OpQuery, Name: "publisher id", Err: err}
	}
	return id, true, nil
}

// TitlesByPublisher resolves the publisher's ID, then returns its titles
// ordered by title. An unknown publisher yields no titles.
func (b *Backend) TitlesByPublisher(ctx context.Context, publisher string) ([]types.Title, error) {
	id, ok, err := b.PublisherID(ctx, publisher)
	if err != nil || !ok {
		return nil, err
	}
	var out []types.Title
	err = b.query(ctx, ReportByPublisher, selectTitlesByPublisher, func(rows *sql.Rows) error {
		t, err := scanTitle(rows)
		if err != nil {
			return err
		}
		out = append(out, t)
		return nil
	}, id)
	return out, err
}

// Titles returns every title in ISBN order.
func (b *Backend) Titles(ctx context.Context) ([]types.Title, error) {
	var out []types.Title
	err := b.query(ctx, ReportTitles, selectTitles, func(rows *sql.Rows) error {
		t, err := scanTitle(rows)
		if err != nil {
			return err
		}
		out = append(out, t)
		return nil
	})
	return out, err
}

// AuthorISBNs returns every author/title link.
func (b *Backend) AuthorISBNs(ctx context.Context) ([]types.AuthorISBN, error) {
	var out []types.AuthorISBN
	err := b.query(ctx, ReportAuthorISBN, selectAuthorISBNs, func(rows *sql.Rows) error {
		var l types.AuthorISBN
		if err := rows.Scan(&l.AuthorID, &l.ISBN); err != nil {
			return err
		}
		out = append(out, l)
		return nil
	})
	return out, err
}

func scanTitle(rows *sql.Rows) (types.Title, error) {
	var t types.Title
	var edition sql.NullInt64
	var year sql.NullString
	if err := rows.Scan(&t.ISBN, &edition, &year, &t.PublisherID, &t.Price, &t.Title); err != nil {
		return t, err
	}
	t.EditionNumber = int(edition.Int64)
	t.Year = strings.TrimSpace(year.String)
	return t, nil
}

// Fixed-width layouts for the console reports.
const (
	authorsFormat     = "%-9s| %-15s| %-12s\n"
	publishersFormat  = "%-12s| %-15s\n"
	byPublisherFormat = "%-25s| %-5s| %-13s\n"
	titlesFormat      = "%-13s| %-25s| %-14s| %-5s| %-12s| %-4s\n"
	authorISBNFormat  = "%-9s| %-13s\n"
)

// table writes a header, a dashed rule, and the rows. close adds a
// trailing blank line; flush does not. Write errors are sticky in the
// bufio.Writer and surface on flush.
type table struct {
	w      *bufio.Writer
	format string
}

func newTable(w io.Writer, format string, rule int, header ...any) *table {
	t := &table{w: bufio.NewWriter(w), format: format}
	fmt.Fprintf(t.w, format, header...)
	t.w.WriteString(strings.Repeat("-", rule))
	t.w.WriteByte('\n')
	return t
}

func (t *table) row(cols ...any) {
	fmt.Fprintf(t.w, t.format, cols...)
}

func (t *table) close() error {
	t.w.WriteByte('\n')
	return t.flush()
}

func (t *table) flush() error {
	return t.w.Flush()
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func formatPrice(p float64) string { return strconv.FormatFloat(p, 'f', 2, 64) }

// WriteAuthors prints the authors report.
func WriteAuthors(w io.Writer, authors []types.Author) error {
	t := newTable(w, authorsFormat, 51, "authorID", "lastName", "firstName")
	for _, a := range authors {
		t.row(itoa(a.AuthorID), a.LastName, a.FirstName)
	}
	return t.close()
}

// WritePublishers prints the publishers report.
func WritePublishers(w io.Writer, publishers []types.Publisher) error {
	t := newTable(w, publishersFormat, 37, "publisherID", "publisherName")
	for _, p := range publishers {
		t.row(itoa(p.PublisherID), p.PublisherName)
	}
	return t.close()
}

// WriteTitlesByPublisher prints the titles of one publisher. Unlike the
// other reports it ends without a blank line.
func WriteTitlesByPublisher(w io.Writer, titles []types.Title) error {
	t := newTable(w, byPublisherFormat, 100, "title", "year", "isbn")
	for _, ti := range titles {
		t.row(ti.Title, ti.Year, ti.ISBN)
	}
	return t.flush()
}

// WriteTitles prints every column of the titles table.
func WriteTitles(w io.Writer, titles []types.Title) error {
	t := newTable(w, titlesFormat, 100, "isbn", "title", "editionNumber", "year", "publisherID", "price")
	for _, ti := range titles {
		t.row(ti.ISBN, ti.Title, strconv.Itoa(ti.EditionNumber), ti.Year, itoa(ti.PublisherID), formatPrice(ti.Price))
	}
	return t.close()
}

// WriteAuthorISBNs prints the author/title links.
func WriteAuthorISBNs(w io.Writer, links []types.AuthorISBN) error {
	t := newTable(w, authorISBNFormat, 37, "authorID", "ISBN")
	for _, l := range links {
		t.row(itoa(l.AuthorID), l.ISBN)
	}
	return t.close()
}

// WriteReport runs the named report and prints it. publisher is used only
// by ReportByPublisher.
func (b *Backend) WriteReport(ctx context.Context, w io.Writer, name, publisher string) error {
	switch name {
	case ReportAuthors:
		rows, err := b.AuthorsByLastName(ctx)
		if err != nil {
			return err
		}
		return WriteAuthors(w, rows)
	case ReportPublishers:
		rows, err := b.Publishers(ctx)
		if err != nil {
			return err
		}
		return WritePublishers(w, rows)
	case ReportByPublisher:
		rows, err := b.TitlesByPublisher(ctx, publisher)
		if err != nil {
			return err
		}
		return WriteTitlesByPublisher(w, rows)
	case ReportTitles:
		rows, err := b.Titles(ctx)
		if err != nil {
			return err
		}
		return WriteTitles(w, rows)
	case ReportAuthorISBN:
		rows, err := b.AuthorISBNs(ctx)
		if err != nil {
			return err
		}
		return WriteAuthorISBNs(w, rows)
	default:
		return fmt.Errorf("%w: %q (want one of %s)", types.ErrReportUnknown, name, strings.Join(ReportNames, ", "))
	}
}
