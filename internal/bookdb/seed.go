package bookdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/bookseed/pkg/types"
)

// seedData is a complete data set in load order.
type seedData struct {
	authors    []types.Author
	publishers []types.Publisher
	titles     []types.SeedTitle
	links      []types.SeedAuthorISBN
}

// defaultSeed is the fixed demonstration data set.
var defaultSeed = seedData{
	authors: []types.Author{
		{FirstName: "Steven", LastName: "King"},
		{FirstName: "J.K.", LastName: "Rowling"},
		{FirstName: "Susan", LastName: "McBride"},
		{FirstName: "Christopher", LastName: "Mari"},
		{FirstName: "James", LastName: "Patterson"},
		{FirstName: "James", LastName: "Joyce"},
		{FirstName: "Scott", LastName: "Fitzgerald"},
		{FirstName: "Vladimir", LastName: "Nabokov"},
		{FirstName: "William", LastName: "Faulkner"},
		{FirstName: "Aldous", LastName: "Huxley"},
		{FirstName: "Arthur", LastName: "Koestler"},
		{FirstName: "Ayn", LastName: "Rand"},
		{FirstName: "Ron", LastName: "Hubbard"},
		{FirstName: "John", LastName: "Tolkein"},
		{FirstName: "Harper", LastName: "Lee"},
	},
	publishers: []types.Publisher{
		{PublisherName: "Signet Books"},
		{PublisherName: "Pearson"},
		{PublisherName: "ThomsonReuters"},
		{PublisherName: "Penguin Random"},
		{PublisherName: "Wiley"},
		{PublisherName: "Nature America"},
		{PublisherName: "Scholastic, Inc."},
		{PublisherName: "Warner Bros Global Publishing"},
		{PublisherName: "Modern Library"},
		{PublisherName: "Publishers Group West"},
		{PublisherName: "Crown Publishers, Inc."},
		{PublisherName: "Harper Collins Publishing Co"},
		{PublisherName: "St. Martin's Press"},
		{PublisherName: "Allworth Press"},
		{PublisherName: "German Publishers"},
	},
	titles: []types.SeedTitle{
		{"9780451001234", 1, "2000", "Signet Books", 10.11, "Harry Potter"},
		{"9780451115089", 1, "1982", "Pearson", 14.99, "The Running Man"},
		{"9780451111111", 1, "1982", "Pearson", 15.99, "A Running Man"},
		{"9780451110000", 1, "1982", "Pearson", 16.99, "Zzz Running Man"},
		{"9450260214523", 1, "1992", "ThomsonReuters", 26.00, "Ulysses"},
		{"9780451240599", 1, "1933", "Penguin Random", 14.99, "The Great Penguin"},
		{"1024483866640", 2, "1925", "Wiley", 19.22, "The Great Gatsby"},
		{"4303004852112", 1, "1955", "Nature America", 19.10, "Lolita"},
		{"3459073487102", 1, "1932", "Scholastic, Inc.", 12.20, "Brave New World"},
		{"2374009213487", 2, "1931", "Warner Bros Global Publishing", 14.99, "The Sound and the Fury"},
		{"1742009834762", 3, "1940", "Modern Library", 10.02, "Darkness at Noon"},
		{"4902348764122", 1, "1957", "Publishers Group West", 12.22, "Atlas Shrugged"},
		{"2489092387645", 3, "1943", "Crown Publishers, Inc.", 11.40, "The Fountainhead"},
		{"9804383119811", 1, "1982", "Harper Collins Publishing Co", 15.93, "Battlefield Earth"},
		{"2984509238452", 1, "1954", "St. Martin's Press", 23.00, "The Lord of the Rings"},
		{"1345230982345", 3, "1960", "Allworth Press", 15.22, "To Kill a Mockingbird"},
		{"9302340119475", 1, "1966", "German Publishers", 15.99, "Dune"},
	},
	links: []types.SeedAuthorISBN{
		{"Steven", "King", "Harry Potter"},
		{"J.K.", "Rowling", "The Running Man"},
		{"Susan", "McBride", "Ulysses"},
		{"Christopher", "Mari", "The Great Gatsby"},
		{"James", "Patterson", "Lolita"},
		{"James", "Joyce", "Brave New World"},
		{"Scott", "Fitzgerald", "The Sound and the Fury"},
		{"Vladimir", "Nabokov", "Darkness at Noon"},
		{"William", "Faulkner", "Atlas Shrugged"},
		{"Aldous", "Huxley", "The Fountainhead"},
		{"Arthur", "Koestler", "Battlefield Earth"},
		{"Ayn", "Rand", "The Lord of the Rings"},
		{"Ron", "Hubbard", "To Kill a Mockingbird"},
		{"John", "Tolkein", "Dune"},
		{"Harper", "Lee", "The Great Penguin"},
	},
}

const (
	insertAuthor     = "INSERT INTO authors (firstName, lastName) VALUES (?, ?) RETURNING authorID"
	insertPublisher  = "INSERT INTO publishers (publisherName) VALUES (?) RETURNING publisherID"
	insertTitle      = "INSERT INTO titles (isbn, editionNumber, year, publisherID, price, title) VALUES (?, ?, ?, ?, ?, ?)"
	insertAuthorISBN = "INSERT INTO authorISBN (authorID, isbn) VALUES (?, ?)"
)

// SeedResult holds the keys captured while seeding.
type SeedResult struct {
	AuthorIDs    map[string]int64  // keyed by Author.FullName
	PublisherIDs map[string]int64  // keyed by publisher name
	ISBNs        map[string]string // keyed by title
	Links        int
}

// validate checks that every title names a seeded publisher and every link
// names a seeded author and title, so nothing is inserted with a missing
// foreign key.
func (d seedData) validate() error {
	authors := make(map[string]bool, len(d.authors))
	for _, a := range d.authors {
		authors[a.FullName()] = true
	}
	publishers := make(map[string]bool, len(d.publishers))
	for _, p := range d.publishers {
		publishers[p.PublisherName] = true
	}
	titles := make(map[string]bool, len(d.titles))
	for _, t := range d.titles {
		if !publishers[t.Publisher] {
			return fmt.Errorf("%w: title %q names publisher %q", types.ErrUnresolvedReference, t.Title, t.Publisher)
		}
		titles[t.Title] = true
	}
	for _, l := range d.links {
		if !authors[l.AuthorName()] {
			return fmt.Errorf("%w: author %q", types.ErrUnresolvedReference, l.AuthorName())
		}
		if !titles[l.Title] {
			return fmt.Errorf("%w: title %q", types.ErrUnresolvedReference, l.Title)
		}
	}
	return nil
}

// Seed loads the fixed data set: authors and publishers first, then titles
// and authorISBN using the keys captured from the parent inserts. The load
// runs in one transaction and stops at the first failing statement.
func (b *Backend) Seed(ctx context.Context) (*SeedResult, error) {
	return b.seed(ctx, defaultSeed)
}

func (b *Backend) seed(ctx context.Context, data seedData) (*SeedResult, error) {
	if b.conn == nil {
		return nil, types.ErrBackendClosed
	}
	if err := data.validate(); err != nil {
		return nil, err
	}

	tx, err := b.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, &types.StatementError{Op: types.OpSeed, Name: "begin", Err: err}
	}
	defer tx.Rollback()

	res := &SeedResult{
		AuthorIDs:    make(map[string]int64, len(data.authors)),
		PublisherIDs: make(map[string]int64, len(data.publishers)),
		ISBNs:        make(map[string]string, len(data.titles)),
	}

	for _, a := range data.authors {
		id, err := b.insertReturning(ctx, tx, types.TableAuthors, insertAuthor, a.FirstName, a.LastName)
		if err != nil {
			return nil, err
		}
		res.AuthorIDs[a.FullName()] = id
	}

	for _, p := range data.publishers {
		id, err := b.insertReturning(ctx, tx, types.TablePublishers, insertPublisher, p.PublisherName)
		if err != nil {
			return nil, err
		}
		res.PublisherIDs[p.PublisherName] = id
	}

	for _, t := range data.titles {
		_, err := b.txExec(ctx, tx, types.TableTitles, insertTitle,
			t.ISBN, t.EditionNumber, t.Year, res.PublisherIDs[t.Publisher], t.Price, t.Title)
		if err != nil {
			return nil, err
		}
		res.ISBNs[t.Title] = t.ISBN
	}

	for _, l := range data.links {
		_, err := b.txExec(ctx, tx, types.TableAuthorISBN, insertAuthorISBN,
			res.AuthorIDs[l.AuthorName()], res.ISBNs[l.Title])
		if err != nil {
			return nil, err
		}
		res.Links++
	}

	if err := tx.Commit(); err != nil {
		return nil, &types.StatementError{Op: types.OpSeed, Name: "commit", Err: err}
	}

	b.log.Info("seeded",
		"authors", len(res.AuthorIDs),
		"publishers", len(res.PublisherIDs),
		"titles", len(res.ISBNs),
		"authorISBN", res.Links,
	)
	return res, nil
}

// insertReturning runs an INSERT ... RETURNING and scans the generated key.
func (b *Backend) insertReturning(ctx context.Context, tx *sql.Tx, table, query string, args ...any) (int64, error) {
	ctx, cancel := b.stmtContext(ctx)
	defer cancel()

	var id int64
	if err := tx.QueryRowContext(ctx, b.dialect.rebind(query), args...).Scan(&id); err != nil {
		return 0, &types.StatementError{Op: types.OpSeed, Name: table, Err: err}
	}
	return id, nil
}

func (b *Backend) txExec(ctx context.Context, tx *sql.Tx, table, query string, args ...any) (sql.Result, error) {
	ctx, cancel := b.stmtContext(ctx)
	defer cancel()

	res, err := tx.ExecContext(ctx, b.dialect.rebind(query), args...)
	if err != nil {
		return nil, &types.StatementError{Op: types.OpSeed, Name: table, Err: err}
	}
	return res, nil
}
