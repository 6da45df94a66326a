package types

// Author is a row in the authors table.
type Author struct {
	AuthorID  int64  // Generated on insert.
	FirstName string
	LastName  string
}

// FullName returns "FirstName LastName", the key the seed data uses to
// refer to an author.
func (a Author) FullName() string {
	return a.FirstName + " " + a.LastName
}

// Publisher is a row in the publishers table.
type Publisher struct {
	PublisherID   int64 // Generated on insert.
	PublisherName string
}

// Title is a row in the titles table. ISBN is the natural key.
type Title struct {
	ISBN          string
	EditionNumber int
	Year          string
	PublisherID   int64
	Price         float64
	Title         string
}

// AuthorISBN links an author to a title.
type AuthorISBN struct {
	AuthorID int64
	ISBN     string
}

// SeedTitle describes a title to seed. The publisher is named rather than
// referenced by ID; the loader substitutes the ID captured when the
// publisher was inserted.
type SeedTitle struct {
	ISBN          string
	EditionNumber int
	Year          string
	Publisher     string
	Price         float64
	Title         string
}

// SeedAuthorISBN names an author and a title to link.
type SeedAuthorISBN struct {
	FirstName string
	LastName  string
	Title     string
}

// AuthorName returns the author key in the same form as Author.FullName.
func (s SeedAuthorISBN) AuthorName() string {
	return s.FirstName + " " + s.LastName
}

// Mutation is a fixed data-changing statement run after the reports.
// SQL uses ? placeholders; the backend rebinds them for its dialect.
type Mutation struct {
	Description string
	SQL         string
	Args        []any
}
