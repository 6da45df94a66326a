// Package bookdb creates, seeds, and reports on the books schema: authors,
// publishers, titles, and the authorISBN join table.
package bookdb

// SQLite DDL. Tables are dropped child first so that the implicit delete
// performed by DROP TABLE never trips a foreign key.
const (
	sqliteDropAuthorISBN = `DROP TABLE IF EXISTS authorISBN;`
	sqliteDropTitles     = `DROP TABLE IF EXISTS titles;`
	sqliteDropAuthors    = `DROP TABLE IF EXISTS authors;`
	sqliteDropPublishers = `DROP TABLE IF EXISTS publishers;`

	sqliteCreateAuthors = `CREATE TABLE authors (
    authorID INTEGER PRIMARY KEY AUTOINCREMENT,
    firstName VARCHAR(20),
    lastName VARCHAR(20)
);`

	sqliteCreatePublishers = `CREATE TABLE publishers (
    publisherID INTEGER PRIMARY KEY AUTOINCREMENT,
    publisherName VARCHAR(100)
);`

	sqliteCreateTitles = `CREATE TABLE titles (
    isbn VARCHAR(13) PRIMARY KEY,
    editionNumber INTEGER,
    year CHAR(4),
    publisherID INTEGER NOT NULL,
    price NUMERIC(8,2) NOT NULL,
    title VARCHAR(500) NOT NULL,
    FOREIGN KEY (publisherID) REFERENCES publishers(publisherID) ON DELETE CASCADE ON UPDATE CASCADE
);`

	sqliteIdxTitlesPublisher = `CREATE INDEX idx_titles_publisher ON titles(publisherID);`

	sqliteCreateAuthorISBN = `CREATE TABLE authorISBN (
    authorID INTEGER NOT NULL,
    isbn VARCHAR(13) NOT NULL,
    PRIMARY KEY (authorID, isbn),
    FOREIGN KEY (authorID) REFERENCES authors(authorID) ON DELETE CASCADE,
    FOREIGN KEY (isbn) REFERENCES titles(isbn) ON DELETE CASCADE
);`

	sqliteIdxAuthorISBNTitle = `CREATE INDEX idx_authorisbn_isbn ON authorISBN(isbn);`

	// A title has no foreign key path to its author, so deleting an author
	// removes the titles it is linked to explicitly.
	sqliteTriggerDeleteAuthor = `CREATE TRIGGER DeleteAuthor
AFTER DELETE ON authors
FOR EACH ROW
BEGIN
    DELETE FROM titles
    WHERE isbn IN (SELECT isbn FROM authorISBN WHERE authorID = OLD.authorID);
END;`

	sqliteTriggerDeleteAuthorISBN = `CREATE TRIGGER DeleteAuthorISBN
AFTER DELETE ON authorISBN
FOR EACH ROW
BEGIN
    DELETE FROM authors
    WHERE authorID = OLD.authorID
      AND EXISTS (SELECT 1 FROM titles WHERE isbn = OLD.isbn);
    DELETE FROM titles WHERE isbn = OLD.isbn;
END;`
)

// Postgres DDL. Identifiers are left unquoted and fold to lower case.
const (
	pgDropTables = `DROP TABLE IF EXISTS authorISBN, titles, authors, publishers CASCADE;`

	pgDropDeleteAuthorFunc     = `DROP FUNCTION IF EXISTS delete_author_titles() CASCADE;`
	pgDropDeleteAuthorISBNFunc = `DROP FUNCTION IF EXISTS delete_author_isbn_rows() CASCADE;`

	pgCreateAuthors = `CREATE TABLE authors (
    authorID SERIAL PRIMARY KEY,
    firstName VARCHAR(20),
    lastName VARCHAR(20)
);`

	pgCreatePublishers = `CREATE TABLE publishers (
    publisherID SERIAL PRIMARY KEY,
    publisherName VARCHAR(100)
);`

	pgCreateTitles = `CREATE TABLE titles (
    isbn VARCHAR(13) PRIMARY KEY,
    editionNumber INTEGER,
    year CHAR(4),
    publisherID INTEGER NOT NULL REFERENCES publishers(publisherID) ON DELETE CASCADE ON UPDATE CASCADE,
    price NUMERIC(8,2) NOT NULL,
    title VARCHAR(500) NOT NULL
);`

	pgIdxTitlesPublisher = `CREATE INDEX idx_titles_publisher ON titles(publisherID);`

	pgCreateAuthorISBN = `CREATE TABLE authorISBN (
    authorID INTEGER NOT NULL REFERENCES authors(authorID) ON DELETE CASCADE,
    isbn VARCHAR(13) NOT NULL REFERENCES titles(isbn) ON DELETE CASCADE,
    PRIMARY KEY (authorID, isbn)
);`

	pgIdxAuthorISBNTitle = `CREATE INDEX idx_authorisbn_isbn ON authorISBN(isbn);`

	pgCreateDeleteAuthorFunc = `CREATE OR REPLACE FUNCTION delete_author_titles() RETURNS trigger AS $$
BEGIN
    DELETE FROM titles
    WHERE isbn IN (SELECT isbn FROM authorISBN WHERE authorID = OLD.authorID);
    RETURN OLD;
END;
$$ LANGUAGE plpgsql;`

	pgCreateDeleteAuthorISBNFunc = `CREATE OR REPLACE FUNCTION delete_author_isbn_rows() RETURNS trigger AS $$
BEGIN
    DELETE FROM authors
    WHERE authorID = OLD.authorID
      AND EXISTS (SELECT 1 FROM titles WHERE isbn = OLD.isbn);
    DELETE FROM titles WHERE isbn = OLD.isbn;
    RETURN OLD;
END;
$$ LANGUAGE plpgsql;`

	// Both triggers run after the delete, as in the SQLite dialect.
	pgTriggerDeleteAuthor = `CREATE TRIGGER DeleteAuthor
AFTER DELETE ON authors
FOR EACH ROW EXECUTE FUNCTION delete_author_titles();`

	pgTriggerDeleteAuthorISBN = `CREATE TRIGGER DeleteAuthorISBN
AFTER DELETE ON authorISBN
FOR EACH ROW EXECUTE FUNCTION delete_author_isbn_rows();`
)

// statement is a DDL statement with the name reported on failure.
type statement struct {
	name string
	sql  string
}

var sqliteDrop = []statement{
	{"authorISBN", sqliteDropAuthorISBN},
	{"titles", sqliteDropTitles},
	{"authors", sqliteDropAuthors},
	{"publishers", sqliteDropPublishers},
}

// sqliteTables lists the CREATE statements in dependency order.
var sqliteTables = []statement{
	{"authors", sqliteCreateAuthors},
	{"publishers", sqliteCreatePublishers},
	{"titles", sqliteCreateTitles},
	{"idx_titles_publisher", sqliteIdxTitlesPublisher},
	{"authorISBN", sqliteCreateAuthorISBN},
	{"idx_authorisbn_isbn", sqliteIdxAuthorISBNTitle},
}

var sqliteTriggers = []statement{
	{"DeleteAuthor", sqliteTriggerDeleteAuthor},
	{"DeleteAuthorISBN", sqliteTriggerDeleteAuthorISBN},
}

var pgDrop = []statement{
	{"tables", pgDropTables},
	{"delete_author_titles", pgDropDeleteAuthorFunc},
	{"delete_author_isbn_rows", pgDropDeleteAuthorISBNFunc},
}

var pgTables = []statement{
	{"authors", pgCreateAuthors},
	{"publishers", pgCreatePublishers},
	{"titles", pgCreateTitles},
	{"idx_titles_publisher", pgIdxTitlesPublisher},
	{"authorISBN", pgCreateAuthorISBN},
	{"idx_authorisbn_isbn", pgIdxAuthorISBNTitle},
}

var pgTriggers = []statement{
	{"delete_author_titles", pgCreateDeleteAuthorFunc},
	{"delete_author_isbn_rows", pgCreateDeleteAuthorISBNFunc},
	{"DeleteAuthor", pgTriggerDeleteAuthor},
	{"DeleteAuthorISBN", pgTriggerDeleteAuthorISBN},
}
