package types

// Table names in the books schema.
const (
	TableAuthors    = "authors"
	TablePublishers = "publishers"
	TableTitles     = "titles"
	TableAuthorISBN = "authorISBN"
)

// StandardTableNames lists the tables in creation order: parents before the
// tables that reference them.
var StandardTableNames = []string{
	TableAuthors,
	TablePublishers,
	TableTitles,
	TableAuthorISBN,
}

// IsStandardTable reports whether name is one of StandardTableNames.
func IsStandardTable(name string) bool {
	for _, t := range StandardTableNames {
		if t == name {
			return true
		}
	}
	return false
}
