package bookdb

import (
	"context"

	"github.com/mesh-intelligence/bookseed/pkg/types"
)

// demoMutations run in order after the reports. They are not idempotent;
// a rerun works because ResetSchema drops everything first.
var demoMutations = []types.Mutation{
	{
		Description: "Adding new author with the name 'Johnny Bravo' into the authors table.",
		SQL:         "INSERT INTO authors (firstName, lastName) VALUES (?, ?)",
		Args:        []any{"JOHNNY", "BRAVO"},
	},
	{
		Description: "Updating existing information about an author",
		SQL:         "UPDATE authors SET firstName = ? WHERE firstName = ?",
		Args:        []any{"Blah blah", "Susan"},
	},
	{
		Description: "Adding new publisher",
		SQL:         "INSERT INTO publishers (publisherName) VALUES (?)",
		Args:        []any{"New Publisher"},
	},
	{
		Description: "Update existing information about publisher",
		SQL:         "UPDATE publishers SET publisherName = ? WHERE publisherName = ?",
		Args:        []any{"New Publisher Name", "Pearson"},
	},
}

// DemoMutations returns a copy of the fixed mutation sequence.
func DemoMutations() []types.Mutation {
	out := make([]types.Mutation, len(demoMutations))
	copy(out, demoMutations)
	return out
}

// Mutate runs one mutation and returns the number of affected rows.
func (b *Backend) Mutate(ctx context.Context, m types.Mutation) (int64, error) {
	res, err := b.exec(ctx, types.OpMutate, m.Description, m.SQL, m.Args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &types.StatementError{Op: types.OpMutate, Name: m.Description, Err: err}
	}
	b.log.Info("mutation applied", "mutation", m.Description, "rows", n)
	return n, nil
}

// Demonstrate runs the fixed mutations, passing each to announce before it
// executes. It stops at the first failure.
func (b *Backend) Demonstrate(ctx context.Context, announce func(types.Mutation)) error {
	for _, m := range demoMutations {
		if announce != nil {
			announce(m)
		}
		if _, err := b.Mutate(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// DeleteAuthor deletes one author. The authorISBN foreign key cascade
// removes the author's links, and the delete triggers remove the titles
// those links pointed to. Co-authors of a removed title keep their author
// row; only their link to that title goes.
func (b *Backend) DeleteAuthor(ctx context.Context, authorID int64) error {
	_, err := b.exec(ctx, types.OpMutate, "delete author",
		"DELETE FROM authors WHERE authorID = ?", authorID)
	return err
}

// DeleteAuthorISBN deletes one author/title link. The DeleteAuthorISBN
// trigger removes the linked author and title; the title's other links
// then go by foreign key cascade.
func (b *Backend) DeleteAuthorISBN(ctx context.Context, authorID int64, isbn string) error {
	_, err := b.exec(ctx, types.OpMutate, "delete authorISBN",
		"DELETE FROM authorISBN WHERE authorID = ? AND isbn = ?", authorID, isbn)
	return err
}
