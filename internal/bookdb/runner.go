package bookdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mesh-intelligence/bookseed/pkg/types"
)

// RunOptions carries the output and logging hooks used by Run.
type RunOptions struct {
	// Out receives status lines and report tables. Defaults to os.Stdout.
	Out io.Writer
	// Logger defaults to slog.Default.
	Logger *slog.Logger
	// Heading decorates status lines. Report tables are never decorated.
	Heading func(string) string
}

func (o RunOptions) withDefaults() RunOptions {
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Heading == nil {
		o.Heading = func(s string) string { return s }
	}
	return o
}

func (o RunOptions) status(msg string) {
	fmt.Fprintln(o.Out, o.Heading(msg))
}

// Run performs the whole demonstration on one connection: reset the schema,
// seed it, print the authors, publishers, and titles-by-publisher reports,
// then apply the fixed mutations. The connection is closed on every path
// and a close failure is joined into the returned error.
func Run(ctx context.Context, config types.Config, opts RunOptions) (err error) {
	opts = opts.withDefaults()
	publisher := config.Publisher
	if publisher == "" {
		publisher = types.DefaultPublisher
	}

	opts.status("Connecting to database...")
	b := NewBackend(opts.Logger)
	if err := b.Open(ctx, config); err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if cerr := b.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	opts.status("Creating tables & triggers")
	if err := b.ResetSchema(ctx); err != nil {
		return fmt.Errorf("reset schema: %w", err)
	}

	opts.status("Seeding tables")
	if _, err := b.Seed(ctx); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	reports := []struct {
		heading string
		name    string
	}{
		{"QUERY: Printing all authors by last name", ReportAuthors},
		{"QUERY: Printing all publishers", ReportPublishers},
		{"QUERY: Printing all books published by " + publisher, ReportByPublisher},
	}
	for _, r := range reports {
		fmt.Fprintln(opts.Out)
		opts.status(r.heading)
		if err := b.WriteReport(ctx, opts.Out, r.name, publisher); err != nil {
			return fmt.Errorf("report %s: %w", r.name, err)
		}
	}

	err = b.Demonstrate(ctx, func(m types.Mutation) {
		fmt.Fprintln(opts.Out)
		opts.status(m.Description)
	})
	if err != nil {
		return fmt.Errorf("demonstrate: %w", err)
	}

	fmt.Fprintln(opts.Out)
	opts.status("Done.")
	return nil
}

// Initialize resets the schema and seeds it, without reports or mutations.
func Initialize(ctx context.Context, config types.Config, logger *slog.Logger) (_ *SeedResult, err error) {
	b := NewBackend(logger)
	if err := b.Open(ctx, config); err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if cerr := b.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	if err := b.ResetSchema(ctx); err != nil {
		return nil, fmt.Errorf("reset schema: %w", err)
	}
	res, err := b.Seed(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return res, nil
}
