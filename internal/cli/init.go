package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/bookseed/internal/bookdb"
)

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Reset and seed the books schema",
		Long:  "Drop and recreate the books schema and load the fixed data set, without reports or updates.",
		Args:  cobra.NoArgs,
		RunE:  a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	res, err := bookdb.Initialize(cmd.Context(), a.config, a.log)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s: %d authors, %d publishers, %d titles, %d links\n",
		a.config.Schema, len(res.AuthorIDs), len(res.PublisherIDs), len(res.ISBNs), res.Links)
	return nil
}
