package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/bookseed/internal/bookdb"
)

func (a *app) newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Reset, seed, report, and apply the sample updates",
		Long: "Drop and recreate the books schema, load the fixed data set, print the\n" +
			"authors, publishers, and titles-by-publisher reports, then apply the\n" +
			"sample inserts and updates.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			a.log.Info("run started", "driver", a.config.Driver, "schema", a.config.Schema)
			err := bookdb.Run(cmd.Context(), a.config, bookdb.RunOptions{
				Out:     out,
				Logger:  a.log,
				Heading: a.heading(out),
			})
			if err != nil {
				return err
			}
			a.log.Info("run finished")
			return nil
		},
	}
}
