package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/bookseed/internal/bookdb"
)

func (a *app) newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "report <name>",
		Short:     "Print one report from an existing schema",
		Long:      "Print one report without resetting the schema. Names: " + strings.Join(bookdb.ReportNames, ", ") + ".",
		Args:      cobra.ExactArgs(1),
		ValidArgs: bookdb.ReportNames,
		RunE:      a.runReport,
	}
}

func (a *app) runReport(cmd *cobra.Command, args []string) (err error) {
	b := bookdb.NewBackend(a.log)
	if err := b.Open(cmd.Context(), a.config); err != nil {
		return err
	}
	defer func() {
		if cerr := b.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	return b.WriteReport(cmd.Context(), cmd.OutOrStdout(), args[0], a.config.Publisher)
}
