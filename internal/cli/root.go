// Package cli implements the bookseed command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/bookseed/internal/style"
	"github.com/mesh-intelligence/bookseed/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitDBError   = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
}

// app is the state shared by one invocation's commands. config, log, and
// runID are set by the root PersistentPreRunE.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	flags      rootFlags
	v          *viper.Viper
	configPath string
	config     types.Config
	log        *slog.Logger
	runID      string
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout: stdout,
		stderr: stderr,
		v:      viper.New(),
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// NewRootCmd creates the top-level "bookseed" command with global flags
// and all subcommands registered.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	return newApp(stdout, stderr).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bookseed",
		Short: "Create, seed, and query a small books database",
		Long: "bookseed resets a four-table books schema with cascading delete triggers,\n" +
			"loads a fixed data set, prints reports, and applies a few sample updates.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.loadConfig,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/bookseed)")
	pf.String("driver", "", "database driver: sqlite or pgx (default: sqlite)")
	pf.String("url", "", "sqlite: data directory; pgx: postgres://host:port URL")
	pf.String("user", "", "database user")
	pf.String("password", "", "database password")
	pf.String("schema", "", "database name (default: books)")
	pf.String("publisher", "", "publisher for the titles report (default: Pearson)")
	pf.Duration("statement-timeout", 0, "per-statement timeout, 0 disables")
	pf.String("log-level", "", "log level: debug, info, warn, error (default: info)")
	pf.String("log-format", "", "log format: text or json (default: text)")
	pf.String("color", "", "colour status lines: auto, always, never (default: auto)")
	a.bindFlags(pf)

	root.AddCommand(a.newRunCmd())
	root.AddCommand(a.newInitCmd())
	root.AddCommand(a.newReportCmd())
	root.AddCommand(a.newConfigCmd())
	root.AddCommand(a.newVersionCmd())

	return root
}

// Run executes the CLI with args and returns the process exit code.
// Errors are logged once and printed to stderr as "bookseed: <err>".
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := newApp(stdout, stderr)
	root := a.rootCmd()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitSuccess
	}

	code := exitCode(err)
	a.log.Error("command failed", "error", err, "exit_code", code)
	fmt.Fprintln(stderr, style.New(stderr, a.config.Color).Failf("bookseed: %v", err))
	return code
}

// exitCode maps database failures to 2 and everything else, including
// usage and configuration errors, to 1.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case types.IsDatabaseError(err):
		return exitDBError
	default:
		return exitUserError
	}
}

// heading returns the decorator for status lines written to w.
func (a *app) heading(w io.Writer) func(string) string {
	return style.New(w, a.config.Color).Heading
}
