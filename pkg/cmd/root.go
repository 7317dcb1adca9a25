package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type (
	Params struct {
		fx.In

		Args       []string
		Commands   []*cli.Command `group:"commands"`
		Ctx        context.Context
		Lifecycle  fx.Lifecycle
		Shutdowner fx.Shutdowner
		Version    *Version
	}

	Version struct {
		Version   string
		Commit    string
		Timestamp string
	}
)

// Run registers the sqlgate CLI application with the fx lifecycle. The
// application runs once the fx app starts and shuts it down with exit code 1
// when the command fails.
//
// Global Flags:
//   - --verbose, -v: Log at debug level
//
// Example usage:
//
//	sqlgate classify "CREATE TABLE users (id INT); SELECT 1;"
//	sqlgate name -f migration.sql
//	sqlgate exec --url postgres://localhost/postgres "ALTER TABLE users ADD COLUMN bio TEXT"
func Run(p Params) {
	cli.VersionPrinter = func(cmd *cli.Command) {
		fmt.Fprintln(cmd.Writer, "Version:", p.Version.Version)
		fmt.Fprintln(cmd.Writer, "Commit:", p.Version.Commit)
		fmt.Fprintln(cmd.Writer, "Date:", p.Version.Timestamp)
	}

	app := &cli.Command{
		Name:  "sqlgate",
		Usage: "Classify SQL and record schema and data changes as migrations",
		Description: `sqlgate decides whether SQL changes persistent schema or data. Statements
that do are executed together with a row in the schema_migrations ledger,
named after what they change (e.g. create_users_public_users).`,
		Version: p.Version.Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log at debug level",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level := slog.LevelInfo
			if cmd.Bool("verbose") {
				level = slog.LevelDebug
			}

			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return ctx, nil
		},
		Commands: p.Commands,
	}

	p.Lifecycle.Append(fx.StartHook(func() {
		if err := app.Run(p.Ctx, p.Args); err != nil {
			slog.Error("Error running command", "err", err)
			_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
			return
		}

		_ = p.Shutdowner.Shutdown(fx.ExitCode(0))
	}))
}

func requireArgsOrFile(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.NArg() == 0 && cmd.String("file") == "" {
		return ctx, errors.New("no SQL given: pass it as an argument, with --file, or use - to read stdin")
	}

	return ctx, nil
}
