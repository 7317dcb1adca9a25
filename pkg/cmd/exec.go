package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pseudomuto/sqlgate/pkg/config"
	"github.com/pseudomuto/sqlgate/pkg/executor"
	"github.com/pseudomuto/sqlgate/pkg/migration"
	"github.com/pseudomuto/sqlgate/pkg/postgres"
	"github.com/pseudomuto/sqlgate/pkg/statement"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type execParams struct {
	fx.In

	Config    *config.Config
	Manager   *migration.Manager
	Validator *statement.Validator
}

// execCmd returns a command that runs SQL against the database. Statements
// that change schema or data are recorded in the ledger in the same
// transaction.
//
// Example usage:
//
//	sqlgate exec "ALTER TABLE users ADD COLUMN bio TEXT"
//	sqlgate exec --name add_user_bio -f 001_bio.sql
func execCmd(p execParams) *cli.Command {
	return &cli.Command{
		Name:      "exec",
		Usage:     "Run SQL, recording a migration when it changes schema or data",
		ArgsUsage: "[SQL | -]",
		Before:    requireArgsOrFile,
		Flags:     []cli.Flag{fileFlag(), urlFlag(), nameFlag()},
		Action: withClient(p.Config, func(ctx context.Context, cmd *cli.Command, client *postgres.Client) error {
			sql, err := readSQL(cmd)
			if err != nil {
				return err
			}

			exec := executor.New(executor.Config{
				Database:  client,
				Validator: p.Validator,
				Manager:   p.Manager,
				Logger:    slog.Default(),
			})

			res, err := exec.Execute(ctx, sql, cmd.String("name"))
			if err != nil {
				return err
			}

			if res.Migrated {
				fmt.Fprintf(stdout(cmd), "Recorded migration %s_%s\n", res.Version, res.Name)
			}

			if len(res.Result.Rows) > 0 {
				if err := writeYAML(stdout(cmd), res.Result.Rows); err != nil {
					return err
				}
			}

			fmt.Fprintf(stdout(cmd), "%s (%s)\n", res.Result.Status, res.Duration.Round(time.Millisecond))
			return nil
		}),
	}
}
