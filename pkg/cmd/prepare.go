package cmd

import (
	"context"
	"fmt"

	"github.com/pseudomuto/sqlgate/pkg/migration"
	"github.com/pseudomuto/sqlgate/pkg/statement"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type prepareParams struct {
	fx.In

	Manager   *migration.Manager
	Validator *statement.Validator
}

// prepare returns a command that prints the ledger insert that would be run
// alongside SQL. Nothing is executed.
//
// Example usage:
//
//	sqlgate prepare "GRANT SELECT ON users TO anon"
//	sqlgate prepare --name expose_users -f grant.sql
func prepare(p prepareParams) *cli.Command {
	return &cli.Command{
		Name:      "prepare",
		Usage:     "Print the schema_migrations insert for SQL without running it",
		ArgsUsage: "[SQL | -]",
		Before:    requireArgsOrFile,
		Flags:     []cli.Flag{fileFlag(), nameFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			sql, err := readSQL(cmd)
			if err != nil {
				return err
			}

			result := p.Validator.Validate(sql)
			if !result.NeedsMigration() {
				fmt.Fprintln(stdout(cmd), "-- no migration needed")
				return nil
			}

			insert, name := p.Manager.PrepareMigrationQuery(result, sql, cmd.String("name"))
			fmt.Fprintf(stdout(cmd), "-- %s\n%s\n", name, insert)
			return nil
		},
	}
}
