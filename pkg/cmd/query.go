package cmd

import (
	"context"
	"fmt"

	"github.com/pseudomuto/sqlgate/pkg/config"
	"github.com/pseudomuto/sqlgate/pkg/postgres"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type queryParams struct {
	fx.In

	Config *config.Config
}

// query returns a command that runs SQL in a READ ONLY transaction and prints
// the rows as YAML. The transaction is always rolled back.
//
// Example usage:
//
//	sqlgate query "SELECT id, email FROM auth.users LIMIT 5"
//	sqlgate query --url postgres://localhost:54322/postgres -f report.sql
func query(p queryParams) *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "Run read-only SQL and print the rows",
		ArgsUsage: "[SQL | -]",
		Before:    requireArgsOrFile,
		Flags:     []cli.Flag{fileFlag(), urlFlag()},
		Action: withClient(p.Config, func(ctx context.Context, cmd *cli.Command, client *postgres.Client) error {
			sql, err := readSQL(cmd)
			if err != nil {
				return err
			}

			result, err := client.ReadonlyQuery(ctx, sql)
			if err != nil {
				return err
			}

			if err := writeYAML(stdout(cmd), result.Rows); err != nil {
				return err
			}

			fmt.Fprintf(stdout(cmd), "# %s (%d rows)\n", result.Status, result.Count)
			return nil
		}),
	}
}
