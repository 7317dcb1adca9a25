package cmd

import (
	"context"
	"fmt"

	"github.com/pseudomuto/sqlgate/pkg/migration"
	"github.com/pseudomuto/sqlgate/pkg/statement"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type nameParams struct {
	fx.In

	Validator *statement.Validator
}

// nameCmd returns a command that prints the migration name generated for SQL.
//
// Example usage:
//
//	sqlgate name "CREATE TABLE auth.sessions (id UUID PRIMARY KEY)"
//	# create_sessions_auth_sessions
func nameCmd(p nameParams) *cli.Command {
	return &cli.Command{
		Name:      "name",
		Usage:     "Print the migration name generated for SQL",
		ArgsUsage: "[SQL | -]",
		Before:    requireArgsOrFile,
		Flags:     []cli.Flag{fileFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			sql, err := readSQL(cmd)
			if err != nil {
				return err
			}

			result := p.Validator.Validate(sql)
			fmt.Fprintln(stdout(cmd), migration.SanitizeName(migration.GenerateDescriptiveName(result)))
			return nil
		},
	}
}
