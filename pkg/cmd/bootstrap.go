package cmd

import (
	"context"
	"fmt"

	"github.com/pseudomuto/sqlgate/pkg/config"
	"github.com/pseudomuto/sqlgate/pkg/ledger"
	"github.com/pseudomuto/sqlgate/pkg/postgres"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type bootstrapParams struct {
	fx.In

	Config *config.Config
	Ledger *ledger.Ledger
}

// bootstrap returns a command that creates the ledger schema and table. It is
// safe to run against a database that already has them.
//
// Example usage:
//
//	sqlgate bootstrap
//	sqlgate bootstrap --url postgres://localhost:54322/postgres
func bootstrap(p bootstrapParams) *cli.Command {
	return &cli.Command{
		Name:  "bootstrap",
		Usage: "Create the schema_migrations ledger if it does not exist",
		Flags: []cli.Flag{urlFlag()},
		Action: withClient(p.Config, func(ctx context.Context, cmd *cli.Command, client *postgres.Client) error {
			pool, err := client.Pool(ctx)
			if err != nil {
				return err
			}

			if err := p.Ledger.Bootstrap(ctx, pool); err != nil {
				return err
			}

			fmt.Fprintf(stdout(cmd), "Ledger %s is ready\n", p.Ledger.Relation())
			return nil
		}),
	}
}
