package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlgate/pkg/config"
	"github.com/pseudomuto/sqlgate/pkg/ledger"
	"github.com/pseudomuto/sqlgate/pkg/postgres"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type historyParams struct {
	fx.In

	Config *config.Config
	Ledger *ledger.Ledger
}

// history returns a command that lists the migrations recorded in the ledger,
// oldest first.
//
// Example usage:
//
//	sqlgate history
//	sqlgate history --since 20250101000000 --sql
func history(p historyParams) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recorded migrations",
		Flags: []cli.Flag{
			urlFlag(),
			&cli.StringFlag{
				Name:  "since",
				Usage: "only show migrations recorded after `VERSION`",
			},
			&cli.BoolFlag{
				Name:  "sql",
				Usage: "include the SQL of each migration",
			},
		},
		Action: withClient(p.Config, func(ctx context.Context, cmd *cli.Command, client *postgres.Client) error {
			pool, err := client.Pool(ctx)
			if err != nil {
				return err
			}

			recorded, err := p.Ledger.Load(ctx, pool)
			if err != nil {
				return err
			}

			entries := recorded.Entries()
			if since := cmd.String("since"); since != "" {
				entries = recorded.Since(since)
			}

			return printHistory(cmd, entries, cmd.Bool("sql"))
		}),
	}
}

func printHistory(cmd *cli.Command, entries []*ledger.Entry, verbose bool) error {
	if len(entries) == 0 {
		fmt.Fprintln(stdout(cmd), "No migrations recorded.")
		return nil
	}

	w := tabwriter.NewWriter(stdout(cmd), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tNAME")

	for _, entry := range entries {
		fmt.Fprintf(w, "%s\t%s\n", entry.Version, orDash(entry.Name))
		if verbose {
			for _, line := range strings.Split(strings.TrimSpace(entry.Statements), "\n") {
				fmt.Fprintf(w, "\t  %s\n", line)
			}
		}
	}

	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "failed to write output")
	}

	fmt.Fprintf(stdout(cmd), "\n%d migration(s)\n", len(entries))
	return nil
}
