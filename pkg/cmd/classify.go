package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlgate/pkg/statement"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type (
	classifyParams struct {
		fx.In

		Validator *statement.Validator
	}

	// classifiedRow is the YAML shape of a classified statement.
	classifiedRow struct {
		Ordinal        int                `yaml:"ordinal"`
		Category       statement.Category `yaml:"category"`
		Command        string             `yaml:"command"`
		ObjectKind     string             `yaml:"object_kind,omitempty"`
		Schema         string             `yaml:"schema,omitempty"`
		NeedsMigration bool               `yaml:"needs_migration"`
		Text           string             `yaml:"text"`
	}
)

// classify returns a command that splits SQL into statements and prints how
// each one is classified.
//
// Example usage:
//
//	sqlgate classify "CREATE TABLE users (id INT); SELECT * FROM users;"
//	sqlgate classify --format yaml -f schema.sql
//	cat schema.sql | sqlgate classify -
func classify(p classifyParams) *cli.Command {
	return &cli.Command{
		Name:      "classify",
		Usage:     "Show the category of each statement and whether it needs a migration",
		ArgsUsage: "[SQL | -]",
		Before:    requireArgsOrFile,
		Flags: []cli.Flag{
			fileFlag(),
			&cli.StringFlag{
				Name:  "format",
				Usage: "output format: text or yaml",
				Value: "text",
				Validator: func(format string) error {
					if format != "text" && format != "yaml" {
						return errors.Errorf("unsupported format: %s", format)
					}
					return nil
				},
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			sql, err := readSQL(cmd)
			if err != nil {
				return err
			}

			result := p.Validator.Validate(sql)
			if cmd.String("format") == "yaml" {
				rows := make([]classifiedRow, len(result.Statements))
				for i, stmt := range result.Statements {
					rows[i] = classifiedRow{
						Ordinal:        stmt.Ordinal + 1,
						Category:       stmt.Category,
						Command:        stmt.Command,
						ObjectKind:     stmt.ObjectKind,
						Schema:         stmt.SchemaName,
						NeedsMigration: stmt.NeedsMigration,
						Text:           stmt.Text,
					}
				}

				return writeYAML(stdout(cmd), rows)
			}

			return printClassification(cmd, result)
		},
	}
}

func printClassification(cmd *cli.Command, result statement.ValidationResult) error {
	w := tabwriter.NewWriter(stdout(cmd), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tCATEGORY\tCOMMAND\tOBJECT\tSCHEMA\tMIGRATION")

	for _, stmt := range result.Statements {
		migrate := "no"
		if stmt.NeedsMigration {
			migrate = "yes"
		}

		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			stmt.Ordinal+1,
			stmt.Category,
			orDash(stmt.Command),
			orDash(stmt.ObjectKind),
			orDash(stmt.SchemaName),
			migrate,
		)
	}

	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "failed to write output")
	}

	if result.NeedsMigration() {
		fmt.Fprintln(stdout(cmd), "\nThis SQL will be recorded as a migration.")
	}

	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
