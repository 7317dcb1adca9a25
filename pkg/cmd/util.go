package cmd

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlgate/pkg/config"
	"github.com/pseudomuto/sqlgate/pkg/postgres"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

func fileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "file",
		Aliases: []string{"f"},
		Usage:   "read SQL from `FILE` instead of the arguments",
		Config: cli.StringConfig{
			TrimSpace: true,
		},
	}
}

func urlFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "url",
		Aliases: []string{"u"},
		Usage:   "PostgreSQL connection URL (defaults to the configured database)",
		Sources: cli.EnvVars(config.EnvDatabaseURL),
		Config: cli.StringConfig{
			TrimSpace: true,
		},
	}
}

func nameFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "name",
		Aliases: []string{"n"},
		Usage:   "migration name to record instead of a generated one",
	}
}

// readSQL returns the SQL given with --file, read from stdin when the only
// argument is "-", or the arguments joined by spaces.
func readSQL(cmd *cli.Command) (string, error) {
	if path := cmd.String("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", errors.Wrapf(err, "failed to read SQL file: %s", path)
		}

		return string(data), nil
	}

	args := cmd.Args().Slice()
	if len(args) == 1 && args[0] == "-" {
		reader := cmd.Root().Reader
		if reader == nil {
			reader = os.Stdin
		}

		data, err := io.ReadAll(reader)
		if err != nil {
			return "", errors.Wrap(err, "failed to read SQL from stdin")
		}

		return string(data), nil
	}

	return strings.Join(args, " "), nil
}

// openClient creates a client for --url, or the configured database when the
// flag is unset. The caller must close the client.
func openClient(cmd *cli.Command, cfg *config.Config) (*postgres.Client, error) {
	dsn := cmd.String("url")
	if dsn == "" {
		var err error
		if dsn, err = cfg.DatabaseURL(); err != nil {
			return nil, err
		}
	}

	return postgres.New(cfg.ClientConfig(dsn)), nil
}

// stdout is the writer of the root command, so output is captured when the
// application's Writer is replaced.
func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}

	return os.Stdout
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "failed to encode output")
	}

	return enc.Close()
}

func withClient(cfg *config.Config, fn func(context.Context, *cli.Command, *postgres.Client) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		client, err := openClient(cmd, cfg)
		if err != nil {
			return err
		}
		defer client.Close()

		return fn(ctx, cmd, client)
	}
}
