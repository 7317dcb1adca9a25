package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/docker/docker/client"
	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlgate/pkg/config"
	"github.com/pseudomuto/sqlgate/pkg/docker"
	"github.com/pseudomuto/sqlgate/pkg/ledger"
	"github.com/pseudomuto/sqlgate/pkg/postgres"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

const devContainerName = "sqlgate-dev"

// dockerClient connects to the Docker daemon described by the environment.
var dockerClient = func() (docker.DockerClient, func(), error) {
	cl, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create Docker client")
	}

	return cl, func() { _ = cl.Close() }, nil
}

type devParams struct {
	fx.In

	Config *config.Config
	Ledger *ledger.Ledger
}

// dev returns the command group managing a local PostgreSQL server.
//
// Example usage:
//
//	sqlgate dev up
//	export SQLGATE_DATABASE_URL=...   # printed by dev up
//	sqlgate exec "CREATE TABLE users (id SERIAL PRIMARY KEY)"
//	sqlgate dev down
func dev(p devParams) *cli.Command {
	return &cli.Command{
		Name:  "dev",
		Usage: "Manage a local PostgreSQL development server",
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Start the development server and bootstrap the ledger",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runDevUp(ctx, cmd, p)
				},
			},
			{
				Name:   "down",
				Usage:  "Stop and remove the development server",
				Action: runDevDown,
			},
		},
	}
}

func runDevUp(ctx context.Context, cmd *cli.Command, p devParams) error {
	engine, closeEngine, err := newEngine()
	if err != nil {
		return err
	}
	defer closeEngine()

	running, err := engine.ListDev(ctx)
	if err != nil {
		return err
	}

	if len(running) > 0 {
		fmt.Fprintf(stdout(cmd), "Development server is already running (%s)\n", strings.Join(running[0].Names, ", "))
		fmt.Fprintln(stdout(cmd), "Use 'sqlgate dev down' to stop it first")
		return nil
	}

	// The container must outlive this process, so the testcontainers reaper
	// is not started.
	if err := os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true"); err != nil {
		return errors.Wrap(err, "failed to disable container reaper")
	}

	container := docker.New(docker.Options{
		Version:     p.Config.Dev.Version,
		Name:        devContainerName,
		InitScripts: p.Config.Dev.InitScripts,
		Labels:      map[string]string{docker.LabelDev: "true"},
	})

	fmt.Fprintf(stdout(cmd), "Starting %s...\n", container.Image())
	if err := container.Start(ctx); err != nil {
		return err
	}

	dsn, err := container.URL(ctx)
	if err != nil {
		_ = container.Stop(ctx)
		return err
	}

	pg := postgres.New(p.Config.ClientConfig(dsn))
	defer pg.Close()

	pool, err := pg.Pool(ctx)
	if err != nil {
		_ = container.Stop(ctx)
		return err
	}

	if err := p.Ledger.Bootstrap(ctx, pool); err != nil {
		_ = container.Stop(ctx)
		return err
	}

	printDevDetails(cmd, dsn, p.Ledger)
	return nil
}

func runDevDown(ctx context.Context, cmd *cli.Command) error {
	engine, closeEngine, err := newEngine()
	if err != nil {
		return err
	}
	defer closeEngine()

	running, err := engine.ListDev(ctx)
	if err != nil {
		return err
	}

	if len(running) == 0 {
		fmt.Fprintln(stdout(cmd), "No development server is currently running")
		return nil
	}

	for _, c := range running {
		if err := engine.Remove(ctx, c.ID); err != nil {
			return err
		}
	}

	fmt.Fprintln(stdout(cmd), "Development server stopped")
	return nil
}

func newEngine() (*docker.Engine, func(), error) {
	cl, closeClient, err := dockerClient()
	if err != nil {
		return nil, nil, err
	}

	return docker.NewEngine(cl), closeClient, nil
}

func printDevDetails(cmd *cli.Command, dsn string, l *ledger.Ledger) {
	w := stdout(cmd)

	fmt.Fprintln(w, "\n"+strings.Repeat("=", 60))
	fmt.Fprintln(w, "PostgreSQL Development Server Started")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "URL:     %s\n", dsn)
	fmt.Fprintf(w, "Ledger:  %s\n", l.Relation())
	fmt.Fprintf(w, "\nexport %s=%q\n", config.EnvDatabaseURL, dsn)
	fmt.Fprintln(w, "\nUse 'sqlgate dev down' to stop the server")
	fmt.Fprintln(w, strings.Repeat("=", 60))
}
