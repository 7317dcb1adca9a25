package docker

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const (
	// DefaultPostgresVersion is the image tag used when Options.Version is empty.
	DefaultPostgresVersion = "16-alpine"

	// DefaultPostgresPort is the port PostgreSQL listens on inside the container.
	DefaultPostgresPort = 5432

	// LabelDev marks containers started by the dev command.
	LabelDev = "sqlgate.dev"
)

type (
	// Options configures the PostgreSQL container.
	Options struct {
		// Version is the postgres image tag. Defaults to DefaultPostgresVersion.
		Version string

		// Name is the optional container name. Docker picks one when empty.
		Name string

		// Database, Username and Password default to "postgres".
		Database string
		Username string
		Password string

		// InitScripts are .sql or .sh files run once when the database is first
		// initialized. Relative paths are resolved against the working directory.
		InitScripts []string

		// Labels are added to the container.
		Labels map[string]string
	}

	// Container manages a PostgreSQL Docker container for local development
	// and integration tests.
	Container struct {
		options   Options
		container *postgres.PostgresContainer
	}
)

// New creates a Container with opts. Nothing is started until Start is called.
//
// Example:
//
//	container := docker.New(docker.Options{Version: "16-alpine"})
//	if err := container.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer container.Stop(ctx)
//
//	url, _ := container.URL(ctx)
func New(opts Options) *Container {
	if opts.Version == "" {
		opts.Version = DefaultPostgresVersion
	}
	if opts.Database == "" {
		opts.Database = "postgres"
	}
	if opts.Username == "" {
		opts.Username = "postgres"
	}
	if opts.Password == "" {
		opts.Password = "postgres"
	}

	return &Container{options: opts}
}

// Image returns the image reference the container runs.
func (c *Container) Image() string {
	return fmt.Sprintf("postgres:%s", c.options.Version)
}

// Start starts the container and waits until PostgreSQL accepts connections.
func (c *Container) Start(ctx context.Context) error {
	if c.container != nil {
		return errors.New("container is already running")
	}

	scripts := make([]string, len(c.options.InitScripts))
	for i, script := range c.options.InitScripts {
		abs, err := filepath.Abs(script)
		if err != nil {
			return errors.Wrapf(err, "failed to get absolute path for init script: %s", script)
		}
		scripts[i] = abs
	}

	customizers := []testcontainers.ContainerCustomizer{
		postgres.WithDatabase(c.options.Database),
		postgres.WithUsername(c.options.Username),
		postgres.WithPassword(c.options.Password),
		postgres.BasicWaitStrategies(),
	}

	if len(scripts) > 0 {
		customizers = append(customizers, postgres.WithInitScripts(scripts...))
	}

	if len(c.options.Labels) > 0 {
		customizers = append(customizers, testcontainers.WithLabels(c.options.Labels))
	}

	if c.options.Name != "" {
		customizers = append(customizers, testcontainers.CustomizeRequest(testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{Name: c.options.Name},
		}))
	}

	container, err := postgres.Run(ctx, c.Image(), customizers...)
	if err != nil {
		return errors.Wrap(err, "failed to start PostgreSQL container")
	}

	c.container = container
	return nil
}

// Stop stops and removes the container.
func (c *Container) Stop(ctx context.Context) error {
	if c.container == nil {
		return nil
	}

	err := c.container.Terminate(ctx)
	c.container = nil

	if err != nil {
		return errors.Wrap(err, "failed to stop PostgreSQL container")
	}

	return nil
}

// URL returns a connection URL for the running container.
func (c *Container) URL(ctx context.Context) (string, error) {
	if c.container == nil {
		return "", errors.New("container is not running")
	}

	url, err := c.container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return "", errors.Wrap(err, "failed to get connection string")
	}

	return url, nil
}

// ID returns the Docker container ID, or "" when not running.
func (c *Container) ID() string {
	if c.container == nil {
		return ""
	}

	return c.container.GetContainerID()
}

// IsRunning reports whether Start succeeded and Stop has not been called.
func (c *Container) IsRunning() bool {
	return c.container != nil
}
