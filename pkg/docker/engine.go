package docker

import (
	"context"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/pkg/errors"
)

type (
	// DockerClient is the subset of the Docker API used by Engine. It is
	// satisfied by *client.Client.
	DockerClient interface {
		ContainerList(context.Context, container.ListOptions) ([]container.Summary, error)
		ContainerStop(context.Context, string, container.StopOptions) error
		ContainerRemove(context.Context, string, container.RemoveOptions) error
		ContainerInspect(context.Context, string) (container.InspectResponse, error)
	}

	// Engine looks up and removes containers that outlive the process that
	// started them, such as the dev server.
	Engine struct {
		client DockerClient
	}

	// Summary describes a container known to the Docker daemon.
	Summary struct {
		ID     string
		Names  []string
		Image  string
		State  string
		Status string
	}
)

// NewEngine creates an Engine backed by cl.
//
// Example:
//
//	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer cli.Close()
//
//	engine := docker.NewEngine(cli)
//	running, err := engine.ListDev(ctx)
func NewEngine(cl DockerClient) *Engine {
	return &Engine{client: cl}
}

// ListDev returns the running containers labelled with LabelDev.
func (e *Engine) ListDev(ctx context.Context) ([]*Summary, error) {
	list, err := e.client.ContainerList(ctx, container.ListOptions{
		Filters: filters.NewArgs(
			filters.Arg("status", "running"),
			filters.Arg("label", LabelDev+"=true"),
		),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list running containers")
	}

	res := make([]*Summary, len(list))
	for i, c := range list {
		names := make([]string, len(c.Names))
		for j, name := range c.Names {
			names[j] = strings.TrimPrefix(name, "/")
		}

		res[i] = &Summary{
			ID:     c.ID,
			Names:  names,
			Image:  c.Image,
			State:  c.State,
			Status: c.Status,
		}
	}

	return res, nil
}

// Get inspects a single container.
func (e *Engine) Get(ctx context.Context, nameOrID string) (*Summary, error) {
	inspect, err := e.client.ContainerInspect(ctx, nameOrID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to inspect container: %s", nameOrID)
	}

	summary := &Summary{ID: inspect.ID}
	if inspect.Name != "" {
		summary.Names = []string{strings.TrimPrefix(inspect.Name, "/")}
	}
	if inspect.Config != nil {
		summary.Image = inspect.Config.Image
	}
	if inspect.State != nil {
		summary.State = inspect.State.Status
		summary.Status = inspect.State.Status
	}

	return summary, nil
}

// Remove stops the container, waiting up to 30 seconds, and then removes it.
func (e *Engine) Remove(ctx context.Context, nameOrID string) error {
	timeout := 30
	if err := e.client.ContainerStop(ctx, nameOrID, container.StopOptions{Timeout: &timeout}); err != nil {
		return errors.Wrapf(err, "failed to stop container: %s", nameOrID)
	}

	if err := e.client.ContainerRemove(ctx, nameOrID, container.RemoveOptions{Force: true}); err != nil {
		return errors.Wrapf(err, "failed to remove container: %s", nameOrID)
	}

	return nil
}
