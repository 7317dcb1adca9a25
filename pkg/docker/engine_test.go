package docker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/pseudomuto/sqlgate/pkg/docker"
	"github.com/stretchr/testify/require"
)

type fakeDockerClient struct {
	summaries []container.Summary
	inspect   container.InspectResponse
	listOpts  container.ListOptions
	stopped   []string
	removed   []string
	err       error
}

func (f *fakeDockerClient) ContainerList(_ context.Context, opts container.ListOptions) ([]container.Summary, error) {
	f.listOpts = opts
	return f.summaries, f.err
}

func (f *fakeDockerClient) ContainerStop(_ context.Context, id string, _ container.StopOptions) error {
	f.stopped = append(f.stopped, id)
	return f.err
}

func (f *fakeDockerClient) ContainerRemove(_ context.Context, id string, _ container.RemoveOptions) error {
	f.removed = append(f.removed, id)
	return f.err
}

func (f *fakeDockerClient) ContainerInspect(context.Context, string) (container.InspectResponse, error) {
	return f.inspect, f.err
}

func TestEngineListDev(t *testing.T) {
	client := &fakeDockerClient{
		summaries: []container.Summary{
			{ID: "abc", Names: []string{"/sqlgate-dev"}, Image: "postgres:16-alpine", State: "running", Status: "Up 2 minutes"},
		},
	}

	list, err := docker.NewEngine(client).ListDev(context.Background())
	require.NoError(t, err)
	require.Equal(t, []*docker.Summary{
		{ID: "abc", Names: []string{"sqlgate-dev"}, Image: "postgres:16-alpine", State: "running", Status: "Up 2 minutes"},
	}, list)

	require.ElementsMatch(t, []string{docker.LabelDev + "=true"}, client.listOpts.Filters.Get("label"))
	require.ElementsMatch(t, []string{"running"}, client.listOpts.Filters.Get("status"))
}

func TestEngineGet(t *testing.T) {
	client := &fakeDockerClient{
		inspect: container.InspectResponse{
			ContainerJSONBase: &container.ContainerJSONBase{
				ID:    "abc",
				Name:  "/sqlgate-dev",
				State: &container.State{Status: "running"},
			},
			Config: &container.Config{Image: "postgres:16-alpine"},
		},
	}

	summary, err := docker.NewEngine(client).Get(context.Background(), "sqlgate-dev")
	require.NoError(t, err)
	require.Equal(t, &docker.Summary{
		ID:     "abc",
		Names:  []string{"sqlgate-dev"},
		Image:  "postgres:16-alpine",
		State:  "running",
		Status: "running",
	}, summary)
}

func TestEngineRemove(t *testing.T) {
	client := &fakeDockerClient{}

	require.NoError(t, docker.NewEngine(client).Remove(context.Background(), "abc"))
	require.Equal(t, []string{"abc"}, client.stopped)
	require.Equal(t, []string{"abc"}, client.removed)
}

func TestEngineErrors(t *testing.T) {
	client := &fakeDockerClient{err: errors.New("daemon unavailable")}
	engine := docker.NewEngine(client)
	ctx := context.Background()

	_, err := engine.ListDev(ctx)
	require.EqualError(t, err, "failed to list running containers: daemon unavailable")

	_, err = engine.Get(ctx, "abc")
	require.EqualError(t, err, "failed to inspect container: abc: daemon unavailable")

	err = engine.Remove(ctx, "abc")
	require.EqualError(t, err, "failed to stop container: abc: daemon unavailable")
	require.Empty(t, client.removed)
}
