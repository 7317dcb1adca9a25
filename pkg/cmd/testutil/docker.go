package testutil

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/pseudomuto/sqlgate/pkg/docker"
	"github.com/stretchr/testify/require"
)

// SkipIfNoDocker skips the test in short mode or when no Docker daemon is
// reachable.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("Docker not available")
	}

	if err := exec.CommandContext(t.Context(), "docker", "ps").Run(); err != nil {
		t.Skip("Docker daemon not running")
	}
}

// StartPostgres starts a PostgreSQL container that is removed when the test
// finishes and returns its connection URL.
func StartPostgres(t *testing.T) string {
	t.Helper()
	SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container := docker.New(docker.Options{})
	require.NoError(t, container.Start(ctx), "Failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Stop(context.Background()) })

	dsn, err := container.URL(ctx)
	require.NoError(t, err)

	return dsn
}

// MockDockerClient implements docker.DockerClient with overridable functions.
// Unset functions report no containers and succeed.
type MockDockerClient struct {
	ContainerListFunc    func(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
	ContainerStopFunc    func(ctx context.Context, containerID string, options container.StopOptions) error
	ContainerRemoveFunc  func(ctx context.Context, containerID string, options container.RemoveOptions) error
	ContainerInspectFunc func(ctx context.Context, containerID string) (container.InspectResponse, error)
}

func (m *MockDockerClient) ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error) {
	if m.ContainerListFunc == nil {
		return nil, nil
	}

	return m.ContainerListFunc(ctx, options)
}

func (m *MockDockerClient) ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error {
	if m.ContainerStopFunc == nil {
		return nil
	}

	return m.ContainerStopFunc(ctx, containerID, options)
}

func (m *MockDockerClient) ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error {
	if m.ContainerRemoveFunc == nil {
		return nil
	}

	return m.ContainerRemoveFunc(ctx, containerID, options)
}

func (m *MockDockerClient) ContainerInspect(ctx context.Context, containerID string) (container.InspectResponse, error) {
	if m.ContainerInspectFunc == nil {
		return container.InspectResponse{}, nil
	}

	return m.ContainerInspectFunc(ctx, containerID)
}
