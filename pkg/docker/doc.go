// Package docker runs throwaway PostgreSQL servers in Docker for local
// development and integration tests.
//
// Container wraps the testcontainers postgres module and hands back a
// connection URL once the server accepts connections. Engine talks to the
// Docker daemon directly so that a dev server started by one invocation can
// be found and removed by a later one.
//
// # Usage Example
//
//	container := docker.New(docker.Options{
//		Version:     "16-alpine",
//		InitScripts: []string{"db/seed.sql"},
//	})
//
//	ctx := context.Background()
//	if err := container.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer container.Stop(ctx)
//
//	url, _ := container.URL(ctx)
//	client := postgres.New(postgres.Config{URL: url})
//	defer client.Close()
package docker
