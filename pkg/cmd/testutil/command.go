package testutil

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"
)

// RunCommand executes command through a throwaway application and returns
// everything it wrote.
func RunCommand(t *testing.T, command *cli.Command, args ...string) (string, error) {
	t.Helper()
	return RunCommandWithInput(t, command, "", args...)
}

// RunCommandWithInput is RunCommand with stdin set to input.
func RunCommandWithInput(t *testing.T, command *cli.Command, input string, args ...string) (string, error) {
	t.Helper()
	return RunCommandWithContext(context.Background(), t, command, strings.NewReader(input), args...)
}

// RunCommandWithContext executes command with a custom context and stdin.
func RunCommandWithContext(ctx context.Context, t *testing.T, command *cli.Command, stdin io.Reader, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := &cli.Command{
		Name:      "test",
		Commands:  []*cli.Command{command},
		Reader:    stdin,
		Writer:    &out,
		ErrWriter: &out,
	}

	fullArgs := append([]string{"test", command.Name}, args...)
	err := app.Run(ctx, fullArgs)

	return out.String(), err
}

func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}

	return lines
}
