package migration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pseudomuto/sqlgate/pkg/migration"
	"github.com/pseudomuto/sqlgate/pkg/statement"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"
)

func TestGoldenFiles(t *testing.T) {
	testdataDir := "testdata"

	pattern := filepath.Join(testdataDir, "*.in.sql")
	matches, err := filepath.Glob(pattern)
	require.NoError(t, err)
	require.NotEmpty(t, matches, "No *.in.sql files found in testdata directory")

	mgr := migration.New(migration.Config{Clock: fixedClock})

	for _, inputFile := range matches {
		// "example.in.sql" -> "example.sql"
		basename := filepath.Base(inputFile)
		outputName := strings.TrimSuffix(basename, ".in.sql") + ".sql"

		t.Run(outputName, func(t *testing.T) {
			input, err := os.ReadFile(inputFile)
			require.NoError(t, err, "Failed to read input file %s", inputFile)

			sql := strings.TrimSpace(string(input))
			insert, name := mgr.PrepareMigrationQuery(statement.Validate(sql), sql, "")

			golden.Assert(t, "-- "+name+"\n"+insert+"\n", outputName)
		})
	}
}

func fixedClock() time.Time {
	return time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC)
}
