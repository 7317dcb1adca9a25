package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pseudomuto/sqlgate/pkg/config"
	"github.com/pseudomuto/sqlgate/pkg/consts"
	"github.com/pseudomuto/sqlgate/pkg/ledger"
	"github.com/pseudomuto/sqlgate/pkg/migration"
	"github.com/pseudomuto/sqlgate/pkg/statement"
	"github.com/stretchr/testify/require"
)

// Fixture bundles the dependencies commands are built from.
type Fixture struct {
	Dir       string
	Config    *config.Config
	Ledger    *ledger.Ledger
	Manager   *migration.Manager
	Validator *statement.Validator
	t         *testing.T
}

// NewFixture creates a fixture with the default configuration rooted in a
// temporary directory.
func NewFixture(t *testing.T) *Fixture {
	t.Helper()

	validator, err := statement.NewValidator(consts.DefaultValidationCacheSize)
	require.NoError(t, err)

	cfg := config.Default()
	return &Fixture{
		Dir:       t.TempDir(),
		Config:    cfg,
		Ledger:    ledger.New(cfg.Ledger.Schema, cfg.Ledger.Table),
		Manager:   migration.New(cfg.MigrationConfig()),
		Validator: validator,
		t:         t,
	}
}

// WithDatabaseURL points the fixture's configuration at url.
func (f *Fixture) WithDatabaseURL(url string) *Fixture {
	f.Config.Database.URL = url
	return f
}

// WriteSQL writes sql to name inside the fixture directory and returns the
// full path.
func (f *Fixture) WriteSQL(name, sql string) string {
	f.t.Helper()

	path := filepath.Join(f.Dir, name)
	require.NoError(f.t, os.WriteFile(path, []byte(sql), consts.ModeFile))

	return path
}
