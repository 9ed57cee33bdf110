package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSQLRegistersFilesInOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/0002_second.sql": {Data: []byte("SELECT 2;")},
		"sql/0001_first.sql":  {Data: []byte("SELECT 1;")},
		"sql/README.md":       {Data: []byte("ignored")},
	}

	m := NewMigrator()
	require.NoError(t, m.LoadSQL(fsys, "sql"))

	pending := m.Pending(nil)
	require.Len(t, pending, 2)
	assert.Equal(t, "0001_first", pending[0].ID)
	assert.Equal(t, "0002_second", pending[1].ID)
	assert.Nil(t, pending[0].Down)
}

func TestPendingSkipsExecuted(t *testing.T) {
	m := NewMigrator()
	m.Register("0001_a", nil, nil)
	m.Register("0002_b", nil, nil)
	m.Register("0003_c", nil, nil)

	pending := m.Pending(map[string]bool{"0002_b": true})
	require.Len(t, pending, 2)
	assert.Equal(t, "0001_a", pending[0].ID)
	assert.Equal(t, "0003_c", pending[1].ID)
}

func TestLoadSQLMissingDirectory(t *testing.T) {
	err := NewMigrator().LoadSQL(fstest.MapFS{}, "sql")
	assert.ErrorContains(t, err, "failed to read migrations directory")
}

func TestEmbeddedMigrationsLoad(t *testing.T) {
	m := NewMigrator()
	require.NoError(t, m.LoadSQL(Files, "sql"))

	pending := m.Pending(nil)
	require.NotEmpty(t, pending)
	assert.Equal(t, "0001_calculation_history_index", pending[0].ID)
}
