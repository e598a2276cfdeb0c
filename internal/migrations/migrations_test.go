package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEmbeddedMigrations tests that every up migration has a matching down migration and that
// golang-migrate can read the embedded files.
func TestEmbeddedMigrations(t *testing.T) {
	names, err := fs.Glob(files, "sql/*.up.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)
	for _, name := range names {
		down := strings.TrimSuffix(name, ".up.sql") + ".down.sql"
		_, err := fs.Stat(files, down)
		assert.NoError(t, err, "missing %s", down)
	}

	source, err := iofs.New(files, "sql")
	require.NoError(t, err)
	first, err := source.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)
}

func TestSchemaTables(t *testing.T) {
	data, err := fs.ReadFile(files, "sql/000001_create_tables.up.sql")
	require.NoError(t, err)
	for _, table := range []string{"municipalities", "humans", "addresses", "phones", "emails",
		"info_for_contracts", "institutions"} {
		assert.Contains(t, string(data), "CREATE TABLE "+table+" (")
	}
}

func TestRunUnknownDirection(t *testing.T) {
	m := &Migrator{}
	assert.Error(t, m.Run("sideways", 0))
}

func TestExecScript(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := sqlx.NewDb(sqlDB, "mysql")
	defer db.Close()

	mock.ExpectExec("INSERT INTO municipalities").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO humans").WillReturnResult(sqlmock.NewResult(1, 1))

	script := `-- seed data
INSERT INTO municipalities (town, municipality_type, code)
VALUES ('Vilnius', 'T', 13);
INSERT INTO humans (first_name, last_name, gender) VALUES ('Jonas', 'Jonaitis', 'M');
`
	count, err := ExecScript(db, strings.NewReader(script))
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecScriptUnterminated(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	db := sqlx.NewDb(sqlDB, "mysql")
	defer db.Close()

	count, err := ExecScript(db, strings.NewReader("DELETE FROM phones"))
	assert.Error(t, err)
	assert.Equal(t, 0, count)
}
