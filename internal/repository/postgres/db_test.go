package postgres

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB_ErrorCode(t *testing.T) {
	db := &DB{}

	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgErrUniqueViolationCode})
	assert.Equal(t, pgErrUniqueViolationCode, db.ErrorCode(wrapped))
	assert.Equal(t, "", db.ErrorCode(fmt.Errorf("plain")))
}

func TestMigrations_Embedded(t *testing.T) {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	require.NoError(t, err)

	assert.Contains(t, files, "migrations/000001_init.up.sql")
	assert.Contains(t, files, "migrations/000001_init.down.sql")
}
