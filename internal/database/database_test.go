package database

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"promptfeed/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestDialector(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	d, err := Dialector(&config.Config{StoreDriver: config.StoreDriverSQLite, SQLitePath: filepath.Join(dir, "feed.sqlite")})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())
	_, err = os.Stat(dir)
	assert.NoError(t, err, "sqlite directory is created")

	d, err = Dialector(&config.Config{StoreDriver: config.StoreDriverPostgres, DBHost: "db", DBPort: "5432", DBName: "feed"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = Dialector(&config.Config{StoreDriver: config.StoreDriverFile})
	assert.Error(t, err)
}

func TestConnectSQLite(t *testing.T) {
	db, err := Connect(&config.Config{StoreDriver: config.StoreDriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "feed.sqlite")})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	assert.NoError(t, sqlDB.Ping())
}

func TestGormLoggerTrace(t *testing.T) {
	var buf bytes.Buffer
	l := NewGormLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	ctx := context.Background()
	sql := func() (string, int64) { return "SELECT 1", 1 }

	l.Trace(ctx, time.Now(), sql, errors.New("boom"))
	assert.Contains(t, buf.String(), "GORM query error")
	assert.Contains(t, buf.String(), "boom")

	buf.Reset()
	l.Trace(ctx, time.Now(), sql, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String(), "record not found is not an error")

	buf.Reset()
	l.Trace(ctx, time.Now().Add(-time.Second), sql, nil)
	assert.Contains(t, buf.String(), "GORM slow query")

	buf.Reset()
	l.LogMode(logger.Silent).Trace(ctx, time.Now(), sql, errors.New("boom"))
	assert.Empty(t, buf.String())
}

func TestPostgresDSN(t *testing.T) {
	dsn := postgresDSN(&config.Config{DBHost: "db", DBPort: "5432", DBUser: "feed", DBPassword: "pw", DBName: "promptfeed"})
	assert.Equal(t, "host=db port=5432 user=feed password=pw dbname=promptfeed sslmode=disable", dsn)

	dsn = postgresDSN(&config.Config{DBSSLMode: "require"})
	assert.Contains(t, dsn, "sslmode=require")
}
