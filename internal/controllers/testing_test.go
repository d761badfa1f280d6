package controllers

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/amaumene/gomeshelf/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestDatabase(t *testing.T) *models.Database {
	t.Helper()
	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "test.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(context.Background()))
	return db
}
