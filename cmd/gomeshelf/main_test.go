package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amaumene/gomeshelf/internal/config"
	"github.com/amaumene/gomeshelf/internal/models"
	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) (*commandContext, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		SessionSecret:   "0123456789abcdef0123",
		SessionTTL:      time.Hour,
		UpstreamTimeout: time.Second,
		ServerPort:      "0",
		ConfigDir:       dir,
		DatabaseFile:    filepath.Join(dir, "gomeshelf.db"),
		LockFile:        filepath.Join(dir, "gomeshelf.lock"),
		LogLevel:        "panic",
		LogFormat:       "text",
	}
	ctx := newCommandContext()
	ctx.loadConfig = func() (*config.Config, error) { return cfg, nil }
	return ctx, cfg
}

func execute(t *testing.T, ctx *commandContext, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommandWithContext(ctx)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMigrateCommand(t *testing.T) {
	ctx, cfg := newTestContext(t)

	out, err := execute(t, ctx, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, cfg.DatabaseFile)
	assert.FileExists(t, cfg.DatabaseFile)
}

func TestCreateUserWithGeneratedPassword(t *testing.T) {
	ctx, _ := newTestContext(t)

	out, err := execute(t, ctx, "create-user", "--email", "admin@example.com", "--generate-password")
	require.NoError(t, err)
	assert.Contains(t, out, "Created admin account admin@example.com")

	var generated string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "Password: ") {
			generated = strings.TrimPrefix(line, "Password: ")
		}
	}
	assert.Len(t, generated, generatedPasswordLength)

	_, err = execute(t, ctx, "create-user", "--email", "other@example.com", "--password", "secret123")
	assert.ErrorIs(t, err, models.ErrSetupComplete)
}

func TestCreateUserValidation(t *testing.T) {
	ctx, _ := newTestContext(t)

	_, err := execute(t, ctx, "create-user", "--email", "admin@example.com", "--password", "123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Password must be at least 6 characters")

	_, err = execute(t, ctx, "create-user", "--email", "admin@example.com", "--password", "secret123", "--generate-password")
	assert.Error(t, err)

	_, err = execute(t, ctx, "create-user", "--password", "secret123")
	assert.Error(t, err)
}

func TestItemsCommandEmptyAndFiltered(t *testing.T) {
	ctx, _ := newTestContext(t)

	out, err := execute(t, ctx, "items")
	require.NoError(t, err)
	assert.Contains(t, out, "No items")

	_, err = execute(t, ctx, "items", "--status", "archived")
	require.Error(t, err)
}

func TestSummaryCommandListsEveryShelf(t *testing.T) {
	ctx, _ := newTestContext(t)

	out, err := execute(t, ctx, "summary")
	require.NoError(t, err)
	for _, shelf := range []string{"WANT TO READ", "WATCHING", "PLAYED", "TOTAL"} {
		assert.Contains(t, out, shelf)
	}
}

func TestMigrateRefusesWhenLocked(t *testing.T) {
	ctx, cfg := newTestContext(t)

	held := flock.New(cfg.LockFile)
	ok, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	defer func() { _ = held.Unlock() }()

	_, err = execute(t, ctx, "migrate")
	assert.ErrorIs(t, err, errAlreadyRunning)
}

func TestRenderItems(t *testing.T) {
	season, episode, rating := 2, 5, 4
	items := []models.MediaItem{
		{
			ID:             "0123456789abcdef",
			Title:          "The Expanse",
			MediaType:      models.MediaTypeTVShow,
			Status:         models.StatusInProgress,
			Rating:         &rating,
			CurrentSeason:  &season,
			CurrentEpisode: &episode,
			UpdatedAt:      time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:        "short",
			Title:     "Dune",
			MediaType: models.MediaTypeBook,
			Status:    models.StatusBacklog,
			UpdatedAt: time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
		},
	}

	out := renderItems(items)
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789abcdef")
	assert.Contains(t, out, "Watching")
	assert.Contains(t, out, "S02E05")
	assert.Contains(t, out, "****")
	assert.Contains(t, out, "Want to Read")
	assert.Contains(t, out, "2024-03-01")
}

func TestFormatProgress(t *testing.T) {
	season := 1
	assert.Equal(t, "", formatProgress(models.MediaItem{MediaType: models.MediaTypeMovie}))
	assert.Equal(t, "", formatProgress(models.MediaItem{MediaType: models.MediaTypeTVShow}))
	assert.Equal(t, "S01", formatProgress(models.MediaItem{MediaType: models.MediaTypeTVShow, CurrentSeason: &season}))
}

func TestFormatRating(t *testing.T) {
	zero, three := 0, 3
	assert.Equal(t, "-", formatRating(nil))
	assert.Equal(t, "-", formatRating(&zero))
	assert.Equal(t, "***", formatRating(&three))
}
