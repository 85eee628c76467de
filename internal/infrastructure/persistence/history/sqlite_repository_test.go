package history

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nyukimin/kokoro/internal/domain/conversation"
)

func newTestSQLiteRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepository_LoadEmpty(t *testing.T) {
	repo := newTestSQLiteRepository(t)

	loaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
}

func TestSQLiteRepository_SaveAndLoad(t *testing.T) {
	repo := newTestSQLiteRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleHistory()))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, sampleHistory().Thoughts(), loaded.Thoughts())
	assert.Equal(t, sampleHistory().Chats(), loaded.Chats())
	assert.Equal(t, sampleHistory().Summaries(), loaded.Summaries())
}

func TestSQLiteRepository_SaveRewritesAll(t *testing.T) {
	repo := newTestSQLiteRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleHistory()))

	h := conversation.ReconstructHistory(nil, nil, []string{"(t) only"})
	require.NoError(t, repo.Save(ctx, h))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.ThoughtCount())
	assert.Equal(t, 0, loaded.ChatCount())
	assert.Equal(t, []string{"(t) only"}, loaded.Summaries())
}

func TestSQLiteRepository_Reset(t *testing.T) {
	repo := newTestSQLiteRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleHistory()))
	require.NoError(t, repo.Reset(ctx))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
}

func TestSQLiteRepository_Reopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	repo, err := NewSQLiteRepository(dir)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, sampleHistory()))
	require.NoError(t, repo.Close())

	reopened, err := NewSQLiteRepository(dir)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.ChatCount())
}
