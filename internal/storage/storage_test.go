package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeenSet_AddKeepsInsertionOrder(t *testing.T) {
	s := NewSeenSet("b", "a", "b")

	assert.Equal(t, []string{"b", "a"}, s.URLs())
	assert.True(t, s.Add("c"))
	assert.False(t, s.Add("a"))
	assert.Equal(t, []string{"b", "a", "c"}, s.URLs())
	assert.True(t, s.Contains("c"))
	assert.False(t, s.Contains("d"))
}

func TestSeenSet_ZeroValueUsable(t *testing.T) {
	var s SeenSet
	assert.True(t, s.Add("x"))
	assert.Equal(t, 1, s.Len())
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "posted.json"))

	set, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestFileStore_EmptyFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posted.json")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0644))

	set, err := NewFileStore(path).Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestFileStore_MalformedJSONFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posted.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "an array"`), 0644))

	set, err := NewFileStore(path).Load(context.Background())

	assert.Error(t, err)
	assert.Nil(t, set)
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "posted.json")
	store := NewFileStore(path)

	sets := []*SeenSet{
		NewSeenSet(),
		NewSeenSet("https://www.uscis.gov/newsroom/news-releases/a"),
		NewSeenSet("https://x/1", "https://x/2?q=a&b=c", "https://x/移民"),
	}
	for _, want := range sets {
		require.NoError(t, store.Save(ctx, want))
		loaded, err := store.Load(ctx)
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, loaded))

		got, err := store.Load(ctx)
		require.NoError(t, err)
		assert.True(t, want.Equal(got), "want %v, got %v", want.URLs(), got.URLs())
	}
}

func TestFileStore_WritesPlainJSONArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posted.json")
	store := NewFileStore(path)

	require.NoError(t, store.Save(context.Background(), NewSeenSet("https://x/a?b=1&c=2", "https://x/新聞")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[\n  \"https://x/a?b=1&c=2\",\n  \"https://x/新聞\"\n]\n", string(data))
}

func TestFileStore_EmptySetWritesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posted.json")

	require.NoError(t, NewFileStore(path).Save(context.Background(), NewSeenSet()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("a")

	set, err := store.Load(ctx)
	require.NoError(t, err)
	set.Add("b")
	require.NoError(t, store.Save(ctx, set))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.URLs())
	assert.Equal(t, 1, store.Saves())
}
