// ABOUTME: Tests for the SQLite analytics store and event sanitization
// ABOUTME: Uses a temp-dir database per test

package analytics

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "analytics.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAppendAndTrending(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	events := []*Event{
		{EventType: EventCopyRepo, PluginID: "plugin_a", PluginName: "A"},
		{EventType: EventCopyRepo, PluginID: "plugin_a", PluginName: "A"},
		{EventType: EventVisitRepo, PluginID: "plugin_a", PluginName: "A"},
		{EventType: EventViewDetails, PluginID: "plugin_b", PluginName: "B"},
		// Searches are recorded but not counted toward trending.
		{EventType: EventSearch, PluginID: "plugin_b"},
		// Events without a plugin never rank.
		{EventType: EventPageView},
	}
	for _, e := range events {
		require.NoError(t, e.Sanitize())
		require.NoError(t, store.Append(ctx, e))
		assert.NotEmpty(t, e.ID, "Append should assign an ID")
	}

	entries, err := store.Trending(ctx, 7, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "plugin_a", entries[0].PluginID)
	assert.Equal(t, 3, entries[0].Total)
	assert.Equal(t, 2, entries[0].CopyCount)
	assert.Equal(t, 1, entries[0].VisitCount)
	assert.Equal(t, "A", entries[0].PluginName)

	assert.Equal(t, "plugin_b", entries[1].PluginID)
	assert.Equal(t, 1, entries[1].Total)
	assert.Equal(t, 1, entries[1].DetailViews)
}

func TestTrending_PeriodWindow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	old := &Event{
		EventType: EventCopyRepo,
		PluginID:  "plugin_old",
		CreatedAt: time.Now().UTC().AddDate(0, 0, -30),
	}
	require.NoError(t, store.Append(ctx, old))
	require.NoError(t, store.Append(ctx, &Event{EventType: EventCopyRepo, PluginID: "plugin_new"}))

	entries, err := store.Trending(ctx, 7, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "plugin_new", entries[0].PluginID)

	entries, err = store.Trending(ctx, 60, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestTrending_Limit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Append(ctx, &Event{EventType: EventVisitRepo, PluginID: id}))
	}

	entries, err := store.Trending(ctx, 7, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSanitize_RejectsUnknownType(t *testing.T) {
	e := &Event{EventType: "install_malware"}
	err := e.Sanitize()
	assert.True(t, errors.Is(err, ErrInvalidEvent))

	e = &Event{}
	assert.Error(t, e.Sanitize())
}

func TestSanitize_CapsTagsAndMetadata(t *testing.T) {
	tags := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		tags = append(tags, "tag")
	}
	metadata := map[string]any{
		"ok_string": "v",
		"ok_number": 3.14,
		"ok_bool":   true,
		"dropped_slice": []string{
			"not", "a", "scalar",
		},
		"dropped_map": map[string]string{"nested": "x"},
	}

	e := &Event{
		EventType:  EventViewDetails,
		PluginTags: append(tags, "", "  "),
		Metadata:   metadata,
	}
	require.NoError(t, e.Sanitize())

	assert.Len(t, e.PluginTags, 16)
	assert.NotContains(t, e.PluginTags, "")

	assert.Contains(t, e.Metadata, "ok_string")
	assert.Contains(t, e.Metadata, "ok_number")
	assert.Contains(t, e.Metadata, "ok_bool")
	assert.NotContains(t, e.Metadata, "dropped_slice")
	assert.NotContains(t, e.Metadata, "dropped_map")
}

func TestSanitize_DropsLongMetadataKeys(t *testing.T) {
	longKey := ""
	for i := 0; i < 49; i++ {
		longKey += "k"
	}

	e := &Event{
		EventType: EventSearch,
		Metadata:  map[string]any{longKey: "v", "short": "v"},
	}
	require.NoError(t, e.Sanitize())

	assert.NotContains(t, e.Metadata, longKey)
	assert.Contains(t, e.Metadata, "short")
}

func TestAppend_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "analytics.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(context.Background(), &Event{EventType: EventCopyRepo, PluginID: "p"}))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.Trending(context.Background(), 7, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
