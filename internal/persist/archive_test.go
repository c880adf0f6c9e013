package persist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/taskgraph/internal/document"
)

func openTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := OpenArchive(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestArchiveRoundTrip(t *testing.T) {
	a := openTestArchive(t)
	d := buildDocument(t)
	require.NoError(t, a.SaveSnapshot(d, "autosave"))

	restored := document.New()
	found, err := a.LoadLatest(restored)
	require.NoError(t, err)
	require.True(t, found)
	requireSameTasks(t, d.Tasks(), restored.Tasks())
}

func TestLoadLatestEmptyArchive(t *testing.T) {
	a := openTestArchive(t)

	d := document.New()
	marker, _ := d.Create("untouched")
	found, err := a.LoadLatest(d)
	require.NoError(t, err)
	assert.False(t, found)

	_, ok := d.Task(marker.ID)
	assert.True(t, ok)
}

func TestLoadLatestReturnsNewestSnapshot(t *testing.T) {
	a := openTestArchive(t)

	d := document.New()
	d.Create("first")
	require.NoError(t, a.SaveSnapshot(d, "one"))
	d.Create("second")
	require.NoError(t, a.SaveSnapshot(d, "two"))

	restored := document.New()
	found, err := a.LoadLatest(restored)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, restored.Len())
}

func TestPruneKeepsMostRecent(t *testing.T) {
	a := openTestArchive(t)

	d := document.New()
	for i := 0; i < 5; i++ {
		d.Create("task")
		require.NoError(t, a.SaveSnapshot(d, "autosave"))
	}

	require.NoError(t, a.Prune(2))
	n, err := a.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// The survivors are the newest rows.
	restored := document.New()
	found, err := a.LoadLatest(restored)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 5, restored.Len())
}
