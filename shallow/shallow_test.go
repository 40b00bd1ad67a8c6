package shallow_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wanders/git-sleipnir/shallow"
)

func TestLoadMissingFileYieldsEmptySet(t *testing.T) {
	set, err := shallow.Load(filepath.Join(t.TempDir(), "shallow"))
	require.NoError(t, err)
	require.Empty(t, set)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shallow")
	set := shallow.Set{}
	set.Add("deadbeef")
	set.Add("cafef00d")

	require.NoError(t, shallow.Save(path, set))

	got, err := shallow.Load(path)
	require.NoError(t, err)
	require.True(t, got.Has("deadbeef"))
	require.True(t, got.Has("cafef00d"))
	require.Len(t, got, 2)
}

func TestSaveWritesSortedDeduplicatedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shallow")
	set := shallow.Set{}
	set.Add("bbbb")
	set.Add("aaaa")

	require.NoError(t, shallow.Save(path, set))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "aaaa\nbbbb\n", string(contents))
}

func TestLoadSkipsBlankLinesAndTrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shallow")
	require.NoError(t, os.WriteFile(path, []byte("  deadbeef  \n\n\ncafef00d\n"), 0o644))

	got, err := shallow.Load(path)
	require.NoError(t, err)
	require.True(t, got.Has("deadbeef"))
	require.True(t, got.Has("cafef00d"))
	require.Len(t, got, 2)
}

func TestApplyShallowAndUnshallow(t *testing.T) {
	set := shallow.Set{}
	set.Add("old")

	set.Apply([]shallow.Delta{
		{Kind: shallow.BecameShallow, SHA: "new"},
		{Kind: shallow.BecameUnshallow, SHA: "old"},
	})

	require.True(t, set.Has("new"))
	require.False(t, set.Has("old"))
}

func TestApplyWithNoDeltasIsANoop(t *testing.T) {
	set := shallow.Set{}
	set.Add("keep")
	set.Apply(nil)
	require.True(t, set.Has("keep"))
	require.Len(t, set, 1)
}
