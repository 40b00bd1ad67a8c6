package repohost_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wanders/git-sleipnir/repohost"
)

// fakeRunner records every invocation and plays back a canned stdout per
// subcommand, standing in for the git binary so these tests don't depend
// on one being installed.
type fakeRunner struct {
	invocations []*repohost.Invocation
	stdoutFor   map[string]string
}

func (f *fakeRunner) RunGit(ctx context.Context, invoke *repohost.Invocation) error {
	f.invocations = append(f.invocations, invoke)
	if invoke.Stdin != nil {
		io.Copy(io.Discard, invoke.Stdin)
	}
	if len(invoke.Args) > 0 {
		if out, ok := f.stdoutFor[invoke.Args[0]]; ok && invoke.Stdout != nil {
			invoke.Stdout.Write([]byte(out))
		}
	}
	return nil
}

func TestInitCreatesDirectoryAndRunsGitInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "repo")
	runner := &fakeRunner{}

	h, err := repohost.Init(context.Background(), runner, dir)
	require.NoError(t, err)
	require.Equal(t, dir, h.Path())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())

	require.Len(t, runner.invocations, 1)
	require.Equal(t, []string{"init"}, runner.invocations[0].Args)
	require.Equal(t, dir, runner.invocations[0].Dir)
}

func TestInitFailsIfDirectoryExists(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "repo")
	require.NoError(t, os.Mkdir(existing, 0o755))

	_, err := repohost.Init(context.Background(), &fakeRunner{}, existing)
	var direxists *repohost.DirectoryExistsError
	require.ErrorAs(t, err, &direxists)
}

func TestUpdateRefAndHead(t *testing.T) {
	runner := &fakeRunner{}
	h := repohost.Open(runner, "/repo")

	require.NoError(t, h.UpdateRef(context.Background(), "refs/heads/main", "deadbeef"))
	require.NoError(t, h.UpdateHead(context.Background(), "refs/heads/main"))

	require.Equal(t, []string{"update-ref", "refs/heads/main", "deadbeef"}, runner.invocations[0].Args)
	require.Equal(t, []string{"symbolic-ref", "HEAD", "refs/heads/main"}, runner.invocations[1].Args)
}

func TestRevListParsesLines(t *testing.T) {
	runner := &fakeRunner{stdoutFor: map[string]string{
		"rev-list": "deadbeef\ncafef00d\n",
	}}
	h := repohost.Open(runner, "/repo")

	commits, err := h.RevList(context.Background(), "deadbeef")
	require.NoError(t, err)
	require.Equal(t, []string{"deadbeef", "cafef00d"}, commits)
}

func TestIndexPackFeedsStdin(t *testing.T) {
	runner := &fakeRunner{}
	h := repohost.Open(runner, "/repo")

	require.NoError(t, h.IndexPack(context.Background(), bytes.NewReader([]byte("PACK..."))))
	require.Equal(t, []string{"index-pack", "--stdin", "-v"}, runner.invocations[0].Args)
}

func TestUpdateShallowFileWithNoDeltasLeavesSetEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))

	h := repohost.Open(&fakeRunner{}, dir)
	require.NoError(t, h.UpdateShallowFile(nil))

	set, err := h.ShallowShas()
	require.NoError(t, err)
	require.Empty(t, set)
}
