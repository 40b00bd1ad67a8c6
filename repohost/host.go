package repohost

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/wanders/git-sleipnir/shallow"
)

// DirectoryExistsError is returned by Init when the target directory is
// already present.
type DirectoryExistsError struct {
	Path string
}

func (e *DirectoryExistsError) Error() string {
	return fmt.Sprintf("repohost: directory already exists: %s", e.Path)
}

// DirectoryCreateError wraps an I/O failure while creating the target
// directory (anything other than it already existing).
type DirectoryCreateError struct {
	Path       string
	Underlying error
}

func (e *DirectoryCreateError) Error() string {
	return fmt.Sprintf("repohost: creating directory %s: %v", e.Path, e.Underlying)
}

func (e *DirectoryCreateError) Unwrap() error { return e.Underlying }

// Host adapts a single local repository directory to git subprocess
// operations.
type Host struct {
	runner Runner
	path   string
}

// Init creates a fresh directory at path and runs "git init" in it. It
// returns *DirectoryExistsError if path already exists.
func Init(ctx context.Context, runner Runner, path string) (*Host, error) {
	if err := os.Mkdir(path, 0o755); err != nil {
		if os.IsExist(err) {
			return nil, &DirectoryExistsError{Path: path}
		}
		return nil, &DirectoryCreateError{Path: path, Underlying: err}
	}

	h := &Host{runner: runner, path: path}
	if err := h.run(ctx, nil, nil, "init"); err != nil {
		return nil, err
	}
	return h, nil
}

// Open wraps an existing repository directory without creating or
// initializing anything.
func Open(runner Runner, path string) *Host {
	return &Host{runner: runner, path: path}
}

// Path returns the repository's working directory.
func (h *Host) Path() string { return h.path }

func (h *Host) run(ctx context.Context, stdin io.Reader, stdout io.Writer, args ...string) error {
	var stderr bytes.Buffer
	err := h.runner.RunGit(ctx, &Invocation{
		Args:   args,
		Dir:    h.path,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: &stderr,
	})
	if err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("%w: %s", err, bytes.TrimSpace(stderr.Bytes()))
		}
		return err
	}
	return nil
}

// ShallowShas returns the current shallow-boundary commit ids, read from
// .git/shallow. A repository with no such file simply isn't shallow.
func (h *Host) ShallowShas() (shallow.Set, error) {
	return shallow.Load(shallow.PathFor(h.path))
}

// UpdateShallowFile applies deltas to the current shallow set and
// persists the result, unconditionally (even when deltas is empty),
// matching what the remote reports after every fetch.
func (h *Host) UpdateShallowFile(deltas []shallow.Delta) error {
	set, err := h.ShallowShas()
	if err != nil {
		return err
	}
	set.Apply(deltas)
	return shallow.Save(shallow.PathFor(h.path), set)
}

// UpdateRef sets refname to point at sha.
func (h *Host) UpdateRef(ctx context.Context, refname, sha string) error {
	return h.run(ctx, nil, nil, "update-ref", refname, sha)
}

// UpdateHead points the symbolic HEAD ref at refname.
func (h *Host) UpdateHead(ctx context.Context, refname string) error {
	return h.run(ctx, nil, nil, "symbolic-ref", "HEAD", refname)
}

// CheckoutHead populates the working tree from the current HEAD.
func (h *Host) CheckoutHead(ctx context.Context) error {
	return h.run(ctx, nil, nil, "checkout", "HEAD")
}

// RevList returns the commit ids reachable from sha, consumed line by
// line from "git rev-list" stdout as the subprocess produces them rather
// than buffered in full once it exits.
func (h *Host) RevList(ctx context.Context, sha string) ([]string, error) {
	pr, pw := io.Pipe()
	go func() {
		err := h.run(ctx, nil, pw, "rev-list", sha)
		pw.CloseWithError(err)
	}()

	var commits []string
	scanner := bufio.NewScanner(pr)
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			commits = append(commits, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return commits, nil
}

// IndexPack feeds pack's bytes to "git index-pack --stdin -v", which
// validates the packfile and writes it into the object database.
func (h *Host) IndexPack(ctx context.Context, pack io.Reader) error {
	return h.run(ctx, pack, nil, "index-pack", "--stdin", "-v")
}

// IndexPackWriter starts "git index-pack --stdin -v" and returns a pipe
// to write the packfile into as it's received, plus a Wait function that
// must be called exactly once after closing the pipe to reap the
// subprocess and learn whether it succeeded. This lets a caller stream
// pack bytes straight from an HTTP response into the subprocess without
// buffering the whole packfile in memory first.
func (h *Host) IndexPackWriter(ctx context.Context) (stdin io.WriteCloser, wait func() error, err error) {
	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() {
		done <- h.IndexPack(ctx, pr)
	}()
	return pw, func() error { return <-done }, nil
}
