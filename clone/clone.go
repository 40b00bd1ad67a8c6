// Package clone orchestrates a shallow, tag-aware clone of a single
// branch from a Smart-HTTP v2 remote: list refs, negotiate a
// progressively deeper fetch until a tagged commit is reachable, and
// promote the tags that became reachable into the local repository.
package clone

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/wanders/git-sleipnir/branchfallback"
	"github.com/wanders/git-sleipnir/gitclient"
	"github.com/wanders/git-sleipnir/log"
	"github.com/wanders/git-sleipnir/natorder"
	"github.com/wanders/git-sleipnir/refs"
	"github.com/wanders/git-sleipnir/repohost"
)

// deepenStep is how many additional commits are requested on every
// iteration of the deepening loop when no tagged commit has been found
// yet.
const deepenStep = 50

// Options configures a single repository clone.
type Options struct {
	// BranchesStartingWith restricts the ls-refs branch prefix; empty
	// means "refs/heads/" (every branch).
	BranchesStartingWith string
	// TagsStartingWith restricts the ls-refs tag prefix; empty means
	// "refs/tags/" (every tag).
	TagsStartingWith string
	// Branch is the branch name to resolve, before fallback rules.
	Branch string
	// Fallbacks are tried in order whenever Branch (or a prior
	// fallback's result) isn't directly available.
	Fallbacks []branchfallback.Rule
	// DefaultBranch is tried if Branch can't be resolved via Fallbacks.
	DefaultBranch string

	// Runner spawns the local git subprocess; a *repohost.Local if nil.
	Runner repohost.Runner
	// ClientOptions configures the HTTP client used to talk to the
	// remote (auth, logger, user agent).
	ClientOptions []gitclient.Option
	// Logger receives progress messages about the clone itself (branch
	// resolution, deepening); log.Noop if nil.
	Logger log.Logger
}

// ErrNoSuitableBranch is returned when neither Branch, any Fallbacks
// result, nor DefaultBranch resolves to an advertised branch.
var ErrNoSuitableBranch = errors.New("clone: no suitable branch found")

// Result is the outcome of cloning one repository.
type Result struct {
	// LocalPath is the directory the repository was cloned into.
	LocalPath string
	// Branch is the full ref name (e.g. "refs/heads/main") of the
	// resolved branch that was checked out.
	Branch string
	// MaxTag is the greatest (in natural order) tag that became
	// reachable from the cloned branch, if any.
	MaxTag string
	// HasTag reports whether any tag became reachable.
	HasTag bool
}

func wantedRefPrefixes(opts Options) []string {
	heads := "refs/heads/"
	if opts.BranchesStartingWith != "" {
		heads += opts.BranchesStartingWith
	}
	tags := "refs/tags/"
	if opts.TagsStartingWith != "" {
		tags += opts.TagsStartingWith
	}
	return []string{heads, tags}
}

// localDirFromURL derives the local clone directory from a remote URL's
// last path segment, stripping a trailing ".git".
func localDirFromURL(u *url.URL) string {
	base := path.Base(u.Path)
	return strings.TrimSuffix(base, ".git")
}

func resolveBranch(target string, fallbacks []branchfallback.Rule, defaultBranch string, available map[string]refs.Info) (refs.Info, bool) {
	if name, ok := branchfallback.Resolve(target, fallbacks, available); ok {
		return available[name], true
	}
	if defaultBranch != "" {
		if info, ok := available[defaultBranch]; ok {
			return info, true
		}
	}
	return refs.Info{}, false
}

// One clones a single repository from remoteURL into a freshly created
// directory, relative to the current working directory and named after
// the URL's final path segment,
// and returns the branch it checked out and the tags that became
// reachable from it.
func One(ctx context.Context, remoteURL string, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Noop
	}

	u, err := url.Parse(remoteURL)
	if err != nil {
		return Result{}, fmt.Errorf("clone: parsing url %q: %w", remoteURL, err)
	}

	client, err := gitclient.New(remoteURL, opts.ClientOptions...)
	if err != nil {
		return Result{}, err
	}

	localDir := localDirFromURL(u)

	runner := opts.Runner
	if runner == nil {
		runner = &repohost.Local{}
	}
	host, err := repohost.Init(ctx, runner, localDir)
	if err != nil {
		return Result{}, err
	}

	allRefs, err := client.LsRefs(ctx, wantedRefPrefixes(opts))
	if err != nil {
		return Result{}, err
	}

	taggedCommits := make(map[string]struct{})
	availableBranches := make(map[string]refs.Info)
	for _, r := range allRefs {
		if r.IsPeeled {
			taggedCommits[r.Peeled] = struct{}{}
		}
		if name, ok := r.BranchName(); ok {
			availableBranches[name] = r
		}
	}

	branch, ok := resolveBranch(opts.Branch, opts.Fallbacks, opts.DefaultBranch, availableBranches)
	if !ok {
		return Result{}, ErrNoSuitableBranch
	}
	logger.Info("using branch", "refname", branch.Name, "sha", branch.SHA)

	commits, err := deepenUntilTagged(ctx, client, host, branch, taggedCommits, logger)
	if err != nil {
		return Result{}, err
	}

	interesting := make(map[string]struct{}, len(commits))
	for _, c := range commits {
		interesting[c] = struct{}{}
	}

	var reachableTags []string
	for _, r := range allRefs {
		tagName, isTag := r.TagName()
		if !isTag || !r.IsPeeled {
			continue
		}
		if _, ok := interesting[r.Peeled]; !ok {
			continue
		}
		if err := host.UpdateRef(ctx, r.Name, r.SHA); err != nil {
			return Result{}, err
		}
		reachableTags = append(reachableTags, tagName)
	}

	if err := host.CheckoutHead(ctx); err != nil {
		return Result{}, err
	}

	result := Result{LocalPath: localDir, Branch: branch.Name}
	if maxTag, ok := natorder.Max(reachableTags); ok {
		result.MaxTag = maxTag
		result.HasTag = true
	}
	return result, nil
}

// deepenUntilTagged repeatedly fetches a growing history from branch.SHA
// until a commit reachable from it is also a known tagged commit. It
// returns early only on an error (including one caused by the caller
// cancelling ctx): there is no bound on how far it will deepen.
func deepenUntilTagged(ctx context.Context, client *gitclient.Client, host *repohost.Host, branch refs.Info, taggedCommits map[string]struct{}, logger log.Logger) ([]string, error) {
	depth := 1
	for {
		shallowSHAs, err := host.ShallowShas()
		if err != nil {
			return nil, err
		}
		shallowList := make([]string, 0, len(shallowSHAs))
		for sha := range shallowSHAs {
			shallowList = append(shallowList, sha)
		}

		stdin, wait, err := host.IndexPackWriter(ctx)
		if err != nil {
			return nil, err
		}

		fetchResult, fetchErr := client.Fetch(ctx, branch.SHA, shallowList, depth, stdin)
		stdin.Close()
		indexErr := wait()
		if fetchErr != nil {
			return nil, fetchErr
		}
		if indexErr != nil {
			return nil, indexErr
		}

		if err := host.UpdateShallowFile(fetchResult.ShallowDeltas); err != nil {
			return nil, err
		}
		if err := host.UpdateRef(ctx, branch.Name, branch.SHA); err != nil {
			return nil, err
		}
		if err := host.UpdateHead(ctx, branch.Name); err != nil {
			return nil, err
		}

		commits, err := host.RevList(ctx, branch.SHA)
		if err != nil {
			return nil, err
		}
		for _, c := range commits {
			if _, ok := taggedCommits[c]; ok {
				return commits, nil
			}
		}

		depth += deepenStep
		logger.Info("could not find tag in shallow clone, deepening", "depth", depth)
	}
}
