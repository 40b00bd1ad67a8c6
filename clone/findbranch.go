package clone

import (
	"context"

	"github.com/wanders/git-sleipnir/branchfallback"
	"github.com/wanders/git-sleipnir/gitclient"
	"github.com/wanders/git-sleipnir/refs"
)

// FindBranchOptions configures a read-only branch resolution against a
// remote, without cloning anything.
type FindBranchOptions struct {
	BranchesStartingWith string
	Branch               string
	Fallbacks            []branchfallback.Rule
	DefaultBranch        string
	ClientOptions        []gitclient.Option
}

// FindBranch resolves opts.Branch (applying Fallbacks, then
// DefaultBranch) against the branches advertised by repoURL and returns
// its short name.
func FindBranch(ctx context.Context, repoURL string, opts FindBranchOptions) (string, error) {
	client, err := gitclient.New(repoURL, opts.ClientOptions...)
	if err != nil {
		return "", err
	}

	wantedRef := "refs/heads/"
	if opts.BranchesStartingWith != "" {
		wantedRef += opts.BranchesStartingWith
	}

	allRefs, err := client.LsRefs(ctx, []string{wantedRef})
	if err != nil {
		return "", err
	}

	available := make(map[string]refs.Info)
	for _, r := range allRefs {
		if name, ok := r.BranchName(); ok {
			available[name] = r
		}
	}

	branch, ok := resolveBranch(opts.Branch, opts.Fallbacks, opts.DefaultBranch, available)
	if !ok {
		return "", ErrNoSuitableBranch
	}
	name, _ := branch.BranchName()
	return name, nil
}
