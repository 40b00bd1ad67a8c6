package clone

import (
	"context"
	"fmt"
	"net/url"

	"github.com/wanders/git-sleipnir/gitclient"
	"github.com/wanders/git-sleipnir/log"
	"github.com/wanders/git-sleipnir/natorder"
)

// ResolveURLs parses each of raw as an absolute URL, falling back to
// resolving it against base when it isn't one itself. A relative URL
// with no base given is an error.
func ResolveURLs(base string, raw []string) ([]string, error) {
	var baseURL *url.URL
	if base != "" {
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("clone: parsing --base-url %q: %w", base, err)
		}
		baseURL = u
	}

	resolved := make([]string, 0, len(raw))
	for _, s := range raw {
		if u, err := url.Parse(s); err == nil && u.IsAbs() {
			resolved = append(resolved, u.String())
			continue
		}
		if baseURL == nil {
			return nil, fmt.Errorf("clone: relative URL %q requires --base-url", s)
		}
		ref, err := url.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("clone: parsing url %q: %w", s, err)
		}
		resolved = append(resolved, baseURL.ResolveReference(ref).String())
	}
	return resolved, nil
}

// ManyResult is the outcome of cloning a batch of repositories.
type ManyResult struct {
	// Repos holds one Result per URL, in the order given.
	Repos []Result
	// MinTag is the least (in natural order) MaxTag across every
	// repository that had one.
	MinTag string
	// HasTag reports whether any repository had a tag at all.
	HasTag bool
}

// Many clones every URL in turn (never concurrently: each repository's
// deepening loop depends on its own local working directory), logging
// a masked form of each URL before cloning it.
func Many(ctx context.Context, urls []string, opts Options) (ManyResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Noop
	}

	var out ManyResult
	var maxTags []string

	for _, u := range urls {
		masked, err := maskedURL(u)
		if err != nil {
			return out, err
		}
		logger.Info("cloning repository", "url", masked)

		result, err := One(ctx, u, opts)
		if err != nil {
			return out, fmt.Errorf("clone: %s: %w", masked, err)
		}
		out.Repos = append(out.Repos, result)
		if result.HasTag {
			maxTags = append(maxTags, result.MaxTag)
			logger.Info("cloned repository", "url", masked, "tag", result.MaxTag)
		} else {
			logger.Info("cloned repository", "url", masked)
		}
	}

	if minTag, ok := natorder.Min(maxTags); ok {
		out.MinTag = minTag
		out.HasTag = true
	}
	return out, nil
}

func maskedURL(raw string) (string, error) {
	c, err := gitclient.New(raw)
	if err != nil {
		return "", err
	}
	return c.MaskedURL(), nil
}
