package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wanders/git-sleipnir/branchfallback"
	"github.com/wanders/git-sleipnir/clone"
)

var (
	cloneBaseURL              string
	cloneBranchesStartingWith string
	cloneTagsStartingWith     string
	cloneBranch               string
	cloneFallbacks            []string
	cloneDefaultBranch        string
	cloneTagOutputFile        string
)

var cloneCmd = &cobra.Command{
	Use:   "clone <url>...",
	Short: "Clone a single branch of one or more repositories, as shallowly as possible",
	Long: `clone resolves --branch (falling back through --branch-fallback rules,
then --default-branch) against each repository's advertised branches,
then fetches just enough history to reach a tag, deepening only as far
as needed.

--branch-fallback rules have the form <d>pattern<d>replacement<d>, where
<d> is any character chosen as the delimiter, e.g.:

  --branch-fallback '/^(release-\d+)(-.*)?$/$1/'

They're tried in order, breadth-first, against shorter and shorter
rewrites of the requested branch name, until one matches a branch the
remote actually advertises.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		rules, err := branchfallback.ParseAll(cloneFallbacks)
		if err != nil {
			return err
		}

		urls, err := clone.ResolveURLs(cloneBaseURL, args)
		if err != nil {
			return err
		}

		logger := newLogger()
		opts := clone.Options{
			BranchesStartingWith: cloneBranchesStartingWith,
			TagsStartingWith:     cloneTagsStartingWith,
			Branch:               cloneBranch,
			Fallbacks:            rules,
			DefaultBranch:        cloneDefaultBranch,
			Logger:               logger,
			ClientOptions:        buildClientOptions(logger),
		}

		result, err := clone.Many(context.Background(), urls, opts)
		if err != nil {
			return err
		}

		if cloneTagOutputFile != "" {
			if !result.HasTag {
				return fmt.Errorf("clone: no tags found across %d repositories, cannot write %s", len(urls), cloneTagOutputFile)
			}
			if err := os.WriteFile(cloneTagOutputFile, []byte(result.MinTag), 0o644); err != nil {
				return fmt.Errorf("clone: writing tag output file: %w", err)
			}
			logger.Debug("wrote tag output file", "path", cloneTagOutputFile, "tag", result.MinTag)
		}
		return nil
	},
}

func init() {
	cloneCmd.Flags().StringVar(&cloneBaseURL, "base-url", "", "base URL relative repository URLs are resolved against")
	cloneCmd.Flags().StringVar(&cloneBranchesStartingWith, "branches-starting-with", "", "restrict listed branches to this prefix")
	cloneCmd.Flags().StringVar(&cloneTagsStartingWith, "tags-starting-with", "", "restrict listed tags to this prefix")
	cloneCmd.Flags().StringVar(&cloneBranch, "branch", "", "branch to clone")
	cloneCmd.Flags().StringArrayVar(&cloneFallbacks, "branch-fallback", nil, "rewrite rule tried when --branch isn't found, repeatable")
	cloneCmd.Flags().StringVar(&cloneDefaultBranch, "default-branch", "", "branch to use if --branch and fallbacks resolve to nothing")
	cloneCmd.Flags().StringVar(&cloneTagOutputFile, "tag-output-file", "", "file to write the lowest resolved tag across all repositories to")
	cloneCmd.MarkFlagRequired("branch")
	rootCmd.AddCommand(cloneCmd)
}
