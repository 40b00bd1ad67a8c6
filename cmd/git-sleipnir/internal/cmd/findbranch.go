package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wanders/git-sleipnir/branchfallback"
	"github.com/wanders/git-sleipnir/clone"
)

var (
	findBranchBranchesStartingWith string
	findBranchBranch               string
	findBranchFallbacks            []string
	findBranchDefaultBranch        string
)

var findBranchCmd = &cobra.Command{
	Use:   "find-branch <url>",
	Short: "Resolve --branch against a remote's advertised branches without cloning",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		rules, err := branchfallback.ParseAll(findBranchFallbacks)
		if err != nil {
			return err
		}

		logger := newLogger()
		name, err := clone.FindBranch(context.Background(), args[0], clone.FindBranchOptions{
			BranchesStartingWith: findBranchBranchesStartingWith,
			Branch:               findBranchBranch,
			Fallbacks:            rules,
			DefaultBranch:        findBranchDefaultBranch,
			ClientOptions:        buildClientOptions(logger),
		})
		if err != nil {
			return err
		}
		fmt.Println(name)
		return nil
	},
}

func init() {
	findBranchCmd.Flags().StringVar(&findBranchBranchesStartingWith, "branches-starting-with", "", "restrict listed branches to this prefix")
	findBranchCmd.Flags().StringVar(&findBranchBranch, "branch", "", "branch to resolve")
	findBranchCmd.Flags().StringArrayVar(&findBranchFallbacks, "branch-fallback", nil, "rewrite rule tried when --branch isn't found, repeatable")
	findBranchCmd.Flags().StringVar(&findBranchDefaultBranch, "default-branch", "", "branch to use if --branch and fallbacks resolve to nothing")
	findBranchCmd.MarkFlagRequired("branch")
	rootCmd.AddCommand(findBranchCmd)
}
