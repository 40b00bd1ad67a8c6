// Package cmd wires up the git-sleipnir command-line surface: clone and
// find-branch subcommands over a shallow, tag-aware Smart-HTTP v2 client.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/wanders/git-sleipnir/gitclient"
	"github.com/wanders/git-sleipnir/log"
)

var (
	token    string
	username string
	password string
	debug    bool
)

var rootCmd = &cobra.Command{
	Use:   "git-sleipnir",
	Short: "A shallow, tag-aware Git client for Smart-HTTP v2 remotes",
	Long: `git-sleipnir clones a single branch of a remote repository as
shallowly as possible while still bringing along any tag reachable from
that branch, growing the shallow history only as far as needed.

Authentication can be provided via flags or the GIT_SLEIPNIR_TOKEN /
GIT_SLEIPNIR_USERNAME / GIT_SLEIPNIR_PASSWORD environment variables, or
embedded directly in a repository URL.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "bearer authentication token")
	rootCmd.PersistentFlags().StringVar(&username, "username", "", "username for basic auth")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "password for basic auth")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func newLogger() log.Logger {
	level := levelInfo
	if debug {
		level = levelDebug
	}
	return &stderrLogger{level: level}
}

func credentialsFromEnv() (u, p string) {
	u = os.Getenv("GIT_SLEIPNIR_USERNAME")
	p = os.Getenv("GIT_SLEIPNIR_PASSWORD")
	return
}

func resolvedUsername() string {
	if username != "" {
		return username
	}
	u, _ := credentialsFromEnv()
	return u
}

func resolvedPassword() string {
	if password != "" {
		return password
	}
	_, p := credentialsFromEnv()
	return p
}

func resolvedToken() string {
	if token != "" {
		return token
	}
	return os.Getenv("GIT_SLEIPNIR_TOKEN")
}

// buildClientOptions assembles the gitclient.Options shared by every
// subcommand that talks to a remote: the logger plus whichever
// authentication was configured, token taking precedence over basic
// auth when both are present.
func buildClientOptions(logger log.Logger) []gitclient.Option {
	opts := []gitclient.Option{gitclient.WithLogger(logger), gitclient.WithUserAgent("git-sleipnir/0")}
	if t := resolvedToken(); t != "" {
		opts = append(opts, gitclient.WithAuthToken(t))
	} else if u := resolvedUsername(); u != "" {
		opts = append(opts, gitclient.WithBasicAuth(u, resolvedPassword()))
	}
	return opts
}

