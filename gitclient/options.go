package gitclient

import (
	"net/http"

	"github.com/wanders/git-sleipnir/log"
)

type config struct {
	httpClient *http.Client
	userAgent  string
	logger     log.Logger
	basicAuth  *basicAuth
	authToken  string
}

type basicAuth struct {
	username, password string
}

// Option configures a Client constructed by New.
type Option func(*config) error

// WithHTTPClient overrides the default *http.Client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *config) error {
		cfg.httpClient = c
		return nil
	}
}

// WithUserAgent overrides the default User-Agent / agent= capability
// value sent with every request.
func WithUserAgent(agent string) Option {
	return func(cfg *config) error {
		cfg.userAgent = agent
		return nil
	}
}

// WithLogger attaches a logger used for progress and diagnostic
// messages surfaced by the remote during a fetch.
func WithLogger(l log.Logger) Option {
	return func(cfg *config) error {
		cfg.logger = l
		return nil
	}
}

// WithBasicAuth configures HTTP basic authentication credentials.
func WithBasicAuth(username, password string) Option {
	return func(cfg *config) error {
		cfg.basicAuth = &basicAuth{username: username, password: password}
		return nil
	}
}

// WithAuthToken sets a bearer token sent as the Authorization header.
// It takes precedence over WithBasicAuth when both are set.
func WithAuthToken(token string) Option {
	return func(cfg *config) error {
		cfg.authToken = token
		return nil
	}
}

func newConfig(opts []Option) (*config, error) {
	cfg := &config{
		httpClient: &http.Client{},
		userAgent:  "git-sleipnir/0",
		logger:     log.Noop,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
