package main

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/bcfl/predict/internal/config"
	"github.com/bcfl/predict/internal/logger"
	"github.com/bcfl/predict/internal/remote"
)

// backendFlags are shared by every command that talks to the backend.
type backendFlags struct {
	endpoint string
	token    string
	link     string
}

// loadConfig loads configuration, applies the endpoint override and
// configures logging. The endpoint is validated only when required.
func loadConfig(endpoint string, requireEndpoint bool) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}

	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}
	if dotenvErr != nil {
		logger.Warn("Failed to load .env: %v", dotenvErr)
		dotenvErr = nil
	}

	if requireEndpoint {
		if err := cfg.Validate(); err != nil {
			if errors.Is(err, config.ErrNoEndpoint) {
				return nil, fmt.Errorf("%w\n\nRun 'bcfl setup --endpoint URL' or set BCFL_ENDPOINT", err)
			}
			return nil, err
		}
	}
	return cfg, nil
}

// statusError reports the status line shown to the user while keeping the
// cause available to errors.Is and errors.As.
func statusError(status string, err error) error {
	logger.Debug("Request failed: %v", err)
	return fmt.Errorf("%s: %w", status, err)
}

func newClient(cfg *config.Config) *remote.Client {
	return remote.NewClient(cfg.Endpoint, remote.WithTimeout(cfg.Timeout))
}

// resolveToken returns the token given directly or the token query
// parameter of a magic link. Both empty yields "".
func resolveToken(token, link string) (string, error) {
	token = strings.TrimSpace(token)
	link = strings.TrimSpace(link)
	if token != "" && link != "" {
		return "", errors.New("use either --token or --link, not both")
	}
	if link == "" {
		return token, nil
	}

	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("invalid link: %w", err)
	}
	token = u.Query().Get("token")
	if token == "" {
		return "", fmt.Errorf("link has no token parameter: %s", link)
	}
	return token, nil
}
