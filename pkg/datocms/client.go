// Package datocms provides the main entry point for creating DatoCMS API clients
package datocms

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/dato-client/internal/client"
	"github.com/fivetwenty-io/dato-client/internal/constants"
	"github.com/fivetwenty-io/dato-client/pkg/dato"
)

// New creates a new Content Management API client.
func New(ctx context.Context, config *dato.Config) (dato.Client, error) {
	normalized, err := normalizeConfig(config)
	if err != nil {
		return nil, err
	}

	client, err := client.New(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return client, nil
}

// NewDashboard creates a new Dashboard API client.
func NewDashboard(ctx context.Context, config *dato.Config) (dato.DashboardClient, error) {
	normalized, err := normalizeConfig(config)
	if err != nil {
		return nil, err
	}

	dashboard, err := client.NewDashboard(normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard client: %w", err)
	}

	return dashboard, nil
}

// NewWithToken creates a client for the primary environment with default settings.
func NewWithToken(ctx context.Context, token string) (dato.Client, error) {
	return New(ctx, &dato.Config{APIToken: token})
}

// NewWithEnvironment creates a client bound to a sandbox environment.
func NewWithEnvironment(ctx context.Context, token, environment string) (dato.Client, error) {
	return New(ctx, &dato.Config{APIToken: token, Environment: environment})
}

// normalizeConfig returns a copy of config with endpoints defaulted and normalized.
func normalizeConfig(config *dato.Config) (*dato.Config, error) {
	if config == nil {
		return nil, dato.ErrConfigRequired
	}

	if strings.TrimSpace(config.APIToken) == "" {
		return nil, dato.ErrAPITokenRequired
	}

	normalized := *config
	normalized.APIToken = strings.TrimSpace(config.APIToken)
	normalized.BaseURL = NormalizeEndpoint(config.BaseURL, constants.DefaultBaseURL)
	normalized.DashboardBaseURL = NormalizeEndpoint(config.DashboardBaseURL, constants.DefaultDashboardBaseURL)

	return &normalized, nil
}

// NormalizeEndpoint trims endpoint, defaults it to fallback when empty and
// adds an https scheme when it has none.
func NormalizeEndpoint(endpoint, fallback string) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return fallback
	}

	endpoint = strings.TrimRight(endpoint, "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return endpoint
}
