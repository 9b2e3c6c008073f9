// Package auth resolves the GitHub token used for gist calls.
// Sources are consulted in a fixed priority order and the first non-empty
// value wins.
package auth

import (
	"fmt"
	"os"
	"strings"

	ghauth "github.com/cli/go-gh/v2/pkg/auth"
)

// Source indicates where a token was found
type Source string

const (
	SourceFlag   Source = "flag"
	SourceEnv    Source = "env"
	SourceConfig Source = "config"
	SourceCLI    Source = "cli"
	SourceNone   Source = "none"
)

// TokenEnvVars are checked in order. VITE_GITHUB_TOKEN keeps .env files
// written for the web app working unchanged.
var TokenEnvVars = []string{
	"GISTVAULT_TOKEN",
	"GITHUB_TOKEN",
	"GH_TOKEN",
	"VITE_GITHUB_TOKEN",
}

// Result contains the resolved token and its source
type Result struct {
	Token  string
	Source Source
	Name   string // The specific source name (e.g., "GITHUB_TOKEN", "cli:github.com")
}

// Found reports whether a token was resolved.
func (r *Result) Found() bool {
	return r != nil && r.Token != ""
}

// TokenProvider is a function that attempts to provide a token.
// Returns the token and source name if found, or empty string if not available.
// Returns an error only for unexpected failures (not for missing token).
type TokenProvider func() (token string, sourceName string, err error)

// Resolver resolves tokens from multiple sources in priority order
type Resolver struct {
	providers   []TokenProvider
	serviceName string
	helpMessage string
	optional    bool
}

// NewResolver creates a new token resolver for a service
func NewResolver(serviceName string) *Resolver {
	return &Resolver{
		serviceName: serviceName,
		providers:   make([]TokenProvider, 0),
	}
}

// NewGitHubResolver builds the standard chain: flag, environment, config
// file, then the gh CLI's stored credentials for host. The chain is optional:
// an unresolved token is reported as SourceNone rather than an error.
func NewGitHubResolver(flagToken, configToken, host string) *Resolver {
	return NewResolver("GitHub").
		WithFlagValue(flagToken).
		WithEnvs(TokenEnvVars...).
		WithConfigValue(configToken).
		WithGHCLI(host).
		Optional()
}

// WithFlagValue adds a flag value directly (highest priority)
func (r *Resolver) WithFlagValue(value string) *Resolver {
	r.providers = append(r.providers, func() (string, string, error) {
		if value != "" {
			return value, "flag", nil
		}
		return "", "", nil
	})
	return r
}

// WithEnv adds an environment variable as a token source
func (r *Resolver) WithEnv(envVar string) *Resolver {
	r.providers = append(r.providers, func() (string, string, error) {
		if token := strings.TrimSpace(os.Getenv(envVar)); token != "" {
			return token, envVar, nil
		}
		return "", "", nil
	})
	return r
}

// WithEnvs adds multiple environment variables as token sources (checked in order)
func (r *Resolver) WithEnvs(envVars ...string) *Resolver {
	for _, envVar := range envVars {
		r.WithEnv(envVar)
	}
	return r
}

// WithConfigValue adds a token read from the config file
func (r *Resolver) WithConfigValue(value string) *Resolver {
	r.providers = append(r.providers, func() (string, string, error) {
		if value != "" {
			return value, "config", nil
		}
		return "", "", nil
	})
	return r
}

// WithGHCLI adds the gh CLI's stored token for host (keyring or hosts.yml)
func (r *Resolver) WithGHCLI(host string) *Resolver {
	if host == "" {
		host = "github.com"
	}

	r.providers = append(r.providers, func() (string, string, error) {
		if token, _ := ghauth.TokenForHost(host); token != "" {
			return token, "cli:" + host, nil
		}
		return "", "", nil
	})
	return r
}

// WithProvider adds a custom token provider
func (r *Resolver) WithProvider(provider TokenProvider) *Resolver {
	r.providers = append(r.providers, provider)
	return r
}

// WithHelpMessage sets the help message shown when no token is found
func (r *Resolver) WithHelpMessage(msg string) *Resolver {
	r.helpMessage = msg
	return r
}

// Optional makes Resolve return an empty SourceNone result instead of an
// error when no provider has a token.
func (r *Resolver) Optional() *Resolver {
	r.optional = true
	return r
}

// Resolve attempts to find a token from all configured sources in order.
func (r *Resolver) Resolve() (*Result, error) {
	for _, provider := range r.providers {
		token, sourceName, err := provider()
		if err != nil {
			return nil, fmt.Errorf("token provider error: %w", err)
		}
		if token != "" {
			return &Result{
				Token:  token,
				Source: categorizeSource(sourceName),
				Name:   sourceName,
			}, nil
		}
	}

	if r.optional {
		return &Result{Source: SourceNone, Name: string(SourceNone)}, nil
	}

	if r.helpMessage != "" {
		return nil, fmt.Errorf("%s token required\n\n%s", r.serviceName, r.helpMessage)
	}
	return nil, fmt.Errorf("%s token required", r.serviceName)
}

// categorizeSource determines the Source category from a source name
func categorizeSource(name string) Source {
	switch {
	case name == "flag":
		return SourceFlag
	case strings.HasPrefix(name, "cli"):
		return SourceCLI
	case name == "config":
		return SourceConfig
	case strings.Contains(name, "_") || strings.Contains(name, "TOKEN"):
		return SourceEnv
	default:
		return SourceNone
	}
}
