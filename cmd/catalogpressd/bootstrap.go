package main

import (
	"catalogpress/internal/api"
	"catalogpress/internal/config"
	"catalogpress/internal/contentrepo"
	"catalogpress/internal/deploy"
)

func buildRepository(cfg *config.Config) deploy.RepositoryClient {
	if cfg == nil {
		return nil
	}
	return contentrepo.New(cfg)
}

// buildAuthenticator wires the static API token from configuration. Token
// holders act as the daemon's reviewer identity; finer-grained identity
// management sits in front of the daemon, not inside it.
func buildAuthenticator(cfg *config.Config) api.Authenticator {
	if cfg == nil {
		return api.StaticTokenAuthenticator{}
	}
	return api.StaticTokenAuthenticator{
		Token: cfg.Paths.APIToken,
		Identity: deploy.Identity{
			ID:    "api-token",
			Name:  "API token holder",
			Admin: true,
		},
	}
}
