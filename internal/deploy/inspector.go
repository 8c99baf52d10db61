package deploy

import (
	"context"

	"catalogpress/internal/catalog"
	"catalogpress/internal/config"
)

// Inspector is the read-side companion to the deployer: it fetches and
// decodes the current canonical record for tooling, with the same error
// classification as deployment.
type Inspector struct {
	repo       RepositoryClient
	contentDir string
	extension  string
}

// NewInspector builds an inspector over the given repository client.
func NewInspector(repo RepositoryClient, cfg *config.Config) *Inspector {
	return &Inspector{
		repo:       repo,
		contentDir: cfg.Upstream.ContentDir,
		extension:  cfg.Upstream.FileExtension,
	}
}

// Record returns the current canonical record for targetID and the revision
// it was read at.
func (i *Inspector) Record(ctx context.Context, targetID string) (catalog.Record, string, error) {
	path, err := catalog.PathFor(i.contentDir, targetID, i.extension)
	if err != nil {
		return nil, "", err
	}
	state, err := i.repo.Fetch(ctx, path)
	if err != nil {
		return nil, "", err
	}
	record, err := catalog.Decode(state.Content)
	if err != nil {
		return nil, "", err
	}
	return record, state.Revision, nil
}
