package testsupport

import (
	"context"
	"fmt"
	"sync"

	"catalogpress/internal/contentrepo"
	"catalogpress/internal/services"
)

// FakeCommit records one commit accepted by the fake repository.
type FakeCommit struct {
	Path          string
	Content       []byte
	Message       string
	PriorRevision string
	Revision      string
}

// FakeRepository is an in-memory stand-in for the content repository client,
// with injectable failures for orchestrator tests.
type FakeRepository struct {
	mu        sync.Mutex
	files     map[string]contentrepo.FileState
	commits   []FakeCommit
	revisions int

	FetchErr  error
	CommitErr error
}

// NewFakeRepository seeds a fake repository with the provided files.
func NewFakeRepository(files map[string]string) *FakeRepository {
	repo := &FakeRepository{files: make(map[string]contentrepo.FileState)}
	for path, content := range files {
		repo.revisions++
		repo.files[path] = contentrepo.FileState{
			Content:  []byte(content),
			Revision: fmt.Sprintf("rev-%d", repo.revisions),
		}
	}
	return repo
}

// Fetch returns the seeded content for path or a not-found classification.
func (r *FakeRepository) Fetch(ctx context.Context, path string) (contentrepo.FileState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FetchErr != nil {
		return contentrepo.FileState{}, r.FetchErr
	}
	state, ok := r.files[path]
	if !ok {
		return contentrepo.FileState{}, services.Wrap(services.ErrNotFound, "contentrepo", "fetch", path, nil)
	}
	return state, nil
}

// Commit stores new content under path and returns a fresh revision.
func (r *FakeRepository) Commit(ctx context.Context, path string, content []byte, message, priorRevision string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CommitErr != nil {
		return "", r.CommitErr
	}
	if priorRevision != "" {
		if current, ok := r.files[path]; ok && current.Revision != priorRevision {
			return "", services.Wrap(services.ErrConflict, "contentrepo", "commit", path, nil)
		}
	}
	r.revisions++
	revision := fmt.Sprintf("rev-%d", r.revisions)
	r.files[path] = contentrepo.FileState{Content: content, Revision: revision}
	r.commits = append(r.commits, FakeCommit{
		Path:          path,
		Content:       content,
		Message:       message,
		PriorRevision: priorRevision,
		Revision:      revision,
	})
	return revision, nil
}

// Commits returns the commits accepted so far.
func (r *FakeRepository) Commits() []FakeCommit {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]FakeCommit, len(r.commits))
	copy(out, r.commits)
	return out
}

// FileContent returns the current content stored at path.
func (r *FakeRepository) FileContent(path string) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.files[path]
	if !ok {
		return nil, false
	}
	return state.Content, true
}
