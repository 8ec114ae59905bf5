// Package page implements the saved-jobs page: loading a user's bookmarked
// jobs, removing them, and the states the page renders.
package page

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"saved-jobs-go/internal/models"
	"saved-jobs-go/internal/storage"
	"sync"
)

// ErrUnsaveFailed wraps any failure to remove a saved job.
var ErrUnsaveFailed = errors.New("failed to remove job")

// State is what the page currently shows.
type State int

const (
	StateUnauthenticated State = iota
	StateLoading
	StateEmpty
	StatePopulated
	StateLoadFailed
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateLoading:
		return "loading"
	case StateEmpty:
		return "empty"
	case StatePopulated:
		return "populated"
	case StateLoadFailed:
		return "load_failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// View is an immutable snapshot of the page for rendering.
type View struct {
	User    *models.User
	Jobs    []models.SavedJob
	Loading bool
	LoadErr error
}

// State derives the render state from the snapshot.
func (v View) State() State {
	switch {
	case v.User == nil:
		return StateUnauthenticated
	case v.Loading:
		return StateLoading
	case v.LoadErr != nil && len(v.Jobs) == 0:
		return StateLoadFailed
	case len(v.Jobs) == 0:
		return StateEmpty
	default:
		return StatePopulated
	}
}

// SavedJobs holds the page state for one observed user. Load and Unsave may
// run concurrently; the last write wins. Results that arrive after the
// observed user has changed are discarded.
type SavedJobs struct {
	store  storage.Store
	logger *slog.Logger

	mu      sync.Mutex
	user    *models.User
	jobs    []models.SavedJob
	loading bool
	loadErr error
}

// New creates the page for user (nil when nobody is signed in). The page
// starts in the loading state until Load runs.
func New(store storage.Store, logger *slog.Logger, user *models.User) *SavedJobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &SavedJobs{
		store:   store,
		logger:  logger,
		user:    user,
		jobs:    []models.SavedJob{},
		loading: true,
	}
}

// SetUser records a change of observed identity and reloads for it. Jobs of
// the previous identity are dropped.
func (p *SavedJobs) SetUser(ctx context.Context, user *models.User) {
	p.mu.Lock()
	if sameUser(p.user, user) {
		p.mu.Unlock()
		return
	}
	p.user = user
	p.jobs = []models.SavedJob{}
	p.loadErr = nil
	p.loading = true
	p.mu.Unlock()

	p.Load(ctx)
}

// Load fetches the saved jobs for the current user. Without a user it only
// marks loading complete. A failure keeps the current jobs.
func (p *SavedJobs) Load(ctx context.Context) {
	p.mu.Lock()
	user := p.user
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		if sameUser(p.user, user) {
			p.loading = false
		}
		p.mu.Unlock()
	}()

	if user == nil || user.ID == "" {
		return
	}

	jobs, err := p.store.GetSavedJobs(ctx, user.ID)
	if err != nil {
		p.logger.Error("error fetching saved jobs",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		p.mu.Lock()
		if sameUser(p.user, user) {
			p.loadErr = err
		}
		p.mu.Unlock()
		return
	}
	if jobs == nil {
		jobs = []models.SavedJob{}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !sameUser(p.user, user) {
		p.logger.Debug("discarding saved jobs for previous user", slog.String("user_id", user.ID))
		return
	}
	p.jobs = jobs
	p.loadErr = nil
}

// Unsave removes jobID from the user's saved set and, once the backend
// confirms, from the page. Without a user it does nothing.
func (p *SavedJobs) Unsave(ctx context.Context, jobID string) error {
	p.mu.Lock()
	user := p.user
	p.mu.Unlock()

	if user == nil || user.ID == "" {
		return nil
	}

	id, err := models.ParseJobID(jobID)
	if err == nil {
		err = p.store.UnsaveJob(ctx, user.ID, id)
	}
	if err != nil {
		p.logger.Error("error unsaving job",
			slog.String("user_id", user.ID),
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %w", ErrUnsaveFailed, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !sameUser(p.user, user) {
		return nil
	}
	kept := make([]models.SavedJob, 0, len(p.jobs))
	for _, job := range p.jobs {
		// the store matched by integer, so "007" also removes job 7
		if n, err := job.NumericID(); err == nil && n == id {
			continue
		}
		kept = append(kept, job)
	}
	p.jobs = kept

	return nil
}

// Snapshot returns the current state. The jobs slice is a copy.
func (p *SavedJobs) Snapshot() View {
	p.mu.Lock()
	defer p.mu.Unlock()

	jobs := make([]models.SavedJob, len(p.jobs))
	copy(jobs, p.jobs)
	return View{
		User:    p.user,
		Jobs:    jobs,
		Loading: p.loading,
		LoadErr: p.loadErr,
	}
}

func sameUser(a, b *models.User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}
