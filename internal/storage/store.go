package storage

import (
	"context"
	"errors"
	"saved-jobs-go/internal/models"
)

// ErrNotFound is returned when the job is not in the user's saved set.
var ErrNotFound = errors.New("saved job not found")

// Store is the saved-job API the page talks to.
type Store interface {
	GetSavedJobs(ctx context.Context, userID string) ([]models.SavedJob, error)
	UnsaveJob(ctx context.Context, userID string, jobID int64) error
	SaveJob(ctx context.Context, userID string, job models.SavedJob) error
}
