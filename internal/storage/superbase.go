package storage

import (
	"context"
	"fmt"
	"os"
	"saved-jobs-go/internal/models"
	"strconv"
	"time"

	supabase "github.com/nedpals/supabase-go"
)

const (
	savedJobsTable = "saved_jobs"
	// savedJobsView joins saved_jobs with jobs and is ordered newest save first.
	savedJobsView = "saved_jobs_view"
)

// savedJobRow is the shape of saved_jobs_view.
type savedJobRow struct {
	UserID          string   `json:"user_id"`
	JobID           int64    `json:"job_id"`
	Title           string   `json:"title"`
	CompanyName     string   `json:"company_name"`
	Location        string   `json:"location"`
	Remote          bool     `json:"remote"`
	ExperienceLevel string   `json:"experience_level"`
	SalaryMin       *int64   `json:"salary_min"`
	SalaryMax       *int64   `json:"salary_max"`
	Requirements    []string `json:"requirements"`
}

// savedJobLink is a row of the saved_jobs table.
type savedJobLink struct {
	UserID  string    `json:"user_id"`
	JobID   int64     `json:"job_id"`
	SavedAt time.Time `json:"saved_at"`
}

// SupabaseStore uses the nedpals/supabase-go SDK to read and modify saved jobs.
type SupabaseStore struct {
	client *supabase.Client
}

// NewSupabaseStore creates a SupabaseStore. It reads SUPABASE_URL and SUPABASE_KEY
// from environment variables if empty values are provided.
func NewSupabaseStore(supabaseURL, supabaseKey string) (*SupabaseStore, error) {
	client, err := NewSupabaseClient(supabaseURL, supabaseKey)
	if err != nil {
		return nil, err
	}
	return &SupabaseStore{client: client}, nil
}

// NewSupabaseClient builds the SDK client shared by the store and the auth provider.
func NewSupabaseClient(supabaseURL, supabaseKey string) (*supabase.Client, error) {
	if supabaseURL == "" {
		supabaseURL = os.Getenv("SUPABASE_URL")
	}
	if supabaseKey == "" {
		supabaseKey = os.Getenv("SUPABASE_KEY")
	}
	if supabaseURL == "" || supabaseKey == "" {
		return nil, fmt.Errorf("supabase URL and key must be provided via args or SUPABASE_URL / SUPABASE_KEY env vars")
	}

	// CreateClient returns *supabase.Client (no error)
	return supabase.CreateClient(supabaseURL, supabaseKey), nil
}

func (s *SupabaseStore) GetSavedJobs(ctx context.Context, userID string) ([]models.SavedJob, error) {
	var rows []savedJobRow
	err := s.client.DB.From(savedJobsView).Select("*").Eq("user_id", userID).ExecuteWithContext(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch saved jobs: %w", err)
	}

	jobs := make([]models.SavedJob, 0, len(rows))
	for _, row := range rows {
		job := row.toModel()
		if err := job.Validate(); err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// UnsaveJob removes the link between userID and jobID. PostgREST answers a
// delete with 204 and no rows, so the link is looked up first to report
// ErrNotFound.
func (s *SupabaseStore) UnsaveJob(ctx context.Context, userID string, jobID int64) error {
	id := strconv.FormatInt(jobID, 10)

	var existing []savedJobLink
	err := s.client.DB.From(savedJobsTable).
		Select("user_id", "job_id").
		Eq("user_id", userID).
		Eq("job_id", id).
		ExecuteWithContext(ctx, &existing)
	if err != nil {
		return fmt.Errorf("failed to look up saved job %d: %w", jobID, err)
	}
	if len(existing) == 0 {
		return ErrNotFound
	}

	err = s.client.DB.From(savedJobsTable).
		Delete().
		Eq("user_id", userID).
		Eq("job_id", id).
		ExecuteWithContext(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to unsave job %d: %w", jobID, err)
	}
	return nil
}

func (s *SupabaseStore) SaveJob(ctx context.Context, userID string, job models.SavedJob) error {
	jobID, err := job.NumericID()
	if err != nil {
		return err
	}

	// Only the link is written; job details live in the jobs table.
	var results []savedJobLink
	err = s.client.DB.From(savedJobsTable).Insert(savedJobLink{
		UserID:  userID,
		JobID:   jobID,
		SavedAt: time.Now(),
	}).ExecuteWithContext(ctx, &results)
	if err != nil {
		return fmt.Errorf("failed to save job %d: %w", jobID, err)
	}
	return nil
}

func (r savedJobRow) toModel() models.SavedJob {
	return models.SavedJob{
		ID:              models.JobID(strconv.FormatInt(r.JobID, 10)),
		Title:           r.Title,
		CompanyName:     r.CompanyName,
		Location:        r.Location,
		Remote:          r.Remote,
		ExperienceLevel: r.ExperienceLevel,
		SalaryMin:       r.SalaryMin,
		SalaryMax:       r.SalaryMax,
		Requirements:    r.Requirements,
	}
}
