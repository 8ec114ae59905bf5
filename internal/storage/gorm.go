package storage

import (
	"context"
	"errors"
	"fmt"
	"saved-jobs-go/internal/models"
	"strconv"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrAlreadySaved is returned when the user has already saved the job.
var ErrAlreadySaved = errors.New("job already saved")

// SavedJobRecord is the GORM model for a saved job. Job details are
// denormalised onto the row since this backend has no jobs table.
type SavedJobRecord struct {
	ID              uint     `gorm:"primaryKey"`
	UserID          string   `gorm:"not null;index;uniqueIndex:idx_user_job"`
	JobID           int64    `gorm:"not null;uniqueIndex:idx_user_job"`
	Title           string   `gorm:"not null"`
	CompanyName     string
	Location        string
	Remote          bool
	ExperienceLevel string
	SalaryMin       *int64
	SalaryMax       *int64
	Requirements    []string `gorm:"serializer:json"`
	CreatedAt       time.Time
}

func (SavedJobRecord) TableName() string {
	return "saved_jobs"
}

// GormStore implements Store using GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// OpenSQLite opens (creating if needed) a SQLite database and migrates it.
func OpenSQLite(ctx context.Context, path string) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	store := NewGormStore(db)
	if err := store.Migrate(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// DB exposes the underlying handle.
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

// Migrate creates the necessary tables.
func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&SavedJobRecord{})
}

func (s *GormStore) GetSavedJobs(ctx context.Context, userID string) ([]models.SavedJob, error) {
	var records []SavedJobRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch saved jobs: %w", err)
	}

	jobs := make([]models.SavedJob, len(records))
	for i, r := range records {
		jobs[i] = r.toModel()
	}
	return jobs, nil
}

func (s *GormStore) UnsaveJob(ctx context.Context, userID string, jobID int64) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND job_id = ?", userID, jobID).
		Delete(&SavedJobRecord{})
	if result.Error != nil {
		return fmt.Errorf("failed to unsave job %d: %w", jobID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) SaveJob(ctx context.Context, userID string, job models.SavedJob) error {
	if err := job.Validate(); err != nil {
		return err
	}
	jobID, err := job.NumericID()
	if err != nil {
		return err
	}

	var count int64
	err = s.db.WithContext(ctx).Model(&SavedJobRecord{}).
		Where("user_id = ? AND job_id = ?", userID, jobID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check saved job: %w", err)
	}
	if count > 0 {
		return ErrAlreadySaved
	}

	record := SavedJobRecord{
		UserID:          userID,
		JobID:           jobID,
		Title:           job.Title,
		CompanyName:     job.CompanyName,
		Location:        job.Location,
		Remote:          job.Remote,
		ExperienceLevel: job.ExperienceLevel,
		SalaryMin:       job.SalaryMin,
		SalaryMax:       job.SalaryMax,
		Requirements:    job.Requirements,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to save job %d: %w", jobID, err)
	}
	return nil
}

func (r SavedJobRecord) toModel() models.SavedJob {
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
