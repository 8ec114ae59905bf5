package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	ErrInvalidSavedJob = errors.New("invalid saved job")
	ErrInvalidJobID    = errors.New("invalid job id")
)

// User is the signed-in identity resolved by an auth provider.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// SavedJob is a job the user has bookmarked, as returned by the saved-job backend.
type SavedJob struct {
	ID              JobID    `json:"id"`
	Title           string   `json:"title"`
	CompanyName     string   `json:"companyName"`
	Location        string   `json:"location"`
	Remote          bool     `json:"remote"`
	ExperienceLevel string   `json:"experienceLevel"`
	SalaryMin       *int64   `json:"salaryMin,omitempty"`
	SalaryMax       *int64   `json:"salaryMax,omitempty"`
	Requirements    []string `json:"requirements,omitempty"`
}

// JobID is a job identifier kept as a string. Backends send it either as a
// JSON string or a JSON number.
type JobID string

func (id *JobID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = JobID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("job id must be a string or number: %w", err)
	}
	*id = JobID(n.String())
	return nil
}

func (id JobID) String() string {
	return string(id)
}

// ParseJobID converts a job identifier to the integer form the removal API expects.
func ParseJobID(id string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidJobID, id)
	}
	return n, nil
}

// NumericID returns the job ID as an integer.
func (j SavedJob) NumericID() (int64, error) {
	return ParseJobID(string(j.ID))
}

// Validate checks the fields the page relies on.
func (j SavedJob) Validate() error {
	if strings.TrimSpace(string(j.ID)) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidSavedJob)
	}
	if j.SalaryMin != nil && *j.SalaryMin < 0 {
		return fmt.Errorf("%w: job %s has negative salaryMin", ErrInvalidSavedJob, j.ID)
	}
	if j.SalaryMax != nil && *j.SalaryMax < 0 {
		return fmt.Errorf("%w: job %s has negative salaryMax", ErrInvalidSavedJob, j.ID)
	}
	return nil
}

// Initial is the avatar letter shown on a card.
func (j SavedJob) Initial() string {
	r, _ := utf8.DecodeRuneInString(j.CompanyName)
	if r == utf8.RuneError {
		return "C"
	}
	return string(unicode.ToUpper(r))
}

// TopRequirements returns at most n requirements, in order.
func (j SavedJob) TopRequirements(n int) []string {
	if len(j.Requirements) <= n {
		return j.Requirements
	}
	return j.Requirements[:n]
}

// ParseSavedJobs decodes a JSON array of saved jobs and validates every record.
func ParseSavedJobs(data []byte) ([]SavedJob, error) {
	var jobs []SavedJob
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSavedJob, err)
	}
	for _, job := range jobs {
		if err := job.Validate(); err != nil {
			return nil, err
		}
	}
	if jobs == nil {
		jobs = []SavedJob{}
	}
	return jobs, nil
}
