package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSavedJobs_AcceptsStringAndNumericIDs(t *testing.T) {
	data := []byte(`[
		{"id":"12","title":"Backend Engineer","companyName":"acme","location":"Berlin","remote":true,
		 "experienceLevel":"Senior","salaryMin":50000,"salaryMax":90000,"requirements":["Go","SQL","K8s"]},
		{"id":34,"title":"SRE","companyName":"Initech","location":"Remote","experienceLevel":"Mid"}
	]`)

	jobs, err := ParseSavedJobs(data)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, JobID("12"), jobs[0].ID)
	assert.Equal(t, JobID("34"), jobs[1].ID)
	assert.True(t, jobs[0].Remote)
	require.NotNil(t, jobs[0].SalaryMin)
	assert.Equal(t, int64(50000), *jobs[0].SalaryMin)
	assert.Nil(t, jobs[1].SalaryMax)
	assert.Equal(t, []string{"Go", "SQL", "K8s"}, jobs[0].Requirements)
}

func TestParseSavedJobs_EmptyArrayAndNull(t *testing.T) {
	jobs, err := ParseSavedJobs([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, jobs)

	jobs, err = ParseSavedJobs([]byte(`null`))
	require.NoError(t, err)
	assert.NotNil(t, jobs)
	assert.Empty(t, jobs)
}

func TestParseSavedJobs_RejectsBadShape(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not an array", `{"id":"1"}`},
		{"missing id", `[{"title":"x"}]`},
		{"negative salary", `[{"id":"1","salaryMin":-5}]`},
		{"bool id", `[{"id":true}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSavedJobs([]byte(tt.data))
			require.Error(t, err)
		})
	}
}

func TestParseJobID(t *testing.T) {
	n, err := ParseJobID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	for _, bad := range []string{"", "abc", "4.2", "12abc", "job-7"} {
		_, err := ParseJobID(bad)
		assert.True(t, errors.Is(err, ErrInvalidJobID), "id %q", bad)
	}
}

func TestSavedJob_Initial(t *testing.T) {
	assert.Equal(t, "A", SavedJob{CompanyName: "acme"}.Initial())
	assert.Equal(t, "É", SavedJob{CompanyName: "école"}.Initial())
	assert.Equal(t, "C", SavedJob{}.Initial())
}

func TestSavedJob_TopRequirements(t *testing.T) {
	job := SavedJob{Requirements: []string{"Go", "SQL", "K8s"}}
	assert.Equal(t, []string{"Go", "SQL"}, job.TopRequirements(2))
	assert.Equal(t, []string{"Go"}, SavedJob{Requirements: []string{"Go"}}.TopRequirements(2))
	assert.Empty(t, SavedJob{}.TopRequirements(2))
}
