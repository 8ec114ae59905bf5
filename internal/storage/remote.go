package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"saved-jobs-go/internal/models"
	"saved-jobs-go/pkg/httpclient"
	"strconv"
	"strings"
)

// TokenFunc returns the credential to forward to the upstream API for a request.
type TokenFunc func(ctx context.Context) string

// RemoteOption configures a RemoteStore.
type RemoteOption interface {
	apply(*RemoteStore)
}

type remoteOptionFunc func(*RemoteStore)

func (f remoteOptionFunc) apply(s *RemoteStore) { f(s) }

// WithBearerToken forwards the caller's access token as a Bearer credential.
func WithBearerToken(token TokenFunc) RemoteOption {
	return remoteOptionFunc(func(s *RemoteStore) {
		s.token = token
	})
}

// WithUserHeader sends the user ID in the named header, for upstreams that
// sit behind the same trusted proxy.
func WithUserHeader(name string) RemoteOption {
	return remoteOptionFunc(func(s *RemoteStore) {
		s.userHeader = name
	})
}

// RemoteStore talks to an upstream saved-jobs REST API:
//
//	GET    {base}/api/users/{userID}/saved-jobs
//	POST   {base}/api/users/{userID}/saved-jobs
//	DELETE {base}/api/users/{userID}/saved-jobs/{jobID}
type RemoteStore struct {
	client     *httpclient.HttpClient
	baseURL    string
	token      TokenFunc
	userHeader string
}

// NewRemoteStore creates a RemoteStore.
func NewRemoteStore(client *httpclient.HttpClient, baseURL string, opts ...RemoteOption) *RemoteStore {
	s := &RemoteStore{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt.apply(s)
	}
	return s
}

func (s *RemoteStore) GetSavedJobs(ctx context.Context, userID string) ([]models.SavedJob, error) {
	resp, err := s.client.Get(ctx, s.collectionURL(userID), s.header(ctx, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch saved jobs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse saved jobs response: %w", err)
	}
	return models.ParseSavedJobs(envelope.Data)
}

func (s *RemoteStore) UnsaveJob(ctx context.Context, userID string, jobID int64) error {
	target := s.collectionURL(userID) + "/" + strconv.FormatInt(jobID, 10)
	resp, err := s.client.Delete(ctx, target, s.header(ctx, userID))
	if err != nil {
		return fmt.Errorf("failed to unsave job %d: %w", jobID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return statusError(resp)
	}
}

func (s *RemoteStore) SaveJob(ctx context.Context, userID string, job models.SavedJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}

	resp, err := s.client.Post(ctx, s.collectionURL(userID), "application/json", bytes.NewReader(payload), s.header(ctx, userID))
	if err != nil {
		return fmt.Errorf("failed to save job %s: %w", job.ID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return nil
	case http.StatusConflict:
		return ErrAlreadySaved
	default:
		return statusError(resp)
	}
}

func (s *RemoteStore) collectionURL(userID string) string {
	return s.baseURL + "/api/users/" + url.PathEscape(userID) + "/saved-jobs"
}

func (s *RemoteStore) header(ctx context.Context, userID string) http.Header {
	h := http.Header{"Accept": []string{"application/json"}}
	if s.userHeader != "" {
		h.Set(s.userHeader, userID)
	}
	if s.token != nil {
		if tok := s.token(ctx); tok != "" {
			h.Set("Authorization", "Bearer "+tok)
		}
	}
	return h
}

func statusError(resp *http.Response) error {
	var problem struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(body, &problem); err == nil && problem.Detail != "" {
		return fmt.Errorf("saved jobs API returned status %d: %s", resp.StatusCode, problem.Detail)
	}
	return fmt.Errorf("saved jobs API returned status %d", resp.StatusCode)
}
