package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHttpClient_SendsMethodHeadersAndBody(t *testing.T) {
	var gotMethod, gotAuth, gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewHttpClient(time.Second)
	header := http.Header{"Authorization": []string{"Bearer tok"}}

	resp, err := client.Post(context.Background(), srv.URL, "application/json", strings.NewReader(`{"a":1}`), header)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, `{"a":1}`, gotBody)

	resp, err = client.Delete(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.MethodDelete, gotMethod)
}

func TestHttpClient_HonoursContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHttpClient(5*time.Second).Get(ctx, srv.URL, nil)
	require.Error(t, err)
}
