package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicRepos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/Krex381", r.URL.Path)
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"login":"Krex381","public_repos":23}`))
	}))
	defer srv.Close()

	n, err := NewClient(srv.URL+"/", nil).PublicRepos(context.Background(), "Krex381")
	require.NoError(t, err)
	assert.Equal(t, 23, n)
}

func TestPublicRepos_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"not found", http.StatusNotFound, `{"message":"Not Found"}`, ErrUserNotFound},
		{"rate limited", http.StatusForbidden, `{"message":"API rate limit exceeded"}`, ErrUnexpectedStatus},
		{"server error", http.StatusBadGateway, ``, ErrUnexpectedStatus},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, nil).PublicRepos(context.Background(), "x")
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestPublicRepos_BadBody(t *testing.T) {
	for _, body := range []string{`not json`, `{"login":"x"}`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		_, err := NewClient(srv.URL, nil).PublicRepos(context.Background(), "x")
		assert.Error(t, err, body)
		srv.Close()
	}
}

func TestPublicRepos_Unreachable(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:1", nil).PublicRepos(context.Background(), "x")
	assert.Error(t, err)
}
