package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptvault/internal/session"
	"promptvault/internal/transfer"
)

func testSession(t *testing.T, token string) *session.Session {
	t.Helper()
	s := session.NewAt(filepath.Join(t.TempDir(), "session.json"))
	if token != "" {
		require.NoError(t, s.Establish(token))
	}
	return s
}

func TestListPrompts(t *testing.T) {
	var gotAuth, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		require.Equal(t, "/prompts", r.URL.Path)
		fmt.Fprint(w, `{"success":true,"data":[
			{"_id":"p1","title":"First","isDeleted":false,"createdAt":"2025-03-01T10:00:00Z"},
			{"id":"p2","title":"Second","isDeleted":true,"createdAt":"2025-03-02T10:00:00Z"}
		]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testSession(t, "tok"))
	summaries, err := c.ListPrompts(context.Background(), "greet", true)
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Contains(t, gotQuery, "search=greet")
	assert.Contains(t, gotQuery, "isDeleted=true")

	require.Len(t, summaries, 2)
	assert.Equal(t, "p1", summaries[0].ID, "_id is mapped to id")
	assert.Equal(t, "p2", summaries[1].ID, "plain id is accepted too")
	assert.True(t, summaries[1].IsDeleted)
}

func TestMissingTokenAbortsLocally(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testSession(t, ""))
	_, err := c.ListPrompts(context.Background(), "", false)
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
	assert.Zero(t, requests, "no request may be sent without a token")
}

func TestBackendReportedFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":false,"message":"prompt quota exceeded"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testSession(t, "tok"))
	err := c.ArchivePrompt(context.Background(), "p1")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "prompt quota exceeded", apiErr.Message, "backend message surfaced verbatim")
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // immediately, so every call fails to connect

	c := NewClient(srv.URL, testSession(t, "tok"))
	_, err := c.ListPrompts(context.Background(), "", false)
	assert.Error(t, err)
}

func TestListVersions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/prompts/p1/versions", r.URL.Path)
		fmt.Fprint(w, `{"success":true,"data":{"versions":[
			{"_id":"v1","versionNumber":10,"afterObject":{"title":"T","description":"D","tags":["a"],"status":"active"},"createdAt":"2025-03-01T10:00:00Z"},
			{"_id":"v2","createdAt":"2025-02-01T10:00:00Z"}
		]}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testSession(t, "tok"))
	raw, err := c.ListVersions(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, raw, 2)

	assert.Equal(t, "v1", raw[0].ID)
	assert.Equal(t, "10", raw[0].Number)
	assert.Equal(t, "T", raw[0].Title)
	assert.Equal(t, []string{"a"}, raw[0].Tags)

	// Record with no afterObject and no versionNumber stays raw; the
	// reconciler fills the defaults.
	assert.Equal(t, "", raw[1].Number)
	assert.Equal(t, "", raw[1].Title)
}

func TestCreatePrompt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Foo", body["title"])
		fmt.Fprint(w, `{"success":true,"data":{
			"promptId":"p9",
			"version":{"title":"Foo","description":"D","tags":["x"]},
			"isDeleted":false,
			"createdAt":"2025-03-05T10:00:00Z"
		}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testSession(t, "tok"))
	created, err := c.CreatePrompt(context.Background(), "Foo", "D", []string{"x"})
	require.NoError(t, err)

	assert.Equal(t, "p9", created.PromptID)
	assert.Equal(t, "Foo", created.Title)
	assert.Equal(t, []string{"x"}, created.Tags)
	assert.False(t, created.IsDeleted)
}

func TestUpdatePrompt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/prompts/p1", r.URL.Path)
		fmt.Fprint(w, `{"success":true,"data":{"version":{"title":"New","description":"ND","tags":[]}}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testSession(t, "tok"))
	updated, err := c.UpdatePrompt(context.Background(), "p1", "New", "ND", nil)
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "ND", updated.Description)
}

func TestArchiveAndRestoreRoutes(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		paths = append(paths, r.URL.Path)
		fmt.Fprint(w, `{"success":true}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testSession(t, "tok"))
	require.NoError(t, c.ArchivePrompt(context.Background(), "p1"))
	require.NoError(t, c.RestorePrompt(context.Background(), "p1"))
	assert.Equal(t, []string{"/prompts/p1/archive", "/prompts/p1/restore"}, paths)
}

func TestLogin(t *testing.T) {
	t.Run("success returns token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/auth/login", r.URL.Path)
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "jane@example.com", body["email"])
			fmt.Fprint(w, `{"success":true,"token":"tok-1","username":"jane","email":"jane@example.com"}`)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, testSession(t, ""))
		res, err := c.Login(context.Background(), "jane@example.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, "tok-1", res.Token)
		assert.Equal(t, "jane", res.Username)
	})

	t.Run("backend rejection surfaces message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"success":false,"message":"invalid credentials"}`)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, testSession(t, ""))
		_, err := c.Login(context.Background(), "jane@example.com", "wrong")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "invalid credentials", apiErr.Message)
	})
}

func TestCurrentUserFlatEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/user", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		// User fields sit beside success, not under data.
		fmt.Fprint(w, `{"success":true,"username":"jane","email":"jane@example.com"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testSession(t, "tok"))
	user, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "jane", user.Username)
	assert.Equal(t, "jane@example.com", user.Email)
}

func TestExportAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/data/export", r.URL.Path)
		fmt.Fprint(w, `{"success":true,"data":[{"id":"p1","title":"T"}]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testSession(t, "tok"))
	blob, err := c.ExportAll(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"p1","title":"T"}]`, string(blob))
}

func TestImportAll(t *testing.T) {
	var got map[string][]transfer.PromptRecord
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/data/import", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"success":true}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testSession(t, "tok"))
	batch := []transfer.PromptRecord{{ID: "p1", Title: "T", Versions: []transfer.VersionRecord{{ID: "v1", Tags: []string{"a"}}}}}
	require.NoError(t, c.ImportAll(context.Background(), batch))

	require.Len(t, got["prompts"], 1)
	assert.Equal(t, "T", got["prompts"][0].Title)
	assert.Equal(t, []string{"a"}, got["prompts"][0].Versions[0].Tags)
}
