package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientSendsBearerAndUnwrapsData(t *testing.T) {
	var gotAuth, gotReqID, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		gotQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, `{"ok":true,"data":{"total":3}}`)
	}))
	defer srv.Close()

	c := New(srv.URL+"/", NewMemorySession("tok-1"))
	var out struct {
		Total int `json:"total"`
	}
	require.NoError(t, c.Get(context.Background(), "/admin/customers/stats", url.Values{"page": {"2"}}, &out))
	require.Equal(t, 3, out.Total)
	require.Equal(t, "Bearer tok-1", gotAuth)
	require.NotEmpty(t, gotReqID)
	require.Equal(t, "page=2", gotQuery)
}

func TestClientWithoutTokenSendsNoAuthorization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `[1,2,3]`)
	}))
	defer srv.Close()

	var out []int
	require.NoError(t, New(srv.URL, nil).Get(context.Background(), "/x", nil, &out))
	require.Equal(t, []int{1, 2, 3}, out)
}

func TestClientNormalizesFailures(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		kind    Kind
		message string
	}{
		{"conflict envelope", http.StatusConflict, `{"ok":false,"code":"error","message":"review already submitted"}`, KindConflict, "review already submitted"},
		{"legacy error field", http.StatusBadRequest, `{"error":"rating is required"}`, KindValidation, "rating is required"},
		{"unprocessable", http.StatusUnprocessableEntity, `{"ok":false,"message":"order is not completed"}`, KindValidation, "order is not completed"},
		{"forbidden", http.StatusForbidden, `{"ok":false,"code":"error","message":"forbidden"}`, KindUnauthorized, "forbidden"},
		{"not found plain text", http.StatusNotFound, `nope`, KindNotFound, "Not Found"},
		{"200 with error code", http.StatusOK, `{"code":"error","message":"soft failure"}`, KindServer, "soft failure"},
		{"200 with ok false", http.StatusOK, `{"ok":false}`, KindServer, "OK"},
		{"server error", http.StatusInternalServerError, `{"ok":false,"code":"error","message":"db down"}`, KindServer, "db down"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			err := New(srv.URL, nil).Get(context.Background(), "/x", nil, nil)
			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, ErrorCode, apiErr.Code)
			require.Equal(t, tc.kind, apiErr.Kind)
			require.Equal(t, tc.message, apiErr.Message)
			require.Equal(t, tc.status, apiErr.Status)
			require.True(t, IsKind(err, tc.kind))
		})
	}
}

func TestClientNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	err := New(base, nil).Get(context.Background(), "/x", nil, nil)
	require.True(t, IsKind(err, KindNetwork))
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Zero(t, apiErr.Status)
	require.Equal(t, ErrorCode, apiErr.Code)
}

func TestPostMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "5", r.FormValue("rating"))
		require.Len(t, r.MultipartForm.File["images"], 2)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"ok":true,"data":{"points":10}}`)
	}))
	defer srv.Close()

	var out struct {
		Points int `json:"points"`
	}
	err := New(srv.URL, nil).PostMultipart(context.Background(), "/reviews/submit",
		map[string]string{"rating": "5"},
		[]File{{Field: "images", Name: "a.png", Data: []byte("a")}, {Field: "images", Name: "b.png", Data: []byte("b")}},
		&out)
	require.NoError(t, err)
	require.Equal(t, 10, out.Points)
}

func TestLoginPersistsSessionAndLogoutClears(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/account/login":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "hoa@wedding.test", body["email"])
			_, _ = io.WriteString(w, `{"ok":true,"data":{"token":"tok-9","user":{"ID":4,"fullname":"Hoa"}}}`)
		case "/account/logout":
			_, _ = io.WriteString(w, `{"ok":true,"data":{"message":"logged out"}}`)
		}
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "session", "dashboard.json")
	c := New(srv.URL, NewFileSession(path))
	res, err := c.Login(context.Background(), "hoa@wedding.test", "secret1")
	require.NoError(t, err)
	require.Equal(t, "tok-9", res.Token)

	// a fresh store on the same file sees the session
	sess, err := NewFileSession(path).Load()
	require.NoError(t, err)
	require.Equal(t, "tok-9", sess.Token)
	require.JSONEq(t, `{"ID":4,"fullname":"Hoa"}`, string(sess.User))

	require.NoError(t, c.Logout(context.Background()))
	sess, err = NewFileSession(path).Load()
	require.NoError(t, err)
	require.Empty(t, sess.Token)
}
