package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodik/postcard/internal/api"
	"github.com/kodik/postcard/internal/auth"
	"github.com/kodik/postcard/internal/db"
	"github.com/kodik/postcard/internal/postcard"
	"github.com/kodik/postcard/pkg/config"
)

const secret = "test-secret"

var now = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

type rpcResponse struct {
	ID     interface{}       `json:"id"`
	Result json.RawMessage   `json:"result"`
	Error  *api.JSONRPCError `json:"error"`
}

type testServer struct {
	engine *gin.Engine
	store  *db.MemoryStore
}

func newTestServer(t *testing.T, checks map[string]api.HealthCheck) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := db.NewSeededMemoryStore(now)
	registry := postcard.NewRegistry(time.Hour, func() time.Time { return now })
	cards := api.NewCardAPI(registry, store, store, &config.CardConfig{
		AppName:      "KODIK",
		ShareBaseURL: "https://kodik.id/",
		LoginPath:    "/login",
	}, func() time.Time { return now })

	if checks == nil {
		checks = map[string]api.HealthCheck{"store": store.Health}
	}

	engine := gin.New()
	engine.Use(auth.Middleware(secret))
	api.NewRouter(cards, checks).SetupRoutes(engine)

	return &testServer{engine: engine, store: store}
}

func (s *testServer) call(t *testing.T, email, method string, params interface{}) rpcResponse {
	t.Helper()

	body, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	return s.post(t, email, body)
}

func (s *testServer) post(t *testing.T, email string, body []byte) rpcResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if email != "" {
		token, err := auth.IssueToken(secret, email, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp rpcResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decodeResult(t *testing.T, resp rpcResponse, dst interface{}) {
	t.Helper()
	require.Nil(t, resp.Error, "unexpected error: %+v", resp.Error)
	require.NoError(t, json.Unmarshal(resp.Result, dst))
}

func (s *testServer) mount(t *testing.T, email string, postID int64) string {
	t.Helper()

	var res api.MountResult
	decodeResult(t, s.call(t, email, "postcard.mount", map[string]interface{}{"postId": postID}), &res)
	require.True(t, res.Mounted)
	require.NotEmpty(t, res.MountID)
	return res.MountID
}

func TestMount(t *testing.T) {
	s := newTestServer(t, nil)

	var res api.MountResult
	decodeResult(t, s.call(t, "", "postcard.mount", map[string]interface{}{"postId": 1}), &res)

	assert.True(t, res.Mounted)
	require.NotNil(t, res.View)
	assert.Equal(t, "Toko Kopi Nusantara", res.View.Seller.Name)
	assert.Equal(t, "2 jam lalu", res.View.Age)
	assert.Equal(t, int64(24), res.View.Likes)

	var view postcard.View
	decodeResult(t, s.call(t, "", "postcard.view", map[string]interface{}{"mountId": res.MountID}), &view)
	assert.Equal(t, int64(1), view.PostID)
}

func TestAnonymousActionsPromptLogin(t *testing.T) {
	s := newTestServer(t, nil)
	mountID := s.mount(t, "", 1)

	var res api.ActionResult
	decodeResult(t, s.call(t, "", "postcard.toggle_like", map[string]interface{}{"mountId": mountID}), &res)

	assert.False(t, res.Result.Performed)
	assert.Equal(t, int64(24), res.View.Likes)
	require.Len(t, res.Effects.Notifications, 1)

	note := res.Effects.Notifications[0]
	assert.Equal(t, postcard.LoginPromptTitle, note.Title)
	assert.Equal(t, postcard.SeverityError, note.Severity)
	require.NotNil(t, note.Action)
	assert.Equal(t, "/login", note.Action.Path)

	decodeResult(t, s.call(t, "", "postcard.submit_comment", map[string]interface{}{
		"mountId": mountID,
		"text":    "halo",
	}), &res)
	assert.False(t, res.Result.Performed)
	assert.Equal(t, 2, res.View.Comments.Count)
	assert.Len(t, res.Effects.Notifications, 1, "effects are scoped to one call")
}

func TestSignedInFlow(t *testing.T) {
	s := newTestServer(t, nil)
	const email = "budi@example.com"
	mountID := s.mount(t, email, 1)

	var res api.ActionResult
	decodeResult(t, s.call(t, email, "postcard.toggle_like", map[string]interface{}{"mountId": mountID}), &res)
	assert.True(t, res.Result.Performed)
	assert.True(t, res.View.Liked)
	assert.Equal(t, int64(25), res.View.Likes)
	assert.Empty(t, res.Effects.Notifications)

	res = api.ActionResult{}
	decodeResult(t, s.call(t, email, "postcard.toggle_comments", map[string]interface{}{"mountId": mountID}), &res)
	assert.True(t, res.View.Comments.Visible)

	res = api.ActionResult{}
	decodeResult(t, s.call(t, email, "postcard.start_reply", map[string]interface{}{
		"mountId":   mountID,
		"commentId": 1,
	}), &res)
	require.NotNil(t, res.View.Comments.ReplyingTo)
	assert.Equal(t, int64(1), *res.View.Comments.ReplyingTo)

	resp := s.call(t, email, "postcard.submit_comment", map[string]interface{}{
		"mountId":  mountID,
		"text":     "Saya pesan satu",
		"parentId": 1,
	})
	res = api.ActionResult{}
	decodeResult(t, resp, &res)
	assert.Contains(t, string(resp.Result), `"replyingTo":null`, "a cleared reply target is sent explicitly")
	require.NotNil(t, res.Result.Comment)
	assert.Equal(t, "budi", res.Result.Comment.UserName)
	assert.Equal(t, email, res.Result.Comment.UserEmail)
	assert.Equal(t, 3, res.View.Comments.Count)
	assert.Nil(t, res.View.Comments.ReplyingTo)

	comments, err := s.store.ListComments(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, comments, 3)
}

func TestSubmitWithClosedPanel(t *testing.T) {
	s := newTestServer(t, nil)
	const email = "budi@example.com"
	mountID := s.mount(t, email, 3)

	resp := s.call(t, email, "postcard.submit_comment", map[string]interface{}{
		"mountId": mountID,
		"text":    "Bisa kirim ke Bogor?",
	})
	require.NotNil(t, resp.Error)
	assert.Equal(t, api.ErrInvalidRequest, resp.Error.Code)

	var view postcard.View
	decodeResult(t, s.call(t, email, "postcard.view", map[string]interface{}{"mountId": mountID}), &view)
	assert.Equal(t, 1, view.Comments.Count)

	comments, err := s.store.ListComments(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}

func TestShare(t *testing.T) {
	s := newTestServer(t, nil)
	mountID := s.mount(t, "", 2)

	tests := []struct {
		name         string
		native       interface{}
		want         postcard.ShareOutcome
		wantFallback bool
	}{
		{"no native sheet", nil, postcard.ShareFallback, true},
		{"shared", map[string]interface{}{"available": true, "outcome": "shared"}, postcard.ShareNative, false},
		{"cancelled", map[string]interface{}{"available": true, "outcome": "cancelled"}, postcard.ShareCancelled, false},
		{"failed", map[string]interface{}{"available": true, "outcome": "failed", "message": "AbortError"}, postcard.ShareFallback, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := map[string]interface{}{"mountId": mountID}
			if tt.native != nil {
				params["native"] = tt.native
			}

			var res api.ActionResult
			decodeResult(t, s.call(t, "", "postcard.share", params), &res)

			assert.Equal(t, tt.want, res.Result.Share)
			assert.Empty(t, res.Effects.Notifications)
			if !tt.wantFallback {
				assert.Nil(t, res.Effects.ShareFallback)
				return
			}
			require.NotNil(t, res.Effects.ShareFallback)
			assert.Equal(t, "Postingan dari Batik Sekar Jagad di KODIK", res.Effects.ShareFallback.Title)
			assert.Equal(t, "https://kodik.id/#/feed", res.Effects.ShareFallback.URL)
		})
	}
}

func TestErrorCodes(t *testing.T) {
	s := newTestServer(t, nil)
	mountID := s.mount(t, "budi@example.com", 1)

	tests := []struct {
		name   string
		method string
		params interface{}
		code   int
	}{
		{"unknown method", "postcard.like", map[string]interface{}{}, api.ErrMethodNotFound},
		{"missing params", "postcard.view", nil, api.ErrInvalidParams},
		{"missing post id", "postcard.mount", map[string]interface{}{}, api.ErrInvalidParams},
		{"unknown post", "postcard.mount", map[string]interface{}{"postId": 99}, api.ErrNotFound},
		{"unknown mount", "postcard.toggle_like", map[string]interface{}{"mountId": "nope"}, api.ErrNotFound},
		{"empty comment", "postcard.submit_comment", map[string]interface{}{"mountId": mountID, "text": "  "}, api.ErrInvalidParams},
		{"bad share outcome", "postcard.share", map[string]interface{}{
			"mountId": mountID,
			"native":  map[string]interface{}{"available": true},
		}, api.ErrInvalidParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.call(t, "budi@example.com", tt.method, tt.params)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}

	t.Run("invalid version", func(t *testing.T) {
		resp := s.post(t, "", []byte(`{"jsonrpc":"1.0","id":1,"method":"postcard.view"}`))
		require.NotNil(t, resp.Error)
		assert.Equal(t, api.ErrInvalidRequest, resp.Error.Code)
	})

	t.Run("parse error", func(t *testing.T) {
		resp := s.post(t, "", []byte(`{`))
		require.NotNil(t, resp.Error)
		assert.Equal(t, api.ErrParseError, resp.Error.Code)
	})
}

func TestUnmount(t *testing.T) {
	s := newTestServer(t, nil)
	mountID := s.mount(t, "", 1)

	var res map[string]bool
	decodeResult(t, s.call(t, "", "postcard.unmount", map[string]interface{}{"mountId": mountID}), &res)
	assert.True(t, res["unmounted"])

	resp := s.call(t, "", "postcard.view", map[string]interface{}{"mountId": mountID})
	require.NotNil(t, resp.Error)
	assert.Equal(t, api.ErrNotFound, resp.Error.Code)
}

func TestSellers(t *testing.T) {
	s := newTestServer(t, nil)

	var sellers []map[string]interface{}
	decodeResult(t, s.call(t, "", "postcard.sellers", map[string]interface{}{}), &sellers)
	assert.Len(t, sellers, 3)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		checks map[string]api.HealthCheck
		code   int
	}{
		{"healthy", map[string]api.HealthCheck{
			"store": func(context.Context) error { return nil },
		}, http.StatusOK},
		{"cache down", map[string]api.HealthCheck{
			"store": func(context.Context) error { return nil },
			"cache": func(context.Context) error { return errors.New("connection refused") },
		}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.checks)

			w := httptest.NewRecorder()
			s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestComments(t *testing.T) {
	s := newTestServer(t, nil)

	var comments []map[string]interface{}
	decodeResult(t, s.call(t, "", "postcard.comments", map[string]interface{}{"postId": 1}), &comments)
	require.Len(t, comments, 2)
	assert.Equal(t, "andi", comments[0]["userName"])

	resp := s.call(t, "", "postcard.comments", map[string]interface{}{"postId": 99})
	require.NotNil(t, resp.Error)
	assert.Equal(t, api.ErrNotFound, resp.Error.Code)
}

func TestFormatAge(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		timestamp string
		want      string
	}{
		{"2026-10-18T09:00:00Z", "3 jam lalu"},
		{"2026-10-13", "5 hari lalu"},
		{"bukan tanggal", "Baru saja"},
	}

	for _, tt := range tests {
		t.Run(tt.timestamp, func(t *testing.T) {
			var res map[string]string
			decodeResult(t, s.call(t, "", "postcard.format_age", map[string]interface{}{"timestamp": tt.timestamp}), &res)
			assert.Equal(t, tt.want, res["age"])
		})
	}
}
