package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/videorating/internal/ratelater/application"
	ratelaterdomain "github.com/wyfcoding/videorating/internal/ratelater/domain"
	ratelatermysql "github.com/wyfcoding/videorating/internal/ratelater/infrastructure/persistence/mysql"
	videodomain "github.com/wyfcoding/videorating/internal/video/domain"
	videomysql "github.com/wyfcoding/videorating/internal/video/infrastructure/persistence/mysql"
	"github.com/wyfcoding/videorating/pkg/middleware"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testParser struct {
	principals map[string]*middleware.Principal
}

func (p *testParser) Parse(token string) (*middleware.Principal, error) {
	if principal, ok := p.principals[token]; ok {
		return principal, nil
	}
	return nil, errors.New("unknown token")
}

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&videodomain.Video{},
		&ratelaterdomain.VideoRateLater{},
	))

	videoRepo := videomysql.NewVideoRepository(db)
	repo := ratelatermysql.NewVideoRateLaterRepository(db)
	svc := application.NewRateLaterService(repo, videoRepo)

	parser := &testParser{principals: map[string]*middleware.Principal{
		"user1-token": {UserID: 1, Username: "user1"},
		"user2-token": {UserID: 2, Username: "user2"},
	}}

	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group(""), middleware.GinAuthMiddleware(parser))
	return &testEnv{router: router, db: db}
}

func (e *testEnv) request(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) seedVideo(t *testing.T, videoID string) *videodomain.Video {
	t.Helper()
	video := &videodomain.Video{VideoID: videoID}
	require.NoError(t, e.db.Create(video).Error)
	return video
}

func TestAddRateLater(t *testing.T) {
	env := newTestEnv(t)
	env.seedVideo(t, "video-id-01")

	w := env.request(t, http.MethodPost, "/users/me/video_rate_later/", "user1-token",
		`{"video_id": "video-id-01"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var entry application.RateLaterDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	assert.Equal(t, "video-id-01", entry.Video.VideoID)
}

func TestAddRateLaterValidation(t *testing.T) {
	env := newTestEnv(t)
	env.seedVideo(t, "video-id-01")
	require.Equal(t, http.StatusCreated,
		env.request(t, http.MethodPost, "/users/me/video_rate_later/", "user1-token",
			`{"video_id": "video-id-01"}`).Code)

	cases := []struct {
		name string
		body string
	}{
		{"unknown video", `{"video_id": "missing-video"}`},
		{"duplicate entry", `{"video_id": "video-id-01"}`},
		{"missing video_id", `{}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.request(t, http.MethodPost, "/users/me/video_rate_later/", "user1-token", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			var fields map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fields))
			assert.Contains(t, fields, "video_id")
		})
	}
}

func TestListRateLaterScopedToUser(t *testing.T) {
	env := newTestEnv(t)
	env.seedVideo(t, "video-id-01")
	env.seedVideo(t, "video-id-02")

	require.Equal(t, http.StatusCreated,
		env.request(t, http.MethodPost, "/users/me/video_rate_later/", "user1-token",
			`{"video_id": "video-id-01"}`).Code)
	require.Equal(t, http.StatusCreated,
		env.request(t, http.MethodPost, "/users/me/video_rate_later/", "user1-token",
			`{"video_id": "video-id-02"}`).Code)
	require.Equal(t, http.StatusCreated,
		env.request(t, http.MethodPost, "/users/me/video_rate_later/", "user2-token",
			`{"video_id": "video-id-01"}`).Code)

	w := env.request(t, http.MethodGet, "/users/me/video_rate_later/", "user1-token", "")
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Count   int64                      `json:"count"`
		Results []application.RateLaterDTO `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Equal(t, int64(2), page.Count)
	// 最近加入的排在前面
	assert.Equal(t, "video-id-02", page.Results[0].Video.VideoID)
	assert.Equal(t, "video-id-01", page.Results[1].Video.VideoID)

	w = env.request(t, http.MethodGet, "/users/me/video_rate_later/", "user2-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.Count)
}

func TestGetRateLater(t *testing.T) {
	env := newTestEnv(t)
	env.seedVideo(t, "video-id-01")
	require.Equal(t, http.StatusCreated,
		env.request(t, http.MethodPost, "/users/me/video_rate_later/", "user1-token",
			`{"video_id": "video-id-01"}`).Code)

	w := env.request(t, http.MethodGet, "/users/me/video_rate_later/video-id-01/", "user1-token", "")
	require.Equal(t, http.StatusOK, w.Code)

	var entry application.RateLaterDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	assert.Equal(t, "video-id-01", entry.Video.VideoID)

	// 其他用户的列表中不存在该条目
	w = env.request(t, http.MethodGet, "/users/me/video_rate_later/video-id-01/", "user2-token", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRemoveRateLater(t *testing.T) {
	env := newTestEnv(t)
	env.seedVideo(t, "video-id-01")
	require.Equal(t, http.StatusCreated,
		env.request(t, http.MethodPost, "/users/me/video_rate_later/", "user1-token",
			`{"video_id": "video-id-01"}`).Code)

	w := env.request(t, http.MethodDelete, "/users/me/video_rate_later/video-id-01/", "user1-token", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.request(t, http.MethodGet, "/users/me/video_rate_later/video-id-01/", "user1-token", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 删除后可重新加入
	w = env.request(t, http.MethodPost, "/users/me/video_rate_later/", "user1-token",
		`{"video_id": "video-id-01"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRemoveRateLaterNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.seedVideo(t, "video-id-01")

	w := env.request(t, http.MethodDelete, "/users/me/video_rate_later/video-id-01/", "user1-token", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateLaterRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/users/me/video_rate_later/"},
		{http.MethodPost, "/users/me/video_rate_later/"},
		{http.MethodGet, "/users/me/video_rate_later/video-id-01/"},
		{http.MethodDelete, "/users/me/video_rate_later/video-id-01/"},
	}
	for _, tc := range cases {
		w := env.request(t, tc.method, tc.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}
