package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	comparisondomain "github.com/wyfcoding/videorating/internal/comparison/domain"
	"github.com/wyfcoding/videorating/internal/rating/application"
	ratingdomain "github.com/wyfcoding/videorating/internal/rating/domain"
	ratingmessaging "github.com/wyfcoding/videorating/internal/rating/infrastructure/messaging"
	ratingmysql "github.com/wyfcoding/videorating/internal/rating/infrastructure/persistence/mysql"
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
	return nil, ratingdomain.ErrNotFound
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
		&comparisondomain.Comparison{},
		&comparisondomain.ComparisonCriteriaScore{},
		&ratingdomain.ContributorRating{},
		&ratingdomain.ContributorRatingCriteriaScore{},
	))

	videoRepo := videomysql.NewVideoRepository(db)
	ratingRepo := ratingmysql.NewContributorRatingRepository(db)
	publisher := ratingmessaging.NewNoopPublisher()
	cmd := application.NewRatingCommandService(ratingRepo, videoRepo, publisher)
	query := application.NewRatingQueryService(ratingRepo)

	parser := &testParser{principals: map[string]*middleware.Principal{
		"user1-token": {UserID: 1, Username: "user1"},
		"user2-token": {UserID: 2, Username: "user2"},
	}}

	router := gin.New()
	NewHandler(cmd, query, nil).RegisterRoutes(router.Group(""), middleware.GinAuthMiddleware(parser))
	return &testEnv{router: router, db: db}
}

func (e *testEnv) request(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
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

func (e *testEnv) seedRating(t *testing.T, userID uint, video *videodomain.Video, isPublic bool) *ratingdomain.ContributorRating {
	t.Helper()
	rating := &ratingdomain.ContributorRating{UserID: userID, VideoID: video.ID, IsPublic: isPublic}
	require.NoError(t, e.db.Create(rating).Error)
	return rating
}

func (e *testEnv) seedComparison(t *testing.T, userID uint, v1, v2 *videodomain.Video) {
	t.Helper()
	require.NoError(t, e.db.Create(&comparisondomain.Comparison{
		UserID: userID, Video1ID: v1.ID, Video2ID: v2.ID,
	}).Error)
}

func decodePage(t *testing.T, w *httptest.ResponseRecorder) (int64, []map[string]any) {
	t.Helper()
	var page struct {
		Count   int64            `json:"count"`
		Results []map[string]any `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	return page.Count, page.Results
}

func TestRatingsAnonymousUnauthorized(t *testing.T) {
	env := newTestEnv(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/users/me/contributor_ratings/"},
		{http.MethodPost, "/users/me/contributor_ratings/"},
		{http.MethodGet, "/users/me/contributor_ratings/video-id-01/"},
		{http.MethodPatch, "/users/me/contributor_ratings/_all/"},
	} {
		w := env.request(t, tc.method, tc.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestListRatings(t *testing.T) {
	env := newTestEnv(t)

	v1 := env.seedVideo(t, "video-id-01")
	v2 := env.seedVideo(t, "video-id-02")
	env.seedRating(t, 1, v1, false)
	env.seedComparison(t, 1, v1, v2)
	// 其他用户的评分不应出现
	env.seedRating(t, 2, v2, true)
	env.seedComparison(t, 2, v1, v2)

	w := env.request(t, http.MethodGet, "/users/me/contributor_ratings/", "user1-token", "")
	require.Equal(t, http.StatusOK, w.Code)

	count, results := decodePage(t, w)
	assert.Equal(t, int64(1), count)
	require.Len(t, results, 1)
	video := results[0]["video"].(map[string]any)
	assert.Equal(t, "video-id-01", video["video_id"])
	assert.Equal(t, float64(1), results[0]["n_comparisons"])
}

func TestListRatingsHidesUncomparedVideos(t *testing.T) {
	env := newTestEnv(t)

	v1 := env.seedVideo(t, "video-id-01")
	env.seedRating(t, 1, v1, false)

	w := env.request(t, http.MethodGet, "/users/me/contributor_ratings/", "user1-token", "")
	require.Equal(t, http.StatusOK, w.Code)

	count, results := decodePage(t, w)
	assert.Equal(t, int64(0), count)
	assert.Empty(t, results)
}

func TestListRatingsVisibilityFilter(t *testing.T) {
	env := newTestEnv(t)

	v1 := env.seedVideo(t, "video-id-01")
	v2 := env.seedVideo(t, "video-id-02")
	env.seedRating(t, 1, v1, true)
	env.seedRating(t, 1, v2, false)
	env.seedComparison(t, 1, v1, v2)

	w := env.request(t, http.MethodGet, "/users/me/contributor_ratings/?is_public=true", "user1-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	count, results := decodePage(t, w)
	assert.Equal(t, int64(1), count)
	require.Len(t, results, 1)
	assert.Equal(t, true, results[0]["is_public"])

	w = env.request(t, http.MethodGet, "/users/me/contributor_ratings/?is_public=false", "user1-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	count, results = decodePage(t, w)
	assert.Equal(t, int64(1), count)
	require.Len(t, results, 1)
	assert.Equal(t, false, results[0]["is_public"])

	w = env.request(t, http.MethodGet, "/users/me/contributor_ratings/?is_public=maybe", "user1-token", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "'is_public' query param must be 'true' or 'false'")
}

func TestCreateRating(t *testing.T) {
	env := newTestEnv(t)
	env.seedVideo(t, "video-id-03")

	w := env.request(t, http.MethodPost, "/users/me/contributor_ratings/", "user1-token",
		`{"video_id": "video-id-03", "is_public": true}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var dto application.RatingDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.Equal(t, "video-id-03", dto.Video.VideoID)
	assert.True(t, dto.IsPublic)
	assert.Equal(t, int64(0), dto.NComparisons)

	// 重复创建同一视频的评分
	w = env.request(t, http.MethodPost, "/users/me/contributor_ratings/", "user1-token",
		`{"video_id": "video-id-03"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRatingUnknownVideo(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/users/me/contributor_ratings/", "user1-token",
		`{"video_id": "nope-404"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRatingMissingVideoID(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/users/me/contributor_ratings/", "user1-token", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "video_id")
}

func TestGetRating(t *testing.T) {
	env := newTestEnv(t)

	v1 := env.seedVideo(t, "video-id-01")
	rating := env.seedRating(t, 1, v1, false)
	require.NoError(t, env.db.Create(&ratingdomain.ContributorRatingCriteriaScore{
		ContributorRatingID: rating.ID,
		Criteria:            "test-criteria",
		Score:               1,
		Uncertainty:         2,
	}).Error)

	w := env.request(t, http.MethodGet, "/users/me/contributor_ratings/video-id-01/", "user1-token", "")
	require.Equal(t, http.StatusOK, w.Code)

	var dto application.RatingDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.Equal(t, "video-id-01", dto.Video.VideoID)
	assert.Equal(t, int64(0), dto.NComparisons)
	require.Len(t, dto.CriteriaScores, 1)
	assert.Equal(t, "test-criteria", dto.CriteriaScores[0].Criteria)
	assert.Equal(t, 1.0, dto.CriteriaScores[0].Score)
	assert.Equal(t, 2.0, dto.CriteriaScores[0].Uncertainty)
}

func TestGetRatingNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.seedVideo(t, "video-id-01")

	w := env.request(t, http.MethodGet, "/users/me/contributor_ratings/video-id-01/", "user1-token", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRatingOtherUserInvisible(t *testing.T) {
	env := newTestEnv(t)

	v1 := env.seedVideo(t, "video-id-01")
	env.seedRating(t, 2, v1, true)

	w := env.request(t, http.MethodGet, "/users/me/contributor_ratings/video-id-01/", "user1-token", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateRatingVisibility(t *testing.T) {
	env := newTestEnv(t)

	v1 := env.seedVideo(t, "video-id-01")
	env.seedRating(t, 1, v1, false)

	w := env.request(t, http.MethodPatch, "/users/me/contributor_ratings/video-id-01/", "user1-token",
		`{"is_public": true}`)
	require.Equal(t, http.StatusOK, w.Code)

	var dto application.RatingDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.True(t, dto.IsPublic)

	w = env.request(t, http.MethodGet, "/users/me/contributor_ratings/video-id-01/", "user1-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.True(t, dto.IsPublic)
}

func TestUpdateRatingVisibilityNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.seedVideo(t, "video-id-01")

	w := env.request(t, http.MethodPatch, "/users/me/contributor_ratings/video-id-01/", "user1-token",
		`{"is_public": true}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPutRequiresIsPublic(t *testing.T) {
	env := newTestEnv(t)

	v1 := env.seedVideo(t, "video-id-01")
	env.seedRating(t, 1, v1, false)

	w := env.request(t, http.MethodPut, "/users/me/contributor_ratings/video-id-01/", "user1-token", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPatchWithoutIsPublicKeepsCurrent(t *testing.T) {
	env := newTestEnv(t)

	v1 := env.seedVideo(t, "video-id-01")
	env.seedRating(t, 1, v1, true)

	w := env.request(t, http.MethodPatch, "/users/me/contributor_ratings/video-id-01/", "user1-token", `{}`)
	require.Equal(t, http.StatusOK, w.Code)

	var dto application.RatingDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.True(t, dto.IsPublic)
}

func TestUpdateAllRatings(t *testing.T) {
	env := newTestEnv(t)

	v1 := env.seedVideo(t, "video-id-01")
	v2 := env.seedVideo(t, "video-id-02")
	env.seedRating(t, 1, v1, true)
	env.seedRating(t, 1, v2, true)
	env.seedRating(t, 2, v1, true)

	w := env.request(t, http.MethodPatch, "/users/me/contributor_ratings/_all/", "user1-token",
		`{"is_public": false}`)
	require.Equal(t, http.StatusOK, w.Code)

	for _, videoID := range []string{"video-id-01", "video-id-02"} {
		w = env.request(t, http.MethodGet, "/users/me/contributor_ratings/"+videoID+"/", "user1-token", "")
		require.Equal(t, http.StatusOK, w.Code)
		var dto application.RatingDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
		assert.False(t, dto.IsPublic, videoID)
	}

	// 其他用户的评分不受影响
	w = env.request(t, http.MethodGet, "/users/me/contributor_ratings/video-id-01/", "user2-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	var dto application.RatingDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.True(t, dto.IsPublic)
}

func TestUpdateAllRequiresIsPublic(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPatch, "/users/me/contributor_ratings/_all/", "user1-token", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRatingsPagination(t *testing.T) {
	env := newTestEnv(t)

	anchor := env.seedVideo(t, "video-id-00")
	for _, id := range []string{"video-id-01", "video-id-02", "video-id-03"} {
		v := env.seedVideo(t, id)
		env.seedRating(t, 1, v, false)
		env.seedComparison(t, 1, anchor, v)
	}

	w := env.request(t, http.MethodGet, "/users/me/contributor_ratings/?limit=2", "user1-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	count, results := decodePage(t, w)
	assert.Equal(t, int64(3), count)
	assert.Len(t, results, 2)

	w = env.request(t, http.MethodGet, "/users/me/contributor_ratings/?limit=2&offset=2", "user1-token", "")
	require.Equal(t, http.StatusOK, w.Code)
	_, results = decodePage(t, w)
	assert.Len(t, results, 1)

	w = env.request(t, http.MethodGet, "/users/me/contributor_ratings/?limit=-1", "user1-token", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
