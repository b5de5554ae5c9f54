package mysql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	comparisondomain "github.com/wyfcoding/videorating/internal/comparison/domain"
	"github.com/wyfcoding/videorating/internal/rating/domain"
	videodomain "github.com/wyfcoding/videorating/internal/video/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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
		&domain.ContributorRating{},
		&domain.ContributorRatingCriteriaScore{},
	))
	return db
}

func createVideo(t *testing.T, db *gorm.DB, videoID string) *videodomain.Video {
	t.Helper()
	video := &videodomain.Video{VideoID: videoID}
	require.NoError(t, db.Create(video).Error)
	return video
}

func createComparison(t *testing.T, db *gorm.DB, userID, video1ID, video2ID uint) *comparisondomain.Comparison {
	t.Helper()
	comparison := &comparisondomain.Comparison{UserID: userID, Video1ID: video1ID, Video2ID: video2ID}
	require.NoError(t, db.Create(comparison).Error)
	return comparison
}

func TestGetByUserAndVideoCountsOwnComparisons(t *testing.T) {
	db := newTestDB(t)
	repo := NewContributorRatingRepository(db)
	ctx := context.Background()

	v1 := createVideo(t, db, "video-id-01")
	v2 := createVideo(t, db, "video-id-02")
	v3 := createVideo(t, db, "video-id-03")

	require.NoError(t, repo.Create(ctx, &domain.ContributorRating{UserID: 1, VideoID: v1.ID}))

	createComparison(t, db, 1, v1.ID, v2.ID)
	createComparison(t, db, 1, v3.ID, v1.ID)
	// 另一用户对同一视频的比较不计入
	createComparison(t, db, 2, v1.ID, v2.ID)

	rating, err := repo.GetByUserAndVideo(ctx, 1, "video-id-01")
	require.NoError(t, err)
	assert.Equal(t, int64(2), rating.NComparisons)
	assert.Equal(t, "video-id-01", rating.Video.VideoID)
}

func TestGetByUserAndVideoExcludesDeletedComparisons(t *testing.T) {
	db := newTestDB(t)
	repo := NewContributorRatingRepository(db)
	ctx := context.Background()

	v1 := createVideo(t, db, "video-id-01")
	v2 := createVideo(t, db, "video-id-02")

	require.NoError(t, repo.Create(ctx, &domain.ContributorRating{UserID: 1, VideoID: v1.ID}))
	comparison := createComparison(t, db, 1, v1.ID, v2.ID)

	rating, err := repo.GetByUserAndVideo(ctx, 1, "video-id-01")
	require.NoError(t, err)
	require.Equal(t, int64(1), rating.NComparisons)

	require.NoError(t, db.Delete(comparison).Error)

	rating, err = repo.GetByUserAndVideo(ctx, 1, "video-id-01")
	require.NoError(t, err)
	assert.Equal(t, int64(0), rating.NComparisons)
}

func TestGetByUserAndVideoNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewContributorRatingRepository(db)

	_, err := repo.GetByUserAndVideo(context.Background(), 1, "missing-video")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetByUserAndVideoScopedToUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewContributorRatingRepository(db)
	ctx := context.Background()

	v1 := createVideo(t, db, "video-id-01")
	require.NoError(t, repo.Create(ctx, &domain.ContributorRating{UserID: 1, VideoID: v1.ID}))

	_, err := repo.GetByUserAndVideo(ctx, 2, "video-id-01")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateDuplicateReturnsAlreadyExists(t *testing.T) {
	db := newTestDB(t)
	repo := NewContributorRatingRepository(db)
	ctx := context.Background()

	v1 := createVideo(t, db, "video-id-01")
	require.NoError(t, repo.Create(ctx, &domain.ContributorRating{UserID: 1, VideoID: v1.ID}))

	err := repo.Create(ctx, &domain.ContributorRating{UserID: 1, VideoID: v1.ID})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	// 不同用户对同一视频仍可创建
	require.NoError(t, repo.Create(ctx, &domain.ContributorRating{UserID: 2, VideoID: v1.ID}))
}

func TestListByUserHidesZeroComparisonRatings(t *testing.T) {
	db := newTestDB(t)
	repo := NewContributorRatingRepository(db)
	ctx := context.Background()

	v1 := createVideo(t, db, "video-id-01")
	v2 := createVideo(t, db, "video-id-02")

	require.NoError(t, repo.Create(ctx, &domain.ContributorRating{UserID: 1, VideoID: v1.ID}))
	require.NoError(t, repo.Create(ctx, &domain.ContributorRating{UserID: 1, VideoID: v2.ID}))
	createComparison(t, db, 1, v1.ID, v2.ID)

	// 两个视频都参与了比较，列表应含两条
	ratings, total, err := repo.ListByUser(ctx, 1, domain.ListFilter{Limit: 30})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, ratings, 2)

	v3 := createVideo(t, db, "video-id-03")
	require.NoError(t, repo.Create(ctx, &domain.ContributorRating{UserID: 1, VideoID: v3.ID}))

	ratings, total, err = repo.ListByUser(ctx, 1, domain.ListFilter{Limit: 30})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, r := range ratings {
		assert.NotEqual(t, "video-id-03", r.Video.VideoID)
	}

	// 零比较的评分仍可直接获取
	rating, err := repo.GetByUserAndVideo(ctx, 1, "video-id-03")
	require.NoError(t, err)
	assert.Equal(t, int64(0), rating.NComparisons)
}

func TestListByUserOrderAndFilter(t *testing.T) {
	db := newTestDB(t)
	repo := NewContributorRatingRepository(db)
	ctx := context.Background()

	v1 := createVideo(t, db, "video-id-01")
	v2 := createVideo(t, db, "video-id-02")

	require.NoError(t, repo.Create(ctx, &domain.ContributorRating{UserID: 1, VideoID: v1.ID, IsPublic: true}))
	require.NoError(t, repo.Create(ctx, &domain.ContributorRating{UserID: 1, VideoID: v2.ID}))
	createComparison(t, db, 1, v1.ID, v2.ID)

	ratings, total, err := repo.ListByUser(ctx, 1, domain.ListFilter{Limit: 30})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	// 后创建的在前
	assert.Equal(t, "video-id-02", ratings[0].Video.VideoID)
	assert.Equal(t, "video-id-01", ratings[1].Video.VideoID)

	isPublic := true
	ratings, total, err = repo.ListByUser(ctx, 1, domain.ListFilter{IsPublic: &isPublic, Limit: 30})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, "video-id-01", ratings[0].Video.VideoID)

	isPublic = false
	ratings, total, err = repo.ListByUser(ctx, 1, domain.ListFilter{IsPublic: &isPublic, Limit: 30})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, "video-id-02", ratings[0].Video.VideoID)
}

func TestListByUserPagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewContributorRatingRepository(db)
	ctx := context.Background()

	anchor := createVideo(t, db, "video-id-00")
	for _, id := range []string{"video-id-01", "video-id-02", "video-id-03"} {
		v := createVideo(t, db, id)
		require.NoError(t, repo.Create(ctx, &domain.ContributorRating{UserID: 1, VideoID: v.ID}))
		createComparison(t, db, 1, anchor.ID, v.ID)
	}

	ratings, total, err := repo.ListByUser(ctx, 1, domain.ListFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, ratings, 2)

	ratings, _, err = repo.ListByUser(ctx, 1, domain.ListFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, ratings, 1)
}

func TestUpdateAllIsPublicScopedToUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewContributorRatingRepository(db)
	ctx := context.Background()

	v1 := createVideo(t, db, "video-id-01")
	v2 := createVideo(t, db, "video-id-02")

	require.NoError(t, repo.Create(ctx, &domain.ContributorRating{UserID: 1, VideoID: v1.ID, IsPublic: true}))
	require.NoError(t, repo.Create(ctx, &domain.ContributorRating{UserID: 1, VideoID: v2.ID}))
	require.NoError(t, repo.Create(ctx, &domain.ContributorRating{UserID: 2, VideoID: v1.ID, IsPublic: true}))

	require.NoError(t, repo.UpdateAllIsPublic(ctx, 1, false))

	for _, videoID := range []string{"video-id-01", "video-id-02"} {
		rating, err := repo.GetByUserAndVideo(ctx, 1, videoID)
		require.NoError(t, err)
		assert.False(t, rating.IsPublic)
	}

	other, err := repo.GetByUserAndVideo(ctx, 2, "video-id-01")
	require.NoError(t, err)
	assert.True(t, other.IsPublic)
}

func TestUpdateIsPublicPersists(t *testing.T) {
	db := newTestDB(t)
	repo := NewContributorRatingRepository(db)
	ctx := context.Background()

	v1 := createVideo(t, db, "video-id-01")
	rating := &domain.ContributorRating{UserID: 1, VideoID: v1.ID}
	require.NoError(t, repo.Create(ctx, rating))

	require.NoError(t, repo.UpdateIsPublic(ctx, rating.ID, true))

	got, err := repo.GetByUserAndVideo(ctx, 1, "video-id-01")
	require.NoError(t, err)
	assert.True(t, got.IsPublic)
}

func TestGetByUserAndVideoLoadsCriteriaScores(t *testing.T) {
	db := newTestDB(t)
	repo := NewContributorRatingRepository(db)
	ctx := context.Background()

	v1 := createVideo(t, db, "video-id-01")
	rating := &domain.ContributorRating{UserID: 1, VideoID: v1.ID}
	require.NoError(t, repo.Create(ctx, rating))
	require.NoError(t, db.Create(&domain.ContributorRatingCriteriaScore{
		ContributorRatingID: rating.ID,
		Criteria:            "test-criteria",
		Score:               1,
		Uncertainty:         2,
	}).Error)

	got, err := repo.GetByUserAndVideo(ctx, 1, "video-id-01")
	require.NoError(t, err)
	require.Len(t, got.CriteriaScores, 1)
	assert.Equal(t, "test-criteria", got.CriteriaScores[0].Criteria)
	assert.Equal(t, 1.0, got.CriteriaScores[0].Score)
	assert.Equal(t, 2.0, got.CriteriaScores[0].Uncertainty)
}
