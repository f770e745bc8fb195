package service

import (
	"context"
	"testing"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReviewService(t *testing.T) (ReviewService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	reviewRepo := repository.NewReviewRepository(db)
	titleRepo := repository.NewTitleRepository(db)
	return NewReviewService(reviewRepo, titleRepo, nil), db
}

func createTestTitle(t *testing.T, db *gorm.DB, name string) *models.Title {
	t.Helper()

	title := &models.Title{Name: name, Year: 2001}
	require.NoError(t, db.Create(title).Error)
	return title
}

func titleRating(t *testing.T, db *gorm.DB, titleID int64) *float64 {
	t.Helper()

	var title models.Title
	require.NoError(t, db.First(&title, titleID).Error)
	return title.Rating
}

func TestCreateReview_RecomputesRating(t *testing.T) {
	svc, db := newReviewService(t)
	ctx := context.Background()

	title := createTestTitle(t, db, "Solaris")
	alice := createTestUser(t, db, "alice", models.RoleUser)
	bob := createTestUser(t, db, "bob", models.RoleUser)

	// no reviews: no rating, not zero
	assert.Nil(t, titleRating(t, db, title.ID))

	_, err := svc.CreateReview(ctx, actorFor(alice), title.ID, dto.CreateReviewRequest{Text: "great", Score: 8})
	require.NoError(t, err)
	rating := titleRating(t, db, title.ID)
	require.NotNil(t, rating)
	assert.InDelta(t, 8.0, *rating, 0.001)

	_, err = svc.CreateReview(ctx, actorFor(bob), title.ID, dto.CreateReviewRequest{Text: "meh", Score: 4})
	require.NoError(t, err)
	rating = titleRating(t, db, title.ID)
	require.NotNil(t, rating)
	assert.InDelta(t, 6.0, *rating, 0.001)
}

func TestDeleteReview_RecomputesRating(t *testing.T) {
	svc, db := newReviewService(t)
	ctx := context.Background()

	title := createTestTitle(t, db, "Solaris")
	alice := createTestUser(t, db, "alice", models.RoleUser)
	bob := createTestUser(t, db, "bob", models.RoleUser)

	first, err := svc.CreateReview(ctx, actorFor(alice), title.ID, dto.CreateReviewRequest{Text: "great", Score: 8})
	require.NoError(t, err)
	second, err := svc.CreateReview(ctx, actorFor(bob), title.ID, dto.CreateReviewRequest{Text: "meh", Score: 4})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteReview(ctx, actorFor(alice), title.ID, first.ID))
	rating := titleRating(t, db, title.ID)
	require.NotNil(t, rating)
	assert.InDelta(t, 4.0, *rating, 0.001)

	// removing the last review returns the title to "no rating"
	require.NoError(t, svc.DeleteReview(ctx, actorFor(bob), title.ID, second.ID))
	assert.Nil(t, titleRating(t, db, title.ID))
}

func TestUpdateReview_RecomputesRating(t *testing.T) {
	svc, db := newReviewService(t)
	ctx := context.Background()

	title := createTestTitle(t, db, "Solaris")
	alice := createTestUser(t, db, "alice", models.RoleUser)

	review, err := svc.CreateReview(ctx, actorFor(alice), title.ID, dto.CreateReviewRequest{Text: "great", Score: 8})
	require.NoError(t, err)

	score := 2
	_, err = svc.UpdateReview(ctx, actorFor(alice), title.ID, review.ID, dto.UpdateReviewRequest{Score: &score})
	require.NoError(t, err)

	rating := titleRating(t, db, title.ID)
	require.NotNil(t, rating)
	assert.InDelta(t, 2.0, *rating, 0.001)
}

func TestCreateReview_DuplicateAuthor(t *testing.T) {
	svc, db := newReviewService(t)
	ctx := context.Background()

	title := createTestTitle(t, db, "Solaris")
	alice := createTestUser(t, db, "alice", models.RoleUser)

	_, err := svc.CreateReview(ctx, actorFor(alice), title.ID, dto.CreateReviewRequest{Text: "great", Score: 8})
	require.NoError(t, err)

	_, err = svc.CreateReview(ctx, actorFor(alice), title.ID, dto.CreateReviewRequest{Text: "again", Score: 9})
	assert.ErrorIs(t, err, ErrDuplicateReview)

	var count int64
	require.NoError(t, db.Model(&models.Review{}).Where("title_id = ?", title.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// the same author may still review a different title
	other := createTestTitle(t, db, "Stalker")
	_, err = svc.CreateReview(ctx, actorFor(alice), other.ID, dto.CreateReviewRequest{Text: "fine", Score: 7})
	assert.NoError(t, err)
}

func TestCreateReview_UniqueIndexBackstop(t *testing.T) {
	_, db := newReviewService(t)

	title := createTestTitle(t, db, "Solaris")
	alice := createTestUser(t, db, "alice", models.RoleUser)
	reviewRepo := repository.NewReviewRepository(db)

	require.NoError(t, reviewRepo.Create(&models.Review{TitleID: title.ID, AuthorID: alice.ID, Text: "a", Score: 5}))

	// bypassing the service pre-check still cannot produce a second row
	err := reviewRepo.Create(&models.Review{TitleID: title.ID, AuthorID: alice.ID, Text: "b", Score: 6})
	require.Error(t, err)
	assert.True(t, isUniqueViolation(err))
}

func TestCreateReview_ScoreBounds(t *testing.T) {
	svc, db := newReviewService(t)
	ctx := context.Background()

	title := createTestTitle(t, db, "Solaris")
	alice := createTestUser(t, db, "alice", models.RoleUser)

	for _, score := range []int{0, 11, -3} {
		_, err := svc.CreateReview(ctx, actorFor(alice), title.ID, dto.CreateReviewRequest{Text: "x", Score: score})
		assert.ErrorIs(t, err, ErrScoreOutOfRange, "score %d", score)
	}
}

func TestCreateReview_TitleMissing(t *testing.T) {
	svc, db := newReviewService(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice", models.RoleUser)
	_, err := svc.CreateReview(ctx, actorFor(alice), 999, dto.CreateReviewRequest{Text: "x", Score: 5})
	assert.ErrorIs(t, err, ErrTitleNotFound)
}

func TestReviewOwnershipAndModeration(t *testing.T) {
	svc, db := newReviewService(t)
	ctx := context.Background()

	title := createTestTitle(t, db, "Solaris")
	alice := createTestUser(t, db, "alice", models.RoleUser)
	mallory := createTestUser(t, db, "mallory", models.RoleUser)
	moderator := createTestUser(t, db, "mod", models.RoleModerator)

	review, err := svc.CreateReview(ctx, actorFor(alice), title.ID, dto.CreateReviewRequest{Text: "great", Score: 8})
	require.NoError(t, err)

	text := "hijacked"
	_, err = svc.UpdateReview(ctx, actorFor(mallory), title.ID, review.ID, dto.UpdateReviewRequest{Text: &text})
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.DeleteReview(ctx, actorFor(mallory), title.ID, review.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// moderators may remove any review
	err = svc.DeleteReview(ctx, actorFor(moderator), title.ID, review.ID)
	assert.NoError(t, err)
	assert.Nil(t, titleRating(t, db, title.ID))
}

func TestGetReview_ScopedToTitle(t *testing.T) {
	svc, db := newReviewService(t)
	ctx := context.Background()

	first := createTestTitle(t, db, "Solaris")
	second := createTestTitle(t, db, "Stalker")
	alice := createTestUser(t, db, "alice", models.RoleUser)

	review, err := svc.CreateReview(ctx, actorFor(alice), first.ID, dto.CreateReviewRequest{Text: "great", Score: 8})
	require.NoError(t, err)

	_, err = svc.GetReview(ctx, second.ID, review.ID)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestReviewText_Sanitized(t *testing.T) {
	svc, db := newReviewService(t)
	ctx := context.Background()

	title := createTestTitle(t, db, "Solaris")
	alice := createTestUser(t, db, "alice", models.RoleUser)

	review, err := svc.CreateReview(ctx, actorFor(alice), title.ID, dto.CreateReviewRequest{
		Text:  `fine <script>alert("x")</script>movie`,
		Score: 7,
	})
	require.NoError(t, err)
	assert.NotContains(t, review.Text, "<script>")
	assert.Contains(t, review.Text, "movie")
}
