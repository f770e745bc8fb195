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

func newCatalogService(t *testing.T) (CatalogService, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	return NewCatalogService(
		repository.NewCategoryRepository(db),
		repository.NewGenreRepository(db),
		repository.NewTitleRepository(db),
		nil,
	), db
}

func TestCreateCategory_AdminOnly(t *testing.T) {
	svc, db := newCatalogService(t)

	user := createTestUser(t, db, "alice", models.RoleUser)
	moderator := createTestUser(t, db, "mod", models.RoleModerator)
	admin := createTestUser(t, db, "admin", models.RoleAdmin)

	req := dto.CategoryRequest{Name: "Films", Slug: "films"}

	_, err := svc.CreateCategory(nil, req)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.CreateCategory(actorFor(user), req)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.CreateCategory(actorFor(moderator), req)
	assert.ErrorIs(t, err, ErrForbidden)

	created, err := svc.CreateCategory(actorFor(admin), req)
	require.NoError(t, err)
	assert.Equal(t, "films", created.Slug)
}

func TestCreateCategory_SlugValidation(t *testing.T) {
	svc, db := newCatalogService(t)
	admin := actorFor(createTestUser(t, db, "admin", models.RoleAdmin))

	_, err := svc.CreateCategory(admin, dto.CategoryRequest{Name: "Bad", Slug: "no spaces"})
	assert.ErrorIs(t, err, ErrSlugInvalid)
	_, err = svc.CreateCategory(admin, dto.CategoryRequest{Name: "Bad", Slug: ""})
	assert.ErrorIs(t, err, ErrSlugInvalid)

	_, err = svc.CreateCategory(admin, dto.CategoryRequest{Name: "Films", Slug: "films"})
	require.NoError(t, err)
	_, err = svc.CreateCategory(admin, dto.CategoryRequest{Name: "Movies", Slug: "films"})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestDeleteCategory_DetachesTitles(t *testing.T) {
	svc, db := newCatalogService(t)
	ctx := context.Background()
	admin := actorFor(createTestUser(t, db, "admin", models.RoleAdmin))

	_, err := svc.CreateCategory(admin, dto.CategoryRequest{Name: "Films", Slug: "films"})
	require.NoError(t, err)

	title, err := svc.CreateTitle(ctx, admin, dto.TitleRequest{Name: "Solaris", Year: 1972, Category: "films"})
	require.NoError(t, err)
	require.NotNil(t, title.Category)

	require.NoError(t, svc.DeleteCategory(admin, "films"))

	// the title survives with its category reference cleared
	got, err := svc.GetTitle(ctx, title.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Category)

	assert.ErrorIs(t, svc.DeleteCategory(admin, "films"), ErrCategoryNotFound)
}

func TestDeleteGenre_DetachesTitles(t *testing.T) {
	svc, db := newCatalogService(t)
	ctx := context.Background()
	admin := actorFor(createTestUser(t, db, "admin", models.RoleAdmin))

	_, err := svc.CreateGenre(admin, dto.CategoryRequest{Name: "Drama", Slug: "drama"})
	require.NoError(t, err)
	_, err = svc.CreateGenre(admin, dto.CategoryRequest{Name: "Sci-Fi", Slug: "sci-fi"})
	require.NoError(t, err)

	title, err := svc.CreateTitle(ctx, admin, dto.TitleRequest{
		Name:  "Solaris",
		Year:  1972,
		Genre: []string{"drama", "sci-fi"},
	})
	require.NoError(t, err)
	require.Len(t, title.Genre, 2)

	require.NoError(t, svc.DeleteGenre(admin, "drama"))

	got, err := svc.GetTitle(ctx, title.ID)
	require.NoError(t, err)
	require.Len(t, got.Genre, 1)
	assert.Equal(t, "sci-fi", got.Genre[0].Slug)

	var links int64
	require.NoError(t, db.Model(&models.TitleGenre{}).Count(&links).Error)
	assert.Equal(t, int64(1), links)
}

func TestCreateTitle_Validation(t *testing.T) {
	svc, db := newCatalogService(t)
	ctx := context.Background()
	admin := actorFor(createTestUser(t, db, "admin", models.RoleAdmin))

	_, err := svc.CreateTitle(ctx, admin, dto.TitleRequest{Name: "From the Future", Year: 2999})
	assert.ErrorIs(t, err, ErrYearInFuture)

	_, err = svc.CreateTitle(ctx, admin, dto.TitleRequest{Name: "Solaris", Year: 1972, Category: "nope"})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = svc.CreateTitle(ctx, admin, dto.TitleRequest{Name: "Solaris", Year: 1972, Genre: []string{"nope"}})
	assert.ErrorIs(t, err, ErrGenreNotFound)
}

func TestUpdateTitle_ClearsCategory(t *testing.T) {
	svc, db := newCatalogService(t)
	ctx := context.Background()
	admin := actorFor(createTestUser(t, db, "admin", models.RoleAdmin))

	_, err := svc.CreateCategory(admin, dto.CategoryRequest{Name: "Films", Slug: "films"})
	require.NoError(t, err)
	title, err := svc.CreateTitle(ctx, admin, dto.TitleRequest{Name: "Solaris", Year: 1972, Category: "films"})
	require.NoError(t, err)

	empty := ""
	updated, err := svc.UpdateTitle(ctx, admin, title.ID, dto.UpdateTitleRequest{Category: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.Category)

	name := "Solyaris"
	updated, err = svc.UpdateTitle(ctx, admin, title.ID, dto.UpdateTitleRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Solyaris", updated.Name)
}

func TestListTitles_Filters(t *testing.T) {
	svc, db := newCatalogService(t)
	ctx := context.Background()
	admin := actorFor(createTestUser(t, db, "admin", models.RoleAdmin))

	_, err := svc.CreateGenre(admin, dto.CategoryRequest{Name: "Drama", Slug: "drama"})
	require.NoError(t, err)
	_, err = svc.CreateCategory(admin, dto.CategoryRequest{Name: "Films", Slug: "films"})
	require.NoError(t, err)

	_, err = svc.CreateTitle(ctx, admin, dto.TitleRequest{Name: "Solaris", Year: 1972, Category: "films", Genre: []string{"drama"}})
	require.NoError(t, err)
	_, err = svc.CreateTitle(ctx, admin, dto.TitleRequest{Name: "Stalker", Year: 1979, Category: "films"})
	require.NoError(t, err)
	_, err = svc.CreateTitle(ctx, admin, dto.TitleRequest{Name: "Roadside Picnic", Year: 1972})
	require.NoError(t, err)

	page, err := svc.ListTitles(ctx, dto.TitleFilter{Genre: "drama"}, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "Solaris", page.Data[0].Name)

	page, err = svc.ListTitles(ctx, dto.TitleFilter{Category: "films"}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	page, err = svc.ListTitles(ctx, dto.TitleFilter{Year: 1972}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	page, err = svc.ListTitles(ctx, dto.TitleFilter{Name: "stalk"}, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "Stalker", page.Data[0].Name)
}

func TestListCategories_Pagination(t *testing.T) {
	svc, db := newCatalogService(t)
	admin := actorFor(createTestUser(t, db, "admin", models.RoleAdmin))

	for _, slug := range []string{"films", "books", "music"} {
		_, err := svc.CreateCategory(admin, dto.CategoryRequest{Name: slug, Slug: slug})
		require.NoError(t, err)
	}

	page, err := svc.ListCategories("", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Data, 2)

	page, err = svc.ListCategories("boo", 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "books", page.Data[0].Slug)
}

func TestGetTitle_NotFound(t *testing.T) {
	svc, _ := newCatalogService(t)

	_, err := svc.GetTitle(context.Background(), 404)
	assert.ErrorIs(t, err, ErrTitleNotFound)
}

func TestUpdateTitle_EmptyGenreListClearsSet(t *testing.T) {
	svc, db := newCatalogService(t)
	ctx := context.Background()
	admin := actorFor(createTestUser(t, db, "admin", models.RoleAdmin))

	_, err := svc.CreateGenre(admin, dto.CategoryRequest{Name: "Drama", Slug: "drama"})
	require.NoError(t, err)
	title, err := svc.CreateTitle(ctx, admin, dto.TitleRequest{
		Name:  "Solaris",
		Year:  1972,
		Genre: []string{"drama"},
	})
	require.NoError(t, err)
	require.Len(t, title.Genre, 1)

	// an explicit empty list clears the set; a nil list leaves it alone
	updated, err := svc.UpdateTitle(ctx, admin, title.ID, dto.UpdateTitleRequest{Genre: []string{}})
	require.NoError(t, err)
	assert.Empty(t, updated.Genre)

	var links int64
	require.NoError(t, db.Model(&models.TitleGenre{}).Where("title_id = ?", title.ID).Count(&links).Error)
	assert.Equal(t, int64(0), links)

	got, err := svc.GetTitle(ctx, title.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Genre)
}

func TestUpdateTitle_NilGenreListKeepsSet(t *testing.T) {
	svc, db := newCatalogService(t)
	ctx := context.Background()
	admin := actorFor(createTestUser(t, db, "admin", models.RoleAdmin))

	_, err := svc.CreateGenre(admin, dto.CategoryRequest{Name: "Drama", Slug: "drama"})
	require.NoError(t, err)
	title, err := svc.CreateTitle(ctx, admin, dto.TitleRequest{
		Name:  "Solaris",
		Year:  1972,
		Genre: []string{"drama"},
	})
	require.NoError(t, err)

	name := "Solyaris"
	_, err = svc.UpdateTitle(ctx, admin, title.ID, dto.UpdateTitleRequest{Name: &name})
	require.NoError(t, err)

	got, err := svc.GetTitle(ctx, title.ID)
	require.NoError(t, err)
	require.Len(t, got.Genre, 1)
	assert.Equal(t, "drama", got.Genre[0].Slug)
}

func TestCreateTitle_DuplicateGenreSlugsCollapse(t *testing.T) {
	svc, db := newCatalogService(t)
	ctx := context.Background()
	admin := actorFor(createTestUser(t, db, "admin", models.RoleAdmin))

	_, err := svc.CreateGenre(admin, dto.CategoryRequest{Name: "Drama", Slug: "drama"})
	require.NoError(t, err)

	title, err := svc.CreateTitle(ctx, admin, dto.TitleRequest{
		Name:  "Solaris",
		Year:  1972,
		Genre: []string{"drama", "drama"},
	})
	require.NoError(t, err)
	assert.Len(t, title.Genre, 1)
}

func TestListGenres_SubstringSearch(t *testing.T) {
	svc, db := newCatalogService(t)
	admin := actorFor(createTestUser(t, db, "admin", models.RoleAdmin))

	for _, g := range []struct{ name, slug string }{
		{"Drama", "drama"},
		{"Dramedy", "dramedy"},
		{"Horror", "horror"},
	} {
		_, err := svc.CreateGenre(admin, dto.CategoryRequest{Name: g.name, Slug: g.slug})
		require.NoError(t, err)
	}

	page, err := svc.ListGenres("Dram", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	// an exact name still matches
	page, err = svc.ListGenres("Horror", 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "horror", page.Data[0].Slug)
}
