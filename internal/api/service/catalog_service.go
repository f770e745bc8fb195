package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/policy"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/cache"

	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrGenreNotFound    = errors.New("genre not found")
	ErrTitleNotFound    = errors.New("title not found")
	ErrSlugTaken        = errors.New("slug already in use")
	ErrSlugInvalid      = errors.New("slug may only contain letters, digits, hyphens and underscores")
	ErrYearInFuture     = errors.New("release year must not exceed the current year")
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type CatalogService interface {
	CreateCategory(actor *policy.Actor, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	DeleteCategory(actor *policy.Actor, slug string) error
	ListCategories(search string, page, pageSize int) (*dto.PaginatedResponse[dto.CategoryResponse], error)

	CreateGenre(actor *policy.Actor, req dto.CategoryRequest) (*dto.GenreResponse, error)
	DeleteGenre(actor *policy.Actor, slug string) error
	ListGenres(search string, page, pageSize int) (*dto.PaginatedResponse[dto.GenreResponse], error)

	CreateTitle(ctx context.Context, actor *policy.Actor, req dto.TitleRequest) (*dto.TitleResponse, error)
	UpdateTitle(ctx context.Context, actor *policy.Actor, id int64, req dto.UpdateTitleRequest) (*dto.TitleResponse, error)
	DeleteTitle(ctx context.Context, actor *policy.Actor, id int64) error
	GetTitle(ctx context.Context, id int64) (*dto.TitleResponse, error)
	ListTitles(ctx context.Context, filter dto.TitleFilter, page, pageSize int) (*dto.PaginatedResponse[dto.TitleResponse], error)
}

type catalogService struct {
	categoryRepo repository.CategoryRepository
	genreRepo    repository.GenreRepository
	titleRepo    repository.TitleRepository
	ratings      *cache.RatingCache
}

func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	genreRepo repository.GenreRepository,
	titleRepo repository.TitleRepository,
	ratings *cache.RatingCache,
) CatalogService {
	return &catalogService{
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
		titleRepo:    titleRepo,
		ratings:      ratings,
	}
}

func (s *catalogService) CreateCategory(actor *policy.Actor, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	if !policy.Allow(actor, policy.ActionCreate, policy.Resource{Kind: policy.KindCatalog}) {
		return nil, ErrForbidden
	}
	if !slugPattern.MatchString(req.Slug) {
		return nil, ErrSlugInvalid
	}
	if _, err := s.categoryRepo.FindBySlug(req.Slug); err == nil {
		return nil, ErrSlugTaken
	}

	category := &models.Category{Name: req.Name, Slug: req.Slug}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return dto.FromModelToCategoryResponse(category), nil
}

func (s *catalogService) DeleteCategory(actor *policy.Actor, slug string) error {
	if !policy.Allow(actor, policy.ActionDelete, policy.Resource{Kind: policy.KindCatalog}) {
		return ErrForbidden
	}
	if err := s.categoryRepo.Delete(slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}

func (s *catalogService) ListCategories(search string, page, pageSize int) (*dto.PaginatedResponse[dto.CategoryResponse], error) {
	categories, total, err := s.categoryRepo.List(search, page, pageSize)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, *dto.FromModelToCategoryResponse(&categories[i]))
	}
	return dto.NewPaginatedResponse(responses, int(total), page, pageSize), nil
}

func (s *catalogService) CreateGenre(actor *policy.Actor, req dto.CategoryRequest) (*dto.GenreResponse, error) {
	if !policy.Allow(actor, policy.ActionCreate, policy.Resource{Kind: policy.KindCatalog}) {
		return nil, ErrForbidden
	}
	if !slugPattern.MatchString(req.Slug) {
		return nil, ErrSlugInvalid
	}
	if _, err := s.genreRepo.FindBySlug(req.Slug); err == nil {
		return nil, ErrSlugTaken
	}

	genre := &models.Genre{Name: req.Name, Slug: req.Slug}
	if err := s.genreRepo.Create(genre); err != nil {
		return nil, err
	}
	return dto.FromModelToGenreResponse(genre), nil
}

func (s *catalogService) DeleteGenre(actor *policy.Actor, slug string) error {
	if !policy.Allow(actor, policy.ActionDelete, policy.Resource{Kind: policy.KindCatalog}) {
		return ErrForbidden
	}
	if err := s.genreRepo.Delete(slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGenreNotFound
		}
		return err
	}
	return nil
}

func (s *catalogService) ListGenres(search string, page, pageSize int) (*dto.PaginatedResponse[dto.GenreResponse], error) {
	genres, total, err := s.genreRepo.List(search, page, pageSize)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.GenreResponse, 0, len(genres))
	for i := range genres {
		responses = append(responses, *dto.FromModelToGenreResponse(&genres[i]))
	}
	return dto.NewPaginatedResponse(responses, int(total), page, pageSize), nil
}

func (s *catalogService) CreateTitle(ctx context.Context, actor *policy.Actor, req dto.TitleRequest) (*dto.TitleResponse, error) {
	if !policy.Allow(actor, policy.ActionCreate, policy.Resource{Kind: policy.KindCatalog}) {
		return nil, ErrForbidden
	}
	if req.Year > time.Now().Year() {
		return nil, ErrYearInFuture
	}

	title := &models.Title{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
	}

	if req.Category != "" {
		category, err := s.categoryRepo.FindBySlug(req.Category)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		title.CategoryID = &category.ID
		title.Category = category
	}

	genres, err := s.resolveGenres(req.Genre)
	if err != nil {
		return nil, err
	}
	title.Genres = genres

	if err := s.titleRepo.Create(ctx, title); err != nil {
		return nil, err
	}
	return dto.FromModelToTitleResponse(title), nil
}

func (s *catalogService) UpdateTitle(ctx context.Context, actor *policy.Actor, id int64, req dto.UpdateTitleRequest) (*dto.TitleResponse, error) {
	if !policy.Allow(actor, policy.ActionUpdate, policy.Resource{Kind: policy.KindCatalog}) {
		return nil, ErrForbidden
	}

	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		if *req.Year > time.Now().Year() {
			return nil, ErrYearInFuture
		}
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = *req.Description
	}
	if req.Category != nil {
		if *req.Category == "" {
			title.CategoryID = nil
			title.Category = nil
		} else {
			category, err := s.categoryRepo.FindBySlug(*req.Category)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrCategoryNotFound
				}
				return nil, err
			}
			title.CategoryID = &category.ID
			title.Category = category
		}
	}

	var genres []models.Genre
	if req.Genre != nil {
		genres, err = s.resolveGenres(req.Genre)
		if err != nil {
			return nil, err
		}
		title.Genres = genres
	}

	if err := s.titleRepo.Update(ctx, title, genres); err != nil {
		return nil, err
	}
	return dto.FromModelToTitleResponse(title), nil
}

func (s *catalogService) DeleteTitle(ctx context.Context, actor *policy.Actor, id int64) error {
	if !policy.Allow(actor, policy.ActionDelete, policy.Resource{Kind: policy.KindCatalog}) {
		return ErrForbidden
	}
	if err := s.titleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	return s.ratings.Invalidate(ctx, id)
}

func (s *catalogService) GetTitle(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	// The cache only absorbs reads; the column written during review
	// transactions stays the source of truth.
	if rating, ok := s.ratings.Get(ctx, id); ok {
		title.Rating = rating
	} else {
		_ = s.ratings.Set(ctx, id, title.Rating)
	}

	return dto.FromModelToTitleResponse(title), nil
}

func (s *catalogService) ListTitles(ctx context.Context, filter dto.TitleFilter, page, pageSize int) (*dto.PaginatedResponse[dto.TitleResponse], error) {
	q := repository.TitleQuery{
		Name:         filter.Name,
		Year:         filter.Year,
		CategorySlug: filter.Category,
		GenreSlug:    filter.Genre,
	}
	titles, total, err := s.titleRepo.List(ctx, q, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TitleResponse, 0, len(titles))
	for i := range titles {
		responses = append(responses, *dto.FromModelToTitleResponse(&titles[i]))
	}
	return dto.NewPaginatedResponse(responses, int(total), page, pageSize), nil
}

// resolveGenres maps slugs onto genre rows. Duplicate slugs collapse to
// one entry; an unknown slug fails the whole set. The result is never
// nil: an empty request resolves to an empty set, which the title
// repository treats as "replace with nothing".
func (s *catalogService) resolveGenres(slugs []string) ([]models.Genre, error) {
	seen := make(map[string]struct{}, len(slugs))
	unique := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		unique = append(unique, slug)
	}

	genres, err := s.genreRepo.FindBySlugs(unique)
	if err != nil {
		return nil, err
	}
	if len(genres) != len(unique) {
		return nil, ErrGenreNotFound
	}
	return genres, nil
}
