package dto

import "reviewhub/internal/api/models"

// TitleRequest: write payload. Category and genres are referenced by slug.
type TitleRequest struct {
	Name        string   `json:"name" binding:"required,max=256"`
	Year        int      `json:"year" binding:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Genre       []string `json:"genre"`
}

// UpdateTitleRequest: partial update; nil means "leave as is". An empty
// category string clears the category; a non-nil empty genre list clears
// the genre set.
type UpdateTitleRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=256"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Genre       []string `json:"genre"`
}

// TitleResponse: read payload with the computed rating and nested
// category/genre objects.
type TitleResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Description string            `json:"description,omitempty"`
	Rating      *float64          `json:"rating"`
	Category    *CategoryResponse `json:"category"`
	Genre       []GenreResponse   `json:"genre"`
}

func FromModelToTitleResponse(t *models.Title) *TitleResponse {
	resp := &TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Description: t.Description,
		Rating:      t.Rating,
		Genre:       make([]GenreResponse, 0, len(t.Genres)),
	}
	if t.Category != nil {
		resp.Category = FromModelToCategoryResponse(t.Category)
	}
	for i := range t.Genres {
		resp.Genre = append(resp.Genre, *FromModelToGenreResponse(&t.Genres[i]))
	}
	return resp
}

// TitleFilter collects the supported list filters
type TitleFilter struct {
	Name     string `form:"name"`
	Year     int    `form:"year"`
	Category string `form:"category"`
	Genre    string `form:"genre"`
}
