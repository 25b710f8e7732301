package domain

import "time"

type Movie struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	ReleaseYear     int       `json:"release_year"`
	Rating          float64   `json:"rating"`
	MinimumAge      int       `json:"minimum_age"`
	Director        *string   `json:"director,omitempty"`
	Cast            []string  `json:"cast"`
	DurationMinutes int       `json:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewMovie is the input for adding a movie to the catalog.
type NewMovie struct {
	Title           string   `json:"title" validate:"required,max=200"`
	Description     string   `json:"description" validate:"required,max=2000"`
	Category        string   `json:"category" validate:"required"`
	ReleaseYear     int      `json:"release_year" validate:"release_year"`
	Rating          float64  `json:"rating" validate:"gte=0,lte=10"`
	MinimumAge      int      `json:"minimum_age" validate:"gte=0,lte=21"`
	Director        *string  `json:"director"`
	Cast            []string `json:"cast"`
	DurationMinutes int      `json:"duration_minutes" validate:"gt=0"`
}

// MoviePatch is a partial update. Nil fields are left untouched.
type MoviePatch struct {
	Title           *string   `json:"title" validate:"omitempty,max=200"`
	Description     *string   `json:"description" validate:"omitempty,max=2000"`
	Category        *string   `json:"category"`
	ReleaseYear     *int      `json:"release_year" validate:"omitempty,release_year"`
	Rating          *float64  `json:"rating" validate:"omitempty,gte=0,lte=10"`
	MinimumAge      *int      `json:"minimum_age" validate:"omitempty,gte=0,lte=21"`
	Director        *string   `json:"director"`
	Cast            *[]string `json:"cast"`
	DurationMinutes *int      `json:"duration_minutes" validate:"omitempty,gt=0"`
}

// Apply copies the non-nil fields of p onto m. Empty strings are ignored
// for the text fields so a blank title never wipes an existing one.
func (p MoviePatch) Apply(m *Movie) {
	if p.Title != nil && *p.Title != "" {
		m.Title = *p.Title
	}
	if p.Description != nil && *p.Description != "" {
		m.Description = *p.Description
	}
	if p.Category != nil && *p.Category != "" {
		m.Category = *p.Category
	}
	if p.ReleaseYear != nil {
		m.ReleaseYear = *p.ReleaseYear
	}
	if p.Rating != nil {
		m.Rating = *p.Rating
	}
	if p.MinimumAge != nil {
		m.MinimumAge = *p.MinimumAge
	}
	if p.Director != nil {
		m.Director = p.Director
	}
	if p.Cast != nil {
		m.Cast = *p.Cast
	}
	if p.DurationMinutes != nil {
		m.DurationMinutes = *p.DurationMinutes
	}
}
