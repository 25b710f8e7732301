package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/actuallystonmai/movie-catalog-service/internal/domain"
)

const movieColumns = `id, title, description, category, release_year, rating,
	minimum_age, director, "cast", duration_minutes, created_at, updated_at`

func scanMovie(row pgx.Row, m *domain.Movie) error {
	return row.Scan(
		&m.ID, &m.Title, &m.Description, &m.Category, &m.ReleaseYear, &m.Rating,
		&m.MinimumAge, &m.Director, &m.Cast, &m.DurationMinutes, &m.CreatedAt, &m.UpdatedAt,
	)
}

func collectMovies(rows pgx.Rows) ([]domain.Movie, error) {
	defer rows.Close()

	movies := []domain.Movie{}
	for rows.Next() {
		var m domain.Movie
		if err := scanMovie(rows, &m); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		if m.Cast == nil {
			m.Cast = []string{}
		}
		movies = append(movies, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate over movies: %w", err)
	}
	return movies, nil
}

// FetchAll returns the whole catalog, best rated first
func (r *Repository) FetchAll(ctx context.Context) ([]domain.Movie, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+movieColumns+`
		FROM movies
		ORDER BY rating DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	return collectMovies(rows)
}

// Get single movie
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Movie, error) {
	m := &domain.Movie{}
	err := scanMovie(r.pool.QueryRow(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE id = $1`, id,
	), m)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMovieNotFound
		}
		return nil, fmt.Errorf("query movie id=%d: %w", id, err)
	}
	if m.Cast == nil {
		m.Cast = []string{}
	}
	return m, nil
}

// GetByCategory matches the category case-insensitively
func (r *Repository) GetByCategory(ctx context.Context, category string) ([]domain.Movie, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+movieColumns+`
		FROM movies
		WHERE LOWER(category) = LOWER($1)
		ORDER BY rating DESC, id`, category,
	)
	if err != nil {
		return nil, fmt.Errorf("query movies in category %q: %w", category, err)
	}
	return collectMovies(rows)
}

func (r *Repository) Create(ctx context.Context, in domain.NewMovie) (*domain.Movie, error) {
	cast := in.Cast
	if cast == nil {
		cast = []string{}
	}

	m := &domain.Movie{}
	err := scanMovie(r.pool.QueryRow(ctx,
		`INSERT INTO movies (title, description, category, release_year, rating,
			minimum_age, director, "cast", duration_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+movieColumns,
		in.Title, in.Description, in.Category, in.ReleaseYear, in.Rating,
		in.MinimumAge, in.Director, cast, in.DurationMinutes,
	), m)
	if err != nil {
		return nil, fmt.Errorf("insert movie %q: %w", in.Title, err)
	}
	return m, nil
}

// Update writes every column of m and bumps updated_at
func (r *Repository) Update(ctx context.Context, m *domain.Movie) (*domain.Movie, error) {
	cast := m.Cast
	if cast == nil {
		cast = []string{}
	}

	out := &domain.Movie{}
	err := scanMovie(r.pool.QueryRow(ctx,
		`UPDATE movies
		SET title = $2, description = $3, category = $4, release_year = $5, rating = $6,
			minimum_age = $7, director = $8, "cast" = $9, duration_minutes = $10,
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+movieColumns,
		m.ID, m.Title, m.Description, m.Category, m.ReleaseYear, m.Rating,
		m.MinimumAge, m.Director, cast, m.DurationMinutes,
	), out)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMovieNotFound
		}
		return nil, fmt.Errorf("update movie id=%d: %w", m.ID, err)
	}
	return out, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movie id=%d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMovieNotFound
	}
	return nil
}

// Count total movies
func (r *Repository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM movies`,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return total, nil
}
