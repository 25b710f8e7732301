package recommend

import "github.com/actuallystonmai/movie-catalog-service/internal/domain"

// FilterByAge keeps the movies whose minimum age is at most age, in
// catalog order.
func FilterByAge(movies []domain.Movie, age int) []domain.Movie {
	out := make([]domain.Movie, 0, len(movies))
	for _, m := range movies {
		if m.MinimumAge <= age {
			out = append(out, m)
		}
	}
	return out
}
