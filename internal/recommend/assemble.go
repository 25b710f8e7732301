package recommend

import (
	"sort"
	"strings"

	"github.com/actuallystonmai/movie-catalog-service/internal/domain"
)

// classicCutoffYear bounds the "classic" fallback: released before this year.
const classicCutoffYear = 2010

type recommendationList struct {
	movies []domain.Movie
	seen   map[int64]struct{}
}

func newRecommendationList() *recommendationList {
	return &recommendationList{
		movies: make([]domain.Movie, 0, domain.MaxRecommendations),
		seen:   make(map[int64]struct{}, domain.MaxRecommendations),
	}
}

func (l *recommendationList) full() bool {
	return len(l.movies) >= domain.MaxRecommendations
}

// add appends m unless the list is full or already holds it.
func (l *recommendationList) add(m *domain.Movie) bool {
	if m == nil || l.full() {
		return false
	}
	if _, dup := l.seen[m.ID]; dup {
		return false
	}
	l.seen[m.ID] = struct{}{}
	l.movies = append(l.movies, *m)
	return true
}

// Assemble turns evaluator answers into at most three unique movies from
// filtered, then tops the list up with the fallback rules. fallbackUsed
// reports whether any fallback rule contributed.
func Assemble(responses []RawResponse, filtered []domain.Movie) (movies []domain.Movie, fallbackUsed bool) {
	byID := make(map[int64]*domain.Movie, len(filtered))
	for i := range filtered {
		if _, ok := byID[filtered[i].ID]; !ok {
			byID[filtered[i].ID] = &filtered[i]
		}
	}

	list := newRecommendationList()
	for _, r := range responses {
		if list.full() {
			break
		}
		id, ok := ExtractID(r.Content)
		if !ok {
			continue
		}
		list.add(byID[id])
	}

	if !list.full() {
		fallbackUsed = applyFallback(list, filtered)
	}
	return list.movies, fallbackUsed
}

// applyFallback runs the romance, action and classic rules in that order.
func applyFallback(list *recommendationList, filtered []domain.Movie) bool {
	added := false
	for _, pick := range []func([]domain.Movie) *domain.Movie{
		firstRomance,
		firstAction,
		bestClassic,
	} {
		if list.add(pick(filtered)) {
			added = true
		}
	}
	return added
}

func firstRomance(movies []domain.Movie) *domain.Movie {
	for i := range movies {
		if containsFold(movies[i].Category, "romance") {
			return &movies[i]
		}
	}
	return nil
}

func firstAction(movies []domain.Movie) *domain.Movie {
	for i := range movies {
		if containsFold(movies[i].Category, "action") || containsFold(movies[i].Title, "knight") {
			return &movies[i]
		}
	}
	return nil
}

// bestClassic picks the highest rated movie released before the cutoff;
// the first one in catalog order wins a tie.
func bestClassic(movies []domain.Movie) *domain.Movie {
	var best *domain.Movie
	for i := range movies {
		if movies[i].ReleaseYear >= classicCutoffYear {
			continue
		}
		if best == nil || movies[i].Rating > best.Rating {
			best = &movies[i]
		}
	}
	return best
}

// TopRated returns the n highest rated movies; ties keep catalog order.
func TopRated(movies []domain.Movie, n int) []domain.Movie {
	sorted := make([]domain.Movie, len(movies))
	copy(sorted, movies)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rating > sorted[j].Rating
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
