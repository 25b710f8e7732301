package recommend

import (
	"fmt"
	"strings"

	"github.com/actuallystonmai/movie-catalog-service/internal/domain"
)

const reasoningHeader = "Multi-agent concurrent recommendations:"

// FormatReasoning explains a recommendation list, one line per movie.
func FormatReasoning(movies []domain.Movie) string {
	var sb strings.Builder
	sb.WriteString(reasoningHeader + "\n")
	for _, m := range movies {
		fmt.Fprintf(&sb, "%s %s (%s) - Rating: %s/10 - Year: %d\n",
			categoryMarker(m.Category), m.Title, m.Category, formatRating(m.Rating), m.ReleaseYear)
	}
	return sb.String()
}

func categoryMarker(category string) string {
	switch {
	case containsFold(category, "romance"):
		return "🌹"
	case containsFold(category, "action"):
		return "💥"
	default:
		return "🎬"
	}
}
