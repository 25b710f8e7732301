package recommend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/actuallystonmai/movie-catalog-service/internal/domain"
)

// DescribeCatalog renders the filtered catalog as the text evaluators read.
func DescribeCatalog(movies []domain.Movie, age int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "User Age: %d\n", age)
	sb.WriteString("Available Movies:\n")
	for _, m := range movies {
		fmt.Fprintf(&sb, "ID:%d | %s | Category:%s | Year:%d | Rating:%s/10 | MinAge:%d+\n",
			m.ID, m.Title, m.Category, m.ReleaseYear, formatRating(m.Rating), m.MinimumAge)
	}
	return sb.String()
}

// BuildPrompt frames a catalog description as the request sent to every role.
func BuildPrompt(catalog string) string {
	return "Suggest a movie to watch based on the catalog:\n" + catalog
}

func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}
