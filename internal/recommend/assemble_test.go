package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/actuallystonmai/movie-catalog-service/internal/domain"
)

func movie(id int64, title, category string, year int, rating float64, minAge int) domain.Movie {
	return domain.Movie{
		ID:              id,
		Title:           title,
		Category:        category,
		ReleaseYear:     year,
		Rating:          rating,
		MinimumAge:      minAge,
		DurationMinutes: 120,
	}
}

func ids(movies []domain.Movie) []int64 {
	out := make([]int64, 0, len(movies))
	for _, m := range movies {
		out = append(out, m.ID)
	}
	return out
}

func answers(contents ...string) []RawResponse {
	out := make([]RawResponse, 0, len(contents))
	for _, c := range contents {
		out = append(out, RawResponse{Role: "test", Content: c})
	}
	return out
}

func mixedCatalog() []domain.Movie {
	return []domain.Movie{
		movie(10, "Quiet Office", "Drama", 2015, 7.0, 0),
		movie(11, "Paris Letters", "Romance", 2012, 6.5, 0),
		movie(12, "Harbor Chase", "Action", 2016, 7.8, 0),
		movie(13, "Old Lighthouse", "Drama", 1990, 8.1, 0),
		movie(14, "Silent Era", "Drama", 1950, 9.2, 0),
	}
}

func TestFilterByAge(t *testing.T) {
	catalog := []domain.Movie{
		movie(1, "A", "Drama", 1994, 9.3, 13),
		movie(2, "B", "Action", 2008, 9.0, 18),
		movie(3, "C", "Animation", 1995, 8.3, 0),
	}

	assert.Equal(t, []int64{3}, ids(FilterByAge(catalog, 10)))
	assert.Equal(t, []int64{1, 3}, ids(FilterByAge(catalog, 13)))
	assert.Equal(t, []int64{1, 2, 3}, ids(FilterByAge(catalog, 18)))
	assert.Empty(t, FilterByAge(nil, 30))
}

func TestDescribeCatalog(t *testing.T) {
	catalog := []domain.Movie{
		movie(1, "The Shawshank Redemption", "Drama", 1994, 9.3, 13),
		movie(3, "The Lion King", "Animation", 1995, 8, 0),
	}

	want := "User Age: 15\n" +
		"Available Movies:\n" +
		"ID:1 | The Shawshank Redemption | Category:Drama | Year:1994 | Rating:9.3/10 | MinAge:13+\n" +
		"ID:3 | The Lion King | Category:Animation | Year:1995 | Rating:8/10 | MinAge:0+\n"
	assert.Equal(t, want, DescribeCatalog(catalog, 15))
	assert.Equal(t, "Suggest a movie to watch based on the catalog:\n"+want, BuildPrompt(want))
}

func TestExtractID(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   int64
		wantOK bool
	}{
		{"bare id", "3", 3, true},
		{"surrounded", "I recommend movie ID: 12.", 12, true},
		{"leading zeros", "ID:007", 7, true},
		{"first number wins", "From 1994, pick 3", 1994, true},
		{"digits inside a word", "abc42def 7", 42, true},
		{"no digits", "none of these", 0, false},
		{"empty", "", 0, false},
		{"overflow", "99999999999999999999", 0, false},
		{"non-ascii digits", "٣", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractID(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAssembleFallbackOrder(t *testing.T) {
	list, fallbackUsed := Assemble(nil, mixedCatalog())

	assert.True(t, fallbackUsed)
	assert.Equal(t, []int64{11, 12, 14}, ids(list))
}

func TestAssembleKnightTitleCountsAsAction(t *testing.T) {
	catalog := []domain.Movie{
		movie(1, "The Dark Knight", "Drama", 2008, 9.0, 0),
		movie(2, "Tea for Two", "romance", 2011, 6.0, 0),
	}

	list, _ := Assemble(nil, catalog)

	// The knight movie is also the best pre-2010 movie, so the classic step is a duplicate.
	assert.Equal(t, []int64{2, 1}, ids(list))
}

func TestAssembleEvaluatorAnswersComeFirst(t *testing.T) {
	list, fallbackUsed := Assemble(answers("13", "Maybe 11?"), mixedCatalog())

	assert.True(t, fallbackUsed)
	// Romance (11) is already present, so the action pick fills the last slot.
	assert.Equal(t, []int64{13, 11, 12}, ids(list))
}

func TestAssembleDirect(t *testing.T) {
	list, fallbackUsed := Assemble(answers("14", "10", "12", "11"), mixedCatalog())

	assert.False(t, fallbackUsed)
	assert.Equal(t, []int64{14, 10, 12}, ids(list))
}

func TestAssembleDropsUnknownAndDuplicateIDs(t *testing.T) {
	catalog := []domain.Movie{
		movie(3, "The Lion King", "Animation", 1995, 8.3, 0),
	}

	list, fallbackUsed := Assemble(answers("1", "2", "3", "3", "no idea"), catalog)

	assert.False(t, fallbackUsed)
	assert.Equal(t, []int64{3}, ids(list))
}

func TestAssembleNothingUsable(t *testing.T) {
	catalog := []domain.Movie{
		movie(1, "Quiet Office", "Drama", 2015, 7.0, 0),
	}

	list, fallbackUsed := Assemble(answers("nothing"), catalog)

	assert.False(t, fallbackUsed)
	assert.Empty(t, list)
}

func TestAssembleInvariants(t *testing.T) {
	catalog := mixedCatalog()
	inputs := [][]RawResponse{
		nil,
		answers("10", "10", "10"),
		answers("99", "11", "x", "12", "13", "14"),
		answers("14 13 12", "13"),
	}

	for _, responses := range inputs {
		list, _ := Assemble(responses, catalog)
		require.LessOrEqual(t, len(list), domain.MaxRecommendations)

		seen := map[int64]bool{}
		for _, m := range list {
			assert.False(t, seen[m.ID], "duplicate id %d", m.ID)
			seen[m.ID] = true
			assert.Contains(t, ids(catalog), m.ID)
		}
	}
}

func TestTopRated(t *testing.T) {
	catalog := []domain.Movie{
		movie(1, "A", "Drama", 2000, 7.0, 0),
		movie(2, "B", "Drama", 2000, 9.0, 0),
		movie(3, "C", "Drama", 2000, 7.0, 0),
		movie(4, "D", "Drama", 2000, 8.0, 0),
		movie(5, "E", "Drama", 2000, 7.0, 0),
	}

	assert.Equal(t, []int64{2, 4, 1}, ids(TopRated(catalog, 3)))
	assert.Equal(t, []int64{2, 4, 1, 3, 5}, ids(TopRated(catalog, 10)))
	// Input order is left alone.
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(catalog))
}

func TestFormatReasoning(t *testing.T) {
	list := []domain.Movie{
		movie(11, "Paris Letters", "Romance", 2012, 6.5, 0),
		movie(12, "Harbor Chase", "Action", 2016, 7.8, 0),
		movie(14, "Silent Era", "Drama", 1950, 9, 0),
	}

	want := "Multi-agent concurrent recommendations:\n" +
		"🌹 Paris Letters (Romance) - Rating: 6.5/10 - Year: 2012\n" +
		"💥 Harbor Chase (Action) - Rating: 7.8/10 - Year: 2016\n" +
		"🎬 Silent Era (Drama) - Rating: 9/10 - Year: 1950\n"
	assert.Equal(t, want, FormatReasoning(list))
}
