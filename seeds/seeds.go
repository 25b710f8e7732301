package seeds

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/actuallystonmai/movie-catalog-service/internal/domain"
	"github.com/actuallystonmai/movie-catalog-service/internal/logging"
)

func Setup(ctx context.Context, pool *pgxpool.Pool) error {
	log := logging.With("seed")

	// Truncate existing data before insert
	log.Info().Msg("truncating existing data")
	if _, err := pool.Exec(ctx, `TRUNCATE movies RESTART IDENTITY CASCADE`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	log.Info().Int("count", len(catalog)).Msg("inserting movies")
	if err := seedMovies(ctx, pool, catalog); err != nil {
		return fmt.Errorf("seed movies: %w", err)
	}

	log.Info().Msg("seeding complete")
	return nil
}

func seedMovies(ctx context.Context, pool *pgxpool.Pool, movies []domain.NewMovie) error {
	const cols = 9

	rows := []string{}
	args := []any{}

	for i, m := range movies {
		base := i * cols
		placeholders := make([]string, cols)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		rows = append(rows, "("+strings.Join(placeholders, ", ")+")")

		args = append(args,
			m.Title, m.Description, m.Category, m.ReleaseYear, m.Rating,
			m.MinimumAge, m.Director, m.Cast, m.DurationMinutes,
		)
	}

	if len(rows) == 0 {
		return nil
	}

	query := `INSERT INTO movies (title, description, category, release_year, rating,
		minimum_age, director, "cast", duration_minutes) VALUES ` + strings.Join(rows, ", ")

	_, err := pool.Exec(ctx, query, args...)
	return err
}

func director(name string) *string { return &name }

var catalog = []domain.NewMovie{
	{
		Title:           "The Shawshank Redemption",
		Description:     "Two imprisoned men bond over a number of years, finding solace and eventual redemption through acts of common decency.",
		Category:        "Drama",
		ReleaseYear:     1994,
		Rating:          9.3,
		MinimumAge:      13,
		Director:        director("Frank Darabont"),
		Cast:            []string{"Tim Robbins", "Morgan Freeman"},
		DurationMinutes: 142,
	},
	{
		Title:           "The Dark Knight",
		Description:     "When the menace known as the Joker wreaks havoc on Gotham, Batman must accept one of the greatest tests of his ability to fight injustice.",
		Category:        "Action",
		ReleaseYear:     2008,
		Rating:          9.0,
		MinimumAge:      13,
		Director:        director("Christopher Nolan"),
		Cast:            []string{"Christian Bale", "Heath Ledger"},
		DurationMinutes: 152,
	},
	{
		Title:           "Toy Story",
		Description:     "A cowboy doll is profoundly threatened when a new spaceman figure supplants him as top toy in a boy's room.",
		Category:        "Animation",
		ReleaseYear:     1995,
		Rating:          8.3,
		MinimumAge:      0,
		Director:        director("John Lasseter"),
		Cast:            []string{"Tom Hanks", "Tim Allen"},
		DurationMinutes: 81,
	},
	{
		Title:           "Casablanca",
		Description:     "A cynical nightclub owner in wartime Morocco must choose between his love for a former flame and helping her husband escape the Nazis.",
		Category:        "Romance",
		ReleaseYear:     1942,
		Rating:          8.5,
		MinimumAge:      7,
		Director:        director("Michael Curtiz"),
		Cast:            []string{"Humphrey Bogart", "Ingrid Bergman"},
		DurationMinutes: 102,
	},
	{
		Title:           "La La Land",
		Description:     "A jazz pianist and an aspiring actress fall in love while chasing their dreams in Los Angeles.",
		Category:        "Romance",
		ReleaseYear:     2016,
		Rating:          8.0,
		MinimumAge:      13,
		Director:        director("Damien Chazelle"),
		Cast:            []string{"Ryan Gosling", "Emma Stone"},
		DurationMinutes: 128,
	},
	{
		Title:           "Mad Max: Fury Road",
		Description:     "In a post-apocalyptic wasteland, a woman rebels against a tyrannical ruler in search of her homeland with the help of a drifter.",
		Category:        "Action",
		ReleaseYear:     2015,
		Rating:          8.1,
		MinimumAge:      17,
		Director:        director("George Miller"),
		Cast:            []string{"Tom Hardy", "Charlize Theron"},
		DurationMinutes: 120,
	},
	{
		Title:           "Spirited Away",
		Description:     "A young girl wanders into a world ruled by gods, witches and spirits, where humans are changed into beasts.",
		Category:        "Animation",
		ReleaseYear:     2001,
		Rating:          8.6,
		MinimumAge:      0,
		Director:        director("Hayao Miyazaki"),
		Cast:            []string{"Rumi Hiiragi", "Miyu Irino"},
		DurationMinutes: 125,
	},
	{
		Title:           "The Princess Bride",
		Description:     "A farmhand turned pirate sets out to rescue his true love from a prince with sinister plans.",
		Category:        "Adventure",
		ReleaseYear:     1987,
		Rating:          8.0,
		MinimumAge:      7,
		Director:        director("Rob Reiner"),
		Cast:            []string{"Cary Elwes", "Robin Wright"},
		DurationMinutes: 98,
	},
	{
		Title:           "A Knight's Tale",
		Description:     "A peasant squire poses as a nobleman to compete in jousting tournaments.",
		Category:        "Adventure",
		ReleaseYear:     2001,
		Rating:          6.9,
		MinimumAge:      13,
		Director:        director("Brian Helgeland"),
		Cast:            []string{"Heath Ledger", "Shannyn Sossamon"},
		DurationMinutes: 132,
	},
	{
		Title:           "The Incredibles",
		Description:     "A family of undercover superheroes is forced back into action to save the world.",
		Category:        "Action",
		ReleaseYear:     2004,
		Rating:          8.0,
		MinimumAge:      0,
		Director:        director("Brad Bird"),
		Cast:            []string{"Craig T. Nelson", "Holly Hunter"},
		DurationMinutes: 115,
	},
	{
		Title:           "Parasite",
		Description:     "Greed and class discrimination threaten the newly formed symbiotic relationship between a wealthy family and a destitute clan.",
		Category:        "Thriller",
		ReleaseYear:     2019,
		Rating:          8.5,
		MinimumAge:      17,
		Director:        director("Bong Joon Ho"),
		Cast:            []string{"Song Kang-ho", "Choi Woo-shik"},
		DurationMinutes: 132,
	},
	{
		Title:           "Paddington 2",
		Description:     "Paddington picks up odd jobs to buy a gift for his aunt, only for it to be stolen.",
		Category:        "Family",
		ReleaseYear:     2017,
		Rating:          7.8,
		MinimumAge:      0,
		Director:        director("Paul King"),
		Cast:            []string{"Ben Whishaw", "Hugh Grant"},
		DurationMinutes: 103,
	},
}
