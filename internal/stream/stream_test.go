package stream

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/actuallystonmai/movie-catalog-service/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fetchFunc func(ctx context.Context, category string) ([]domain.Movie, error)

func (f fetchFunc) GetByCategory(ctx context.Context, category string) ([]domain.Movie, error) {
	return f(ctx, category)
}

// staticCatalog ignores the category and returns every movie.
func staticCatalog(movies ...domain.Movie) Fetcher {
	return fetchFunc(func(context.Context, string) ([]domain.Movie, error) {
		return movies, nil
	})
}

func catalog() []domain.Movie {
	return []domain.Movie{
		{ID: 1, Title: "The Shawshank Redemption", Category: "Drama", Rating: 9.3},
		{ID: 5, Title: "Harbor Chase", Category: "action", Rating: 7.5},
		{ID: 2, Title: "The Dark Knight", Category: "Action", Rating: 9.0},
		{ID: 3, Title: "The Lion King", Category: "Animation", Rating: 8.3},
	}
}

func waitDone(t *testing.T, s *Stream) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not close")
	}
}

func TestStreamCategoryInRatingOrder(t *testing.T) {
	interval := 30 * time.Millisecond
	pump := NewPump(staticCatalog(catalog()...), interval, 0, zerolog.Nop())

	start := time.Now()
	s := pump.Stream(context.Background(), "Action")

	var got []int64
	for m := range s.All() {
		got = append(got, m.ID)
	}

	assert.Equal(t, []int64{2, 5}, got)
	assert.GreaterOrEqual(t, time.Since(start), interval)
	waitDone(t, s)
	assert.Equal(t, Closed, s.State())
	assert.Equal(t, Exhausted, s.Outcome())
	assert.NoError(t, s.Err())
}

func TestStreamCancelAfterFirstItem(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pump := NewPump(staticCatalog(catalog()...), 200*time.Millisecond, 0, zerolog.Nop())

	s := pump.Stream(ctx, "action")

	first, ok := <-s.C()
	require.True(t, ok)
	assert.Equal(t, int64(2), first.ID)
	cancel()

	count := 1
	for range s.C() {
		count++
	}
	assert.Equal(t, 1, count)

	time.Sleep(300 * time.Millisecond)
	_, ok = <-s.C()
	assert.False(t, ok)
	waitDone(t, s)
	assert.Equal(t, Cancelled, s.Outcome())
	assert.Equal(t, Closed, s.State())
	assert.NoError(t, s.Err())
}

func TestStreamBreakStopsProducer(t *testing.T) {
	movies := make([]domain.Movie, 0, 50)
	for i := 0; i < 50; i++ {
		movies = append(movies, domain.Movie{ID: int64(i + 1), Category: "Drama", Rating: 5})
	}
	pump := NewPump(staticCatalog(movies...), 5*time.Millisecond, 1, zerolog.Nop())

	s := pump.Stream(context.Background(), "drama")
	for range s.All() {
		break
	}

	waitDone(t, s)
	assert.Equal(t, Cancelled, s.Outcome())
}

func TestStreamConsumerVanishes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	movies := make([]domain.Movie, 0, 10)
	for i := 0; i < 10; i++ {
		movies = append(movies, domain.Movie{ID: int64(i + 1), Category: "Drama", Rating: 5})
	}
	pump := NewPump(staticCatalog(movies...), 0, 1, zerolog.Nop())

	// Nobody reads; the producer parks on a full buffer until cancelled.
	s := pump.Stream(ctx, "Drama")
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, Running, s.State())
	cancel()

	waitDone(t, s)
	assert.Equal(t, Cancelled, s.Outcome())
}

func TestStreamFetchesOnlyItsCategory(t *testing.T) {
	var asked string
	pump := NewPump(fetchFunc(func(_ context.Context, category string) ([]domain.Movie, error) {
		asked = category
		return MatchCategory(catalog(), category), nil
	}), 0, 0, zerolog.Nop())

	s := pump.Stream(context.Background(), "ACTION")

	var got []int64
	for m := range s.All() {
		got = append(got, m.ID)
	}
	waitDone(t, s)
	assert.Equal(t, "ACTION", asked)
	assert.Equal(t, []int64{2, 5}, got)
}

func TestStreamFetchError(t *testing.T) {
	fetchErr := errors.New("connection refused")
	pump := NewPump(fetchFunc(func(context.Context, string) ([]domain.Movie, error) {
		return nil, fetchErr
	}), time.Millisecond, 0, zerolog.Nop())

	s := pump.Stream(context.Background(), "Action")

	_, ok := <-s.C()
	assert.False(t, ok)
	waitDone(t, s)
	assert.ErrorIs(t, s.Err(), fetchErr)
	assert.Equal(t, Closed, s.Outcome())
}

func TestStreamRecoversPanic(t *testing.T) {
	pump := NewPump(fetchFunc(func(context.Context, string) ([]domain.Movie, error) {
		panic("driver bug")
	}), time.Millisecond, 0, zerolog.Nop())

	s := pump.Stream(context.Background(), "Action")

	_, ok := <-s.C()
	assert.False(t, ok)
	waitDone(t, s)
	require.Error(t, s.Err())
	assert.Contains(t, s.Err().Error(), "driver bug")
}

func TestStreamNoMatches(t *testing.T) {
	pump := NewPump(staticCatalog(catalog()...), time.Millisecond, 0, zerolog.Nop())

	s := pump.Stream(context.Background(), "Western")

	_, ok := <-s.C()
	assert.False(t, ok)
	waitDone(t, s)
	assert.Equal(t, Exhausted, s.Outcome())
}

func TestStreamCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pump := NewPump(fetchFunc(func(ctx context.Context, _ string) ([]domain.Movie, error) {
		return nil, ctx.Err()
	}), time.Millisecond, 0, zerolog.Nop())

	s := pump.Stream(ctx, "Action")

	waitDone(t, s)
	assert.Equal(t, Cancelled, s.Outcome())
	assert.NoError(t, s.Err())
}

func TestMatchCategory(t *testing.T) {
	movies := []domain.Movie{
		{ID: 1, Category: "Comedy", Rating: 6},
		{ID: 2, Category: "COMEDY", Rating: 8},
		{ID: 3, Category: "Romantic Comedy", Rating: 9},
		{ID: 4, Category: "comedy", Rating: 6},
	}

	got := MatchCategory(movies, "comedy")

	require.Len(t, got, 3)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(1), got[1].ID)
	assert.Equal(t, int64(4), got[2].ID)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "cancelled", Cancelled.String())
	assert.Equal(t, "exhausted", Exhausted.String())
	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "state(9)", State(9).String())
}
