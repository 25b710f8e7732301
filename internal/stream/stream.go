// Package stream emits the movies of one category to a consumer, best rated
// first, at a fixed pace.
//
// Each Stream is driven by a single producer goroutine. The producer owns
// the channel and closes it exactly once, whichever way it stops.
package stream

import (
	"context"
	"fmt"
	"iter"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/actuallystonmai/movie-catalog-service/internal/domain"
	"github.com/actuallystonmai/movie-catalog-service/internal/metrics"
)

const (
	DefaultInterval = 100 * time.Millisecond
	DefaultBuffer   = 16
)

type State int32

const (
	Running State = iota
	Cancelled
	Exhausted
	Closed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Cancelled:
		return "cancelled"
	case Exhausted:
		return "exhausted"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Fetcher loads one category's movies. The store may already match and
// order them; the pump applies MatchCategory either way.
type Fetcher interface {
	GetByCategory(ctx context.Context, category string) ([]domain.Movie, error)
}

// Pump starts category streams over a catalog.
//
// Each stream's channel holds at most buffer undelivered movies. A consumer
// that falls further behind than that holds up its producer until it reads
// again, on top of the pacing interval.
type Pump struct {
	fetcher  Fetcher
	interval time.Duration
	buffer   int
	logger   zerolog.Logger
}

// NewPump returns a Pump. A zero interval disables pacing; a non-positive
// buffer falls back to DefaultBuffer.
func NewPump(fetcher Fetcher, interval time.Duration, buffer int, logger zerolog.Logger) *Pump {
	if interval < 0 {
		interval = DefaultInterval
	}
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Pump{
		fetcher:  fetcher,
		interval: interval,
		buffer:   buffer,
		logger:   logger,
	}
}

// Stream is one running category stream.
type Stream struct {
	ID       string
	Category string

	ch      chan domain.Movie
	done    chan struct{}
	cancel  context.CancelFunc
	state   atomic.Int32
	outcome atomic.Int32
	err     error
}

// Stream starts the producer and returns immediately. Cancel ctx or call
// Stop to end it early.
func (p *Pump) Stream(ctx context.Context, category string) *Stream {
	ctx, cancel := context.WithCancel(ctx)
	s := &Stream{
		ID:       uuid.NewString(),
		Category: category,
		ch:       make(chan domain.Movie, p.buffer),
		done:     make(chan struct{}),
		cancel:   cancel,
	}
	s.state.Store(int32(Running))
	s.outcome.Store(int32(Running))

	go p.run(ctx, s)
	return s
}

// C is closed once the stream stops for any reason.
func (s *Stream) C() <-chan domain.Movie {
	return s.ch
}

// All ranges over the stream. Breaking out of the loop stops the producer.
func (s *Stream) All() iter.Seq[domain.Movie] {
	return func(yield func(domain.Movie) bool) {
		for m := range s.ch {
			if !yield(m) {
				s.Stop()
				return
			}
		}
	}
}

// Stop cancels the stream. It is safe to call more than once.
func (s *Stream) Stop() {
	s.cancel()
}

// Done is closed after C has been closed.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

func (s *Stream) State() State {
	return State(s.state.Load())
}

// Outcome is the state the stream was in right before it closed: Exhausted,
// Cancelled, or Closed when it failed. It reports Running until then.
func (s *Stream) Outcome() State {
	return State(s.outcome.Load())
}

// Err returns the fetch error or recovered panic that ended the stream. It
// is nil while the stream is running and after a clean stop.
func (s *Stream) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

func (p *Pump) run(ctx context.Context, s *Stream) {
	logger := p.logger.With().Str("stream_id", s.ID).Str("category", s.Category).Logger()
	sent := 0

	defer func() {
		if r := recover(); r != nil {
			s.err = fmt.Errorf("stream producer panicked: %v", r)
		}
		s.finish()
		s.cancel()
		logger.Debug().
			Int("sent", sent).
			Str("outcome", s.Outcome().String()).
			Err(s.err).
			Msg("category stream closed")
	}()

	movies, err := p.fetcher.GetByCategory(ctx, s.Category)
	if err != nil {
		if ctx.Err() != nil {
			s.transition(Cancelled)
			return
		}
		s.err = fmt.Errorf("fetch category %q: %w", s.Category, err)
		return
	}

	for i, m := range MatchCategory(movies, s.Category) {
		if i > 0 && !p.pause(ctx) {
			s.transition(Cancelled)
			return
		}
		if ctx.Err() != nil {
			s.transition(Cancelled)
			return
		}
		select {
		case s.ch <- m:
			sent++
			metrics.StreamItems.Inc()
		case <-ctx.Done():
			s.transition(Cancelled)
			return
		}
	}
	s.transition(Exhausted)
}

// pause waits out the pacing interval. It reports false if ctx ended first.
func (p *Pump) pause(ctx context.Context) bool {
	if p.interval == 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(p.interval)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *Stream) transition(to State) {
	s.state.Store(int32(to))
	s.outcome.Store(int32(to))
}

// finish moves the stream to Closed and releases the consumer.
func (s *Stream) finish() {
	reason := "failed"
	switch State(s.outcome.Load()) {
	case Exhausted:
		reason = "exhausted"
	case Cancelled:
		reason = "cancelled"
	default:
		s.outcome.Store(int32(Closed))
	}
	if s.err != nil {
		reason = "failed"
		s.outcome.Store(int32(Closed))
	}
	metrics.StreamsClosed.WithLabelValues(reason).Inc()

	s.state.Store(int32(Closed))
	close(s.ch)
	close(s.done)
}

// MatchCategory returns the movies in category, ignoring case, best rated
// first. Equal ratings keep catalog order.
func MatchCategory(movies []domain.Movie, category string) []domain.Movie {
	out := make([]domain.Movie, 0)
	for _, m := range movies {
		if strings.EqualFold(m.Category, category) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Rating > out[j].Rating
	})
	return out
}
