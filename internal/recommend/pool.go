package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/actuallystonmai/movie-catalog-service/internal/evaluator"
	"github.com/actuallystonmai/movie-catalog-service/internal/metrics"
)

const defaultEvaluatorTimeout = 30 * time.Second

// ErrOrchestration means the fan-out itself broke down, as opposed to a
// single evaluator failing. No responses survive it.
var ErrOrchestration = errors.New("evaluator orchestration failed")

// RawResponse is one evaluator's unparsed answer.
type RawResponse struct {
	Role    string
	Content string
}

// Pool sends one prompt to every role at once and gathers the answers.
type Pool struct {
	evaluator evaluator.Evaluator
	timeout   time.Duration
	logger    zerolog.Logger
}

func NewPool(ev evaluator.Evaluator, timeout time.Duration, logger zerolog.Logger) *Pool {
	if timeout <= 0 {
		timeout = defaultEvaluatorTimeout
	}
	return &Pool{
		evaluator: ev,
		timeout:   timeout,
		logger:    logger,
	}
}

// callResult carries one evaluator call back from its goroutine.
type callResult struct {
	content string
	err     error
	panic   any
}

// Dispatch runs every role concurrently and returns the answers of the
// roles that succeeded, in the order they arrived. It returns only after
// every role has answered, failed or been abandoned.
func (p *Pool) Dispatch(ctx context.Context, roles []evaluator.Role, prompt string) ([]RawResponse, error) {
	if p == nil || p.evaluator == nil {
		return nil, fmt.Errorf("%w: no evaluator", ErrOrchestration)
	}
	if len(roles) == 0 {
		return nil, fmt.Errorf("%w: no roles", ErrOrchestration)
	}

	arrivals := make(chan RawResponse, len(roles))
	g, gctx := errgroup.WithContext(ctx)

	for _, role := range roles {
		g.Go(func() error {
			res := p.invoke(gctx, role, prompt)
			if res.panic != nil {
				return fmt.Errorf("%w: role %s panicked: %v", ErrOrchestration, role.Name, res.panic)
			}
			if res.err != nil {
				// A failed role contributes nothing; the others carry on.
				p.logger.Warn().Err(res.err).Str("role", role.Name).Msg("evaluator call failed")
				return nil
			}
			arrivals <- RawResponse{Role: role.Name, Content: res.content}
			return nil
		})
	}

	err := g.Wait()
	close(arrivals)
	if err != nil {
		metrics.OrchestrationFailures.Inc()
		return nil, err
	}

	responses := make([]RawResponse, 0, len(roles))
	for r := range arrivals {
		responses = append(responses, r)
	}
	return responses, nil
}

// invoke runs a single evaluator call under the per-role timeout. A call
// that outlives its context is abandoned and whatever it returns later is
// dropped.
func (p *Pool) invoke(ctx context.Context, role evaluator.Role, prompt string) callResult {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan callResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- callResult{panic: r}
			}
		}()
		content, err := p.evaluator.Evaluate(callCtx, role, prompt)
		done <- callResult{content: content, err: err}
	}()

	var res callResult
	select {
	case res = <-done:
	case <-callCtx.Done():
		// Prefer an answer that landed at the same moment.
		select {
		case res = <-done:
		default:
			res = callResult{err: fmt.Errorf("abandoned: %w", callCtx.Err())}
		}
	}

	metrics.EvaluatorDuration.WithLabelValues(role.Name).Observe(time.Since(start).Seconds())
	outcome := "success"
	if res.err != nil || res.panic != nil {
		outcome = "failure"
	}
	metrics.EvaluatorCalls.WithLabelValues(role.Name, outcome).Inc()
	return res
}
