package netsuite

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pragadastech/wms-ai-py2/config"
)

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = 1 * time.Second
	defaultMaxDelay   = 30 * time.Second
)

// RetryPolicy re-attempts an operation with exponential backoff and jitter.
// MaxRetries counts retries after the first attempt, so an operation that
// never succeeds is invoked MaxRetries+1 times. Every attempt runs inside
// the breaker; a breaker rejection is surfaced as ServiceUnavailable
// straight away, with no backoff and no attempt consumed.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration

	// jitter returns a value in [0,1); overridden in tests.
	jitter func() float64
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewRetryPolicy(maxRetries int, baseDelay time.Duration) RetryPolicy {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if baseDelay <= 0 {
		baseDelay = defaultBaseDelay
	}
	return RetryPolicy{
		MaxRetries: maxRetries,
		BaseDelay:  baseDelay,
		MaxDelay:   defaultMaxDelay,
		jitter:     rand.Float64,
		sleep:      sleepContext,
	}
}

// Do runs op through the breaker until it succeeds or attempts run out.
// Upstream errors with a status below 500 are final; server errors and
// untyped errors retry.
func (p RetryPolicy) Do(ctx context.Context, breaker *Breaker, name string, op func() (interface{}, error)) (interface{}, error) {
	logger := config.GetLogger()

	for attempt := 0; ; attempt++ {
		result, err := breaker.Execute(op)
		if err == nil {
			return result, nil
		}
		if isBreakerRejection(err) {
			logger.WithField("operation", name).Warn("circuit open, failing fast")
			return nil, NewServiceUnavailable(err)
		}
		if !retryable(err) {
			return nil, err
		}
		if attempt >= p.MaxRetries {
			config.LogError(logger, "netsuite", "RetryPolicy.Do", name, map[string]interface{}{"attempts": attempt + 1}, err)
			return nil, err
		}

		delay := p.backoff(attempt)
		logger.WithFields(logrus.Fields{
			"operation": name,
			"attempt":   attempt + 1,
			"delay":     delay.String(),
		}).Warn("retrying after failure")
		if sleepErr := p.sleep(ctx, delay); sleepErr != nil {
			return nil, sleepErr
		}
	}
}

func (p RetryPolicy) backoff(attempt int) time.Duration {
	jitter := p.jitter
	if jitter == nil {
		jitter = rand.Float64
	}
	delay := float64(p.BaseDelay)*math.Pow(2, float64(attempt)) + jitter()*float64(time.Second)
	maxDelay := p.MaxDelay
	if maxDelay <= 0 {
		maxDelay = defaultMaxDelay
	}
	if delay > float64(maxDelay) {
		delay = float64(maxDelay)
	}
	return time.Duration(delay)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
