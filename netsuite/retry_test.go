package netsuite

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testPolicy(maxRetries int) RetryPolicy {
	p := NewRetryPolicy(maxRetries, time.Millisecond)
	p.jitter = func() float64 { return 0 }
	p.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return p
}

func TestRetry_FailTwiceThenSucceed(t *testing.T) {
	breaker := newBreaker("test", 5, time.Minute)
	policy := testPolicy(3)

	calls := 0
	result, err := policy.Do(context.Background(), breaker, "op", func() (interface{}, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("transient")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "ok" {
		t.Fatalf("expected ok, got %v", result)
	}
	if calls != 3 {
		t.Fatalf("expected exactly 3 invocations, got %d", calls)
	}
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	breaker := newBreaker("test", 10, time.Minute)
	policy := testPolicy(3)

	calls := 0
	_, err := policy.Do(context.Background(), breaker, "op", func() (interface{}, error) {
		calls++
		return nil, NewUpstreamError(502, "bad gateway")
	})
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if calls != 4 {
		t.Fatalf("expected initial attempt plus 3 retries, got %d invocations", calls)
	}
}

func TestRetry_ClientErrorNotRetried(t *testing.T) {
	breaker := newBreaker("test", 5, time.Minute)
	policy := testPolicy(3)

	calls := 0
	_, err := policy.Do(context.Background(), breaker, "op", func() (interface{}, error) {
		calls++
		return nil, NewUpstreamError(400, "bad request")
	})
	typed, ok := AsError(err)
	if !ok || typed.Kind != KindUpstreamClient {
		t.Fatalf("expected upstream client error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("client error must not retry, got %d invocations", calls)
	}
}

func TestRetry_OpenBreakerFailsFastWithoutInvoking(t *testing.T) {
	breaker := newBreaker("test", 2, time.Minute)
	policy := testPolicy(1)

	for i := 0; i < 2; i++ {
		_, _ = policy.Do(context.Background(), breaker, "op", func() (interface{}, error) {
			return nil, NewUpstreamError(500, "down")
		})
	}

	calls := 0
	_, err := policy.Do(context.Background(), breaker, "op", func() (interface{}, error) {
		calls++
		return nil, nil
	})
	typed, ok := AsError(err)
	if !ok || typed.Kind != KindServiceUnavailable {
		t.Fatalf("expected service unavailable, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("open breaker must not invoke the operation, got %d calls", calls)
	}
}

func TestRetry_BreakerRecoversAfterTimeout(t *testing.T) {
	breaker := newBreaker("test", 1, 10*time.Millisecond)
	policy := testPolicy(1)

	_, _ = policy.Do(context.Background(), breaker, "op", func() (interface{}, error) {
		return nil, NewUpstreamError(500, "down")
	})
	time.Sleep(20 * time.Millisecond)

	calls := 0
	result, err := policy.Do(context.Background(), breaker, "op", func() (interface{}, error) {
		calls++
		return "recovered", nil
	})
	if err != nil {
		t.Fatalf("half-open request should pass through: %v", err)
	}
	if result != "recovered" || calls != 1 {
		t.Fatalf("expected one successful half-open call, got %v calls=%d", result, calls)
	}
}

func TestBackoff_CapsAtMaxDelay(t *testing.T) {
	p := NewRetryPolicy(10, time.Second)
	p.jitter = func() float64 { return 0 }
	p.MaxDelay = 30 * time.Second

	if d := p.backoff(0); d != time.Second {
		t.Fatalf("attempt 0: expected 1s, got %v", d)
	}
	if d := p.backoff(2); d != 4*time.Second {
		t.Fatalf("attempt 2: expected 4s, got %v", d)
	}
	if d := p.backoff(20); d != 30*time.Second {
		t.Fatalf("large attempt: expected cap 30s, got %v", d)
	}
}
