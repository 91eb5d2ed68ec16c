package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eljumillano/deposit-reports-go/internal/infra/resilience"
)

func TestRetryFixedDelay_Success(t *testing.T) {
	cfg := resilience.Config{
		MaxAttempts: 3,
		Delay:       10 * time.Millisecond,
	}

	callCount := 0
	err := resilience.RetryFixedDelay(context.Background(), cfg, func() error {
		callCount++
		return nil
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
}

func TestRetryFixedDelay_FailsTwiceThenSucceeds(t *testing.T) {
	cfg := resilience.Config{
		MaxAttempts: 3,
		Delay:       10 * time.Millisecond,
	}

	callCount := 0
	err := resilience.RetryFixedDelay(context.Background(), cfg, func() error {
		callCount++
		if callCount < 3 {
			return errors.New("temporary error")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success on the third attempt, got %v", err)
	}
	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
}

func TestRetryFixedDelay_ExhaustsBudget(t *testing.T) {
	cfg := resilience.Config{
		MaxAttempts: 3,
		Delay:       10 * time.Millisecond,
	}

	lastErr := errors.New("persistent error")
	callCount := 0
	err := resilience.RetryFixedDelay(context.Background(), cfg, func() error {
		callCount++
		return lastErr
	})

	if !errors.Is(err, lastErr) {
		t.Fatalf("expected the last attempt's error, got %v", err)
	}
	if callCount != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", callCount)
	}
}

func TestRetryFixedDelay_RespectsContext(t *testing.T) {
	cfg := resilience.Config{
		MaxAttempts: 5,
		Delay:       1 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := resilience.RetryFixedDelay(ctx, cfg, func() error {
		return errors.New("error")
	})

	if err == nil {
		t.Fatal("expected context error")
	}
}

func TestRetryFixedDelay_ZeroAttemptsStillCallsOnce(t *testing.T) {
	callCount := 0
	err := resilience.RetryFixedDelay(context.Background(), resilience.Config{}, func() error {
		callCount++
		return nil
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
}
