package agent

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryPolicyDo(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		policy    RetryPolicy
		failures  int
		wantCalls int
		wantErr   bool
	}{
		{"first try", DefaultRetryPolicy(), 0, 1, false},
		{"succeeds within budget", RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}, 2, 3, false},
		{"exhausted", RetryPolicy{MaxAttempts: 2, BaseDelay: time.Millisecond}, 5, 2, true},
		{"zero attempts still runs once", RetryPolicy{}, 0, 1, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			calls := 0
			err := tt.policy.Do(context.Background(), func() error {
				calls++
				if calls <= tt.failures {
					return errors.New("transient")
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Fatalf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryPolicyTinyDelayWithJitter(t *testing.T) {
	t.Parallel()
	// A sub-2ns delay halves to zero; jitter must cope, not panic.
	p := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Nanosecond, Jitter: true}
	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Fatalf("err = %v, calls = %d", err, calls)
	}
}

func TestRetryPolicyContextCancel(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := RetryPolicy{MaxAttempts: 5, BaseDelay: time.Hour}
	calls := 0
	err := p.Do(ctx, func() error {
		calls++
		return errors.New("transient")
	})
	if err == nil {
		t.Fatal("expected an error after cancellation")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (no waiting on a dead context)", calls)
	}
}
