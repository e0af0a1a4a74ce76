package queue

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cognitive-crime/casegraph/pkg/leaselock"

	"github.com/rabbitmq/amqp091-go"
)

func TestShouldFailCase(t *testing.T) {
	t.Parallel()

	storeErr := fmt.Errorf("failed to write entity %q: %w", "John Doe", errors.New("connection refused"))

	tests := []struct {
		name    string
		err     error
		retries int
		want    bool
	}{
		{
			name:    "budget_remaining_keeps_retrying",
			err:     storeErr,
			retries: maxRetries - 1,
			want:    false,
		},
		{
			name:    "exhausted_store_error_fails_case",
			err:     storeErr,
			retries: maxRetries,
			want:    true,
		},
		{
			name:    "exhausted_past_budget_fails_case",
			err:     storeErr,
			retries: maxRetries + 3,
			want:    true,
		},
		{
			name:    "busy_lease_never_fails_case",
			err:     fmt.Errorf("acquire lease: %w", leaselock.ErrBusy),
			retries: maxRetries,
			want:    false,
		},
		{
			name:    "shutdown_never_fails_case",
			err:     context.Canceled,
			retries: maxRetries,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := shouldFailCase(tt.err, tt.retries); got != tt.want {
				t.Errorf("shouldFailCase(%v, %d) = %v, want %v", tt.err, tt.retries, got, tt.want)
			}
		})
	}
}

func TestRetryCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers amqp091.Table
		want    int
	}{
		{name: "no_headers", headers: nil, want: 0},
		{name: "missing_header", headers: amqp091.Table{"other": int32(4)}, want: 0},
		{name: "counter_present", headers: amqp091.Table{"x-retries": int32(7)}, want: 7},
		{name: "wrong_type_ignored", headers: amqp091.Table{"x-retries": "7"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			msg := amqp091.Delivery{Headers: tt.headers}
			if got := RetryCount(msg); got != tt.want {
				t.Errorf("RetryCount() = %d, want %d", got, tt.want)
			}
		})
	}
}
