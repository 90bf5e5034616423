package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/voyago/tripledger/internal/domain"
)

func newTestRetrier() *Retrier {
	return &Retrier{
		maxRetries:      3,
		initialInterval: time.Millisecond,
		maxInterval:     time.Millisecond,
		maxElapsedTime:  time.Second,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestRetrier_RecoversFromSerializationFailure(t *testing.T) {
	r := newTestRetrier()

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return &pgconn.PgError{Code: pgErrSerializationFailure}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetrier_DeadlockIsRetryable(t *testing.T) {
	r := newTestRetrier()

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		if attempts == 1 {
			return &pgconn.PgError{Code: pgErrDeadlock}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestRetrier_DomainErrorIsPermanent(t *testing.T) {
	r := newTestRetrier()

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		return domain.ErrInvalidSettlementAmount
	})
	if !errors.Is(err, domain.ErrInvalidSettlementAmount) {
		t.Fatalf("expected the domain sentinel to survive, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("non-retryable errors must not be retried, got %d attempts", attempts)
	}
}

func TestRetrier_GivesUpAfterMaxRetries(t *testing.T) {
	r := newTestRetrier()

	attempts := 0
	conflict := &pgconn.PgError{Code: pgErrSerializationFailure}
	err := r.Retry(context.Background(), func() error {
		attempts++
		return conflict
	})

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgErrSerializationFailure {
		t.Fatalf("expected the conflict error after exhausting retries, got %v", err)
	}
	// The initial attempt plus maxRetries further tries.
	if attempts != 4 {
		t.Errorf("expected 4 attempts, got %d", attempts)
	}
}
