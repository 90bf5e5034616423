package postgres

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/voyago/tripledger/internal/domain"
)

// wrapStoreErr maps infrastructure-level failures (connection refused,
// timeouts, server shutdown) to domain.ErrStoreUnavailable so callers can
// retry. Logical errors (constraint violations, not-found) pass through.
func wrapStoreErr(err error) error {
	if err == nil {
		return nil
	}

	var netErr net.Error
	if errors.As(err, &netErr) || pgconn.Timeout(err) {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08: connection exception, 53: insufficient resources,
		// 57: operator intervention (shutdown).
		switch {
		case strings.HasPrefix(pgErr.Code, "08"),
			strings.HasPrefix(pgErr.Code, "53"),
			strings.HasPrefix(pgErr.Code, "57"):
			return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
	}

	return err
}

// parseAmount converts a numeric column rendered as text to a decimal.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount from store: %w", err)
	}

	return d, nil
}
