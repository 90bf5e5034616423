package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerRepository implements usecase.LedgerRepository with database-level
// aggregate queries.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// TripSums returns the trip-wide totals for non-settlement expenses: the
// sum paid by payers and the sum of all shares. Money conservation holds
// when the two are equal.
func (r *LedgerRepository) TripSums(ctx context.Context, tripID string) (string, string, error) {
	query := `
		SELECT
			COALESCE(SUM(e.amount), 0)::text,
			COALESCE((
				SELECT SUM(s.amount)
				FROM expense_splits s
				JOIN expenses ex ON ex.id = s.expense_id
				WHERE ex.trip_id = $1 AND NOT ex.is_settlement
			), 0)::text
		FROM expenses e
		WHERE e.trip_id = $1 AND NOT e.is_settlement
	`

	var totalPaid, totalOwed string
	if err := r.pool.QueryRow(ctx, query, tripID).Scan(&totalPaid, &totalOwed); err != nil {
		return "", "", wrapStoreErr(err)
	}

	return totalPaid, totalOwed, nil
}

// SettlementImbalance counts settlement expenses whose splits do not net
// to zero. Any non-zero count means the zero-sum invariant is broken.
func (r *LedgerRepository) SettlementImbalance(ctx context.Context, tripID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM (
			SELECT e.id
			FROM expenses e
			JOIN expense_splits s ON s.expense_id = e.id
			WHERE e.trip_id = $1 AND e.is_settlement
			GROUP BY e.id
			HAVING SUM(s.amount) <> 0
		) unbalanced
	`

	var count int
	if err := r.pool.QueryRow(ctx, query, tripID).Scan(&count); err != nil {
		return 0, wrapStoreErr(err)
	}

	return count, nil
}
