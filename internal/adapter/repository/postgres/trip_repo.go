package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voyago/tripledger/internal/domain"
	"github.com/voyago/tripledger/internal/usecase"
)

// TripRepository implements usecase.TripRepository. Trips are owned by the
// planning subsystem; the ledger only reads and locks them.
type TripRepository struct {
	pool *pgxpool.Pool
}

// NewTripRepository creates a new TripRepository.
func NewTripRepository(pool *pgxpool.Pool) *TripRepository {
	return &TripRepository{pool: pool}
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `
		SELECT id, name, currency, created_at
		FROM trips
		WHERE id = $1
	`

	var trip domain.Trip
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&trip.ID,
		&trip.Name,
		&trip.Currency,
		&trip.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTripNotFound
		}

		return nil, wrapStoreErr(err)
	}

	return &trip, nil
}

// Lock takes a row lock on the trip until tx ends. Settlement recording
// locks the trip so its validation reads cannot race a concurrent
// settlement write.
func (r *TripRepository) Lock(ctx context.Context, tx usecase.Transaction, id string) error {
	pgxTx := tx.(*Tx).PgxTx()

	var lockedID string
	err := pgxTx.QueryRow(ctx, `SELECT id FROM trips WHERE id = $1 FOR UPDATE`, id).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTripNotFound
		}

		return wrapStoreErr(err)
	}

	return nil
}
