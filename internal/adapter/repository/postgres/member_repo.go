package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voyago/tripledger/internal/domain"
)

// MemberRepository implements usecase.MemberRepository.
type MemberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository creates a new MemberRepository.
func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{pool: pool}
}

// GetByID retrieves one trip member.
func (r *MemberRepository) GetByID(ctx context.Context, tripID, memberID string) (*domain.Member, error) {
	query := `
		SELECT id, trip_id, name, email, role, created_at
		FROM trip_members
		WHERE trip_id = $1 AND id = $2
	`

	var member domain.Member
	err := r.pool.QueryRow(ctx, query, tripID, memberID).Scan(
		&member.ID,
		&member.TripID,
		&member.Name,
		&member.Email,
		&member.Role,
		&member.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}

		return nil, wrapStoreErr(err)
	}

	return &member, nil
}

// ListByTrip lists the members of a trip in join order.
func (r *MemberRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.Member, error) {
	query := `
		SELECT id, trip_id, name, email, role, created_at
		FROM trip_members
		WHERE trip_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, tripID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	defer rows.Close()

	var members []*domain.Member
	for rows.Next() {
		var member domain.Member
		err := rows.Scan(
			&member.ID,
			&member.TripID,
			&member.Name,
			&member.Email,
			&member.Role,
			&member.CreatedAt,
		)
		if err != nil {
			return nil, wrapStoreErr(err)
		}

		members = append(members, &member)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapStoreErr(err)
	}

	return members, nil
}
