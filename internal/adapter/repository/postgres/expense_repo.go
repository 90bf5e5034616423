package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voyago/tripledger/internal/domain"
	"github.com/voyago/tripledger/internal/usecase"
)

// ExpenseRepository implements usecase.ExpenseRepository. Splits live and
// die with their parent expense; the splits table cascades on delete and
// all writes go through the caller's transaction.
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

const insertExpenseSQL = `
	INSERT INTO expenses (id, trip_id, title, amount, currency, paid_by, policy, is_settlement, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

const insertSplitSQL = `
	INSERT INTO expense_splits (expense_id, member_id, amount, paid, position)
	VALUES ($1, $2, $3, $4, $5)
`

// Create inserts an expense and all of its splits inside tx. The caller
// owns commit/rollback, so a failed split insert never leaves an orphaned
// expense behind.
func (r *ExpenseRepository) Create(ctx context.Context, tx usecase.Transaction, expense *domain.Expense) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, insertExpenseSQL,
		expense.ID,
		expense.TripID,
		expense.Title,
		expense.Amount.String(),
		expense.Currency,
		expense.PaidBy,
		string(expense.Policy),
		expense.IsSettlement,
		expense.CreatedAt,
	)
	if err != nil {
		return wrapStoreErr(err)
	}

	batch := &pgx.Batch{}
	for i, split := range expense.Splits {
		batch.Queue(insertSplitSQL,
			expense.ID,
			split.MemberID,
			split.Amount.String(),
			split.Paid,
			i,
		)
	}

	results := pgxTx.SendBatch(ctx, batch)
	defer results.Close()

	// The expense row is already in; a failed split insert is a partial
	// write until the caller's rollback undoes it.
	for range expense.Splits {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrPartialWriteFailure, err)
		}
	}

	return nil
}

// GetByID retrieves an expense with its splits.
func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	query := `
		SELECT id, trip_id, title, amount::text, currency, paid_by, policy, is_settlement, created_at
		FROM expenses
		WHERE id = $1
	`

	expense, err := scanExpense(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}

		return nil, wrapStoreErr(err)
	}

	splits, err := r.querySplits(ctx, `WHERE expense_id = $1`, id)
	if err != nil {
		return nil, err
	}

	expense.Splits = splits[expense.ID]

	return expense, nil
}

// ListByTrip lists a trip's expenses chronologically with splits attached.
func (r *ExpenseRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.Expense, error) {
	return r.listByTrip(ctx, r.pool, tripID)
}

// ListByTripTx is ListByTrip reading through tx, used when validation must
// see the same snapshot the write will commit against.
func (r *ExpenseRepository) ListByTripTx(ctx context.Context, tx usecase.Transaction, tripID string) ([]*domain.Expense, error) {
	return r.listByTrip(ctx, tx.(*Tx).PgxTx(), tripID)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *ExpenseRepository) listByTrip(ctx context.Context, q querier, tripID string) ([]*domain.Expense, error) {
	query := `
		SELECT id, trip_id, title, amount::text, currency, paid_by, policy, is_settlement, created_at
		FROM expenses
		WHERE trip_id = $1
		ORDER BY created_at, id
	`

	rows, err := q.Query(ctx, query, tripID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	defer rows.Close()

	var expenses []*domain.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, wrapStoreErr(err)
		}

		expenses = append(expenses, expense)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapStoreErr(err)
	}

	splitQuery := `WHERE expense_id IN (SELECT id FROM expenses WHERE trip_id = $1)`

	splits, err := r.querySplitsWith(ctx, q, splitQuery, tripID)
	if err != nil {
		return nil, err
	}

	for _, expense := range expenses {
		expense.Splits = splits[expense.ID]
	}

	return expenses, nil
}

// Delete removes an expense; its splits go with it via ON DELETE CASCADE.
func (r *ExpenseRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return wrapStoreErr(err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}

	return nil
}

// ReplaceSplits swaps all splits of an expense for a new set inside tx.
func (r *ExpenseRepository) ReplaceSplits(ctx context.Context, tx usecase.Transaction, expenseID string, splits []domain.ExpenseSplit) error {
	pgxTx := tx.(*Tx).PgxTx()

	if _, err := pgxTx.Exec(ctx, `DELETE FROM expense_splits WHERE expense_id = $1`, expenseID); err != nil {
		return wrapStoreErr(err)
	}

	for i, split := range splits {
		_, err := pgxTx.Exec(ctx, insertSplitSQL,
			expenseID,
			split.MemberID,
			split.Amount.String(),
			split.Paid,
			i,
		)
		if err != nil {
			return wrapStoreErr(err)
		}
	}

	return nil
}

func (r *ExpenseRepository) querySplits(ctx context.Context, where string, args ...any) (map[string][]domain.ExpenseSplit, error) {
	return r.querySplitsWith(ctx, r.pool, where, args...)
}

func (r *ExpenseRepository) querySplitsWith(ctx context.Context, q querier, where string, args ...any) (map[string][]domain.ExpenseSplit, error) {
	query := `
		SELECT expense_id, member_id, amount::text, paid
		FROM expense_splits
		` + where + `
		ORDER BY expense_id, position
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	defer rows.Close()

	splits := make(map[string][]domain.ExpenseSplit)
	for rows.Next() {
		var split domain.ExpenseSplit
		var amount string

		if err := rows.Scan(&split.ExpenseID, &split.MemberID, &amount, &split.Paid); err != nil {
			return nil, wrapStoreErr(err)
		}

		split.Amount, err = parseAmount(amount)
		if err != nil {
			return nil, err
		}

		splits[split.ExpenseID] = append(splits[split.ExpenseID], split)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapStoreErr(err)
	}

	return splits, nil
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var expense domain.Expense
	var amount, policy string

	err := row.Scan(
		&expense.ID,
		&expense.TripID,
		&expense.Title,
		&amount,
		&expense.Currency,
		&expense.PaidBy,
		&policy,
		&expense.IsSettlement,
		&expense.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	expense.Amount, err = parseAmount(amount)
	if err != nil {
		return nil, err
	}

	expense.Policy = domain.SplitPolicy(policy)

	return &expense, nil
}
