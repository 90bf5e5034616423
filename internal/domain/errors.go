package domain

import "errors"

var (
	// Trip / member errors
	ErrTripNotFound   = errors.New("trip not found")
	ErrMemberNotFound = errors.New("member not found in trip")

	// Expense errors
	ErrExpenseNotFound  = errors.New("expense not found")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrCurrencyMismatch = errors.New("expense currency does not match trip currency")
	ErrNoParticipants   = errors.New("expense must have at least one participant")
	ErrSplitMismatch    = errors.New("sum of splits does not equal expense amount")

	// Settlement errors
	ErrInvalidSettlementAmount = errors.New("settlement amount outside outstanding debt")
	ErrInvalidSettlementShape  = errors.New("settlement must be two splits summing to zero")
	ErrSettlementImmutable     = errors.New("settlement entries cannot be edited")
	ErrSelfSettlement          = errors.New("cannot settle a debt with yourself")

	// Store / authorization errors
	ErrStoreUnavailable    = errors.New("ledger store unavailable")
	ErrPartialWriteFailure = errors.New("partial ledger write detected")
	ErrPermissionDenied    = errors.New("permission denied")
)
