package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/voyago/tripledger/internal/adapter/http/dto"
	"github.com/voyago/tripledger/internal/domain"
	"github.com/voyago/tripledger/internal/infrastructure/metrics"
	"github.com/voyago/tripledger/internal/usecase"
)

// ExpenseService defines the behavior needed by ExpenseHandler.
type ExpenseService interface {
	CreateExpense(ctx context.Context, input usecase.CreateExpenseInput) (*domain.Expense, error)
	GetExpense(ctx context.Context, tripID, expenseID, actorID string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, tripID, actorID string) ([]*domain.Expense, error)
	DeleteExpense(ctx context.Context, tripID, expenseID, actorID string) error
	ReplaceSplits(ctx context.Context, input usecase.ReplaceSplitsInput) (*domain.Expense, error)
}

// ExpenseHandler handles expense-related HTTP requests.
type ExpenseHandler struct {
	expenseUC ExpenseService
	metrics   *metrics.Metrics
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseUC ExpenseService, m *metrics.Metrics) *ExpenseHandler {
	return &ExpenseHandler{expenseUC: expenseUC, metrics: m}
}

// Create records a new expense on the trip ledger.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	var req dto.CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	expense, err := h.expenseUC.CreateExpense(r.Context(), req.ToUseCaseInput(tripID, actor))
	if err != nil {
		h.metrics.ExpenseErrors.WithLabelValues(errorType(err)).Inc()
		writeError(w, mapDomainError(err), "failed to create expense", err.Error())
		return
	}

	h.metrics.ExpensesCreated.Inc()
	h.metrics.ExpenseAmount.Observe(expense.Amount.InexactFloat64())

	writeJSON(w, http.StatusCreated, dto.ExpenseFromDomain(expense))
}

// Get retrieves an expense by ID.
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	expenseID := chi.URLParam(r, "expenseID")
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	expense, err := h.expenseUC.GetExpense(r.Context(), tripID, expenseID, actor)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get expense", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpenseFromDomain(expense))
}

// List lists the trip's expenses in chronological order.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	expenses, err := h.expenseUC.ListExpenses(r.Context(), tripID, actor)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list expenses", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListExpensesResponse{
		Expenses: dto.ExpensesFromDomain(expenses),
		Total:    int64(len(expenses)),
	})
}

// Delete removes an expense and its splits.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	expenseID := chi.URLParam(r, "expenseID")
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	if err := h.expenseUC.DeleteExpense(r.Context(), tripID, expenseID, actor); err != nil {
		h.metrics.ExpenseErrors.WithLabelValues(errorType(err)).Inc()
		writeError(w, mapDomainError(err), "failed to delete expense", err.Error())
		return
	}

	h.metrics.ExpensesDeleted.Inc()

	w.WriteHeader(http.StatusNoContent)
}

// ReplaceSplits swaps an expense's splits for a newly composed set.
func (h *ExpenseHandler) ReplaceSplits(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	expenseID := chi.URLParam(r, "expenseID")
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	var req dto.ReplaceSplitsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	expense, err := h.expenseUC.ReplaceSplits(r.Context(), req.ToUseCaseInput(tripID, expenseID, actor))
	if err != nil {
		h.metrics.ExpenseErrors.WithLabelValues(errorType(err)).Inc()
		writeError(w, mapDomainError(err), "failed to replace splits", err.Error())
		return
	}

	h.metrics.SplitsReplaced.Inc()

	writeJSON(w, http.StatusOK, dto.ExpenseFromDomain(expense))
}

// errorType buckets errors for metric labels.
func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrPermissionDenied):
		return "permission"
	case errors.Is(err, domain.ErrTripNotFound),
		errors.Is(err, domain.ErrMemberNotFound),
		errors.Is(err, domain.ErrExpenseNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "store"
	case mapDomainError(err) == http.StatusInternalServerError:
		return "internal"
	default:
		return "validation"
	}
}
