package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/voyago/tripledger/internal/domain"
	"github.com/voyago/tripledger/internal/usecase"
)

// SplitResponse represents one split in API responses.
type SplitResponse struct {
	MemberID string          `json:"member_id"`
	Amount   decimal.Decimal `json:"amount"`
	Paid     bool            `json:"paid"`
}

// ExpenseResponse represents an expense in API responses.
type ExpenseResponse struct {
	ID           string          `json:"id"`
	TripID       string          `json:"trip_id"`
	Title        string          `json:"title"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	PaidBy       string          `json:"paid_by"`
	Policy       string          `json:"policy"`
	IsSettlement bool            `json:"is_settlement"`
	Splits       []SplitResponse `json:"splits"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ExpenseFromDomain converts a domain expense to a response.
func ExpenseFromDomain(e *domain.Expense) *ExpenseResponse {
	splits := make([]SplitResponse, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = SplitResponse{
			MemberID: s.MemberID,
			Amount:   s.Amount,
			Paid:     s.Paid,
		}
	}
	return &ExpenseResponse{
		ID:           e.ID,
		TripID:       e.TripID,
		Title:        e.Title,
		Amount:       e.Amount,
		Currency:     e.Currency,
		PaidBy:       e.PaidBy,
		Policy:       string(e.Policy),
		IsSettlement: e.IsSettlement,
		Splits:       splits,
		CreatedAt:    e.CreatedAt,
	}
}

// ExpensesFromDomain converts domain expenses to responses.
func ExpensesFromDomain(expenses []*domain.Expense) []*ExpenseResponse {
	result := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		result[i] = ExpenseFromDomain(e)
	}
	return result
}

// ListExpensesResponse wraps a page of expenses.
type ListExpensesResponse struct {
	Expenses []*ExpenseResponse `json:"expenses"`
	Total    int64              `json:"total"`
}

// SettlementResponse represents a recorded settlement. The payer and
// recipient are recovered from the settlement's two splits.
type SettlementResponse struct {
	ID           string          `json:"id"`
	TripID       string          `json:"trip_id"`
	Title        string          `json:"title"`
	FromMemberID string          `json:"from_member_id"`
	ToMemberID   string          `json:"to_member_id"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	CreatedAt    time.Time       `json:"created_at"`
}

// SettlementFromDomain converts a settlement expense to a response.
func SettlementFromDomain(e *domain.Expense) *SettlementResponse {
	resp := &SettlementResponse{
		ID:        e.ID,
		TripID:    e.TripID,
		Title:     e.Title,
		Amount:    e.Amount,
		Currency:  e.Currency,
		CreatedAt: e.CreatedAt,
	}
	for _, s := range e.Splits {
		if s.Amount.IsNegative() {
			resp.FromMemberID = s.MemberID
		} else {
			resp.ToMemberID = s.MemberID
		}
	}
	return resp
}

// SettlementsFromDomain converts settlement expenses to responses.
func SettlementsFromDomain(settlements []*domain.Expense) []*SettlementResponse {
	result := make([]*SettlementResponse, len(settlements))
	for i, s := range settlements {
		result[i] = SettlementFromDomain(s)
	}
	return result
}

// BalanceResponse represents one member's derived position.
type BalanceResponse struct {
	MemberID  string          `json:"member_id"`
	TotalPaid decimal.Decimal `json:"total_paid"`
	TotalOwed decimal.Decimal `json:"total_owed"`
	Balance   decimal.Decimal `json:"balance"`
}

// BalancesFromDomain converts domain balances to responses.
func BalancesFromDomain(balances []domain.Balance) []BalanceResponse {
	result := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		result[i] = BalanceResponse{
			MemberID:  b.MemberID,
			TotalPaid: b.TotalPaid,
			TotalOwed: b.TotalOwed,
			Balance:   b.Balance,
		}
	}
	return result
}

// DebtResponse represents one suggested repayment.
type DebtResponse struct {
	FromMemberID string          `json:"from_member_id"`
	ToMemberID   string          `json:"to_member_id"`
	Amount       decimal.Decimal `json:"amount"`
}

// DebtsFromDomain converts domain debts to responses.
func DebtsFromDomain(debts []domain.Debt) []DebtResponse {
	result := make([]DebtResponse, len(debts))
	for i, d := range debts {
		result[i] = DebtResponse{
			FromMemberID: d.FromMemberID,
			ToMemberID:   d.ToMemberID,
			Amount:       d.Amount,
		}
	}
	return result
}

// MemberResponse represents a trip member in API responses.
type MemberResponse struct {
	ID        string    `json:"id"`
	TripID    string    `json:"trip_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// MembersFromDomain converts domain members to responses.
func MembersFromDomain(members []*domain.Member) []*MemberResponse {
	result := make([]*MemberResponse, len(members))
	for i, m := range members {
		result[i] = &MemberResponse{
			ID:        m.ID,
			TripID:    m.TripID,
			Name:      m.Name,
			Email:     m.Email,
			Role:      string(m.Role),
			CreatedAt: m.CreatedAt,
		}
	}
	return result
}

// BreakdownEntryResponse is one ledger entry with the cumulative balances
// after it was applied.
type BreakdownEntryResponse struct {
	Expense         *ExpenseResponse  `json:"expense"`
	RunningBalances []BalanceResponse `json:"running_balances"`
}

// BreakdownResponse is the full chronological reporting view for a trip.
type BreakdownResponse struct {
	TripID          string                   `json:"trip_id"`
	Currency        string                   `json:"currency"`
	Entries         []BreakdownEntryResponse `json:"entries"`
	TotalSpent      decimal.Decimal          `json:"total_spent"`
	TotalSettled    decimal.Decimal          `json:"total_settled"`
	ExpenseCount    int                      `json:"expense_count"`
	SettlementCount int                      `json:"settlement_count"`
}

// BreakdownFromUseCase converts a use case breakdown to a response.
func BreakdownFromUseCase(b *usecase.TripBreakdown) *BreakdownResponse {
	entries := make([]BreakdownEntryResponse, len(b.Entries))
	for i, entry := range b.Entries {
		entries[i] = BreakdownEntryResponse{
			Expense:         ExpenseFromDomain(entry.Expense),
			RunningBalances: BalancesFromDomain(entry.RunningBalances),
		}
	}
	return &BreakdownResponse{
		TripID:          b.TripID,
		Currency:        b.Currency,
		Entries:         entries,
		TotalSpent:      b.TotalSpent,
		TotalSettled:    b.TotalSettled,
		ExpenseCount:    b.ExpenseCount,
		SettlementCount: b.SettlementCount,
	}
}

// ConsistencyResponse reports the ledger consistency check result.
type ConsistencyResponse struct {
	TripID     string `json:"trip_id"`
	Consistent bool   `json:"consistent"`
}

// AuditLogResponse represents one audit record.
type AuditLogResponse struct {
	ID           string    `json:"id"`
	ActorID      string    `json:"actor_id"`
	TripID       string    `json:"trip_id"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   string    `json:"resource_id"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuditLogsFromDomain converts domain audit logs to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = &AuditLogResponse{
			ID:           l.ID,
			ActorID:      l.ActorID,
			TripID:       l.TripID,
			Action:       l.Action,
			ResourceType: l.ResourceType,
			ResourceID:   l.ResourceID,
			Status:       l.Status,
			CreatedAt:    l.CreatedAt,
		}
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
