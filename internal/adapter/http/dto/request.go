package dto

import (
	"github.com/shopspring/decimal"

	"github.com/voyago/tripledger/internal/domain"
	"github.com/voyago/tripledger/internal/usecase"
)

// CustomShareItem is one participant's share in a custom split request.
type CustomShareItem struct {
	MemberID string          `json:"member_id"`
	Amount   decimal.Decimal `json:"amount"`
}

// CreateExpenseRequest represents a request to record an expense.
type CreateExpenseRequest struct {
	Title        string            `json:"title"`
	Amount       decimal.Decimal   `json:"amount"`
	Currency     string            `json:"currency,omitempty"`
	PaidBy       string            `json:"paid_by"`
	Policy       string            `json:"policy"`
	Participants []string          `json:"participants,omitempty"`
	CustomShares []CustomShareItem `json:"custom_shares,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateExpenseRequest) ToUseCaseInput(tripID, actorID string) usecase.CreateExpenseInput {
	return usecase.CreateExpenseInput{
		TripID:       tripID,
		ActorID:      actorID,
		Title:        r.Title,
		Amount:       r.Amount,
		Currency:     r.Currency,
		PaidBy:       r.PaidBy,
		Policy:       domain.SplitPolicy(r.Policy),
		Participants: r.Participants,
		CustomShares: customShares(r.CustomShares),
	}
}

// ReplaceSplitsRequest represents a request to replace an expense's splits.
type ReplaceSplitsRequest struct {
	Policy       string            `json:"policy"`
	Participants []string          `json:"participants,omitempty"`
	CustomShares []CustomShareItem `json:"custom_shares,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ReplaceSplitsRequest) ToUseCaseInput(tripID, expenseID, actorID string) usecase.ReplaceSplitsInput {
	return usecase.ReplaceSplitsInput{
		TripID:       tripID,
		ExpenseID:    expenseID,
		ActorID:      actorID,
		Policy:       domain.SplitPolicy(r.Policy),
		Participants: r.Participants,
		CustomShares: customShares(r.CustomShares),
	}
}

// RecordSettlementRequest represents a request to record a payment between
// two trip members.
type RecordSettlementRequest struct {
	FromMemberID string          `json:"from_member_id"`
	ToMemberID   string          `json:"to_member_id"`
	Amount       decimal.Decimal `json:"amount"`
	Note         string          `json:"note,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordSettlementRequest) ToUseCaseInput(tripID, actorID string) usecase.RecordSettlementInput {
	return usecase.RecordSettlementInput{
		TripID:       tripID,
		ActorID:      actorID,
		FromMemberID: r.FromMemberID,
		ToMemberID:   r.ToMemberID,
		Amount:       r.Amount,
		Note:         r.Note,
	}
}

func customShares(items []CustomShareItem) []domain.CustomShare {
	if len(items) == 0 {
		return nil
	}
	shares := make([]domain.CustomShare, len(items))
	for i, item := range items {
		shares[i] = domain.CustomShare{
			MemberID: item.MemberID,
			Amount:   item.Amount,
		}
	}
	return shares
}
