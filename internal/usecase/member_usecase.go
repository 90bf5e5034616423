package usecase

import (
	"context"

	"github.com/voyago/tripledger/internal/domain"
)

// MemberUseCase exposes the trip membership read model the ledger consumes.
type MemberUseCase struct {
	memberRepo MemberRepository
	authorizer Authorizer
}

// NewMemberUseCase creates a new MemberUseCase.
func NewMemberUseCase(memberRepo MemberRepository, authorizer Authorizer) *MemberUseCase {
	return &MemberUseCase{
		memberRepo: memberRepo,
		authorizer: authorizer,
	}
}

// ListMembers lists the members of a trip.
func (uc *MemberUseCase) ListMembers(ctx context.Context, tripID, actorID string) ([]*domain.Member, error) {
	if err := uc.authorizer.CanView(ctx, tripID, actorID); err != nil {
		return nil, err
	}

	return uc.memberRepo.ListByTrip(ctx, tripID)
}
