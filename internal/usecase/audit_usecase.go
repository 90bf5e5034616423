package usecase

import (
	"context"

	"github.com/voyago/tripledger/internal/domain"
)

// AuditUseCase serves the trip's audit trail.
type AuditUseCase struct {
	auditRepo  AuditRepository
	authorizer Authorizer
}

// NewAuditUseCase creates a new AuditUseCase.
func NewAuditUseCase(auditRepo AuditRepository, authorizer Authorizer) *AuditUseCase {
	return &AuditUseCase{
		auditRepo:  auditRepo,
		authorizer: authorizer,
	}
}

// ListByTrip returns the trip's audit records, newest first.
func (uc *AuditUseCase) ListByTrip(ctx context.Context, tripID, actorID string, limit, offset int) ([]*domain.AuditLog, error) {
	if err := uc.authorizer.CanView(ctx, tripID, actorID); err != nil {
		return nil, err
	}

	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.auditRepo.ListByTrip(ctx, tripID, limit, offset)
}
