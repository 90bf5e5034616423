package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/voyago/tripledger/internal/domain"
)

// MemberAuthorizer implements Authorizer against the trip membership store.
// Roles are cached briefly; membership is owned by the collaboration
// subsystem and changes rarely.
type MemberAuthorizer struct {
	members MemberRepository
	cache   Cache
	ttl     time.Duration
}

// NewMemberAuthorizer creates a new MemberAuthorizer. cache may be nil, in
// which case every check hits the store.
func NewMemberAuthorizer(members MemberRepository, cache Cache, ttl time.Duration) *MemberAuthorizer {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return &MemberAuthorizer{
		members: members,
		cache:   cache,
		ttl:     ttl,
	}
}

// CanEdit returns nil when the member may mutate the trip ledger.
func (a *MemberAuthorizer) CanEdit(ctx context.Context, tripID, memberID string) error {
	role, err := a.role(ctx, tripID, memberID)
	if err != nil {
		return err
	}

	if !role.CanEdit() {
		return domain.ErrPermissionDenied
	}

	return nil
}

// CanView returns nil when the member may read the trip ledger.
func (a *MemberAuthorizer) CanView(ctx context.Context, tripID, memberID string) error {
	role, err := a.role(ctx, tripID, memberID)
	if err != nil {
		return err
	}

	if !role.CanView() {
		return domain.ErrPermissionDenied
	}

	return nil
}

func (a *MemberAuthorizer) role(ctx context.Context, tripID, memberID string) (domain.Role, error) {
	key := "member-role:" + tripID + ":" + memberID

	if a.cache != nil {
		if cached, err := a.cache.Get(ctx, key); err == nil && len(cached) > 0 {
			return domain.Role(cached), nil
		}
	}

	member, err := a.members.GetByID(ctx, tripID, memberID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return "", domain.ErrPermissionDenied
		}

		return "", err
	}

	if a.cache != nil {
		// Best effort; a cache failure never blocks the check.
		_ = a.cache.Set(ctx, key, []byte(member.Role), a.ttl)
	}

	return member.Role, nil
}
