package service

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/carebridge/server/internal/domain"
)

// Wallet-style identifiers are never account ids: browser wallets hand the
// UI a DID or a bech32 payment address, and neither maps to a users row.
const (
	didPrefix         = "did:"
	cardanoAddrPrefix = "addr1"
)

// IdentityResolver maps the nominal donor identifier on a donation request
// to a canonical, persisted user id. It never fails: identities that cannot
// be resolved degrade to the canonical anonymous user.
type IdentityResolver struct {
	users  domain.UserRepository
	logger zerolog.Logger

	bootstrapped atomic.Bool
}

// NewIdentityResolver constructs the resolver.
func NewIdentityResolver(users domain.UserRepository, logger zerolog.Logger) *IdentityResolver {
	return &IdentityResolver{users: users, logger: logger}
}

// Resolve returns the user id a donation should be attributed to.
//
// Anonymous requests, empty identifiers, the anonymous sentinel and
// wallet-style identifiers all resolve to the anonymous user. A known id
// resolves to itself. An unknown id also falls back to anonymous rather
// than creating an ad-hoc user or failing the donation.
func (r *IdentityResolver) Resolve(ctx context.Context, nominalID string, wantAnonymous bool) string {
	nominalID = strings.TrimSpace(nominalID)

	if wantAnonymous || nominalID == "" || nominalID == domain.AnonymousUserID || isWalletIdentifier(nominalID) {
		return r.anonymousID(ctx)
	}

	user, err := r.users.GetByID(ctx, nominalID)
	if err != nil {
		// Unknown or unreadable identity. Policy is to record the donation
		// anonymously instead of rejecting it; log so typo'd client ids
		// remain visible.
		r.logger.Warn().Err(err).Str("nominal_id", nominalID).Msg("identity: falling back to anonymous")
		return r.anonymousID(ctx)
	}
	return user.ID
}

// anonymousID returns the canonical anonymous id, creating the row on first
// use. The insert is an on-conflict no-op keyed on the primary id, so
// concurrent first-time callers all succeed with a single row.
func (r *IdentityResolver) anonymousID(ctx context.Context) string {
	if r.bootstrapped.Load() {
		return domain.AnonymousUserID
	}
	if err := r.users.EnsureExists(ctx, domain.AnonymousUser()); err != nil {
		// The donation insert will surface a real problem; the resolver
		// stays silent by contract.
		r.logger.Error().Err(err).Msg("identity: anonymous bootstrap failed")
		return domain.AnonymousUserID
	}
	r.bootstrapped.Store(true)
	return domain.AnonymousUserID
}

func isWalletIdentifier(id string) bool {
	return strings.HasPrefix(id, didPrefix) || strings.HasPrefix(id, cardanoAddrPrefix)
}
