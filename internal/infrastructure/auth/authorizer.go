package auth

import (
	"context"

	"github.com/google/uuid"
)

// PermissionApproveOrders gates the approve/reject decision step
const PermissionApproveOrders = "orders:approve"

type contextKey string

const claimsContextKey contextKey = "auth_claims"

// WithClaims stores validated token claims in the context. The HTTP
// middleware calls this once per request after validating the bearer token.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext retrieves the validated claims, if any
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok
}

// ClaimsAuthorizer answers approval-permission checks from the validated
// token claims carried in the request context. The decision is local: the
// upstream identity service already resolved roles into permissions when it
// issued the token.
type ClaimsAuthorizer struct{}

// NewClaimsAuthorizer creates a claims-based authorizer
func NewClaimsAuthorizer() *ClaimsAuthorizer {
	return &ClaimsAuthorizer{}
}

// CanApprove reports whether the acting token may decide approvals for the
// organization. A token for another organization or actor never qualifies,
// even with the permission present.
func (a *ClaimsAuthorizer) CanApprove(ctx context.Context, orgID, actorID uuid.UUID) (bool, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return false, nil
	}
	if claims.OrganizationID != orgID.String() || claims.ActorID != actorID.String() {
		return false, nil
	}
	return claims.HasPermission(PermissionApproveOrders), nil
}
