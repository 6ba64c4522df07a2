package auth

import (
	"context"

	"connectrpc.com/connect"
)

// LocalDevBusinessID is the business every unauthenticated local request acts for.
const LocalDevBusinessID = "local-dev-business"

// LocalDevInterceptor provides a mock user context for local development
func LocalDevInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if isPublicEndpoint(req.Spec().Procedure) {
				return next(ctx, req)
			}
			// Keep impersonated claims from DebugAuthInterceptor.
			if _, ok := GetUserClaims(ctx); ok {
				return next(ctx, req)
			}

			ctx = withUserClaims(ctx, &UserClaims{
				UID:         "local-dev-user",
				Email:       "dev@localhost",
				DisplayName: "Local Dev User",
				Verified:    true,
				BusinessID:  LocalDevBusinessID,
			})
			return next(ctx, req)
		}
	}
}
