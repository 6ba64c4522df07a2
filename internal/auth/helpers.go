package auth

import (
	"context"
	"fmt"

	"connectrpc.com/connect"
)

// RequireAuth extracts user claims from context or returns an unauthenticated error
func RequireAuth(ctx context.Context) (*UserClaims, error) {
	claims, ok := GetUserClaims(ctx)
	if !ok {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("user not authenticated"))
	}
	return claims, nil
}

// RequireBusinessAccess resolves the business a request acts for. An empty
// requestedBusinessID means the caller's own business.
func RequireBusinessAccess(ctx context.Context, requestedBusinessID string) (string, error) {
	claims, err := RequireAuth(ctx)
	if err != nil {
		return "", err
	}

	if claims.BusinessID == "" {
		return "", connect.NewError(connect.CodePermissionDenied,
			fmt.Errorf("user is not linked to a business"))
	}
	if requestedBusinessID != "" && requestedBusinessID != claims.BusinessID {
		return "", connect.NewError(connect.CodePermissionDenied,
			fmt.Errorf("cannot access another business's records"))
	}

	return claims.BusinessID, nil
}

// NormalizePageSize returns a valid page size (default 100, max 1000)
func NormalizePageSize(pageSize int32) int32 {
	if pageSize <= 0 {
		return 100
	}
	if pageSize > 1000 {
		return 1000
	}
	return pageSize
}
