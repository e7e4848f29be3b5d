package usecase

import (
	"context"

	"go-profile-builder/internal/domain"
	"go-profile-builder/pkg/apperror"
)

// requireSelf enforces that the authenticated context user matches the
// requested user (IDOR prevention).
// Works with both Gin context (c.Set) and standard context.WithValue.
func requireSelf(ctx context.Context, userID string) error {
	var ctxUserID string

	// First try Gin context string key (from c.Set)
	if id, ok := ctx.Value(string(domain.KeyUserID)).(string); ok {
		ctxUserID = id
	}

	// Fallback to CtxKey type (from context.WithValue)
	if ctxUserID == "" {
		if id, ok := ctx.Value(domain.KeyUserID).(string); ok {
			ctxUserID = id
		}
	}

	if ctxUserID == "" {
		return apperror.Unauthorized("User not authenticated")
	}
	if ctxUserID != userID {
		return apperror.Forbidden("You can only access your own profile")
	}
	return nil
}
