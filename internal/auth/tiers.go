package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tryon-service/internal/domain"
	apperrors "github.com/spec-kit/tryon-service/pkg/util"
)

// RequireTier ensures the authenticated user's subscription tier matches one
// of the allowed tiers. Banned users never pass the auth middleware, so only
// unpaid/paid reach this gate.
func RequireTier(allowed ...domain.SubscriptionTier) fiber.Handler {
	allowedSet := make(map[domain.SubscriptionTier]struct{}, len(allowed))
	for _, tier := range allowed {
		allowedSet[tier] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return apperrors.NewUnauthorized("not authenticated")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.User.Tier]; !exists {
			return apperrors.NewForbidden("this feature requires a paid subscription")
		}
		return c.Next()
	}
}

// RequirePaid gates paid-only features.
func RequirePaid() fiber.Handler {
	return RequireTier(domain.TierPaid)
}
