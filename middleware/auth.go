// middleware/auth.go
package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware extracts the user identity, org scope and roles set
// by the Gateway. The engine only ever trusts the org id carried here —
// never one supplied in a request body or query string.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		orgID := c.Get("X-Org-ID")
		rolesStr := c.Get("X-User-Roles")

		path := c.Path()
		isSecured := strings.HasPrefix(path, "/s/")
		if isSecured && (userID == "" || orgID == "") {
			log.Printf("❌ [USER_CTX] X-User-ID/X-Org-ID required but missing on secured route: %s", path)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing user context — request must come through gateway with auth context",
			})
		}

		var roles []string
		if rolesStr != "" {
			for _, r := range strings.Split(rolesStr, ",") {
				r = strings.TrimSpace(r)
				if r != "" {
					roles = append(roles, r)
				}
			}
		}

		c.Locals("user_id", userID)
		c.Locals("org_id", orgID)
		c.Locals("user_roles", roles)

		return c.Next()
	}
}
