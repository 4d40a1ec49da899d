// handlers/profile_routes.go
package handlers

import (
	"craft-mentor-system/middleware"
	"craft-mentor-system/models"
	"craft-mentor-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProfileRoutes(app *fiber.App, progressionService *services.ProgressionService, streakService *services.StreakService, badgeService *services.BadgeService) {
	// Static catalog — no user data, so no user context required. The UI
	// uses it to render locked vs unlocked badges.
	app.Get("/badges/catalog", func(c *fiber.Ctx) error {
		return c.JSON(models.BadgeCatalog)
	})

	secured := app.Group("/s", middleware.UserContextMiddleware())

	secured.Get("/user/profile", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		orgID := c.Locals("org_id").(string)

		user, err := progressionService.EnsureUser(userID, orgID, c.Get("X-User-Name"), c.Get("X-User-Email"))
		if err != nil {
			return engineError(c, err)
		}

		// Streak is refreshed as a side effect of every profile read, so it
		// is never staler than the most recent fetch.
		streak := streakService.RecomputeStreak(userID, orgID)

		// Reload: the recomputation may have touched streak/last_activity_at.
		var fresh models.User
		if err := progressionService.DB.Where("id = ? AND org_id = ?", userID, orgID).First(&fresh).Error; err == nil {
			user = &fresh
		}

		badges, err := badgeService.GetUserBadges(userID, orgID)
		if err != nil {
			badges = nil
		}

		return c.JSON(fiber.Map{
			"id":               user.ID,
			"org_id":           user.OrgID,
			"name":             user.Name,
			"xp":               user.XP,
			"rank":             user.Rank,
			"rank_name":        services.RankName(user.Rank),
			"tier":             user.Tier,
			"streak":           streak,
			"last_activity_at": user.LastActivityAt,
			"badges":           badges,
		})
	})
}
