// handlers/billing_routes.go
package handlers

import (
	"craft-mentor-system/middleware"
	"craft-mentor-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupBillingRoutes mounts the hooks driven by the billing collaborator
// and the gateway admin tooling.
func SetupBillingRoutes(app *fiber.App, db *gorm.DB, billingService *services.BillingService, progressionService *services.ProgressionService) {
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware())

	// Tier change hook — called on subscription upgrade/downgrade. The new
	// tier takes effect on the next quota check.
	adminGroup.Post("/tier", func(c *fiber.Ctx) error {
		orgID := c.Locals("org_id").(string)

		type Req struct {
			UserID string `json:"user_id"`
			Tier   string `json:"tier"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil || req.UserID == "" || req.Tier == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "user_id and tier are required",
			})
		}

		if err := billingService.UpdateTier(req.UserID, orgID, req.Tier); err != nil {
			return engineError(c, err)
		}
		return c.JSON(fiber.Map{
			"message": "tier updated",
			"user_id": req.UserID,
			"tier":    req.Tier,
		})
	})

	adminGroup.Post("/xp/grant", func(c *fiber.Ctx) error {
		orgID := c.Locals("org_id").(string)

		type Req struct {
			UserID string `json:"user_id"`
			XP     int64  `json:"xp"`
			Reason string `json:"reason"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if req.XP < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "xp must be positive",
			})
		}

		result, err := progressionService.GrantXP(req.UserID, orgID, req.XP)
		if err != nil {
			return engineError(c, err)
		}
		return c.JSON(fiber.Map{
			"message":  "XP granted successfully",
			"user_id":  req.UserID,
			"xp":       req.XP,
			"reason":   req.Reason,
			"new_xp":   result.NewXP,
			"new_rank": result.NewRank,
			"rank_up":  result.RankUp,
		})
	})

	adminGroup.Post("/orgs", func(c *fiber.Ctx) error {
		type Req struct {
			Name string `json:"name"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil || req.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "name is required",
			})
		}

		org, err := services.CreateOrganization(db, req.Name)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create organization",
				"cause": err.Error(),
			})
		}
		return c.JSON(org)
	})
}
