// handlers/activity_routes.go
package handlers

import (
	"errors"
	"log"

	"craft-mentor-system/middleware"
	"craft-mentor-system/models"
	"craft-mentor-system/services"
	"craft-mentor-system/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupActivityRoutes mounts the ingestion hook called by the chat and
// recipe collaborators after their action succeeds, plus the quota peek.
func SetupActivityRoutes(app *fiber.App, progressionService *services.ProgressionService) {
	secured := app.Group("/s", middleware.UserContextMiddleware())

	secured.Post("/activity", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		orgID := c.Locals("org_id").(string)

		// Multipart carries kind + optional completion photo; plain JSON
		// carries just the kind.
		kind := c.FormValue("kind")
		var photoURL *string
		if kind == "" {
			var req struct {
				Kind string `json:"kind"`
			}
			if err := c.BodyParser(&req); err != nil || req.Kind == "" {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "activity kind is required",
				})
			}
			kind = req.Kind
		} else if file, err := c.FormFile("photo"); err == nil && kind == models.ActivityRecipeCompleted {
			url, upErr := utils.UploadCompletionPhoto(file, userID)
			if upErr != nil {
				// Photo is decoration on the activity fact — never block ingestion on it.
				log.Printf("⚠️ completion photo upload failed for user %s: %v", userID, upErr)
			} else {
				photoURL = &url
			}
		}

		result, err := progressionService.RecordActivity(userID, orgID, kind, photoURL)
		if err != nil {
			return engineError(c, err)
		}

		return c.JSON(fiber.Map{
			"activity_id":        result.Activity.ID,
			"kind":               result.Activity.Kind,
			"xp_gained":          result.Activity.XPGained,
			"new_xp":             result.XP.NewXP,
			"new_rank":           result.XP.NewRank,
			"rank_up":            result.XP.RankUp,
			"new_badges":         result.NewBadges,
			"messages_remaining": result.MessagesRemaining,
		})
	})

	secured.Get("/user/quota", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		orgID := c.Locals("org_id").(string)

		var user models.User
		if err := progressionService.DB.Where("id = ? AND org_id = ?", userID, orgID).First(&user).Error; err != nil {
			return engineError(c, services.ErrUserNotFound)
		}

		status, err := progressionService.Quota.CheckQuota(userID, orgID, user.Tier)
		if err != nil {
			return engineError(c, err)
		}
		return c.JSON(status)
	})
}

// engineError maps the engine's sentinel errors to HTTP responses. Quota
// exhaustion gets its own code so the UI can show an upgrade prompt instead
// of a generic error toast.
func engineError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, services.ErrQuotaExceeded):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You reached your daily message limit. Upgrade your plan to keep chatting!",
			"code":  "QUOTA_EXCEEDED",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
			"cause": err.Error(),
		})
	}
}
