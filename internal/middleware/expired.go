package middleware

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jordan-levelle/CC-Server/internal/repository"
)

// CheckExpired blocks writes to proposals the expiry sweep has flagged.
func CheckExpired(proposals repository.ProposalRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := primitive.ObjectIDFromHex(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid proposal id"})
		}
		p, err := proposals.FindByID(c.Context(), id)
		if err == repository.ErrProposalNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
		}
		if p.IsExpired {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "proposal has expired"})
		}
		return c.Next()
	}
}
