package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/jordan-levelle/CC-Server/internal/repository"
	"github.com/jordan-levelle/CC-Server/internal/services"
)

// respondErr maps service and repository errors onto the HTTP contract:
// 400 validation, 401 authentication, 403 authorization, 404 missing,
// 500 everything else.
func respondErr(c *fiber.Ctx, logger *zap.SugaredLogger, err error) error {
	switch {
	case errors.Is(err, services.ErrMissingFields):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrEmailInUse),
		errors.Is(err, services.ErrNotTeamMember),
		errors.Is(err, services.ErrResetTokenExpired),
		errors.Is(err, services.ErrNoSubscription):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrIncorrectPassword):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrNotOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrProposalNotFound),
		errors.Is(err, repository.ErrVoteNotFound),
		errors.Is(err, repository.ErrTeamNotFound),
		errors.Is(err, repository.ErrDocumentNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		logger.Errorf("%s %s: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}
