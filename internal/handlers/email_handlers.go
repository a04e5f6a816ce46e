package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/jordan-levelle/CC-Server/internal/mailer"
)

type EmailHandler struct {
	mail   mailer.Sender
	logger *zap.SugaredLogger
}

func NewEmailHandler(mail mailer.Sender, logger *zap.SugaredLogger) *EmailHandler {
	return &EmailHandler{mail: mail, logger: logger}
}

// Send delivers an ad-hoc message, used by the share-by-email form.
func (h *EmailHandler) Send(c *fiber.Ctx) error {
	var req struct {
		Recipients []string `json:"recipients"`
		Subject    string   `json:"subject"`
		Content    string   `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if len(req.Recipients) == 0 || req.Subject == "" || req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "recipients, subject and content are required"})
	}
	if err := h.mail.Send(c.Context(), req.Recipients, req.Subject, req.Content); err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "email sent"})
}
