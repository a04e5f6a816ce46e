package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/jordan-levelle/CC-Server/internal/services"
)

type AdminHandler struct {
	svc    *services.AdminService
	logger *zap.SugaredLogger
}

func NewAdminHandler(svc *services.AdminService, logger *zap.SugaredLogger) *AdminHandler {
	return &AdminHandler{svc: svc, logger: logger}
}

func (h *AdminHandler) AllProposals(c *fiber.Ctx) error {
	proposals, err := h.svc.AllProposals(c.Context())
	if err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.JSON(proposals)
}

func (h *AdminHandler) AllUsers(c *fiber.Ctx) error {
	users, err := h.svc.AllUsers(c.Context())
	if err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.JSON(users)
}
