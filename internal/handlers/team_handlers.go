package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/jordan-levelle/CC-Server/internal/middleware"
	"github.com/jordan-levelle/CC-Server/internal/models"
	"github.com/jordan-levelle/CC-Server/internal/services"
)

type TeamHandler struct {
	svc    *services.TeamService
	logger *zap.SugaredLogger
}

func NewTeamHandler(svc *services.TeamService, logger *zap.SugaredLogger) *TeamHandler {
	return &TeamHandler{svc: svc, logger: logger}
}

type teamReq struct {
	TeamName string          `json:"teamName"`
	Members  []models.Member `json:"members"`
}

func (h *TeamHandler) Create(c *fiber.Ctx) error {
	var req teamReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if req.TeamName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "team name is required"})
	}
	user := middleware.UserFromCtx(c)
	team, err := h.svc.Create(c.Context(), user, req.TeamName, req.Members)
	if err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(team)
}

func (h *TeamHandler) Edit(c *fiber.Ctx) error {
	teamID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid team id"})
	}
	var req teamReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	user := middleware.UserFromCtx(c)
	team, err := h.svc.Edit(c.Context(), user, teamID, req.TeamName, req.Members)
	if err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.JSON(team)
}

func (h *TeamHandler) Delete(c *fiber.Ctx) error {
	teamID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid team id"})
	}
	user := middleware.UserFromCtx(c)
	if err := h.svc.Delete(c.Context(), user, teamID); err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "team deleted"})
}

func (h *TeamHandler) List(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)
	teams, err := h.svc.List(c.Context(), user)
	if err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.JSON(teams)
}
