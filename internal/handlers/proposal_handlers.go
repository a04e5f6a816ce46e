package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/jordan-levelle/CC-Server/internal/middleware"
	"github.com/jordan-levelle/CC-Server/internal/repository"
	"github.com/jordan-levelle/CC-Server/internal/services"
)

type ProposalHandler struct {
	svc    *services.ProposalService
	logger *zap.SugaredLogger
}

func NewProposalHandler(svc *services.ProposalService, logger *zap.SugaredLogger) *ProposalHandler {
	return &ProposalHandler{svc: svc, logger: logger}
}

func (h *ProposalHandler) Create(c *fiber.Ctx) error {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Name        string `json:"name"`
		Email       string `json:"email"`
		TeamID      string `json:"teamId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	user := middleware.UserFromCtx(c)
	p, err := h.svc.Create(c.Context(), user, services.CreateProposalInput{
		Title:       req.Title,
		Description: req.Description,
		Name:        req.Name,
		Email:       req.Email,
		TeamID:      req.TeamID,
	})
	if err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *ProposalHandler) GetBySlug(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)
	p, isOwner, err := h.svc.GetBySlug(c.Context(), c.Params("uniqueUrl"), user)
	if err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"proposal": p, "isOwner": isOwner})
}

func (h *ProposalHandler) list(c *fiber.Ctx, filter repository.ProposalFilter) error {
	user := middleware.UserFromCtx(c)
	proposals, err := h.svc.ListByOwner(c.Context(), user.ID, filter)
	if err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.JSON(proposals)
}

func (h *ProposalHandler) ListAll(c *fiber.Ctx) error {
	return h.list(c, repository.FilterAll)
}

func (h *ProposalHandler) ListActive(c *fiber.Ctx) error {
	return h.list(c, repository.FilterActive)
}

func (h *ProposalHandler) ListExpired(c *fiber.Ctx) error {
	return h.list(c, repository.FilterExpired)
}

func (h *ProposalHandler) Example(c *fiber.Ctx) error {
	p, err := h.svc.Example(c.Context())
	if err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.JSON(p)
}

func (h *ProposalHandler) Update(c *fiber.Ctx) error {
	var req struct {
		Title                string `json:"title"`
		Description          string `json:"description"`
		Name                 string `json:"name"`
		Email                string `json:"email"`
		ReceiveNotifications bool   `json:"receiveNotifications"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	p, err := h.svc.Update(c.Context(), c.Params("uniqueUrl"), services.UpdateProposalInput{
		Title:                req.Title,
		Description:          req.Description,
		Name:                 req.Name,
		Email:                req.Email,
		ReceiveNotifications: req.ReceiveNotifications,
	})
	if err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.JSON(p)
}

func (h *ProposalHandler) FirstRender(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid proposal id"})
	}
	first, err := h.svc.FirstRender(c.Context(), id)
	if err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"firstRender": first})
}

func (h *ProposalHandler) Votes(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid proposal id"})
	}
	votes, err := h.svc.Votes(c.Context(), id)
	if err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.JSON(votes)
}

func (h *ProposalHandler) SubmitVote(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid proposal id"})
	}
	var req struct {
		Name    string `json:"name"`
		Opinion string `json:"opinion"`
		Comment string `json:"comment"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	user := middleware.UserFromCtx(c)
	result, err := h.svc.SubmitVote(c.Context(), id, user, services.VoteInput{
		Name:    req.Name,
		Opinion: req.Opinion,
		Comment: req.Comment,
	})
	if err != nil {
		return respondErr(c, h.logger, err)
	}
	if result.LimitReached {
		return c.JSON(fiber.Map{"limitReached": true, "proposal": result.Proposal})
	}
	return c.JSON(fiber.Map{"proposal": result.Proposal, "vote": result.AddedVote})
}

func (h *ProposalHandler) UpdateVote(c *fiber.Ctx) error {
	proposalID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid proposal id"})
	}
	voteID, err := primitive.ObjectIDFromHex(c.Params("voteId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid vote id"})
	}
	var req struct {
		Name    *string `json:"name"`
		Opinion *string `json:"opinion"`
		Comment *string `json:"comment"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if err := h.svc.UpdateVote(c.Context(), proposalID, voteID, services.UpdateVoteInput{
		Name:    req.Name,
		Opinion: req.Opinion,
		Comment: req.Comment,
	}); err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "vote updated"})
}

func (h *ProposalHandler) DeleteVote(c *fiber.Ctx) error {
	voteID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid vote id"})
	}
	if err := h.svc.DeleteVote(c.Context(), voteID); err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "vote deleted"})
}

func (h *ProposalHandler) Delete(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid proposal id"})
	}
	user := middleware.UserFromCtx(c)
	if err := h.svc.Delete(c.Context(), id, user); err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "proposal deleted"})
}
