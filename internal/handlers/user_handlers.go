package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/jordan-levelle/CC-Server/internal/middleware"
	"github.com/jordan-levelle/CC-Server/internal/services"
)

type UserHandler struct {
	svc    *services.UserService
	logger *zap.SugaredLogger
}

func NewUserHandler(svc *services.UserService, logger *zap.SugaredLogger) *UserHandler {
	return &UserHandler{svc: svc, logger: logger}
}

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) Signup(c *fiber.Ctx) error {
	var req credentialsReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email and password are required"})
	}
	token, err := h.svc.Signup(c.Context(), req.Email, req.Password)
	if err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"email": req.Email, "token": token})
}

func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req credentialsReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	token, err := h.svc.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"email": req.Email, "token": token})
}

func (h *UserHandler) Verify(c *fiber.Ctx) error {
	if err := h.svc.Verify(c.Context(), c.Params("token")); err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "account verified successfully"})
}

func (h *UserHandler) UpdateEmail(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email is required"})
	}
	user := middleware.UserFromCtx(c)
	if err := h.svc.UpdateEmail(c.Context(), user, req.Email); err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "email updated successfully"})
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	var req struct {
		DeleteProposals bool `json:"deleteProposals"`
	}
	_ = c.BodyParser(&req)
	user := middleware.UserFromCtx(c)
	if err := h.svc.DeleteAccount(c.Context(), user, req.DeleteProposals); err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "account deleted successfully"})
}

func (h *UserHandler) ForgotPassword(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email is required"})
	}
	if err := h.svc.ForgotPassword(c.Context(), req.Email); err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "password reset email sent"})
}

func (h *UserHandler) ResetPassword(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "password is required"})
	}
	if err := h.svc.ResetPassword(c.Context(), c.Params("token"), req.Password); err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "password updated successfully"})
}

func (h *UserHandler) SetParticipated(c *fiber.Ctx) error {
	var req struct {
		ProposalID string `json:"proposalId"`
		VoteID     string `json:"voteId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	proposalID, err := primitive.ObjectIDFromHex(req.ProposalID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid proposal id"})
	}
	voteID, err := primitive.ObjectIDFromHex(req.VoteID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid vote id"})
	}
	user := middleware.UserFromCtx(c)
	if err := h.svc.SetParticipated(c.Context(), user, proposalID, voteID); err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "participation recorded"})
}

func (h *UserHandler) GetParticipated(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)
	out, err := h.svc.GetParticipatedProposals(c.Context(), user)
	if err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.JSON(out)
}

func (h *UserHandler) archive(c *fiber.Ctx, participated bool) error {
	proposalID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid proposal id"})
	}
	user := middleware.UserFromCtx(c)
	var archived bool
	if participated {
		archived, err = h.svc.ArchiveParticipated(c.Context(), user, proposalID)
	} else {
		archived, err = h.svc.ArchiveProposal(c.Context(), user, proposalID)
	}
	if err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"archived": archived})
}

func (h *UserHandler) ArchiveProposal(c *fiber.Ctx) error {
	return h.archive(c, false)
}

func (h *UserHandler) ArchiveParticipated(c *fiber.Ctx) error {
	return h.archive(c, true)
}

func (h *UserHandler) Subscribe(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)
	url, err := h.svc.Subscribe(c.Context(), user)
	if err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"checkoutUrl": url})
}

func (h *UserHandler) CancelSubscription(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)
	if err := h.svc.CancelSubscription(c.Context(), user); err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "subscription cancelled"})
}
