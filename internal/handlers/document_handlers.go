package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/jordan-levelle/CC-Server/internal/middleware"
	"github.com/jordan-levelle/CC-Server/internal/services"
)

type DocumentHandler struct {
	svc    *services.DocumentService
	logger *zap.SugaredLogger
}

func NewDocumentHandler(svc *services.DocumentService, logger *zap.SugaredLogger) *DocumentHandler {
	return &DocumentHandler{svc: svc, logger: logger}
}

func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	proposalID, err := primitive.ObjectIDFromHex(c.Params("proposalId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid proposal id"})
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return respondErr(c, h.logger, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return respondErr(c, h.logger, err)
	}

	user := middleware.UserFromCtx(c)
	doc, err := h.svc.Upload(c.Context(), proposalID, user, fh.Filename, fh.Header.Get("Content-Type"), data)
	if err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid document id"})
	}
	doc, data, err := h.svc.Get(c.Context(), id)
	if err != nil {
		return respondErr(c, h.logger, err)
	}
	c.Set(fiber.HeaderContentType, doc.MimeType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+doc.FileName+`"`)
	return c.Send(data)
}

func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid document id"})
	}
	if err := h.svc.Delete(c.Context(), id); err != nil {
		return respondErr(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"message": "document deleted"})
}
