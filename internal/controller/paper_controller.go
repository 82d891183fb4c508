package controller

import (
	"ai-papergen-be/internal/dto"
	"ai-papergen-be/internal/pkg/serverutils"
	"ai-papergen-be/internal/service"
	"ai-papergen-be/pkg/exporter"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPaperController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type paperController struct {
	paperService service.IPaperService
}

func NewPaperController(paperService service.IPaperService) IPaperController {
	return &paperController{
		paperService: paperService,
	}
}

func (c *paperController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/paper/v1")
	h.Post("generate", c.Generate)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Get(":id/export", c.Export)
	h.Delete(":id", c.Delete)
}

func (c *paperController) Generate(ctx *fiber.Ctx) error {
	var req dto.GeneratePaperRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.paperService.Generate(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success generate question paper", res))
}

func (c *paperController) List(ctx *fiber.Ctx) error {
	res, err := c.paperService.List(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list papers", res))
}

func (c *paperController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequestError("invalid paper id")
	}

	res, err := c.paperService.Show(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show paper", res))
}

func (c *paperController) Export(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequestError("invalid paper id")
	}

	format := exporter.Format(ctx.Query("format", string(exporter.FormatText)))
	switch format {
	case exporter.FormatText, exporter.FormatLaTeX, exporter.FormatHTML:
	default:
		return serverutils.NewBadRequestError("format must be one of: text, latex, html")
	}

	content, contentType, err := c.paperService.Export(ctx.Context(), id, format)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, contentType)
	return ctx.SendString(content)
}

func (c *paperController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequestError("invalid paper id")
	}

	if err := c.paperService.Delete(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success delete paper", nil))
}
