package controller

import (
	"fmt"
	"os"
	"path/filepath"

	"ai-papergen-be/internal/dto"
	"ai-papergen-be/internal/pkg/serverutils"
	"ai-papergen-be/internal/service"
	ws "ai-papergen-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type ISyllabusController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	Reingest(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
	Curriculum(ctx *fiber.Ctx) error
}

type syllabusController struct {
	syllabusService service.ISyllabusService
	hub             *ws.Hub
}

func NewSyllabusController(syllabusService service.ISyllabusService, hub *ws.Hub) ISyllabusController {
	return &syllabusController{
		syllabusService: syllabusService,
		hub:             hub,
	}
}

func (c *syllabusController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/syllabus/v1")
	h.Post("upload", c.Upload)
	h.Post(":id/reingest", c.Reingest)
	h.Get("documents", c.List)
	h.Get("stats", c.Stats)
	h.Get("curriculum", c.Curriculum)
	h.Delete(":id", c.Delete)

	h.Get("ingest-progress/:id", websocket.New(func(conn *websocket.Conn) {
		idParam := conn.Params("id")
		documentId, err := uuid.Parse(idParam)
		if err != nil {
			conn.Close()
			return
		}
		ws.ServeWs(c.hub, conn, documentId)
	}))
}

func (c *syllabusController) Upload(ctx *fiber.Ctx) error {
	req := dto.UploadSyllabusRequest{
		Class:   ctx.FormValue("class"),
		Subject: ctx.FormValue("subject"),
		Chapter: ctx.FormValue("chapter"),
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return serverutils.NewBadRequestError("missing file field in multipart form")
	}

	// Stage the upload so the extractor can read it from disk.
	tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("syllabus-%s%s", uuid.New(), filepath.Ext(fileHeader.Filename)))
	if err := ctx.SaveFile(fileHeader, tmpPath); err != nil {
		return err
	}
	defer os.Remove(tmpPath)

	res, err := c.syllabusService.Upload(ctx.Context(), &req, fileHeader.Filename, tmpPath)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upload syllabus document", res))
}

func (c *syllabusController) Reingest(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequestError("invalid document id")
	}

	if err := c.syllabusService.Reingest(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success queue document reingestion", nil))
}

func (c *syllabusController) List(ctx *fiber.Ctx) error {
	res, err := c.syllabusService.List(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list syllabus documents", res))
}

func (c *syllabusController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequestError("invalid document id")
	}

	if err := c.syllabusService.Delete(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success delete syllabus document", nil))
}

func (c *syllabusController) Stats(ctx *fiber.Ctx) error {
	res, err := c.syllabusService.Stats(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get knowledge stats", res))
}

func (c *syllabusController) Curriculum(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get curriculum options", c.syllabusService.Curriculum()))
}
