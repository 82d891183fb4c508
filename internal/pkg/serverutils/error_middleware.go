package serverutils

import (
	"errors"
	"log"

	"ai-papergen-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps the error taxonomy onto HTTP statuses so
// controllers can simply return errors from services.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var badReq *BadRequestError
		var extractErr *apperror.ExtractionError
		var embedErr *apperror.EmbeddingError
		var genErr *apperror.GenerationError
		var storeErr *apperror.StoreError

		switch {
		case errors.As(err, &badReq):
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(badReq.Message))
		case errors.Is(err, apperror.ErrNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse("resource not found"))
		case errors.As(err, &extractErr):
			// Structural document problem, the client must supply a different file
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse(extractErr.Error()))
		case errors.As(err, &embedErr):
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse(embedErr.Error()))
		case errors.As(err, &genErr):
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse(genErr.Error()))
		case errors.As(err, &storeErr):
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse(storeErr.Error()))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		log.Printf("[ERROR] Unhandled error: %v", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("internal server error"))
	}
}
