package util

import (
	"github.com/flyingcat/commentgateway/internal/constant"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func ReadRequestBody(ctx *fiber.Ctx, result interface{}) error {
	err := ctx.BodyParser(&result)
	if err != nil {
		return err
	}
	return nil
}

func SendSuccessResponseWithData(ctx *fiber.Ctx, data interface{}) error {
	err := ctx.Status(fiber.StatusOK).JSON(data)
	if err != nil {
		return err
	}

	return nil
}

func SendCreatedResponseWithData(ctx *fiber.Ctx, data interface{}) error {
	err := ctx.Status(fiber.StatusCreated).JSON(data)
	if err != nil {
		return err
	}

	return nil
}

func SendErrorResponse(ctx *fiber.Ctx, error error) error {
	err := ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": error,
	})
	if err != nil {
		return err
	}

	return nil
}

// SendUpstreamErrorResponse reflects a document store failure back with the
// store's original status code and a diagnostic detail.
func SendUpstreamErrorResponse(ctx *fiber.Ctx, log *zap.Logger, status int, detail string) error {
	log.Warn("upstream store request failed", zap.Int("status", status), zap.String("detail", detail))
	err := ctx.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    constant.ERR_UPSTREAM_STORE_ERROR_CODE,
			"message": constant.ERR_UPSTREAM_STORE_ERROR_MESSAGE,
			"detail":  detail,
		},
	})
	if err != nil {
		return err
	}

	return nil
}

func SendUnauthorizedResponse(ctx *fiber.Ctx) error {
	err := ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    constant.ERR_UNAUTHORIZED_ERROR_CODE,
			"message": constant.ERR_UNAUTHORIZED_ERROR_MESSAGE,
		},
	})
	if err != nil {
		return err
	}

	return nil
}

func SendErrorResponseInternalServer(ctx *fiber.Ctx, log *zap.Logger, error error) error {
	log.Error("internal server error occured", zap.Error(error))
	err := ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    constant.ERR_INTERNAL_SERVER_ERROR_CODE,
			"message": constant.ERR_INTENRAL_SERVER_ERROR_MESSAGE,
		},
	})

	if err != nil {
		return err
	}

	return err
}
