package http

import (
	"errors"

	"github.com/flyingcat/commentgateway/internal/constant"
	"github.com/flyingcat/commentgateway/internal/middleware"
	"github.com/flyingcat/commentgateway/internal/model"
	"github.com/flyingcat/commentgateway/internal/usecase"
	"github.com/flyingcat/commentgateway/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

type CommentController struct {
	CommentUsecase *usecase.CommentUsecase
	Log            *zap.Logger
	Config         *koanf.Koanf
}

func NewCommentController(commentUsecase *usecase.CommentUsecase, zap *zap.Logger, koanf *koanf.Koanf) *CommentController {
	return &CommentController{
		CommentUsecase: commentUsecase,
		Log:            zap,
		Config:         koanf,
	}
}

func (controller *CommentController) ListComments(ctx *fiber.Ctx) error {
	pagePath := ctx.Query("page_path")

	comments, err := controller.CommentUsecase.ListByPage(ctx.UserContext(), pagePath)
	if err != nil {
		return controller.sendError(ctx, err)
	}

	return util.SendSuccessResponseWithData(ctx, comments)
}

func (controller *CommentController) CreateComment(ctx *fiber.Ctx) error {
	var payload model.CommentCreateRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return util.SendErrorResponse(ctx, &model.ValidationError{
			Code:    constant.ERR_INVALID_REQUEST_BODY_ERROR_CODE,
			Message: constant.ERR_INVALID_REQUEST_BODY_MESSAGE,
		})
	}

	created, err := controller.CommentUsecase.Create(ctx.UserContext(), payload)
	if err != nil {
		return controller.sendError(ctx, err)
	}

	return util.SendCreatedResponseWithData(ctx, created)
}

func (controller *CommentController) sendError(ctx *fiber.Ctx, err error) error {
	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		return util.SendErrorResponse(ctx, validationErr)
	}

	log := middleware.GetLoggerFromContext(ctx)

	var upstreamErr *model.UpstreamError
	if errors.As(err, &upstreamErr) {
		return util.SendUpstreamErrorResponse(ctx, log, upstreamErr.Status, upstreamErr.Detail)
	}

	return util.SendErrorResponseInternalServer(ctx, log, err)
}
