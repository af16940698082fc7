package http

import (
	"errors"
	"strings"

	"github.com/flyingcat/commentgateway/internal/model"
	"github.com/flyingcat/commentgateway/internal/usecase"
	"github.com/flyingcat/commentgateway/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

type VisitController struct {
	VisitUsecase *usecase.VisitUsecase
	Log          *zap.Logger
	Config       *koanf.Koanf
}

func NewVisitController(visitUsecase *usecase.VisitUsecase, zap *zap.Logger, koanf *koanf.Koanf) *VisitController {
	return &VisitController{
		VisitUsecase: visitUsecase,
		Log:          zap,
		Config:       koanf,
	}
}

func (controller *VisitController) Track(ctx *fiber.Ctx) error {
	// sendBeacon posts text/plain, so a parse failure keeps the defaults
	var payload model.TrackRequest
	_ = util.ReadRequestBody(ctx, &payload)

	input := model.TrackInput{
		Page:    payload.Page,
		Session: payload.Session,
		Ip:      clientIp(ctx),
		Country: ctx.Get("CF-IPCountry"),
		City:    ctx.Get("CF-IPCity"),
		Region:  ctx.Get("CF-Region"),
		Ua:      ctx.Get(fiber.HeaderUserAgent),
	}

	result := controller.VisitUsecase.Track(ctx.UserContext(), input)

	return util.SendSuccessResponseWithData(ctx, result)
}

func (controller *VisitController) GetVisits(ctx *fiber.Ctx) error {
	token := ctx.Query("token")
	date := ctx.Query("date")
	days := ctx.QueryInt("days", 1)

	buckets, err := controller.VisitUsecase.Visits(ctx.UserContext(), token, date, days)
	if err != nil {
		var unauthorizedErr *model.UnauthorizedError
		if errors.As(err, &unauthorizedErr) {
			return util.SendUnauthorizedResponse(ctx)
		}

		return util.SendErrorResponseInternalServer(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, buckets)
}

func clientIp(ctx *fiber.Ctx) string {
	if ip := ctx.Get("CF-Connecting-IP"); ip != "" {
		return ip
	}
	if forwarded := ctx.Get(fiber.HeaderXForwardedFor); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	return ctx.IP()
}
