package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/flyingcat/commentgateway/internal/model"
	"github.com/flyingcat/commentgateway/internal/observability"
	"github.com/flyingcat/commentgateway/internal/repository"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

const (
	visitDateLayout = "2006-01-02"
	maxVisitDays    = 30
)

var ErrVisitLogUnbound = errors.New("visit log store is not bound")

type VisitUsecase struct {
	VisitRepository *repository.VisitRepository
	Log             *zap.Logger
	Config          *koanf.Koanf
}

func NewVisitUsecase(visitRepository *repository.VisitRepository, zap *zap.Logger, koanf *koanf.Koanf) *VisitUsecase {
	return &VisitUsecase{
		VisitRepository: visitRepository,
		Log:             zap,
		Config:          koanf,
	}
}

// Track records one page view. It never fails the caller: any problem
// degrades to ok:false with a reason.
func (usecase *VisitUsecase) Track(ctx context.Context, input model.TrackInput) model.TrackResult {
	if !usecase.VisitRepository.Bound() {
		return model.TrackResult{Ok: false, Reason: "visit log not bound"}
	}

	page := input.Page
	if page == "" {
		page = "/"
	}

	now := time.Now().UTC()
	date := now.Format(visitDateLayout)

	if input.Session != "" {
		first, err := usecase.VisitRepository.MarkSession(ctx, date, input.Session, page)
		if err != nil {
			observability.WithContext(ctx, usecase.Log).Warn("failed to mark visit session", zap.Error(err))
			return model.TrackResult{Ok: false, Reason: "visit log unavailable"}
		}
		if !first {
			// already counted this session on this page today
			return model.TrackResult{Ok: true}
		}
	}

	visit := model.Visit{
		Ip:      input.Ip,
		Country: input.Country,
		City:    input.City,
		Region:  input.Region,
		Page:    page,
		Ua:      input.Ua,
		Ts:      now,
	}

	err := usecase.VisitRepository.SaveVisit(ctx, date, visit)
	if err != nil {
		observability.WithContext(ctx, usecase.Log).Warn("failed to save visit", zap.Error(err))
		return model.TrackResult{Ok: false, Reason: "visit log unavailable"}
	}

	return model.TrackResult{Ok: true}
}

// Visits aggregates the log for a bounded recent date range. The pre-shared
// token gate runs before anything else.
func (usecase *VisitUsecase) Visits(ctx context.Context, token string, dateStr string, days int) (map[string]model.VisitBucket, error) {
	adminToken := usecase.Config.String("ADMIN_TOKEN")
	if token == "" || adminToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(adminToken)) != 1 {
		return nil, &model.UnauthorizedError{Message: "invalid or missing token"}
	}

	if !usecase.VisitRepository.Bound() {
		return nil, ErrVisitLogUnbound
	}

	if days < 1 {
		days = 1
	}
	if days > maxVisitDays {
		days = maxVisitDays
	}

	anchor := time.Now().UTC()
	if dateStr != "" {
		parsed, err := time.Parse(visitDateLayout, dateStr)
		if err == nil {
			anchor = parsed
		}
	}

	result := make(map[string]model.VisitBucket, days)
	for d := 0; d < days; d++ {
		date := anchor.AddDate(0, 0, -d).Format(visitDateLayout)

		visits, err := usecase.VisitRepository.ListByDate(ctx, date)
		if err != nil {
			return nil, err
		}

		result[date] = model.VisitBucket{Count: len(visits), Visits: visits}
	}

	return result, nil
}
