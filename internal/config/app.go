package config

import (
	http "github.com/flyingcat/commentgateway/internal/delivery/http"
	"github.com/flyingcat/commentgateway/internal/delivery/http/route"
	"github.com/flyingcat/commentgateway/internal/repository"
	"github.com/flyingcat/commentgateway/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knadh/koanf/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type ServerConfig struct {
	Router  *fiber.App
	DB      *pgxpool.Pool
	DBCache *redis.Client
	Log     *zap.Logger
	Config  *koanf.Koanf
}

func Server(config *ServerConfig) {
	commentStore := NewCommentStore(config)
	commentUsecase := usecase.NewCommentUsecase(commentStore, config.Log, config.Config)
	commentController := http.NewCommentController(commentUsecase, config.Log, config.Config)

	visitRepository := repository.NewVisitRepository(config.Log, config.DBCache)
	visitUsecase := usecase.NewVisitUsecase(visitRepository, config.Log, config.Config)
	visitController := http.NewVisitController(visitUsecase, config.Log, config.Config)

	routeConfig := route.RouteConfig{
		App:               config.Router,
		CommentController: commentController,
		VisitController:   visitController,
	}

	routeConfig.SetupRoute()
}

// NewCommentStore selects the document store backend. All three speak the
// same CommentStore contract, so the rest of the service never sees which
// one is deployed.
func NewCommentStore(config *ServerConfig) repository.CommentStore {
	switch config.Config.String("COMMENT_STORE") {
	case "supabase":
		return repository.NewSupabaseStore(config.Config, config.Log)
	case "postgres":
		if config.DB == nil {
			config.Log.Fatal("COMMENT_STORE=postgres requires POSTGRES_URL")
		}
		return repository.NewPostgresStore(config.Log, config.DB)
	default:
		return repository.NewFirestoreStore(config.Config, config.Log)
	}
}
