package setup

import (
	"context"
	"testing"

	"github.com/flyingcat/commentgateway/internal/config"
	"github.com/flyingcat/commentgateway/internal/delivery/http/middleware"
	exception "github.com/flyingcat/commentgateway/internal/exception"
	appmiddleware "github.com/flyingcat/commentgateway/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knadh/koanf/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func SetupTestApp(t *testing.T, pgURL, redisURL string) (*fiber.App, *pgxpool.Pool, *redis.Client) {
	t.Log("Setting up test application...")

	ctx := context.Background()

	// 1. Create test config with test infrastructure values
	testConfig := koanf.New(".")
	_ = testConfig.Set("COMMENT_STORE", "postgres")
	_ = testConfig.Set("POSTGRES_URL", pgURL)
	_ = testConfig.Set("REDIS_URL", redisURL)
	_ = testConfig.Set("ALLOWED_ORIGINS", "https://blog.example.com, https://staging.example.com")
	_ = testConfig.Set("ADMIN_TOKEN", "test-admin-token")

	// 2. Connect to PostgreSQL
	t.Log("Connecting to test PostgreSQL...")
	dbPool, err := pgxpool.New(ctx, pgURL)
	if err != nil {
		t.Fatalf("failed to connect to test db: %v", err)
	}

	// 3. Connect to Redis
	t.Log("Connecting to test Redis...")
	redisClient := redis.NewClient(&redis.Options{
		Addr: redisURL,
		DB:   0,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		t.Fatalf("failed to connect to test redis: %v", err)
	}

	// 4. Setup logger
	zapLogger := zap.NewExample()

	// 5. Setup Fiber app
	fiberApp := fiber.New(fiber.Config{
		AppName:               "Comment Gateway Test",
		DisableStartupMessage: true,
		DisableKeepalive:      true, // Important for tests
	})

	fiberApp.Use(exception.Recovery(zapLogger))
	fiberApp.Use(middleware.NewCORS(testConfig))
	fiberApp.Use(appmiddleware.TraceLoggerMiddleware(zapLogger))

	// 6. Wire stores, usecases, controllers and routes
	config.Server(&config.ServerConfig{
		Router:  fiberApp,
		DB:      dbPool,
		DBCache: redisClient,
		Log:     zapLogger,
		Config:  testConfig,
	})

	t.Log("Test application setup completed successfully")

	return fiberApp, dbPool, redisClient
}
