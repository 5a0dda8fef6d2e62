package container

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/sproutly/greenhouse/cmd/greenhouse/repository"
	"github.com/sproutly/greenhouse/cmd/greenhouse/service"
	"github.com/sproutly/greenhouse/common/bootstrap"
	"github.com/sproutly/greenhouse/common/clients"
	"github.com/sproutly/greenhouse/common/ratelimit"
	rediscommon "github.com/sproutly/greenhouse/common/redis"
)

// Container holds all initialized services and repositories (singleton pattern)
type Container struct {
	// Components
	Components  *bootstrap.Components
	Redis       *rediscommon.Client
	RedisRaw    *redis.Client
	RateLimiter *ratelimit.RateLimiter
	Gemini      *clients.GeminiClient

	// Repositories
	UserRepo   *repository.UserRepository
	PlantRepo  *repository.PlantRepository
	GardenRepo *repository.GardenRepository

	// Services
	AuthService     *service.AuthService
	IdentifyService *service.IdentifyService
	GardenService   *service.GardenService
	ChatService     *service.ChatService
}

// NewContainer initializes all services and repositories once
func NewContainer(ctx context.Context, components *bootstrap.Components) (*Container, error) {
	cfg := components.Config

	redisRaw := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisRaw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	redisClient := rediscommon.NewClient(redisRaw, components.Logger)

	rateLimiter := ratelimit.NewRateLimiter(redisRaw, components.Logger)

	gemini, err := clients.NewGeminiClient(
		ctx,
		cfg.Oracle.APIKey,
		cfg.Oracle.IdentifyModel,
		cfg.Oracle.ChatModel,
		components.Logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(components.DB)
	plantRepo := repository.NewPlantRepository(components.DB)
	gardenRepo := repository.NewGardenRepository(components.DB)

	// Initialize services (bottom-up: dependencies first)
	sessions := service.NewRedisSessionStore(redisClient)
	authService := service.NewAuthService(userRepo, sessions, cfg.Auth.SessionTTL, components.Logger)

	identifyService := service.NewIdentifyService(
		gemini,
		plantRepo,
		components.Storage,
		components.Cache,
		cfg.Cache.DefaultTTL,
		components.Logger,
	)

	gardenService := service.NewGardenService(gardenRepo, components.Logger)
	chatService := service.NewChatService(gemini, components.Logger)

	return &Container{
		Components:      components,
		Redis:           redisClient,
		RedisRaw:        redisRaw,
		RateLimiter:     rateLimiter,
		Gemini:          gemini,
		UserRepo:        userRepo,
		PlantRepo:       plantRepo,
		GardenRepo:      gardenRepo,
		AuthService:     authService,
		IdentifyService: identifyService,
		GardenService:   gardenService,
		ChatService:     chatService,
	}, nil
}

// Close releases connections the container owns
func (c *Container) Close() error {
	return c.RedisRaw.Close()
}
