package app

import (
	"context"
	"log"
	"sync"
	"time"

	"courseChat/configs"
	"courseChat/internal/handlers"
	"courseChat/internal/repositories"
	"courseChat/internal/servers/database"
	"courseChat/internal/servers/http"
	"courseChat/internal/services"

	"github.com/redis/go-redis/v9"
)

var (
	app  *App
	once sync.Once
)

type App struct {
	redis   *redis.Client
	ctx     context.Context
	configs *configs.Config
}

func GetApp() *App {
	once.Do(func() {
		app = &App{}
	})
	return app
}

func (app *App) LetsGo() {
	app.ctx = context.Background()
	app.initializeConfigs()
	app.initializeRedis()

	jwtKey := []byte(app.configs.Viper.GetString("jwt.secret"))
	if len(jwtKey) == 0 {
		log.Fatal("jwt.secret is not configured")
	}
	tokenTTL := time.Duration(app.configs.Viper.GetInt("jwt.expiration_time")) * time.Second

	db := database.GetDB(app.configs)
	defer func() {
		if err := database.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	authRepo := repositories.NewAuthenticationRepository(db)
	authService := services.NewAuthenticationService(authRepo, jwtKey, tokenTTL)
	chatRepo := repositories.NewChatRepository(db)
	chatService := services.NewChatService(chatRepo)

	minioService := services.NewMinioService(app.configs)
	fileManagerService := services.NewFileManagerService(minioService)

	restHandler := handlers.NewRestHandler(
		app.ctx,
		app.redis,
		jwtKey,
		authService,
		chatService,
		fileManagerService,
	)

	socketChatHandler := handlers.NewSocketChatHandler(app.redis, app.ctx, chatService, jwtKey)

	http.NewHttpServer(
		app.ctx,
		app.configs.Viper.GetString("server.address"),
		restHandler,
		socketChatHandler,
	).Run()
}

func (app *App) initializeRedis() {
	app.redis = redis.NewClient(&redis.Options{
		Addr: app.configs.Viper.GetString("redis.address"),
	})
}

func (app *App) initializeConfigs() {
	app.configs = configs.GetConfig()
}
