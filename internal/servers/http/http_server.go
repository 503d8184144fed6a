package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"courseChat/internal/enums"
	"courseChat/internal/handlers"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpServer *HttpServer
	once       sync.Once
)

type HttpServer struct {
	ctx               context.Context
	address           string
	router            *gin.Engine
	restHandler       *handlers.RestHandler
	socketChatHandler *handlers.SocketChatHandler
}

func NewHttpServer(
	ctx context.Context,
	address string,
	restHandler *handlers.RestHandler,
	socketChatHandler *handlers.SocketChatHandler,
) *HttpServer {
	once.Do(func() {
		httpServer = &HttpServer{
			ctx:               ctx,
			address:           address,
			restHandler:       restHandler,
			socketChatHandler: socketChatHandler,
		}
	})
	return httpServer
}

func (hs *HttpServer) Run() {
	hs.initializeGin()
	hs.setupRestfulRoutes()

	hs.socketChatHandler.StartSocket()
	hs.setupWebSocketRoutes()

	server := hs.startServer()
	hs.waitForShutdown(server)
}

func (hs *HttpServer) initializeGin() {
	hs.router = gin.Default()
	hs.router.Use(handlers.PrometheusMiddleware())
}

func (hs *HttpServer) setupRestfulRoutes() {
	hs.router.GET("/health", hs.restHandler.Health)
	hs.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	hs.router.POST("/register", hs.restHandler.Register)
	hs.router.POST("/login", hs.restHandler.Login)

	authorized := hs.router.Group("/")
	authorized.Use(hs.restHandler.MustAuthenticateMiddleware())
	{
		authorized.GET("/auth/me", hs.restHandler.Me)
		authorized.POST("/users/me/avatar", hs.restHandler.UploadUserAvatar)

		conversations := authorized.Group("/conversations")
		conversations.Use(hs.restHandler.RequireRolesMiddleware(
			enums.ROLE_STUDENT,
			enums.ROLE_INSTRUCTOR,
			enums.ROLE_ADMIN,
		))
		{
			conversations.POST("", hs.restHandler.CreateConversation)
			conversations.GET("", hs.restHandler.GetUserConversations)
		}

		admin := authorized.Group("/admin")
		admin.Use(hs.restHandler.RequireRolesMiddleware(enums.ROLE_ADMIN))
		{
			admin.GET("/instructors", hs.restHandler.GetInstructors)
		}
	}

	// Message endpoints answer failures with the bare {error} body, so they
	// carry their own guard instead of the enveloped middleware chain.
	messages := hs.router.Group("/conversations")
	messages.Use(hs.restHandler.MustAuthenticateMessagesMiddleware(
		enums.ROLE_STUDENT,
		enums.ROLE_INSTRUCTOR,
		enums.ROLE_ADMIN,
	))
	{
		messages.GET("/:id/messages", hs.restHandler.GetConversationMessages)
		messages.POST("/messages", hs.restHandler.SendMessage)
	}
}

func (hs *HttpServer) setupWebSocketRoutes() {
	hs.router.GET("/ws/chat", hs.socketChatHandler.HandleSocketChatRoute)
}

func (hs *HttpServer) startServer() *http.Server {
	server := &http.Server{
		Addr:    hs.address,
		Handler: hs.router,
	}

	go func() {
		log.Printf("HTTP server started on %s", hs.address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	return server
}

func (hs *HttpServer) waitForShutdown(server *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if err := server.Shutdown(hs.ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
