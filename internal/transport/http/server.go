package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "warbler/internal/app"
	"warbler/internal/bootstrap"
	"warbler/internal/platform/rabbitmq"
	"warbler/internal/repository"
	"warbler/internal/transport/http/handler"
	"warbler/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middleware.NoStore())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	messageRepo := repository.NewMessageRepository(app.MySQL)
	followRepo := repository.NewFollowRepository(app.MySQL)
	likeRepo := repository.NewLikeRepository(app.MySQL)
	feedPublisher := rabbitmq.NewFeedPublisher(app.MQConn, app.Config.RabbitMQ.FeedEventQueue)

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
		app.Config.Profile.DefaultImageURL,
		app.Config.Profile.DefaultHeaderImageURL,
	)
	userService := appsvc.NewUserService(
		userRepo,
		messageRepo,
		followRepo,
		feedPublisher,
		app.FeedCache,
		app.Config.Profile.DefaultImageURL,
		app.Config.Profile.DefaultHeaderImageURL,
	)
	messageService := appsvc.NewMessageService(messageRepo, followRepo, likeRepo, feedPublisher, app.FeedCache)
	socialService := appsvc.NewSocialService(userRepo, messageRepo, followRepo, likeRepo, app.FeedCache)
	feedService := appsvc.NewFeedService(messageRepo, app.FeedCache, app.Config.Feed.HomeLimit)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, socialService)
	messageHandler := handler.NewMessageHandler(messageService, socialService)
	feedHandler := handler.NewFeedHandler(feedService)

	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", middleware.AuthJWT(app.Config.Auth.JWTSecret), authHandler.Me)

	v1.PUT("/profile", middleware.AuthJWT(app.Config.Auth.JWTSecret), userHandler.UpdateProfile)
	v1.DELETE("/account", middleware.AuthJWT(app.Config.Auth.JWTSecret), userHandler.DeleteAccount)

	userGroup := v1.Group("/users")
	userGroup.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
	userGroup.GET("", userHandler.Search)
	userGroup.GET("/:id", userHandler.Show)
	userGroup.GET("/:id/following", userHandler.Following)
	userGroup.GET("/:id/followers", userHandler.Followers)
	userGroup.GET("/:id/likes", userHandler.LikedMessages)
	userGroup.POST("/:id/follow", userHandler.Follow)
	userGroup.DELETE("/:id/follow", userHandler.Unfollow)

	messageGroup := v1.Group("/messages")
	messageGroup.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
	messageGroup.POST("", messageHandler.Compose)
	messageGroup.GET("/:id", messageHandler.Show)
	messageGroup.DELETE("/:id", messageHandler.Delete)
	messageGroup.POST("/:id/like", messageHandler.ToggleLike)

	feedGroup := v1.Group("/feed")
	feedGroup.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
	feedGroup.GET("", feedHandler.Home)

	return router
}
