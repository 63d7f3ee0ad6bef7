package api

import (
    sentrygin "github.com/getsentry/sentry-go/gin"
    "github.com/gin-contrib/gzip"
    "github.com/gin-gonic/gin"
    "github.com/redis/go-redis/v9"
    swaggerFiles "github.com/swaggo/files"
    ginSwagger "github.com/swaggo/gin-swagger"
    "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

    "github.com/d60-Lab/social-graph/config"
    _ "github.com/d60-Lab/social-graph/docs"
    "github.com/d60-Lab/social-graph/internal/api/handler"
    "github.com/d60-Lab/social-graph/internal/api/middleware"
    "github.com/d60-Lab/social-graph/pkg/auth"
)

// NewRouter 装配路由与中间件
func NewRouter(cfg *config.Config, h *handler.Handler, tokens *auth.Manager, rdb *redis.Client) *gin.Engine {
    gin.SetMode(cfg.Server.Mode)
    r := gin.New()
    r.Use(gin.Logger(), gin.Recovery())
    r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
    r.Use(otelgin.Middleware("social-graph"))
    r.Use(gzip.Gzip(gzip.DefaultCompression))

    r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

    v1 := r.Group("/api/v1")
    {
        v1.POST("/auth/signup", h.Signup)
        v1.POST("/auth/login", middleware.LoginThrottle(rdb, cfg.RateLimit.LoginPerMinute), h.Login)
        v1.GET("/users/search", h.SearchUsers)
    }

    authed := v1.Group("", middleware.JWTAuth(tokens))
    {
        authed.POST("/friend-requests",
            middleware.UserThrottle(cfg.RateLimit.SendPerSecond, cfg.RateLimit.SendBurst),
            h.SendFriendRequest)
        authed.POST("/friend-requests/:id/accept", h.AcceptFriendRequest)
        authed.POST("/friend-requests/:id/reject", h.RejectFriendRequest)
        authed.GET("/friend-requests/pending", h.ListPendingRequests)
        authed.GET("/friends", h.ListFriends)
    }

    return r
}
