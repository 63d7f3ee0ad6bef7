package main

import (
    "context"
    "errors"
    "net/http"
    "os/signal"
    "syscall"
    "time"

    "github.com/getsentry/sentry-go"
    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"

    "github.com/d60-Lab/social-graph/config"
    "github.com/d60-Lab/social-graph/internal/api"
    "github.com/d60-Lab/social-graph/internal/api/handler"
    "github.com/d60-Lab/social-graph/internal/cache"
    "github.com/d60-Lab/social-graph/internal/model"
    "github.com/d60-Lab/social-graph/internal/repository"
    "github.com/d60-Lab/social-graph/internal/service"
    "github.com/d60-Lab/social-graph/pkg/auth"
    "github.com/d60-Lab/social-graph/pkg/database"
    "github.com/d60-Lab/social-graph/pkg/logger"
    "github.com/d60-Lab/social-graph/pkg/tracing"
)

func main() {
    cfg, err := config.Load()
    if err != nil {
        panic(err)
    }
    if err := logger.Init(cfg.Log); err != nil {
        panic(err)
    }
    defer logger.Sync()

    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()

    if cfg.Sentry.DSN != "" {
        if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
            logger.Warn("sentry init failed", zap.Error(err))
        } else {
            defer sentry.Flush(2 * time.Second)
        }
    }

    shutdownTracing, err := tracing.Init(ctx, "social-graph", cfg.Trace)
    if err != nil {
        logger.Fatal("init tracing", zap.Error(err))
    }

    db, err := database.InitDB(cfg)
    if err != nil {
        logger.Fatal("init database", zap.Error(err))
    }
    if err := db.AutoMigrate(&model.User{}, &model.FriendRequest{}, &model.ActivityLog{}); err != nil {
        logger.Fatal("migrate", zap.Error(err))
    }

    rdb := redis.NewClient(&redis.Options{
        Addr:     cfg.Redis.Addr,
        Password: cfg.Redis.Password,
        DB:       cfg.Redis.DB,
    })
    defer rdb.Close()

    // repositories & services
    userRepo := repository.NewUserRepository(db)
    requestRepo := repository.NewFriendRequestRepository(db)
    activityRepo := repository.NewActivityLogRepository(db)
    friendsCache := cache.NewFriendsCache(rdb, 5*time.Minute)

    tokens := auth.NewManager(cfg.JWT)
    userSvc := service.NewUserService(userRepo, tokens)
    friendSvc := service.NewFriendService(userRepo, requestRepo, activityRepo, friendsCache)

    h := handler.NewHandler(userSvc, friendSvc)
    router := api.NewRouter(cfg, h, tokens, rdb)

    srv := &http.Server{
        Addr:    ":" + cfg.Server.Port,
        Handler: router,
    }
    go func() {
        logger.Info("server listening", zap.String("addr", srv.Addr))
        if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            logger.Fatal("listen", zap.Error(err))
        }
    }()

    <-ctx.Done()
    logger.Info("shutting down")

    shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    if err := srv.Shutdown(shutdownCtx); err != nil {
        logger.Error("server shutdown", zap.Error(err))
    }
    if err := shutdownTracing(shutdownCtx); err != nil {
        logger.Warn("tracing shutdown", zap.Error(err))
    }
}
