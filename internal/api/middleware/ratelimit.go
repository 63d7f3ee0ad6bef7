package middleware

import (
    "fmt"
    "sync"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"
    "golang.org/x/time/rate"

    "github.com/d60-Lab/social-graph/pkg/logger"
    "github.com/d60-Lab/social-graph/pkg/response"
)

// LoginThrottle 登录限流：每客户端每分钟 perMinute 次，Redis 固定窗口计数。
// Redis 不可用时放行，只告警。
func LoginThrottle(rdb *redis.Client, perMinute int) gin.HandlerFunc {
    if perMinute <= 0 {
        perMinute = 5
    }
    return func(c *gin.Context) {
        key := fmt.Sprintf("throttle:login:%s", c.ClientIP())
        ctx := c.Request.Context()

        // INCR 和 EXPIRE NX 同一批次下发：即使某次 EXPIRE 失败，
        // 后续请求也会补上 TTL，不会把窗口钉死
        pipe := rdb.TxPipeline()
        incr := pipe.Incr(ctx, key)
        pipe.ExpireNX(ctx, key, time.Minute)
        if _, err := pipe.Exec(ctx); err != nil {
            logger.Warn("login throttle unavailable", zap.Error(err))
            c.Next()
            return
        }
        if count := incr.Val(); count > int64(perMinute) {
            response.TooManyRequests(c, "too many login attempts, try again later")
            c.Abort()
            return
        }
        c.Next()
    }
}

// UserThrottle 按登录用户限流（令牌桶），用于好友申请等写接口防刷
func UserThrottle(perSecond float64, burst int) gin.HandlerFunc {
    if perSecond <= 0 {
        perSecond = 1
    }
    if burst <= 0 {
        burst = 5
    }
    var limiters sync.Map
    return func(c *gin.Context) {
        userID := CurrentUserID(c)
        if userID == "" {
            // 未认证请求交给认证中间件处理
            c.Next()
            return
        }
        v, _ := limiters.LoadOrStore(userID, rate.NewLimiter(rate.Limit(perSecond), burst))
        if !v.(*rate.Limiter).Allow() {
            response.TooManyRequests(c, "too many requests")
            c.Abort()
            return
        }
        c.Next()
    }
}
