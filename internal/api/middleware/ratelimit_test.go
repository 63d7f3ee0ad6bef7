package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/alicebob/miniredis/v2"
    "github.com/gin-gonic/gin"
    "github.com/redis/go-redis/v9"
    "github.com/stretchr/testify/require"
)

func TestLoginThrottleBlocksAfterLimit(t *testing.T) {
    gin.SetMode(gin.TestMode)
    mr := miniredis.RunT(t)
    rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
    t.Cleanup(func() { _ = rdb.Close() })

    r := gin.New()
    r.POST("/login", LoginThrottle(rdb, 5), func(c *gin.Context) {
        c.Status(http.StatusOK)
    })

    do := func() int {
        w := httptest.NewRecorder()
        req := httptest.NewRequest(http.MethodPost, "/login", nil)
        r.ServeHTTP(w, req)
        return w.Code
    }

    for i := 0; i < 5; i++ {
        require.Equal(t, http.StatusOK, do())
    }
    require.Equal(t, http.StatusTooManyRequests, do())

    // 窗口过期后恢复
    mr.FastForward(61 * time.Second)
    require.Equal(t, http.StatusOK, do())
}

func TestLoginThrottleRepairsMissingTTL(t *testing.T) {
    gin.SetMode(gin.TestMode)
    mr := miniredis.RunT(t)
    rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
    t.Cleanup(func() { _ = rdb.Close() })

    r := gin.New()
    r.POST("/login", LoginThrottle(rdb, 5), func(c *gin.Context) {
        c.Status(http.StatusOK)
    })

    do := func() int {
        w := httptest.NewRecorder()
        req := httptest.NewRequest(http.MethodPost, "/login", nil)
        r.ServeHTTP(w, req)
        return w.Code
    }

    require.Equal(t, http.StatusOK, do())
    // httptest 的默认客户端地址
    key := "throttle:login:192.0.2.1"
    require.Positive(t, mr.TTL(key))

    // 模拟 EXPIRE 丢失：下一次请求要把 TTL 补回来，而不是让 key 永不过期
    mr.SetTTL(key, 0)
    require.Equal(t, http.StatusOK, do())
    require.Positive(t, mr.TTL(key))
}

func TestUserThrottlePerUser(t *testing.T) {
    gin.SetMode(gin.TestMode)

    r := gin.New()
    r.POST("/send", func(c *gin.Context) {
        c.Set(ContextUserID, c.GetHeader("X-Test-User"))
    }, UserThrottle(1, 2), func(c *gin.Context) {
        c.Status(http.StatusOK)
    })

    do := func(user string) int {
        w := httptest.NewRecorder()
        req := httptest.NewRequest(http.MethodPost, "/send", nil)
        req.Header.Set("X-Test-User", user)
        r.ServeHTTP(w, req)
        return w.Code
    }

    // burst=2：第三次被限
    require.Equal(t, http.StatusOK, do("u1"))
    require.Equal(t, http.StatusOK, do("u1"))
    require.Equal(t, http.StatusTooManyRequests, do("u1"))

    // 不同用户互不影响
    require.Equal(t, http.StatusOK, do("u2"))
}
