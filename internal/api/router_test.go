package api

import (
    "bytes"
    "encoding/json"
    "fmt"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/alicebob/miniredis/v2"
    "github.com/gin-gonic/gin"
    "github.com/redis/go-redis/v9"
    "github.com/stretchr/testify/require"
    "gorm.io/driver/sqlite"
    "gorm.io/gorm"

    "github.com/d60-Lab/social-graph/config"
    "github.com/d60-Lab/social-graph/internal/api/handler"
    "github.com/d60-Lab/social-graph/internal/cache"
    "github.com/d60-Lab/social-graph/internal/model"
    "github.com/d60-Lab/social-graph/internal/repository"
    "github.com/d60-Lab/social-graph/internal/service"
    "github.com/d60-Lab/social-graph/pkg/auth"
)

func setupRouter(t *testing.T) *gin.Engine {
    t.Helper()
    db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
    require.NoError(t, err)
    require.NoError(t, db.AutoMigrate(&model.User{}, &model.FriendRequest{}, &model.ActivityLog{}))

    mr := miniredis.RunT(t)
    rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
    t.Cleanup(func() { _ = rdb.Close() })

    cfg := &config.Config{
        Server: config.ServerConfig{Mode: gin.TestMode},
        JWT: config.JWTConfig{
            Secret:        "test-secret",
            Issuer:        "test",
            AccessExpire:  time.Hour,
            RefreshExpire: 24 * time.Hour,
        },
        RateLimit: config.RateLimitConfig{LoginPerMinute: 100, SendPerSecond: 100, SendBurst: 100},
    }

    userRepo := repository.NewUserRepository(db)
    requestRepo := repository.NewFriendRequestRepository(db)
    activityRepo := repository.NewActivityLogRepository(db)
    friendsCache := cache.NewFriendsCache(rdb, time.Minute)

    tokens := auth.NewManager(cfg.JWT)
    userSvc := service.NewUserService(userRepo, tokens)
    friendSvc := service.NewFriendService(userRepo, requestRepo, activityRepo, friendsCache)
    h := handler.NewHandler(userSvc, friendSvc)
    return NewRouter(cfg, h, tokens, rdb)
}

type envelope struct {
    Code    int             `json:"code"`
    Message string          `json:"message"`
    Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) (int, envelope) {
    t.Helper()
    var buf bytes.Buffer
    if body != nil {
        require.NoError(t, json.NewEncoder(&buf).Encode(body))
    }
    req := httptest.NewRequest(method, path, &buf)
    req.Header.Set("Content-Type", "application/json")
    if token != "" {
        req.Header.Set("Authorization", "Bearer "+token)
    }
    w := httptest.NewRecorder()
    r.ServeHTTP(w, req)

    var env envelope
    if w.Body.Len() > 0 {
        require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
    }
    return w.Code, env
}

func signupAndLogin(t *testing.T, r *gin.Engine, username string) (id, token string) {
    t.Helper()
    email := fmt.Sprintf("%s@example.com", username)
    code, env := doJSON(t, r, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
        "username": username, "email": email, "password": "s3cretpass",
    })
    require.Equal(t, http.StatusOK, code)
    var created struct {
        ID string `json:"id"`
    }
    require.NoError(t, json.Unmarshal(env.Data, &created))

    code, env = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
        "email": email, "password": "s3cretpass",
    })
    require.Equal(t, http.StatusOK, code)
    var pair struct {
        Access string `json:"access"`
    }
    require.NoError(t, json.Unmarshal(env.Data, &pair))
    return created.ID, pair.Access
}

func TestFriendRequestFlow(t *testing.T) {
    r := setupRouter(t)

    aliceID, aliceToken := signupAndLogin(t, r, "alice")
    bobID, bobToken := signupAndLogin(t, r, "bob")

    // alice 向 bob 发申请
    code, env := doJSON(t, r, http.MethodPost, "/api/v1/friend-requests", aliceToken, gin.H{"to_user": bobID})
    require.Equal(t, http.StatusOK, code)
    var sent struct {
        ID string `json:"id"`
    }
    require.NoError(t, json.Unmarshal(env.Data, &sent))
    require.NotEmpty(t, sent.ID)

    // bob 的待处理列表应有一条来自 alice 的申请
    code, env = doJSON(t, r, http.MethodGet, "/api/v1/friend-requests/pending", bobToken, nil)
    require.Equal(t, http.StatusOK, code)
    var pending struct {
        List []struct {
            ID       string `json:"id"`
            FromUser string `json:"from_user"`
        } `json:"list"`
    }
    require.NoError(t, json.Unmarshal(env.Data, &pending))
    require.Len(t, pending.List, 1)
    require.Equal(t, aliceID, pending.List[0].FromUser)

    // bob 接受
    code, _ = doJSON(t, r, http.MethodPost, "/api/v1/friend-requests/"+sent.ID+"/accept", bobToken, nil)
    require.Equal(t, http.StatusOK, code)

    // alice 的好友列表含 bob；bob 的好友列表为空（单向）
    code, env = doJSON(t, r, http.MethodGet, "/api/v1/friends", aliceToken, nil)
    require.Equal(t, http.StatusOK, code)
    var friends struct {
        List []struct {
            ID string `json:"id"`
        } `json:"list"`
    }
    require.NoError(t, json.Unmarshal(env.Data, &friends))
    require.Len(t, friends.List, 1)
    require.Equal(t, bobID, friends.List[0].ID)

    code, env = doJSON(t, r, http.MethodGet, "/api/v1/friends", bobToken, nil)
    require.Equal(t, http.StatusOK, code)
    require.NoError(t, json.Unmarshal(env.Data, &friends))
    require.Empty(t, friends.List)
}

func TestFriendRoutesRequireAuth(t *testing.T) {
    r := setupRouter(t)

    code, _ := doJSON(t, r, http.MethodGet, "/api/v1/friends", "", nil)
    require.Equal(t, http.StatusUnauthorized, code)

    code, _ = doJSON(t, r, http.MethodPost, "/api/v1/friend-requests", "garbage-token", gin.H{"to_user": "u2"})
    require.Equal(t, http.StatusUnauthorized, code)
}

func TestAcceptForeignRequestIsNotFound(t *testing.T) {
    r := setupRouter(t)

    _, aliceToken := signupAndLogin(t, r, "alice")
    bobID, _ := signupAndLogin(t, r, "bob")
    _, carolToken := signupAndLogin(t, r, "carol")

    code, env := doJSON(t, r, http.MethodPost, "/api/v1/friend-requests", aliceToken, gin.H{"to_user": bobID})
    require.Equal(t, http.StatusOK, code)
    var sent struct {
        ID string `json:"id"`
    }
    require.NoError(t, json.Unmarshal(env.Data, &sent))

    // 非收件人 accept：404，而不是 403
    code, _ = doJSON(t, r, http.MethodPost, "/api/v1/friend-requests/"+sent.ID+"/accept", carolToken, nil)
    require.Equal(t, http.StatusNotFound, code)
}

func TestSendToUnknownUser(t *testing.T) {
    r := setupRouter(t)
    _, aliceToken := signupAndLogin(t, r, "alice")

    code, _ := doJSON(t, r, http.MethodPost, "/api/v1/friend-requests", aliceToken, gin.H{"to_user": "missing"})
    require.Equal(t, http.StatusNotFound, code)
}

func TestSignupValidation(t *testing.T) {
    r := setupRouter(t)

    // 密码不满足强度规则
    code, _ := doJSON(t, r, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
        "username": "alice", "email": "alice@example.com", "password": "short",
    })
    require.Equal(t, http.StatusBadRequest, code)

    // 重复邮箱
    code, _ = doJSON(t, r, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
        "username": "alice", "email": "alice@example.com", "password": "s3cretpass",
    })
    require.Equal(t, http.StatusOK, code)
    code, _ = doJSON(t, r, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
        "username": "alice2", "email": "alice@example.com", "password": "s3cretpass",
    })
    require.Equal(t, http.StatusBadRequest, code)
}
