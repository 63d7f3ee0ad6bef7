package service

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/require"
    "golang.org/x/crypto/bcrypt"
    "gorm.io/driver/sqlite"
    "gorm.io/gorm"

    "github.com/d60-Lab/social-graph/config"
    "github.com/d60-Lab/social-graph/internal/model"
    "github.com/d60-Lab/social-graph/internal/repository"
    "github.com/d60-Lab/social-graph/pkg/auth"
)

func setupUserService(t *testing.T) (UserService, *auth.Manager, *gorm.DB) {
    t.Helper()
    db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
    if err != nil {
        t.Fatalf("open db: %v", err)
    }
    if err := db.AutoMigrate(&model.User{}); err != nil {
        t.Fatalf("migrate: %v", err)
    }
    tokens := auth.NewManager(config.JWTConfig{
        Secret:        "test-secret",
        Issuer:        "test",
        AccessExpire:  time.Hour,
        RefreshExpire: 24 * time.Hour,
    })
    return NewUserService(repository.NewUserRepository(db), tokens), tokens, db
}

func TestSignupHashesPassword(t *testing.T) {
    svc, _, db := setupUserService(t)
    ctx := context.Background()

    user, err := svc.Signup(ctx, "alice", "alice@example.com", "s3cretpass")
    require.NoError(t, err)
    require.NotEmpty(t, user.ID)

    var stored model.User
    require.NoError(t, db.Where("id = ?", user.ID).First(&stored).Error)
    require.NotEqual(t, "s3cretpass", stored.Password)
    require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("s3cretpass")))
}

func TestSignupDuplicateEmail(t *testing.T) {
    svc, _, _ := setupUserService(t)
    ctx := context.Background()

    _, err := svc.Signup(ctx, "alice", "alice@example.com", "s3cretpass")
    require.NoError(t, err)
    _, err = svc.Signup(ctx, "alice2", "alice@example.com", "s3cretpass")
    require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginIssuesTokenPair(t *testing.T) {
    svc, tokens, _ := setupUserService(t)
    ctx := context.Background()

    user, err := svc.Signup(ctx, "alice", "alice@example.com", "s3cretpass")
    require.NoError(t, err)

    pair, err := svc.Login(ctx, "alice@example.com", "s3cretpass")
    require.NoError(t, err)
    require.NotEmpty(t, pair.Access)
    require.NotEmpty(t, pair.Refresh)

    claims, err := tokens.Parse(pair.Access)
    require.NoError(t, err)
    require.Equal(t, user.ID, claims.UserID)
    require.Equal(t, "alice", claims.Username)
}

func TestLoginEmailIsCaseInsensitive(t *testing.T) {
    svc, _, _ := setupUserService(t)
    ctx := context.Background()

    _, err := svc.Signup(ctx, "alice", "Alice@Example.com", "s3cretpass")
    require.NoError(t, err)

    _, err = svc.Login(ctx, "alice@example.COM", "s3cretpass")
    require.NoError(t, err)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
    svc, _, _ := setupUserService(t)
    ctx := context.Background()

    _, err := svc.Signup(ctx, "alice", "alice@example.com", "s3cretpass")
    require.NoError(t, err)

    // 邮箱不存在和密码错误必须返回完全相同的错误
    _, errUnknown := svc.Login(ctx, "ghost@example.com", "whatever1")
    _, errWrongPw := svc.Login(ctx, "alice@example.com", "wrongpass")
    require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
    require.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
    require.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestSearchMatchesUsernameAndEmail(t *testing.T) {
    svc, _, _ := setupUserService(t)
    ctx := context.Background()

    _, err := svc.Signup(ctx, "alice", "alice@example.com", "s3cretpass")
    require.NoError(t, err)
    _, err = svc.Signup(ctx, "bob", "bob@alicemail.net", "s3cretpass")
    require.NoError(t, err)
    _, err = svc.Signup(ctx, "carol", "carol@example.com", "s3cretpass")
    require.NoError(t, err)

    res, err := svc.Search(ctx, "alice", 1, 10)
    require.NoError(t, err)
    require.Len(t, res, 2)

    // 空查询返回空集
    res, err = svc.Search(ctx, "", 1, 10)
    require.NoError(t, err)
    require.Empty(t, res)
}
