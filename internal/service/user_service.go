package service

import (
    "context"
    "errors"
    "fmt"

    "golang.org/x/crypto/bcrypt"
    "gorm.io/gorm"

    "github.com/d60-Lab/social-graph/internal/model"
    "github.com/d60-Lab/social-graph/internal/repository"
    "github.com/d60-Lab/social-graph/pkg/auth"
)

// UserService 注册 / 登录 / 搜索
type UserService interface {
    Signup(ctx context.Context, username, email, password string) (*model.User, error)
    Login(ctx context.Context, email, password string) (*auth.TokenPair, error)
    Search(ctx context.Context, query string, page, pageSize int) ([]*model.User, error)
}

type userService struct {
    userRepo repository.UserRepository
    tokens   *auth.Manager
}

func NewUserService(userRepo repository.UserRepository, tokens *auth.Manager) UserService {
    return &userService{userRepo: userRepo, tokens: tokens}
}

func (s *userService) Signup(ctx context.Context, username, email, password string) (*model.User, error) {
    hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
    if err != nil {
        return nil, fmt.Errorf("hash password: %w", err)
    }
    user := &model.User{Username: username, Email: email, Password: string(hash)}
    if err := s.userRepo.Create(ctx, user); err != nil {
        if errors.Is(err, repository.ErrDuplicateEmail) {
            return nil, ErrEmailTaken
        }
        return nil, fmt.Errorf("create user: %w", err)
    }
    return user, nil
}

// Login 校验凭据并签发 token。邮箱不存在与密码错误返回同一个错误，
// 防止账号枚举。
func (s *userService) Login(ctx context.Context, email, password string) (*auth.TokenPair, error) {
    user, err := s.userRepo.FindByEmailCI(ctx, email)
    if err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return nil, ErrInvalidCredentials
        }
        return nil, fmt.Errorf("find user: %w", err)
    }
    if !user.VerifyPassword(password) {
        return nil, ErrInvalidCredentials
    }
    return s.tokens.Issue(user.ID, user.Username)
}

func (s *userService) Search(ctx context.Context, query string, page, pageSize int) ([]*model.User, error) {
    if page < 1 {
        page = 1
    }
    if pageSize < 1 {
        pageSize = 10
    }
    if pageSize > 100 {
        pageSize = 100
    }
    return s.userRepo.Search(ctx, query, (page-1)*pageSize, pageSize)
}
