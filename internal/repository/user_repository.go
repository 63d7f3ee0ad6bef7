package repository

import (
    "context"
    "errors"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/d60-Lab/social-graph/internal/model"
)

var ErrDuplicateEmail = errors.New("a user with this email already exists")

type UserRepository interface {
    Create(ctx context.Context, user *model.User) error
    FindByID(ctx context.Context, id string) (*model.User, error)
    // FindByEmailCI 按邮箱查找，忽略大小写
    FindByEmailCI(ctx context.Context, email string) (*model.User, error)
    Search(ctx context.Context, query string, offset, limit int) ([]*model.User, error)
}

type userRepository struct {
    db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
    if user.ID == "" {
        user.ID = uuid.New().String()
    }
    return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
        var cnt int64
        if err := tx.Model(&model.User{}).Where("email = ?", user.Email).Count(&cnt).Error; err != nil {
            return err
        }
        if cnt > 0 {
            return ErrDuplicateEmail
        }
        return tx.Create(user).Error
    })
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
    var u model.User
    if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
        return nil, err
    }
    return &u, nil
}

func (r *userRepository) FindByEmailCI(ctx context.Context, email string) (*model.User, error) {
    var u model.User
    if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&u).Error; err != nil {
        return nil, err
    }
    return &u, nil
}

// Search 按用户名/邮箱模糊匹配；空查询返回空集
func (r *userRepository) Search(ctx context.Context, query string, offset, limit int) ([]*model.User, error) {
    if query == "" {
        return []*model.User{}, nil
    }
    var res []*model.User
    pattern := "%" + query + "%"
    err := r.db.WithContext(ctx).
        Where("username LIKE ? OR email LIKE ?", pattern, pattern).
        Order("username").
        Offset(offset).Limit(limit).
        Find(&res).Error
    return res, err
}
