package repository

import (
    "context"
    "time"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/d60-Lab/social-graph/internal/model"
)

type FriendRequestRepository interface {
    // Create 事务内落地一条申请
    Create(ctx context.Context, fr *model.FriendRequest) error
    FindByID(ctx context.Context, id string) (*model.FriendRequest, error)
    // FindByIDAndAddressee 复合查询：id + 收件人，兼做鉴权
    FindByIDAndAddressee(ctx context.Context, id, toUserID string) (*model.FriendRequest, error)
    Update(ctx context.Context, fr *model.FriendRequest) error
    // UpdateStatusForAddressee 单条 UPDATE 完成读-改-写，返回更新后的行；
    // 无匹配行时返回 gorm.ErrRecordNotFound
    UpdateStatusForAddressee(ctx context.Context, id, toUserID, status string) (*model.FriendRequest, error)
    ListPendingForAddressee(ctx context.Context, toUserID string) ([]*model.FriendRequest, error)
    ListAcceptedFrom(ctx context.Context, fromUserID string, offset, limit int) ([]*model.User, error)
}

type friendRequestRepository struct {
    db *gorm.DB
}

func NewFriendRequestRepository(db *gorm.DB) FriendRequestRepository {
    return &friendRequestRepository{db: db}
}

func (r *friendRequestRepository) Create(ctx context.Context, fr *model.FriendRequest) error {
    if fr.ID == "" {
        fr.ID = uuid.New().String()
    }
    if fr.Status == "" {
        fr.Status = model.FriendRequestPending
    }
    if fr.CreatedAt.IsZero() {
        fr.CreatedAt = time.Now()
    }
    return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
        return tx.Create(fr).Error
    })
}

func (r *friendRequestRepository) FindByID(ctx context.Context, id string) (*model.FriendRequest, error) {
    var fr model.FriendRequest
    if err := r.db.WithContext(ctx).Where("id = ?", id).First(&fr).Error; err != nil {
        return nil, err
    }
    return &fr, nil
}

func (r *friendRequestRepository) FindByIDAndAddressee(ctx context.Context, id, toUserID string) (*model.FriendRequest, error) {
    var fr model.FriendRequest
    err := r.db.WithContext(ctx).
        Where("id = ? AND to_user_id = ?", id, toUserID).
        First(&fr).Error
    if err != nil {
        return nil, err
    }
    return &fr, nil
}

func (r *friendRequestRepository) Update(ctx context.Context, fr *model.FriendRequest) error {
    return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
        return tx.Model(&model.FriendRequest{}).
            Where("id = ?", fr.ID).
            Update("status", fr.Status).Error
    })
}

func (r *friendRequestRepository) UpdateStatusForAddressee(ctx context.Context, id, toUserID, status string) (*model.FriendRequest, error) {
    var fr model.FriendRequest
    err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
        res := tx.Model(&model.FriendRequest{}).
            Where("id = ? AND to_user_id = ?", id, toUserID).
            Update("status", status)
        if res.Error != nil {
            return res.Error
        }
        if res.RowsAffected == 0 {
            return gorm.ErrRecordNotFound
        }
        return tx.Where("id = ?", id).First(&fr).Error
    })
    if err != nil {
        return nil, err
    }
    return &fr, nil
}

func (r *friendRequestRepository) ListPendingForAddressee(ctx context.Context, toUserID string) ([]*model.FriendRequest, error) {
    var res []*model.FriendRequest
    err := r.db.WithContext(ctx).
        Where("to_user_id = ? AND status = ?", toUserID, model.FriendRequestPending).
        Order("created_at DESC").
        Find(&res).Error
    return res, err
}

// ListAcceptedFrom 返回 fromUserID 发出且已被接受的申请对应的收件人
func (r *friendRequestRepository) ListAcceptedFrom(ctx context.Context, fromUserID string, offset, limit int) ([]*model.User, error) {
    var res []*model.User
    err := r.db.WithContext(ctx).
        Table("friend_requests").
        Select("users.*").
        Joins("JOIN users ON users.id = friend_requests.to_user_id").
        Where("friend_requests.from_user_id = ? AND friend_requests.status = ?", fromUserID, model.FriendRequestAccepted).
        Order("friend_requests.created_at DESC").
        Offset(offset).Limit(limit).
        Scan(&res).Error
    return res, err
}
