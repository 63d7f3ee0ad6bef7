package repository

import (
    "context"

    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/d60-Lab/social-graph/internal/model"
)

type ActivityLogRepository interface {
    Append(ctx context.Context, userID, action string) error
    ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.ActivityLog, error)
}

type activityLogRepository struct{ db *gorm.DB }

func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
    return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Append(ctx context.Context, userID, action string) error {
    entry := &model.ActivityLog{ID: uuid.New().String(), UserID: userID, Action: action}
    return r.db.WithContext(ctx).Create(entry).Error
}

func (r *activityLogRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.ActivityLog, error) {
    var res []*model.ActivityLog
    err := r.db.WithContext(ctx).
        Where("user_id = ?", userID).
        Order("created_at DESC").
        Offset(offset).Limit(limit).
        Find(&res).Error
    return res, err
}
