package model

import "time"

// FriendRequest 好友申请（A 向 B 发起）
type FriendRequest struct {
    ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
    FromUserID string    `json:"from_user" gorm:"type:varchar(36);index:idx_fr_from;not null"`
    ToUserID   string    `json:"to_user" gorm:"type:varchar(36);index:idx_fr_to_status;not null"`
    Status     string    `json:"status" gorm:"type:varchar(16);index:idx_fr_to_status;not null;default:'pending'"`
    // created_at 创建后不可变
    CreatedAt  time.Time `json:"created_at" gorm:"index"`
}

func (FriendRequest) TableName() string { return "friend_requests" }

// 好友申请状态
const (
    FriendRequestPending  = "pending"
    FriendRequestAccepted = "accepted"
    FriendRequestRejected = "rejected"
)
