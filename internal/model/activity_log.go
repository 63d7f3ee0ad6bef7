package model

import "time"

// ActivityLog 用户行为流水，只追加不修改
type ActivityLog struct {
    ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
    UserID    string    `json:"user" gorm:"type:varchar(36);index:idx_activity_user;not null"`
    Action    string    `json:"action" gorm:"type:text;not null"`
    CreatedAt time.Time `json:"timestamp"`
}

func (ActivityLog) TableName() string { return "activity_logs" }
