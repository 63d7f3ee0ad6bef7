package model

import (
    "time"

    "golang.org/x/crypto/bcrypt"
)

// User 用户账号（密码为 bcrypt 哈希）
type User struct {
    ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
    Username  string    `json:"username" gorm:"type:varchar(64);not null"`
    Email     string    `json:"email" gorm:"type:varchar(255);uniqueIndex:ux_user_email;not null"`
    Password  string    `json:"-" gorm:"type:varchar(128);not null"`
    CreatedAt time.Time `json:"created_at"`
    UpdatedAt time.Time `json:"-"`
}

func (User) TableName() string { return "users" }

// VerifyPassword 比对明文密码与存储的 bcrypt 哈希
func (u *User) VerifyPassword(plain string) bool {
    return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}
