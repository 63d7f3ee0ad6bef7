package service

import "errors"

var (
    ErrUnauthenticated = errors.New("user must be logged in")
    // ErrUserNotFound / ErrRequestNotFound 同时覆盖“不存在”和“无权查看”，
    // 避免向未授权调用方泄露申请是否存在
    ErrUserNotFound    = errors.New("user not found")
    ErrRequestNotFound = errors.New("friend request not found")
    // ErrConflict 预留：当前允许自申请与重复 pending 申请
    ErrConflict = errors.New("conflict")

    ErrInvalidCredentials = errors.New("invalid credentials")
    ErrEmailTaken         = errors.New("a user with this email already exists")
)
