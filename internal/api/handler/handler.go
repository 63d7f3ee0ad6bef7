package handler

import (
    "errors"

    "github.com/gin-gonic/gin"
    "github.com/gin-gonic/gin/binding"
    "github.com/go-playground/validator/v10"

    "github.com/d60-Lab/social-graph/internal/service"
    "github.com/d60-Lab/social-graph/pkg/response"
)

type Handler struct {
    userSvc   service.UserService
    friendSvc service.FriendService
}

func NewHandler(userSvc service.UserService, friendSvc service.FriendService) *Handler {
    return &Handler{userSvc: userSvc, friendSvc: friendSvc}
}

func init() {
    // 注册密码强度校验规则，供注册接口的 binding tag 使用
    if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
        _ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
            return len(fl.Field().String()) >= 8
        })
    }
}

// renderError 将 service 层错误映射为 HTTP 响应；
// 未识别的错误按观测到的行为透传原始信息
func renderError(c *gin.Context, err error) {
    switch {
    case errors.Is(err, service.ErrUserNotFound),
        errors.Is(err, service.ErrRequestNotFound):
        response.NotFound(c, err.Error())
    case errors.Is(err, service.ErrUnauthenticated),
        errors.Is(err, service.ErrInvalidCredentials):
        response.Unauthorized(c, err.Error())
    default:
        response.BadRequest(c, err.Error())
    }
}
