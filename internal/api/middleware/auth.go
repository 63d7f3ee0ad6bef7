package middleware

import (
    "strings"

    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/social-graph/pkg/auth"
    "github.com/d60-Lab/social-graph/pkg/response"
)

const (
    ContextUserID   = "user_id"
    ContextUsername = "username"
)

// JWTAuth 校验 Authorization: Bearer <token>，并把用户身份写入 context
func JWTAuth(tokens *auth.Manager) gin.HandlerFunc {
    return func(c *gin.Context) {
        header := c.GetHeader("Authorization")
        if header == "" {
            response.Unauthorized(c, "missing authorization header")
            c.Abort()
            return
        }
        parts := strings.SplitN(header, " ", 2)
        if len(parts) != 2 || parts[0] != "Bearer" {
            response.Unauthorized(c, "authorization header must be: Bearer <token>")
            c.Abort()
            return
        }
        claims, err := tokens.Parse(parts[1])
        if err != nil {
            response.Unauthorized(c, "invalid or expired token")
            c.Abort()
            return
        }
        c.Set(ContextUserID, claims.UserID)
        c.Set(ContextUsername, claims.Username)
        c.Next()
    }
}

// CurrentUserID 取当前登录用户 id；未认证返回空串
func CurrentUserID(c *gin.Context) string {
    return c.GetString(ContextUserID)
}
