package handler

import (
    "strconv"

    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/social-graph/pkg/response"
)

type signupRequest struct {
    Username string `json:"username" binding:"required"`
    Email    string `json:"email" binding:"required,email"`
    Password string `json:"password" binding:"required,password"`
}

// Signup 用户注册
// @Summary 注册
// @Tags 账号
// @Accept json
// @Produce json
// @Param request body signupRequest true "注册信息"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/auth/signup [post]
func (h *Handler) Signup(c *gin.Context) {
    var req signupRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    user, err := h.userSvc.Signup(c.Request.Context(), req.Username, req.Email, req.Password)
    if err != nil {
        renderError(c, err)
        return
    }
    response.Success(c, gin.H{"id": user.ID, "username": user.Username, "email": user.Email})
}

type loginRequest struct {
    Email    string `json:"email" binding:"required"`
    Password string `json:"password" binding:"required"`
}

// Login 登录，返回 access/refresh token 对
// @Summary 登录
// @Tags 账号
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
    var req loginRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    pair, err := h.userSvc.Login(c.Request.Context(), req.Email, req.Password)
    if err != nil {
        renderError(c, err)
        return
    }
    response.Success(c, pair)
}

// SearchUsers 按用户名/邮箱搜索用户
// @Summary 搜索用户
// @Tags 账号
// @Param q query string true "搜索词"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/users/search [get]
func (h *Handler) SearchUsers(c *gin.Context) {
    query := c.Query("q")
    page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
    pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
    users, err := h.userSvc.Search(c.Request.Context(), query, page, pageSize)
    if err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": users})
}
