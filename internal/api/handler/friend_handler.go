package handler

import (
    "strconv"

    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/social-graph/internal/api/middleware"
    "github.com/d60-Lab/social-graph/pkg/response"
)

type sendFriendRequest struct {
    ToUser string `json:"to_user" binding:"required"`
}

// SendFriendRequest 发送好友申请
// @Summary 发送好友申请
// @Tags 好友
// @Accept json
// @Produce json
// @Param request body sendFriendRequest true "目标用户"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/friend-requests [post]
func (h *Handler) SendFriendRequest(c *gin.Context) {
    var req sendFriendRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    actor := middleware.CurrentUserID(c)
    id, err := h.friendSvc.SendRequest(c.Request.Context(), actor, req.ToUser)
    if err != nil {
        renderError(c, err)
        return
    }
    response.Success(c, gin.H{"id": id, "message": "Friend request sent"})
}

// AcceptFriendRequest 接受好友申请
// @Summary 接受好友申请
// @Tags 好友
// @Param id path string true "申请ID"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/friend-requests/{id}/accept [post]
func (h *Handler) AcceptFriendRequest(c *gin.Context) {
    actor := middleware.CurrentUserID(c)
    if err := h.friendSvc.AcceptRequest(c.Request.Context(), actor, c.Param("id")); err != nil {
        renderError(c, err)
        return
    }
    response.Success(c, gin.H{"message": "Friend request accepted"})
}

// RejectFriendRequest 拒绝好友申请
// @Summary 拒绝好友申请
// @Tags 好友
// @Param id path string true "申请ID"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/friend-requests/{id}/reject [post]
func (h *Handler) RejectFriendRequest(c *gin.Context) {
    actor := middleware.CurrentUserID(c)
    if err := h.friendSvc.RejectRequest(c.Request.Context(), actor, c.Param("id")); err != nil {
        renderError(c, err)
        return
    }
    response.Success(c, gin.H{"message": "Friend request rejected"})
}

// ListPendingRequests 查询待处理申请（按创建时间倒序）
// @Summary 待处理好友申请
// @Tags 好友
// @Security BearerAuth
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/friend-requests/pending [get]
func (h *Handler) ListPendingRequests(c *gin.Context) {
    actor := middleware.CurrentUserID(c)
    list, err := h.friendSvc.ListPending(c.Request.Context(), actor)
    if err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, gin.H{"list": list})
}

// ListFriends 查询好友列表（actor 发出且已被接受的申请）
// @Summary 好友列表
// @Tags 好友
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Security BearerAuth
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/friends [get]
func (h *Handler) ListFriends(c *gin.Context) {
    actor := middleware.CurrentUserID(c)
    page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
    pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
    list, err := h.friendSvc.ListFriends(c.Request.Context(), actor, page, pageSize)
    if err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}
