package service

import (
    "context"
    "errors"
    "fmt"

    "go.uber.org/zap"
    "gorm.io/gorm"

    "github.com/d60-Lab/social-graph/internal/cache"
    "github.com/d60-Lab/social-graph/internal/model"
    "github.com/d60-Lab/social-graph/internal/repository"
    "github.com/d60-Lab/social-graph/pkg/logger"
)

// FriendService 好友申请状态机：发送 / 接受 / 拒绝 / 列表
type FriendService interface {
    SendRequest(ctx context.Context, actorID, targetID string) (string, error)
    AcceptRequest(ctx context.Context, actorID, requestID string) error
    RejectRequest(ctx context.Context, actorID, requestID string) error
    ListFriends(ctx context.Context, actorID string, page, pageSize int) ([]cache.FriendSnapshot, error)
    ListPending(ctx context.Context, actorID string) ([]*model.FriendRequest, error)
}

type friendService struct {
    userRepo     repository.UserRepository
    requestRepo  repository.FriendRequestRepository
    activityRepo repository.ActivityLogRepository
    friendsCache *cache.FriendsCache // 可为 nil
}

func NewFriendService(
    userRepo repository.UserRepository,
    requestRepo repository.FriendRequestRepository,
    activityRepo repository.ActivityLogRepository,
    friendsCache *cache.FriendsCache,
) FriendService {
    return &friendService{
        userRepo:     userRepo,
        requestRepo:  requestRepo,
        activityRepo: activityRepo,
        friendsCache: friendsCache,
    }
}

// SendRequest 创建 pending 申请并记录行为流水。
// 注意：自申请、同一对用户的重复 pending 申请目前均不拦截。
func (s *friendService) SendRequest(ctx context.Context, actorID, targetID string) (string, error) {
    if actorID == "" {
        return "", ErrUnauthenticated
    }
    target, err := s.userRepo.FindByID(ctx, targetID)
    if err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return "", ErrUserNotFound
        }
        return "", fmt.Errorf("resolve target: %w", err)
    }

    fr := &model.FriendRequest{
        FromUserID: actorID,
        ToUserID:   targetID,
        Status:     model.FriendRequestPending,
    }
    if err := s.requestRepo.Create(ctx, fr); err != nil {
        return "", fmt.Errorf("create friend request: %w", err)
    }

    s.logActivity(ctx, actorID, fmt.Sprintf("Sent friend request to %s", target.Username))
    return fr.ID, nil
}

// AcceptRequest 将申请置为 accepted。按 (id, to_user) 复合条件更新，
// 只有收件人能命中；未命中一律按不存在处理。
// 已处理过的申请允许再次 accept（不做 pending 状态校验）。
func (s *friendService) AcceptRequest(ctx context.Context, actorID, requestID string) error {
    fr, err := s.requestRepo.UpdateStatusForAddressee(ctx, requestID, actorID, model.FriendRequestAccepted)
    if err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return ErrRequestNotFound
        }
        return fmt.Errorf("accept friend request: %w", err)
    }

    s.logActivity(ctx, fr.ToUserID, fmt.Sprintf("Accepted friend request from %s", s.displayName(ctx, fr.FromUserID)))
    if s.friendsCache != nil {
        // 接受后 from_user 的好友列表发生变化
        s.friendsCache.Invalidate(ctx, fr.FromUserID)
    }
    return nil
}

// RejectRequest 将申请置为 rejected。拒绝不产生行为流水。
func (s *friendService) RejectRequest(ctx context.Context, actorID, requestID string) error {
    fr, err := s.requestRepo.UpdateStatusForAddressee(ctx, requestID, actorID, model.FriendRequestRejected)
    if err != nil {
        if errors.Is(err, gorm.ErrRecordNotFound) {
            return ErrRequestNotFound
        }
        return fmt.Errorf("reject friend request: %w", err)
    }
    if s.friendsCache != nil {
        // 已 accepted 的申请允许改判 rejected，此时 from_user 的好友列表同样变化
        s.friendsCache.Invalidate(ctx, fr.FromUserID)
    }
    return nil
}

// ListFriends 返回 actor 发出且已被接受的申请对应的用户（单向）
func (s *friendService) ListFriends(ctx context.Context, actorID string, page, pageSize int) ([]cache.FriendSnapshot, error) {
    if page < 1 {
        page = 1
    }
    if pageSize < 1 {
        pageSize = 10
    }
    if s.friendsCache != nil {
        if rows, ok := s.friendsCache.GetPage(ctx, actorID, page, pageSize); ok {
            return rows, nil
        }
    }

    offset := (page - 1) * pageSize
    users, err := s.requestRepo.ListAcceptedFrom(ctx, actorID, offset, pageSize)
    if err != nil {
        return nil, err
    }
    rows := make([]cache.FriendSnapshot, len(users))
    for i, u := range users {
        rows[i] = cache.FriendSnapshot{ID: u.ID, Username: u.Username, Email: u.Email}
    }
    if s.friendsCache != nil {
        s.friendsCache.SetPage(ctx, actorID, page, pageSize, rows)
    }
    return rows, nil
}

// ListPending 返回发给 actor 的 pending 申请，按创建时间倒序
func (s *friendService) ListPending(ctx context.Context, actorID string) ([]*model.FriendRequest, error) {
    return s.requestRepo.ListPendingForAddressee(ctx, actorID)
}

// logActivity 在事务提交后同步追加流水；失败只告警，不影响主流程
func (s *friendService) logActivity(ctx context.Context, userID, action string) {
    if err := s.activityRepo.Append(ctx, userID, action); err != nil {
        logger.Warn("append activity log failed",
            zap.String("user", userID),
            zap.String("action", action),
            zap.Error(err))
    }
}

// displayName 优先用户名，查不到时退回 id
func (s *friendService) displayName(ctx context.Context, userID string) string {
    u, err := s.userRepo.FindByID(ctx, userID)
    if err != nil {
        return userID
    }
    return u.Username
}
