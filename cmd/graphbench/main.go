package main

import (
    "context"
    "fmt"
    "math"
    "os"
    "sort"
    "strconv"
    "time"

    "github.com/google/uuid"

    "github.com/d60-Lab/social-graph/config"
    "github.com/d60-Lab/social-graph/internal/model"
    "github.com/d60-Lab/social-graph/internal/repository"
    "github.com/d60-Lab/social-graph/internal/service"
    "github.com/d60-Lab/social-graph/pkg/database"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

// 好友申请链路压测：N 个用户向同一个热点用户发申请，热点用户逐个接受，
// 再测 pending / friends 两个查询
func main() {
    cfg := must(config.Load())
    db := must(database.InitDB(cfg))
    if err := db.AutoMigrate(&model.User{}, &model.FriendRequest{}, &model.ActivityLog{}); err != nil {
        panic(err)
    }

    userRepo := repository.NewUserRepository(db)
    requestRepo := repository.NewFriendRequestRepository(db)
    activityRepo := repository.NewActivityLogRepository(db)
    friendSvc := service.NewFriendService(userRepo, requestRepo, activityRepo, nil)

    ctx := context.Background()

    N := 10000
    if s := os.Getenv("N"); s != "" {
        if n, err := strconv.Atoi(s); err == nil && n > 0 { N = n }
    }
    CONC := 1
    if s := os.Getenv("CONC"); s != "" {
        if c, err := strconv.Atoi(s); err == nil && c > 0 { CONC = c }
    }
    PAGE := 50
    if s := os.Getenv("PAGE"); s != "" {
        if p, err := strconv.Atoi(s); err == nil && p > 0 { PAGE = p }
    }

    // seed: u0 为热点收件人
    hub := model.User{ID: "u0", Username: "u0", Email: "u0@example.com", Password: "p"}
    _ = db.Where("id = ?", hub.ID).FirstOrCreate(&hub).Error
    users := make([]model.User, N)
    batch := 1000
    for i := 0; i < N; i++ {
        id := uuid.New().String()
        users[i] = model.User{ID: id, Username: "u" + id[:8], Email: id[:8] + "@example.com", Password: "p"}
        if (i+1)%batch == 0 {
            sub := users[i+1-batch : i+1]
            _ = db.Create(&sub).Error
        }
    }
    if N%batch != 0 {
        sub := users[N-N%batch:]
        _ = db.Create(&sub).Error
    }

    // send: CONC 个 worker 并发发申请
    sendRecs := make([]time.Duration, 0, N)
    sendCh := make(chan time.Duration, N)
    requestIDs := make([]string, N)
    workers := CONC
    if workers > N { workers = N }
    feed := make(chan int, N)
    for i := 0; i < N; i++ { feed <- i }
    close(feed)
    errCh := make(chan error, workers)
    t0 := time.Now()
    for w := 0; w < workers; w++ {
        go func() {
            for i := range feed {
                st := time.Now()
                id, _ := friendSvc.SendRequest(ctx, users[i].ID, hub.ID)
                requestIDs[i] = id
                sendCh <- time.Since(st)
            }
            errCh <- nil
        }()
    }
    for w := 0; w < workers; w++ { <-errCh }
    close(sendCh)
    for d := range sendCh { sendRecs = append(sendRecs, d) }
    sendDur := time.Since(t0)

    // pending 查询
    q0 := time.Now()
    pending, _ := friendSvc.ListPending(ctx, hub.ID)
    pendingDur := time.Since(q0)

    // accept 全部申请
    acceptRecs := make([]time.Duration, 0, N)
    t1 := time.Now()
    for _, id := range requestIDs {
        if id == "" { continue }
        st := time.Now()
        _ = friendSvc.AcceptRequest(ctx, hub.ID, id)
        acceptRecs = append(acceptRecs, time.Since(st))
    }
    acceptDur := time.Since(t1)

    // friends 查询（发送方视角）
    q1 := time.Now()
    friends, _ := friendSvc.ListFriends(ctx, users[0].ID, 1, PAGE)
    friendsDur := time.Since(q1)

    pct := func(vs []time.Duration, p float64) time.Duration {
        if len(vs) == 0 { return 0 }
        xs := append([]time.Duration(nil), vs...)
        sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
        k := int(math.Ceil(p*float64(len(xs)))) - 1
        if k < 0 { k = 0 }
        if k >= len(xs) { k = len(xs)-1 }
        return xs[k]
    }

    fmt.Printf("N=%d, CONC=%d, PAGE=%d\n", N, CONC, PAGE)
    fmt.Printf("Send latency total: %v, per op: %v, p50: %v, p95: %v, p99: %v\n",
        sendDur, sendDur/time.Duration(N), pct(sendRecs, 0.50), pct(sendRecs, 0.95), pct(sendRecs, 0.99))
    if len(acceptRecs) > 0 {
        fmt.Printf("Accept latency total: %v, per op: %v, p50: %v, p95: %v, p99: %v\n",
            acceptDur, acceptDur/time.Duration(len(acceptRecs)), pct(acceptRecs, 0.50), pct(acceptRecs, 0.95), pct(acceptRecs, 0.99))
    }
    fmt.Printf("Query pending: %d rows in %v\n", len(pending), pendingDur)
    fmt.Printf("Query friends(%d): %d rows in %v\n", PAGE, len(friends), friendsDur)
}
