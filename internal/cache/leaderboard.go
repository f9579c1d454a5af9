package cache

import (
	"context"
	"fmt"
	"time"
)

// LeaderboardEntry 排行榜缓存条目
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      uint   `json:"user_id"`
	DisplayName string `json:"display_name"`
	Total       string `json:"total"`
	Orders      int64  `json:"orders"`
	Derived     bool   `json:"derived"`
}

func leaderboardKey(window string, limit int) string {
	return fmt.Sprintf("leaderboard:%s:%d", window, limit)
}

// GetLeaderboard 读取排行榜缓存
func GetLeaderboard(ctx context.Context, window string, limit int) ([]LeaderboardEntry, bool, error) {
	var entries []LeaderboardEntry
	hit, err := GetJSON(ctx, leaderboardKey(window, limit), &entries)
	if err != nil || !hit {
		return nil, false, err
	}
	return entries, true, nil
}

// SetLeaderboard 写入排行榜缓存
func SetLeaderboard(ctx context.Context, window string, limit int, entries []LeaderboardEntry, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return SetJSON(ctx, leaderboardKey(window, limit), entries, ttl)
}

// InvalidateLeaderboard 失效指定窗口的排行榜缓存
func InvalidateLeaderboard(ctx context.Context, window string, limit int) error {
	return Del(ctx, leaderboardKey(window, limit))
}
