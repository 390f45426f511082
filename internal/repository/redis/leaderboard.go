package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avelis/millebot/internal/repository"
)

// Key patterns for leaderboard and live state.
const (
	winsKey   = "millebot:leaderboard:wins"
	gamesKey  = "millebot:leaderboard:games"
	recentKey = "millebot:results:recent"
	recentCap = 100
	liveTTL   = 2 * time.Hour
)

func liveKey(matchID string) string { return "millebot:match:" + matchID + ":state" }

// RecordResult bumps a strategy's game count, and its win count if it won.
func (c *Client) RecordResult(ctx context.Context, strategy string, won bool) error {
	if err := c.rdb.ZIncrBy(ctx, gamesKey, 1, strategy).Err(); err != nil {
		return fmt.Errorf("record game: %w", err)
	}
	if won {
		if err := c.rdb.ZIncrBy(ctx, winsKey, 1, strategy).Err(); err != nil {
			return fmt.Errorf("record win: %w", err)
		}
	}
	return nil
}

// TopStrategies returns strategies ordered by wins.
func (c *Client) TopStrategies(ctx context.Context, limit int) ([]repository.StrategyStanding, error) {
	entries, err := c.rdb.ZRevRangeWithScores(ctx, winsKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("top strategies: %w", err)
	}

	standings := make([]repository.StrategyStanding, 0, len(entries))
	for _, e := range entries {
		name, _ := e.Member.(string)
		games, err := c.rdb.ZScore(ctx, gamesKey, name).Result()
		if err != nil && err != redis.Nil {
			return nil, fmt.Errorf("strategy games: %w", err)
		}
		standings = append(standings, repository.StrategyStanding{
			Strategy: name,
			Wins:     int64(e.Score),
			Games:    int64(games),
		})
	}
	return standings, nil
}

// PushRecentResult prepends a result to the capped recent-results feed.
func (c *Client) PushRecentResult(ctx context.Context, result json.RawMessage) error {
	pipe := c.rdb.TxPipeline()
	pipe.LPush(ctx, recentKey, []byte(result))
	pipe.LTrim(ctx, recentKey, 0, recentCap-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push recent result: %w", err)
	}
	return nil
}

// RecentResults returns the newest results, most recent first.
func (c *Client) RecentResults(ctx context.Context, limit int) ([]json.RawMessage, error) {
	vals, err := c.rdb.LRange(ctx, recentKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("recent results: %w", err)
	}
	out := make([]json.RawMessage, 0, len(vals))
	for _, v := range vals {
		out = append(out, json.RawMessage(v))
	}
	return out, nil
}

// SetLiveState stores a running match's latest state for spectators.
func (c *Client) SetLiveState(ctx context.Context, matchID string, state json.RawMessage) error {
	return c.rdb.Set(ctx, liveKey(matchID), []byte(state), liveTTL).Err()
}

// GetLiveState retrieves a running match's latest state, nil if absent.
func (c *Client) GetLiveState(ctx context.Context, matchID string) (json.RawMessage, error) {
	data, err := c.rdb.Get(ctx, liveKey(matchID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get live state: %w", err)
	}
	return json.RawMessage(data), nil
}
