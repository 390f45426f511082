package bot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/avelis/millebot/internal/model"
	"github.com/avelis/millebot/internal/repository"
	"github.com/avelis/millebot/pkg/mille"
)

// ArenaConfig configures a single bot-vs-bot match.
type ArenaConfig struct {
	MatchName   string
	Strategies  []string // difficulty per seat, 2-4 seats
	PointsToWin int      // 0 = rules default
	Seed        int64    // 0 = random
	DryRun      bool     // skip DB writes
	Debug       bool
}

// ArenaResult describes the outcome of a completed arena match.
type ArenaResult struct {
	MatchID        string `json:"match_id,omitempty"`
	WinnerTeam     int    `json:"winner_team"`
	WinnerStrategy string `json:"winner_strategy"`
	HandsPlayed    int    `json:"hands_played"`
	Totals         []int  `json:"totals"`
}

// RunMatch plays a full match between bot strategies, saving the match and
// each scored hand to Postgres and publishing the result to the leaderboard.
// Pass nil repos (or DryRun) to skip persistence.
func RunMatch(
	ctx context.Context,
	cfg ArenaConfig,
	matchRepo repository.MatchRepository,
	handRepo repository.HandRepository,
	board repository.Leaderboard,
) (*ArenaResult, error) {
	if len(cfg.Strategies) < 2 || len(cfg.Strategies) > 4 {
		return nil, fmt.Errorf("arena: need 2-4 strategies, got %d", len(cfg.Strategies))
	}

	players := make([]mille.Player, len(cfg.Strategies))
	for i, s := range cfg.Strategies {
		players[i] = ForDifficulty(s)
	}

	// match is assigned before game.Run starts, so the closure sees the row.
	var match *model.Match

	gameCfg := mille.Config{
		PointsToWin: cfg.PointsToWin,
		Seed:        cfg.Seed,
		Debug:       cfg.Debug,
	}
	if !cfg.DryRun && board != nil {
		gameCfg.OnHand = func(number int, summary mille.ScoreSummary, totals []int) {
			if match == nil {
				return
			}
			state, err := json.Marshal(liveState{
				MatchID: match.ID,
				Hand:    number,
				Totals:  totals,
				Scores:  summary.Scores,
			})
			if err != nil {
				return
			}
			if err := board.SetLiveState(ctx, match.ID, state); err != nil {
				log.Warn().Err(err).Str("matchId", match.ID).Msg("Live state publish failed")
			}
		}
	}

	game, err := mille.NewGame(players, gameCfg)
	if err != nil {
		return nil, fmt.Errorf("arena: %w", err)
	}

	if !cfg.DryRun && matchRepo != nil {
		seats := make([]model.MatchPlayer, len(players))
		for i, p := range players {
			team := i
			if len(players) == 4 {
				team = i % 2
			}
			seats[i] = model.MatchPlayer{Seat: i, Team: team, Strategy: p.Name()}
		}
		name := cfg.MatchName
		if name == "" {
			name = "botmatch"
		}
		points := cfg.PointsToWin
		if points == 0 {
			points = 5000
		}
		match, err = matchRepo.Create(ctx, name, points, cfg.Seed, seats)
		if err != nil {
			return nil, fmt.Errorf("create arena match: %w", err)
		}
	}

	outcome, err := game.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run match: %w", err)
	}

	result := &ArenaResult{
		WinnerTeam:     outcome.WinnerTeam,
		WinnerStrategy: strategyForTeam(cfg.Strategies, outcome.WinnerTeam),
		HandsPlayed:    outcome.HandsPlayed,
		Totals:         outcome.Totals,
	}
	if match != nil {
		result.MatchID = match.ID
	}

	if !cfg.DryRun && match != nil {
		if handRepo != nil {
			for i, summary := range outcome.Hands {
				scores, err := json.Marshal(summary.Scores)
				if err != nil {
					return nil, fmt.Errorf("marshal hand scores: %w", err)
				}
				hand := &model.Hand{
					MatchID:       match.ID,
					Number:        i + 1,
					CompletedBy:   summary.CompletedBy,
					TurnsElapsed:  summary.TurnsElapsed,
					DeckExhausted: summary.DeckExhausted,
					Scores:        scores,
				}
				if err := handRepo.SaveHand(ctx, hand); err != nil {
					return nil, fmt.Errorf("save hand %d: %w", i+1, err)
				}
			}
		}
		if err := matchRepo.SetFinished(ctx, match.ID, result.WinnerTeam, result.WinnerStrategy); err != nil {
			return nil, fmt.Errorf("set match finished: %w", err)
		}
	}

	if !cfg.DryRun && board != nil {
		if err := publishResult(ctx, board, cfg.Strategies, result); err != nil {
			// Leaderboard is best-effort; the match result is already saved.
			log.Warn().Err(err).Msg("Leaderboard publish failed")
		}
	}

	log.Info().
		Str("matchId", result.MatchID).
		Str("winner", result.WinnerStrategy).
		Int("winnerTeam", result.WinnerTeam).
		Int("hands", result.HandsPlayed).
		Msg("Arena match completed")
	return result, nil
}

func publishResult(ctx context.Context, board repository.Leaderboard, strategies []string, result *ArenaResult) error {
	for i, s := range strategies {
		team := i
		if len(strategies) == 4 {
			team = i % 2
		}
		if err := board.RecordResult(ctx, s, team == result.WinnerTeam); err != nil {
			return err
		}
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return board.PushRecentResult(ctx, payload)
}

// liveState is the spectator snapshot published after every scored hand.
type liveState struct {
	MatchID string            `json:"match_id"`
	Hand    int               `json:"hand"`
	Totals  []int             `json:"totals"`
	Scores  []mille.TeamScore `json:"scores"`
}

// strategyForTeam names the strategy seated on a team; a 4-player partnership
// is labeled by its first seat.
func strategyForTeam(strategies []string, team int) string {
	if team < 0 {
		return ""
	}
	for i, s := range strategies {
		t := i
		if len(strategies) == 4 {
			t = i % 2
		}
		if t == team {
			return s
		}
	}
	return ""
}
