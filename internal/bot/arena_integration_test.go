//go:build integration

package bot

import (
	"context"
	"fmt"
	"testing"

	"github.com/avelis/millebot/internal/repository/postgres"
	"github.com/avelis/millebot/internal/testutil"
)

// TestCountingVsGreedyDB runs seeded matches of the counting engine against
// the greedy baseline, storing every match and hand in the database.
// Run with: go test -tags integration -run TestCountingVsGreedyDB -v -count=1 -timeout=0
func TestCountingVsGreedyDB(t *testing.T) {
	db := testutil.SetupDB(t)
	testutil.CleanupDB(t, db)
	matchRepo := postgres.NewMatchRepo(db)
	handRepo := postgres.NewHandRepo(db)

	ctx := context.Background()
	numMatches := 20

	wins := 0
	hands := 0
	for i := 0; i < numMatches; i++ {
		SeedBotRng(int64(i + 1))
		cfg := ArenaConfig{
			MatchName:   fmt.Sprintf("bench-counting-vs-greedy-%d", i+1),
			Strategies:  []string{"counting", "greedy"},
			PointsToWin: 5000,
			Seed:        int64(i + 1),
		}

		result, err := RunMatch(ctx, cfg, matchRepo, handRepo, nil)
		if err != nil {
			t.Fatalf("match %d failed: %v", i+1, err)
		}
		if result.MatchID == "" {
			t.Fatalf("match %d not persisted", i+1)
		}

		hands += result.HandsPlayed
		if result.WinnerStrategy == "counting" {
			wins++
		}

		saved, err := handRepo.ListByMatch(ctx, result.MatchID)
		if err != nil {
			t.Fatalf("list hands: %v", err)
		}
		if len(saved) != result.HandsPlayed {
			t.Errorf("match %d: %d hands saved, %d played", i+1, len(saved), result.HandsPlayed)
		}
	}
	ResetBotRng()

	t.Logf("counting won %d/%d matches, %.1f hands per match",
		wins, numMatches, float64(hands)/float64(numMatches))

	// The counting engine should at minimum hold its own against greedy.
	if wins < numMatches/4 {
		t.Errorf("counting won only %d of %d matches against greedy", wins, numMatches)
	}
}
