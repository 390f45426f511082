package bot

import "github.com/avelis/millebot/pkg/mille"

// ForDifficulty returns a player for a difficulty level.
func ForDifficulty(difficulty string) mille.Player {
	switch difficulty {
	case "random":
		return &RandomStrategy{}
	case "greedy":
		return &GreedyStrategy{}
	default:
		return NewEngine()
	}
}

// --- RandomStrategy ---

// RandomStrategy picks a uniformly random legal move. Useful as a baseline
// and for smoke-testing the rule engine.
type RandomStrategy struct {
	player int
}

func (s *RandomStrategy) Name() string          { return "random" }
func (s *RandomStrategy) Seat(playerNumber int) { s.player = playerNumber }

func (s *RandomStrategy) MakeMove(gs *mille.GameState) mille.Move {
	return gs.ValidMoves[botIntn(len(gs.ValidMoves))]
}

func (s *RandomStrategy) CardDrawn(mille.Card)                             {}
func (s *RandomStrategy) PlayerPlayed(int, mille.Move)                     {}
func (s *RandomStrategy) HandEnded(mille.ScoreSummary)                     {}
func (s *RandomStrategy) PlayCoupFourre(mille.Card, *mille.GameState) bool { return true }
func (s *RandomStrategy) GoForExtension(*mille.GameState) bool             { return true }

// --- GreedyStrategy ---

// GreedyStrategy plays the biggest mileage it can, then remedies, then
// attacks, then safeties, and discards its first card otherwise. No counting,
// no forecasting.
type GreedyStrategy struct {
	player int
}

func (s *GreedyStrategy) Name() string          { return "greedy" }
func (s *GreedyStrategy) Seat(playerNumber int) { s.player = playerNumber }

func (s *GreedyStrategy) MakeMove(gs *mille.GameState) mille.Move {
	best := gs.ValidMoves[0]
	bestRank := greedyRank(best)
	for _, m := range gs.ValidMoves[1:] {
		if r := greedyRank(m); r > bestRank {
			best, bestRank = m, r
		}
	}
	return best
}

func greedyRank(m mille.Move) int {
	if m.Type == mille.MoveDiscard {
		return 0
	}
	switch mille.Kind(m.Card) {
	case mille.KindMileage:
		return 100 + mille.Distance(m.Card)
	case mille.KindRemedy:
		return 90
	case mille.KindAttack:
		return 50
	case mille.KindSafety:
		return 10
	}
	return 0
}

func (s *GreedyStrategy) CardDrawn(mille.Card)                             {}
func (s *GreedyStrategy) PlayerPlayed(int, mille.Move)                     {}
func (s *GreedyStrategy) HandEnded(mille.ScoreSummary)                     {}
func (s *GreedyStrategy) PlayCoupFourre(mille.Card, *mille.GameState) bool { return true }
func (s *GreedyStrategy) GoForExtension(*mille.GameState) bool             { return true }
