package mille

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Config controls a match.
type Config struct {
	PointsToWin int   // match ends when a team reaches this total (default 5000)
	BaseTarget  int   // initial trip distance for 2-3 players (default 700)
	ExtTarget   int   // trip distance after an extension (default 1000)
	HandLimit   int   // safety cap on hands per match (default 50)
	Seed        int64 // 0 = time-based
	Debug       bool

	// OnHand, when set, is called after each scored hand with the 1-based
	// hand number, its summary, and the running totals by team number.
	OnHand func(number int, summary ScoreSummary, totals []int)
}

const handSize = 6

func (c *Config) fillDefaults() {
	if c.PointsToWin == 0 {
		c.PointsToWin = 5000
	}
	if c.BaseTarget == 0 {
		c.BaseTarget = 700
	}
	if c.ExtTarget == 0 {
		c.ExtTarget = 1000
	}
	if c.HandLimit == 0 {
		c.HandLimit = 50
	}
}

// MatchResult is the outcome of a full match.
type MatchResult struct {
	WinnerTeam  int
	HandsPlayed int
	Totals      []int // final score by team number
	Hands       []ScoreSummary
}

// Game runs Mille Bornes hands between seated players. Two or three players
// race solo; four players pair into two teams.
type Game struct {
	cfg      Config
	players  []Player
	teams    []*Team
	teamOf   []int // player number -> team number
	hands    [][]Card
	deck     []Card
	discards []Card
	target   int
	extended bool
	rng      *rand.Rand
}

// NewGame seats players into teams and prepares a match.
func NewGame(players []Player, cfg Config) (*Game, error) {
	cfg.fillDefaults()
	n := len(players)
	if n < 2 || n > 4 {
		return nil, fmt.Errorf("mille: need 2-4 players, got %d", n)
	}

	g := &Game{
		cfg:     cfg,
		players: players,
		teamOf:  make([]int, n),
		hands:   make([][]Card, n),
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.rng = rand.New(rand.NewSource(seed))

	// 2-3 players: one team each. 4 players: partners sit across (0,2) and (1,3).
	teamCount := n
	if n == 4 {
		teamCount = 2
	}
	for t := 0; t < teamCount; t++ {
		g.teams = append(g.teams, &Team{Number: t})
	}
	for p := 0; p < n; p++ {
		t := p
		if n == 4 {
			t = p % 2
		}
		g.teamOf[p] = t
		g.teams[t].PlayerNumbers = append(g.teams[t].PlayerNumbers, p)
		players[p].Seat(p)
	}
	return g, nil
}

// Run plays hands until a team reaches the points-to-win total or the hand
// limit is hit.
func (g *Game) Run(ctx context.Context) (*MatchResult, error) {
	result := &MatchResult{WinnerTeam: -1}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		summary, err := g.PlayHand()
		if err != nil {
			return nil, err
		}
		result.HandsPlayed++
		result.Hands = append(result.Hands, *summary)

		if g.cfg.OnHand != nil {
			totals := make([]int, len(g.teams))
			for _, t := range g.teams {
				totals[t.Number] = t.TotalScore
			}
			g.cfg.OnHand(result.HandsPlayed, *summary, totals)
		}

		best, bestScore := -1, -1
		for _, t := range g.teams {
			if t.TotalScore > bestScore {
				best, bestScore = t.Number, t.TotalScore
			}
		}
		if bestScore >= g.cfg.PointsToWin || result.HandsPlayed >= g.cfg.HandLimit {
			result.WinnerTeam = best
			result.Totals = make([]int, len(g.teams))
			for _, t := range g.teams {
				result.Totals[t.Number] = t.TotalScore
			}
			return result, nil
		}
	}
}

// PlayHand deals and plays a single hand to completion, scores it, and
// notifies every player.
func (g *Game) PlayHand() (*ScoreSummary, error) {
	g.resetHand()

	completedBy := -1
	deckExhaustedBefore := false
	turns := 0

	for completedBy == -1 {
		turns++
		if turns > 500 {
			break
		}
		played := false
		for p := range g.players {
			if completedBy != -1 {
				break
			}
			if len(g.deck) == 0 && len(g.hands[p]) == 0 {
				continue
			}
			played = true

			again := true
			for again && completedBy == -1 {
				g.drawFor(p)
				moves := g.validMoves(p)
				if len(moves) == 0 {
					break
				}
				move := g.players[p].MakeMove(g.snapshot(p, moves))
				if !containsMove(moves, move) {
					return nil, fmt.Errorf("mille: player %d (%s) returned illegal move %s", p, g.players[p].Name(), move)
				}
				var done bool
				// Playing a safety earns another turn.
				again, done = g.apply(p, move)
				if done {
					completedBy = g.teamOf[p]
					if len(g.deck) == 0 {
						deckExhaustedBefore = true
					}
				}
			}
		}
		if !played {
			break
		}
	}

	summary := g.score(completedBy, turns, deckExhaustedBefore)
	for _, pl := range g.players {
		pl.HandEnded(*summary)
	}
	return summary, nil
}

func (g *Game) resetHand() {
	for _, t := range g.teams {
		t.Mileage = 0
		t.Moving = false
		t.NeedRemedy = CardNone
		t.SpeedLimit = false
		t.TwoHundredsPlayed = 0
		t.Safeties = nil
		t.CoupFourres = 0
		t.mileagePlays = 0
	}

	g.deck = g.deck[:0]
	for c, qty := range Composition() {
		for i := 0; i < qty; i++ {
			g.deck = append(g.deck, c)
		}
	}
	g.rng.Shuffle(len(g.deck), func(i, j int) { g.deck[i], g.deck[j] = g.deck[j], g.deck[i] })
	g.discards = g.discards[:0]

	for p := range g.players {
		g.hands[p] = g.hands[p][:0]
	}
	for i := 0; i < handSize; i++ {
		for p := range g.players {
			g.drawFor(p)
		}
	}

	// Solo races start short and may extend; partnership games go the full way.
	if len(g.players) <= 3 {
		g.target = g.cfg.BaseTarget
	} else {
		g.target = g.cfg.ExtTarget
	}
	g.extended = false
}

// drawFor moves the top deck card into a player's hand and reports it to the
// drawer only; opponents cannot see draws.
func (g *Game) drawFor(p int) {
	if len(g.deck) == 0 {
		return
	}
	c := g.deck[len(g.deck)-1]
	g.deck = g.deck[:len(g.deck)-1]
	g.hands[p] = append(g.hands[p], c)
	g.players[p].CardDrawn(c)
}

// validMoves enumerates every legal action for a player. Discards are
// generated per hand position so duplicates stay distinguishable; plays are
// generated per distinct card and target.
func (g *Game) validMoves(p int) []Move {
	hand := g.hands[p]
	team := g.teams[g.teamOf[p]]
	var moves []Move

	seen := map[Card]bool{}
	for _, c := range hand {
		if seen[c] {
			continue
		}
		seen[c] = true

		switch Kind(c) {
		case KindMileage:
			if g.mileagePlayable(team, c) {
				moves = append(moves, Move{Type: MovePlay, Card: c, Target: NoTarget})
			}
		case KindRemedy:
			if g.remedyPlayable(team, c) {
				moves = append(moves, Move{Type: MovePlay, Card: c, Target: NoTarget})
			}
		case KindSafety:
			moves = append(moves, Move{Type: MovePlay, Card: c, Target: NoTarget})
		case KindAttack:
			for _, tt := range g.teams {
				if tt.Number == team.Number {
					continue
				}
				if g.attackPlayable(tt, c) {
					moves = append(moves, Move{Type: MovePlay, Card: c, Target: tt.Number})
				}
			}
		}
	}

	for _, c := range hand {
		moves = append(moves, Move{Type: MoveDiscard, Card: c, Target: NoTarget})
	}
	return moves
}

func (g *Game) mileagePlayable(t *Team, c Card) bool {
	d := Distance(c)
	if !t.Moving || t.NeedRemedy != CardNone {
		return false
	}
	if t.SpeedLimit && d > 50 {
		return false
	}
	if c == Mile200 && t.TwoHundredsPlayed >= 2 {
		return false
	}
	return d <= g.target-t.Mileage
}

func (g *Game) remedyPlayable(t *Team, c Card) bool {
	switch c {
	case RemedyGo:
		return !t.Moving && (t.NeedRemedy == CardNone || t.NeedRemedy == RemedyGo)
	case RemedyEndOfLimit:
		return t.SpeedLimit
	default:
		return t.NeedRemedy == c
	}
}

func (g *Game) attackPlayable(target *Team, c Card) bool {
	if target.HasSafety(AttackToSafety(c)) {
		return false
	}
	if c == AttackSpeedLimit {
		return !target.SpeedLimit
	}
	// Other hazards stick to a team that is rolling, or one already stopped
	// but otherwise cured (stacking a second prerequisite).
	return (target.Moving && target.NeedRemedy == CardNone) || target.NeedRemedy == RemedyGo
}

// apply executes a validated move. It returns (again, done): again grants the
// mover another turn (safety play), done means the trip was completed.
func (g *Game) apply(p int, m Move) (again, done bool) {
	g.removeFromHand(p, m.Card)
	for _, pl := range g.players {
		pl.PlayerPlayed(p, m)
	}

	if m.Type == MoveDiscard {
		g.discards = append(g.discards, m.Card)
		return false, false
	}

	team := g.teams[g.teamOf[p]]
	switch Kind(m.Card) {
	case KindMileage:
		d := Distance(m.Card)
		team.Mileage += d
		team.mileagePlays++
		if m.Card == Mile200 {
			team.TwoHundredsPlayed++
		}
		if team.Mileage == g.target {
			if !g.extended && g.target == g.cfg.BaseTarget && g.players[p].GoForExtension(g.snapshot(p, nil)) {
				g.extended = true
				g.target = g.cfg.ExtTarget
				return false, false
			}
			return false, true
		}
	case KindRemedy:
		g.applyRemedy(team, m.Card)
	case KindSafety:
		g.applySafety(team, m.Card)
		return true, false
	case KindAttack:
		target := g.teams[m.Target]
		g.discards = append(g.discards, m.Card)
		if !g.tryCoupFourre(target, m.Card) {
			g.applyAttack(target, m.Card)
		}
	}
	return false, false
}

func (g *Game) applyRemedy(t *Team, c Card) {
	switch c {
	case RemedyGo:
		t.Moving = true
		if t.NeedRemedy == RemedyGo {
			t.NeedRemedy = CardNone
		}
	case RemedyEndOfLimit:
		t.SpeedLimit = false
	default:
		// Cured, but the team still needs Go before rolling again.
		if t.NeedRemedy == c {
			t.NeedRemedy = RemedyGo
			t.Moving = false
		}
	}
	g.discards = append(g.discards, c)
}

func (g *Game) applySafety(t *Team, c Card) {
	t.Safeties = append(t.Safeties, c)
	if t.NeedRemedy != CardNone && RemedyToSafety(t.NeedRemedy) == c {
		t.NeedRemedy = CardNone
	}
	if c == SafetyRightOfWay {
		t.SpeedLimit = false
		t.Moving = true
		if t.NeedRemedy == RemedyGo {
			t.NeedRemedy = CardNone
		}
	}
}

func (g *Game) applyAttack(t *Team, c Card) {
	switch c {
	case AttackSpeedLimit:
		t.SpeedLimit = true
	case AttackStop:
		t.Moving = false
		t.NeedRemedy = RemedyGo
	default:
		t.Moving = false
		t.NeedRemedy = AttackToRemedy(c)
	}
}

// tryCoupFourre offers the targeted team the chance to flash the matching
// safety from hand. The attack never lands, the safety scores its bonus, and
// the defender draws a replacement card.
func (g *Game) tryCoupFourre(target *Team, attack Card) bool {
	safety := AttackToSafety(attack)
	for _, q := range target.PlayerNumbers {
		if !handContains(g.hands[q], safety) {
			continue
		}
		if !g.players[q].PlayCoupFourre(attack, g.snapshot(q, nil)) {
			continue
		}
		g.removeFromHand(q, safety)
		cf := Move{Type: MovePlay, Card: safety, Target: NoTarget}
		for _, pl := range g.players {
			pl.PlayerPlayed(q, cf)
		}
		g.applySafety(target, safety)
		target.CoupFourres++
		g.drawFor(q)
		return true
	}
	return false
}

func (g *Game) score(completedBy, turns int, deckExhausted bool) *ScoreSummary {
	summary := &ScoreSummary{
		CompletedBy:   completedBy,
		TurnsElapsed:  turns,
		DeckExhausted: deckExhausted,
	}

	for _, t := range g.teams {
		s := TeamScore{TeamNumber: t.Number, Distance: t.Mileage}
		s.Safeties = 100 * len(t.Safeties)
		if len(t.Safeties) == 4 {
			s.Safeties += 300
		}
		s.CoupFourres = 300 * t.CoupFourres

		if t.Number == completedBy {
			s.TripComplete = 400
			if deckExhausted {
				s.DelayedAction = 300
			}
			if t.TwoHundredsPlayed == 0 {
				s.SafeTrip = 300
			}
			if g.extended {
				s.Extension = 200
			}
			shutout := true
			for _, other := range g.teams {
				if other.Number != t.Number && other.mileagePlays > 0 {
					shutout = false
				}
			}
			if shutout {
				s.Shutout = 500
			}
		}

		s.Total = s.Distance + s.Safeties + s.CoupFourres + s.TripComplete +
			s.DelayedAction + s.SafeTrip + s.Extension + s.Shutout
		t.TotalScore += s.Total
		summary.Scores = append(summary.Scores, s)
	}
	return summary
}

// snapshot builds the read-only view for one player's decision.
func (g *Game) snapshot(p int, moves []Move) *GameState {
	us := g.teams[g.teamOf[p]].clone()
	var opponents []*Team
	for _, t := range g.teams {
		if t.Number != us.Number {
			opponents = append(opponents, t.clone())
		}
	}
	return &GameState{
		Us:          us,
		Opponents:   opponents,
		ValidMoves:  moves,
		Hand:        append([]Card(nil), g.hands[p]...),
		Target:      g.target,
		CardsLeft:   len(g.deck),
		PointsToWin: g.cfg.PointsToWin,
		Debug:       g.cfg.Debug,
	}
}

func (g *Game) removeFromHand(p int, c Card) {
	hand := g.hands[p]
	for i, hc := range hand {
		if hc == c {
			g.hands[p] = append(hand[:i], hand[i+1:]...)
			return
		}
	}
}

func handContains(hand []Card, c Card) bool {
	for _, hc := range hand {
		if hc == c {
			return true
		}
	}
	return false
}

func containsMove(moves []Move, m Move) bool {
	for _, mv := range moves {
		if mv == m {
			return true
		}
	}
	return false
}
