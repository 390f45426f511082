package mille

import (
	"context"
	"testing"
)

// testPlayer plays the first legal play in the move list, discarding only
// when nothing is playable. choose overrides the default when set.
type testPlayer struct {
	seat   int
	choose func(gs *GameState) Move
	cf     bool
	extend bool
}

func (p *testPlayer) Name() string           { return "test" }
func (p *testPlayer) Seat(n int)             { p.seat = n }
func (p *testPlayer) CardDrawn(Card)         {}
func (p *testPlayer) PlayerPlayed(int, Move) {}
func (p *testPlayer) HandEnded(ScoreSummary) {}

func (p *testPlayer) MakeMove(gs *GameState) Move {
	if p.choose != nil {
		return p.choose(gs)
	}
	for _, m := range gs.ValidMoves {
		if m.Type == MovePlay {
			return m
		}
	}
	return gs.ValidMoves[0]
}

func (p *testPlayer) PlayCoupFourre(Card, *GameState) bool { return p.cf }
func (p *testPlayer) GoForExtension(*GameState) bool       { return p.extend }

func newTestPlayers(n int) []Player {
	players := make([]Player, n)
	for i := range players {
		players[i] = &testPlayer{}
	}
	return players
}

func TestNewGameTeams(t *testing.T) {
	g, err := NewGame(newTestPlayers(2), Config{Seed: 1})
	if err != nil {
		t.Fatalf("NewGame(2): %v", err)
	}
	if len(g.teams) != 2 {
		t.Errorf("2 players: expected 2 teams, got %d", len(g.teams))
	}

	g, err = NewGame(newTestPlayers(4), Config{Seed: 1})
	if err != nil {
		t.Fatalf("NewGame(4): %v", err)
	}
	if len(g.teams) != 2 {
		t.Fatalf("4 players: expected 2 teams, got %d", len(g.teams))
	}
	// Partners sit across from each other.
	want := map[int][]int{0: {0, 2}, 1: {1, 3}}
	for tn, players := range want {
		got := g.teams[tn].PlayerNumbers
		if len(got) != 2 || got[0] != players[0] || got[1] != players[1] {
			t.Errorf("team %d: players %v, want %v", tn, got, players)
		}
	}

	if _, err := NewGame(newTestPlayers(1), Config{}); err == nil {
		t.Error("expected error for 1 player")
	}
	if _, err := NewGame(newTestPlayers(5), Config{}); err == nil {
		t.Error("expected error for 5 players")
	}
}

func TestSeatNumbersAssigned(t *testing.T) {
	players := newTestPlayers(3)
	if _, err := NewGame(players, Config{Seed: 1}); err != nil {
		t.Fatal(err)
	}
	for i, p := range players {
		if p.(*testPlayer).seat != i {
			t.Errorf("player %d seated as %d", i, p.(*testPlayer).seat)
		}
	}
}

func TestApplyAttack(t *testing.T) {
	g := &Game{}
	team := &Team{Moving: true}

	g.applyAttack(team, AttackSpeedLimit)
	if !team.SpeedLimit || !team.Moving {
		t.Error("speed limit should not stop the car")
	}

	g.applyAttack(team, AttackStop)
	if team.Moving || team.NeedRemedy != RemedyGo {
		t.Errorf("after Stop: moving=%v need=%s", team.Moving, team.NeedRemedy)
	}

	team = &Team{Moving: true}
	g.applyAttack(team, AttackAccident)
	if team.Moving || team.NeedRemedy != RemedyRepairs {
		t.Errorf("after Accident: moving=%v need=%s", team.Moving, team.NeedRemedy)
	}
}

func TestApplyRemedy(t *testing.T) {
	g := &Game{}

	// Curing a hazard still leaves the team needing Go.
	team := &Team{NeedRemedy: RemedyRepairs}
	g.applyRemedy(team, RemedyRepairs)
	if team.NeedRemedy != RemedyGo {
		t.Errorf("after Repairs: need=%s, want Go", team.NeedRemedy)
	}
	g.applyRemedy(team, RemedyGo)
	if !team.Moving || team.NeedRemedy != CardNone {
		t.Errorf("after Go: moving=%v need=%s", team.Moving, team.NeedRemedy)
	}

	team = &Team{SpeedLimit: true, Moving: true}
	g.applyRemedy(team, RemedyEndOfLimit)
	if team.SpeedLimit {
		t.Error("End of Limit should lift the speed limit")
	}
}

func TestApplySafetyRightOfWay(t *testing.T) {
	g := &Game{}
	team := &Team{NeedRemedy: RemedyGo, SpeedLimit: true}
	g.applySafety(team, SafetyRightOfWay)
	if !team.Moving || team.SpeedLimit || team.NeedRemedy != CardNone {
		t.Errorf("Right of Way: moving=%v limit=%v need=%s", team.Moving, team.SpeedLimit, team.NeedRemedy)
	}
	if !team.HasSafety(SafetyRightOfWay) {
		t.Error("safety not recorded on tableau")
	}
}

func TestApplySafetyCuresMatchingHazard(t *testing.T) {
	g := &Game{}
	team := &Team{NeedRemedy: RemedyRepairs}
	g.applySafety(team, SafetyDrivingAce)
	if team.NeedRemedy != CardNone {
		t.Errorf("Driving Ace should cure the accident, need=%s", team.NeedRemedy)
	}
}

func TestMileagePlayable(t *testing.T) {
	g := &Game{target: 700}
	team := &Team{Moving: true}

	if !g.mileagePlayable(team, Mile200) {
		t.Error("200km should be playable on a rolling team")
	}

	team.SpeedLimit = true
	if g.mileagePlayable(team, Mile75) {
		t.Error("75km should be blocked under a speed limit")
	}
	if !g.mileagePlayable(team, Mile50) {
		t.Error("50km should be fine under a speed limit")
	}
	team.SpeedLimit = false

	team.TwoHundredsPlayed = 2
	if g.mileagePlayable(team, Mile200) {
		t.Error("third 200km should be rejected")
	}

	team.Mileage = 650
	if g.mileagePlayable(team, Mile100) {
		t.Error("overshooting the trip target should be rejected")
	}
	if !g.mileagePlayable(team, Mile50) {
		t.Error("exact finish should be allowed")
	}

	team.Moving = false
	if g.mileagePlayable(team, Mile25) {
		t.Error("a stopped team cannot play mileage")
	}
}

func TestAttackPlayable(t *testing.T) {
	g := &Game{}
	target := &Team{Moving: true}

	if !g.attackPlayable(target, AttackStop) {
		t.Error("Stop should land on a rolling team")
	}

	target.Safeties = []Card{SafetyRightOfWay}
	if g.attackPlayable(target, AttackStop) {
		t.Error("Right of Way should block Stop")
	}
	if g.attackPlayable(target, AttackSpeedLimit) {
		t.Error("Right of Way should block Speed Limit")
	}
	if !g.attackPlayable(target, AttackAccident) {
		t.Error("Right of Way should not block Accident")
	}

	// Already hobbled by a hazard: only a team needing nothing but Go can be
	// hit again.
	target = &Team{NeedRemedy: RemedyRepairs}
	if g.attackPlayable(target, AttackOutOfGas) {
		t.Error("stacking on an accident victim should be illegal")
	}
	target = &Team{NeedRemedy: RemedyGo}
	if !g.attackPlayable(target, AttackOutOfGas) {
		t.Error("attacking a stopped-but-cured team should be legal")
	}
}

func TestCoupFourre(t *testing.T) {
	players := newTestPlayers(2)
	players[1].(*testPlayer).cf = true
	g, err := NewGame(players, Config{Seed: 7})
	if err != nil {
		t.Fatal(err)
	}
	g.resetHand()

	g.teams[1].Moving = true
	g.hands[0] = []Card{AttackStop}
	g.hands[1] = []Card{SafetyRightOfWay, Mile25}

	g.apply(0, Move{Type: MovePlay, Card: AttackStop, Target: 1})

	team := g.teams[1]
	if team.CoupFourres != 1 {
		t.Fatalf("expected 1 coup fourré, got %d", team.CoupFourres)
	}
	if !team.Moving || team.NeedRemedy != CardNone {
		t.Error("the attack should never land when countered")
	}
	if !team.HasSafety(SafetyRightOfWay) {
		t.Error("the flashed safety should be on the tableau")
	}
	// The defender played a card mid-turn and draws a replacement.
	if len(g.hands[1]) != 2 {
		t.Errorf("defender hand size %d, want 2", len(g.hands[1]))
	}
}

func TestScoreBonuses(t *testing.T) {
	g, err := NewGame(newTestPlayers(2), Config{Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	g.target = 700

	winner := g.teams[0]
	winner.Mileage = 700
	winner.mileagePlays = 9
	winner.Safeties = []Card{SafetyDrivingAce, SafetyExtraTank, SafetyPunctureProof, SafetyRightOfWay}
	winner.CoupFourres = 1

	summary := g.score(0, 40, true)
	s := summary.Scores[0]

	if s.TripComplete != 400 {
		t.Errorf("trip completion = %d, want 400", s.TripComplete)
	}
	if s.Safeties != 700 {
		t.Errorf("four safeties = %d, want 400+300", s.Safeties)
	}
	if s.CoupFourres != 300 {
		t.Errorf("coup fourré = %d, want 300", s.CoupFourres)
	}
	if s.DelayedAction != 300 {
		t.Errorf("delayed action = %d, want 300", s.DelayedAction)
	}
	if s.SafeTrip != 300 {
		t.Errorf("safe trip = %d, want 300", s.SafeTrip)
	}
	if s.Shutout != 500 {
		t.Errorf("shutout = %d, want 500", s.Shutout)
	}
	want := 700 + 400 + 700 + 300 + 300 + 300 + 500
	if s.Total != want {
		t.Errorf("total = %d, want %d", s.Total, want)
	}
	if winner.TotalScore != want {
		t.Errorf("team running total = %d, want %d", winner.TotalScore, want)
	}

	// The loser still banks distance and safeties.
	loser := summary.Scores[1]
	if loser.TripComplete != 0 || loser.Shutout != 0 {
		t.Error("loser should get no completion bonuses")
	}
}

func TestNoShutoutWhenOpponentMoved(t *testing.T) {
	g, err := NewGame(newTestPlayers(2), Config{Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	g.target = 700
	g.teams[0].Mileage = 700
	g.teams[1].Mileage = 25
	g.teams[1].mileagePlays = 1

	s := g.score(0, 30, false).Scores[0]
	if s.Shutout != 0 {
		t.Errorf("shutout = %d, want 0 when the opponent has moved", s.Shutout)
	}
	if s.SafeTrip != 300 {
		t.Errorf("safe trip = %d, want 300 with no 200s played", s.SafeTrip)
	}
}

func TestPlayHandRejectsIllegalMove(t *testing.T) {
	players := newTestPlayers(2)
	players[0].(*testPlayer).choose = func(gs *GameState) Move {
		return Move{Type: MovePlay, Card: Mile200, Target: 5}
	}
	g, err := NewGame(players, Config{Seed: 3})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.PlayHand(); err == nil {
		t.Fatal("expected an illegal-move error")
	}
}

func TestPlayHandCompletes(t *testing.T) {
	g, err := NewGame(newTestPlayers(2), Config{Seed: 11})
	if err != nil {
		t.Fatal(err)
	}
	summary, err := g.PlayHand()
	if err != nil {
		t.Fatal(err)
	}
	if summary.TurnsElapsed == 0 {
		t.Error("expected at least one turn")
	}
	if len(summary.Scores) != 2 {
		t.Fatalf("expected 2 team scores, got %d", len(summary.Scores))
	}
	for _, s := range summary.Scores {
		if s.Distance < 0 || s.Distance > 1000 {
			t.Errorf("team %d distance %d out of range", s.TeamNumber, s.Distance)
		}
	}
}

func TestRunFinishesMatch(t *testing.T) {
	g, err := NewGame(newTestPlayers(2), Config{Seed: 5, PointsToWin: 2000})
	if err != nil {
		t.Fatal(err)
	}
	result, err := g.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.WinnerTeam != 0 && result.WinnerTeam != 1 {
		t.Errorf("winner team %d out of range", result.WinnerTeam)
	}
	if result.HandsPlayed < 1 {
		t.Error("expected at least one hand")
	}
	if len(result.Totals) != 2 {
		t.Fatalf("expected 2 totals, got %d", len(result.Totals))
	}
	if result.Totals[result.WinnerTeam] < result.Totals[1-result.WinnerTeam] {
		t.Error("winner should have the highest total")
	}
	if len(result.Hands) != result.HandsPlayed {
		t.Errorf("hand summaries %d != hands played %d", len(result.Hands), result.HandsPlayed)
	}
}

func TestRunCallsOnHand(t *testing.T) {
	var numbers []int
	var lastTotals []int
	cfg := Config{Seed: 5, PointsToWin: 2000}
	cfg.OnHand = func(number int, summary ScoreSummary, totals []int) {
		numbers = append(numbers, number)
		lastTotals = totals
		if len(summary.Scores) != 2 {
			t.Errorf("hand %d: %d team scores, want 2", number, len(summary.Scores))
		}
	}
	g, err := NewGame(newTestPlayers(2), cfg)
	if err != nil {
		t.Fatal(err)
	}
	result, err := g.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(numbers) != result.HandsPlayed {
		t.Fatalf("OnHand fired %d times for %d hands", len(numbers), result.HandsPlayed)
	}
	for i, n := range numbers {
		if n != i+1 {
			t.Errorf("hand numbers %v should count up from 1", numbers)
			break
		}
	}
	if len(lastTotals) != 2 || lastTotals[0] != result.Totals[0] || lastTotals[1] != result.Totals[1] {
		t.Errorf("final OnHand totals %v, want %v", lastTotals, result.Totals)
	}
}

func TestRunHonorsContext(t *testing.T) {
	g, err := NewGame(newTestPlayers(2), Config{Seed: 5})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.Run(ctx); err == nil {
		t.Fatal("expected a context error")
	}
}
