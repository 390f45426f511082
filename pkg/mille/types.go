package mille

import "fmt"

// MoveType distinguishes playing a card from discarding it.
type MoveType int

const (
	MovePlay MoveType = iota
	MoveDiscard
)

// NoTarget marks a move that is not aimed at an opposing team.
const NoTarget = -1

// Move is a single candidate action: play a card (onto the mover's own
// tableau, or against Target for attacks) or discard it.
type Move struct {
	Type   MoveType `json:"type"`
	Card   Card     `json:"card"`
	Target int      `json:"target"` // opposing team number for attacks, else NoTarget
}

func (m Move) String() string {
	switch {
	case m.Type == MoveDiscard:
		return fmt.Sprintf("discard %s", m.Card)
	case m.Target != NoTarget:
		return fmt.Sprintf("play %s on team %d", m.Card, m.Target)
	default:
		return fmt.Sprintf("play %s", m.Card)
	}
}

// Team is one side of the race: one or more players sharing a tableau.
type Team struct {
	Number            int    `json:"number"`
	PlayerNumbers     []int  `json:"player_numbers"`
	Mileage           int    `json:"mileage"`
	Moving            bool   `json:"moving"`
	NeedRemedy        Card   `json:"need_remedy"` // CardNone when no remedy is outstanding
	SpeedLimit        bool   `json:"speed_limit"`
	TwoHundredsPlayed int    `json:"two_hundreds_played"`
	Safeties          []Card `json:"safeties"`
	CoupFourres       int    `json:"coup_fourres"`
	TotalScore        int    `json:"total_score"`

	mileagePlays int // mileage cards played this hand, for shutout scoring
}

// HasSafety reports whether the team has already played the given safety.
func (t *Team) HasSafety(s Card) bool {
	for _, c := range t.Safeties {
		if c == s {
			return true
		}
	}
	return false
}

// clone copies the team for read-only snapshots.
func (t *Team) clone() *Team {
	c := *t
	c.PlayerNumbers = append([]int(nil), t.PlayerNumbers...)
	c.Safeties = append([]Card(nil), t.Safeties...)
	return &c
}

// GameState is the read-only, perfect-information snapshot handed to a player
// when it must decide. The rule engine builds a fresh snapshot per decision;
// players must never mutate one.
type GameState struct {
	Us          *Team   `json:"us"`
	Opponents   []*Team `json:"opponents"`
	ValidMoves  []Move  `json:"valid_moves"`
	Hand        []Card  `json:"hand"` // ordered; duplicates preserved by position
	Target      int     `json:"target"`
	CardsLeft   int     `json:"cards_left"`
	PointsToWin int     `json:"points_to_win"`
	Debug       bool    `json:"debug"`
}

// TeamByNumber resolves a team number against the snapshot.
func (gs *GameState) TeamByNumber(n int) *Team {
	if gs.Us.Number == n {
		return gs.Us
	}
	for _, t := range gs.Opponents {
		if t.Number == n {
			return t
		}
	}
	return nil
}

// Teams returns all teams, the decider's own team first.
func (gs *GameState) Teams() []*Team {
	teams := make([]*Team, 0, len(gs.Opponents)+1)
	teams = append(teams, gs.Us)
	return append(teams, gs.Opponents...)
}

// PlayerCount is the total number of players across all teams.
func (gs *GameState) PlayerCount() int {
	n := len(gs.Us.PlayerNumbers)
	for _, t := range gs.Opponents {
		n += len(t.PlayerNumbers)
	}
	return n
}

// TeamScore holds one team's scoring breakdown for a finished hand.
type TeamScore struct {
	TeamNumber    int `json:"team_number"`
	Distance      int `json:"distance"`
	Safeties      int `json:"safeties"`
	CoupFourres   int `json:"coup_fourres"`
	TripComplete  int `json:"trip_complete"`
	DelayedAction int `json:"delayed_action"`
	SafeTrip      int `json:"safe_trip"`
	Extension     int `json:"extension"`
	Shutout       int `json:"shutout"`
	Total         int `json:"total"`
}

// ScoreSummary reports the outcome of one hand.
type ScoreSummary struct {
	Scores        []TeamScore `json:"scores"`
	CompletedBy   int         `json:"completed_by"` // team number, or -1 if the hand ran out
	TurnsElapsed  int         `json:"turns_elapsed"`
	DeckExhausted bool        `json:"deck_exhausted"`
}

// Player is the contract between the rule engine and a decision-maker. The
// engine calls Seat once before the first hand, CardDrawn for every card the
// player draws or is dealt, and PlayerPlayed for every play or discard by any
// player at the table, including the player itself.
type Player interface {
	Name() string
	Seat(playerNumber int)
	MakeMove(gs *GameState) Move
	CardDrawn(c Card)
	PlayerPlayed(player int, m Move)
	HandEnded(summary ScoreSummary)
	PlayCoupFourre(attack Card, gs *GameState) bool
	GoForExtension(gs *GameState) bool
}
