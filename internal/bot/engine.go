package bot

import (
	"sort"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/avelis/millebot/pkg/mille"
)

// Engine is the card-counting strategy: it scores every legal move on a
// common utility scale built from card-counting, opponent-protection
// estimation, and trip-completion forecasting, and plays the top-ranked move.
//
// The tracker state lives across a whole hand and is fed exclusively by the
// observation callbacks; each decision gets a fresh memoization cache.
// Callers must serialize observation calls and decisions.
type Engine struct {
	consts  Constants
	tracker *Tracker
	player  int
	logger  zerolog.Logger
}

// NewEngine creates a counting engine with the default weights.
func NewEngine() *Engine {
	return NewEngineWithConstants(DefaultConstants)
}

// NewEngineWithConstants creates a counting engine with custom weights, for
// tuning runs.
func NewEngineWithConstants(c Constants) *Engine {
	return &Engine{
		consts:  c,
		tracker: NewTracker(),
		player:  -1,
		logger:  log.With().Str("strategy", "counting").Logger(),
	}
}

// Name implements mille.Player.
func (e *Engine) Name() string { return "counting" }

// Seat records the engine's own player number so it can tell its own card
// events apart from opponents'.
func (e *Engine) Seat(playerNumber int) {
	e.player = playerNumber
	e.logger = e.logger.With().Int("player", playerNumber).Logger()
}

// Tracker exposes the card-counting state, mainly for tests.
func (e *Engine) Tracker() *Tracker { return e.tracker }

// CardDrawn observes a card entering the engine's own hand.
func (e *Engine) CardDrawn(c mille.Card) {
	if err := e.tracker.Observe(c); err != nil {
		e.logger.Error().Err(err).Msg("Card count desynchronized on draw")
	}
}

// PlayerPlayed observes a play or discard by any player at the table. The
// engine's own cards were already counted when drawn, so only the suspicion
// history is updated for them.
func (e *Engine) PlayerPlayed(player int, m mille.Move) {
	if player != e.player {
		if err := e.tracker.Observe(m.Card); err != nil {
			e.logger.Error().Err(err).Int("by", player).Msg("Card count desynchronized on play")
		}
	}
	if mille.Kind(m.Card) == mille.KindRemedy && m.Card != mille.RemedyGo {
		if m.Type == mille.MoveDiscard {
			e.tracker.NoteRemedyDiscard(player, m.Card)
		} else {
			e.tracker.ClearRemedyDiscards(player, m.Card)
		}
	}
}

// HandEnded resets the per-hand tracking state.
func (e *Engine) HandEnded(mille.ScoreSummary) {
	e.tracker.Reset()
}

// PlayCoupFourre always flashes the safety; the bonus dwarfs the value of a
// later proactive play.
func (e *Engine) PlayCoupFourre(mille.Card, *mille.GameState) bool { return true }

// GoForExtension always extends the trip.
func (e *Engine) GoForExtension(*mille.GameState) bool { return true }

// MakeMove evaluates every supplied legal move and returns the best. The
// move list must be non-empty; an empty list is a caller contract violation.
func (e *Engine) MakeMove(gs *mille.GameState) mille.Move {
	if len(gs.ValidMoves) == 0 {
		panic("bot: MakeMove called with no valid moves")
	}

	d := &decision{
		eng:   e,
		gs:    gs,
		cache: newTurnCache(),
		log:   e.logger,
	}

	moves := gs.ValidMoves
	// discardCards aligns with moves: the candidate card for discard moves,
	// CardNone for plays. Card valuation uses it to count duplicates and to
	// disambiguate identical cards by position.
	discardCards := make([]mille.Card, len(moves))
	for i, m := range moves {
		if m.Type == mille.MoveDiscard {
			discardCards[i] = m.Card
		}
	}

	values := make([]float64, len(moves))
	for i, m := range moves {
		values[i] = d.moveValue(m, i, discardCards)
	}

	order := make([]int, len(moves))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] > values[order[b]]
	})

	if gs.Debug {
		for _, i := range order {
			d.log.Debug().Str("move", moves[i].String()).Float64("value", values[i]).Msg("Move considered")
		}
	}
	return moves[order[0]]
}

// decision is the per-turn evaluation context: one snapshot, one cache.
type decision struct {
	eng   *Engine
	gs    *mille.GameState
	cache *turnCache
	log   zerolog.Logger
}

func (d *decision) consts() Constants { return d.eng.consts }

// percentRemaining memoizes Tracker.PercentRemaining for the decision.
func (d *decision) percentRemaining(cards ...mille.Card) float64 {
	key := cacheKey("percentRemaining", cards)
	return memo(d.cache, key, func() float64 {
		return d.eng.tracker.PercentRemaining(cards...)
	})
}
