package bot

import (
	"fmt"

	"github.com/avelis/millebot/pkg/mille"
)

// moveValue scores a legal move on the common utility scale: roughly [0,1]
// for plays, near zero for discards, higher is better. idx is the move's
// position in the valid-move list and discardCards the aligned discard
// candidates (CardNone at play positions).
func (d *decision) moveValue(m mille.Move, idx int, discardCards []mille.Card) float64 {
	key := cacheKey("moveValue", int(m.Type), int(m.Card), m.Target, idx)
	return memo(d.cache, key, func() float64 {
		return d.moveValueUncached(m, idx, discardCards)
	})
}

func (d *decision) moveValueUncached(m mille.Move, idx int, discardCards []mille.Card) float64 {
	us := d.gs.Us

	if m.Type == mille.MoveDiscard {
		// A discard is worth the inverse of the card's worth-if-kept, scaled
		// down so any play with positive value wins.
		return (1 - d.cardValue(m.Card, idx, discardCards)) * d.consts().DiscardMovePenalty
	}

	switch mille.Kind(m.Card) {
	case mille.KindMileage:
		dist := mille.Distance(m.Card)
		if dist == d.gs.Target-us.Mileage {
			// Exact finish.
			return 1.0
		}
		if m.Card == mille.Mile25 && countCards(discardCards, mille.Mile25) < 2 {
			// Don't spend our last 25km unless it finishes the trip.
			return 0.0
		}
		return d.mileageCardValue(m.Card)

	case mille.KindRemedy:
		if m.Card == mille.RemedyEndOfLimit && !us.SpeedLimit {
			return 0.0
		}
		// Any remedy that is legally playable is needed right now.
		return 1.0

	case mille.KindSafety:
		return d.consts().SafetyHoardFactor

	case mille.KindAttack:
		target := d.gs.TeamByNumber(m.Target)
		if m.Card == mille.AttackSpeedLimit {
			if target.SpeedLimit {
				return 0.0
			}
		} else if target.NeedRemedy != mille.CardNone && target.NeedRemedy != mille.RemedyGo {
			// Already hobbled; stacking only pays off when the target needs
			// nothing but Go, because then the attack adds a second
			// prerequisite.
			return 0.0
		}

		quality := 1.0
		switch m.Card {
		case mille.AttackStop:
			quality = d.consts().AttackQualityStop
		case mille.AttackSpeedLimit:
			quality = d.consts().AttackQualityLimit
		}

		return (1 - d.protectionOdds(target, m.Card)) *
			d.winOdds(target) *
			d.completionOdds(target) *
			quality
	}

	panic(fmt.Sprintf("bot: unknown card kind for %s in move valuation", m.Card))
}

// cardValue estimates the worth of holding a specific card instance, in
// roughly [0,1]. idx and cards disambiguate between identical cards: cards is
// the positional candidate list and idx this instance's position in it.
func (d *decision) cardValue(c mille.Card, idx int, cards []mille.Card) float64 {
	key := cacheKey("cardValue", int(c), idx)
	return memo(d.cache, key, func() float64 {
		return d.cardValueUncached(c, idx, cards)
	})
}

func (d *decision) cardValueUncached(c mille.Card, idx int, cards []mille.Card) float64 {
	us := d.gs.Us

	// Owning duplicates shares the value between copies, but two copies are
	// worth more than one copy split in half, so the naive 1/n penalty is
	// shrunk by the steepness factor.
	dupes := countCards(cards, c)
	if dupes < 1 {
		dupes = 1
	}
	dupeFrac := 1 / float64(dupes)
	dupeCoeff := 1 - (1-dupeFrac)/d.consts().DupePenaltyFactor

	switch mille.Kind(c) {
	case mille.KindMileage:
		dist := mille.Distance(c)
		remaining := d.gs.Target - us.Mileage
		switch {
		case dist > remaining:
			// Dead weight: can never be played this trip.
			return 0.0
		case c == mille.Mile200 && us.TwoHundredsPlayed >= 2:
			return 0.0
		case c == mille.Mile25 && indexOfCard(cards, c) == idx:
			// Reserve one 25km in case we need it to finish exactly.
			return 1.0 * dupeCoeff
		default:
			return d.mileageCardValue(c) * dupeCoeff
		}

	case mille.KindRemedy:
		// Attacks that could make this card necessary, minus any whose
		// safety is already on our tableau or in our hand.
		var relevant []mille.Card
		if c == mille.RemedyGo {
			relevant = mille.Attacks()
		} else {
			relevant = []mille.Card{mille.RemedyToAttack(c)}
		}
		live := relevant[:0]
		for _, a := range relevant {
			s := mille.AttackToSafety(a)
			if us.HasSafety(s) || indexOfCard(cards, s) >= 0 {
				continue
			}
			live = append(live, a)
		}

		turnPointValue := d.valueOfPoints(d.expectedTurnPoints(us), us)

		neededNow := (!us.Moving && c == mille.RemedyGo) ||
			(us.SpeedLimit && c == mille.RemedyEndOfLimit) ||
			(us.NeedRemedy != mille.CardNone && us.NeedRemedy == c)

		var attackOnUsOdds float64
		if neededNow && indexOfCard(cards, c) == idx {
			// Hold on to at least one copy of a remedy we already need.
			attackOnUsOdds = 1.0
		} else {
			attackOdds := d.percentRemaining(live...) * float64(d.expectedTurnsLeft())
			attackOnUsOdds = attackOdds / float64(len(d.gs.Opponents)+1)
		}
		return turnPointValue * attackOnUsOdds * dupeCoeff

	case mille.KindSafety:
		// Never discard a safety; the deck carries a single copy of each.
		return 1.0 * dupeCoeff

	case mille.KindAttack:
		safety := mille.AttackToSafety(c)
		remedy := mille.AttackToRemedy(c)
		sum := 0.0
		for _, target := range d.gs.Opponents {
			sum += (1 - d.protectionOdds(target, c)) *
				(1 - d.percentRemaining(safety, remedy)) *
				d.valueOfPoints(d.expectedTurnPoints(target), target)
		}
		return sum / float64(len(d.gs.Opponents)) * dupeCoeff
	}

	panic(fmt.Sprintf("bot: unknown card kind for %s in card valuation", c))
}

// mileageCardValue is the generic worth of a mileage card: the share of the
// remaining trip it covers, scaled by what completing the trip is worth now.
func (d *decision) mileageCardValue(c mille.Card) float64 {
	key := cacheKey("mileageCardValue", int(c))
	return memo(d.cache, key, func() float64 {
		us := d.gs.Us
		remaining := d.gs.Target - us.Mileage
		if remaining <= 0 {
			return 0.0
		}
		pctConsumed := float64(mille.Distance(c)) / float64(remaining)
		// Completion is worth the 400 trip bonus plus the 200 extension.
		return pctConsumed * d.valueOfPoints(600, us)
	})
}

// valueOfPoints maps a point amount to [0,1] relative to what the team still
// needs to win the match. Past the post everything is worth a flat 0.5.
func (d *decision) valueOfPoints(points float64, team *mille.Team) float64 {
	key := cacheKey("valueOfPoints", points, team.Number)
	return memo(d.cache, key, func() float64 {
		remaining := d.gs.PointsToWin - team.TotalScore
		if remaining <= 0 {
			return 0.5
		}
		v := points / float64(remaining)
		if v > 1 {
			v = 1
		}
		return v
	})
}

// expectedTurnPoints is the heuristic baseline for the points one turn earns.
func (d *decision) expectedTurnPoints(*mille.Team) float64 { return 75 }

func countCards(cards []mille.Card, c mille.Card) int {
	n := 0
	for _, cc := range cards {
		if cc == c {
			n++
		}
	}
	return n
}

// indexOfCard returns the position of the first occurrence, or -1.
func indexOfCard(cards []mille.Card, c mille.Card) int {
	for i, cc := range cards {
		if cc == c {
			return i
		}
	}
	return -1
}
