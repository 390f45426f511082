package bot

import (
	"math"

	"github.com/avelis/millebot/pkg/mille"
)

// protectionOdds estimates the chance a team can shrug off an attack: 1.0
// exactly once the matching safety is on their tableau, otherwise the chance
// they secretly hold the safety or the cure, compounded by every suspicious
// discard of the matching remedy. The compounded result is deliberately not
// re-clamped; treat values past 1 as relative strength.
func (d *decision) protectionOdds(team *mille.Team, attack mille.Card) float64 {
	key := cacheKey("protectionOdds", team.Number, int(attack))
	return memo(d.cache, key, func() float64 {
		safety := mille.AttackToSafety(attack)
		remedy := mille.AttackToRemedy(attack)

		if team.HasSafety(safety) {
			return 1.0
		}

		odds := d.percentRemaining(safety, remedy)
		for _, player := range team.PlayerNumbers {
			for i := 0; i < d.eng.tracker.RemedyDiscards(player, remedy); i++ {
				odds *= d.consts().RemedyDiscardBoost
			}
		}
		d.log.Debug().
			Int("team", team.Number).
			Str("attack", attack.String()).
			Float64("odds", odds).
			Msg("Protection odds")
		return odds
	})
}

// winOdds blends a uniform prior with the current score share, weighted by
// how far along the match is: early on everyone is equally likely, late the
// scoreboard dominates.
func (d *decision) winOdds(team *mille.Team) float64 {
	key := cacheKey("winOdds", team.Number)
	return memo(d.cache, key, func() float64 {
		prior := 1 / float64(len(d.gs.Opponents)+1)

		maxScore := d.gs.Us.TotalScore
		for _, t := range d.gs.Opponents {
			if t.TotalScore > maxScore {
				maxScore = t.TotalScore
			}
		}
		if maxScore == 0 {
			return prior
		}

		gamePctDone := float64(maxScore) / float64(d.gs.PointsToWin)
		scoreShare := float64(team.TotalScore) / float64(maxScore)
		return (scoreShare*gamePctDone + prior*(1-gamePctDone)) / 2
	})
}

// completionOdds estimates the chance a team finishes the current trip. In
// the endgame it is read off the Monte Carlo playouts; earlier a cheap
// card-counting estimate suffices.
func (d *decision) completionOdds(team *mille.Team) float64 {
	key := cacheKey("completionOdds", team.Number)
	return memo(d.cache, key, func() float64 {
		if d.useMonteCarlo() {
			playouts := d.simulate()
			completed := 0
			for _, p := range playouts {
				if p.remainingFor(team.Number) == 0 {
					completed++
				}
			}
			return float64(completed) / float64(len(playouts))
		}
		return d.analyticCompletionOdds(team)
	})
}

func (d *decision) analyticCompletionOdds(team *mille.Team) float64 {
	teamMovesLeft := float64(d.deckExhaustionTurnsLeft() * len(team.PlayerNumbers))

	goCoeff := 1.0
	if !team.Moving {
		goCoeff = math.Min(1, d.percentRemaining(mille.RemedyGo)*teamMovesLeft)
	}

	remedyCoeff := 1.0
	if team.NeedRemedy != mille.CardNone && team.NeedRemedy != mille.RemedyGo {
		remedyCoeff = math.Min(1, d.percentRemaining(
			team.NeedRemedy,
			mille.RemedyToSafety(team.NeedRemedy))*teamMovesLeft)
	}

	// Hard gates: if the cards a stalled team needs are all gone, they are
	// never moving again.
	if goCoeff == 0 || remedyCoeff == 0 {
		return 0.0
	}

	needMileage := d.gs.Target - team.Mileage
	if needMileage <= 0 {
		return 1.0
	}

	var validMileage []mille.Card
	unseenTotalMileage := 0
	for _, c := range mille.MileageCards() {
		if mille.Distance(c) > needMileage {
			continue
		}
		validMileage = append(validMileage, c)
		unseenTotalMileage += mille.Distance(c) * d.eng.tracker.Unseen(c)
	}
	if unseenTotalMileage < needMileage {
		// Not enough distance left in circulation.
		return 0.0
	}

	validPct := d.percentRemaining(validMileage...)
	odds := validPct *
		(float64(unseenTotalMileage) / float64(needMileage)) *
		teamMovesLeft * remedyCoeff * goCoeff
	return math.Min(1, odds)
}

// maxTripPctDone is the leading team's progress through the trip.
func (d *decision) maxTripPctDone() float64 {
	key := cacheKey("maxTripPctDone")
	return memo(d.cache, key, func() float64 {
		maxMileage := d.gs.Us.Mileage
		for _, t := range d.gs.Opponents {
			if t.Mileage > maxMileage {
				maxMileage = t.Mileage
			}
		}
		return float64(maxMileage) / float64(d.gs.Target)
	})
}

// deckExhaustionTurnsLeft estimates full rounds until the draw pile empties.
func (d *decision) deckExhaustionTurnsLeft() int {
	key := cacheKey("deckExhaustionTurnsLeft")
	return memo(d.cache, key, func() int {
		players := d.gs.PlayerCount()
		return int(math.Ceil(float64(d.gs.CardsLeft) / float64(players)))
	})
}

// expectedTurnsLeft estimates how many turns remain in the hand. In
// simulation mode the deck-exhaustion count is the cheaper complementary
// answer; otherwise the mean simulated hand length is used.
func (d *decision) expectedTurnsLeft() int {
	key := cacheKey("expectedTurnsLeft")
	return memo(d.cache, key, func() int {
		if d.useMonteCarlo() {
			return d.deckExhaustionTurnsLeft()
		}
		playouts := d.simulate()
		total := 0
		for _, p := range playouts {
			total += p.turns
		}
		return int(math.Ceil(float64(total) / float64(len(playouts))))
	})
}

// useMonteCarlo gates the expensive simulation to the endgame, where
// precision matters most and the search space is smallest.
func (d *decision) useMonteCarlo() bool {
	key := cacheKey("useMonteCarlo")
	return memo(d.cache, key, func() bool {
		return d.maxTripPctDone() > 0.75 || d.deckExhaustionTurnsLeft() < 10
	})
}
