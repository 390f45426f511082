package bot

import "github.com/avelis/millebot/pkg/mille"

// playoutCount is the number of independent randomized playouts per decision.
const playoutCount = 100

// playout is the outcome of one randomized run of the remaining deck:
// elapsed turns and each team's distance left (0 = completed).
type playout struct {
	turns     int
	remaining map[int]int
}

func (p playout) remainingFor(team int) int { return p.remaining[team] }

// simulate runs randomized playouts of the unseen cards against all teams'
// current needs. Each playout builds a deck from the unseen counts, shuffles
// it with the injectable package source, and deals round-robin across teams
// then players, applying each card's effect to the drawing team, until the
// deck is exhausted or the first team simultaneously has its distance met,
// is moving, and has no outstanding remedy need. Playouts are independent;
// the result is memoized per decision.
func (d *decision) simulate() []playout {
	key := cacheKey("monteCarloSimulation")
	return memo(d.cache, key, func() []playout {
		teams := d.gs.Teams()
		counts := d.eng.tracker.UnseenCounts()

		results := make([]playout, 0, playoutCount)
		for i := 0; i < playoutCount; i++ {
			results = append(results, d.runPlayout(teams, counts))
		}
		return results
	})
}

func (d *decision) runPlayout(teams []*mille.Team, counts map[mille.Card]int) playout {
	need := make(map[int]int, len(teams))
	moving := make(map[int]bool, len(teams))
	needRemedy := make(map[int]mille.Card, len(teams))
	twoHundreds := make(map[int]int, len(teams))
	for _, t := range teams {
		need[t.Number] = d.gs.Target - t.Mileage
		moving[t.Number] = t.Moving
		needRemedy[t.Number] = t.NeedRemedy
		twoHundreds[t.Number] = t.TwoHundredsPlayed
	}

	deck := make([]mille.Card, 0, d.eng.tracker.TotalUnseen())
	for c, qty := range counts {
		for i := 0; i < qty; i++ {
			deck = append(deck, c)
		}
	}
	botShuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	turns := 0
	completedBy := -1
	for len(deck) > 0 && completedBy == -1 {
		turns++
		for _, t := range teams {
			if len(deck) == 0 || completedBy != -1 {
				break
			}
			tn := t.Number
			for range t.PlayerNumbers {
				if len(deck) == 0 {
					break
				}
				c := deck[len(deck)-1]
				deck = deck[:len(deck)-1]

				switch {
				case c == mille.RemedyGo:
					moving[tn] = true
					if needRemedy[tn] == mille.RemedyGo {
						needRemedy[tn] = mille.CardNone
					}
				case mille.Kind(c) == mille.KindMileage:
					dist := mille.Distance(c)
					if c == mille.Mile200 && twoHundreds[tn] >= 2 {
						continue
					}
					if dist > need[tn] {
						continue
					}
					if c == mille.Mile200 {
						twoHundreds[tn]++
					}
					need[tn] -= dist
				default:
					if nr := needRemedy[tn]; nr != mille.CardNone {
						cured := (mille.Kind(c) == mille.KindRemedy && c == nr) ||
							(mille.Kind(c) == mille.KindSafety && mille.RemedyToSafety(nr) == c)
						if cured {
							needRemedy[tn] = mille.CardNone
						}
					}
				}

				if need[tn] == 0 && moving[tn] && needRemedy[tn] == mille.CardNone {
					// First team home ends the simulated hand.
					completedBy = tn
					break
				}
			}
		}
	}

	remaining := make(map[int]int, len(teams))
	for _, t := range teams {
		if needRemedy[t.Number] != mille.CardNone || !moving[t.Number] {
			remaining[t.Number] = d.gs.Target - t.Mileage
		} else {
			remaining[t.Number] = need[t.Number]
		}
	}
	return playout{turns: turns, remaining: remaining}
}
