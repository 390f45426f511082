package bot

import (
	"fmt"

	"github.com/avelis/millebot/pkg/mille"
)

// Tracker is the long-lived card-counting state of one engine. A card is
// "unseen" until it shows up in the engine's own hand, a tableau, or the
// discard pile; the model cannot tell whether an unseen card is in the draw
// pile or an opponent's hand.
//
// The tracker also records "suspicious" remedy discards per player:
// discarding a remedy you were not forced to play is weak evidence you are
// hoarding the matching safety for a coup fourré. The count resets the moment
// that player plays (rather than discards) the remedy.
type Tracker struct {
	unseen         map[mille.Card]int
	totalUnseen    int
	remedyDiscards map[int]map[mille.Card]int
}

// NewTracker returns a tracker primed with the full deck composition.
func NewTracker() *Tracker {
	t := &Tracker{}
	t.Reset()
	return t
}

// Reset restores the canonical deck composition and clears discard history.
// Call it when a hand ends, never mid-hand.
func (t *Tracker) Reset() {
	t.unseen = mille.Composition()
	t.totalUnseen = 0
	for _, n := range t.unseen {
		t.totalUnseen += n
	}
	t.remedyDiscards = make(map[int]map[mille.Card]int)
}

// Observe marks one copy of a card as seen, decrementing its unseen count and
// the aggregate total atomically. A count driven negative means the tracker
// and the true game state have desynchronized; the state is left untouched
// and an error returned.
func (t *Tracker) Observe(c mille.Card) error {
	if t.unseen[c] <= 0 {
		return fmt.Errorf("tracker: saw %s but no unseen copies remain", c)
	}
	t.unseen[c]--
	t.totalUnseen--
	return nil
}

// Unseen returns the estimated unseen count for one card.
func (t *Tracker) Unseen(c mille.Card) int { return t.unseen[c] }

// TotalUnseen returns the aggregate unseen count.
func (t *Tracker) TotalUnseen() int { return t.totalUnseen }

// UnseenCounts returns a copy of the unseen-count map, suitable for building
// simulation decks.
func (t *Tracker) UnseenCounts() map[mille.Card]int {
	out := make(map[mille.Card]int, len(t.unseen))
	for c, n := range t.unseen {
		out[c] = n
	}
	return out
}

// PercentRemaining returns the fraction of all unseen cards that belong to
// the given set. The denominator takes the larger of the aggregate total and
// the requested sum (floored at 1), so the result is always in [0,1] and
// degenerates gracefully when nothing is unseen.
func (t *Tracker) PercentRemaining(cards ...mille.Card) float64 {
	count := 0
	for _, c := range cards {
		count += t.unseen[c]
	}
	denom := t.totalUnseen
	if count > denom {
		denom = count
	}
	if denom < 1 {
		denom = 1
	}
	return float64(count) / float64(denom)
}

// NoteRemedyDiscard records one suspicious discard of a remedy by a player.
func (t *Tracker) NoteRemedyDiscard(player int, remedy mille.Card) {
	m := t.remedyDiscards[player]
	if m == nil {
		m = make(map[mille.Card]int)
		t.remedyDiscards[player] = m
	}
	m[remedy]++
}

// ClearRemedyDiscards zeroes the suspicion count for (player, remedy);
// playing the remedy is evidence the player does not hold the safety.
func (t *Tracker) ClearRemedyDiscards(player int, remedy mille.Card) {
	if m := t.remedyDiscards[player]; m != nil {
		m[remedy] = 0
	}
}

// RemedyDiscards returns the suspicion count for (player, remedy).
func (t *Tracker) RemedyDiscards(player int, remedy mille.Card) int {
	return t.remedyDiscards[player][remedy]
}
