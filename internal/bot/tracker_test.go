package bot

import (
	"testing"

	"github.com/avelis/millebot/pkg/mille"
)

func TestTrackerObserve(t *testing.T) {
	tr := NewTracker()

	if tr.TotalUnseen() != mille.DeckSize() {
		t.Fatalf("fresh tracker total = %d, want %d", tr.TotalUnseen(), mille.DeckSize())
	}

	if err := tr.Observe(mille.Mile100); err != nil {
		t.Fatalf("Observe: %v", err)
	}
	if tr.Unseen(mille.Mile100) != 11 {
		t.Errorf("Mile100 unseen = %d, want 11", tr.Unseen(mille.Mile100))
	}
	if tr.TotalUnseen() != mille.DeckSize()-1 {
		t.Errorf("total = %d, want %d", tr.TotalUnseen(), mille.DeckSize()-1)
	}
}

func TestTrackerObserveNeverGoesNegative(t *testing.T) {
	tr := NewTracker()

	// The single Right of Way can only be seen once.
	if err := tr.Observe(mille.SafetyRightOfWay); err != nil {
		t.Fatalf("first observation: %v", err)
	}
	total := tr.TotalUnseen()
	if err := tr.Observe(mille.SafetyRightOfWay); err == nil {
		t.Fatal("expected an error observing a card with no copies left")
	}
	// The failed observation must leave the counts untouched.
	if tr.Unseen(mille.SafetyRightOfWay) != 0 {
		t.Errorf("unseen = %d, want 0", tr.Unseen(mille.SafetyRightOfWay))
	}
	if tr.TotalUnseen() != total {
		t.Errorf("total changed on failed observation: %d -> %d", total, tr.TotalUnseen())
	}
}

func TestTrackerAggregateMatchesPerCardSum(t *testing.T) {
	tr := NewTracker()
	cards := []mille.Card{mille.Mile25, mille.Mile25, mille.RemedyGo, mille.AttackStop, mille.Mile200}
	for _, c := range cards {
		if err := tr.Observe(c); err != nil {
			t.Fatalf("Observe(%s): %v", c, err)
		}
	}

	sum := 0
	for c, n := range tr.UnseenCounts() {
		if n < 0 {
			t.Errorf("%s has negative unseen count %d", c, n)
		}
		sum += n
	}
	if sum != tr.TotalUnseen() {
		t.Errorf("per-card sum %d != aggregate %d", sum, tr.TotalUnseen())
	}
}

func TestTrackerReset(t *testing.T) {
	tr := NewTracker()
	for i := 0; i < 10; i++ {
		if err := tr.Observe(mille.Mile25); err != nil {
			t.Fatal(err)
		}
	}
	tr.NoteRemedyDiscard(1, mille.RemedyRepairs)

	tr.Reset()
	if tr.Unseen(mille.Mile25) != 10 {
		t.Errorf("Mile25 after reset = %d, want 10", tr.Unseen(mille.Mile25))
	}
	if tr.TotalUnseen() != mille.DeckSize() {
		t.Errorf("total after reset = %d, want %d", tr.TotalUnseen(), mille.DeckSize())
	}
	if tr.RemedyDiscards(1, mille.RemedyRepairs) != 0 {
		t.Error("discard history should be cleared on reset")
	}
}

func TestPercentRemaining(t *testing.T) {
	tr := NewTracker()

	if got := tr.PercentRemaining(); got != 0 {
		t.Errorf("empty set: %v, want 0", got)
	}

	all := make([]mille.Card, 0)
	for c := range tr.UnseenCounts() {
		all = append(all, c)
	}
	if got := tr.PercentRemaining(all...); got != 1.0 {
		t.Errorf("all cards: %v, want 1.0", got)
	}

	// Exhaust every copy of Go; its fraction drops to zero.
	for i := 0; i < 14; i++ {
		if err := tr.Observe(mille.RemedyGo); err != nil {
			t.Fatal(err)
		}
	}
	if got := tr.PercentRemaining(mille.RemedyGo); got != 0 {
		t.Errorf("exhausted card: %v, want 0", got)
	}

	got := tr.PercentRemaining(mille.SafetyDrivingAce)
	want := 1.0 / float64(mille.DeckSize()-14)
	if got != want {
		t.Errorf("Driving Ace fraction = %v, want %v", got, want)
	}
}

func TestPercentRemainingBounded(t *testing.T) {
	tr := NewTracker()
	// Observe everything so the aggregate hits zero.
	for c, n := range mille.Composition() {
		for i := 0; i < n; i++ {
			if err := tr.Observe(c); err != nil {
				t.Fatal(err)
			}
		}
	}
	if got := tr.PercentRemaining(mille.RemedyGo, mille.Mile100); got != 0 {
		t.Errorf("empty tracker fraction = %v, want 0", got)
	}
}

func TestRemedyDiscardSuspicion(t *testing.T) {
	tr := NewTracker()

	tr.NoteRemedyDiscard(2, mille.RemedyRepairs)
	tr.NoteRemedyDiscard(2, mille.RemedyRepairs)
	if got := tr.RemedyDiscards(2, mille.RemedyRepairs); got != 2 {
		t.Errorf("suspicion = %d, want 2", got)
	}
	if got := tr.RemedyDiscards(2, mille.RemedyGasoline); got != 0 {
		t.Errorf("unrelated remedy suspicion = %d, want 0", got)
	}
	if got := tr.RemedyDiscards(3, mille.RemedyRepairs); got != 0 {
		t.Errorf("unrelated player suspicion = %d, want 0", got)
	}

	tr.ClearRemedyDiscards(2, mille.RemedyRepairs)
	if got := tr.RemedyDiscards(2, mille.RemedyRepairs); got != 0 {
		t.Errorf("suspicion after clear = %d, want 0", got)
	}
}

func TestMemoComputesOnce(t *testing.T) {
	c := newTurnCache()
	calls := 0
	compute := func() float64 {
		calls++
		return 42
	}

	key := cacheKey("op", 1, "x")
	if got := memo(c, key, compute); got != 42 {
		t.Fatalf("memo = %v, want 42", got)
	}
	if got := memo(c, key, compute); got != 42 {
		t.Fatalf("memo = %v, want 42", got)
	}
	if calls != 1 {
		t.Errorf("compute ran %d times, want 1", calls)
	}

	memo(c, cacheKey("op", 2, "x"), compute)
	if calls != 2 {
		t.Errorf("distinct key should recompute, calls = %d", calls)
	}
}
