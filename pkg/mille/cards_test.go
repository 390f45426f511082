package mille

import "testing"

func TestDeckComposition(t *testing.T) {
	if DeckSize() != 106 {
		t.Errorf("expected 106 cards in the deck, got %d", DeckSize())
	}

	comp := Composition()
	total := 0
	for _, n := range comp {
		total += n
	}
	if total != DeckSize() {
		t.Errorf("composition sums to %d, DeckSize says %d", total, DeckSize())
	}

	// Mutating the copy must not touch the canonical deck.
	comp[Mile25] = 0
	if Composition()[Mile25] != 10 {
		t.Error("Composition returned a shared map")
	}
}

func TestKindCoversEveryCard(t *testing.T) {
	for c := Mile25; c < numCards; c++ {
		if Kind(c) == KindNone {
			t.Errorf("card %s has no kind", c)
		}
	}
	if Kind(CardNone) != KindNone {
		t.Error("CardNone should have KindNone")
	}
}

func TestDistance(t *testing.T) {
	cases := map[Card]int{
		Mile25: 25, Mile50: 50, Mile75: 75, Mile100: 100, Mile200: 200,
		AttackStop: 0, RemedyGo: 0, SafetyRightOfWay: 0,
	}
	for c, want := range cases {
		if got := Distance(c); got != want {
			t.Errorf("Distance(%s) = %d, want %d", c, got, want)
		}
	}
}

func TestAttackRemedySafetyTriangle(t *testing.T) {
	for _, a := range Attacks() {
		r := AttackToRemedy(a)
		if Kind(r) != KindRemedy {
			t.Errorf("AttackToRemedy(%s) = %s, not a remedy", a, r)
		}
		if back := RemedyToAttack(r); back != a {
			t.Errorf("RemedyToAttack(AttackToRemedy(%s)) = %s", a, back)
		}
		s := AttackToSafety(a)
		if Kind(s) != KindSafety {
			t.Errorf("AttackToSafety(%s) = %s, not a safety", a, s)
		}
		if RemedyToSafety(r) != s {
			t.Errorf("RemedyToSafety(%s) = %s, want %s", r, RemedyToSafety(r), s)
		}
	}

	// Right of Way covers both the Stop and Speed Limit hazards.
	if AttackToSafety(AttackStop) != SafetyRightOfWay {
		t.Error("Stop should be blocked by Right of Way")
	}
	if AttackToSafety(AttackSpeedLimit) != SafetyRightOfWay {
		t.Error("Speed Limit should be blocked by Right of Way")
	}
}

func TestMileageCardsDescending(t *testing.T) {
	cards := MileageCards()
	for i := 1; i < len(cards); i++ {
		if Distance(cards[i]) >= Distance(cards[i-1]) {
			t.Errorf("MileageCards not descending at %d: %s then %s", i, cards[i-1], cards[i])
		}
	}
}
