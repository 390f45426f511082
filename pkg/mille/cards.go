// Package mille implements the Mille Bornes card catalog, game state, and
// rule engine used to drive bot matches.
package mille

import "fmt"

// Card identifies a card denomination. Two cards with the same identifier are
// value-equal; a hand may hold several copies of the same identifier.
type Card int

const (
	CardNone Card = iota

	Mile25
	Mile50
	Mile75
	Mile100
	Mile200

	AttackAccident
	AttackOutOfGas
	AttackFlatTire
	AttackStop
	AttackSpeedLimit

	RemedyRepairs
	RemedyGasoline
	RemedySpareTire
	RemedyGo
	RemedyEndOfLimit

	SafetyDrivingAce
	SafetyExtraTank
	SafetyPunctureProof
	SafetyRightOfWay

	numCards
)

// CardKind is the closed set of card categories.
type CardKind int

const (
	KindNone CardKind = iota
	KindMileage
	KindRemedy
	KindSafety
	KindAttack
)

var cardNames = map[Card]string{
	CardNone:            "none",
	Mile25:              "25km",
	Mile50:              "50km",
	Mile75:              "75km",
	Mile100:             "100km",
	Mile200:             "200km",
	AttackAccident:      "Accident",
	AttackOutOfGas:      "Out of Gas",
	AttackFlatTire:      "Flat Tire",
	AttackStop:          "Stop",
	AttackSpeedLimit:    "Speed Limit",
	RemedyRepairs:       "Repairs",
	RemedyGasoline:      "Gasoline",
	RemedySpareTire:     "Spare Tire",
	RemedyGo:            "Go",
	RemedyEndOfLimit:    "End of Limit",
	SafetyDrivingAce:    "Driving Ace",
	SafetyExtraTank:     "Extra Tank",
	SafetyPunctureProof: "Puncture-Proof",
	SafetyRightOfWay:    "Right of Way",
}

func (c Card) String() string {
	if n, ok := cardNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Card(%d)", int(c))
}

// Kind returns the category a card belongs to.
func Kind(c Card) CardKind {
	switch c {
	case Mile25, Mile50, Mile75, Mile100, Mile200:
		return KindMileage
	case AttackAccident, AttackOutOfGas, AttackFlatTire, AttackStop, AttackSpeedLimit:
		return KindAttack
	case RemedyRepairs, RemedyGasoline, RemedySpareTire, RemedyGo, RemedyEndOfLimit:
		return KindRemedy
	case SafetyDrivingAce, SafetyExtraTank, SafetyPunctureProof, SafetyRightOfWay:
		return KindSafety
	}
	return KindNone
}

// Distance returns the distance value of a mileage card, or 0 otherwise.
func Distance(c Card) int {
	switch c {
	case Mile25:
		return 25
	case Mile50:
		return 50
	case Mile75:
		return 75
	case Mile100:
		return 100
	case Mile200:
		return 200
	}
	return 0
}

// The attack/remedy/safety triangle. Right of Way covers both Stop and
// Speed Limit, so two rows share a safety.
var attackRemedy = map[Card]Card{
	AttackAccident:   RemedyRepairs,
	AttackOutOfGas:   RemedyGasoline,
	AttackFlatTire:   RemedySpareTire,
	AttackStop:       RemedyGo,
	AttackSpeedLimit: RemedyEndOfLimit,
}

var attackSafety = map[Card]Card{
	AttackAccident:   SafetyDrivingAce,
	AttackOutOfGas:   SafetyExtraTank,
	AttackFlatTire:   SafetyPunctureProof,
	AttackStop:       SafetyRightOfWay,
	AttackSpeedLimit: SafetyRightOfWay,
}

// AttackToRemedy returns the remedy that cures an attack.
func AttackToRemedy(attack Card) Card { return attackRemedy[attack] }

// AttackToSafety returns the safety that blocks an attack outright.
func AttackToSafety(attack Card) Card { return attackSafety[attack] }

// RemedyToAttack returns the attack a remedy cures.
func RemedyToAttack(remedy Card) Card {
	for a, r := range attackRemedy {
		if r == remedy {
			return a
		}
	}
	return CardNone
}

// RemedyToSafety returns the safety covering the same attack as a remedy.
func RemedyToSafety(remedy Card) Card {
	return attackSafety[RemedyToAttack(remedy)]
}

// Attacks returns all attack cards in a stable order.
func Attacks() []Card {
	return []Card{AttackAccident, AttackOutOfGas, AttackFlatTire, AttackStop, AttackSpeedLimit}
}

// Remedies returns all remedy cards in a stable order.
func Remedies() []Card {
	return []Card{RemedyRepairs, RemedyGasoline, RemedySpareTire, RemedyGo, RemedyEndOfLimit}
}

// MileageCards returns mileage cards in descending distance order.
func MileageCards() []Card {
	return []Card{Mile200, Mile100, Mile75, Mile50, Mile25}
}

// composition is the canonical 106-card deck.
var composition = map[Card]int{
	Mile25:              10,
	Mile50:              10,
	Mile75:              10,
	Mile100:             12,
	Mile200:             4,
	AttackAccident:      3,
	AttackOutOfGas:      3,
	AttackFlatTire:      3,
	AttackStop:          5,
	AttackSpeedLimit:    4,
	RemedyRepairs:       6,
	RemedyGasoline:      6,
	RemedySpareTire:     6,
	RemedyGo:            14,
	RemedyEndOfLimit:    6,
	SafetyDrivingAce:    1,
	SafetyExtraTank:     1,
	SafetyPunctureProof: 1,
	SafetyRightOfWay:    1,
}

// Composition returns a fresh copy of the canonical deck composition.
func Composition() map[Card]int {
	out := make(map[Card]int, len(composition))
	for c, n := range composition {
		out[c] = n
	}
	return out
}

// DeckSize is the total number of cards in a full deck.
func DeckSize() int {
	total := 0
	for _, n := range composition {
		total += n
	}
	return total
}
