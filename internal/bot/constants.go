package bot

// Constants are the tunable heuristic weights of the counting engine. They
// are immutable for the lifetime of an engine; Tuple exposes them in a fixed
// order for tuning runs and cross-version comparison.
type Constants struct {
	// RemedyDiscardBoost compounds protection odds once per suspicious
	// remedy discard recorded against a team's players.
	RemedyDiscardBoost float64
	// DiscardMovePenalty scales discard values so any play with positive
	// value outranks every discard.
	DiscardMovePenalty float64
	// SafetyHoardFactor undervalues proactive safety plays to keep them in
	// hand for coup fourré.
	SafetyHoardFactor float64
	// AttackQualityStop and AttackQualityLimit discount the delay-only
	// attacks; the remaining attacks carry full weight.
	AttackQualityStop  float64
	AttackQualityLimit float64
	// DupePenaltyFactor softens the 1/n duplicate-sharing penalty.
	DupePenaltyFactor float64
}

// DefaultConstants is the tuned baseline.
var DefaultConstants = Constants{
	RemedyDiscardBoost: 1.5,
	DiscardMovePenalty: 0.001,
	SafetyHoardFactor:  0.6,
	AttackQualityStop:  0.25,
	AttackQualityLimit: 0.25,
	DupePenaltyFactor:  3,
}

// Tuple returns the weights as a fixed-order tuple.
func (c Constants) Tuple() [6]float64 {
	return [6]float64{
		c.RemedyDiscardBoost,
		c.DiscardMovePenalty,
		c.SafetyHoardFactor,
		c.AttackQualityStop,
		c.AttackQualityLimit,
		c.DupePenaltyFactor,
	}
}
