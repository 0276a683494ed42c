package card

// Factor is a named dimension of card similarity.
type Factor string

const (
	FactorInkCost    Factor = "ink_cost"
	FactorStrength   Factor = "strength"
	FactorWillpower  Factor = "willpower"
	FactorLorePoints Factor = "lore_points"
	FactorTags       Factor = "tags"
	FactorAbility    Factor = "ability"
	FactorMechanics  Factor = "mechanics"
	FactorInkColor   Factor = "ink_color"
	FactorCardType   Factor = "card_type"
	FactorInkwell    Factor = "inkwell"
)

// Factors lists every factor in display order.
var Factors = []Factor{
	FactorInkCost,
	FactorStrength,
	FactorWillpower,
	FactorLorePoints,
	FactorTags,
	FactorAbility,
	FactorMechanics,
	FactorInkColor,
	FactorCardType,
	FactorInkwell,
}

// CompactFactors are the factors shown on compact batch cards.
var CompactFactors = []Factor{
	FactorAbility,
	FactorMechanics,
	FactorInkCost,
}

var labels = map[Factor]string{
	FactorInkCost:    "Ink Cost",
	FactorStrength:   "Strength",
	FactorWillpower:  "Willpower",
	FactorLorePoints: "Lore Points",
	FactorTags:       "Tags",
	FactorAbility:    "Ability",
	FactorMechanics:  "Mechanics",
	FactorInkColor:   "Ink Color",
	FactorCardType:   "Card Type",
	FactorInkwell:    "Inkwell",
}

// Label returns the human readable name of f.
func (f Factor) Label() string {
	if l, ok := labels[f]; ok {
		return l
	}
	return string(f)
}

// CompactLabel returns the shorter label used on compact cards.
func (f Factor) CompactLabel() string {
	if f == FactorInkCost {
		return "Cost"
	}
	return f.Label()
}

// Valid reports whether f is a known factor.
func (f Factor) Valid() bool {
	_, ok := labels[f]
	return ok
}
