package oddsapi

// QuerySpec is one rung of the request-variant ladder: a concrete
// markets/bookmakers combination to ask the upstream for. The ladder runs
// from most specific to least specific because the upstream returns 422
// when a requested combination is unavailable for the current season phase.
type QuerySpec struct {
	Markets     []string
	Bookmakers  []string
	Description string
}

// namedBookmakers are the shops requested on the first rung. Narrower rungs
// drop the restriction and let the upstream report whichever books it has.
var namedBookmakers = []string{"draftkings", "fanduel", "betmgm", "caesars"}

// DefaultLadder returns the descending variant ladder for a bulk odds fetch.
func DefaultLadder() []QuerySpec {
	return []QuerySpec{
		{
			Markets:     []string{"h2h", "spreads", "totals"},
			Bookmakers:  namedBookmakers,
			Description: "all markets, named bookmakers",
		},
		{
			Markets:     []string{"h2h", "spreads", "totals"},
			Description: "all markets, any bookmaker",
		},
		{
			Markets:     []string{"h2h", "spreads"},
			Description: "moneyline and spreads",
		},
		{
			Markets:     []string{"h2h"},
			Description: "moneyline only",
		},
	}
}

// ladderState tracks progress through the variant ladder. Transitions are
// Pending -> Trying(i) -> Succeeded | Exhausted, with fatal classifications
// jumping straight out of Trying.
type ladderState int

const (
	ladderPending ladderState = iota
	ladderTrying
	ladderSucceeded
	ladderExhausted
)

type variantLadder struct {
	variants []QuerySpec
	index    int
	state    ladderState
}

func newVariantLadder(variants []QuerySpec) *variantLadder {
	return &variantLadder{variants: variants, state: ladderPending}
}

// next advances to the following variant. Returns false once the ladder is
// exhausted or already resolved.
func (l *variantLadder) next() (QuerySpec, bool) {
	switch l.state {
	case ladderSucceeded, ladderExhausted:
		return QuerySpec{}, false
	case ladderTrying:
		l.index++
	default:
		l.state = ladderTrying
	}

	if l.index >= len(l.variants) {
		l.state = ladderExhausted
		return QuerySpec{}, false
	}
	return l.variants[l.index], true
}

func (l *variantLadder) succeed() {
	l.state = ladderSucceeded
}

// attempts reports how many variants were tried so far.
func (l *variantLadder) attempts() int {
	if l.state == ladderPending {
		return 0
	}
	n := l.index + 1
	if n > len(l.variants) {
		n = len(l.variants)
	}
	return n
}
