package equity

import "github.com/lox/holdem-equity/poker"

// Tally accumulates showdown outcomes for one worker. Workers never share a
// Tally; partial tallies are merged after all chunks complete, and Merge is
// associative and commutative (elementwise addition), so the merged result
// is independent of worker count and completion order.
type Tally struct {
	Wins   []uint64
	Ties   []uint64
	Losses []uint64
	// Credit is each player's share of outcomes: 1 per outright win plus an
	// equal split of every tied outcome. Credits sum to Outcomes across
	// players, which is what makes the normalized equities sum to 100%.
	Credit    []float64
	HandTypes [][poker.NumHandTypes]uint64
	Outcomes  uint64
}

// NewTally creates an empty tally for the given player count.
func NewTally(players int) *Tally {
	return &Tally{
		Wins:      make([]uint64, players),
		Ties:      make([]uint64, players),
		Losses:    make([]uint64, players),
		Credit:    make([]float64, players),
		HandTypes: make([][poker.NumHandTypes]uint64, players),
	}
}

// Players returns the player count the tally was sized for.
func (t *Tally) Players() int {
	return len(t.Wins)
}

// Merge folds other into t.
func (t *Tally) Merge(other *Tally) {
	for i := range t.Wins {
		t.Wins[i] += other.Wins[i]
		t.Ties[i] += other.Ties[i]
		t.Losses[i] += other.Losses[i]
		t.Credit[i] += other.Credit[i]
		for ht := range t.HandTypes[i] {
			t.HandTypes[i][ht] += other.HandTypes[i][ht]
		}
	}
	t.Outcomes += other.Outcomes
}

// recordShowdown applies the win/tie rules for one complete deal given the
// per-player hand ranks. Tie credit splits equally among tied players, so
// each outcome contributes exactly 1.0 of credit across all players.
func (t *Tally) recordShowdown(ranks []poker.HandRank) {
	best := ranks[0]
	for _, r := range ranks[1:] {
		if r < best {
			best = r
		}
	}

	winners := 0
	for _, r := range ranks {
		if r == best {
			winners++
		}
	}

	for i, r := range ranks {
		t.HandTypes[i][r.Type()]++
		switch {
		case r != best:
			t.Losses[i]++
		case winners == 1:
			t.Wins[i]++
			t.Credit[i]++
		default:
			t.Ties[i]++
			t.Credit[i] += 1.0 / float64(winners)
		}
	}
	t.Outcomes++
}
