package equity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-equity/poker"
)

func TestBinomial(t *testing.T) {
	tests := []struct {
		n, k int
		want uint64
	}{
		{45, 2, 990},
		{46, 1, 46},
		{45, 0, 1},
		{5, 5, 1},
		{4, 5, 0},
		{10, 3, 120},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, binomial(tt.n, tt.k), "binomial(%d, %d)", tt.n, tt.k)
	}
}

func TestEnumerationOutcomes(t *testing.T) {
	// Two known players at the flop: choose 2 of 45 board cards.
	assert.Equal(t, uint64(990), enumerationOutcomes(45, 2, 0))

	// Turn: one board card left.
	assert.Equal(t, uint64(46), enumerationOutcomes(46, 1, 0))

	// River: everything known, a single outcome.
	assert.Equal(t, uint64(1), enumerationOutcomes(45, 0, 0))

	// River with one unknown opponent: every two-card holding.
	assert.Equal(t, uint64(990), enumerationOutcomes(45, 0, 1))

	// Turn with one unknown opponent: 46 board cards x C(45, 2) holdings.
	assert.Equal(t, uint64(46*990), enumerationOutcomes(46, 1, 1))
}

// Runs the enumerator chunk by chunk and checks the merged tally covers every
// completion exactly once.
func enumerateAll(t *testing.T, req Request) *Tally {
	t.Helper()
	require.NoError(t, req.Validate())

	remaining := poker.RemainingCards(req.usedCards())
	enum := newEnumerator(&req, remaining, cpuExecutor{})

	merged := NewTally(len(req.Players))
	for c := 0; c < enum.chunks(); c++ {
		merged.Merge(enum.runChunk(c))
	}
	return merged
}

func TestEnumeratorFlopCoverage(t *testing.T) {
	req := Request{
		Players: holes("AH KD", "KS QC"),
		Board:   poker.MustParseCards("2C 7D 8S"),
	}
	tally := enumerateAll(t, req)

	assert.Equal(t, uint64(990), tally.Outcomes)

	// Every outcome resolves to exactly one unit of credit.
	assert.InDelta(t, float64(tally.Outcomes), tally.Credit[0]+tally.Credit[1], 1e-9)

	for i := 0; i < 2; i++ {
		assert.Equal(t, tally.Outcomes, tally.Wins[i]+tally.Ties[i]+tally.Losses[i])
	}
}

func TestEnumeratorRiverSingleOutcome(t *testing.T) {
	req := Request{
		Players: holes("AH AD", "KS KD"),
		Board:   poker.MustParseCards("2C 7D 8S 9H 3C"),
	}
	tally := enumerateAll(t, req)

	assert.Equal(t, uint64(1), tally.Outcomes)
	assert.Equal(t, uint64(1), tally.Wins[0], "aces win the showdown outright")
	assert.Equal(t, uint64(1), tally.Losses[1])
}

func TestEnumeratorUnknownOpponent(t *testing.T) {
	req := Request{
		Players: holes("AH AD", ""),
		Board:   poker.MustParseCards("2C 7D 8S 9H 3C"),
	}
	tally := enumerateAll(t, req)

	remaining := 52 - 7
	assert.Equal(t, enumerationOutcomes(remaining, 0, 1), tally.Outcomes)
	assert.InDelta(t, float64(tally.Outcomes), tally.Credit[0]+tally.Credit[1], 1e-9)

	// Overpair aces on a dry board beat most random holdings.
	assert.Greater(t, tally.Wins[0], tally.Losses[0])
}

func TestEnumeratorChunkingDisjoint(t *testing.T) {
	req := Request{
		Players: holes("AH KD", "KS QC"),
		Board:   poker.MustParseCards("2C 7D 8S"),
	}
	require.NoError(t, req.Validate())

	remaining := poker.RemainingCards(req.usedCards())
	enum := newEnumerator(&req, remaining, cpuExecutor{})

	assert.Equal(t, len(remaining)-1, enum.chunks())

	// Chunk sizes sum to the exact outcome count and shrink monotonically,
	// since chunk c fixes the first drawn card at index c.
	var total uint64
	prev := uint64(1 << 62)
	for c := 0; c < enum.chunks(); c++ {
		outcomes := enum.runChunk(c).Outcomes
		assert.LessOrEqual(t, outcomes, prev, "chunk %d", c)
		prev = outcomes
		total += outcomes
	}
	assert.Equal(t, uint64(990), total)
}
