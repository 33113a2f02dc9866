package equity

import (
	rand "math/rand/v2"

	"github.com/lox/holdem-equity/poker"
)

// IterationBracket maps a player-count ceiling to a Monte Carlo iteration
// budget. More players cover more of the outcome space per sample, so the
// budget shrinks as the table fills.
type IterationBracket struct {
	MaxPlayers int
	Iterations int
}

// IterationBudgets is the adaptive budget table, kept as data rather than
// control flow so the heuristic stays inspectable and testable on its own.
var IterationBudgets = []IterationBracket{
	{MaxPlayers: 3, Iterations: 120000},
	{MaxPlayers: 6, Iterations: 100000},
	{MaxPlayers: 9, Iterations: 80000},
}

// IterationBudget returns the default iteration count for a player count.
func IterationBudget(players int) int {
	for _, b := range IterationBudgets {
		if players <= b.MaxPlayers {
			return b.Iterations
		}
	}
	return IterationBudgets[len(IterationBudgets)-1].Iterations
}

// sampler draws uniformly random completions of the deal, without
// replacement within each draw and independently across iterations. Each
// worker owns one sampler run with its own RNG and scratch deck, so no
// mutable state crosses goroutines.
type sampler struct {
	players   [][]poker.Card
	boardHand poker.Hand
	remaining []poker.Card
	missing   int
	unknown   int
	exec      Executor
}

func newSampler(req *Request, remaining []poker.Card, exec Executor) *sampler {
	return &sampler{
		players:   req.Players,
		boardHand: poker.NewHand(req.Board...),
		remaining: remaining,
		missing:   boardSize - len(req.Board),
		unknown:   len(req.unknownPlayers()),
		exec:      exec,
	}
}

// run executes one worker's iteration chunk into a fresh tally.
func (s *sampler) run(iterations int, rng *rand.Rand) *Tally {
	tally := NewTally(len(s.players))
	batch := newDealBatch(len(s.players), s.exec, tally)

	scratch := make([]poker.Card, len(s.remaining))
	hands := make([]poker.Hand, len(s.players))
	need := s.missing + 2*s.unknown

	for it := 0; it < iterations; it++ {
		// Partial Fisher-Yates: only the first `need` positions are drawn,
		// giving a uniform duplicate-free sample of the remaining deck.
		copy(scratch, s.remaining)
		for k := 0; k < need; k++ {
			j := k + rng.IntN(len(scratch)-k)
			scratch[k], scratch[j] = scratch[j], scratch[k]
		}

		board := s.boardHand
		for k := 0; k < s.missing; k++ {
			board.AddCard(scratch[k])
		}

		next := s.missing
		for i, hole := range s.players {
			h := board
			if len(hole) == 0 {
				h.AddCard(scratch[next])
				h.AddCard(scratch[next+1])
				next += 2
			} else {
				h.AddCard(hole[0])
				h.AddCard(hole[1])
			}
			hands[i] = h
		}
		batch.add(hands)
	}

	batch.flush()
	return tally
}
