package equity

import "github.com/lox/holdem-equity/poker"

// enumerator walks every possible completion of a post-flop deal: the
// missing board cards drawn as k-combinations of the remaining deck, crossed
// with every disjoint assignment of two cards to each unknown opponent.
// Each complete deal is scored exactly once, with no repetition and no
// omission, so the resulting probabilities are exact.
type enumerator struct {
	players   [][]poker.Card
	boardHand poker.Hand
	remaining []poker.Card
	missing   int
	unknown   []int
	exec      Executor
}

func newEnumerator(req *Request, remaining []poker.Card, exec Executor) *enumerator {
	return &enumerator{
		players:   req.Players,
		boardHand: poker.NewHand(req.Board...),
		remaining: remaining,
		missing:   boardSize - len(req.Board),
		unknown:   req.unknownPlayers(),
		exec:      exec,
	}
}

// chunks returns the number of independent work chunks. Completions are
// grouped by their first (lowest-index) drawn card, which makes chunks
// contiguous, non-overlapping and collectively exhaustive. The degenerate
// river case is a single chunk.
func (e *enumerator) chunks() int {
	if e.missing == 0 {
		return 1
	}
	return len(e.remaining) - e.missing + 1
}

// runChunk enumerates every completion in chunk c into a fresh tally.
func (e *enumerator) runChunk(c int) *Tally {
	tally := NewTally(len(e.players))
	batch := newDealBatch(len(e.players), e.exec, tally)

	scratch := &enumScratch{
		drawn: make([]poker.Card, e.missing),
		holes: make([][2]poker.Card, len(e.unknown)),
		hands: make([]poker.Hand, len(e.players)),
		batch: batch,
	}

	if e.missing == 0 {
		e.assignOpponents(scratch, e.remaining, 0)
	} else {
		scratch.drawn[0] = e.remaining[c]
		e.completeBoard(scratch, c+1, 1)
	}

	batch.flush()
	return tally
}

type enumScratch struct {
	drawn []poker.Card
	holes [][2]poker.Card
	hands []poker.Hand
	batch *dealBatch
}

// completeBoard extends the drawn board cards from remaining[start:] until
// the board reaches five cards, then hands off to opponent assignment.
func (e *enumerator) completeBoard(s *enumScratch, start, depth int) {
	if depth == e.missing {
		if len(e.unknown) == 0 {
			e.emit(s)
			return
		}
		avail := e.availableAfterDraw(s)
		e.assignOpponents(s, avail, 0)
		return
	}
	for i := start; i <= len(e.remaining)-(e.missing-depth); i++ {
		s.drawn[depth] = e.remaining[i]
		e.completeBoard(s, i+1, depth+1)
	}
}

// availableAfterDraw filters the drawn board cards out of the remaining deck.
func (e *enumerator) availableAfterDraw(s *enumScratch) []poker.Card {
	drawnMask := poker.NewHand(s.drawn...)
	avail := make([]poker.Card, 0, len(e.remaining))
	for _, c := range e.remaining {
		if !drawnMask.HasCard(c) {
			avail = append(avail, c)
		}
	}
	return avail
}

// assignOpponents enumerates disjoint two-card holdings for each unknown
// player in position order. Opponents are distinct, so assignments are
// ordered: every player takes every pair not already claimed.
func (e *enumerator) assignOpponents(s *enumScratch, avail []poker.Card, idx int) {
	if idx == len(e.unknown) {
		e.emit(s)
		return
	}
	for i := 0; i < len(avail)-1; i++ {
		for j := i + 1; j < len(avail); j++ {
			s.holes[idx] = [2]poker.Card{avail[i], avail[j]}
			next := withoutPair(avail, i, j)
			e.assignOpponents(s, next, idx+1)
		}
	}
}

func withoutPair(avail []poker.Card, i, j int) []poker.Card {
	out := make([]poker.Card, 0, len(avail)-2)
	for k, c := range avail {
		if k != i && k != j {
			out = append(out, c)
		}
	}
	return out
}

// emit assembles the seven-card hand for every player and feeds the deal to
// the batch.
func (e *enumerator) emit(s *enumScratch) {
	board := e.boardHand
	for _, c := range s.drawn {
		board.AddCard(c)
	}

	u := 0
	for i, hole := range e.players {
		h := board
		if len(hole) == 0 {
			h.AddCard(s.holes[u][0])
			h.AddCard(s.holes[u][1])
			u++
		} else {
			h.AddCard(hole[0])
			h.AddCard(hole[1])
		}
		s.hands[i] = h
	}
	s.batch.add(s.hands)
}

// enumerationOutcomes predicts the exact outcome count:
// C(remaining, missing) x the product of C(left, 2) over unknown opponents.
func enumerationOutcomes(remaining, missing, unknowns int) uint64 {
	total := binomial(remaining, missing)
	left := remaining - missing
	for i := 0; i < unknowns; i++ {
		total *= binomial(left, 2)
		left -= 2
	}
	return total
}

func binomial(n, k int) uint64 {
	if k < 0 || k > n {
		return 0
	}
	result := uint64(1)
	for i := 1; i <= k; i++ {
		result = result * uint64(n-k+i) / uint64(i)
	}
	return result
}
