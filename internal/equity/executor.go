package equity

import (
	"sync"

	"github.com/lox/holdem-equity/poker"
)

// Executor scores batches of complete deals into a tally. A batch is laid
// out deal-major: deal d occupies hands[d*players : (d+1)*players], and every
// hand holds exactly seven cards (two hole plus the full board).
//
// The default executor evaluates on the CPU. Accelerated backends
// (vectorized or GPU scoring) drop in by registering a factory; the engine
// behaves identically under any executor, within sampling variance.
type Executor interface {
	Name() string
	Score(hands []poker.Hand, players int, t *Tally)
}

// ExecutorFactory probes for an accelerated backend, reporting whether it is
// available on this machine.
type ExecutorFactory func() (Executor, bool)

var (
	executorMu        sync.RWMutex
	executorFactories []ExecutorFactory
)

// RegisterExecutor adds an accelerated backend candidate. Later
// registrations take precedence when available.
func RegisterExecutor(f ExecutorFactory) {
	executorMu.Lock()
	defer executorMu.Unlock()
	executorFactories = append(executorFactories, f)
}

// ActiveExecutor reports the executor the engine will score with: the most
// recently registered available backend, falling back to the CPU executor.
func ActiveExecutor() Executor {
	executorMu.RLock()
	defer executorMu.RUnlock()
	for i := len(executorFactories) - 1; i >= 0; i-- {
		if exec, ok := executorFactories[i](); ok {
			return exec
		}
	}
	return cpuExecutor{}
}

// cpuExecutor is the default scalar scoring path.
type cpuExecutor struct{}

func (cpuExecutor) Name() string { return "cpu" }

func (cpuExecutor) Score(hands []poker.Hand, players int, t *Tally) {
	ranks := poker.EvaluateBatch(hands, nil)
	for off := 0; off+players <= len(ranks); off += players {
		t.recordShowdown(ranks[off : off+players])
	}
}

// dealBatch buffers assembled deals so executors score many at once rather
// than per showdown. Stateless executors see only full batches plus a final
// partial flush.
type dealBatch struct {
	hands   []poker.Hand
	players int
	exec    Executor
	tally   *Tally
}

const dealBatchSize = 128

func newDealBatch(players int, exec Executor, tally *Tally) *dealBatch {
	return &dealBatch{
		hands:   make([]poker.Hand, 0, dealBatchSize*players),
		players: players,
		exec:    exec,
		tally:   tally,
	}
}

// add appends one complete deal's per-player hands, flushing when full.
func (b *dealBatch) add(hands []poker.Hand) {
	b.hands = append(b.hands, hands...)
	if len(b.hands) >= dealBatchSize*b.players {
		b.flush()
	}
}

func (b *dealBatch) flush() {
	if len(b.hands) == 0 {
		return
	}
	b.exec.Score(b.hands, b.players, b.tally)
	b.hands = b.hands[:0]
}
