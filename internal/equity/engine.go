package equity

import (
	"context"
	rand "math/rand/v2"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-equity/internal/randutil"
	"github.com/lox/holdem-equity/poker"
)

// Config configures an Engine.
type Config struct {
	// Workers caps parallelism. 0 means one worker per CPU.
	Workers int
	// Iterations overrides the Monte Carlo budget, but never below the
	// player-count bracket from IterationBudgets.
	Iterations int
	// Seed makes Monte Carlo runs reproducible for a fixed worker count.
	// 0 seeds from the wall clock.
	Seed int64
	// Logger receives debug-level computation traces. Nil disables logging.
	Logger *log.Logger
	// Executor scores deal batches. Nil selects ActiveExecutor.
	Executor Executor
}

// Engine is the single entry point for equity calculations. It validates
// the request, picks the computation path from the board size, fans the
// work out across workers and normalizes the merged tally into percentages.
// Engines are stateless across calls and safe for concurrent use.
type Engine struct {
	workers    int
	iterations int
	seed       int64
	logger     *log.Logger
	exec       Executor
}

// New creates an engine, applying defaults for zero-value config fields.
func New(cfg Config) *Engine {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	exec := cfg.Executor
	if exec == nil {
		exec = ActiveExecutor()
	}
	return &Engine{
		workers:    workers,
		iterations: cfg.Iterations,
		seed:       seed,
		logger:     cfg.Logger,
		exec:       exec,
	}
}

// Calculate computes the win/tie/loss distribution for the request.
// Preflop requests (0 board cards) run Monte Carlo sampling; flop, turn and
// river requests run exact enumeration. The call is synchronous: it returns
// only after every chunk has completed and merged.
func (e *Engine) Calculate(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	remaining := poker.RemainingCards(req.usedCards())

	var (
		tally   *Tally
		method  Method
		workers int
		err     error
	)
	if len(req.Board) == 0 {
		method = MethodMonteCarlo
		tally, workers, err = e.monteCarlo(ctx, &req, remaining)
	} else {
		method = MethodEnumeration
		tally, workers, err = e.enumerate(ctx, &req, remaining)
	}
	if err != nil {
		return nil, err
	}

	result := normalize(tally)
	result.Method = method
	result.Workers = workers
	result.Executor = e.exec.Name()
	result.Elapsed = time.Since(start)

	if e.logger != nil {
		e.logger.Debug("equity calculated",
			"method", method,
			"players", len(req.Players),
			"board", len(req.Board),
			"outcomes", result.Outcomes,
			"workers", workers,
			"executor", result.Executor,
			"elapsed", result.Elapsed)
	}
	return result, nil
}

func (e *Engine) enumerate(ctx context.Context, req *Request, remaining []poker.Card) (*Tally, int, error) {
	enum := newEnumerator(req, remaining, e.exec)
	chunks := enum.chunks()

	workers := e.workers
	if workers > chunks {
		workers = chunks
	}

	tally, err := runParallel(ctx, len(req.Players), chunks, workers, enum.runChunk)
	if err != nil {
		return nil, 0, err
	}
	return tally, workers, nil
}

func (e *Engine) monteCarlo(ctx context.Context, req *Request, remaining []poker.Card) (*Tally, int, error) {
	budget := IterationBudget(len(req.Players))
	if e.iterations > budget {
		budget = e.iterations
	}

	workers := e.workers
	if workers > budget {
		workers = budget
	}
	chunks := splitIterations(budget, workers)

	// Worker RNGs are derived sequentially from the master seed so the set
	// of streams is deterministic for a fixed worker count.
	master := randutil.New(e.seed)
	rngs := make([]*rand.Rand, workers)
	for i := range rngs {
		rngs[i] = randutil.Derive(master)
	}

	smp := newSampler(req, remaining, e.exec)
	tally, err := runParallel(ctx, len(req.Players), workers, workers, func(c int) *Tally {
		return smp.run(chunks[c], rngs[c])
	})
	if err != nil {
		return nil, 0, err
	}
	return tally, workers, nil
}

// normalize converts a merged tally into percentages. Each outcome hands out
// exactly one unit of credit (split equally on ties), so equities sum to 100
// across players.
func normalize(t *Tally) *Result {
	players := t.Players()
	result := &Result{
		Players:  make([]PlayerResult, players),
		Outcomes: t.Outcomes,
	}

	total := float64(t.Outcomes)
	for i := range result.Players {
		p := &result.Players[i]
		p.Wins = t.Wins[i]
		p.Ties = t.Ties[i]
		p.Losses = t.Losses[i]
		p.HandTypes = t.HandTypes[i]
		if total > 0 {
			p.WinPct = float64(t.Wins[i]) / total * 100
			p.TiePct = float64(t.Ties[i]) / total * 100
			p.LossPct = float64(t.Losses[i]) / total * 100
			p.Equity = t.Credit[i] / total * 100
		}
	}
	return result
}
