package equity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-equity/poker"
)

func TestCalculateRejectsInvalidRequests(t *testing.T) {
	engine := New(Config{Workers: 1, Seed: 1})

	_, err := engine.Calculate(context.Background(), Request{Players: holes("AH KD")})
	require.Error(t, err)

	var invalid *InvalidInputError
	assert.ErrorAs(t, err, &invalid)
}

func TestCalculateRiver(t *testing.T) {
	engine := New(Config{Workers: 2, Seed: 1})

	result, err := engine.Calculate(context.Background(), Request{
		Players: holes("AH AD", "KS KD"),
		Board:   poker.MustParseCards("2C 7D 8S 9H 3C"),
	})
	require.NoError(t, err)

	assert.Equal(t, MethodEnumeration, result.Method)
	assert.Equal(t, "cpu", result.Executor)
	assert.Equal(t, uint64(1), result.Outcomes)
	assert.Equal(t, 100.0, result.Players[0].WinPct)
	assert.Equal(t, 100.0, result.Players[0].Equity)
	assert.Equal(t, 0.0, result.Players[1].WinPct)
	assert.Equal(t, 100.0, result.Players[1].LossPct)
}

func TestCalculateFlopEnumeration(t *testing.T) {
	engine := New(Config{Workers: 4, Seed: 1})

	result, err := engine.Calculate(context.Background(), Request{
		Players: holes("AH KD", "KS QC", "QS JC"),
		Board:   poker.MustParseCards("2C 7D 8S"),
	})
	require.NoError(t, err)

	assert.Equal(t, MethodEnumeration, result.Method)

	// Three known players at the flop: C(43, 2) board completions.
	assert.Equal(t, uint64(903), result.Outcomes)

	total := 0.0
	for _, p := range result.Players {
		total += p.Equity
	}
	assert.InDelta(t, 100.0, total, 1e-9)
}

func TestCalculateExactTie(t *testing.T) {
	// Both players play the board, so every outcome is a full tie.
	engine := New(Config{Workers: 1, Seed: 1})

	result, err := engine.Calculate(context.Background(), Request{
		Players: holes("2H 3D", "2S 3C"),
		Board:   poker.MustParseCards("AS KS QD JH 9C"),
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(1), result.Players[0].Ties)
	assert.Equal(t, uint64(1), result.Players[1].Ties)
	assert.InDelta(t, 50.0, result.Players[0].Equity, 1e-9)
	assert.InDelta(t, 50.0, result.Players[1].Equity, 1e-9)
}

func TestCalculateWorkerCountInvariance(t *testing.T) {
	req := Request{
		Players: holes("AH KD", "KS QC"),
		Board:   poker.MustParseCards("2C 7D 8S"),
	}

	single, err := New(Config{Workers: 1, Seed: 1}).Calculate(context.Background(), req)
	require.NoError(t, err)

	parallel, err := New(Config{Workers: 8, Seed: 1}).Calculate(context.Background(), req)
	require.NoError(t, err)

	// Enumeration is exact: the merged result is identical regardless of how
	// the chunks were scheduled.
	assert.Equal(t, single.Outcomes, parallel.Outcomes)
	for i := range single.Players {
		assert.Equal(t, single.Players[i].Wins, parallel.Players[i].Wins)
		assert.Equal(t, single.Players[i].Ties, parallel.Players[i].Ties)
		assert.InDelta(t, single.Players[i].Equity, parallel.Players[i].Equity, 1e-12)
	}
}

func TestCalculatePreflopMonteCarlo(t *testing.T) {
	engine := New(Config{Workers: 4, Seed: 42})

	result, err := engine.Calculate(context.Background(), Request{
		Players: holes("AH AD", "KS KD"),
	})
	require.NoError(t, err)

	assert.Equal(t, MethodMonteCarlo, result.Method)
	assert.Equal(t, uint64(IterationBudget(2)), result.Outcomes)
	assert.InDelta(t, 81.9, result.Players[0].WinPct, 3.0)

	total := result.Players[0].Equity + result.Players[1].Equity
	assert.InDelta(t, 100.0, total, 1e-6)
}

func TestCalculateMonteCarloDeterministicPerSeed(t *testing.T) {
	req := Request{Players: holes("AH AD", "KS KD", "QS QC")}

	run := func() *Result {
		result, err := New(Config{Workers: 4, Seed: 99, Iterations: 20000}).
			Calculate(context.Background(), req)
		require.NoError(t, err)
		return result
	}

	// An Iterations override below the bracket keeps the bracket budget.
	a, b := run(), run()
	assert.Equal(t, uint64(IterationBudget(3)), a.Outcomes)
	for i := range a.Players {
		assert.Equal(t, a.Players[i].Wins, b.Players[i].Wins)
		assert.Equal(t, a.Players[i].Ties, b.Players[i].Ties)
	}
}

func TestCalculateIterationOverride(t *testing.T) {
	engine := New(Config{Workers: 2, Seed: 5, Iterations: 150000})

	result, err := engine.Calculate(context.Background(), Request{
		Players: holes("AH AD", "KS KD"),
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(150000), result.Outcomes)
}

func TestCalculateUnknownOpponent(t *testing.T) {
	engine := New(Config{Workers: 4, Seed: 1})

	result, err := engine.Calculate(context.Background(), Request{
		Players: holes("AH AD", ""),
		Board:   poker.MustParseCards("2C 7D 8S 9H 3C"),
	})
	require.NoError(t, err)

	assert.Equal(t, MethodEnumeration, result.Method)
	assert.Equal(t, enumerationOutcomes(45, 0, 1), result.Outcomes)
	assert.Greater(t, result.Players[0].Equity, result.Players[1].Equity)
}

func TestCalculateReportsConfiguredExecutor(t *testing.T) {
	// The result names the executor the engine scored with, not whatever the
	// registry would hand out now.
	engine := New(Config{Workers: 1, Seed: 1, Executor: fakeExecutor{"simd"}})

	result, err := engine.Calculate(context.Background(), Request{
		Players: holes("AH AD", "KS KD"),
		Board:   poker.MustParseCards("2C 7D 8S 9H 3C"),
	})
	require.NoError(t, err)

	assert.Equal(t, "simd", result.Executor)
	assert.Equal(t, "cpu", ActiveExecutor().Name())
}

func TestCalculateCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := New(Config{Workers: 4, Seed: 1})
	_, err := engine.Calculate(ctx, Request{
		Players: holes("AH KD", "KS QC"),
		Board:   poker.MustParseCards("2C 7D 8S"),
	})
	assert.ErrorIs(t, err, context.Canceled)
}
