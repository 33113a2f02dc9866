package equity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitIterations(t *testing.T) {
	tests := []struct {
		total, n int
		want     []int
	}{
		{100, 4, []int{25, 25, 25, 25}},
		{10, 3, []int{4, 3, 3}},
		{7, 4, []int{2, 2, 2, 1}},
		{3, 5, []int{1, 1, 1, 0, 0}},
		{5, 1, []int{5}},
		{5, 0, []int{5}},
	}

	for _, tt := range tests {
		got := splitIterations(tt.total, tt.n)
		assert.Equal(t, tt.want, got, "splitIterations(%d, %d)", tt.total, tt.n)

		sum := 0
		for _, c := range got {
			sum += c
		}
		assert.Equal(t, tt.total, sum, "chunks must sum to the total")
	}
}

func chunkTally(players, chunk int) *Tally {
	t := NewTally(players)
	t.Wins[chunk%players] = uint64(chunk + 1)
	t.Credit[chunk%players] = float64(chunk + 1)
	t.Outcomes = uint64(chunk + 1)
	return t
}

func TestRunParallelMatchesSequential(t *testing.T) {
	const players, chunks = 3, 17
	fn := func(c int) *Tally { return chunkTally(players, c) }

	sequential, err := runParallel(context.Background(), players, chunks, 1, fn)
	require.NoError(t, err)

	parallel, err := runParallel(context.Background(), players, chunks, 4, fn)
	require.NoError(t, err)

	assert.Equal(t, sequential.Wins, parallel.Wins)
	assert.Equal(t, sequential.Credit, parallel.Credit)
	assert.Equal(t, sequential.Outcomes, parallel.Outcomes)
}

func TestRunParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runParallel(ctx, 2, 8, 4, func(c int) *Tally { return NewTally(2) })
	assert.ErrorIs(t, err, context.Canceled)

	_, err = runParallel(ctx, 2, 1, 1, func(c int) *Tally { return NewTally(2) })
	assert.ErrorIs(t, err, context.Canceled)
}
