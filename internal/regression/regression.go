// Package regression replays recorded equity calculations and checks the
// engine against their collected win rates, persisting the comparison as a
// JSON report.
package regression

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-equity/internal/equity"
	"github.com/lox/holdem-equity/internal/statistics"
	"github.com/lox/holdem-equity/poker"
)

// Case is one recorded calculation: the request plus the win rates collected
// from the reference implementation.
type Case struct {
	NumPlayers        int                `json:"num_players"`
	HoleCards         [][]string         `json:"hole_cards"`
	CommunityCards    []string           `json:"community_cards"`
	CollectedWinRates map[string]float64 `json:"collected_win_rates"`
}

// CaseResult records one replayed case with the expected-vs-calculated
// comparison.
type CaseResult struct {
	TestCase           int                `json:"test_case"`
	NumPlayers         int                `json:"num_players"`
	HoleCards          [][]string         `json:"hole_cards"`
	CommunityCards     []string           `json:"community_cards"`
	ExpectedWinRates   map[string]float64 `json:"expected_win_rates"`
	CalculatedWinRates map[string]float64 `json:"calculated_win_rates"`
	Differences        map[string]float64 `json:"differences"`
	ExecutionTime      float64            `json:"execution_time"`
	Passed             bool               `json:"passed"`
}

// Reporter receives progress callbacks while a suite runs.
type Reporter interface {
	CaseStart(num, total int)
	CaseDone(result CaseResult)
}

type nopReporter struct{}

func (nopReporter) CaseStart(int, int) {}
func (nopReporter) CaseDone(CaseResult) {}

// Config configures a Runner.
type Config struct {
	Engine *equity.Engine
	// Clock measures per-case execution time; injectable for tests.
	Clock quartz.Clock
	// Tolerance is the pass threshold in percentage points (default 1.0).
	Tolerance float64
	Logger    *log.Logger
	Reporter  Reporter
}

// Runner replays cases through the engine.
type Runner struct {
	engine    *equity.Engine
	clock     quartz.Clock
	tolerance float64
	logger    *log.Logger
	reporter  Reporter
}

// New creates a runner, applying defaults for zero-value config fields.
func New(cfg Config) *Runner {
	clock := cfg.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}
	tolerance := cfg.Tolerance
	if tolerance == 0 {
		tolerance = 1.0
	}
	reporter := cfg.Reporter
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &Runner{
		engine:    cfg.Engine,
		clock:     clock,
		tolerance: tolerance,
		logger:    cfg.Logger,
		reporter:  reporter,
	}
}

// LoadCases reads a JSON test-case file.
func LoadCases(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read test data: %w", err)
	}
	var cases []Case
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("failed to parse test data %s: %w", path, err)
	}
	return cases, nil
}

// SaveResults writes results as indented JSON.
func SaveResults(results []CaseResult, path string) error {
	data, err := json.MarshalIndent(results, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write results to %s: %w", path, err)
	}
	return nil
}

// Run replays every case and returns the per-case comparisons. A case whose
// request the engine rejects aborts the run: recorded cases are expected to
// be valid, so a rejection means the suite file is broken.
func (r *Runner) Run(ctx context.Context, cases []Case) ([]CaseResult, error) {
	results := make([]CaseResult, 0, len(cases))

	for i, tc := range cases {
		r.reporter.CaseStart(i+1, len(cases))

		req, err := buildRequest(tc)
		if err != nil {
			return nil, fmt.Errorf("test case %d: %w", i+1, err)
		}

		start := r.clock.Now()
		calc, err := r.engine.Calculate(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("test case %d: %w", i+1, err)
		}
		elapsed := r.clock.Since(start)

		calculated := make(map[string]float64, len(calc.Players))
		for p, pr := range calc.Players {
			calculated[PlayerKey(p)] = round2(pr.Equity)
		}

		differences := make(map[string]float64, len(tc.CollectedWinRates))
		passed := true
		for player, expected := range tc.CollectedWinRates {
			diff := math.Abs(calculated[player] - expected)
			differences[player] = diff
			if diff > r.tolerance {
				passed = false
			}
		}

		result := CaseResult{
			TestCase:           i + 1,
			NumPlayers:         tc.NumPlayers,
			HoleCards:          tc.HoleCards,
			CommunityCards:     tc.CommunityCards,
			ExpectedWinRates:   tc.CollectedWinRates,
			CalculatedWinRates: calculated,
			Differences:        differences,
			ExecutionTime:      elapsed.Seconds(),
			Passed:             passed,
		}
		results = append(results, result)
		r.reporter.CaseDone(result)

		if r.logger != nil {
			r.logger.Info("test case finished",
				"case", i+1,
				"passed", passed,
				"elapsed", elapsed)
		}
	}

	return results, nil
}

// SuiteStats summarizes a suite run: pass counts plus the spread of every
// per-player deviation from the collected win rates.
type SuiteStats struct {
	Passed        int
	Total         int
	MeanDeviation float64
	MaxDeviation  float64
	P95Deviation  float64
}

// Stats folds all per-player deviations into one spread summary.
func Stats(results []CaseResult) SuiteStats {
	var dev statistics.Estimates
	stats := SuiteStats{Total: len(results)}
	for _, r := range results {
		if r.Passed {
			stats.Passed++
		}
		for _, d := range r.Differences {
			dev.Add(d)
		}
	}
	if dev.Count() == 0 {
		return stats
	}
	stats.MeanDeviation = dev.Mean()
	stats.MaxDeviation = dev.MaxAbsDeviation(0)
	stats.P95Deviation = dev.Quantile(0.95)
	return stats
}

// Summary counts passed cases.
func Summary(results []CaseResult) (passed, total int) {
	s := Stats(results)
	return s.Passed, s.Total
}

// PlayerKey names players the way the recorded suites do.
func PlayerKey(i int) string {
	return fmt.Sprintf("Player %d", i+1)
}

func buildRequest(tc Case) (equity.Request, error) {
	var req equity.Request

	if tc.NumPlayers != len(tc.HoleCards) {
		return req, fmt.Errorf("num_players %d does not match %d hole card pairs", tc.NumPlayers, len(tc.HoleCards))
	}

	req.Players = make([][]poker.Card, len(tc.HoleCards))
	for i, pair := range tc.HoleCards {
		cards := make([]poker.Card, 0, len(pair))
		for _, s := range pair {
			c, err := poker.ParseCard(s)
			if err != nil {
				return req, err
			}
			cards = append(cards, c)
		}
		req.Players[i] = cards
	}

	req.Board = make([]poker.Card, 0, len(tc.CommunityCards))
	for _, s := range tc.CommunityCards {
		c, err := poker.ParseCard(s)
		if err != nil {
			return req, err
		}
		req.Board = append(req.Board, c)
	}

	return req, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
