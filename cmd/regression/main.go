// regression replays recorded equity calculations against the engine and
// writes a JSON report of the expected-vs-calculated win rates.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/lox/holdem-equity/internal/equity"
	"github.com/lox/holdem-equity/internal/regression"
)

type CLI struct {
	Input     string  `short:"i" default:"test_data.json" help:"Recorded test case file" type:"path"`
	Output    string  `short:"o" default:"test_result.json" help:"Result file to write" type:"path"`
	Tolerance float64 `short:"t" default:"1.0" help:"Pass threshold in percentage points"`
	Seed      int64   `help:"Random seed for preflop cases"`
	Workers   int     `short:"w" help:"Maximum parallel workers (0 = one per CPU)"`
	Verbose   bool    `short:"v" help:"Enable verbose logging"`
}

// dotReporter prints one character per case: '.' for pass, 'F' for fail.
type dotReporter struct{}

func (dotReporter) CaseStart(num, total int) {}

func (dotReporter) CaseDone(result regression.CaseResult) {
	if result.Passed {
		fmt.Print(".")
	} else {
		fmt.Print("F")
	}
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("regression"),
		kong.Description("Replays recorded equity calculations against the engine"),
		kong.UsageOnError(),
	)

	logger := log.New(os.Stderr)
	if cli.Verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}

	cases, err := regression.LoadCases(cli.Input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		kctx.Exit(1)
	}

	engine := equity.New(equity.Config{
		Workers: cli.Workers,
		Seed:    cli.Seed,
		Logger:  logger,
	})

	runner := regression.New(regression.Config{
		Engine:    engine,
		Tolerance: cli.Tolerance,
		Logger:    logger,
		Reporter:  dotReporter{},
	})

	fmt.Printf("Running %d test cases\n", len(cases))
	results, err := runner.Run(context.Background(), cases)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
		kctx.Exit(1)
	}
	fmt.Println()

	if err := regression.SaveResults(results, cli.Output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		kctx.Exit(1)
	}

	stats := regression.Stats(results)
	fmt.Printf("%d/%d cases passed, max deviation %.2f (mean %.2f), results written to %s\n",
		stats.Passed, stats.Total, stats.MaxDeviation, stats.MeanDeviation, cli.Output)
	if stats.Passed < stats.Total {
		kctx.Exit(1)
	}
}
