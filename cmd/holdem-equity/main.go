package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/holdem-equity/internal/config"
	"github.com/lox/holdem-equity/internal/equity"
	"github.com/lox/holdem-equity/poker"
)

type CLI struct {
	Hands         []string `arg:"" help:"Player hole cards like 'AH KD' (quoted, space or concatenated), or '?' for an unknown opponent" required:""`
	Board         string   `short:"b" help:"Community cards revealed so far (e.g. '2C7D8S')"`
	Possibilities bool     `short:"p" help:"Show per-player hand type probabilities"`
	Iterations    int      `short:"i" help:"Raise the Monte Carlo budget above the player-count bracket"`
	Seed          *int64   `help:"Random seed for reproducible preflop results"`
	Workers       int      `short:"w" help:"Maximum parallel workers (0 = one per CPU)"`
	Config        string   `short:"c" help:"Path to HCL configuration file" type:"path"`
	Verbose       bool     `short:"v" help:"Enable debug logging"`
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	tieStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	equityStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("13"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	percentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

func main() {
	var cli CLI
	kctx := kong.Parse(&cli)

	cfg := config.DefaultConfig()
	if cli.Config != "" {
		loaded, err := config.LoadConfig(cli.Config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			kctx.Exit(1)
		}
		cfg = loaded
	}
	if cli.Workers > 0 {
		cfg.Engine.Workers = cli.Workers
	}
	if cli.Iterations > 0 {
		cfg.Engine.Iterations = cli.Iterations
	}
	if cli.Verbose {
		cfg.Engine.LogLevel = "debug"
	}

	logger := log.New(os.Stderr)
	logger.SetLevel(parseLevel(cfg.Engine.LogLevel))

	req, err := buildRequest(cli.Hands, cli.Board)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		kctx.Exit(1)
	}

	var seed int64
	if cli.Seed != nil {
		seed = *cli.Seed
	}

	engine := equity.New(equity.Config{
		Workers:    cfg.Engine.Workers,
		Iterations: cfg.Engine.Iterations,
		Seed:       seed,
		Logger:     logger,
	})

	result, err := engine.Calculate(context.Background(), req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		kctx.Exit(1)
	}

	displayResults(req, result, cli.Possibilities)
}

func buildRequest(handArgs []string, boardArg string) (equity.Request, error) {
	var req equity.Request

	for i, arg := range handArgs {
		arg = strings.TrimSpace(arg)
		if arg == "?" {
			req.Players = append(req.Players, nil)
			continue
		}
		cards, err := poker.ParseCards(arg)
		if err != nil {
			return req, fmt.Errorf("hand %d: %w", i+1, err)
		}
		req.Players = append(req.Players, cards)
	}

	if boardArg != "" {
		board, err := poker.ParseCards(boardArg)
		if err != nil {
			return req, fmt.Errorf("board: %w", err)
		}
		req.Board = board
	}

	return req, nil
}

func parseLevel(s string) log.Level {
	switch s {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}

func displayResults(req equity.Request, result *equity.Result, showPossibilities bool) {
	if len(req.Board) > 0 {
		fmt.Printf("%s\n", headerStyle.Render("board"))
		fmt.Printf("%s\n\n", poker.FormatCards(req.Board))
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		headerStyle.Render("hand"),
		headerStyle.Render("win"),
		headerStyle.Render("tie"),
		headerStyle.Render("equity"),
		headerStyle.Render("category"))

	for i, p := range result.Players {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			handStyle.Render(handLabel(req.Players[i])),
			winStyle.Render(fmt.Sprintf("%.1f%%", p.WinPct)),
			tieStyle.Render(fmt.Sprintf("%.1f%%", p.TiePct)),
			equityStyle.Render(fmt.Sprintf("%.2f%%", p.Equity)),
			categoryStyle.Render(categoryLabel(req.Players[i])))
	}

	w.Flush()

	if showPossibilities {
		fmt.Printf("\n")
		displayPossibilities(req, result)
	}

	fmt.Printf("\n")
	fmt.Printf("%d outcomes via %s in %v (%d workers, %s executor)\n",
		result.Outcomes, result.Method, result.Elapsed.Truncate(time.Millisecond),
		result.Workers, result.Executor)
}

func handLabel(hole []poker.Card) string {
	if len(hole) == 0 {
		return "??"
	}
	return poker.FormatCards(hole)
}

func categoryLabel(hole []poker.Card) string {
	if len(hole) != 2 {
		return "-"
	}
	return string(poker.CategorizeHoleCards(hole[0], hole[1]))
}

func displayPossibilities(req equity.Request, result *equity.Result) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "%s", categoryStyle.Render("hand"))
	for i := range result.Players {
		fmt.Fprintf(w, "\t%s", handStyle.Render(handLabel(req.Players[i])))
	}
	fmt.Fprintf(w, "\n")

	total := float64(result.Outcomes)
	for t := poker.RoyalFlush; t <= poker.HighCard; t++ {
		seen := false
		for _, p := range result.Players {
			if p.HandTypes[t] > 0 {
				seen = true
				break
			}
		}
		if !seen {
			continue
		}

		fmt.Fprintf(w, "%s", categoryStyle.Render(t.String()))
		for _, p := range result.Players {
			count := p.HandTypes[t]
			if count > 0 {
				pct := float64(count) / total * 100
				fmt.Fprintf(w, "\t%s", percentStyle.Render(fmt.Sprintf("%.1f%%", pct)))
			} else {
				fmt.Fprintf(w, "\t%s", percentStyle.Render("."))
			}
		}
		fmt.Fprintf(w, "\n")
	}

	w.Flush()
}
