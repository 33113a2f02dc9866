package equity

import (
	"fmt"
	"time"

	"github.com/lox/holdem-equity/poker"
)

const (
	// MinPlayers and MaxPlayers bound a showdown calculation.
	MinPlayers = 2
	MaxPlayers = 9

	boardSize     = 5
	holeCardCount = 2
)

// InvalidInputError reports a malformed or contradictory request. It is the
// only user-facing failure mode of the engine and is raised before any
// computation starts.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

func invalidInputf(format string, args ...any) error {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}

// Request describes one showdown calculation: each player's hole cards plus
// the board cards revealed so far. A player entry with no cards is an
// unknown opponent whose holdings are averaged over by the enumerator (or
// drawn randomly per sample by the Monte Carlo path).
type Request struct {
	Players [][]poker.Card
	Board   []poker.Card
}

// Method identifies which computation path produced a result.
type Method string

const (
	MethodEnumeration Method = "enumeration"
	MethodMonteCarlo  Method = "monte-carlo"
)

// Validate checks the request against the deck invariants. All failures are
// InvalidInputError values naming the violated constraint.
func (r *Request) Validate() error {
	n := len(r.Players)
	if n < MinPlayers || n > MaxPlayers {
		return invalidInputf("player count must be between %d and %d, got %d", MinPlayers, MaxPlayers, n)
	}

	switch len(r.Board) {
	case 0, 3, 4, 5:
	default:
		return invalidInputf("board must have 0, 3, 4 or 5 cards, got %d", len(r.Board))
	}

	known := 0
	var seen poker.Hand
	for i, hole := range r.Players {
		switch len(hole) {
		case 0:
			// Unknown opponent.
		case holeCardCount:
			known++
			for _, c := range hole {
				if seen.HasCard(c) {
					return invalidInputf("duplicate card %s in player %d's hole cards", c, i+1)
				}
				seen.AddCard(c)
			}
		default:
			return invalidInputf("player %d must have exactly %d hole cards, got %d", i+1, holeCardCount, len(hole))
		}
	}
	if known == 0 {
		return invalidInputf("at least one player must have known hole cards")
	}

	for _, c := range r.Board {
		if seen.HasCard(c) {
			return invalidInputf("duplicate card %s on the board", c)
		}
		seen.AddCard(c)
	}

	return nil
}

// usedCards returns the set of every known card in the request.
func (r *Request) usedCards() poker.Hand {
	var used poker.Hand
	for _, hole := range r.Players {
		for _, c := range hole {
			used.AddCard(c)
		}
	}
	for _, c := range r.Board {
		used.AddCard(c)
	}
	return used
}

// unknownPlayers returns the indices of players with no known hole cards.
func (r *Request) unknownPlayers() []int {
	var unknown []int
	for i, hole := range r.Players {
		if len(hole) == 0 {
			unknown = append(unknown, i)
		}
	}
	return unknown
}

// PlayerResult holds one player's share of the outcome distribution.
type PlayerResult struct {
	// Wins counts outcomes won outright; Ties counts outcomes shared with at
	// least one other player; Losses is the remainder.
	Wins   uint64
	Ties   uint64
	Losses uint64

	// WinPct/TiePct/LossPct are percentages of all outcomes. Equity adds the
	// equal-split tie credit to the win share, so equities sum to 100 across
	// players.
	WinPct  float64
	TiePct  float64
	LossPct float64
	Equity  float64

	// HandTypes counts the showdown category the player held per outcome,
	// indexed by poker.HandType.
	HandTypes [poker.NumHandTypes]uint64
}

// Result is the normalized outcome distribution for a request.
type Result struct {
	Players  []PlayerResult
	Method   Method
	Outcomes uint64
	Workers  int
	// Executor names the backend that scored the deals.
	Executor string
	Elapsed  time.Duration
}
