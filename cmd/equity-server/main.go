// equity-server exposes the equity engine over WebSocket. Each client sends
// JSON calculation requests on a single connection and receives one response
// per request.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/holdem-equity/internal/config"
	"github.com/lox/holdem-equity/internal/equity"
	"github.com/lox/holdem-equity/poker"
)

var CLI struct {
	Addr     string `short:"a" default:":8080" help:"Address to bind to"`
	Config   string `short:"c" help:"Path to HCL configuration file" type:"path"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	Workers  int    `short:"w" help:"Maximum parallel workers per request (overrides config)"`
}

type calculationRequest struct {
	// Players holds each player's hole cards as strings like "AH". An empty
	// entry is an unknown opponent.
	Players [][]string `json:"players"`
	Board   []string   `json:"board,omitempty"`
}

type playerOutcome struct {
	Wins   uint64  `json:"wins"`
	Ties   uint64  `json:"ties"`
	Losses uint64  `json:"losses"`
	WinPct float64 `json:"win_pct"`
	TiePct float64 `json:"tie_pct"`
	Equity float64 `json:"equity"`
}

type calculationResponse struct {
	Method   string          `json:"method,omitempty"`
	Outcomes uint64          `json:"outcomes,omitempty"`
	Players  []playerOutcome `json:"players,omitempty"`
	Elapsed  float64         `json:"elapsed_seconds,omitempty"`
	Error    string          `json:"error,omitempty"`
}

type service struct {
	engine   *equity.Engine
	upgrader websocket.Upgrader
	logger   *log.Logger
}

func main() {
	kctx := kong.Parse(&CLI)

	cfg := config.DefaultConfig()
	if CLI.Config != "" {
		loaded, err := config.LoadConfig(CLI.Config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			kctx.Exit(1)
		}
		cfg = loaded
	}
	if CLI.LogLevel != "" {
		cfg.Engine.LogLevel = CLI.LogLevel
	}
	if CLI.Workers > 0 {
		cfg.Engine.Workers = CLI.Workers
	}

	logger := log.New(os.Stderr)
	if lvl, err := log.ParseLevel(cfg.Engine.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	svc := &service{
		engine: equity.New(equity.Config{
			Workers:    cfg.Engine.Workers,
			Iterations: cfg.Engine.Iterations,
			Logger:     logger,
		}),
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.WithPrefix("server"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", svc.handleWebSocket)
	mux.HandleFunc("/health", handleHealth)

	httpServer := &http.Server{Addr: CLI.Addr, Handler: mux}

	go func() {
		svc.logger.Info("Starting equity server", "addr", CLI.Addr, "executor", equity.ActiveExecutor().Name())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			svc.logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	svc.logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ok")
}

func (s *service) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	s.logger.Info("Client connected", "remote", conn.RemoteAddr())

	for {
		var req calculationRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("Read failed", "error", err)
			}
			return
		}

		resp := s.calculate(r.Context(), req)
		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Warn("Write failed", "error", err)
			return
		}
	}
}

func (s *service) calculate(ctx context.Context, wire calculationRequest) calculationResponse {
	req, err := decodeRequest(wire)
	if err != nil {
		return calculationResponse{Error: err.Error()}
	}

	result, err := s.engine.Calculate(ctx, req)
	if err != nil {
		return calculationResponse{Error: err.Error()}
	}

	resp := calculationResponse{
		Method:   string(result.Method),
		Outcomes: result.Outcomes,
		Players:  make([]playerOutcome, len(result.Players)),
		Elapsed:  result.Elapsed.Seconds(),
	}
	for i, p := range result.Players {
		resp.Players[i] = playerOutcome{
			Wins:   p.Wins,
			Ties:   p.Ties,
			Losses: p.Losses,
			WinPct: p.WinPct,
			TiePct: p.TiePct,
			Equity: p.Equity,
		}
	}
	return resp
}

func decodeRequest(wire calculationRequest) (equity.Request, error) {
	var req equity.Request

	req.Players = make([][]poker.Card, len(wire.Players))
	for i, hole := range wire.Players {
		cards := make([]poker.Card, 0, len(hole))
		for _, s := range hole {
			c, err := poker.ParseCard(s)
			if err != nil {
				return req, fmt.Errorf("player %d: %w", i+1, err)
			}
			cards = append(cards, c)
		}
		req.Players[i] = cards
	}

	for _, s := range wire.Board {
		c, err := poker.ParseCard(s)
		if err != nil {
			return req, fmt.Errorf("board: %w", err)
		}
		req.Board = append(req.Board, c)
	}

	return req, nil
}
