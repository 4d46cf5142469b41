package source_test

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/vinegm/cless/engine"
	"github.com/vinegm/cless/source"
)

// fakeEngine returns a config that re-runs the test binary as a scripted UCI engine.
func fakeEngine(mode string) source.UCIConfig {
	return source.UCIConfig{
		Path:             os.Args[0],
		Args:             []string{"-test.run=TestHelperProcess", "--", mode},
		Env:              []string{"CLESS_WANT_HELPER_PROCESS=1"},
		MoveTime:         50 * time.Millisecond,
		HandshakeTimeout: 2 * time.Second,
		Logger:           log.New(io.Discard, "", 0),
	}
}

// TestHelperProcess is not a real test; it is the fake engine started by fakeEngine.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("CLESS_WANT_HELPER_PROCESS") != "1" {
		return
	}
	mode := os.Args[len(os.Args)-1]
	os.Exit(runFakeEngine(mode, os.Stdin, os.Stdout))
}

func runFakeEngine(mode string, in io.Reader, out io.Writer) int {
	e := engine.NewStart(true)
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		tokens := strings.Fields(sc.Text())
		if len(tokens) == 0 {
			continue
		}
		switch tokens[0] {
		case "uci":
			if mode == "silent" {
				continue
			}
			fmt.Fprintln(out, "id name Fake Engine 1.0")
			fmt.Fprintln(out, "id author nobody")
			fmt.Fprintln(out, "uciok")
		case "isready":
			fmt.Fprintln(out, "readyok")
		case "position":
			if len(tokens) >= 3 && tokens[1] == "fen" {
				if err := e.SetFEN(strings.Join(tokens[2:], " ")); err != nil {
					fmt.Fprintln(out, "info string bad fen")
				}
			}
		case "go":
			fmt.Fprintln(out, "info depth 1 score cp 0")
			switch mode {
			case "illegal":
				fmt.Fprintln(out, "bestmove a1a1")
			case "none":
				fmt.Fprintln(out, "bestmove (none)")
			case "stall":
				// never answers
			case "crash":
				return 3
			default:
				moves := e.LegalMoves()
				if moves.Len() == 0 {
					fmt.Fprintln(out, "bestmove (none)")
				} else {
					fmt.Fprintf(out, "bestmove %s ponder e7e5\n", moves.At(0))
				}
			}
		case "quit":
			if mode == "linger" {
				fmt.Fprintln(out, "info string still thinking")
				time.Sleep(10 * time.Second)
			}
			return 0
		}
	}
	return 0
}

func TestUCIEngineBestMove(t *testing.T) {
	ctx := context.Background()
	ue, err := source.StartUCI(ctx, fakeEngine("good"))
	if err != nil {
		t.Fatalf("StartUCI: %v", err)
	}
	defer ue.Close()
	if ue.Name() != "Fake Engine 1.0" {
		t.Fatalf("name %q", ue.Name())
	}

	e := engine.NewStart(true)
	for i := 0; i < 6; i++ {
		m, err := source.Play(ctx, e, ue)
		if err != nil {
			t.Fatalf("ply %d: %v", i, err)
		}
		if last, _ := e.Position().LastMove(); last != m {
			t.Fatalf("ply %d: last move %v, played %v", i, last, m)
		}
	}
	if e.Ply() != 6 {
		t.Fatalf("ply %d", e.Ply())
	}
	if err := ue.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := ue.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if _, err := ue.BestMove(ctx, e.FEN()); !errors.Is(err, source.ErrEngineUnavailable) {
		t.Fatalf("BestMove after Close: %v", err)
	}
}

func TestUCIEngineUnusableAnswers(t *testing.T) {
	ctx := context.Background()
	for _, mode := range []string{"illegal", "none"} {
		ue, err := source.StartUCI(ctx, fakeEngine(mode))
		if err != nil {
			t.Fatalf("%s: StartUCI: %v", mode, err)
		}
		e := engine.NewStart(true)
		if _, err := source.Play(ctx, e, ue); !errors.Is(err, source.ErrNoMove) {
			t.Errorf("%s: got %v want ErrNoMove", mode, err)
		}
		if e.Ply() != 0 {
			t.Errorf("%s: game modified", mode)
		}
		ue.Close()
	}
}

func TestUCIEngineCrashAndCancel(t *testing.T) {
	ctx := context.Background()
	ue, err := source.StartUCI(ctx, fakeEngine("crash"))
	if err != nil {
		t.Fatalf("StartUCI: %v", err)
	}
	if _, err := ue.BestMove(ctx, engine.NewStart(true).FEN()); !errors.Is(err, source.ErrEngineUnavailable) {
		t.Fatalf("crash: got %v want ErrEngineUnavailable", err)
	}
	ue.Close()

	ue, err = source.StartUCI(ctx, fakeEngine("stall"))
	if err != nil {
		t.Fatalf("StartUCI: %v", err)
	}
	defer ue.Close()
	cctx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	if _, err := ue.BestMove(cctx, engine.NewStart(true).FEN()); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("stall: got %v want deadline exceeded", err)
	}
}

func TestStartUCIFailures(t *testing.T) {
	ctx := context.Background()
	if _, err := source.StartUCI(ctx, source.UCIConfig{}); !errors.Is(err, source.ErrEngineUnavailable) {
		t.Fatalf("empty path: %v", err)
	}
	if _, err := source.StartUCI(ctx, source.UCIConfig{Path: "/nonexistent/engine-binary"}); !errors.Is(err, source.ErrEngineUnavailable) {
		t.Fatalf("missing binary: %v", err)
	}
	cfg := fakeEngine("silent")
	cfg.HandshakeTimeout = 300 * time.Millisecond
	start := time.Now()
	if _, err := source.StartUCI(ctx, cfg); !errors.Is(err, source.ErrEngineUnavailable) {
		t.Fatalf("silent engine: %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("handshake timeout not honoured")
	}
}

func TestUCIEngineCloseKillsLingeringEngine(t *testing.T) {
	ue, err := source.StartUCI(context.Background(), fakeEngine("linger"))
	if err != nil {
		t.Fatalf("StartUCI: %v", err)
	}
	start := time.Now()
	if err := ue.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("Close took %v", elapsed)
	}
}
