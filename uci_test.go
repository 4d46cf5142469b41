package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/vinegm/cless/source"
)

func runUCI(t *testing.T, mover source.MoveSource, script ...string) []string {
	t.Helper()
	var out bytes.Buffer
	if mover == nil {
		mover = source.NewDragontooth(1)
	}
	u := newUCI(&out, mover)
	u.loop(strings.NewReader(strings.Join(script, "\n") + "\n"))
	return strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
}

func TestUCIHandshake(t *testing.T) {
	got := runUCI(t, nil, "uci", "isready", "quit", "isready")
	want := []string{"id name Cless Engine", "id author vinegm", "uciok", "readyok"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestUCIGoPerft(t *testing.T) {
	got := runUCI(t, nil, "position startpos", "go perft 2")
	if len(got) != 22 {
		t.Fatalf("%d lines:\n%s", len(got), strings.Join(got, "\n"))
	}
	if got[0] != "a2a3: 20" {
		t.Fatalf("first line %q", got[0])
	}
	if got[20] != "" || got[21] != "Nodes searched: 400" {
		t.Fatalf("trailer %q %q", got[20], got[21])
	}
}

func TestUCIPositionMoves(t *testing.T) {
	got := runUCI(t, nil,
		"position fen 4k3/8/8/8/8/8/4P3/4K3 w - - 0 1 moves e2e4 e1e3 e8d7",
		"d")
	if !strings.HasPrefix(got[0], "info string Move e1e3 not found") {
		t.Fatalf("illegal move not reported: %q", got[0])
	}
	if last := got[len(got)-1]; last != "Fen: 8/3k4/8/8/4P3/8/8/4K3 w - - 1 2" {
		t.Fatalf("got %q", last)
	}
}

func TestUCIPositionErrors(t *testing.T) {
	got := runUCI(t, nil, "position", "position fen", "position kiwipete", "position fen 9/8 w - - 0 1", "flip")
	want := []string{
		"info string Malformed position command",
		"info string Invalid fen position",
		"info string Invalid position subcommand",
	}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("line %d: got %q want %q", i, got[i], w)
		}
	}
	if !strings.HasPrefix(got[3], "info string Invalid fen position:") {
		t.Fatalf("bad fen not reported: %q", got[3])
	}
	if got[4] != "info string Unknown command: flip" {
		t.Fatalf("got %q", got[4])
	}
}

func TestUCIGoBestMove(t *testing.T) {
	got := runUCI(t, nil, "position fen 6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", "go movetime 100")
	if got[len(got)-1] != "bestmove a1a8" {
		t.Fatalf("got %q", got)
	}

	bogus := source.Func(func(context.Context, string) (string, error) { return "e2e5", nil })
	got = runUCI(t, bogus, "go depth 3")
	if got[len(got)-1] != "bestmove 0000" {
		t.Fatalf("got %q", got)
	}
}

func TestUCIRejectsUnreachableMaterial(t *testing.T) {
	got := runUCI(t, nil,
		"position fen QQQQQQQk/Q6Q/Q6Q/Q5Q1/Q5Q1/Q5Q1/QQ1QQQ2/KQQ4Q w - - 0 1",
		"go perft 1")
	if !strings.HasPrefix(got[0], "info string Invalid fen position:") {
		t.Fatalf("got %q", got[0])
	}
	if last := got[len(got)-1]; last != "Nodes searched: 20" {
		t.Fatalf("game should still be at the start position, got %q", last)
	}
}
