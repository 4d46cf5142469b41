package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vinegm/cless/diagram"
	"github.com/vinegm/cless/engine"
	"github.com/vinegm/cless/source"
)

func main() {
	u := newUCI(os.Stdout, source.NewDragontooth(time.Now().UnixNano()))
	u.loop(os.Stdin)
}

type uci struct {
	out   io.Writer
	game  *engine.Engine
	mover source.MoveSource
	debug bool
}

func newUCI(out io.Writer, mover source.MoveSource) *uci {
	return &uci{out: out, game: engine.NewStart(true), mover: mover}
}

func (u *uci) println(a ...any) { fmt.Fprintln(u.out, a...) }

// loop reads commands until quit or end of input.
func (u *uci) loop(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 { // ignore blank lines
			continue
		}
		if !u.command(tokens) {
			return
		}
	}
}

// command runs one command line and reports whether the loop should continue.
func (u *uci) command(tokens []string) bool {
	switch strings.ToLower(tokens[0]) {
	case "uci":
		u.println("id name Cless Engine")
		u.println("id author vinegm")
		u.println("uciok")
	case "debug":
		u.debug = len(tokens) >= 2 && tokens[1] == "on"
	case "isready":
		u.println("readyok")
	case "ucinewgame":
		u.game.Reset()
	case "position":
		u.position(tokens[1:])
	case "go":
		u.goCommand(tokens[1:])
	case "d":
		u.println(strings.TrimRight(diagram.Text(u.game.Position()), "\n"))
		u.println("Fen:", u.game.FEN())
	case "stop", "ponderhit", "setoption", "register":
		if u.debug {
			u.println("info string Ignoring", tokens[0])
		}
	case "quit":
		return false
	default:
		u.println("info string Unknown command:", strings.Join(tokens, " "))
	}
	return true
}

func (u *uci) position(args []string) {
	if len(args) == 0 {
		u.println("info string Malformed position command")
		return
	}
	rest := args[1:]
	switch strings.ToLower(args[0]) {
	case "startpos":
		u.game.Reset()
	case "fen":
		i := 0
		for i < len(rest) && strings.ToLower(rest[i]) != "moves" {
			i++
		}
		if i == 0 {
			u.println("info string Invalid fen position")
			return
		}
		if err := u.game.SetFEN(strings.Join(rest[:i], " ")); err != nil {
			u.println("info string Invalid fen position:", err)
			return
		}
		rest = rest[i:]
	default:
		u.println("info string Invalid position subcommand")
		return
	}
	if len(rest) == 0 || strings.ToLower(rest[0]) != "moves" {
		return
	}
	for _, moveStr := range rest[1:] {
		m, ok := u.game.MoveFromUCI(moveStr)
		if !ok {
			u.println("info string Move", moveStr, "not found for position", u.game.FEN())
			continue
		}
		u.game.MakeMove(m)
	}
}

func (u *uci) goCommand(args []string) {
	if len(args) >= 1 && strings.ToLower(args[0]) == "perft" {
		if len(args) < 2 {
			u.println("info string Malformed go command option perft")
			return
		}
		depth, err := strconv.Atoi(args[1])
		if err != nil || depth < 1 {
			u.println("info string Malformed go command option; could not convert perft depth")
			return
		}
		entries := u.game.PerftDivide(depth)
		for _, d := range entries {
			u.println(perftLine(d))
		}
		u.println()
		u.println("Nodes searched:", engine.Total(entries))
		return
	}

	moveTime := time.Second
	for i := 0; i < len(args); i++ {
		switch strings.ToLower(args[i]) {
		case "movetime":
			if i+1 >= len(args) {
				u.println("info string Malformed go command option movetime")
				continue
			}
			i++
			ms, err := strconv.Atoi(args[i])
			if err != nil {
				u.println("info string Malformed go command option; could not convert movetime")
				continue
			}
			moveTime = time.Duration(ms) * time.Millisecond
		case "depth", "wtime", "btime", "winc", "binc", "movestogo", "nodes", "mate":
			i++
		case "infinite", "ponder":
		default:
			u.println("info string Unknown go subcommand", args[i])
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), moveTime)
	defer cancel()
	best, err := u.mover.BestMove(ctx, u.game.FEN())
	if err == nil {
		if _, ok := source.Resolve(u.game, best); !ok {
			err = source.ErrNoMove
		}
	}
	switch {
	case errors.Is(err, source.ErrNoMove):
		u.println("bestmove 0000")
	case err != nil:
		u.println("info string Move source failed:", err)
		u.println("bestmove 0000")
	default:
		u.println("bestmove", best)
	}
}

// perftLine formats a divide entry the way the go perft command prints it.
func perftLine(d engine.DivideEntry) string {
	return fmt.Sprintf("%s: %d", d.Move, d.Nodes)
}
