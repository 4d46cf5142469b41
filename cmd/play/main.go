// Command play runs a game between two move sources, checking every move with the
// cless engine, and prints the game in algebraic notation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/vinegm/cless/board"
	"github.com/vinegm/cless/diagram"
	"github.com/vinegm/cless/engine"
	"github.com/vinegm/cless/notation"
	"github.com/vinegm/cless/source"
)

func main() {
	fen := flag.String("fen", board.FENStartPos, "Starting position")
	enginePath := flag.String("engine", "", "UCI engine playing White (built-in mover if empty or unavailable)")
	depth := flag.Int("depth", 0, "Search depth sent to the UCI engine (0 = omitted)")
	moveTime := flag.Duration("movetime", time.Second, "Time per move for the UCI engine")
	plies := flag.Int("plies", 200, "Stop after this many plies")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Seed for the built-in mover")
	svgPath := flag.String("svg", "", "Write the final position to this SVG file")
	handshake := flag.Duration("handshake", 1500*time.Millisecond, "Time allowed for the UCI handshake")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	game, err := engine.New(*fen, true)
	if err != nil {
		log.Fatal(err)
	}
	startFEN := game.FEN()

	builtin := source.NewDragontooth(*seed)
	white, black := source.MoveSource(builtin), source.MoveSource(builtin)
	if *enginePath != "" {
		ue, err := source.StartUCI(ctx, source.UCIConfig{
			Path:             *enginePath,
			Depth:            *depth,
			MoveTime:         *moveTime,
			HandshakeTimeout: *handshake,
		})
		if err != nil {
			log.Printf("falling back to the built-in mover: %v", err)
		} else {
			defer ue.Close()
			log.Printf("White: %s", ue.Name())
			white = ue
		}
	}

	var moves []board.Move
	for len(moves) < *plies && game.Status() == engine.Ongoing {
		src := white
		if game.ToMove() == board.Black {
			src = black
		}
		m, err := source.Play(ctx, game, src)
		if err != nil {
			log.Printf("%s to move: %v", game.ToMove(), err)
			break
		}
		moves = append(moves, m)
	}

	line, err := notation.Line(startFEN, moves)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(line)
	fmt.Printf("Result: %s after %d plies\n", game.Status(), len(moves))
	fmt.Println(game.FEN())

	if *svgPath != "" {
		f, err := os.Create(*svgPath)
		if err != nil {
			log.Fatal(err)
		}
		var marked []board.Square
		if n := len(moves); n > 0 {
			marked = []board.Square{moves[n-1].From, moves[n-1].To}
		}
		diagram.WriteSVG(f, game.Position(), diagram.Options{Marked: marked})
		if err := f.Close(); err != nil {
			log.Fatal(err)
		}
	}
}
