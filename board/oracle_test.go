package board_test

import (
	"testing"

	goosemg "github.com/Oliverans/GooseEngineMG/goosemg"
	"github.com/dylhunn/dragontoothmg"
	"github.com/notnil/chess"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/vinegm/cless/board"
)

var oracleRoots = []string{
	board.FENStartPos,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
}

// collectFENs returns the FEN of every position reachable from root in at most
// depth plies.
func collectFENs(root string, depth int) []string {
	p := board.MustParseFEN(root)
	var out []string
	var walk func(d int)
	walk = func(d int) {
		out = append(out, p.FEN())
		if d == 0 {
			return
		}
		moves := p.LegalMoves()
		for _, m := range moves.Moves() {
			p.MakeMove(m)
			walk(d - 1)
			p.UndoMove()
		}
	}
	walk(depth)
	return out
}

func ourMoves(fen string) []string {
	p := board.MustParseFEN(fen)
	moves := p.LegalMoves()
	out := make([]string, 0, moves.Len())
	for _, m := range moves.Moves() {
		out = append(out, m.String())
	}
	slices.Sort(out)
	return out
}

func dragontoothMoves(fen string) []string {
	b := dragontoothmg.ParseFen(fen)
	var out []string
	for _, m := range b.GenerateLegalMoves() {
		out = append(out, m.String())
	}
	slices.Sort(out)
	return out
}

func notnilMoves(t *testing.T, fen string) []string {
	t.Helper()
	opt, err := chess.FEN(fen)
	if err != nil {
		t.Fatalf("notnil rejected %q: %v", fen, err)
	}
	game := chess.NewGame(opt)
	var out []string
	for _, m := range game.ValidMoves() {
		out = append(out, m.String())
	}
	slices.Sort(out)
	return out
}

func TestLegalMovesAgreeWithDragontooth(t *testing.T) {
	for _, root := range oracleRoots {
		for _, fen := range collectFENs(root, 2) {
			got, want := ourMoves(fen), dragontoothMoves(fen)
			if !slices.Equal(got, want) {
				t.Fatalf("%s:\n got  %v\n want %v", fen, got, want)
			}
		}
	}
}

func TestLegalMovesAgreeWithNotnil(t *testing.T) {
	for _, root := range oracleRoots {
		for _, fen := range collectFENs(root, 1) {
			got, want := ourMoves(fen), notnilMoves(t, fen)
			if !slices.Equal(got, want) {
				t.Fatalf("%s:\n got  %v\n want %v", fen, got, want)
			}
		}
	}
}

func TestPerftDivideAgreesWithGoose(t *testing.T) {
	depth := 3
	if testing.Short() {
		depth = 2
	}
	for _, root := range oracleRoots {
		gb, err := goosemg.ParseFEN(root)
		if err != nil {
			t.Fatalf("goosemg.ParseFEN(%q): %v", root, err)
		}
		want := map[string]uint64{}
		for m, n := range goosemg.PerftDivide(gb, depth) {
			want[m.String()] = n
		}

		p := board.MustParseFEN(root)
		got := map[string]uint64{}
		moves := p.LegalMoves()
		for _, m := range moves.Moves() {
			p.MakeMove(m)
			got[m.String()] = perft(p, depth-1)
			p.UndoMove()
		}

		keys := maps.Keys(want)
		slices.Sort(keys)
		for _, k := range keys {
			if got[k] != want[k] {
				t.Errorf("%s: %s got %d want %d", root, k, got[k], want[k])
			}
		}
		if len(got) != len(want) {
			extra := maps.Keys(got)
			slices.Sort(extra)
			t.Fatalf("%s: %d root moves, want %d (%v)", root, len(got), len(want), extra)
		}
	}
}
