// Package notation converts between board moves and standard algebraic notation.
package notation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/notnil/chess"

	"github.com/vinegm/cless/board"
)

// ErrNotLegal is returned when a move is not legal in the given position.
var ErrNotLegal = errors.New("move not legal")

func gameAt(fen string) (*chess.Game, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("notation: %w", err)
	}
	return chess.NewGame(opt), nil
}

// SAN renders m, which must be legal in fen, as standard algebraic notation,
// e.g. "Nf3", "exd6", "O-O", "e8=Q+".
func SAN(fen string, m board.Move) (string, error) {
	game, err := gameAt(fen)
	if err != nil {
		return "", err
	}
	want := m.String()
	for _, cm := range game.ValidMoves() {
		if cm.String() == want {
			return chess.AlgebraicNotation{}.Encode(game.Position(), cm), nil
		}
	}
	return "", fmt.Errorf("%w: %s in %s", ErrNotLegal, want, fen)
}

// ParseSAN decodes san in the position fen.
func ParseSAN(fen, san string) (board.Move, error) {
	game, err := gameAt(fen)
	if err != nil {
		return board.NullMove, err
	}
	cm, err := chess.AlgebraicNotation{}.Decode(game.Position(), san)
	if err != nil {
		return board.NullMove, fmt.Errorf("%w: %q: %v", ErrNotLegal, san, err)
	}
	p, err := board.ParseFEN(fen)
	if err != nil {
		return board.NullMove, err
	}
	want, err := board.ParseMove(cm.String())
	if err != nil {
		return board.NullMove, err
	}
	moves := p.LegalMoves()
	for _, m := range moves.Moves() {
		if m.Matches(want) {
			return m, nil
		}
	}
	return board.NullMove, fmt.Errorf("%w: %q in %s", ErrNotLegal, san, fen)
}

// Line renders a move sequence starting at fen with move numbers,
// e.g. "1. e4 e5 2. Nf3" or "12... Kh8 13. Qh5".
func Line(fen string, moves []board.Move) (string, error) {
	p, err := board.ParseFEN(fen)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for i, m := range moves {
		san, err := SAN(p.FEN(), m)
		if err != nil {
			return "", err
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
		num := strconv.Itoa(p.FullmoveNumber())
		switch {
		case p.SideToMove() == board.White:
			sb.WriteString(num + ". ")
		case i == 0:
			sb.WriteString(num + "... ")
		}
		sb.WriteString(san)
		p.MakeMove(m)
	}
	return sb.String(), nil
}
