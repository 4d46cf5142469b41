// Package engine wraps a board.Position with a single-slot legal move cache,
// optional move validation and perft node counting.
package engine

import (
	"golang.org/x/exp/slices"

	"github.com/vinegm/cless/board"
)

// Status classifies the current position for the side to move.
type Status int

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
	FiftyMoveDraw
)

func (s Status) String() string {
	switch s {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case FiftyMoveDraw:
		return "fifty-move draw"
	default:
		return "ongoing"
	}
}

// Engine owns one game. It is not safe for concurrent use; callers serialise access
// to an instance.
type Engine struct {
	pos      *board.Position
	validate bool

	// Legal moves of pos, valid while cacheValid is set and the hash still matches.
	cache      board.MoveList
	cacheValid bool
	cacheKey   uint64
}

// New builds an engine from fen. With validate set, MakeMove rejects moves that are
// not in the current legal move set; without it, moves are trusted and applied as is.
func New(fen string, validate bool) (*Engine, error) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	return &Engine{pos: pos, validate: validate}, nil
}

// NewStart returns an engine on the standard starting position.
func NewStart(validate bool) *Engine {
	return &Engine{pos: board.NewPosition(), validate: validate}
}

// SetFEN replaces the game with fen. On error the engine is unchanged.
func (e *Engine) SetFEN(fen string) error {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return err
	}
	e.pos = pos
	e.invalidate()
	return nil
}

// Reset returns to the starting position and drops the history.
func (e *Engine) Reset() {
	e.pos = board.NewPosition()
	e.invalidate()
}

// Validating reports whether MakeMove checks moves against the legal set.
func (e *Engine) Validating() bool { return e.validate }

// SetValidating switches between validate and trust mode.
func (e *Engine) SetValidating(v bool) { e.validate = v }

// FEN returns the current position as a FEN string.
func (e *Engine) FEN() string { return e.pos.FEN() }

// ToMove reports the side to move.
func (e *Engine) ToMove() board.Color { return e.pos.SideToMove() }

// PieceAt returns the piece on sq, NoPiece when empty.
func (e *Engine) PieceAt(sq board.Square) board.Piece { return e.pos.PieceAt(sq) }

// Ply returns how many moves can be undone.
func (e *Engine) Ply() int { return e.pos.Ply() }

// InCheck reports whether the side to move is in check.
func (e *Engine) InCheck() bool { return e.pos.InCheck(e.pos.SideToMove()) }

// Position returns a copy of the current position.
func (e *Engine) Position() *board.Position { return e.pos.Copy() }

func (e *Engine) invalidate() { e.cacheValid = false }

// legal returns the cached legal moves, regenerating them when stale.
func (e *Engine) legal() *board.MoveList {
	if !e.cacheValid || e.cacheKey != e.pos.Hash() {
		e.pos.GenerateLegalInto(&e.cache)
		e.cacheKey = e.pos.Hash()
		e.cacheValid = true
	}
	return &e.cache
}

// LegalMoves returns the legal moves of the side to move.
func (e *Engine) LegalMoves() board.MoveList { return *e.legal() }

// LegalMovesFrom returns the legal moves starting on sq.
func (e *Engine) LegalMovesFrom(sq board.Square) board.MoveList { return e.legal().From(sq) }

// IsLegal reports whether m is in the current legal move set.
func (e *Engine) IsLegal(m board.Move) bool {
	return slices.Contains(e.legal().Moves(), m)
}

// MakeMove plays m. In validate mode an illegal move returns false and leaves the
// game untouched; in trust mode the move is applied without checks.
func (e *Engine) MakeMove(m board.Move) bool {
	if e.validate && !e.IsLegal(m) {
		return false
	}
	e.pos.MakeMove(m)
	e.invalidate()
	return true
}

// UndoMove takes back the last move. It returns false, and does nothing, when there
// is no move to undo.
func (e *Engine) UndoMove() bool {
	if !e.pos.UndoMove() {
		return false
	}
	e.invalidate()
	return true
}

// MoveFromUCI resolves a coordinate string such as "e2e4" or "e7e8q" against the
// legal moves. Unparseable or illegal strings report false.
func (e *Engine) MoveFromUCI(s string) (board.Move, bool) {
	want, err := board.ParseMove(s)
	if err != nil {
		return board.NullMove, false
	}
	moves := e.legal().Moves()
	i := slices.IndexFunc(moves, func(m board.Move) bool { return m.Matches(want) })
	if i < 0 {
		return board.NullMove, false
	}
	return moves[i], true
}

// Status reports mate, stalemate or a fifty-move draw for the side to move.
func (e *Engine) Status() Status {
	if e.legal().Len() == 0 {
		if e.InCheck() {
			return Checkmate
		}
		return Stalemate
	}
	if e.pos.IsDrawBy50() {
		return FiftyMoveDraw
	}
	return Ongoing
}
