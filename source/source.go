// Package source connects the engine to external move suppliers. A supplier only
// sees a FEN and answers with a coordinate string; everything it returns is checked
// against the engine's legal moves before it touches the game.
package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vinegm/cless/board"
	"github.com/vinegm/cless/engine"
)

var (
	// ErrNoMove means the supplier produced nothing that resolves to a legal move.
	ErrNoMove = errors.New("no move produced")
	// ErrEngineUnavailable wraps failures to start or talk to an external engine.
	ErrEngineUnavailable = errors.New("engine unavailable")
)

// MoveSource suggests a move, in coordinate notation, for the position given as FEN.
type MoveSource interface {
	BestMove(ctx context.Context, fen string) (string, error)
}

// Func adapts a plain function to MoveSource.
type Func func(ctx context.Context, fen string) (string, error)

// BestMove calls f.
func (f Func) BestMove(ctx context.Context, fen string) (string, error) { return f(ctx, fen) }

// Resolve turns a supplied move string into a legal move of e. Anything malformed
// or illegal reports false.
func Resolve(e *engine.Engine, s string) (board.Move, bool) {
	return e.MoveFromUCI(strings.TrimSpace(s))
}

// Play asks src for a move in e's current position and applies it. A string that
// does not resolve to a legal move yields ErrNoMove and leaves the game untouched.
func Play(ctx context.Context, e *engine.Engine, src MoveSource) (board.Move, error) {
	fen := e.FEN()
	s, err := src.BestMove(ctx, fen)
	if err != nil {
		return board.NullMove, err
	}
	m, ok := Resolve(e, s)
	if !ok {
		return board.NullMove, fmt.Errorf("%w: %q is not legal in %s", ErrNoMove, s, fen)
	}
	if !e.MakeMove(m) {
		return board.NullMove, fmt.Errorf("%w: %q rejected in %s", ErrNoMove, s, fen)
	}
	return m, nil
}
