package source

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/dylhunn/dragontoothmg"
)

// Dragontooth is a built-in supplier backed by the dragontoothmg move generator. It
// plays a mate in one when there is one and otherwise picks a random legal move.
// It is used when no external engine is configured.
type Dragontooth struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewDragontooth returns a supplier whose choices are reproducible for a given seed.
func NewDragontooth(seed int64) *Dragontooth {
	return &Dragontooth{rng: rand.New(rand.NewSource(seed))}
}

// BestMove picks a legal move for fen. Unreadable FEN yields ErrNoMove.
func (d *Dragontooth) BestMove(ctx context.Context, fen string) (move string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	// dragontoothmg panics on FEN it cannot read.
	defer func() {
		if r := recover(); r != nil {
			move, err = "", fmt.Errorf("%w: dragontoothmg: %v", ErrNoMove, r)
		}
	}()

	b := dragontoothmg.ParseFen(fen)
	moves := b.GenerateLegalMoves()
	if len(moves) == 0 {
		return "", ErrNoMove
	}
	for i := range moves {
		unapply := b.Apply(moves[i])
		mate := b.OurKingInCheck() && len(b.GenerateLegalMoves()) == 0
		unapply()
		if mate {
			return moves[i].String(), nil
		}
	}

	d.mu.Lock()
	pick := d.rng.Intn(len(moves))
	d.mu.Unlock()
	return moves[pick].String(), nil
}
