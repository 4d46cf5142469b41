package board

import (
	"errors"
	"fmt"
	"strings"
)

// MoveFlag is a bitmask describing what kind of move a Move is.
type MoveFlag uint8

const (
	FlagNone      MoveFlag = 0
	FlagCapture   MoveFlag = 1 << 0
	FlagCastling  MoveFlag = 1 << 1
	FlagPromotion MoveFlag = 1 << 2
	FlagEnPassant MoveFlag = 1 << 3
)

// Move is a single ply. Two moves are equal when all four fields match.
type Move struct {
	From      Square
	To        Square
	Flags     MoveFlag
	Promotion PieceType
}

// NullMove is the zero Move; it never appears in a generated list.
var NullMove Move

// IsCapture reports whether the move removes an enemy piece (en passant included).
func (m Move) IsCapture() bool { return m.Flags&(FlagCapture|FlagEnPassant) != 0 }

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool { return m.Flags&FlagPromotion != 0 }

// IsCastling reports whether the move is a king castling move.
func (m Move) IsCastling() bool { return m.Flags&FlagCastling != 0 }

// IsEnPassant reports whether the move is an en passant capture.
func (m Move) IsEnPassant() bool { return m.Flags&FlagEnPassant != 0 }

// String renders the move in coordinate notation: "e2e4", "e7e8q".
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += string(promotionChar(m.Promotion))
	}
	return s
}

func promotionChar(pt PieceType) byte {
	switch pt {
	case PieceTypeRook:
		return 'r'
	case PieceTypeBishop:
		return 'b'
	case PieceTypeKnight:
		return 'n'
	default:
		return 'q'
	}
}

// ErrBadMoveString is returned for coordinate strings that cannot be decoded.
var ErrBadMoveString = errors.New("bad move string")

// ParseMove decodes coordinate notation into its from, to and promotion parts.
// The result carries no flags; resolve it against a legal move list with Matches.
func ParseMove(movestr string) (Move, error) {
	s := strings.TrimSpace(strings.ToLower(movestr))
	if len(s) < 4 || len(s) > 5 {
		return NullMove, fmt.Errorf("%w: %q: invalid length", ErrBadMoveString, movestr)
	}
	from, ok := ParseSquare(s[0:2])
	if !ok {
		return NullMove, fmt.Errorf("%w: %q: invalid origin square", ErrBadMoveString, movestr)
	}
	to, ok := ParseSquare(s[2:4])
	if !ok {
		return NullMove, fmt.Errorf("%w: %q: invalid target square", ErrBadMoveString, movestr)
	}
	m := Move{From: from, To: to}
	if len(s) == 5 {
		switch s[4] {
		case 'q':
			m.Promotion = PieceTypeQueen
		case 'r':
			m.Promotion = PieceTypeRook
		case 'b':
			m.Promotion = PieceTypeBishop
		case 'n':
			m.Promotion = PieceTypeKnight
		default:
			return NullMove, fmt.Errorf("%w: %q: invalid promotion piece", ErrBadMoveString, movestr)
		}
	}
	return m, nil
}

// Matches reports whether the generated move m corresponds to the decoded coordinate
// move c (same squares and same promotion piece, flags ignored).
func (m Move) Matches(c Move) bool {
	if m.From != c.From || m.To != c.To {
		return false
	}
	if m.IsPromotion() {
		return m.Promotion == c.Promotion
	}
	return c.Promotion == PieceTypeNone
}

// MaxMoves bounds the number of moves in any reachable position.
const MaxMoves = 256

// MoveList is a fixed-capacity move buffer kept off the heap during generation.
type MoveList struct {
	moves [MaxMoves]Move
	count int
}

// Add appends a move.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

func (ml *MoveList) add(from, to Square, flags MoveFlag, promo PieceType) {
	ml.moves[ml.count] = Move{From: from, To: to, Flags: flags, Promotion: promo}
	ml.count++
}

// Len returns the number of moves.
func (ml *MoveList) Len() int { return ml.count }

// At returns the i-th move in generation order.
func (ml *MoveList) At(i int) Move { return ml.moves[i] }

// Moves returns the populated prefix. The slice aliases the list.
func (ml *MoveList) Moves() []Move { return ml.moves[:ml.count] }

// Reset empties the list.
func (ml *MoveList) Reset() { ml.count = 0 }

// Contains reports whether m is in the list.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// From returns the moves that start on sq.
func (ml *MoveList) From(sq Square) MoveList {
	var out MoveList
	for i := 0; i < ml.count; i++ {
		if ml.moves[i].From == sq {
			out.Add(ml.moves[i])
		}
	}
	return out
}
