package board

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// FENStartPos is the FEN string for the standard initial chess position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrMalformedFEN wraps every FEN parsing failure.
var ErrMalformedFEN = errors.New("malformed FEN")

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedFEN, fmt.Sprintf(format, args...))
}

// pieceFromChar converts a FEN character to the corresponding Piece constant.
func pieceFromChar(ch rune) Piece {
	switch ch {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	default:
		return NoPiece
	}
}

// MustParseFEN is like ParseFEN but panics on error. Meant for constants and tests.
func MustParseFEN(fen string) *Position {
	p, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return p
}

// ParseFEN builds a Position from a FEN string.
//
// Parsing is lenient: an unrecognised placement letter is skipped but still
// occupies one square, unknown castling letters are ignored, and missing trailing
// fields default to "w - - 0 1". Input that cannot be represented on the board
// (too many ranks, a rank running past the h-file, material no game can reach,
// a bad en passant square, non-numeric clocks, an active color other than w/b)
// returns ErrMalformedFEN.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return nil, malformed("empty input")
	}

	p := newEmptyPosition()

	// 1. Piece placement, rank 8 first.
	rank, file := 7, 0
	for _, ch := range fields[0] {
		switch {
		case ch == '/':
			rank--
			file = 0
			if rank < 0 {
				return nil, malformed("more than 8 ranks")
			}
		case ch >= '0' && ch <= '9':
			file += int(ch - '0')
			if file > 8 {
				return nil, malformed("rank %d runs past the h-file", rank+1)
			}
		default:
			if file >= 8 {
				return nil, malformed("rank %d runs past the h-file", rank+1)
			}
			if pc := pieceFromChar(ch); pc != NoPiece {
				p.addPiece(NewSquare(file, rank), pc)
			}
			file++
		}
	}
	if err := p.checkMaterial(); err != nil {
		return nil, err
	}

	// 2. Side to move
	if len(fields) > 1 {
		switch fields[1] {
		case "w":
			p.sideToMove = White
		case "b":
			p.sideToMove = Black
		default:
			return nil, malformed("side to move must be 'w' or 'b', got %q", fields[1])
		}
	}

	// 3. Castling rights
	if len(fields) > 2 && fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				p.castlingRights |= CastlingWhiteK
			case 'Q':
				p.castlingRights |= CastlingWhiteQ
			case 'k':
				p.castlingRights |= CastlingBlackK
			case 'q':
				p.castlingRights |= CastlingBlackQ
			}
		}
	}

	// 4. En passant target square
	if len(fields) > 3 && fields[3] != "-" {
		sq, ok := ParseSquare(fields[3])
		if !ok {
			return nil, malformed("invalid en passant square %q", fields[3])
		}
		p.enPassant = sq
	}

	// 5. Halfmove clock
	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, malformed("halfmove clock %q is not a number", fields[4])
		}
		p.halfmoveClock = n
	}

	// 6. Fullmove number
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 0 {
			return nil, malformed("fullmove number %q is not a number", fields[5])
		}
		p.fullmoveNumber = n
	}

	p.zobristKey = p.ComputeZobrist()
	return p, nil
}

// checkMaterial rejects placements no game can reach: more than one king or
// sixteen pieces a side, more than eight pawns, pawns on the first or last rank,
// or more extra queens, rooks, bishops and knights than missing pawns could have
// promoted to. Such placements could also overflow a MoveList.
func (p *Position) checkMaterial() error {
	const backRanks = 0xFF000000000000FF
	for _, c := range [2]Color{White, Black} {
		count := func(pt PieceType) int { return bits.OnesCount64(p.Bitboard(c, pt)) }
		if n := bits.OnesCount64(p.occupancy[c]); n > 16 {
			return malformed("%s has %d pieces", c, n)
		}
		if count(PieceTypeKing) > 1 {
			return malformed("%s has more than one king", c)
		}
		pawns := count(PieceTypePawn)
		if pawns > 8 {
			return malformed("%s has %d pawns", c, pawns)
		}
		if p.Bitboard(c, PieceTypePawn)&backRanks != 0 {
			return malformed("%s pawn on the first or last rank", c)
		}
		extra := 0
		for pt, start := range map[PieceType]int{PieceTypeQueen: 1, PieceTypeRook: 2, PieceTypeBishop: 2, PieceTypeKnight: 2} {
			if n := count(pt); n > start {
				extra += n - start
			}
		}
		if extra > 8-pawns {
			return malformed("%s has %d promoted pieces but only %d pawns missing", c, extra, 8-pawns)
		}
	}
	return nil
}

// FEN produces the FEN string of the current state.
func (p *Position) FEN() string {
	var sb strings.Builder

	// 1. Piece placement
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.mailbox[NewSquare(file, rank)]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteByte(pc.Char())
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	sb.WriteByte(' ')

	// 2. Side to move
	if p.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')

	// 3. Castling rights, always in KQkq order
	if p.castlingRights == CastlingNone {
		sb.WriteByte('-')
	} else {
		if p.castlingRights&CastlingWhiteK != 0 {
			sb.WriteByte('K')
		}
		if p.castlingRights&CastlingWhiteQ != 0 {
			sb.WriteByte('Q')
		}
		if p.castlingRights&CastlingBlackK != 0 {
			sb.WriteByte('k')
		}
		if p.castlingRights&CastlingBlackQ != 0 {
			sb.WriteByte('q')
		}
	}
	sb.WriteByte(' ')

	// 4. En passant square
	sb.WriteString(p.enPassant.String())
	sb.WriteByte(' ')

	// 5. Halfmove clock
	sb.WriteString(strconv.Itoa(p.halfmoveClock))
	sb.WriteByte(' ')

	// 6. Fullmove number
	sb.WriteString(strconv.Itoa(p.fullmoveNumber))
	return sb.String()
}

func (p *Position) String() string { return p.FEN() }
