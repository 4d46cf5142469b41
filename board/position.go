package board

// Position is the authoritative, mutable board state of one game.
//
// The 12 piece bitboards, the three occupancy masks and the 64-entry mailbox
// always describe the same placement; every mutation goes through addPiece and
// removePiece to keep them in step. A Position is not safe for concurrent use;
// each game owns its own value together with its undo history.
type Position struct {
	// One bitboard per (color, type), see bitboardIndex.
	bitboards [12]uint64

	// occupancy[White], occupancy[Black], occupancy[bothSides]
	occupancy [3]uint64

	// Piece per square, NoPiece for empty squares.
	mailbox [64]Piece

	sideToMove     Color
	castlingRights CastlingRights

	// Target square behind a pawn that just double-pushed, otherwise NoSquare.
	enPassant Square

	// Half-moves since the last capture or pawn move.
	halfmoveClock int

	// Starts at 1, incremented after Black's move.
	fullmoveNumber int

	zobristKey uint64

	history []undoInfo
}

const bothSides = 2

func bitboardIndex(c Color, pt PieceType) int { return int(c)*6 + int(pt) - 1 }

// NewPosition returns the standard starting position.
func NewPosition() *Position { return MustParseFEN(FENStartPos) }

func newEmptyPosition() *Position {
	return &Position{enPassant: NoSquare, fullmoveNumber: 1}
}

// SideToMove reports which side is to play.
func (p *Position) SideToMove() Color { return p.sideToMove }

// CastlingRights returns the current castling permissions.
func (p *Position) CastlingRights() CastlingRights { return p.castlingRights }

// EnPassant returns the en passant target square or NoSquare.
func (p *Position) EnPassant() Square { return p.enPassant }

// HalfmoveClock accessor for consumers that want read-only access.
func (p *Position) HalfmoveClock() int { return p.halfmoveClock }

// FullmoveNumber returns the full move counter.
func (p *Position) FullmoveNumber() int { return p.fullmoveNumber }

// Hash returns the incrementally maintained Zobrist key.
func (p *Position) Hash() uint64 { return p.zobristKey }

// Ply returns how many moves can currently be undone.
func (p *Position) Ply() int { return len(p.history) }

// PieceAt returns the piece on sq. Empty squares yield NoPiece, whose Color is
// White and Type is PieceTypeNone.
func (p *Position) PieceAt(sq Square) Piece { return p.mailbox[sq] }

// Bitboard returns the squares holding pieces of the given color and type.
func (p *Position) Bitboard(c Color, pt PieceType) uint64 {
	if pt == PieceTypeNone || pt > PieceTypeKing {
		return 0
	}
	return p.bitboards[bitboardIndex(c, pt)]
}

// Occupancy returns the squares occupied by color c.
func (p *Position) Occupancy(c Color) uint64 { return p.occupancy[c] }

// AllOccupancy returns a bitboard of all occupied squares.
func (p *Position) AllOccupancy() uint64 { return p.occupancy[bothSides] }

// KingSquare returns the square of c's king, or NoSquare if it has none.
func (p *Position) KingSquare(c Color) Square {
	kings := p.bitboards[bitboardIndex(c, PieceTypeKing)]
	if kings == 0 {
		return NoSquare
	}
	return lsb(kings)
}

// Copy returns an independent deep copy, undo history included.
func (p *Position) Copy() *Position {
	cp := *p
	cp.history = append([]undoInfo(nil), p.history...)
	return &cp
}

// Equal reports whether both positions hold the same state. The undo history is
// not compared.
func (p *Position) Equal(o *Position) bool {
	return p.bitboards == o.bitboards &&
		p.occupancy == o.occupancy &&
		p.mailbox == o.mailbox &&
		p.sideToMove == o.sideToMove &&
		p.castlingRights == o.castlingRights &&
		p.enPassant == o.enPassant &&
		p.halfmoveClock == o.halfmoveClock &&
		p.fullmoveNumber == o.fullmoveNumber &&
		p.zobristKey == o.zobristKey
}

// addPiece places a piece on an empty square and updates bitboards, occupancy and hash.
func (p *Position) addPiece(sq Square, pc Piece) {
	if pc == NoPiece {
		return
	}
	bit := bb(sq)
	c := pc.Color()
	p.mailbox[sq] = pc
	p.bitboards[bitboardIndex(c, pc.Type())] |= bit
	p.occupancy[c] |= bit
	p.occupancy[bothSides] |= bit
	p.zobristKey ^= zobristPiece[pc][sq]
}

// removePiece clears a square and returns what stood there.
func (p *Position) removePiece(sq Square) Piece {
	pc := p.mailbox[sq]
	if pc == NoPiece {
		return NoPiece
	}
	mask := ^bb(sq)
	c := pc.Color()
	p.mailbox[sq] = NoPiece
	p.bitboards[bitboardIndex(c, pc.Type())] &= mask
	p.occupancy[c] &= mask
	p.occupancy[bothSides] &= mask
	p.zobristKey ^= zobristPiece[pc][sq]
	return pc
}

// movePiece relocates whatever stands on from to the empty square to.
func (p *Position) movePiece(from, to Square) {
	p.addPiece(to, p.removePiece(from))
}

// SetPiece puts pc on sq, replacing whatever stood there. Castling rights and the
// en passant square are left alone.
func (p *Position) SetPiece(sq Square, pc Piece) {
	p.removePiece(sq)
	p.addPiece(sq, pc)
}

// ClearSquare empties sq.
func (p *Position) ClearSquare(sq Square) { p.removePiece(sq) }

// Validate checks internal consistency between the mailbox, per-piece bitboards,
// occupancy and the hash. Returns true if consistent.
func (p *Position) Validate() bool {
	var boards [12]uint64
	var occ [3]uint64
	for sq := Square(0); sq < 64; sq++ {
		pc := p.mailbox[sq]
		if pc == NoPiece {
			continue
		}
		if pc.Type() == PieceTypeNone || pc.Type() > PieceTypeKing {
			return false
		}
		bit := bb(sq)
		boards[bitboardIndex(pc.Color(), pc.Type())] |= bit
		occ[pc.Color()] |= bit
	}
	occ[bothSides] = occ[White] | occ[Black]
	if boards != p.bitboards || occ != p.occupancy {
		return false
	}
	if occ[White]&occ[Black] != 0 {
		return false
	}
	return p.zobristKey == p.ComputeZobrist()
}
