package board

// undoInfo holds the state needed to take a move back.
type undoInfo struct {
	move          Move
	captured      Piece
	prevCastling  CastlingRights
	prevEnPassant Square
	prevHalfmove  int
	prevFullmove  int
	prevZobrist   uint64
}

// castleMask[sq] is and-ed into the castling rights whenever a move starts or ends
// on sq, so king moves, rook moves and rook captures on the home corners all
// revoke the matching rights.
var castleMask [64]CastlingRights

func init() {
	for sq := range castleMask {
		castleMask[sq] = CastlingAll
	}
	castleMask[E1] &^= CastlingWhiteK | CastlingWhiteQ
	castleMask[H1] &^= CastlingWhiteK
	castleMask[A1] &^= CastlingWhiteQ
	castleMask[E8] &^= CastlingBlackK | CastlingBlackQ
	castleMask[H8] &^= CastlingBlackK
	castleMask[A8] &^= CastlingBlackQ
}

// captureSquare is where the piece taken by m stands: the destination, or one rank
// behind it for en passant.
func captureSquare(m Move, mover Color) Square {
	if !m.IsEnPassant() {
		return m.To
	}
	if mover == White {
		return m.To - 8
	}
	return m.To + 8
}

// castlingRookSquares returns the rook's origin and destination for a castling
// king move.
func castlingRookSquares(m Move) (from, to Square) {
	if m.To > m.From {
		return m.From + 3, m.From + 1
	}
	return m.From - 4, m.From - 1
}

// MakeMove applies m unconditionally and records how to undo it. The move must come
// from the generator (or be checked against it); nothing here tests legality.
func (p *Position) MakeMove(m Move) {
	p.history = append(p.history, p.apply(m))
}

// UndoMove takes back the most recent move. With an empty history it does nothing
// and returns false.
func (p *Position) UndoMove() bool {
	n := len(p.history)
	if n == 0 {
		return false
	}
	u := p.history[n-1]
	p.history = p.history[:n-1]
	p.undo(u)
	return true
}

// LastMove returns the move that UndoMove would take back.
func (p *Position) LastMove() (Move, bool) {
	if len(p.history) == 0 {
		return NullMove, false
	}
	return p.history[len(p.history)-1].move, true
}

// apply mutates the position without touching the history. The legality filter
// uses it directly on scratch copies.
func (p *Position) apply(m Move) undoInfo {
	u := undoInfo{
		move:          m,
		prevCastling:  p.castlingRights,
		prevEnPassant: p.enPassant,
		prevHalfmove:  p.halfmoveClock,
		prevFullmove:  p.fullmoveNumber,
		prevZobrist:   p.zobristKey,
	}
	us := p.sideToMove
	moved := p.mailbox[m.From]

	u.captured = p.removePiece(captureSquare(m, us))

	// Castling rights
	p.zobristKey ^= zobristCastle[p.castlingRights]
	p.castlingRights &= castleMask[m.From] & castleMask[m.To]
	p.zobristKey ^= zobristCastle[p.castlingRights]

	// En passant target, re-set only by a double push
	if p.enPassant != NoSquare {
		p.zobristKey ^= zobristEnPassant[p.enPassant.File()]
	}
	p.enPassant = NoSquare
	isPawn := moved.Type() == PieceTypePawn
	if isPawn && (m.To-m.From == 16 || m.From-m.To == 16) {
		p.enPassant = (m.From + m.To) / 2
		p.zobristKey ^= zobristEnPassant[p.enPassant.File()]
	}

	if isPawn || u.captured != NoPiece {
		p.halfmoveClock = 0
	} else {
		p.halfmoveClock++
	}

	if m.IsCastling() {
		rookFrom, rookTo := castlingRookSquares(m)
		p.movePiece(rookFrom, rookTo)
	}

	p.removePiece(m.From)
	if m.IsPromotion() {
		p.addPiece(m.To, NewPiece(us, m.Promotion))
	} else {
		p.addPiece(m.To, moved)
	}

	if us == Black {
		p.fullmoveNumber++
	}
	p.sideToMove = us.Other()
	p.zobristKey ^= zobristSide
	return u
}

// undo reverses apply.
func (p *Position) undo(u undoInfo) {
	m := u.move
	us := p.sideToMove.Other()
	p.sideToMove = us

	moved := p.removePiece(m.To)
	if m.IsPromotion() {
		moved = NewPiece(us, PieceTypePawn)
	}
	p.addPiece(m.From, moved)

	if m.IsCastling() {
		rookFrom, rookTo := castlingRookSquares(m)
		p.movePiece(rookTo, rookFrom)
	}
	if u.captured != NoPiece {
		p.addPiece(captureSquare(m, us), u.captured)
	}

	p.castlingRights = u.prevCastling
	p.enPassant = u.prevEnPassant
	p.halfmoveClock = u.prevHalfmove
	p.fullmoveNumber = u.prevFullmove
	p.zobristKey = u.prevZobrist
}
