package board

// Promotions expand in this order.
var promotionOrder = [4]PieceType{PieceTypeQueen, PieceTypeRook, PieceTypeBishop, PieceTypeKnight}

// castleRule describes one of the four castling moves.
type castleRule struct {
	right  CastlingRights
	king   Square
	rook   Square
	target Square
	// squares strictly between king and rook
	between uint64
	// king origin, crossing square and destination
	safe [3]Square
}

var castleRules = [2][2]castleRule{
	White: {
		{CastlingWhiteK, E1, H1, G1, bb(F1) | bb(G1), [3]Square{E1, F1, G1}},
		{CastlingWhiteQ, E1, A1, C1, bb(B1) | bb(C1) | bb(D1), [3]Square{E1, D1, C1}},
	},
	Black: {
		{CastlingBlackK, E8, H8, G8, bb(F8) | bb(G8), [3]Square{E8, F8, G8}},
		{CastlingBlackQ, E8, A8, C8, bb(B8) | bb(C8) | bb(D8), [3]Square{E8, D8, C8}},
	},
}

// IsSquareAttacked reports whether any piece of color by attacks sq.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	occ := p.occupancy[bothSides]

	// Pawns: look backwards from sq with the defender's pawn pattern.
	if pawnAttacks[by.Other()][sq]&p.bitboards[bitboardIndex(by, PieceTypePawn)] != 0 {
		return true
	}
	if knightAttacks[sq]&p.bitboards[bitboardIndex(by, PieceTypeKnight)] != 0 {
		return true
	}
	if kingAttacks[sq]&p.bitboards[bitboardIndex(by, PieceTypeKing)] != 0 {
		return true
	}
	queens := p.bitboards[bitboardIndex(by, PieceTypeQueen)]
	if diag := p.bitboards[bitboardIndex(by, PieceTypeBishop)] | queens; diag != 0 && BishopAttacks(sq, occ)&diag != 0 {
		return true
	}
	if ortho := p.bitboards[bitboardIndex(by, PieceTypeRook)] | queens; ortho != 0 && RookAttacks(sq, occ)&ortho != 0 {
		return true
	}
	return false
}

// InCheck reports whether color c's king is attacked. A side without a king is
// never in check.
func (p *Position) InCheck(c Color) bool {
	k := p.KingSquare(c)
	if k == NoSquare {
		return false
	}
	return p.IsSquareAttacked(k, c.Other())
}

// PseudoLegalMoves returns every move obeying piece movement rules for the side to
// move, without testing whether the mover's king is left attacked.
func (p *Position) PseudoLegalMoves() MoveList {
	var ml MoveList
	p.GeneratePseudoLegalInto(&ml)
	return ml
}

// LegalMoves returns the fully legal moves for the side to move.
func (p *Position) LegalMoves() MoveList {
	var ml MoveList
	p.GenerateLegalInto(&ml)
	return ml
}

// GenerateLegalInto fills ml with the legal moves. Each pseudo-legal move is played on
// a scratch copy and dropped if the mover's king ends up attacked.
func (p *Position) GenerateLegalInto(ml *MoveList) {
	var pseudo MoveList
	p.GeneratePseudoLegalInto(&pseudo)
	ml.Reset()
	us := p.sideToMove
	for i := 0; i < pseudo.count; i++ {
		m := pseudo.moves[i]
		scratch := *p
		scratch.history = nil
		scratch.apply(m)
		if !scratch.InCheck(us) {
			ml.Add(m)
		}
	}
}

// GeneratePseudoLegalInto fills ml in piece order: pawns, knights, bishops, rooks,
// queens, king, castling.
func (p *Position) GeneratePseudoLegalInto(ml *MoveList) {
	ml.Reset()
	us := p.sideToMove
	own := p.occupancy[us]
	enemy := p.occupancy[us.Other()]
	occ := p.occupancy[bothSides]

	p.generatePawnMoves(ml)

	knights := p.bitboards[bitboardIndex(us, PieceTypeKnight)]
	for knights != 0 {
		from := popLSB(&knights)
		addTargets(ml, from, knightAttacks[from]&^own, enemy)
	}
	bishops := p.bitboards[bitboardIndex(us, PieceTypeBishop)]
	for bishops != 0 {
		from := popLSB(&bishops)
		addTargets(ml, from, BishopAttacks(from, occ)&^own, enemy)
	}
	rooks := p.bitboards[bitboardIndex(us, PieceTypeRook)]
	for rooks != 0 {
		from := popLSB(&rooks)
		addTargets(ml, from, RookAttacks(from, occ)&^own, enemy)
	}
	queens := p.bitboards[bitboardIndex(us, PieceTypeQueen)]
	for queens != 0 {
		from := popLSB(&queens)
		addTargets(ml, from, QueenAttacks(from, occ)&^own, enemy)
	}
	kings := p.bitboards[bitboardIndex(us, PieceTypeKing)]
	for kings != 0 {
		from := popLSB(&kings)
		addTargets(ml, from, kingAttacks[from]&^own, enemy)
	}

	p.generateCastling(ml)
}

func addTargets(ml *MoveList, from Square, targets, enemy uint64) {
	for targets != 0 {
		to := popLSB(&targets)
		if enemy&bb(to) != 0 {
			ml.add(from, to, FlagCapture, PieceTypeNone)
		} else {
			ml.add(from, to, FlagNone, PieceTypeNone)
		}
	}
}

// addPawnMove adds a pawn move, expanding it into the four promotions when it lands
// on the last rank.
func addPawnMove(ml *MoveList, from, to Square, flags MoveFlag, promoRank int) {
	if to.Rank() != promoRank {
		ml.add(from, to, flags, PieceTypeNone)
		return
	}
	for _, pt := range promotionOrder {
		ml.add(from, to, flags|FlagPromotion, pt)
	}
}

func (p *Position) generatePawnMoves(ml *MoveList) {
	us, them := p.sideToMove, p.sideToMove.Other()
	enemy := p.occupancy[them]
	occ := p.occupancy[bothSides]

	forward, startRank, promoRank := Square(8), 1, 7
	if us == Black {
		forward, startRank, promoRank = -8, 6, 0
	}

	// En passant needs an empty target with the enemy pawn just behind it.
	epTarget := uint64(0)
	if ep := p.enPassant; ep != NoSquare && p.mailbox[ep] == NoPiece {
		behind := ep - forward
		if behind.Valid() && p.mailbox[behind] == NewPiece(them, PieceTypePawn) {
			epTarget = bb(ep)
		}
	}

	pawns := p.bitboards[bitboardIndex(us, PieceTypePawn)]
	for pawns != 0 {
		from := popLSB(&pawns)

		// Pushes
		if to := from + forward; to.Valid() && occ&bb(to) == 0 {
			addPawnMove(ml, from, to, FlagNone, promoRank)
			if from.Rank() == startRank {
				if to2 := to + forward; occ&bb(to2) == 0 {
					ml.add(from, to2, FlagNone, PieceTypeNone)
				}
			}
		}

		// Captures
		attacks := pawnAttacks[us][from]
		caps := attacks & enemy
		for caps != 0 {
			to := popLSB(&caps)
			addPawnMove(ml, from, to, FlagCapture, promoRank)
		}
		if attacks&epTarget != 0 {
			ml.add(from, p.enPassant, FlagEnPassant, PieceTypeNone)
		}
	}
}

// generateCastling adds castling moves whose right is held, whose path is empty and
// whose king squares are not attacked. King and rook must still stand on their
// home squares.
func (p *Position) generateCastling(ml *MoveList) {
	us := p.sideToMove
	them := us.Other()
	occ := p.occupancy[bothSides]
	for _, r := range castleRules[us] {
		if p.castlingRights&r.right == 0 {
			continue
		}
		if p.mailbox[r.king] != NewPiece(us, PieceTypeKing) || p.mailbox[r.rook] != NewPiece(us, PieceTypeRook) {
			continue
		}
		if occ&r.between != 0 {
			continue
		}
		if p.IsSquareAttacked(r.safe[0], them) || p.IsSquareAttacked(r.safe[1], them) || p.IsSquareAttacked(r.safe[2], them) {
			continue
		}
		ml.add(r.king, r.target, FlagCastling, PieceTypeNone)
	}
}

// HasLegalMoves reports whether the side to move has any legal moves.
func (p *Position) HasLegalMoves() bool {
	var pseudo MoveList
	p.GeneratePseudoLegalInto(&pseudo)
	us := p.sideToMove
	for i := 0; i < pseudo.count; i++ {
		scratch := *p
		scratch.history = nil
		scratch.apply(pseudo.moves[i])
		if !scratch.InCheck(us) {
			return true
		}
	}
	return false
}

// InCheckmate reports whether the side to move is checkmated.
func (p *Position) InCheckmate() bool {
	return p.InCheck(p.sideToMove) && !p.HasLegalMoves()
}

// InStalemate reports whether the side to move is stalemated.
func (p *Position) InStalemate() bool {
	return !p.InCheck(p.sideToMove) && !p.HasLegalMoves()
}

// IsDrawBy50 reports a 50-move rule draw (halfmoveClock counts half-moves).
func (p *Position) IsDrawBy50() bool {
	return p.halfmoveClock >= 100
}
