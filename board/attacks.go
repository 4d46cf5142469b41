package board

// Precomputed attack masks for knights and kings from each square.
var knightAttacks [64]uint64
var kingAttacks [64]uint64

// pawnAttacks[color][sq] gives the squares a pawn of that color attacks from sq.
var pawnAttacks [2][64]uint64

// Rays for sliders. For each square and direction, the squares in that ray
// excluding the origin square.
// Rook directions: 0=N, 1=S, 2=E, 3=W
var rookRays [64][4]uint64

// Bishop directions: 0=NE, 1=NW, 2=SE, 3=SW
var bishopRays [64][4]uint64

// Directions whose square indices grow away from the origin; the first blocker on
// those rays is the lowest set bit, on the others the highest.
var rookRayAscending = [4]bool{true, false, true, false}
var bishopRayAscending = [4]bool{true, true, false, false}

func init() {
	initLeaperTables()
	initRays()
}

// stepTable builds a 64-entry table by applying (rank, file) offsets from every square,
// discarding targets that leave the board so nothing wraps around a file edge.
func stepTable(offsets [][2]int) [64]uint64 {
	var table [64]uint64
	for sq := 0; sq < 64; sq++ {
		file := sq % 8
		rank := sq / 8
		var mask uint64
		for _, off := range offsets {
			rf := rank + off[0]
			ff := file + off[1]
			if rf >= 0 && rf < 8 && ff >= 0 && ff < 8 {
				mask |= uint64(1) << uint(rf*8+ff)
			}
		}
		table[sq] = mask
	}
	return table
}

// initLeaperTables precomputes attack bitboards for knights, kings, and pawn captures.
func initLeaperTables() {
	knightAttacks = stepTable([][2]int{
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
	})
	kingAttacks = stepTable([][2]int{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	})
	pawnAttacks[White] = stepTable([][2]int{{1, -1}, {1, 1}})
	pawnAttacks[Black] = stepTable([][2]int{{-1, -1}, {-1, 1}})
}

// initRays precomputes directional rays for rook and bishop moves.
func initRays() {
	rookDirs := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs := [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	for sq := 0; sq < 64; sq++ {
		for d := 0; d < 4; d++ {
			rookRays[sq][d] = walkRay(sq, rookDirs[d])
			bishopRays[sq][d] = walkRay(sq, bishopDirs[d])
		}
	}
}

func walkRay(sq int, dir [2]int) uint64 {
	var ray uint64
	r, f := sq/8+dir[0], sq%8+dir[1]
	for r >= 0 && r < 8 && f >= 0 && f < 8 {
		ray |= uint64(1) << uint(r*8+f)
		r += dir[0]
		f += dir[1]
	}
	return ray
}

// slide scans each ray from sq, keeps the first occupied square (a capture target)
// and drops everything behind it.
func slide(rays *[64][4]uint64, ascending *[4]bool, sq Square, occ uint64) uint64 {
	var attacks uint64
	for d := 0; d < 4; d++ {
		ray := rays[sq][d]
		if blockers := ray & occ; blockers != 0 {
			var first Square
			if ascending[d] {
				first = lsb(blockers)
			} else {
				first = msb(blockers)
			}
			ray &^= rays[first][d]
		}
		attacks |= ray
	}
	return attacks
}

// RookAttacks returns the rook attack set from sq given the occupancy.
func RookAttacks(sq Square, occ uint64) uint64 {
	return slide(&rookRays, &rookRayAscending, sq, occ)
}

// BishopAttacks returns the bishop attack set from sq given the occupancy.
func BishopAttacks(sq Square, occ uint64) uint64 {
	return slide(&bishopRays, &bishopRayAscending, sq, occ)
}

// QueenAttacks is the union of the rook and bishop scans from sq.
func QueenAttacks(sq Square, occ uint64) uint64 {
	return RookAttacks(sq, occ) | BishopAttacks(sq, occ)
}

// KnightAttacks returns the knight attack set from sq.
func KnightAttacks(sq Square) uint64 { return knightAttacks[sq] }

// KingAttacks returns the king attack set from sq.
func KingAttacks(sq Square) uint64 { return kingAttacks[sq] }

// PawnAttacks returns the capture squares of a pawn of color c standing on sq.
func PawnAttacks(c Color, sq Square) uint64 { return pawnAttacks[c][sq] }
