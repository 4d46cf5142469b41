package engine

import "github.com/vinegm/cless/board"

// DivideEntry is one root move with the number of leaves below it.
type DivideEntry struct {
	Move  board.Move
	Nodes uint64
}

// Perft counts the leaf nodes exactly depth plies below the current position.
// Depth 0 (or less) counts the position itself. The position is restored before
// returning.
func (e *Engine) Perft(depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	root := e.LegalMoves()
	if depth == 1 {
		return uint64(root.Len())
	}
	var nodes uint64
	for _, m := range root.Moves() {
		e.pos.MakeMove(m)
		nodes += perft(e.pos, depth-1)
		e.pos.UndoMove()
	}
	return nodes
}

// PerftDivide runs perft below each root move and reports the counts in generation
// order. It returns nil for depth < 1.
func (e *Engine) PerftDivide(depth int) []DivideEntry {
	if depth < 1 {
		return nil
	}
	root := e.LegalMoves()
	out := make([]DivideEntry, 0, root.Len())
	for _, m := range root.Moves() {
		e.pos.MakeMove(m)
		out = append(out, DivideEntry{Move: m, Nodes: perft(e.pos, depth-1)})
		e.pos.UndoMove()
	}
	return out
}

// Total sums the node counts of a divide.
func Total(entries []DivideEntry) uint64 {
	var n uint64
	for _, d := range entries {
		n += d.Nodes
	}
	return n
}

// perft is the trusted recursion: every move comes from the generator, so it skips
// the engine's validation and cache. Leaves at depth 1 are bulk counted.
func perft(p *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var moves board.MoveList
	p.GenerateLegalInto(&moves)
	if depth == 1 {
		return uint64(moves.Len())
	}
	var nodes uint64
	for _, m := range moves.Moves() {
		p.MakeMove(m)
		nodes += perft(p, depth-1)
		p.UndoMove()
	}
	return nodes
}
