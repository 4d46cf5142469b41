// Package diagram draws positions as SVG images or plain text.
package diagram

import (
	"fmt"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/vinegm/cless/board"
)

const (
	lightSquare = "fill:#f0d9b5"
	darkSquare  = "fill:#b58863"
	markSquare  = "fill:#cdd26a"
)

var glyphs = map[board.Piece]string{
	board.WhiteKing: "♔", board.WhiteQueen: "♕", board.WhiteRook: "♖",
	board.WhiteBishop: "♗", board.WhiteKnight: "♘", board.WhitePawn: "♙",
	board.BlackKing: "♚", board.BlackQueen: "♛", board.BlackRook: "♜",
	board.BlackBishop: "♝", board.BlackKnight: "♞", board.BlackPawn: "♟",
}

// Options controls SVG output.
type Options struct {
	// Edge length of one square in pixels. Defaults to 45.
	SquareSize int
	// Flip draws the board from Black's side.
	Flip bool
	// Marked squares are tinted, e.g. the last move.
	Marked []board.Square
}

// WriteSVG draws p to w.
func WriteSVG(w io.Writer, p *board.Position, opt Options) {
	size := opt.SquareSize
	if size <= 0 {
		size = 45
	}
	marked := make(map[board.Square]bool, len(opt.Marked))
	for _, sq := range opt.Marked {
		marked[sq] = true
	}

	canvas := svg.New(w)
	canvas.Start(8*size, 8*size)
	pieceStyle := fmt.Sprintf("text-anchor:middle;font-size:%dpx", size*4/5)
	labelStyle := fmt.Sprintf("font-size:%dpx;fill:#555", size/5)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			file, rank := col, 7-row
			if opt.Flip {
				file, rank = 7-col, row
			}
			sq := board.NewSquare(file, rank)
			x, y := col*size, row*size

			style := lightSquare
			if (file+rank)%2 == 0 {
				style = darkSquare
			}
			if marked[sq] {
				style = markSquare
			}
			canvas.Rect(x, y, size, size, style)

			if pc := p.PieceAt(sq); pc != board.NoPiece {
				canvas.Text(x+size/2, y+size*4/5, glyphs[pc], pieceStyle)
			}
			if row == 7 {
				canvas.Text(x+size-size/5, y+size-2, string(rune('a'+file)), labelStyle)
			}
			if col == 0 {
				canvas.Text(x+2, y+size/4, string(rune('1'+rank)), labelStyle)
			}
		}
	}
	canvas.End()
}

// Text returns a plain-text board with rank and file labels, White at the bottom.
func Text(p *board.Position) string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte(byte('1' + rank))
		for file := 0; file < 8; file++ {
			sb.WriteByte(' ')
			sb.WriteByte(p.PieceAt(board.NewSquare(file, rank)).Char())
		}
		sb.WriteByte(' ')
		sb.WriteByte(byte('1' + rank))
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}
