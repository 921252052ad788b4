package core

import (
	"fmt"
	"strings"
)

// RenderASCII creates an ASCII picture of the board.
// This is used for debugging, testing and the stage preview command.
//
// Format:
//   - One line per row from the anchor row down to the kill line
//   - Staggered rows are indented by one character
//   - Bubbles use Color.Char, empty cells '.'
//   - The kill line is drawn as a row of '-'
func RenderASCII(b *Board) string {
	var sb strings.Builder
	g := b.Grid()
	last := max(g.Rows-1, b.LowestRow())

	for row := AnchorRow; row <= last; row++ {
		if row == g.Rows {
			sb.WriteString(strings.Repeat("-", g.Columns*2) + "\n")
		}
		if g.Staggered(row) {
			sb.WriteByte(' ')
		}
		for col := 0; col <= g.MaxCol(row); col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			if bubble, ok := b.At(C(row, col)); ok {
				sb.WriteRune(bubble.Color.Char())
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	if last < g.Rows {
		sb.WriteString(strings.Repeat("-", g.Columns*2) + "\n")
	}
	return sb.String()
}

// RenderSession renders the board with a status header and the shooter line.
func RenderSession(s *Session) string {
	var sb strings.Builder
	b := s.Board()
	sb.WriteString(fmt.Sprintf("Stage: %d | Score: %d | Shots: %d/%d | Phase: %s\n",
		s.Stage(), s.Score(), b.ShotsFired(), b.ShiftShots(), s.Phase()))
	sb.WriteString(RenderASCII(b))
	sb.WriteString(fmt.Sprintf("Aim: %+.0f | Shot: %c | Next: %c\n",
		s.Aiming(), s.Projectile().Color.Char(), s.NextColor().Char()))
	return sb.String()
}
