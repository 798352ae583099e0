package engine

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"tinygoose/board"
)

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
const (
	Infinity  int32 = 1_000_000
	MateScore int32 = 100_000
	// Scores at or beyond MateBound encode a forced mate.
	MateBound int32 = 50_000
	DrawScore int32 = 0
)

const (
	MaxPly   = 256
	MaxDepth = 64
)

func isMateScore(score int32) bool {
	return Abs(score) >= MateBound
}

// FormatScore renders a score for UCI info lines.
func FormatScore(score int32) string {
	if score >= MateBound {
		plies := MateScore - score
		return fmt.Sprintf("mate %d", (plies+1)/2)
	} else if score <= -MateBound {
		plies := MateScore + score
		return fmt.Sprintf("mate %d", -(plies+1)/2)
	}
	return fmt.Sprintf("cp %d", score)
}

// MovesString joins moves in coordinate notation.
func MovesString(moves []board.Move) string {
	return strings.Join(lo.Map(moves, func(m board.Move, _ int) string {
		return m.String()
	}), " ")
}
