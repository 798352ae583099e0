package engine

import (
	"golang.org/x/exp/slices"

	"tinygoose/board"
)

// Sort keys, highest first: hash move, captures by MVV-LVA, killer, history.
const (
	hashMoveScore   int32 = 9_000_000
	captureScore    int32 = 1_000_000
	killerMoveScore int32 = 900_000
)

type scoredMove struct {
	move    board.Move
	score   int32
	capture bool
	quiet   bool
}

// orderMoves scores the moves and sorts them best first. Ties keep
// generation order.
func (e *Engine) orderMoves(b Board, moves []board.Move, ttMove board.Move, ply int) []scoredMove {
	side := b.SideToMove()
	killer := e.killers.Killer(ply)
	list := make([]scoredMove, len(moves))
	for i, m := range moves {
		victim := b.CapturedPiece(m)
		sm := scoredMove{
			move:    m,
			capture: victim != board.NoPiece,
			quiet:   victim == board.NoPiece && m.Promote() == board.NoPiece,
		}
		switch {
		case m == ttMove && ttMove != board.NullMove:
			sm.score = hashMoveScore
		case sm.capture:
			sm.score = captureScore*int32(victim) - int32(b.MovedPiece(m))
		case m == killer && killer != board.NullMove:
			sm.score = killerMoveScore
		default:
			sm.score = e.history.Score(side, b.MovedPiece(m), m.To())
		}
		list[i] = sm
	}
	slices.SortStableFunc(list, func(x, y scoredMove) bool {
		return x.score > y.score
	})
	return list
}
