package engine

import "tinygoose/board"

const historyMax = 512

// HistoryTable scores quiet moves by (side, piece, target square).
type HistoryTable [2][7][64]int32

// Reward moves an entry towards amount. The damping term keeps every entry
// inside [-historyMax, historyMax].
func (h *HistoryTable) Reward(side board.Color, piece board.Piece, to uint8, amount int32) {
	amount = Clamp(amount, -historyMax, historyMax)
	cur := &h[side][piece][to]
	*cur += amount - *cur*Abs(amount)/historyMax
}

func (h *HistoryTable) Score(side board.Color, piece board.Piece, to uint8) int32 {
	return h[side][piece][to]
}

func (h *HistoryTable) ClearHistoryTable() {
	*h = HistoryTable{}
}

// KillerTable keeps one quiet cutoff move per ply from the root. Slots are
// shared across sibling subtrees and across searches of the same game.
type KillerTable [MaxPly]board.Move

func (k *KillerTable) InsertKiller(move board.Move, ply int) {
	k[ply] = move
}

func (k *KillerTable) Killer(ply int) board.Move {
	return k[ply]
}

func (k *KillerTable) ClearKillers() {
	*k = KillerTable{}
}
