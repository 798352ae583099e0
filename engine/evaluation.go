package engine

import (
	"math/bits"

	"github.com/dylhunn/dragontoothmg"

	"tinygoose/board"
	"tinygoose/weights"
)

var knightAttacks [64]uint64
var fileMasks [8]uint64

func init() {
	for sq := 0; sq < 64; sq++ {
		rank, file := sq/8, sq%8
		for _, d := range [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}} {
			r, f := rank+d[0], file+d[1]
			if r >= 0 && r < 8 && f >= 0 && f < 8 {
				knightAttacks[sq] |= 1 << (r*8 + f)
			}
		}
	}
	for file := 0; file < 8; file++ {
		fileMasks[file] = 0x0101010101010101 << file
	}
}

type pieceSet struct {
	piece board.Piece
	bits  uint64
}

// Evaluate scores the position for the side to move.
func Evaluate(b Board, t *weights.Table) int32 {
	score, tempo := evaluate(b, t)
	return score + tempo
}

// evaluate returns the tapered score for the side to move and the tapered
// tempo bonus separately.
func evaluate(b Board, t *weights.Table) (int32, int32) {
	var mg, eg [2]int32
	var phase int32

	sides := [2]*dragontoothmg.Bitboards{b.Pieces(board.White), b.Pieces(board.Black)}
	occupied := sides[0].All | sides[1].All

	for side, bb := range sides {
		var flip uint8
		if side == int(board.Black) {
			flip = 56
		}
		sets := [6]pieceSet{
			{board.Pawn, bb.Pawns},
			{board.Knight, bb.Knights},
			{board.Bishop, bb.Bishops},
			{board.Rook, bb.Rooks},
			{board.Queen, bb.Queens},
			{board.King, bb.Kings},
		}
		for _, set := range sets {
			mobility := t.Mobility(set.piece)
			ownPawns := t.OwnPawnsOnFile(set.piece)
			for x := set.bits; x != 0; x &= x - 1 {
				sq := uint8(bits.TrailingZeros64(x))
				psq := t.PieceSquare(set.piece, sq^flip)
				mg[side] += psq.MG
				eg[side] += psq.EG
				phase += weights.PhaseWeight[set.piece]

				if set.piece != board.Pawn && set.piece != board.King {
					n := int32(bits.OnesCount64(attacksFrom(set.piece, sq, occupied) &^ bb.All))
					mg[side] += n * mobility.MG
					eg[side] += n * mobility.EG
				}

				n := int32(bits.OnesCount64(bb.Pawns & fileMasks[sq&7] &^ (1 << sq)))
				mg[side] += n * ownPawns.MG
				eg[side] += n * ownPawns.EG
			}
		}
		if bits.OnesCount64(bb.Bishops) >= 2 {
			pair := t.BishopPair()
			mg[side] += pair.MG
			eg[side] += pair.EG
		}
	}

	phase = Min(phase, weights.MaxPhase)
	score := taper(mg[0]-mg[1], eg[0]-eg[1], phase)
	if b.SideToMove() == board.Black {
		score = -score
	}
	tempo := t.Tempo()
	return score, taper(tempo.MG, tempo.EG, phase)
}

func taper(mg, eg, phase int32) int32 {
	return (mg*phase + eg*(weights.MaxPhase-phase)) / weights.MaxPhase
}

func attacksFrom(piece board.Piece, sq uint8, occupied uint64) uint64 {
	occ := occupied &^ (1 << sq)
	switch piece {
	case board.Knight:
		return knightAttacks[sq]
	case board.Bishop:
		return dragontoothmg.CalculateBishopMoveBitboard(sq, occ)
	case board.Rook:
		return dragontoothmg.CalculateRookMoveBitboard(sq, occ)
	case board.Queen:
		return dragontoothmg.CalculateBishopMoveBitboard(sq, occ) | dragontoothmg.CalculateRookMoveBitboard(sq, occ)
	}
	return 0
}

// hasNonPawnMaterial guards null-move pruning against zugzwang.
func hasNonPawnMaterial(b Board) bool {
	bb := b.Pieces(b.SideToMove())
	return bb.Knights|bb.Bishops|bb.Rooks|bb.Queens != 0
}

// GamePhase is the clamped phase used for tapering and time allocation.
func GamePhase(b Board) int {
	var phase int32
	for _, c := range []board.Color{board.White, board.Black} {
		bb := b.Pieces(c)
		phase += int32(bits.OnesCount64(bb.Knights|bb.Bishops)) * weights.PhaseWeight[board.Knight]
		phase += int32(bits.OnesCount64(bb.Rooks)) * weights.PhaseWeight[board.Rook]
		phase += int32(bits.OnesCount64(bb.Queens)) * weights.PhaseWeight[board.Queen]
	}
	return int(Min(phase, weights.MaxPhase))
}
