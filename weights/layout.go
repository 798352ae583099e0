// Package weights holds the evaluation weight table: the flat raw layout a
// tuner produces, the packed little-endian word format the engine embeds, and
// the unpacked Table the evaluator reads through named accessors.
package weights

import "github.com/dylhunn/dragontoothmg"

// EvalScale converts raw weights (pawn units) to centipawns.
const EvalScale = 100.0

// HalfBoard is the number of piece-square entries per piece kind. Files e-h
// share the entries of files d-a.
const HalfBoard = 32

const pieceKinds = 6

// Raw feature offsets. The raw list carries FeatureCount middlegame values
// followed by FeatureCount endgame values.
const (
	pstOffset        = 0
	materialOffset   = pstOffset + pieceKinds*HalfBoard
	mobilityOffset   = materialOffset + pieceKinds
	tempoOffset      = mobilityOffset + len(MobilityPieces)
	ownPawnsOffset   = tempoOffset + 1
	bishopPairOffset = ownPawnsOffset + pieceKinds

	FeatureCount = bishopPairOffset + 1
	RawCount     = 2 * FeatureCount
)

// Packed word layout.
const (
	pstWordsPerPiece = HalfBoard / 4
	pstWords         = pieceKinds * pstWordsPerPiece
	scalarPairs      = pieceKinds + len(MobilityPieces) + pieceKinds + 1
	scalarWords      = (scalarPairs + 1) / 2

	WordCount = pstWords + scalarWords
)

// MobilityPieces lists the kinds that carry a mobility weight, in raw order.
var MobilityPieces = [4]dragontoothmg.Piece{
	dragontoothmg.Knight,
	dragontoothmg.Bishop,
	dragontoothmg.Rook,
	dragontoothmg.Queen,
}

// HalfSquare maps a white-relative square (a1 = 0) to its half-board index.
func HalfSquare(sq uint8) int {
	rank, file := int(sq/8), int(sq%8)
	if file > 3 {
		file = 7 - file
	}
	return rank*4 + file
}

// Raw addresses one feature of a raw weight list.
type Raw []float64

func (r Raw) PieceSquare(piece dragontoothmg.Piece, half int, endgame bool) *float64 {
	return r.at(pstOffset+(int(piece)-1)*HalfBoard+half, endgame)
}

func (r Raw) Material(piece dragontoothmg.Piece, endgame bool) *float64 {
	return r.at(materialOffset+int(piece)-1, endgame)
}

func (r Raw) Mobility(i int, endgame bool) *float64 {
	return r.at(mobilityOffset+i, endgame)
}

func (r Raw) Tempo(endgame bool) *float64 {
	return r.at(tempoOffset, endgame)
}

func (r Raw) OwnPawnsOnFile(piece dragontoothmg.Piece, endgame bool) *float64 {
	return r.at(ownPawnsOffset+int(piece)-1, endgame)
}

func (r Raw) BishopPair(endgame bool) *float64 {
	return r.at(bishopPairOffset, endgame)
}

func (r Raw) at(feature int, endgame bool) *float64 {
	if endgame {
		feature += FeatureCount
	}
	return &r[feature]
}
