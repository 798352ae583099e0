package weights

import "github.com/dylhunn/dragontoothmg"

// Default weights in centipawns. Piece-square rows run from rank 1 to rank 8,
// four files per row (a..d, mirrored onto h..e).
var defaultPST = [2][pieceKinds][HalfBoard]int16{
	{
		{ // pawn
			0, 0, 0, 0,
			-7, 8, 7, -7,
			-16, -8, -9, -10,
			-11, 0, 5, 2,
			-1, 16, 23, 28,
			-1, 28, 57, 47,
			47, 46, 62, 59,
			0, 0, 0, 0,
		},
		{ // knight
			-30, -7, -9, 1,
			-6, -6, 8, 12,
			-6, 11, 12, 24,
			12, 29, 27, 32,
			22, 27, 49, 43,
			1, 34, 62, 59,
			-1, -1, 39, 37,
			-63, -8, -16, 4,
		},
		{ // bishop
			-7, -9, -15, -19,
			-3, 7, 7, -4,
			-7, 0, 2, 1,
			-11, 0, -3, 16,
			-14, 10, 15, 24,
			-5, 13, 25, 18,
			-20, -14, -3, -9,
			-13, -3, -20, -10,
		},
		{ // rook
			-2, 7, 12, 15,
			-30, 2, -5, -8,
			-17, -3, -15, -10,
			-15, -4, -14, -10,
			-2, 7, 11, 17,
			10, 35, 26, 33,
			16, 5, 20, 23,
			28, 21, 9, 10,
		},
		{ // queen
			1, -1, 3, 20,
			4, 20, 26, 19,
			-1, 15, 8, 6,
			-4, 2, -8, -7,
			-10, -6, -21, -27,
			-10, -9, -6, -25,
			8, -31, -8, -33,
			7, 9, 5, -3,
		},
		{ // king
			10, 29, -20, -35,
			8, -7, -25, -43,
			-9, -1, 5, 3,
			-6, 10, 12, 11,
			-5, 8, 13, 11,
			-1, 8, 13, 9,
			-2, 3, 5, 3,
			-2, 0, 1, 1,
		},
	},
	{
		{ // pawn
			0, 0, 0, 0,
			11, 13, 23, 24,
			11, 8, 14, 15,
			17, 12, 8, 4,
			27, 22, 17, 3,
			66, 71, 58, 56,
			130, 113, 96, 91,
			0, 0, 0, 0,
		},
		{ // knight
			-19, -42, -18, -11,
			-20, -6, -10, 2,
			-31, 2, 7, 26,
			-3, 21, 41, 44,
			4, 28, 41, 53,
			-6, 16, 35, 31,
			-10, 1, 8, 32,
			-25, -2, 12, 7,
		},
		{ // bishop
			-10, -6, -12, -3,
			-13, -11, -6, 5,
			-1, 4, 12, 18,
			3, 13, 23, 20,
			13, 23, 21, 23,
			13, 21, 23, 19,
			5, 19, 19, 19,
			7, 11, 11, 17,
		},
		{ // rook
			-7, 2, 0, -9,
			-3, -8, -9, -8,
			2, 8, 3, 1,
			16, 22, 20, 15,
			24, 21, 19, 16,
			23, 14, 22, 13,
			4, 10, 2, 7,
			31, 32, 31, 21,
		},
		{ // queen
			-5, -8, -11, -6,
			-1, -10, -24, -3,
			2, 10, 22, -5,
			18, 29, 11, 23,
			21, 37, 7, 19,
			1, 9, 9, 3,
			19, 27, 3, 18,
			11, 17, 11, 2,
		},
		{ // king
			-62, -42, -18, -33,
			-27, -13, 4, 7,
			-16, -2, 13, 26,
			-15, 12, 29, 39,
			-2, 26, 37, 39,
			2, 34, 38, 24,
			-10, 19, 15, 7,
			-14, -7, -2, -1,
		},
	},
}

var (
	defaultMaterial   = [2][pieceKinds]int16{{79, 337, 364, 481, 1004, 0}, {95, 293, 301, 520, 916, 0}}
	defaultMobility   = [2][4]int16{{3, 2, 2, 1}, {2, 3, 6, 7}}
	defaultOwnPawns   = [2][pieceKinds]int16{{-7, 0, 0, -12, -2, 8}, {-10, 0, 0, -4, 0, -4}}
	defaultBishopPair = [2]int16{23, 62}
	defaultTempo      = [2]int16{16, 16}
)

// DefaultRaw returns the built-in weights in raw (pawn unit) form.
func DefaultRaw() []float64 {
	r := make(Raw, RawCount)
	for phase, endgame := range []bool{false, true} {
		for kind := 0; kind < pieceKinds; kind++ {
			piece := pieceOf(kind)
			for sq := 0; sq < HalfBoard; sq++ {
				*r.PieceSquare(piece, sq, endgame) = float64(defaultPST[phase][kind][sq]) / EvalScale
			}
			*r.Material(piece, endgame) = float64(defaultMaterial[phase][kind]) / EvalScale
			*r.OwnPawnsOnFile(piece, endgame) = float64(defaultOwnPawns[phase][kind]) / EvalScale
		}
		for i := range MobilityPieces {
			*r.Mobility(i, endgame) = float64(defaultMobility[phase][i]) / EvalScale
		}
		*r.BishopPair(endgame) = float64(defaultBishopPair[phase]) / EvalScale
		*r.Tempo(endgame) = float64(defaultTempo[phase]) / EvalScale
	}
	return r
}

var defaultTable = func() *Table {
	t, err := FromRaw(DefaultRaw())
	if err != nil {
		panic(err)
	}
	return t
}()

// Default returns the built-in table.
func Default() *Table {
	return defaultTable
}

// PhaseWeight is the contribution of one piece to the game phase.
var PhaseWeight = [7]int32{
	dragontoothmg.Pawn:   0,
	dragontoothmg.Knight: 1,
	dragontoothmg.Bishop: 1,
	dragontoothmg.Rook:   2,
	dragontoothmg.Queen:  4,
	dragontoothmg.King:   0,
}

// MaxPhase is the phase of the full starting material.
const MaxPhase = 24
