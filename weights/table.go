package weights

import (
	"github.com/dylhunn/dragontoothmg"
	"github.com/pkg/errors"
)

// Score is a middlegame/endgame pair in centipawns.
type Score struct {
	MG, EG int32
}

// Table is an unpacked evaluation table. It is immutable once built.
type Table struct {
	pst        [7][HalfBoard]Score
	material   [7]Score
	mobility   [7]Score
	ownPawns   [7]Score
	bishopPair Score
	tempo      Score
}

// Unpack decodes a packed table.
func Unpack(words []uint64, tempo uint32) (*Table, error) {
	if len(words) != WordCount {
		return nil, errors.Wrapf(ErrWeightCount, "expected %d packed words, got %d", WordCount, len(words))
	}
	pairs := make([]uint32, 0, 2*scalarWords)
	for _, w := range words[pstWords:] {
		pairs = append(pairs, uint32(w), uint32(w>>32))
	}

	t := &Table{}
	for kind := 0; kind < pieceKinds; kind++ {
		piece := pieceOf(kind)
		base := unpackPair(pairs[kind])
		t.material[piece] = base
		for g := 0; g < pstWordsPerPiece; g++ {
			w := words[kind*pstWordsPerPiece+g]
			for j := 0; j < 4; j++ {
				mg := int8(uint8(w >> (16 * j)))
				eg := int8(uint8(w >> (16*j + 8)))
				t.pst[piece][g*4+j] = Score{MG: base.MG + int32(mg), EG: base.EG + int32(eg)}
			}
		}
	}
	next := pieceKinds
	for _, piece := range MobilityPieces {
		t.mobility[piece] = unpackPair(pairs[next])
		next++
	}
	for kind := 0; kind < pieceKinds; kind++ {
		t.ownPawns[pieceOf(kind)] = unpackPair(pairs[next])
		next++
	}
	t.bishopPair = unpackPair(pairs[next])
	t.tempo = unpackPair(tempo)
	return t, nil
}

// FromRaw packs and unpacks a raw weight list.
func FromRaw(raw []float64) (*Table, error) {
	pk, err := Pack(raw)
	if err != nil {
		return nil, err
	}
	return Unpack(pk.Words, pk.Tempo)
}

// PieceSquare returns material plus the piece-square bonus for a piece on a
// white-relative square (a1 = 0).
func (t *Table) PieceSquare(piece dragontoothmg.Piece, sq uint8) Score {
	return t.pst[piece][HalfSquare(sq)]
}

// Material returns the per-kind base the piece-square deltas are stored
// against.
func (t *Table) Material(piece dragontoothmg.Piece) Score {
	return t.material[piece]
}

// Mobility is the weight per attacked square not occupied by an own piece.
func (t *Table) Mobility(piece dragontoothmg.Piece) Score {
	return t.mobility[piece]
}

// OwnPawnsOnFile is the weight per friendly pawn sharing the piece's file.
func (t *Table) OwnPawnsOnFile(piece dragontoothmg.Piece) Score {
	return t.ownPawns[piece]
}

func (t *Table) BishopPair() Score {
	return t.bishopPair
}

func (t *Table) Tempo() Score {
	return t.tempo
}

func pieceOf(kind int) dragontoothmg.Piece {
	return dragontoothmg.Piece(kind + 1)
}

var pieceNames = [7]string{"none", "pawn", "knight", "bishop", "rook", "queen", "king"}

func pieceName(piece dragontoothmg.Piece) string {
	if int(piece) >= len(pieceNames) {
		return "unknown"
	}
	return pieceNames[piece]
}
