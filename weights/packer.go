package weights

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrWeightCount = errors.New("wrong number of weights")
	ErrOutOfRange  = errors.New("weight out of fixed-point range")
)

// Packed is the compact table: WordCount little-endian words plus a
// separate tempo pair.
type Packed struct {
	Words []uint64
	Tempo uint32
}

// Pack quantizes a raw weight list into the packed layout.
//
// Each piece kind stores a 16-bit base (material plus the centre of its
// piece-square range) and 8-bit per-square deltas around it. The base's
// rounding error is carried into the deltas.
func Pack(raw []float64) (*Packed, error) {
	if len(raw) != RawCount {
		return nil, errors.Wrapf(ErrWeightCount, "expected %d values, got %d", RawCount, len(raw))
	}
	r := Raw(raw)
	pk := &Packed{Words: make([]uint64, WordCount)}
	pairs := make([]uint32, 0, 2*scalarWords)

	for kind := 0; kind < pieceKinds; kind++ {
		piece := pieceOf(kind)
		var base [2]int16
		var delta [2][HalfBoard]int8
		for phase, endgame := range []bool{false, true} {
			pst := make([]float64, HalfBoard)
			for sq := range pst {
				pst[sq] = *r.PieceSquare(piece, sq, endgame)
			}
			mid := centre(pst)
			exact := *r.Material(piece, endgame) + mid
			b, err := quantizeI16(exact)
			if err != nil {
				return nil, errors.Wrapf(err, "%s material", pieceName(piece))
			}
			base[phase] = b
			carry := exact - float64(b)/EvalScale
			for sq, v := range pst {
				d, err := quantizeI8(v - mid + carry)
				if err != nil {
					return nil, errors.Wrapf(err, "%s square %d", pieceName(piece), sq)
				}
				delta[phase][sq] = d
			}
		}
		for g := 0; g < pstWordsPerPiece; g++ {
			var w uint64
			for j := 0; j < 4; j++ {
				sq := g*4 + j
				w |= uint64(uint8(delta[0][sq])) << (16 * j)
				w |= uint64(uint8(delta[1][sq])) << (16*j + 8)
			}
			pk.Words[kind*pstWordsPerPiece+g] = w
		}
		pairs = append(pairs, packPair(base[0], base[1]))
	}

	scalar := func(name string, get func(endgame bool) float64) error {
		mg, err := quantizeI16(get(false))
		if err != nil {
			return errors.Wrap(err, name)
		}
		eg, err := quantizeI16(get(true))
		if err != nil {
			return errors.Wrap(err, name)
		}
		pairs = append(pairs, packPair(mg, eg))
		return nil
	}
	for i, piece := range MobilityPieces {
		i := i
		if err := scalar(pieceName(piece)+" mobility", func(eg bool) float64 { return *r.Mobility(i, eg) }); err != nil {
			return nil, err
		}
	}
	for kind := 0; kind < pieceKinds; kind++ {
		piece := pieceOf(kind)
		if err := scalar(pieceName(piece)+" own pawns on file", func(eg bool) float64 { return *r.OwnPawnsOnFile(piece, eg) }); err != nil {
			return nil, err
		}
	}
	if err := scalar("bishop pair", func(eg bool) float64 { return *r.BishopPair(eg) }); err != nil {
		return nil, err
	}
	for i, p := range pairs {
		pk.Words[pstWords+i/2] |= uint64(p) << (32 * (i % 2))
	}

	mg, err := quantizeI16(*r.Tempo(false))
	if err != nil {
		return nil, errors.Wrap(err, "tempo")
	}
	eg, err := quantizeI16(*r.Tempo(true))
	if err != nil {
		return nil, errors.Wrap(err, "tempo")
	}
	pk.Tempo = packPair(mg, eg)
	return pk, nil
}

// GoLiteral renders the packed table as a Go source file.
func (pk *Packed) GoLiteral(pkg, name string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "// Code generated by packweights. DO NOT EDIT.\n\npackage %s\n\n", pkg)
	fmt.Fprintf(&sb, "var %s = [%d]uint64{\n", name, len(pk.Words))
	for i, w := range pk.Words {
		if i%4 == 0 {
			sb.WriteString("\t")
		}
		fmt.Fprintf(&sb, "0x%016x,", w)
		if i%4 == 3 || i == len(pk.Words)-1 {
			sb.WriteString("\n")
		} else {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("}\n\n")
	fmt.Fprintf(&sb, "const %sTempo uint32 = 0x%08x\n", name, pk.Tempo)
	return sb.String()
}

func centre(values []float64) float64 {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return (lo + hi) / 2
}

func quantize(v float64, lo, hi float64) (float64, error) {
	q := math.Round(v * EvalScale)
	if math.IsNaN(q) || q < lo || q > hi {
		return 0, errors.Wrapf(ErrOutOfRange, "%g scales to %g, outside [%g, %g]", v, q, lo, hi)
	}
	return q, nil
}

func quantizeI16(v float64) (int16, error) {
	q, err := quantize(v, math.MinInt16, math.MaxInt16)
	return int16(q), err
}

func quantizeI8(v float64) (int8, error) {
	q, err := quantize(v, math.MinInt8, math.MaxInt8)
	return int8(q), err
}

func packPair(mg, eg int16) uint32 {
	return uint32(uint16(eg))<<16 | uint32(uint16(mg))
}

func unpackPair(p uint32) Score {
	return Score{MG: int32(int16(uint16(p))), EG: int32(int16(uint16(p >> 16)))}
}
