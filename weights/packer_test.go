package weights

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"github.com/matryer/is"
	"github.com/pkg/errors"
)

func TestLayoutSizes(t *testing.T) {
	is := is.New(t)
	is.Equal(FeatureCount, 210)
	is.Equal(RawCount, 420)
	is.Equal(WordCount, 57)
}

func TestPackRejectsWrongCount(t *testing.T) {
	for _, n := range []int{0, RawCount - 1, RawCount + 1} {
		_, err := Pack(make([]float64, n))
		if errors.Cause(err) != ErrWeightCount {
			t.Fatalf("expected ErrWeightCount for %d values, got %v", n, err)
		}
	}
}

func TestUnpackRejectsWrongCount(t *testing.T) {
	_, err := Unpack(make([]uint64, WordCount-1), 0)
	if errors.Cause(err) != ErrWeightCount {
		t.Fatalf("expected ErrWeightCount, got %v", err)
	}
}

func TestPackRejectsOutOfRange(t *testing.T) {
	raw := Raw(DefaultRaw())
	*raw.Material(dragontoothmg.Queen, false) = 400 // 40000 centipawns
	if _, err := Pack(raw); errors.Cause(err) != ErrOutOfRange {
		t.Fatalf("expected ErrOutOfRange for oversized material, got %v", err)
	}

	raw = Raw(DefaultRaw())
	*raw.PieceSquare(dragontoothmg.Knight, 5, true) = 3 // spread wider than a byte
	if _, err := Pack(raw); errors.Cause(err) != ErrOutOfRange {
		t.Fatalf("expected ErrOutOfRange for a wide piece-square spread, got %v", err)
	}

	raw = Raw(DefaultRaw())
	*raw.Tempo(true) = math.NaN()
	if _, err := Pack(raw); errors.Cause(err) != ErrOutOfRange {
		t.Fatalf("expected ErrOutOfRange for NaN, got %v", err)
	}
}

func TestDefaultTableRoundTrip(t *testing.T) {
	is := is.New(t)
	tab := Default()

	// a1 knight, g1 knight (mirrors b1), e4 pawn (mirrors d4)
	is.Equal(tab.PieceSquare(dragontoothmg.Knight, 0), Score{MG: 337 - 30, EG: 293 - 19})
	is.Equal(tab.PieceSquare(dragontoothmg.Knight, 6), Score{MG: 337 - 7, EG: 293 - 42})
	is.Equal(tab.PieceSquare(dragontoothmg.Pawn, 28), Score{MG: 79 + 2, EG: 95 + 4})
	is.Equal(tab.PieceSquare(dragontoothmg.Pawn, 27), tab.PieceSquare(dragontoothmg.Pawn, 28))

	is.Equal(tab.Mobility(dragontoothmg.Rook), Score{MG: 2, EG: 6})
	is.Equal(tab.OwnPawnsOnFile(dragontoothmg.Pawn), Score{MG: -7, EG: -10})
	is.Equal(tab.BishopPair(), Score{MG: 23, EG: 62})
	is.Equal(tab.Tempo(), Score{MG: 16, EG: 16})
}

func TestNegativePairsSurvivePacking(t *testing.T) {
	is := is.New(t)
	raw := Raw(DefaultRaw())
	*raw.OwnPawnsOnFile(dragontoothmg.Rook, false) = -1.5
	*raw.OwnPawnsOnFile(dragontoothmg.Rook, true) = 2.25
	*raw.Tempo(false) = -0.03
	tab, err := FromRaw(raw)
	is.NoErr(err)
	is.Equal(tab.OwnPawnsOnFile(dragontoothmg.Rook), Score{MG: -150, EG: 225})
	is.Equal(tab.Tempo(), Score{MG: -3, EG: 16})
}

func TestPieceSquareWithinOneCentipawn(t *testing.T) {
	raw := Raw(DefaultRaw())
	// Fractional weights exercise the carried rounding error.
	for sq := 0; sq < HalfBoard; sq++ {
		*raw.PieceSquare(dragontoothmg.Bishop, sq, false) = float64(sq)*0.037 - 0.4
	}
	*raw.Material(dragontoothmg.Bishop, false) = 3.333
	tab, err := FromRaw(raw)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	for sq := uint8(0); sq < 64; sq++ {
		want := (3.333 + float64(HalfSquare(sq))*0.037 - 0.4) * EvalScale
		got := float64(tab.PieceSquare(dragontoothmg.Bishop, sq).MG)
		if math.Abs(got-want) > 1 {
			t.Fatalf("square %d: expected about %.2f, got %.0f", sq, want, got)
		}
	}
}

func TestHalfSquareMirrorsFiles(t *testing.T) {
	is := is.New(t)
	is.Equal(HalfSquare(0), 0)   // a1
	is.Equal(HalfSquare(7), 0)   // h1
	is.Equal(HalfSquare(3), 3)   // d1
	is.Equal(HalfSquare(4), 3)   // e1
	is.Equal(HalfSquare(63), 28) // h8
}

func TestGoLiteral(t *testing.T) {
	pk, err := Pack(DefaultRaw())
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	src := pk.GoLiteral("engine", "packedWeights")
	for _, want := range []string{"package engine", "var packedWeights = [57]uint64{", "const packedWeightsTempo uint32 = 0x00100010"} {
		if !strings.Contains(src, want) {
			t.Fatalf("expected %q in generated source:\n%s", want, src)
		}
	}
	if got := strings.Count(src, "0x"); got != WordCount+1 {
		t.Fatalf("expected %d hex literals, got %d", WordCount+1, got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	is.NoErr(SaveJSON(&buf, DefaultRaw()))
	raw, err := LoadJSON(&buf)
	is.NoErr(err)
	is.Equal(len(raw), RawCount)

	_, err = LoadJSON(strings.NewReader(`{"weights": [1, 2, 3]}`))
	is.NoErr(err)
	_, err = FromRaw([]float64{1, 2, 3})
	is.Equal(errors.Cause(err), ErrWeightCount)
}
