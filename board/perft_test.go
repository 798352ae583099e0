package board

import (
	"testing"
)

const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func TestPerft(t *testing.T) {
	cases := []struct {
		name  string
		fen   string
		nodes []uint64
	}{
		{"initial", Startpos, []uint64{20, 400, 8902}},
		{"kiwipete", kiwipete, []uint64{48, 2039}},
		{"pos3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", []uint64{14, 191, 2812}},
		{"pos4", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", []uint64{6, 264}},
	}
	for _, tc := range cases {
		p := mustLoad(t, tc.fen)
		hash := p.Hash()
		for i, want := range tc.nodes {
			if got := Perft(p, i+1); got != want {
				t.Fatalf("%s perft(%d): got %d want %d", tc.name, i+1, got, want)
			}
		}
		if p.Hash() != hash {
			t.Fatalf("%s: perft left the position changed", tc.name)
		}
	}
}

func TestPerftDivideSumsToPerft(t *testing.T) {
	p := mustLoad(t, kiwipete)
	div := PerftDivide(p, 2)
	if len(div) != 48 {
		t.Fatalf("expected 48 root moves, got %d", len(div))
	}
	var sum uint64
	for _, n := range div {
		sum += n
	}
	if sum != 2039 {
		t.Fatalf("divide sum: got %d want 2039", sum)
	}
}

func benchPerft(b *testing.B, fen string, depth int) {
	p, err := LoadFEN(fen)
	if err != nil {
		b.Fatalf("LoadFEN: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Perft(p, depth)
	}
}

func BenchmarkPerftInitialD4(b *testing.B) {
	benchPerft(b, Startpos, 4)
}

func BenchmarkPerftKiwipeteD3(b *testing.B) {
	benchPerft(b, kiwipete, 3)
}

func benchLegalMoves(b *testing.B, fen string, capturesOnly bool) {
	p, err := LoadFEN(fen)
	if err != nil {
		b.Fatalf("LoadFEN: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p.LegalMoves(capturesOnly)
	}
}

func BenchmarkLegalMovesKiwipete(b *testing.B) {
	benchLegalMoves(b, kiwipete, false)
}

func BenchmarkCapturesKiwipete(b *testing.B) {
	benchLegalMoves(b, kiwipete, true)
}
