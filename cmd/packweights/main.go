// Command packweights turns a JSON weight list into the packed Go table the
// engine embeds, or dumps the default weights as JSON.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dylhunn/dragontoothmg"
	"github.com/fatih/color"
	"github.com/pkg/errors"

	"tinygoose/weights"
)

func main() {
	inPath := flag.String("in", "weights.json", "input JSON weights path")
	outPath := flag.String("out", "", "output Go file (empty = stdout)")
	pkg := flag.String("pkg", "weights", "package of the generated file")
	name := flag.String("name", "packedWeights", "identifier of the generated array")
	roundTrip := flag.Bool("roundtrip", false, "print the unpacked table instead of Go source")
	dumpDefaults := flag.Bool("defaults", false, "write the built-in weights as JSON and exit")
	flag.Parse()

	if err := run(*inPath, *outPath, *pkg, *name, *roundTrip, *dumpDefaults); err != nil {
		color.Red("packweights: %v", err)
		os.Exit(1)
	}
}

func run(inPath, outPath, pkg, name string, roundTrip, dumpDefaults bool) error {
	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return errors.Wrap(err, "create output")
		}
		defer f.Close()
		out = f
	}

	if dumpDefaults {
		return weights.SaveJSON(out, weights.DefaultRaw())
	}

	in, err := os.Open(inPath)
	if err != nil {
		return errors.Wrap(err, "open input")
	}
	defer in.Close()
	raw, err := weights.LoadJSON(in)
	if err != nil {
		return err
	}

	packed, err := weights.Pack(raw)
	if err != nil {
		return err
	}

	if roundTrip {
		t, err := weights.Unpack(packed.Words, packed.Tempo)
		if err != nil {
			return err
		}
		printTable(out, t)
		return nil
	}

	if _, err := fmt.Fprint(out, packed.GoLiteral(pkg, name)); err != nil {
		return errors.Wrap(err, "write output")
	}
	if outPath != "" {
		color.Green("wrote %d words to %s", len(packed.Words), outPath)
	}
	return nil
}

var pieceLabels = []struct {
	piece dragontoothmg.Piece
	label string
}{
	{dragontoothmg.Pawn, "pawn"},
	{dragontoothmg.Knight, "knight"},
	{dragontoothmg.Bishop, "bishop"},
	{dragontoothmg.Rook, "rook"},
	{dragontoothmg.Queen, "queen"},
	{dragontoothmg.King, "king"},
}

func printTable(out *os.File, t *weights.Table) {
	header := color.New(color.FgCyan, color.Bold)
	for _, p := range pieceLabels {
		header.Fprintf(out, "%s\n", p.label)
		m := t.Material(p.piece)
		fmt.Fprintf(out, "  base %d/%d  own pawns on file %d/%d\n",
			m.MG, m.EG, t.OwnPawnsOnFile(p.piece).MG, t.OwnPawnsOnFile(p.piece).EG)
		for rank := 7; rank >= 0; rank-- {
			fmt.Fprint(out, "  ")
			for file := 0; file < 8; file++ {
				s := t.PieceSquare(p.piece, uint8(rank*8+file))
				fmt.Fprintf(out, "%4d/%-4d", s.MG, s.EG)
			}
			fmt.Fprintln(out)
		}
	}
	header.Fprintf(out, "scalars\n")
	for _, piece := range weights.MobilityPieces {
		mob := t.Mobility(piece)
		fmt.Fprintf(out, "  mobility %d: %d/%d\n", piece, mob.MG, mob.EG)
	}
	fmt.Fprintf(out, "  bishop pair %d/%d\n", t.BishopPair().MG, t.BishopPair().EG)
	fmt.Fprintf(out, "  tempo %d/%d\n", t.Tempo().MG, t.Tempo().EG)
}
