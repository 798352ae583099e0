package engine

import (
	"fmt"
	"io"
)

// CutStatistics collects counts for each pruning/cutoff mechanism.
type CutStatistics struct {
	TTCutoffs         uint64
	NullMoveCutoffs   uint64
	StaticNullCutoffs uint64
	FutilityPrunes    uint64
	LateMovePrunes    uint64
	HistoryPrunes     uint64
	LMRResearches     uint64
	BetaCutoffs       uint64
	QStandPatCutoffs  uint64

	AspirationFailLows  uint64
	AspirationFailHighs uint64
}

func (cs *CutStatistics) Dump(w io.Writer) {
	fmt.Fprintln(w, "info string Cut statistics:")
	fmt.Fprintf(w, "info string   TT cutoffs: %d\n", cs.TTCutoffs)
	fmt.Fprintf(w, "info string   Null-move cutoffs: %d\n", cs.NullMoveCutoffs)
	fmt.Fprintf(w, "info string   Static null cutoffs: %d\n", cs.StaticNullCutoffs)
	fmt.Fprintf(w, "info string   Futility prunes: %d\n", cs.FutilityPrunes)
	fmt.Fprintf(w, "info string   Late move prunes: %d\n", cs.LateMovePrunes)
	fmt.Fprintf(w, "info string   History prunes: %d\n", cs.HistoryPrunes)
	fmt.Fprintf(w, "info string   LMR re-searches: %d\n", cs.LMRResearches)
	fmt.Fprintf(w, "info string   Beta cutoffs: %d\n", cs.BetaCutoffs)
	fmt.Fprintf(w, "info string   QStandPat cutoffs: %d\n", cs.QStandPatCutoffs)
	fmt.Fprintf(w, "info string   Aspiration fail-lows: %d\n", cs.AspirationFailLows)
	fmt.Fprintf(w, "info string   Aspiration fail-highs: %d\n", cs.AspirationFailHighs)
}
