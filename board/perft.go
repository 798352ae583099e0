package board

// Perft counts the leaf nodes of the legal move tree to depth. Positions at
// depth one are counted in bulk.
func Perft(p *Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := p.LegalMoves(false)
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		p.MakeMove(m)
		nodes += Perft(p, depth-1)
		p.UndoMove()
	}
	return nodes
}

// PerftDivide returns the perft count below each root move, keyed by its
// coordinate notation.
func PerftDivide(p *Position, depth int) map[string]uint64 {
	div := make(map[string]uint64)
	if depth <= 0 {
		return div
	}
	for _, m := range p.LegalMoves(false) {
		p.MakeMove(m)
		div[m.String()] = Perft(p, depth-1)
		p.UndoMove()
	}
	return div
}
