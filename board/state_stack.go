package board

const fiftyMoveLimit = 100

// State captures the information we need to reason about repetitions and draws.
type State struct {
	Hash   uint64
	Rule50 int
	// Null marks a state reached by passing the turn. Repetition scans never
	// cross it.
	Null bool
}

type stateStack []State

func (s *stateStack) reset(hash uint64, rule50 int) {
	*s = append((*s)[:0], State{Hash: hash, Rule50: rule50})
}

func (s *stateStack) push(st State) {
	*s = append(*s, st)
}

func (s *stateStack) pop() {
	if len(*s) <= 1 {
		return
	}
	*s = (*s)[:len(*s)-1]
}

func (s stateStack) top() State {
	return s[len(s)-1]
}

// repeated reports whether the current position already occurred since the
// last irreversible move.
func (s stateStack) repeated() bool {
	n := len(s) - 1
	curr := s[n]
	for i := n - 1; i >= 0 && n-i <= curr.Rule50; i-- {
		if s[i+1].Null {
			return false
		}
		if s[i].Hash == curr.Hash {
			return true
		}
	}
	return false
}

func (s stateStack) fiftyMoveDraw() bool {
	return s.top().Rule50 >= fiftyMoveLimit
}
