// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package mtbdd

// Terminal nodes are the leaves that make the diagrams
// "multi-terminal": they carry an integer value and sit at the same
// level as the constants. The value is never interpreted by the
// kernel; the translation layers store 2·state + accepting_bit in
// it.

// Terminal returns the terminal node carrying value v. The value
// must be non-negative. Terminal nodes are interned like decision
// nodes: the same value always yields the same node id.
func (b *Dict) Terminal(v int) Node {
	if v < 0 {
		return b.seterror("negative terminal value (%d)", v)
	}
	k := huddkey{level: _MAXVAR, low: v, high: -1}
	if n, ok := b.unique[k]; ok {
		return n
	}
	b.produced++
	b.nodes = append(b.nodes, huddnode{level: _MAXVAR, low: v, high: -1})
	n := len(b.nodes) - 1
	b.unique[k] = n
	return n
}

// IsTerminal reports whether n is a terminal node. The constants are
// not terminals.
func (b *Dict) IsTerminal(n Node) bool {
	return n > 1 && b.nodes[n].level == _MAXVAR
}

// IsConst reports whether n is one of the two constants.
func (b *Dict) IsConst(n Node) bool {
	return n < 2
}

// IsLeaf reports whether n is a constant or a terminal.
func (b *Dict) IsLeaf(n Node) bool {
	return b.isleaf(n)
}

// TerminalValue returns the value carried by a terminal node.
func (b *Dict) TerminalValue(n Node) int {
	if !b.IsTerminal(n) {
		b.seterror("node %d is not a terminal", n)
		return -1
	}
	return b.nodes[n].low
}

// leafvalue returns the terminal value of a leaf, or -1 for the
// constants. Callers that receive both kinds check IsConst first.
func (b *Dict) leafvalue(n int) int {
	if n < 2 {
		return -1
	}
	return b.nodes[n].low
}
