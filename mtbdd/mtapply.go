// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package mtbdd

// LeafCombiner receives two leaves of a binary multi-terminal apply.
// Each leaf is passed as its node id together with its terminal
// value (-1 when the leaf is a constant). The combiner returns the
// node standing for the combination, typically a terminal or a
// constant.
type LeafCombiner func(left Node, leftTerm int, right Node, rightTerm int) Node

// shortcut2 applies the constant simplifications of op when at least
// one operand is a constant or when both operands are equal. The
// restricted operators only rewrite to constants, see Operator.
func shortcut2(op Operator, left, right int) (int, bool) {
	switch op {
	case OPand:
		if left == right {
			return left, true
		}
		if left == 0 || right == 0 {
			return 0, true
		}
		if left == 1 {
			return right, true
		}
		if right == 1 {
			return left, true
		}
	case OPandZero:
		if left == 0 || right == 0 {
			return 0, true
		}
	case OPor:
		if left == right {
			return left, true
		}
		if left == 1 || right == 1 {
			return 1, true
		}
		if left == 0 {
			return right, true
		}
		if right == 0 {
			return left, true
		}
	case OPorOne:
		if left == 1 || right == 1 {
			return 1, true
		}
	case OPimp:
		if left == 0 || right == 1 || left == right {
			return 1, true
		}
		if left == 1 {
			return right, true
		}
	case OPimpOne:
		if left == 0 || right == 1 {
			return 1, true
		}
	case OPbiimp:
		if left == right {
			return 1, true
		}
		if left == 1 {
			return right, true
		}
		if right == 1 {
			return left, true
		}
	case OPxor:
		if left == right {
			return 0, true
		}
		if left == 0 {
			return right, true
		}
		if right == 0 {
			return left, true
		}
	case OPnone:
	}
	return 0, false
}

// Apply2Leaves combines two MTBDDs. The recursion splits on the
// smallest variable level; when both sides are leaves, the combiner
// is called. The shortcut operator prunes the recursion when a
// constant operand already decides the result; use the restricted
// operators (or OPnone) when a constant must still be combined with
// the terminals of the other side.
func (b *Dict) Apply2Leaves(left, right Node, combine LeafCombiner, cache *ExtCache, key int, shortcut Operator) Node {
	return b.mtapply2(left, right, combine, cache, key, shortcut)
}

func (b *Dict) mtapply2(left, right int, combine LeafCombiner, cache *ExtCache, key int, shortcut Operator) int {
	if res, ok := shortcut2(shortcut, left, right); ok {
		return res
	}
	if b.isleaf(left) && b.isleaf(right) {
		return combine(left, b.leafvalue(left), right, b.leafvalue(right))
	}
	if res := cache.match2(left, right, key); res >= 0 {
		return res
	}
	leftlvl := b.level(left)
	rightlvl := b.level(right)
	var res int
	if leftlvl == rightlvl {
		low := b.mtapply2(b.low(left), b.low(right), combine, cache, key, shortcut)
		high := b.mtapply2(b.high(left), b.high(right), combine, cache, key, shortcut)
		res = b.makenode(leftlvl, low, high)
	} else if leftlvl < rightlvl {
		low := b.mtapply2(b.low(left), right, combine, cache, key, shortcut)
		high := b.mtapply2(b.high(left), right, combine, cache, key, shortcut)
		res = b.makenode(leftlvl, low, high)
	} else {
		low := b.mtapply2(left, b.low(right), combine, cache, key, shortcut)
		high := b.mtapply2(left, b.high(right), combine, cache, key, shortcut)
		res = b.makenode(rightlvl, low, high)
	}
	return cache.set2(left, right, key, res)
}

// Apply1 rewrites every terminal value of root through remap and
// replaces the constants False and True by whenFalse and whenTrue.
// This is the workhorse behind terminal renaming (numbering states),
// complementation (flipping the accepting bit), and the class
// rewriting of the minimizer.
func (b *Dict) Apply1(root Node, remap func(term int) int, whenFalse, whenTrue Node, cache *ExtCache, key int) Node {
	return b.mtapply1(root, remap, whenFalse, whenTrue, cache, key)
}

func (b *Dict) mtapply1(n int, remap func(int) int, whenFalse, whenTrue int, cache *ExtCache, key int) int {
	if n == 0 {
		return whenFalse
	}
	if n == 1 {
		return whenTrue
	}
	if b.isleaf(n) {
		return b.Terminal(remap(b.nodes[n].low))
	}
	if res, _, ok := cache.match1(n, key); ok {
		return res
	}
	low := b.mtapply1(b.low(n), remap, whenFalse, whenTrue, cache, key)
	high := b.mtapply1(b.high(n), remap, whenFalse, whenTrue, cache, key)
	return cache.set1(n, key, b.makenode(b.level(n), low, high), 0)
}

// Apply1Leaves rewrites every leaf of root (constants included)
// through remap, which receives the leaf node and its terminal value
// (-1 for constants) and returns the replacement node.
func (b *Dict) Apply1Leaves(root Node, remap func(leaf Node, term int) Node, cache *ExtCache, key int) Node {
	return b.mtapply1leaves(root, remap, cache, key)
}

func (b *Dict) mtapply1leaves(n int, remap func(Node, int) Node, cache *ExtCache, key int) int {
	if b.isleaf(n) {
		return remap(n, b.leafvalue(n))
	}
	if res, _, ok := cache.match1(n, key); ok {
		return res
	}
	low := b.mtapply1leaves(b.low(n), remap, cache, key)
	high := b.mtapply1leaves(b.high(n), remap, cache, key)
	return cache.set1(n, key, b.makenode(b.level(n), low, high), 0)
}

// TerminalToConst replaces the terminal falseTerm by the constant
// False and trueTerm by True, leaving every other leaf unchanged.
// The minimizer uses it to strip the pseudo-terminals standing for
// the constants during refinement.
func (b *Dict) TerminalToConst(root, falseTerm, trueTerm Node, cache *ExtCache, key int) Node {
	return b.mtterm2const(root, falseTerm, trueTerm, cache, key)
}

func (b *Dict) mtterm2const(n, falseTerm, trueTerm int, cache *ExtCache, key int) int {
	if n == falseTerm {
		return 0
	}
	if n == trueTerm {
		return 1
	}
	if b.isleaf(n) {
		return n
	}
	if res, _, ok := cache.match1(n, key); ok {
		return res
	}
	low := b.mtterm2const(b.low(n), falseTerm, trueTerm, cache, key)
	high := b.mtterm2const(b.high(n), falseTerm, trueTerm, cache, key)
	return cache.set1(n, key, b.makenode(b.level(n), low, high), 0)
}
