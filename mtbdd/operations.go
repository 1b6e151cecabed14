// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package mtbdd

// Not returns the negation (!n) of expression n. It negates a BDD by
// exchanging all references to the zero-terminal with references to
// the one-terminal and vice versa. It must not be used on an MTBDD
// with terminal nodes.
func (b *Dict) Not(n Node) Node {
	return b.not(n)
}

func (b *Dict) not(n int) int {
	if n == 0 {
		return 1
	}
	if n == 1 {
		return 0
	}
	if b.isleaf(n) {
		return b.seterror("terminal node (%d) in call to Not", n)
	}
	// The hash for a not operation is simply n
	if res := b.matchnot(n); res >= 0 {
		return res
	}
	low := b.not(b.low(n))
	high := b.not(b.high(n))
	res := b.makenode(b.level(n), low, high)
	return b.setnot(n, res)
}

// Apply performs all of the basic bdd operations with two operands,
// such as AND, OR etc. Left and right are the operands and op is the
// requested operation; it must be one of OPand to OPdiff. Operands
// must be plain BDDs: combining MTBDDs is the job of Apply2Leaves.
func (b *Dict) Apply(left, right Node, op Operator) Node {
	if op > OPdiff {
		return b.seterror("unauthorized operation (%s) in apply", op)
	}
	b.applycache.op = op
	return b.apply(left, right)
}

func (b *Dict) apply(left, right int) int {
	switch b.applycache.op {
	case OPand:
		if left == right {
			return left
		}
		if (left == 0) || (right == 0) {
			return 0
		}
		if left == 1 {
			return right
		}
		if right == 1 {
			return left
		}
	case OPor:
		if left == right {
			return left
		}
		if (left == 1) || (right == 1) {
			return 1
		}
		if left == 0 {
			return right
		}
		if right == 0 {
			return left
		}
	case OPxor:
		if left == right {
			return 0
		}
		if left == 0 {
			return right
		}
		if right == 0 {
			return left
		}
	case OPnand:
		if (left == 0) || (right == 0) {
			return 1
		}
	case OPnor:
		if (left == 1) || (right == 1) {
			return 0
		}
	case OPimp:
		if left == 0 {
			return 1
		}
		if left == 1 {
			return right
		}
		if right == 1 {
			return 1
		}
		if left == right {
			return 1
		}
	case OPbiimp:
		if left == right {
			return 1
		}
		if left == 1 {
			return right
		}
		if right == 1 {
			return left
		}
	case OPdiff:
		if left == right {
			return 0
		}
		if right == 1 {
			return 0
		}
		if left == 0 {
			return 0
		}
	default:
		b.seterror("unauthorized operation (%s) in apply", b.applycache.op)
		return -1
	}

	if left < 0 || right < 0 {
		return -1
	}

	// we deal with the other cases where the two operands are constants
	if (left < 2) && (right < 2) {
		return opres[b.applycache.op][left][right]
	}
	if b.isleaf(left) && left > 1 || b.isleaf(right) && right > 1 {
		b.seterror("terminal node in call to Apply (%s)", b.applycache.op)
		return -1
	}
	if res := b.matchapply(left, right); res >= 0 {
		return res
	}
	leftlvl := b.level(left)
	rightlvl := b.level(right)
	var res int
	if leftlvl == rightlvl {
		low := b.apply(b.low(left), b.low(right))
		high := b.apply(b.high(left), b.high(right))
		res = b.makenode(leftlvl, low, high)
	} else if leftlvl < rightlvl {
		low := b.apply(b.low(left), right)
		high := b.apply(b.high(left), right)
		res = b.makenode(leftlvl, low, high)
	} else {
		low := b.apply(left, b.low(right))
		high := b.apply(left, b.high(right))
		res = b.makenode(rightlvl, low, high)
	}
	return b.setapply(left, right, res)
}

// And returns the logical 'and' of a sequence of nodes.
func (b *Dict) And(n ...Node) Node {
	if len(n) == 1 {
		return n[0]
	}
	if len(n) == 0 {
		return True
	}
	return b.Apply(n[0], b.And(n[1:]...), OPand)
}

// Or returns the logical 'or' of a sequence of nodes.
func (b *Dict) Or(n ...Node) Node {
	if len(n) == 1 {
		return n[0]
	}
	if len(n) == 0 {
		return False
	}
	return b.Apply(n[0], b.Or(n[1:]...), OPor)
}

// Imp returns the logical 'implication' between two BDDs.
func (b *Dict) Imp(n1, n2 Node) Node {
	return b.Apply(n1, n2, OPimp)
}

// Equiv returns the logical 'bi-implication' between two BDDs.
func (b *Dict) Equiv(n1, n2 Node) Node {
	return b.Apply(n1, n2, OPbiimp)
}

// Exist returns the existential quantification of n for the
// variables in varset, where varset is a cube built with a method
// such as Makeset. The operand must be a plain BDD. Note that Exist
// reuses the quantification buffer: a set prepared earlier with
// QuantifyPrepare must be prepared again afterwards.
func (b *Dict) Exist(n, varset Node) Node {
	if varset < 2 || b.isleaf(varset) { // empty set or constant
		return n
	}
	b.QuantifyPrepare(varset)
	b.quantcache.id = int(b.quantsetID)
	b.applycache.op = OPor
	return b.quant(n)
}

func (b *Dict) quant(n int) int {
	if n < 2 || b.level(n) > b.quantlast {
		return n
	}
	if res := b.matchquant(n); res >= 0 {
		return res
	}
	low := b.quant(b.low(n))
	high := b.quant(b.high(n))
	var res int
	if b.insetlvl(b.level(n)) {
		res = b.apply(low, high)
	} else {
		res = b.makenode(b.level(n), low, high)
	}
	return b.setquant(n, res)
}

// Makeset returns a node corresponding to the conjunction (the cube)
// of all the variables in varset, in their positive form. It is such
// that Scanset(Makeset(a)) == a.
func (b *Dict) Makeset(varset []int) Node {
	res := True
	for _, v := range varset {
		tmp := b.Apply(res, b.Ithvar(v), OPand)
		if b.error != nil {
			return False
		}
		res = tmp
	}
	return res
}

// Scanset returns the set of variables found when following the high
// branch of node n. This is the dual of function Makeset. The result
// is nil if the set is empty.
func (b *Dict) Scanset(n Node) []int {
	if n < 2 {
		return nil
	}
	var res []int
	for i := n; i > 1 && !b.isleaf(i); i = b.high(i) {
		res = append(res, int(b.level(i)))
	}
	return res
}
