// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package ltlf

// Nnf returns the negative normal form of f: negations are pushed to
// the atomic propositions using the finite-trace dualities, in
// particular !X g = X[!] !g and !(g U h) = !g R !h.
func Nnf(f *Formula) *Formula {
	return nnf(f, false)
}

func nnf(f *Formula, negated bool) *Formula {
	switch f.op {
	case OpTrue, OpFalse, OpAtom:
		if negated {
			return Not(f)
		}
		return f
	case OpNot:
		return nnf(f.kids[0], !negated)
	case OpAnd, OpOr:
		op := f.op
		if negated {
			if op == OpAnd {
				op = OpOr
			} else {
				op = OpAnd
			}
		}
		kids := make([]*Formula, len(f.kids))
		for i, k := range f.kids {
			kids[i] = nnf(k, negated)
		}
		return multop(op, kids)
	case OpImplies:
		if negated { // !(a -> b) = a & !b
			return And(nnf(f.kids[0], false), nnf(f.kids[1], true))
		}
		return Or(nnf(f.kids[0], true), nnf(f.kids[1], false))
	case OpXor, OpEquiv:
		// rewrite as a disjunction of conjunctions; which one
		// depends on the operator and the negation context.
		a := nnf(f.kids[0], false)
		b := nnf(f.kids[1], false)
		na := nnf(f.kids[0], true)
		nb := nnf(f.kids[1], true)
		if (f.op == OpXor) == negated { // equivalence
			return Or(And(a, b), And(na, nb))
		}
		return Or(And(a, nb), And(na, b))
	case OpNext:
		if negated {
			return StrongNext(nnf(f.kids[0], true))
		}
		return Next(nnf(f.kids[0], false))
	case OpStrongNext:
		if negated {
			return Next(nnf(f.kids[0], true))
		}
		return StrongNext(nnf(f.kids[0], false))
	case OpEventually:
		if negated {
			return Globally(nnf(f.kids[0], true))
		}
		return Eventually(nnf(f.kids[0], false))
	case OpGlobally:
		if negated {
			return Eventually(nnf(f.kids[0], true))
		}
		return Globally(nnf(f.kids[0], false))
	case OpUntil:
		if negated {
			return Release(nnf(f.kids[0], true), nnf(f.kids[1], true))
		}
		return Until(nnf(f.kids[0], false), nnf(f.kids[1], false))
	case OpWeakUntil:
		if negated {
			return StrongRelease(nnf(f.kids[0], true), nnf(f.kids[1], true))
		}
		return WeakUntil(nnf(f.kids[0], false), nnf(f.kids[1], false))
	case OpRelease:
		if negated {
			return Until(nnf(f.kids[0], true), nnf(f.kids[1], true))
		}
		return Release(nnf(f.kids[0], false), nnf(f.kids[1], false))
	case OpStrongRelease:
		if negated {
			return WeakUntil(nnf(f.kids[0], true), nnf(f.kids[1], true))
		}
		return StrongRelease(nnf(f.kids[0], false), nnf(f.kids[1], false))
	}
	return f
}

// OneStepSat rewrites f into a Boolean formula that is satisfiable
// exactly when f can be satisfied by a trace of length one. Weak
// operators become satisfied (X g -> tt), strong ones fail
// (X[!] g -> ff), and the temporal binaries reduce to the operand
// that must hold at the last position.
func OneStepSat(f *Formula) *Formula {
	if f.IsBoolean() {
		return f
	}
	switch f.op {
	case OpNext:
		return True()
	case OpStrongNext:
		return False()
	case OpGlobally, OpEventually:
		return OneStepSat(f.kids[0])
	case OpRelease, OpUntil:
		return OneStepSat(f.kids[1])
	case OpWeakUntil:
		return Or(OneStepSat(f.kids[0]), OneStepSat(f.kids[1]))
	case OpStrongRelease:
		return And(OneStepSat(f.kids[0]), OneStepSat(f.kids[1]))
	default:
		return f.Map(OneStepSat)
	}
}

// OneStepUnsat rewrites f into a Boolean formula that is valid only
// if f cannot fail on any extension of the current trace. Both next
// operators become tt: they can always be satisfied later.
func OneStepUnsat(f *Formula) *Formula {
	return oneStepUnsat(f, false)
}

func oneStepUnsat(f *Formula, negate bool) *Formula {
	if f.IsBoolean() {
		if negate {
			return Not(f)
		}
		return f
	}
	switch f.op {
	case OpNot:
		return oneStepUnsat(f.kids[0], !negate)
	case OpNext, OpStrongNext:
		return True()
	case OpEventually:
		if negate { // G
			return oneStepUnsat(f.kids[0], true)
		}
		return True()
	case OpGlobally:
		if negate { // F
			return True()
		}
		return oneStepUnsat(f.kids[0], false)
	case OpRelease, OpStrongRelease:
		if negate { // U, W
			return Or(oneStepUnsat(f.kids[0], true),
				oneStepUnsat(f.kids[1], true))
		}
		return oneStepUnsat(f.kids[1], false)
	case OpUntil, OpWeakUntil:
		if negate { // R, M
			return oneStepUnsat(f.kids[1], true)
		}
		return Or(oneStepUnsat(f.kids[0], false),
			oneStepUnsat(f.kids[1], false))
	case OpImplies:
		if negate { // !(a -> b) = a & !b
			return And(oneStepUnsat(f.kids[0], false),
				oneStepUnsat(f.kids[1], true))
		}
		return Or(oneStepUnsat(f.kids[0], true),
			oneStepUnsat(f.kids[1], false))
	case OpXor, OpEquiv:
		a := oneStepUnsat(f.kids[0], false)
		b := oneStepUnsat(f.kids[1], false)
		na := oneStepUnsat(f.kids[0], true)
		nb := oneStepUnsat(f.kids[1], true)
		if (f.op == OpXor) == negate { // equivalence
			return Or(And(a, b), And(na, nb))
		}
		return Or(And(a, nb), And(na, b))
	case OpAnd, OpOr:
		op := f.op
		if negate {
			if op == OpAnd {
				op = OpOr
			} else {
				op = OpAnd
			}
		}
		kids := make([]*Formula, len(f.kids))
		for i, k := range f.kids {
			kids[i] = oneStepUnsat(k, negate)
		}
		return multop(op, kids)
	}
	return f
}

// Fix records one variable binding applied by the realizability
// simplifier: the atomic proposition Name was replaced by the
// constant Value. IsInput distinguishes environment variables from
// system ones.
type Fix struct {
	Name    string
	IsInput bool
	Value   bool
}

// RealizabilitySimplifier removes atomic propositions that occur
// with a fixed polarity. An output variable that only occurs
// positively can always be set by the system, so it is replaced by
// tt (dually ff for a negative-only occurrence); the binding is
// reported so that a strategy extracted from the simplified formula
// can be completed.
type RealizabilitySimplifier struct {
	outputs map[string]bool
}

// NewRealizabilitySimplifier builds a simplifier for the given list
// of controllable (output) atomic propositions.
func NewRealizabilitySimplifier(outputs []string) *RealizabilitySimplifier {
	m := make(map[string]bool, len(outputs))
	for _, o := range outputs {
		m[o] = true
	}
	return &RealizabilitySimplifier{outputs: m}
}

const (
	polNone = 0
	polPos  = 1
	polNeg  = 2
	polBoth = 3
)

func collectPolarity(f *Formula, negated bool, pol map[string]int) {
	switch f.op {
	case OpAtom:
		if negated {
			pol[f.name] |= polNeg
		} else {
			pol[f.name] |= polPos
		}
	case OpNot:
		collectPolarity(f.kids[0], !negated, pol)
	case OpImplies:
		collectPolarity(f.kids[0], !negated, pol)
		collectPolarity(f.kids[1], negated, pol)
	case OpXor, OpEquiv:
		// both polarities on both sides
		collectPolarity(f.kids[0], false, pol)
		collectPolarity(f.kids[0], true, pol)
		collectPolarity(f.kids[1], false, pol)
		collectPolarity(f.kids[1], true, pol)
	default:
		for _, k := range f.kids {
			collectPolarity(k, negated, pol)
		}
	}
}

// Simplify replaces every single-polarity output variable of f by
// the constant the system would pick, and returns the simplified
// formula together with the list of bindings.
func (s *RealizabilitySimplifier) Simplify(f *Formula) (*Formula, []Fix) {
	pol := make(map[string]int)
	collectPolarity(f, false, pol)

	subst := make(map[string]*Formula)
	var fixes []Fix
	for name, p := range pol {
		if !s.outputs[name] {
			continue
		}
		switch p {
		case polPos:
			subst[name] = True()
			fixes = append(fixes, Fix{Name: name, Value: true})
		case polNeg:
			subst[name] = False()
			fixes = append(fixes, Fix{Name: name, Value: false})
		}
	}
	if len(subst) == 0 {
		return f, nil
	}
	var apply func(*Formula) *Formula
	apply = func(g *Formula) *Formula {
		if g.op == OpAtom {
			if r, ok := subst[g.name]; ok {
				return r
			}
			return g
		}
		return g.Map(apply)
	}
	return apply(f), fixes
}
