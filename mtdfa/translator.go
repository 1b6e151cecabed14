// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package mtdfa

import (
	"github.com/ltlfsynt/ltlfsynt/ltlf"
	"github.com/ltlfsynt/ltlfsynt/mtbdd"
)

// Some of the MTBDD operations share the same operation cache, so
// they need a hash key to be distinguished.
const (
	keyAnd = 1 + iota
	keyOr
	keyImplies
	keyEquiv
	keyXor
	keyNot
	keyRename
	keyStrat
	keyStratBool
	keyFinalStrat
)

// Translator owns the state shared by one translation pipeline: the
// formula↔terminal registry, the propositional-equivalence tables,
// the formula→MTBDD memoization, and the operation cache. It
// registers the variables it creates under its own identity and
// hands them over to the automata it produces.
type Translator struct {
	dict          *mtbdd.Dict
	simplifyTerms bool
	cache         *mtbdd.ExtCache

	intToFormula []*ltlf.Formula
	formulaToInt map[*ltlf.Formula]int
	formulaToBDD map[*ltlf.Formula]mtbdd.Node
	formulaToVar map[*ltlf.Formula]int
	propEquiv    map[mtbdd.Node]*ltlf.Formula
}

// NewTranslator returns a translator over dict. With simplifyTerms
// set, the propositional-equivalence canonicalizer also applies the
// cheap redundancy rewrites on conjunctions and disjunctions.
func NewTranslator(dict *mtbdd.Dict, simplifyTerms bool) *Translator {
	return &Translator{
		dict:          dict,
		simplifyTerms: simplifyTerms,
		cache:         mtbdd.NewExtCache(0),
		intToFormula:  make([]*ltlf.Formula, 0, 32),
		formulaToInt:  make(map[*ltlf.Formula]int),
		formulaToBDD:  make(map[*ltlf.Formula]mtbdd.Node),
		formulaToVar:  make(map[*ltlf.Formula]int),
		propEquiv:     make(map[mtbdd.Node]*ltlf.Formula),
	}
}

// Close drops the translator's variable registrations.
func (t *Translator) Close() {
	t.dict.UnregisterAll(t)
}

// Dict returns the dictionary of the translator.
func (t *Translator) Dict() *mtbdd.Dict {
	return t.dict
}

// propeqRepresentative implements propositional equivalence plus
// some very light simplifications: when the top-level operator is
// Boolean, the formula is encoded as a plain BDD (non-Boolean
// subterms become anonymous variables) and the first formula seen
// with a given BDD becomes the representative of its class.
func (t *Translator) propeqRepresentative(f *ltlf.Formula) *ltlf.Formula {
	// Cheap redundancy rewrites, iterated to a fixpoint before the
	// encoding:
	//   (α M β) ∧ β ≡ (α M β)   (α R β) ∧ β ≡ (α R β)   Gα ∧ α ≡ Gα
	//   (α U β) ∨ β ≡ (α U β)   (α W β) ∨ β ≡ (α W β)   Fα ∨ α ≡ Fα
	// They avoid creating terminals that would eventually be found
	// equivalent anyway.
	if t.simplifyTerms {
		for f.Is(ltlf.OpAnd) || f.Is(ltlf.OpOr) {
			removable := make(map[*ltlf.Formula]bool)
			for _, sub := range f.Children() {
				if f.Is(ltlf.OpAnd) {
					if sub.Is(ltlf.OpStrongRelease) || sub.Is(ltlf.OpRelease) {
						removable[sub.Child(1)] = true
					} else if sub.Is(ltlf.OpGlobally) {
						removable[sub.Child(0)] = true
					}
				} else {
					if sub.Is(ltlf.OpUntil) || sub.Is(ltlf.OpWeakUntil) {
						removable[sub.Child(1)] = true
					} else if sub.Is(ltlf.OpEventually) {
						removable[sub.Child(0)] = true
					}
				}
			}
			if len(removable) == 0 {
				break
			}
			var vec []*ltlf.Formula
			for _, sub := range f.Children() {
				if !removable[sub] {
					vec = append(vec, sub)
				}
			}
			if len(vec) == f.Size() {
				break
			}
			if f.Is(ltlf.OpAnd) {
				f = ltlf.And(vec...)
			} else {
				f = ltlf.Or(vec...)
			}
		}
	}

	switch f.Op() {
	case ltlf.OpNot, ltlf.OpAnd, ltlf.OpOr, ltlf.OpXor, ltlf.OpImplies, ltlf.OpEquiv:
	default:
		if !f.IsLeaf() {
			// abort immediately if the top-level operator is not
			// Boolean
			return f
		}
	}

	enc := t.propeqEncode(f)
	switch enc {
	case mtbdd.True:
		f = ltlf.True()
	case mtbdd.False:
		f = ltlf.False()
	}
	if g, ok := t.propEquiv[enc]; ok {
		return g
	}
	t.propEquiv[enc] = f
	return f
}

// formulaToBddvar returns the plain BDD variable encoding a subterm
// during propositional-equivalence checks: the registered variable
// for atomic propositions, a fresh anonymous variable for any
// non-Boolean subterm.
func (t *Translator) formulaToBddvar(f *ltlf.Formula) int {
	if v, ok := t.formulaToVar[f]; ok {
		return v
	}
	var v int
	if f.Is(ltlf.OpAtom) {
		v = t.dict.RegisterProposition(f.Name(), t)
	} else {
		v = t.dict.RegisterAnonymous(t)
	}
	t.formulaToVar[f] = v
	return v
}

// propeqEncode converts the formula to a BDD suitable for
// propositional equivalence. Any subformula with a non-Boolean
// operator is replaced by a variable.
func (t *Translator) propeqEncode(f *ltlf.Formula) mtbdd.Node {
	b := t.dict
	switch f.Op() {
	case ltlf.OpTrue:
		return mtbdd.True
	case ltlf.OpFalse:
		return mtbdd.False
	case ltlf.OpAtom:
		return b.Ithvar(t.formulaToBddvar(f))
	case ltlf.OpNot:
		if sub := f.Child(0); sub.IsLeaf() { // skip one Not
			if sub.IsTrue() {
				return mtbdd.False
			}
			if sub.IsFalse() {
				return mtbdd.True
			}
			return b.NIthvar(t.formulaToBddvar(sub))
		}
		return b.Not(t.propeqEncode(f.Child(0)))
	case ltlf.OpAnd:
		res := mtbdd.True
		for _, sub := range f.Children() {
			res = b.Apply(res, t.propeqEncode(sub), mtbdd.OPand)
		}
		return res
	case ltlf.OpOr:
		res := mtbdd.False
		for _, sub := range f.Children() {
			res = b.Apply(res, t.propeqEncode(sub), mtbdd.OPor)
		}
		return res
	case ltlf.OpXor:
		left := t.propeqEncode(f.Child(0))
		return b.Apply(left, t.propeqEncode(f.Child(1)), mtbdd.OPxor)
	case ltlf.OpImplies:
		left := t.propeqEncode(f.Child(0))
		return b.Apply(left, t.propeqEncode(f.Child(1)), mtbdd.OPimp)
	case ltlf.OpEquiv:
		left := t.propeqEncode(f.Child(0))
		return b.Apply(left, t.propeqEncode(f.Child(1)), mtbdd.OPbiimp)
	default:
		return b.Ithvar(t.formulaToBddvar(f))
	}
}

// FormulaToInt interns f and returns its id. The formula is first
// replaced by its propositional-equivalence representative; if the
// representative already has an id, both formulas share it. The
// first-seen id always wins: ids are never remapped, because
// terminal nodes already reference them.
func (t *Translator) FormulaToInt(f *ltlf.Formula) int {
	if v, ok := t.formulaToInt[f]; ok {
		return v
	}
	if g := t.propeqRepresentative(f); g != f {
		v, ok := t.formulaToInt[g]
		if !ok {
			// This can occur if propeqRepresentative simplified
			// the formula.
			v = len(t.intToFormula)
			t.intToFormula = append(t.intToFormula, g)
			t.formulaToInt[g] = v
		}
		t.formulaToInt[f] = v
		return v
	}
	v := len(t.intToFormula)
	t.intToFormula = append(t.intToFormula, f)
	t.formulaToInt[f] = v
	return v
}

// FormulaToTerminal returns the terminal value 2·id + maystop.
func (t *Translator) FormulaToTerminal(f *ltlf.Formula, maystop bool) int {
	v := t.FormulaToInt(f) * 2
	if maystop {
		v++
	}
	return v
}

// TerminalToFormula is the inverse of FormulaToTerminal, ignoring
// the accepting bit.
func (t *Translator) TerminalToFormula(v int) *ltlf.Formula {
	return t.intToFormula[v/2]
}

// formulaToTerminalBDD returns the single-leaf MTBDD for (f,
// maystop), short-circuiting to the constants when the pair denotes
// True-accepting or False-rejecting.
func (t *Translator) formulaToTerminalBDD(f *ltlf.Formula, maystop bool) mtbdd.Node {
	if f.IsFalse() && !maystop {
		return mtbdd.False
	}
	if f.IsTrue() && maystop {
		return mtbdd.True
	}
	v := t.FormulaToInt(f)
	f = t.intToFormula[v] // the formula might have been reduced to tt/ff
	if f.IsFalse() && !maystop {
		return mtbdd.False
	}
	if f.IsTrue() && maystop {
		return mtbdd.True
	}
	term := 2 * v
	if maystop {
		term++
	}
	return t.dict.Terminal(term)
}

// leafToFormula decodes a leaf of an MTBDD into its formula and
// accepting bit.
func (t *Translator) leafToFormula(leaf mtbdd.Node, v int) (*ltlf.Formula, bool) {
	if leaf == mtbdd.False {
		return ltlf.False(), false
	}
	if leaf == mtbdd.True {
		return ltlf.True(), true
	}
	return t.TerminalToFormula(v), v&1 == 1
}

// The term combiners below build the Boolean combination of two
// leaves: the formulas are combined by the connective, and so are
// the accepting bits.

func (t *Translator) combineAnd(left, right mtbdd.Node) mtbdd.Node {
	return t.dict.Apply2Leaves(left, right, func(lb mtbdd.Node, lt int, rb mtbdd.Node, rt int) mtbdd.Node {
		lf, lbit := t.leafToFormula(lb, lt)
		rf, rbit := t.leafToFormula(rb, rt)
		return t.formulaToTerminalBDD(ltlf.And(lf, rf), lbit && rbit)
	}, t.cache, keyAnd, mtbdd.OPand)
}

func (t *Translator) combineOr(left, right mtbdd.Node) mtbdd.Node {
	return t.dict.Apply2Leaves(left, right, func(lb mtbdd.Node, lt int, rb mtbdd.Node, rt int) mtbdd.Node {
		lf, lbit := t.leafToFormula(lb, lt)
		rf, rbit := t.leafToFormula(rb, rt)
		return t.formulaToTerminalBDD(ltlf.Or(lf, rf), lbit || rbit)
	}, t.cache, keyOr, mtbdd.OPor)
}

func (t *Translator) combineImplies(left, right mtbdd.Node) mtbdd.Node {
	return t.dict.Apply2Leaves(left, right, func(lb mtbdd.Node, lt int, rb mtbdd.Node, rt int) mtbdd.Node {
		lf, lbit := t.leafToFormula(lb, lt)
		rf, rbit := t.leafToFormula(rb, rt)
		return t.formulaToTerminalBDD(ltlf.Implies(lf, rf), !lbit || rbit)
	}, t.cache, keyImplies, mtbdd.OPimp)
}

func (t *Translator) combineEquiv(left, right mtbdd.Node) mtbdd.Node {
	return t.dict.Apply2Leaves(left, right, func(lb mtbdd.Node, lt int, rb mtbdd.Node, rt int) mtbdd.Node {
		lf, lbit := t.leafToFormula(lb, lt)
		rf, rbit := t.leafToFormula(rb, rt)
		return t.formulaToTerminalBDD(ltlf.Equiv(lf, rf), lbit == rbit)
	}, t.cache, keyEquiv, mtbdd.OPbiimp)
}

func (t *Translator) combineXor(left, right mtbdd.Node) mtbdd.Node {
	return t.dict.Apply2Leaves(left, right, func(lb mtbdd.Node, lt int, rb mtbdd.Node, rt int) mtbdd.Node {
		lf, lbit := t.leafToFormula(lb, lt)
		rf, rbit := t.leafToFormula(rb, rt)
		return t.formulaToTerminalBDD(ltlf.Xor(lf, rf), lbit != rbit)
	}, t.cache, keyXor, mtbdd.OPxor)
}

func (t *Translator) combineNot(left mtbdd.Node) mtbdd.Node {
	return t.dict.Apply1(left, func(v int) int {
		res := ltlf.Not(t.TerminalToFormula(v))
		return t.FormulaToTerminal(res, v&1 == 0)
	}, mtbdd.True, mtbdd.False, t.cache, keyNot)
}

// ToMTBDD computes the MTBDD describing one step of f: its
// root-to-leaf paths are the possible first letters, and each leaf
// carries the formula that the rest of the word must satisfy,
// together with the bit saying whether the word may stop here.
func (t *Translator) ToMTBDD(f *ltlf.Formula) mtbdd.Node {
	if res, ok := t.formulaToBDD[f]; ok {
		return res
	}

	b := t.dict
	var res mtbdd.Node
	switch f.Op() {
	case ltlf.OpTrue:
		res = mtbdd.True
	case ltlf.OpFalse:
		res = mtbdd.False
	case ltlf.OpAtom:
		res = b.Ithvar(b.RegisterProposition(f.Name(), t))
	case ltlf.OpNot:
		// For purely Boolean subformulas we use the regular BDD
		// operators, so that the cache entries are long lived.
		if f.IsBoolean() {
			res = b.Not(t.ToMTBDD(f.Child(0)))
		} else {
			res = t.combineNot(t.ToMTBDD(f.Child(0)))
		}
	case ltlf.OpXor:
		left := t.ToMTBDD(f.Child(0))
		right := t.ToMTBDD(f.Child(1))
		if f.IsBoolean() {
			res = b.Apply(left, right, mtbdd.OPxor)
		} else {
			res = t.combineXor(left, right)
		}
	case ltlf.OpImplies:
		left := t.ToMTBDD(f.Child(0))
		right := t.ToMTBDD(f.Child(1))
		if f.IsBoolean() {
			res = b.Apply(left, right, mtbdd.OPimp)
		} else {
			res = t.combineImplies(left, right)
		}
	case ltlf.OpEquiv:
		left := t.ToMTBDD(f.Child(0))
		right := t.ToMTBDD(f.Child(1))
		if f.IsBoolean() {
			res = b.Apply(left, right, mtbdd.OPbiimp)
		} else {
			res = t.combineEquiv(left, right)
		}
	case ltlf.OpAnd:
		res = t.ToMTBDD(f.Child(0))
		for i := 1; i < f.Size(); i++ {
			res = t.combineAnd(res, t.ToMTBDD(f.Child(i)))
		}
	case ltlf.OpOr:
		res = t.ToMTBDD(f.Child(0))
		for i := 1; i < f.Size(); i++ {
			res = t.combineOr(res, t.ToMTBDD(f.Child(i)))
		}
	case ltlf.OpNext:
		res = t.formulaToTerminalBDD(f.Child(0), true)
	case ltlf.OpStrongNext:
		res = t.formulaToTerminalBDD(f.Child(0), false)
	case ltlf.OpUntil:
		f0 := t.ToMTBDD(f.Child(0))
		f1 := t.ToMTBDD(f.Child(1))
		term := t.formulaToTerminalBDD(f, false)
		res = t.combineOr(f1, t.combineAnd(f0, term))
	case ltlf.OpWeakUntil:
		f0 := t.ToMTBDD(f.Child(0))
		f1 := t.ToMTBDD(f.Child(1))
		term := t.formulaToTerminalBDD(f, true)
		res = t.combineOr(f1, t.combineAnd(f0, term))
	case ltlf.OpRelease:
		f0 := t.ToMTBDD(f.Child(0))
		f1 := t.ToMTBDD(f.Child(1))
		term := t.formulaToTerminalBDD(f, true)
		res = t.combineAnd(f1, t.combineOr(f0, term))
	case ltlf.OpStrongRelease:
		f0 := t.ToMTBDD(f.Child(0))
		f1 := t.ToMTBDD(f.Child(1))
		term := t.formulaToTerminalBDD(f, false)
		res = t.combineAnd(f1, t.combineOr(f0, term))
	case ltlf.OpGlobally:
		term := t.formulaToTerminalBDD(f, true)
		res = t.combineAnd(t.ToMTBDD(f.Child(0)), term)
	case ltlf.OpEventually:
		term := t.formulaToTerminalBDD(f, false)
		res = t.combineOr(t.ToMTBDD(f.Child(0)), term)
	}
	t.formulaToBDD[f] = res
	return res
}

// TranslateOptions tunes the direct translation, see ToMTDFA.
type TranslateOptions struct {
	// FuseSameBDDs coalesces states whose MTBDDs are identical.
	FuseSameBDDs bool
	// DetectEmptyUniv collapses the automaton to a single constant
	// state when no accepting (or no rejecting) leaf was ever
	// produced.
	DetectEmptyUniv bool
	// Outvars lists the controllable propositions; non-nil enables
	// the game-oriented restriction of the produced MTBDDs.
	Outvars []string
	// Backprop interleaves construction with game solving on the
	// node-level arena. Requires Outvars.
	Backprop bool
	// Realizability only computes the winner, not a strategy.
	Realizability bool
	// Preprocess enables the one-step realizability and
	// unrealizability rewrites.
	Preprocess bool
	// BFS pops the exploration queue front-first (the default
	// order); unset pops it back-first (DFS flavor).
	BFS bool
}

// ToMTDFA runs the direct translation of f: a breadth-first
// construction that computes the one-step MTBDD of every reachable
// formula, renames its terminals to state numbers, and interns
// unseen formulas as new states. With Outvars and Backprop set it
// doubles as an on-the-fly game solver.
func (t *Translator) ToMTDFA(f *ltlf.Formula, opts TranslateOptions) *MTDFA {
	b := t.dict
	dfa := New(b)
	bddToState := make(map[mtbdd.Node]int)
	terminalToState := make(map[int]int)
	var states []mtbdd.Node
	var names []*ltlf.Formula
	var newRootnums []int

	var realsimp *ltlf.RealizabilitySimplifier
	var enc *bddEncoder
	if opts.Backprop {
		enc = newBDDEncoder(b)
	}

	bddoutvars := mtbdd.True
	varnum := -1
	// Every time a new BDD variable is created the quantification
	// buffer is stale. Adding variables can happen as a side effect
	// of ToMTBDD, so we re-prepare whenever the variable count
	// changed.
	quantifyPrepareMaybe := func() {
		if vn := b.Varnum(); vn != varnum {
			b.QuantifyPrepare(bddoutvars)
			varnum = vn
		}
	}
	restrictBDD := func(n mtbdd.Node) (mtbdd.Node, bool) {
		quantifyPrepareMaybe()
		return b.Apply1Synthesis(n, func(term int) (mtbdd.Node, bool) {
			// replace accepting terminals by True
			if term&1 == 1 {
				return mtbdd.True, true
			}
			return b.Terminal(term), false
		}, t.cache, keyStrat)
	}
	restrictBDDBool := func(n mtbdd.Node, realizability bool) (mtbdd.Node, bool) {
		quantifyPrepareMaybe()
		if !realizability {
			return b.Apply1Synthesis(n, nil, t.cache, keyStrat)
		}
		return n, b.QuantifyToBool(n, nil, t.cache, keyStratBool)
	}

	// Synthesis mode restricts every MTBDD toward the system's
	// winning choices; it is on whenever controllable variables
	// were declared (an empty list is a game every variable of
	// which belongs to the environment).
	synthesis := opts.Outvars != nil || opts.Backprop

	// Keep track of the atomic propositions used in the automaton.
	dfa.APs = sortedAPs(f)
	if synthesis {
		if opts.Preprocess {
			realsimp = ltlf.NewRealizabilitySimplifier(opts.Outvars)
		}
		// Register the output variables up front, in formula
		// discovery order, so the quantification buffer can be
		// prepared.
		outputs := make(map[string]bool, len(opts.Outvars))
		for _, s := range opts.Outvars {
			outputs[s] = true
		}
		seen := make(map[string]bool)
		ltlf.Traverse(f, func(g *ltlf.Formula) bool {
			if g.Is(ltlf.OpAtom) && outputs[g.Name()] && !seen[g.Name()] {
				seen[g.Name()] = true
				v := b.RegisterProposition(g.Name(), dfa)
				bddoutvars = b.And(bddoutvars, b.Ithvar(v))
			}
			return true
		})
		dfa.SetControllableVariables(bddoutvars)
	}

	// Keep track of whether we have seen an accepting or rejecting
	// leaf. If one of them is missing, the automaton reduces to a
	// single state.
	hasAccepting := false
	hasRejecting := false

	todo := []*ltlf.Formula{f}
	for len(todo) > 0 {
		var label *ltlf.Formula
		if opts.BFS {
			label = todo[0]
			todo = todo[1:]
		} else {
			label = todo[len(todo)-1]
			todo = todo[:len(todo)-1]
		}
		labelTerm := t.FormulaToInt(label)

		if _, ok := terminalToState[labelTerm]; ok { // already processed
			continue
		}

		bDone := false
		var root mtbdd.Node

		if realsimp != nil && !label.IsBoolean() {
			g := ltlf.OneStepSat(label)
			g, fixes := realsimp.Simplify(g)
			root = t.ToMTBDD(g)
			if restricted, win := restrictBDDBool(root, opts.Realizability); win {
				root = restricted
				bDone = true
				if opts.Realizability {
					root = mtbdd.True
				} else {
					fix := mtbdd.True
					for _, k := range fixes {
						if k.IsInput {
							continue
						}
						v := b.RegisterProposition(k.Name, t)
						if k.Value {
							fix = b.And(fix, b.Ithvar(v))
						} else {
							fix = b.And(fix, b.NIthvar(v))
						}
					}
					root = t.combineAnd(root, fix)
				}
				if opts.Backprop {
					enc.encodeState(labelTerm, root, "", &newRootnums, nil, false)
				}
			} else {
				g = ltlf.OneStepUnsat(label)
				g, _ = realsimp.Simplify(g)
				root = t.ToMTBDD(g)
				if _, win := restrictBDDBool(root, true); !win {
					bDone = true
					root = mtbdd.False
					if opts.Backprop {
						enc.encodeState(labelTerm, mtbdd.False, "", &newRootnums, nil, false)
					}
				}
			}
		}
		if !bDone {
			root = t.ToMTBDD(label)
			if synthesis {
				if opts.Realizability && label.IsBoolean() {
					if _, win := restrictBDDBool(root, true); win {
						root = mtbdd.True
					} else {
						root = mtbdd.False
					}
				} else {
					root, _ = restrictBDD(root)
				}
				if opts.Backprop {
					enc.encodeState(labelTerm, root, "", &newRootnums, nil, false)
				}
			}
		}

		if opts.FuseSameBDDs {
			if s, ok := bddToState[root]; ok {
				terminalToState[labelTerm] = s
				continue
			}
		}
		n := len(states)
		bddToState[root] = n
		states = append(states, root)
		names = append(names, label)
		terminalToState[labelTerm] = n

		if opts.Backprop {
			if enc.rootIsDetermined(0) {
				break
			}
			if enc.rootIsDetermined(labelTerm) {
				newRootnums = newRootnums[:0]
				continue
			}
			// All successors were recorded in newRootnums during
			// the encoding.
			for _, rn := range newRootnums {
				todo = append(todo, t.intToFormula[rn])
			}
			newRootnums = newRootnums[:0]
			continue
		}

		for _, leaf := range b.Leaves(root) {
			if leaf == mtbdd.False {
				hasRejecting = true
				continue
			}
			if leaf == mtbdd.True {
				hasAccepting = true
				continue
			}
			term := b.TerminalValue(leaf)
			if term&1 == 1 {
				hasAccepting = true
			} else {
				hasRejecting = true
			}
			if _, ok := terminalToState[term/2]; !ok {
				todo = append(todo, t.TerminalToFormula(term))
			}
		}
	}

	if opts.Backprop { // finalize backpropagation
		if opts.Realizability || !enc.rootWinner(0) {
			// losing games get the distinguished single-state
			// False automaton instead of a partial strategy
			if enc.rootWinner(0) {
				dfa.States = []mtbdd.Node{mtbdd.True}
				dfa.Names = []*ltlf.Formula{ltlf.True()}
			} else {
				dfa.States = []mtbdd.Node{mtbdd.False}
				dfa.Names = []*ltlf.Formula{ltlf.False()}
			}
			return dfa
		}
		quantifyPrepareMaybe()
		finalize := func(term int) (mtbdd.Node, bool) {
			// replace accepting terminals by True
			if term&1 == 1 {
				return mtbdd.True, true
			}
			term /= 2
			// replace losing terminals by False
			if !enc.rootWinner(term) {
				return mtbdd.False, false
			}
			// keep winning terminals, renumbered to their state
			return b.Terminal(2 * terminalToState[term]), true
		}
		for i := range states {
			states[i] = b.Apply1SynthesisWithChoice(states[i],
				enc.getChoice, finalize, t.cache, keyFinalStrat)
		}
		dfa.States = states
		dfa.Names = names
		b.RegisterAllPropositionsOf(t, dfa)
		return dfa
	}

	// If we reach this point, we are only doing translation, not
	// game solving.
	if opts.DetectEmptyUniv {
		if !hasAccepting { // return a false MTDFA
			dfa.States = []mtbdd.Node{mtbdd.False}
			dfa.Names = []*ltlf.Formula{ltlf.False()}
			return dfa
		}
		if !hasRejecting { // return a true MTDFA
			dfa.States = []mtbdd.Node{mtbdd.True}
			dfa.Names = []*ltlf.Formula{ltlf.True()}
			return dfa
		}
	}

	// So far states[i] holds terminals that denote formulas; remap
	// the terminal values to state numbers.
	for i := range states {
		states[i] = b.Apply1(states[i], func(v int) int {
			return 2*terminalToState[v/2] + v&1
		}, mtbdd.False, mtbdd.True, t.cache, keyRename)
	}

	dfa.States = states
	dfa.Names = names
	b.RegisterAllPropositionsOf(t, dfa)
	return dfa
}

// SynthesisWithDFS is the strict depth-first on-the-fly
// translator+solver: it never re-enters a state that has been
// encoded, and backtracks as soon as the current state gets
// determined by back-propagation.
func (t *Translator) SynthesisWithDFS(f *ltlf.Formula, outvars []string, realizability, preprocess bool) *MTDFA {
	b := t.dict
	dfa := New(b)
	terminalToState := make(map[int]int)
	var states []mtbdd.Node
	var names []*ltlf.Formula
	var newRootnums, oldRootnums []int

	realsimp := ltlf.NewRealizabilitySimplifier(outvars)
	enc := newBDDEncoder(b)

	bddoutvars := mtbdd.True
	varnum := -1
	quantifyPrepareMaybe := func() {
		if vn := b.Varnum(); vn != varnum {
			b.QuantifyPrepare(bddoutvars)
			varnum = vn
		}
	}
	restrictBDD := func(n mtbdd.Node) (mtbdd.Node, bool) {
		quantifyPrepareMaybe()
		return b.Apply1Synthesis(n, func(term int) (mtbdd.Node, bool) {
			if term&1 == 1 {
				return mtbdd.True, true
			}
			return b.Terminal(term), false
		}, t.cache, keyStrat)
	}
	restrictBDDBool := func(n mtbdd.Node, realizability bool) (mtbdd.Node, bool) {
		quantifyPrepareMaybe()
		if !realizability {
			return b.Apply1Synthesis(n, nil, t.cache, keyStrat)
		}
		return n, b.QuantifyToBool(n, nil, t.cache, keyStratBool)
	}

	dfa.APs = sortedAPs(f)
	{
		outputs := make(map[string]bool, len(outvars))
		for _, s := range outvars {
			outputs[s] = true
		}
		seen := make(map[string]bool)
		ltlf.Traverse(f, func(g *ltlf.Formula) bool {
			if g.Is(ltlf.OpAtom) && outputs[g.Name()] && !seen[g.Name()] {
				seen[g.Name()] = true
				v := b.RegisterProposition(g.Name(), dfa)
				bddoutvars = b.And(bddoutvars, b.Ithvar(v))
			}
			return true
		})
		dfa.SetControllableVariables(bddoutvars)
	}

	// todo is a stack of MTBDD root numbers; an entry (state, size)
	// in prev says that once todo shrinks back to size, all the
	// successors of state have been explored and we backtrack.
	type prevEntry struct {
		state int
		size  int
	}
	prev := []prevEntry{{0, 0}}
	todo := []int{t.FormulaToInt(f)}
	for len(todo) > 0 {
		top := &prev[len(prev)-1]

		// If the backtrack state is determined, skip the remaining
		// exploration of its successors.
		if len(todo) >= top.size && enc.rootIsDetermined(top.state) {
			todo = todo[:top.size]
			prev = prev[:len(prev)-1]
			continue
		}
		if len(todo) == top.size {
			// All successors have been explored without determining
			// the state. It would be tempting to mark it losing, but
			// some of its successors may lie on the path that leads
			// to it.
			prev = prev[:len(prev)-1]
			continue
		}
		labelTerm := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		label := t.intToFormula[labelTerm]

		if _, ok := terminalToState[labelTerm]; ok { // already processed
			continue
		}

		var root mtbdd.Node
		bDone := false
		if preprocess && !label.IsBoolean() {
			g := ltlf.OneStepSat(label)
			g, fixes := realsimp.Simplify(g)
			root = t.ToMTBDD(g)
			if restricted, win := restrictBDDBool(root, realizability); win {
				root = restricted
				bDone = true
				if realizability {
					root = mtbdd.True
				} else {
					fix := mtbdd.True
					for _, k := range fixes {
						if k.IsInput {
							continue
						}
						v := b.RegisterProposition(k.Name, t)
						if k.Value {
							fix = b.And(fix, b.Ithvar(v))
						} else {
							fix = b.And(fix, b.NIthvar(v))
						}
					}
					root = t.combineAnd(root, fix)
				}
				enc.encodeState(labelTerm, root, "", &newRootnums, &oldRootnums, false)
			} else {
				g = ltlf.OneStepUnsat(label)
				g, _ = realsimp.Simplify(g)
				root = t.ToMTBDD(g)
				if _, win := restrictBDDBool(root, true); !win {
					bDone = true
					root = mtbdd.False
					enc.encodeState(labelTerm, mtbdd.False, "", &newRootnums, &oldRootnums, false)
				}
			}
		}
		if !bDone {
			root = t.ToMTBDD(label)
			if realizability && label.IsBoolean() {
				if _, win := restrictBDDBool(root, true); win {
					root = mtbdd.True
				} else {
					root = mtbdd.False
				}
			} else {
				root, _ = restrictBDD(root)
			}
			enc.encodeState(labelTerm, root, "", &newRootnums, &oldRootnums, true)
		}

		n := len(states)
		states = append(states, root)
		names = append(names, label)
		terminalToState[labelTerm] = n

		if enc.rootIsDetermined(0) {
			break
		}
		// If the status of this state is known, skip the
		// exploration of its successors.
		if enc.rootIsDetermined(labelTerm) {
			newRootnums = newRootnums[:0]
			oldRootnums = oldRootnums[:0]
			continue
		}
		// Schedule all successors for processing in DFS order.
		prev = append(prev, prevEntry{labelTerm, len(todo)})
		todo = append(todo, newRootnums...)
		for _, rn := range oldRootnums {
			if _, ok := terminalToState[rn]; !ok {
				todo = append(todo, rn)
			}
		}
		newRootnums = newRootnums[:0]
		oldRootnums = oldRootnums[:0]
	}

	// finalize backpropagation
	if realizability || !enc.rootWinner(0) {
		if enc.rootWinner(0) {
			dfa.States = []mtbdd.Node{mtbdd.True}
			dfa.Names = []*ltlf.Formula{ltlf.True()}
		} else {
			dfa.States = []mtbdd.Node{mtbdd.False}
			dfa.Names = []*ltlf.Formula{ltlf.False()}
		}
		return dfa
	}
	quantifyPrepareMaybe()
	finalize := func(term int) (mtbdd.Node, bool) {
		if term&1 == 1 {
			return mtbdd.True, true
		}
		term /= 2
		if !enc.rootWinner(term) {
			return mtbdd.False, false
		}
		return b.Terminal(2 * terminalToState[term]), true
	}
	for i := range states {
		states[i] = b.Apply1SynthesisWithChoice(states[i],
			enc.getChoice, finalize, t.cache, keyFinalStrat)
	}
	dfa.States = states
	dfa.Names = names
	b.RegisterAllPropositionsOf(t, dfa)
	return dfa
}

// LtlfToMTDFA translates f into an MTDFA over dict. fuseSameBDDs
// coalesces states with identical MTBDDs, simplifyTerms enables the
// cheap propositional rewrites, and detectEmptyUniv collapses
// automata with no accepting (or no rejecting) leaf.
func LtlfToMTDFA(f *ltlf.Formula, dict *mtbdd.Dict, fuseSameBDDs, simplifyTerms, detectEmptyUniv bool) *MTDFA {
	t := NewTranslator(dict, simplifyTerms)
	defer t.Close()
	return t.ToMTDFA(f, TranslateOptions{
		FuseSameBDDs:    fuseSameBDDs,
		DetectEmptyUniv: detectEmptyUniv,
		BFS:             true,
	})
}

// LtlfToMTDFAForSynthesis translates f while solving the reachability
// game in which the system player owns the outvars. With
// realizability set, the result is the single-state True or False
// automaton according to the winner; otherwise a winning system
// strategy is returned as a restricted MTDFA (the single-state False
// automaton when the game is unrealizable). The StateRefine mode does
// not solve the game: it returns the translated automaton with every
// MTBDD restricted toward the system's choices.
func LtlfToMTDFAForSynthesis(f *ltlf.Formula, dict *mtbdd.Dict, outvars []string,
	mode SynthesisBackprop, preprocess, realizability, fuseSameBDDs, simplifyTerms bool) *MTDFA {
	t := NewTranslator(dict, simplifyTerms)
	defer t.Close()
	switch mode {
	case BFSNodeBackprop, DFSNodeBackprop:
		return t.ToMTDFA(f, TranslateOptions{
			FuseSameBDDs:  fuseSameBDDs,
			Outvars:       outvars,
			Backprop:      true,
			Realizability: realizability,
			Preprocess:    preprocess,
			BFS:           mode == BFSNodeBackprop,
		})
	case DFSStrictNodeBackprop:
		return t.SynthesisWithDFS(f, outvars, realizability, preprocess)
	default: // StateRefine
		dfa := t.ToMTDFA(f, TranslateOptions{
			FuseSameBDDs:  fuseSameBDDs,
			Outvars:       outvars,
			Realizability: realizability,
			Preprocess:    preprocess,
			BFS:           true,
		})
		return dfa
	}
}
