// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package mtdfa

import (
	"github.com/ltlfsynt/ltlfsynt/ltlf"
	"github.com/ltlfsynt/ltlfsynt/mtbdd"
)

// Sentinel state numbers used inside the product to represent the
// constants.
const (
	stFalse = -2
	stTrue  = -1
)

type productPair struct {
	left, right int
}

// productData carries the pair-interning tables of one product
// operation. Up to two terminals exist per pair of states, one per
// accepting bit; since the second one is often never needed, the
// entry stores the complement of the pair number until the terminal
// is actually requested.
type productData struct {
	dict  *mtbdd.Dict
	pairs map[productPair][2]int
	todo  []productPair
}

func (pd *productData) leafToState(leaf mtbdd.Node, v int) (int, bool) {
	if leaf == mtbdd.False {
		return stFalse, false
	}
	if leaf == mtbdd.True {
		return stTrue, true
	}
	return v / 2, v&1 == 1
}

func (pd *productData) pairToTerminal(left, right int, mayStop bool) mtbdd.Node {
	bit := 0
	if mayStop {
		bit = 1
	}
	ps := productPair{left, right}
	if entry, ok := pd.pairs[ps]; ok {
		id := entry[bit]
		if id < 0 {
			id = pd.dict.Terminal(2*(-id-1) + bit)
			entry[bit] = id
			pd.pairs[ps] = entry
		}
		return id
	}
	v := len(pd.pairs)
	var entry [2]int
	id := pd.dict.Terminal(2*v + bit)
	entry[bit] = id
	entry[1-bit] = -v - 1
	pd.pairs[ps] = entry
	pd.todo = append(pd.todo, ps)
	return id
}

func (pd *productData) pairToTerminalBDD(left, right int, mayStop bool) mtbdd.Node {
	if left == stFalse && right == stFalse && !mayStop {
		return mtbdd.False
	}
	if left == stTrue && right == stTrue && mayStop {
		return mtbdd.True
	}
	return pd.pairToTerminal(left, right, mayStop)
}

func bddAndFormulaFromState(s int, dfa *MTDFA) (mtbdd.Node, *ltlf.Formula) {
	if s == stFalse {
		return mtbdd.False, ltlf.False()
	}
	if s == stTrue {
		return mtbdd.True, ltlf.True()
	}
	if s >= len(dfa.Names) {
		return dfa.States[s], nil
	}
	return dfa.States[s], dfa.Names[s]
}

// productAux builds the reachable product of two automata sharing a
// dictionary, combining accepting bits with op.
func productAux(dfa1, dfa2 *MTDFA, op ltlf.Op, cache *mtbdd.ExtCache, key int) (*MTDFA, error) {
	if dfa1.Dict() != dfa2.Dict() {
		return nil, ErrDifferentDictionaries
	}
	b := dfa1.Dict()
	pd := &productData{dict: b, pairs: make(map[productPair][2]int)}

	var combine mtbdd.LeafCombiner
	shortcut := mtbdd.OPnone
	switch op {
	case ltlf.OpAnd:
		shortcut = mtbdd.OPandZero
		combine = func(lb mtbdd.Node, lt int, rb mtbdd.Node, rt int) mtbdd.Node {
			if lb == mtbdd.False || rb == mtbdd.False {
				return mtbdd.False
			}
			ls, lbit := pd.leafToState(lb, lt)
			rs, rbit := pd.leafToState(rb, rt)
			return pd.pairToTerminalBDD(ls, rs, lbit && rbit)
		}
	case ltlf.OpOr:
		shortcut = mtbdd.OPorOne
		combine = func(lb mtbdd.Node, lt int, rb mtbdd.Node, rt int) mtbdd.Node {
			if lb == mtbdd.True || rb == mtbdd.True {
				return mtbdd.True
			}
			ls, lbit := pd.leafToState(lb, lt)
			rs, rbit := pd.leafToState(rb, rt)
			return pd.pairToTerminalBDD(ls, rs, lbit || rbit)
		}
	case ltlf.OpImplies:
		shortcut = mtbdd.OPimpOne
		combine = func(lb mtbdd.Node, lt int, rb mtbdd.Node, rt int) mtbdd.Node {
			if lb == mtbdd.False || rb == mtbdd.True {
				return mtbdd.True
			}
			ls, lbit := pd.leafToState(lb, lt)
			rs, rbit := pd.leafToState(rb, rt)
			return pd.pairToTerminalBDD(ls, rs, !lbit || rbit)
		}
	case ltlf.OpEquiv:
		combine = func(lb mtbdd.Node, lt int, rb mtbdd.Node, rt int) mtbdd.Node {
			if lb < 2 && rb < 2 {
				if lb == rb {
					return mtbdd.True
				}
				return mtbdd.False
			}
			ls, lbit := pd.leafToState(lb, lt)
			rs, rbit := pd.leafToState(rb, rt)
			return pd.pairToTerminalBDD(ls, rs, lbit == rbit)
		}
	case ltlf.OpXor:
		combine = func(lb mtbdd.Node, lt int, rb mtbdd.Node, rt int) mtbdd.Node {
			if lb < 2 && rb < 2 {
				if lb == rb {
					return mtbdd.False
				}
				return mtbdd.True
			}
			ls, lbit := pd.leafToState(lb, lt)
			rs, rbit := pd.leafToState(rb, rt)
			return pd.pairToTerminalBDD(ls, rs, lbit != rbit)
		}
	default:
		return nil, ErrUnsupportedOperator
	}

	res := New(b)
	b.RegisterAllPropositionsOf(dfa1, res)
	b.RegisterAllPropositionsOf(dfa2, res)

	// seed the exploration with the initial pair
	pd.pairToTerminal(0, 0, false)
	for i := 0; i < len(pd.todo); i++ {
		s := pd.todo[i]
		left, leftF := bddAndFormulaFromState(s.left, dfa1)
		right, rightF := bddAndFormulaFromState(s.right, dfa2)
		root := b.Apply2Leaves(left, right, combine, cache, key, shortcut)
		res.States = append(res.States, root)
		if leftF != nil && rightF != nil {
			switch op {
			case ltlf.OpAnd:
				res.Names = append(res.Names, ltlf.And(leftF, rightF))
			case ltlf.OpOr:
				res.Names = append(res.Names, ltlf.Or(leftF, rightF))
			case ltlf.OpImplies:
				res.Names = append(res.Names, ltlf.Implies(leftF, rightF))
			case ltlf.OpEquiv:
				res.Names = append(res.Names, ltlf.Equiv(leftF, rightF))
			case ltlf.OpXor:
				res.Names = append(res.Names, ltlf.Xor(leftF, rightF))
			}
		}
	}

	res.APs = apUnion(dfa1.APs, dfa2.APs)
	return res, nil
}

// Product returns the conjunction of two automata: its language is
// the intersection of the input languages.
func Product(dfa1, dfa2 *MTDFA) (*MTDFA, error) {
	cache := mtbdd.NewExtCache(sizeEstimateProduct(dfa1, dfa2))
	return productAux(dfa1, dfa2, ltlf.OpAnd, cache, 0)
}

// ProductOr returns the disjunction of two automata.
func ProductOr(dfa1, dfa2 *MTDFA) (*MTDFA, error) {
	cache := mtbdd.NewExtCache(sizeEstimateProduct(dfa1, dfa2))
	return productAux(dfa1, dfa2, ltlf.OpOr, cache, 0)
}

// ProductImplies returns the automaton of L(dfa1) -> L(dfa2).
func ProductImplies(dfa1, dfa2 *MTDFA) (*MTDFA, error) {
	cache := mtbdd.NewExtCache(sizeEstimateProduct(dfa1, dfa2))
	return productAux(dfa1, dfa2, ltlf.OpImplies, cache, 0)
}

// ProductXor returns the symmetric difference of two automata.
func ProductXor(dfa1, dfa2 *MTDFA) (*MTDFA, error) {
	cache := mtbdd.NewExtCache(sizeEstimateProduct(dfa1, dfa2))
	return productAux(dfa1, dfa2, ltlf.OpXor, cache, 0)
}

// ProductXnor returns the automaton accepting the words on which the
// two inputs agree.
func ProductXnor(dfa1, dfa2 *MTDFA) (*MTDFA, error) {
	cache := mtbdd.NewExtCache(sizeEstimateProduct(dfa1, dfa2))
	return productAux(dfa1, dfa2, ltlf.OpEquiv, cache, 0)
}

// complementAux flips the accepting bit of every terminal and swaps
// the constants; the state set and the MTBDD structure are otherwise
// unchanged.
func complementAux(dfa *MTDFA, cache *mtbdd.ExtCache, key int) *MTDFA {
	b := dfa.Dict()
	res := New(b)
	b.RegisterAllPropositionsOf(dfa, res)
	res.APs = dfa.APs
	res.States = make([]mtbdd.Node, 0, len(dfa.States))
	res.Names = make([]*ltlf.Formula, 0, len(dfa.Names))

	for _, root := range dfa.States {
		res.States = append(res.States, b.Apply1(root, func(v int) int {
			return v ^ 1
		}, mtbdd.True, mtbdd.False, cache, key))
	}
	for _, name := range dfa.Names {
		res.Names = append(res.Names, ltlf.Not(name))
	}
	return res
}

// Complement returns the automaton of the complement language.
func Complement(dfa *MTDFA) *MTDFA {
	cache := mtbdd.NewExtCache(0)
	return complementAux(dfa, cache, 0)
}
