// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package mtdfa

import (
	"container/heap"
	"sort"

	"github.com/ltlfsynt/ltlfsynt/ltlf"
	"github.com/ltlfsynt/ltlfsynt/mtbdd"
)

// The compositional translator descends over the propositional
// structure of the formula, translates the temporal leaves with the
// direct translator, and combines the pieces with n-ary products,
// smallest automata first. Minimizing an intermediate product only
// pays off when the product does not introduce new atomic
// propositions, hence the AP bookkeeping.

type composeData struct {
	dict          *mtbdd.Dict
	mincache      *mtbdd.ExtCache
	minIteration  int
	opcache       *mtbdd.ExtCache
	opIteration   int
	simplifyTerms bool
	fuseSameBDDs  bool
	wantMinimize  bool
	orderForAPs   bool
	wantNames     bool
}

func (cd *composeData) trans(f *ltlf.Formula) *MTDFA {
	return LtlfToMTDFA(f, cd.dict, cd.fuseSameBDDs, cd.simplifyTerms, true)
}

func (cd *composeData) product(left, right *MTDFA, op ltlf.Op) *MTDFA {
	cd.opcache.Reserve(sizeEstimateProduct(left, right))
	res, _ := productAux(left, right, op, cd.opcache, cd.opIteration)
	cd.opIteration++
	return res
}

func (cd *composeData) minimize(dfa *MTDFA) *MTDFA {
	if !cd.wantMinimize {
		return dfa
	}
	cd.mincache.Reserve(sizeEstimateUnary(dfa))
	return minimizeWith(dfa, cd.mincache, &cd.minIteration)
}

// dfaHeap is a min-heap of automata ordered by state count only.
// Among automata of equal size, the pop order follows the heap's
// internal arrangement rather than insertion order; it is the same
// on every run with the same input.
type dfaHeap []*MTDFA

func (h dfaHeap) Len() int            { return len(h) }
func (h dfaHeap) Less(i, j int) bool  { return h[i].NumRoots() < h[j].NumRoots() }
func (h dfaHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *dfaHeap) Push(x interface{}) { *h = append(*h, x.(*MTDFA)) }
func (h *dfaHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// bitset is a fixed-size bit vector recording which atomic
// propositions of the whole formula an automaton uses.
type bitset []uint64

func newBitset(n int) bitset {
	return make(bitset, (n+63)/64)
}

func (s bitset) set(i int) {
	s[i/64] |= 1 << (i % 64)
}

func (s bitset) intersects(o bitset) bool {
	for i := range s {
		if s[i]&o[i] != 0 {
			return true
		}
	}
	return false
}

func (s bitset) or(o bitset) {
	for i := range s {
		s[i] |= o[i]
	}
}

func composeRec(cd *composeData, f *ltlf.Formula) *MTDFA {
	if f.IsBoolean() {
		return cd.trans(f)
	}
	switch op := f.Op(); op {
	case ltlf.OpNot:
		sub := composeRec(cd, f.Child(0))
		cd.opcache.Reserve(sizeEstimateUnary(sub))
		res := complementAux(sub, cd.opcache, cd.opIteration)
		cd.opIteration++
		return res
	case ltlf.OpAnd, ltlf.OpOr:
		if f.Size() == 2 {
			return composeBinary(cd, f.Child(0), f.Child(1), op)
		}
		if !cd.orderForAPs {
			dfas := make(dfaHeap, 0, f.Size())
			for _, sub := range f.Children() {
				dfas = append(dfas, composeRec(cd, sub))
			}
			// Combine the automata pairwise, smallest first.
			heap.Init(&dfas)
			for len(dfas) > 1 {
				left := heap.Pop(&dfas).(*MTDFA)
				right := heap.Pop(&dfas).(*MTDFA)
				prod := cd.product(left, right, op)
				if len(left.APs)+len(right.APs) != len(prod.APs) {
					prod = cd.minimize(prod)
				}
				heap.Push(&dfas, prod)
			}
			return dfas[0]
		}
		return composeByAPs(cd, f, op)
	case ltlf.OpXor, ltlf.OpImplies, ltlf.OpEquiv:
		return composeBinary(cd, f.Child(0), f.Child(1), op)
	case ltlf.OpUntil, ltlf.OpRelease, ltlf.OpWeakUntil, ltlf.OpStrongRelease,
		ltlf.OpGlobally, ltlf.OpEventually, ltlf.OpNext, ltlf.OpStrongNext:
		dfa := cd.trans(f)
		if !cd.wantNames {
			dfa.Names = nil
		}
		return cd.minimize(dfa)
	}
	return cd.trans(f)
}

func composeBinary(cd *composeData, l, r *ltlf.Formula, op ltlf.Op) *MTDFA {
	left := composeRec(cd, l)
	right := composeRec(cd, r)
	prod := cd.product(left, right, op)
	if len(left.APs)+len(right.APs) == len(prod.APs) {
		return prod
	}
	return cd.minimize(prod)
}

// composeByAPs implements the AP-affinity ordering: repeatedly
// product the smallest automaton with the first later automaton that
// shares an atomic proposition with it, minimizing each product.
// Automata sharing no proposition with anybody else are set aside
// and combined pairwise at the end, without minimization: with no
// proposition in common, the product cannot create mergeable states.
func composeByAPs(cd *composeData, f *ltlf.Formula, op ltlf.Op) *MTDFA {
	aps := ltlf.CollectAtoms(f)
	apIndex := make(map[string]int, len(aps))
	for i, ap := range aps {
		apIndex[ap] = i
	}

	type entry struct {
		dfa *MTDFA
		aps bitset
	}
	entries := make([]*entry, 0, f.Size())
	for _, sub := range f.Children() {
		dfasub := composeRec(cd, sub)
		vec := newBitset(len(aps))
		for _, ap := range dfasub.APs {
			if i, ok := apIndex[ap]; ok {
				vec.set(i)
			}
		}
		entries = append(entries, &entry{dfasub, vec})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].dfa.NumRoots() < entries[j].dfa.NumRoots()
	})

	var independent []*MTDFA
	for len(entries) > 1 {
		first := entries[0]
		// find the first later automaton sharing a proposition
		pos := -1
		for i := 1; i < len(entries); i++ {
			if first.aps.intersects(entries[i].aps) {
				pos = i
				break
			}
		}
		if pos < 0 {
			independent = append(independent, first.dfa)
			entries = entries[1:]
			continue
		}
		other := entries[pos]
		prod := cd.product(first.dfa, other.dfa, op)
		min := cd.minimize(prod)
		first.aps.or(other.aps)
		// drop the two operands and insert the product at its
		// size-sorted position
		entries = append(entries[1:pos], entries[pos+1:]...)
		ins := sort.Search(len(entries), func(i int) bool {
			return entries[i].dfa.NumRoots() >= min.NumRoots()
		})
		entries = append(entries, nil)
		copy(entries[ins+1:], entries[ins:])
		entries[ins] = &entry{min, first.aps}
	}
	if len(independent) == 0 {
		return entries[0].dfa
	}
	independent = append(independent, entries[0].dfa)
	dfas := dfaHeap(independent)
	heap.Init(&dfas)
	for len(dfas) > 1 {
		left := heap.Pop(&dfas).(*MTDFA)
		right := heap.Pop(&dfas).(*MTDFA)
		heap.Push(&dfas, cd.product(left, right, op))
	}
	return dfas[0]
}

// LtlfToMTDFACompose translates f by composition over its
// propositional structure. minimize enables intermediate
// minimization, orderByAPs the AP-affinity ordering, keepNames the
// formula labels on states.
func LtlfToMTDFACompose(f *ltlf.Formula, dict *mtbdd.Dict, minimize, orderByAPs,
	keepNames, fuseSameBDDs, simplifyTerms bool) *MTDFA {
	cd := &composeData{
		dict:          dict,
		mincache:      mtbdd.NewExtCache(0),
		opcache:       mtbdd.NewExtCache(0),
		simplifyTerms: simplifyTerms,
		fuseSameBDDs:  fuseSameBDDs,
		wantMinimize:  minimize,
		orderForAPs:   orderByAPs,
		wantNames:     keepNames,
	}
	return composeRec(cd, f)
}
