// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package mtdfa

import (
	"github.com/ltlfsynt/ltlfsynt/ltlf"
	"github.com/ltlfsynt/ltlfsynt/mtbdd"
)

// Minimize returns the automaton with the minimum number of states
// recognizing the same language as dfa.
func Minimize(dfa *MTDFA) *MTDFA {
	cache := mtbdd.NewExtCache(sizeEstimateUnary(dfa))
	iteration := 0
	return minimizeWith(dfa, cache, &iteration)
}

// minimizeWith is the shared-cache entry point used by the
// compositional translator: the cache and the iteration counter
// survive between calls, and the cache is wiped every 2^20
// iterations to bound its footprint.
//
// The minimization implements Moore's partition-refinement algorithm
// in the symbolic domain. Every state starts in class 0; at each
// round the MTBDD of each state is rewritten, replacing each
// terminal (dst, bit) by (class[dst], bit), and states are regrouped
// by the resulting signature. Two extra pseudo-states represent
// "equivalent to True" and "equivalent to False", so that states
// reducible to the constants are detected as well.
func minimizeWith(dfa *MTDFA, cache *mtbdd.ExtCache, iteration *int) *MTDFA {
	if *iteration >= 1<<20 {
		cache.Reset()
		*iteration = 0
	}

	b := dfa.Dict()
	n := dfa.NumRoots()

	// classes[i] is the class of state i; the two extra slots are
	// the pseudo-states for True (n) and False (n+1).
	classes := make([]int, n+2)
	acceptingFalseSeen := false
	rejectingTrueSeen := false
	renameClass := func(val int) int {
		accepting := val & 1
		cls := classes[val/2]
		if cls == n+accepting {
			if accepting == 1 {
				acceptingFalseSeen = true
			} else {
				rejectingTrueSeen = true
			}
		}
		return 2*cls + accepting
	}

	// Each unique signature is remembered in discovery order;
	// groups lists the states sharing it.
	var signatures []mtbdd.Node
	groups := make(map[mtbdd.Node][]int)
	for {
		*iteration++
		trueTerm := b.Terminal(2*classes[n] + 1)
		falseTerm := b.Terminal(2 * classes[n+1])
		acceptingFalseSeen = false
		rejectingTrueSeen = false
		for i := 0; i < n; i++ {
			sig := b.Apply1(dfa.States[i], renameClass, falseTerm, trueTerm,
				cache, *iteration)
			if len(groups[sig]) == 0 {
				signatures = append(signatures, sig)
			}
			groups[sig] = append(groups[sig], i)
		}
		// The pseudo-states for True and False are grouped last:
		// we do not know yet whether they correspond to real states
		// of the automaton.
		if len(groups[trueTerm]) == 0 {
			signatures = append(signatures, trueTerm)
		}
		groups[trueTerm] = append(groups[trueTerm], n)
		if len(groups[falseTerm]) == 0 {
			signatures = append(signatures, falseTerm)
		}
		groups[falseTerm] = append(groups[falseTerm], n+1)

		// Assign classes in signature-discovery order; this keeps
		// the class of state 0 at 0. A group containing a
		// pseudo-state keeps the pseudo-class number.
		curclass := 0
		changed := false
		for _, sig := range signatures {
			mapclass := curclass
			curclass++
			v := groups[sig]
			if vb := v[len(v)-1]; vb >= n {
				mapclass = vb
			}
			for _, i := range v {
				if classes[i] != mapclass {
					changed = true
					classes[i] = mapclass
				}
			}
		}
		if !changed {
			break
		}
		groups = make(map[mtbdd.Node][]int)
		signatures = signatures[:0]
	}

	// Unless some states are equivalent to the constants, the
	// signatures are the MTBDDs of the minimized automaton; we only
	// have to strip the pseudo-terminals. Note that False only
	// stands for (ff,⊥) and True for (tt,⊤): states for (ff,⊤) or
	// (tt,⊥) must survive if referenced.
	wantNames := len(dfa.Names) == n
	var names []*ltlf.Formula
	sz := len(signatures)
	j := 0 // next free state number
	*iteration++
	trueTerm := b.Terminal(2*classes[n] + 1)
	falseTerm := b.Terminal(2 * classes[n+1])
	needRemap := false
	for i := 0; i < sz; i++ {
		sig := signatures[i]
		v := groups[sig]
		vb := v[len(v)-1]
		if vb == n+1 { // equivalent to False
			if i == 0 { // the initial state is False
				if wantNames {
					names = append(names, ltlf.False())
				}
				signatures[0] = mtbdd.False
				j++
				break
			}
			if !acceptingFalseSeen {
				continue
			}
			// (ff,⊤) exists somewhere: give False a state number.
			classes[n+1] = j
			needRemap = true
		}
		if vb == n { // equivalent to True
			if i == 0 { // the initial state is True
				if wantNames {
					names = append(names, ltlf.True())
				}
				signatures[0] = mtbdd.True
				j++
				break
			}
			if !rejectingTrueSeen {
				continue
			}
			classes[n] = j
			needRemap = true
		}
		if wantNames {
			// Any state of the group can name the class; we pick
			// the first one.
			switch {
			case v[0] < n:
				names = append(names, dfa.Names[v[0]])
			case vb == n:
				names = append(names, ltlf.True())
			default:
				names = append(names, ltlf.False())
			}
		}
		// replace the pseudo-terminals by the constants; the other
		// terminals are left alone
		sig = b.TerminalToConst(sig, falseTerm, trueTerm, cache, *iteration)
		classes[i] = j
		if i != j {
			needRemap = true
		}
		signatures[j] = sig
		j++
	}
	signatures = signatures[:j]

	// If some class equivalent to the constants was skipped, the
	// remaining classes are renumbered to fill the holes.
	if needRemap {
		*iteration++
		for i, sig := range signatures {
			signatures[i] = b.Apply1(sig, renameClass, mtbdd.False, mtbdd.True,
				cache, *iteration)
		}
	}

	res := New(b)
	// Unless the automaton was reduced to a constant and has no
	// controllable variable, assume it still uses all its atomic
	// propositions.
	controllable := dfa.ControllableVariables()
	if (signatures[0] != mtbdd.False && signatures[0] != mtbdd.True) ||
		controllable != mtbdd.True {
		b.RegisterAllPropositionsOf(dfa, res)
		res.APs = dfa.APs
	}
	res.SetControllableVariables(controllable)
	res.Names = names
	res.States = signatures
	return res
}
