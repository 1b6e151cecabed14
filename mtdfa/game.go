// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package mtdfa

import (
	"github.com/ltlfsynt/ltlfsynt/backprop"
	"github.com/ltlfsynt/ltlfsynt/mtbdd"
)

// The game read on an MTDFA is a reachability game: the system picks
// the controllable variables, the environment the others, and the
// system wins a play that reaches an accepting leaf. A play that
// runs forever is a loss for the system, per finite-word semantics.

// buildReverseOfReachableGraph returns the reverse graph of the
// sub-automaton reachable from state 0 without traversing accepting
// terminals. By convention, the predecessors of 0 list the states
// that can reach an accepting leaf in one step (the seeds of the
// backward exploration), since real predecessors of the initial
// state are never needed.
func buildReverseOfReachableGraph(dfa *MTDFA) [][]int {
	b := dfa.Dict()
	n := dfa.NumRoots()
	reverse := make([][]int, n)

	var todo []int
	seen := make([]bool, n)
	seenLocal := make([]int, n) // last source seen as predecessor
	for i := range seenLocal {
		seenLocal[i] = -1
	}
	todo = append(todo, 0)
	seen[0] = true
	for len(todo) > 0 {
		src := todo[0]
		todo = todo[1:]
		hasAcc := false
		b.EachPathLeaf(dfa.States[src], func(leaf mtbdd.Node) {
			if leaf == mtbdd.False {
				return
			}
			if leaf == mtbdd.True {
				if !hasAcc {
					reverse[0] = append(reverse[0], src)
					hasAcc = true
				}
				return
			}
			dst := b.TerminalValue(leaf)
			if dst&1 == 1 {
				if !hasAcc {
					reverse[0] = append(reverse[0], src)
					hasAcc = true
				}
				return
			}
			dst /= 2
			if dst == 0 {
				return
			}
			if seenLocal[dst] == src {
				return
			}
			seenLocal[dst] = src
			reverse[dst] = append(reverse[dst], src)
			if !seen[dst] {
				todo = append(todo, dst)
				seen[dst] = true
			}
		})
	}
	return reverse
}

// WinningRegion solves the game with the plain region fixpoint:
// winning[i] holds when the system can force, from state i, a path
// to an accepting leaf. Every pass re-evaluates all undetermined
// states with the current region as the interpretation of
// non-accepting terminals, so the fixpoint is reached in at most
// NumRoots passes.
func WinningRegion(dfa *MTDFA) []bool {
	b := dfa.Dict()
	cache := mtbdd.NewExtCache(sizeEstimateUnary(dfa))
	iteration := 0

	nroots := dfa.NumRoots()
	winning := make([]bool, nroots)
	isWinningTerminal := func(v int) bool {
		return v&1 == 1 || winning[v/2]
	}

	b.QuantifyPrepare(dfa.ControllableVariables())

	for {
		hasChanged := false
		for i := 0; i < nroots; i++ {
			if winning[i] {
				continue
			}
			if b.QuantifyToBool(dfa.States[i], isWinningTerminal, cache, iteration) {
				// Changing winning changes the meaning of
				// isWinningTerminal, which would normally call for a
				// cache invalidation; reading stale entries is fine
				// here, as if the region were constant during one
				// pass. The new values are sure to be used on the
				// next pass.
				hasChanged = true
				winning[i] = true
			}
		}
		iteration++
		if !hasChanged {
			return winning
		}
	}
}

// WinningRegionLazy is the work-list variant of WinningRegion: only
// the predecessors of freshly-winning states are re-evaluated, and
// the computation stops as soon as state 0 is determined.
func WinningRegionLazy(dfa *MTDFA) []bool {
	b := dfa.Dict()
	cache := mtbdd.NewExtCache(sizeEstimateUnary(dfa))

	rev := buildReverseOfReachableGraph(dfa)
	nroots := dfa.NumRoots()
	winning := make([]bool, nroots)
	seen := make([]int, nroots) // last iteration seen
	for i := range seen {
		seen[i] = -1
	}
	isWinningTerminal := func(v int) bool {
		return v&1 == 1 || winning[v/2]
	}

	b.QuantifyPrepare(dfa.ControllableVariables())

	var todo, changed []int
	todo = append(todo, rev[0]...)
	for iteration := 0; len(todo) > 0; iteration++ {
		for len(todo) > 0 {
			i := todo[0]
			todo = todo[1:]
			if b.QuantifyToBool(dfa.States[i], isWinningTerminal, cache, iteration) {
				winning[i] = true
				if i == 0 {
					return winning
				}
				changed = append(changed, i)
			}
		}
		for _, i := range changed {
			for _, p := range rev[i] {
				if !winning[p] && seen[p] != iteration {
					seen[p] = iteration
					todo = append(todo, p)
				}
			}
		}
		changed = changed[:0]
	}
	return winning
}

// WinningRegionLazy3 is the three-valued variant: states start as
// maybe, and a state becomes true or false only when QuantifyToTrival
// decides it during the backward exploration. States that the
// exploration never evaluates, unreachable ones included, stay maybe.
func WinningRegionLazy3(dfa *MTDFA) []mtbdd.Trival {
	b := dfa.Dict()
	cache := mtbdd.NewExtCache(sizeEstimateUnary(dfa))

	rev := buildReverseOfReachableGraph(dfa)
	nroots := dfa.NumRoots()
	winning := make([]mtbdd.Trival, nroots)
	for i := range winning {
		winning[i] = mtbdd.TrivalMaybe
	}
	seen := make([]int, nroots)
	for i := range seen {
		seen[i] = -1
	}
	isWinningTerminal := func(v int) mtbdd.Trival {
		if v&1 == 1 {
			return mtbdd.TrivalTrue
		}
		return winning[v/2]
	}

	b.QuantifyPrepare(dfa.ControllableVariables())

	var todo, changed []int
	todo = append(todo, rev[0]...)
	for iteration := 0; len(todo) > 0; iteration++ {
		for len(todo) > 0 {
			i := todo[0]
			todo = todo[1:]
			if res := b.QuantifyToTrival(dfa.States[i], isWinningTerminal, cache, iteration); !res.IsMaybe() {
				winning[i] = res
				if i == 0 {
					return winning
				}
				changed = append(changed, i)
			}
		}
		for _, i := range changed {
			for _, p := range rev[i] {
				if winning[p].IsMaybe() && seen[p] != iteration {
					seen[p] = iteration
					todo = append(todo, p)
				}
			}
		}
		changed = changed[:0]
	}
	return winning
}

// restrictAsGameAux keeps only the part of the automaton reachable
// when accepting terminals are taken as final: accepting terminals
// become True, losing destinations (per the optional winning vector)
// become False, and the remaining destinations are renumbered in
// discovery order.
func restrictAsGameAux(dfa *MTDFA, isWinning func(dst int) bool) *MTDFA {
	b := dfa.Dict()
	cache := mtbdd.NewExtCache(sizeEstimateUnary(dfa))

	res := New(b)
	b.RegisterAllPropositionsOf(dfa, res)
	res.APs = dfa.APs
	res.SetControllableVariables(dfa.ControllableVariables())
	keepNames := len(dfa.Names) == len(dfa.States)

	termMap := map[int]int{0: 0}
	todo := []int{0}
	remap := func(leaf mtbdd.Node, term int) mtbdd.Node {
		if leaf < 2 {
			return leaf
		}
		if term&1 == 1 {
			return mtbdd.True
		}
		dst := term / 2
		if isWinning != nil && !isWinning(dst) {
			return mtbdd.False
		}
		if newTerm, ok := termMap[term]; ok {
			if newTerm == term {
				return leaf
			}
			return b.Terminal(newTerm)
		}
		newTerm := len(termMap) * 2
		termMap[term] = newTerm
		todo = append(todo, dst)
		if newTerm == term {
			return leaf
		}
		return b.Terminal(newTerm)
	}
	for i := 0; i < len(todo); i++ {
		state := todo[i]
		root := b.Apply1Leaves(dfa.States[state], remap, cache, 0)
		res.States = append(res.States, root)
		if keepNames {
			res.Names = append(res.Names, dfa.Names[state])
		}
	}
	return res
}

// RestrictAsGame restricts the automaton to its game-reachable part.
func RestrictAsGame(dfa *MTDFA) *MTDFA {
	return restrictAsGameAux(dfa, nil)
}

// RestrictAsGameWinning also prunes the states losing per a
// Boolean winning vector.
func RestrictAsGameWinning(dfa *MTDFA, winning []bool) *MTDFA {
	return restrictAsGameAux(dfa, func(dst int) bool { return winning[dst] })
}

// RestrictAsGameWinning3 prunes per a three-valued winning vector:
// only definitely-winning destinations are kept.
func RestrictAsGameWinning3(dfa *MTDFA, winning []mtbdd.Trival) *MTDFA {
	return restrictAsGameAux(dfa, func(dst int) bool { return winning[dst].IsTrue() })
}

// ToBackprop encodes the whole automaton into a node-level game
// arena. With earlyStop, the encoding stops as soon as the initial
// state is determined. With preserveNames, arena vertices standing
// for automaton states are labeled.
func ToBackprop(dfa *MTDFA, earlyStop, preserveNames bool) *backprop.Graph {
	b := dfa.Dict()
	enc := newBDDEncoder(b)
	b.QuantifyPrepare(dfa.ControllableVariables())
	for i := range dfa.States {
		name := ""
		if preserveNames {
			name = dfa.stateName(i)
		}
		if enc.encodeState(i, dfa.States[i], name, nil, nil, false) && earlyStop {
			break
		}
	}
	return enc.graph
}
