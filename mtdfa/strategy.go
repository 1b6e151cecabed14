// Copyright (c) 2026 The ltlfsynt authors
//
// MIT License

package mtdfa

import (
	"github.com/ltlfsynt/ltlfsynt/ltlf"
	"github.com/ltlfsynt/ltlfsynt/mtbdd"
)

// winningStrategyByRefinement extracts a strategy with the lazy
// region fixpoint: each time a state is found winning, its MTBDD is
// rewritten so that system nodes keep only a winning branch and
// accepting terminals become True. States that never become winning
// are finally replaced by False.
func winningStrategyByRefinement(dfa *MTDFA) *MTDFA {
	b := dfa.Dict()
	cache := mtbdd.NewExtCache(sizeEstimateUnary(dfa))

	rev := buildReverseOfReachableGraph(dfa)

	res := New(b)
	b.RegisterAllPropositionsOf(dfa, res)
	res.APs = dfa.APs
	res.States = append([]mtbdd.Node(nil), dfa.States...)
	res.Names = append([]*ltlf.Formula(nil), dfa.Names...)
	res.SetControllableVariables(dfa.ControllableVariables())

	nroots := len(res.States)
	winning := make([]bool, nroots)
	seen := make([]int, nroots)
	for i := range seen {
		seen[i] = -1
	}
	finalize := func(term int) (mtbdd.Node, bool) {
		// replace accepting terminals by True
		if term&1 == 1 {
			return mtbdd.True, true
		}
		return b.Terminal(term), winning[term/2]
	}

	b.QuantifyPrepare(dfa.ControllableVariables())

	var todo, changed []int
	todo = append(todo, rev[0]...)
	done := false
	for iteration := 0; !done && len(todo) > 0; iteration++ {
		for len(todo) > 0 {
			i := todo[0]
			todo = todo[1:]
			// the state may have been found winning after it was
			// scheduled
			if winning[i] {
				continue
			}
			if restricted, win := b.Apply1Synthesis(res.States[i], finalize,
				cache, iteration); win {
				res.States[i] = restricted
				winning[i] = true
				if i == 0 {
					done = true
					break
				}
				changed = append(changed, i)
			}
		}
		if done {
			break
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

	for i := 0; i < nroots; i++ {
		if !winning[i] {
			res.States[i] = mtbdd.False
		}
	}
	return res
}

// winningStrategyByBackprop encodes the automaton into a node-level
// arena, solves it by back-propagation, and projects the recorded
// choices out of every state.
func winningStrategyByBackprop(dfa *MTDFA) *MTDFA {
	b := dfa.Dict()
	res := New(b)
	enc := newBDDEncoder(b)
	outputs := dfa.ControllableVariables()
	b.QuantifyPrepare(outputs)
	for i := range dfa.States {
		if enc.encodeState(i, dfa.States[i], "", nil, nil, false) {
			break
		}
	}
	if !enc.rootWinner(0) {
		res.States = []mtbdd.Node{mtbdd.False}
		res.Names = []*ltlf.Formula{ltlf.False()}
		return res
	}

	cache := mtbdd.NewExtCache(sizeEstimateUnary(dfa))
	res.States = append([]mtbdd.Node(nil), dfa.States...)
	res.Names = append([]*ltlf.Formula(nil), dfa.Names...)
	finalize := func(term int) (mtbdd.Node, bool) {
		// replace accepting terminals by True
		if term&1 == 1 {
			return mtbdd.True, true
		}
		// replace losing terminals by False, keep winning ones
		if !enc.rootWinner(term / 2) {
			return mtbdd.False, false
		}
		return b.Terminal(term), true
	}
	for i := range res.States {
		res.States[i] = b.Apply1SynthesisWithChoice(res.States[i],
			enc.getChoice, finalize, cache, keyFinalStrat)
	}
	b.RegisterAllPropositionsOf(dfa, res)
	res.APs = dfa.APs
	res.SetControllableVariables(outputs)
	return res
}

// WinningStrategy returns a strategy MTDFA for the game on dfa: a
// restriction of the automaton in which every system decision
// consistent with winning has been resolved. When the game is lost
// from the initial state, the single-state False automaton is
// returned by the backprop flavor, and an automaton whose losing
// states are False by the refinement flavor.
func WinningStrategy(dfa *MTDFA, useBackprop bool) *MTDFA {
	if useBackprop {
		return winningStrategyByBackprop(dfa)
	}
	return winningStrategyByRefinement(dfa)
}
